package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
)

var _ repository.ConfiguracaoFiscalRepository = (*ConfiguracaoFiscalRepo)(nil)

// ConfiguracaoFiscalRepo implementação de ConfiguracaoFiscalRepository.
type ConfiguracaoFiscalRepo struct {
	q Querier
}

func NewConfiguracaoFiscalRepository(q Querier) *ConfiguracaoFiscalRepo {
	return &ConfiguracaoFiscalRepo{q: q}
}

// GetByLoja devolve a configuração fiscal da loja, ou (nil, nil) se não existe.
func (r *ConfiguracaoFiscalRepo) GetByLoja(lojaID string) (*entity.ConfiguracaoFiscalLoja, error) {
	query := `
		SELECT id, loja_id, COALESCE(inscricao_estadual, ''), COALESCE(regime_tributario, ''),
		       ambiente, serie_nfe, serie_nfce, proximo_numero_nfe, proximo_numero_nfce,
		       usar_reforma_2026, aliquota_ibs_padrao_2026, aliquota_cbs_padrao_2026,
		       created_at, updated_at
		FROM configuracoes_fiscais_loja WHERE loja_id = $1`
	var c entity.ConfiguracaoFiscalLoja
	err := r.q.QueryRow(context.Background(), query, lojaID).Scan(
		&c.ID, &c.LojaID, &c.InscricaoEstadual, &c.RegimeTributario,
		&c.Ambiente, &c.SerieNFE, &c.SerieNFCE, &c.ProximoNumeroNFE, &c.ProximoNumeroNFCE,
		&c.UsarReforma2026, &c.AliquotaIBSPadrao2026, &c.AliquotaCBSPadrao2026,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get configuração fiscal: %w", err)
	}
	return &c, nil
}

// Salvar grava a configuração fiscal (upsert por loja).
func (r *ConfiguracaoFiscalRepo) Salvar(cfg *entity.ConfiguracaoFiscalLoja) error {
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	query := `
		INSERT INTO configuracoes_fiscais_loja (
			id, loja_id, inscricao_estadual, regime_tributario, ambiente,
			serie_nfe, serie_nfce, proximo_numero_nfe, proximo_numero_nfce,
			usar_reforma_2026, aliquota_ibs_padrao_2026, aliquota_cbs_padrao_2026,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (loja_id) DO UPDATE SET
			inscricao_estadual       = EXCLUDED.inscricao_estadual,
			regime_tributario        = EXCLUDED.regime_tributario,
			ambiente                 = EXCLUDED.ambiente,
			serie_nfe                = EXCLUDED.serie_nfe,
			serie_nfce               = EXCLUDED.serie_nfce,
			proximo_numero_nfe       = EXCLUDED.proximo_numero_nfe,
			proximo_numero_nfce      = EXCLUDED.proximo_numero_nfce,
			usar_reforma_2026        = EXCLUDED.usar_reforma_2026,
			aliquota_ibs_padrao_2026 = EXCLUDED.aliquota_ibs_padrao_2026,
			aliquota_cbs_padrao_2026 = EXCLUDED.aliquota_cbs_padrao_2026,
			updated_at               = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		cfg.ID, cfg.LojaID, nullIfEmpty(cfg.InscricaoEstadual), nullIfEmpty(cfg.RegimeTributario),
		cfg.Ambiente, cfg.SerieNFE, cfg.SerieNFCE, cfg.ProximoNumeroNFE, cfg.ProximoNumeroNFCE,
		cfg.UsarReforma2026, cfg.AliquotaIBSPadrao2026, cfg.AliquotaCBSPadrao2026,
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("salvar configuração fiscal: %w", err)
	}
	return nil
}

// AtualizarProximoNumeroNFE avança o contador de numeração NF-e da loja.
func (r *ConfiguracaoFiscalRepo) AtualizarProximoNumeroNFE(lojaID string, proximo int) error {
	query := `
		UPDATE configuracoes_fiscais_loja
		SET proximo_numero_nfe = $2, updated_at = $3
		WHERE loja_id = $1`
	tag, err := r.q.Exec(context.Background(), query, lojaID, proximo, time.Now())
	if err != nil {
		return fmt.Errorf("atualizar próximo número: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("atualizar próximo número: loja %s sem configuração", lojaID)
	}
	return nil
}
