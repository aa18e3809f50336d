package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
)

var _ repository.NotaFiscalRepository = (*NotaFiscalRepo)(nil)

const notaColunas = `
	id, loja_id, cliente_id, pedido_venda_id, tipo_documento, numero, serie,
	COALESCE(chave_acesso, ''), valor_total, status, data_emissao,
	COALESCE(motivo_cancelamento, ''),
	base_ibs_total, valor_ibs_total, base_cbs_total, valor_cbs_total,
	impostos_snapshot, ativa, created_by, created_at, updated_at`

// NotaFiscalRepo implementação de NotaFiscalRepository (usável com pool ou tx).
type NotaFiscalRepo struct {
	q Querier
}

// NewNotaFiscalRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewNotaFiscalRepository(q Querier) *NotaFiscalRepo {
	return &NotaFiscalRepo{q: q}
}

// Create persiste uma nota fiscal de saída em rascunho.
func (r *NotaFiscalRepo) Create(nota *entity.NotaFiscalSaida) error {
	if nota.ID == "" {
		nota.ID = uuid.New().String()
	}
	query := `
		INSERT INTO notas_fiscais_saida (
			id, loja_id, cliente_id, pedido_venda_id, tipo_documento, numero, serie,
			chave_acesso, valor_total, status, data_emissao, motivo_cancelamento,
			base_ibs_total, valor_ibs_total, base_cbs_total, valor_cbs_total,
			impostos_snapshot, ativa, created_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(context.Background(), query,
		nota.ID, nota.LojaID, nota.ClienteID, derefOrNil(nota.PedidoVendaID),
		nota.TipoDocumento, nota.Numero, nota.Serie,
		nullIfEmpty(nota.ChaveAcesso), nota.ValorTotal, nota.Status,
		nota.DataEmissao, nullIfEmpty(nota.MotivoCancelamento),
		nota.BaseIBSTotal, nota.ValorIBSTotal, nota.BaseCBSTotal, nota.ValorCBSTotal,
		snapshotOuNil(nota), nota.Ativa, nota.CreatedBy, nota.CreatedAt, nota.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de nota já existe: %w", err)
		}
		return fmt.Errorf("insert nota fiscal: %w", err)
	}
	return nil
}

// GetByID obtém uma nota completa por ID. Devolve (nil, nil) quando não existe.
func (r *NotaFiscalRepo) GetByID(id string) (*entity.NotaFiscalSaida, error) {
	query := `SELECT ` + notaColunas + ` FROM notas_fiscais_saida WHERE id = $1`
	return r.scanUma(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate lê a nota bloqueando a linha (SELECT ... FOR UPDATE).
// Só faz sentido dentro de uma transação.
func (r *NotaFiscalRepo) GetByIDForUpdate(id string) (*entity.NotaFiscalSaida, error) {
	query := `SELECT ` + notaColunas + ` FROM notas_fiscais_saida WHERE id = $1 FOR UPDATE`
	return r.scanUma(r.q.QueryRow(context.Background(), query, id))
}

// GetAtivaByPedido busca a nota ativa de um pedido para o tipo de documento.
func (r *NotaFiscalRepo) GetAtivaByPedido(pedidoID, tipoDocumento string) (*entity.NotaFiscalSaida, error) {
	query := `SELECT ` + notaColunas + `
		FROM notas_fiscais_saida
		WHERE pedido_venda_id = $1 AND tipo_documento = $2 AND ativa = TRUE
		ORDER BY created_at DESC
		LIMIT 1`
	return r.scanUma(r.q.QueryRow(context.Background(), query, pedidoID, tipoDocumento))
}

// List devolve as notas que casam com o filtro, mais o total de registros.
func (r *NotaFiscalRepo) List(f repository.NotaFiscalFilter) ([]*entity.NotaFiscalSaida, int, error) {
	where, args := r.montarWhere(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM notas_fiscais_saida n LEFT JOIN clientes c ON c.id = n.cliente_id ` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notas: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT
			n.id, n.loja_id, n.cliente_id, n.pedido_venda_id, n.tipo_documento, n.numero, n.serie,
			COALESCE(n.chave_acesso, ''), n.valor_total, n.status, n.data_emissao,
			COALESCE(n.motivo_cancelamento, ''),
			n.base_ibs_total, n.valor_ibs_total, n.base_cbs_total, n.valor_cbs_total,
			n.impostos_snapshot, n.ativa, n.created_by, n.created_at, n.updated_at
		FROM notas_fiscais_saida n
		LEFT JOIN clientes c ON c.id = n.cliente_id ` + where +
		fmt.Sprintf(` ORDER BY n.created_at DESC LIMIT %d OFFSET %d`, limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notas: %w", err)
	}
	defer rows.Close()

	var list []*entity.NotaFiscalSaida
	for rows.Next() {
		nota, err := r.scanUma(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, nota)
	}
	return list, total, rows.Err()
}

// SomaValor soma o valor_total das notas que casam com o filtro.
func (r *NotaFiscalRepo) SomaValor(f repository.NotaFiscalFilter) (decimal.Decimal, error) {
	where, args := r.montarWhere(f)
	query := `SELECT COALESCE(SUM(n.valor_total), 0)
		FROM notas_fiscais_saida n
		LEFT JOIN clientes c ON c.id = n.cliente_id ` + where
	var soma decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&soma); err != nil {
		return decimal.Zero, fmt.Errorf("somar notas: %w", err)
	}
	return soma, nil
}

// ExisteNumero informa se já existe nota com o número na série/tipo da loja.
func (r *NotaFiscalRepo) ExisteNumero(lojaID, tipoDocumento, serie string, numero int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notas_fiscais_saida
			WHERE loja_id = $1 AND tipo_documento = $2 AND serie = $3 AND numero = $4
		)`
	var existe bool
	if err := r.q.QueryRow(context.Background(), query, lojaID, tipoDocumento, serie, numero).Scan(&existe); err != nil {
		return false, fmt.Errorf("verificar número: %w", err)
	}
	return existe, nil
}

// MaxNumero devolve o maior número emitido na série/tipo da loja (0 se nenhum).
func (r *NotaFiscalRepo) MaxNumero(lojaID, tipoDocumento, serie string) (int, error) {
	query := `
		SELECT COALESCE(MAX(numero), 0) FROM notas_fiscais_saida
		WHERE loja_id = $1 AND tipo_documento = $2 AND serie = $3`
	var max int
	if err := r.q.QueryRow(context.Background(), query, lojaID, tipoDocumento, serie).Scan(&max); err != nil {
		return 0, fmt.Errorf("max número: %w", err)
	}
	return max, nil
}

// AtualizarAutorizacao grava o resultado da autorização em uma única escrita:
// status, data de emissão, cache IBS/CBS e snapshot.
func (r *NotaFiscalRepo) AtualizarAutorizacao(nota *entity.NotaFiscalSaida) error {
	query := `
		UPDATE notas_fiscais_saida
		SET status            = $2,
		    data_emissao      = $3,
		    base_ibs_total    = $4,
		    valor_ibs_total   = $5,
		    base_cbs_total    = $6,
		    valor_cbs_total   = $7,
		    impostos_snapshot = $8,
		    updated_at        = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		nota.ID, nota.Status, nota.DataEmissao,
		nota.BaseIBSTotal, nota.ValorIBSTotal, nota.BaseCBSTotal, nota.ValorCBSTotal,
		snapshotOuNil(nota), nota.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("atualizar autorização: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("atualizar autorização: nota %s não encontrada", nota.ID)
	}
	return nil
}

func (r *NotaFiscalRepo) montarWhere(f repository.NotaFiscalFilter) (string, []any) {
	conds := []string{"n.ativa = TRUE"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.LojaID != "" {
		conds = append(conds, "n.loja_id = "+arg(f.LojaID))
	}
	if f.Status != "" {
		conds = append(conds, "n.status = "+arg(f.Status))
	}
	if f.TipoDocumento != "" {
		conds = append(conds, "n.tipo_documento = "+arg(f.TipoDocumento))
	}
	if f.Busca != "" {
		p := arg("%" + f.Busca + "%")
		conds = append(conds, fmt.Sprintf(
			"(CAST(n.numero AS TEXT) ILIKE %s OR n.chave_acesso ILIKE %s OR c.nome_razao_social ILIKE %s)", p, p, p))
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *NotaFiscalRepo) scanUma(row rowScanner) (*entity.NotaFiscalSaida, error) {
	var n entity.NotaFiscalSaida
	var pedidoID *string
	var snapshot []byte
	err := row.Scan(
		&n.ID, &n.LojaID, &n.ClienteID, &pedidoID, &n.TipoDocumento, &n.Numero, &n.Serie,
		&n.ChaveAcesso, &n.ValorTotal, &n.Status, &n.DataEmissao,
		&n.MotivoCancelamento,
		&n.BaseIBSTotal, &n.ValorIBSTotal, &n.BaseCBSTotal, &n.ValorCBSTotal,
		&snapshot, &n.Ativa, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan nota fiscal: %w", err)
	}
	n.PedidoVendaID = pedidoID
	n.ImpostosSnapshot = snapshot
	return &n, nil
}

// snapshotOuNil evita gravar JSONB vazio: snapshot ausente fica NULL.
func snapshotOuNil(nota *entity.NotaFiscalSaida) any {
	if len(nota.ImpostosSnapshot) == 0 {
		return nil
	}
	return []byte(nota.ImpostosSnapshot)
}
