package repository

import "github.com/aladinsys/fiscal-api/internal/domain/entity"

// ConfiguracaoFiscalRepository define o porto de persistência para a
// configuração fiscal por loja.
type ConfiguracaoFiscalRepository interface {
	// GetByLoja devolve (nil, nil) quando a loja não tem configuração:
	// ausência é estado válido (reforma desligada, regime desconhecido).
	GetByLoja(lojaID string) (*entity.ConfiguracaoFiscalLoja, error)
	Salvar(cfg *entity.ConfiguracaoFiscalLoja) error
	AtualizarProximoNumeroNFE(lojaID string, proximo int) error
}
