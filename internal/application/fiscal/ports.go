package fiscal

import (
	"context"

	"github.com/aladinsys/fiscal-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação com os repositórios
// fiscais atados a ela. Usado no congelamento: status, cache IBS/CBS e
// snapshot são gravados em uma única transação atômica, com o status
// reverificado dentro dela.
type TxRunner interface {
	RunFiscal(ctx context.Context, fn func(
		notaRepo repository.NotaFiscalRepository,
		configRepo repository.ConfiguracaoFiscalRepository,
		pedidoRepo repository.PedidoVendaRepository,
	) error) error
}
