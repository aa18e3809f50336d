package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aladinsys/fiscal-api/internal/domain"
	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	domfiscal "github.com/aladinsys/fiscal-api/internal/domain/fiscal"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
	"github.com/aladinsys/fiscal-api/pkg/logger"
)

// AutorizarNotaUseCase congela os impostos da nota na transição
// RASCUNHO → AUTORIZADA.
//
// Depois da autorização os valores não são recalculados nunca mais:
// mudança de configuração ou de alíquota não pode alterar retroativamente
// os impostos declarados de um documento já emitido.
type AutorizarNotaUseCase struct {
	txRunner TxRunner
	notaRepo repository.NotaFiscalRepository
	impostos *ImpostosNotaUseCase
	log      *logger.Logger
}

// NewAutorizarNotaUseCase constrói o caso de uso.
func NewAutorizarNotaUseCase(
	txRunner TxRunner,
	notaRepo repository.NotaFiscalRepository,
	impostos *ImpostosNotaUseCase,
	log *logger.Logger,
) *AutorizarNotaUseCase {
	return &AutorizarNotaUseCase{
		txRunner: txRunner,
		notaRepo: notaRepo,
		impostos: impostos,
		log:      log,
	}
}

// Autorizar executa o congelamento: calcula os totais com os itens e a
// configuração atuais, grava snapshot + cache IBS/CBS + status AUTORIZADA
// em uma única transação e devolve os totais congelados.
//
// Idempotente: nota já AUTORIZADA devolve o snapshot existente sem
// recálculo nem segunda escrita. Nota REJEITADA ou CANCELADA é recusada.
// Erro de cálculo aborta a transição e a nota permanece RASCUNHO.
func (uc *AutorizarNotaUseCase) Autorizar(ctx context.Context, lojaID, notaID string) (domfiscal.TotaisNota, error) {
	nota, err := uc.notaRepo.GetByID(notaID)
	if err != nil {
		return domfiscal.TotaisNota{}, err
	}
	if nota == nil {
		return domfiscal.TotaisNota{}, domain.ErrNotFound
	}
	if lojaID != "" && nota.LojaID != lojaID {
		return domfiscal.TotaisNota{}, domain.ErrForbidden
	}

	switch nota.Status {
	case entity.StatusAutorizada:
		// Proteção contra double-freeze: devolve o congelado.
		totais, _, err := uc.impostos.impostosDaNota(ctx, nota, false)
		return totais, err
	case entity.StatusRejeitada, entity.StatusCancelada:
		return domfiscal.TotaisNota{}, domain.ErrNotaNaoAutorizavel
	case entity.StatusEmProcessamento:
		return domfiscal.TotaisNota{}, domain.ErrConflict
	}

	var totais domfiscal.TotaisNota
	err = uc.txRunner.RunFiscal(ctx, func(
		notaRepo repository.NotaFiscalRepository,
		configRepo repository.ConfiguracaoFiscalRepository,
		pedidoRepo repository.PedidoVendaRepository,
	) error {
		// Reverificar o status DENTRO da transação, com a linha bloqueada:
		// o status funciona como lock otimista contra freezes concorrentes.
		n, err := notaRepo.GetByIDForUpdate(notaID)
		if err != nil {
			return err
		}
		if n == nil {
			return domain.ErrNotFound
		}
		switch n.Status {
		case entity.StatusAutorizada:
			// Outro freeze venceu a corrida: leitura, não escrita.
			t, errDec := domfiscal.DecodificarSnapshot(n.ImpostosSnapshot, cacheReformaDaNota(n))
			if errDec != nil {
				return errDec
			}
			totais = t
			return nil
		case entity.StatusRejeitada, entity.StatusCancelada:
			return domain.ErrNotaNaoAutorizavel
		case entity.StatusEmProcessamento:
			return domain.ErrConflict
		}

		if n.PedidoVendaID == nil {
			return fmt.Errorf("%w: nota sem pedido de venda não pode ser congelada", domain.ErrInvalidInput)
		}
		itens, err := pedidoRepo.GetItensAtivos(*n.PedidoVendaID)
		if err != nil {
			return err
		}
		if len(itens) == 0 {
			return domain.ErrPedidoSemItens
		}
		if err := validarItens(itens); err != nil {
			return err
		}

		config, err := configRepo.GetByLoja(n.LojaID)
		if err != nil {
			return err
		}
		regime := ""
		if config != nil {
			regime = config.RegimeTributario
		}

		fiscais := montarItensFiscais(itens)
		totais = domfiscal.CalcularImpostosNota(fiscais, regime, config)

		registros := make([]domfiscal.SnapshotItem, 0, len(fiscais))
		for _, item := range fiscais {
			imp := domfiscal.CalcularImpostosItem(item, regime, config)
			registros = append(registros, domfiscal.CodificarSnapshotItem(item, imp))
		}
		raw, err := domfiscal.MarshalSnapshot(registros)
		if err != nil {
			return err
		}

		agora := time.Now()
		n.Status = entity.StatusAutorizada
		n.DataEmissao = &agora
		n.BaseIBSTotal = decimal.NewNullDecimal(totais.BaseIBS)
		n.ValorIBSTotal = decimal.NewNullDecimal(totais.ValorIBS)
		n.BaseCBSTotal = decimal.NewNullDecimal(totais.BaseCBS)
		n.ValorCBSTotal = decimal.NewNullDecimal(totais.ValorCBS)
		n.ImpostosSnapshot = raw

		// Escrita única e atômica: status + cache + snapshot.
		return notaRepo.AtualizarAutorizacao(n)
	})
	if err != nil {
		return domfiscal.TotaisNota{}, err
	}

	uc.log.Info().
		Str("nota_id", notaID).
		Str("loja_id", nota.LojaID).
		Msg("nota autorizada com snapshot de impostos congelado")
	return totais, nil
}
