package fiscal

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aladinsys/fiscal-api/internal/domain"
	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	domfiscal "github.com/aladinsys/fiscal-api/internal/domain/fiscal"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
	"github.com/aladinsys/fiscal-api/pkg/logger"
)

// Origem dos totais devolvidos por ObterImpostos.
const (
	OrigemSnapshot  = "snapshot"
	OrigemCalculado = "calculado"
)

// ImpostosNotaUseCase resolve os impostos de uma nota: snapshot congelado
// quando autorizada, cálculo ao vivo nos demais casos.
type ImpostosNotaUseCase struct {
	notaRepo   repository.NotaFiscalRepository
	configRepo repository.ConfiguracaoFiscalRepository
	pedidoRepo repository.PedidoVendaRepository
	log        *logger.Logger
}

// NewImpostosNotaUseCase constrói o caso de uso.
func NewImpostosNotaUseCase(
	notaRepo repository.NotaFiscalRepository,
	configRepo repository.ConfiguracaoFiscalRepository,
	pedidoRepo repository.PedidoVendaRepository,
	log *logger.Logger,
) *ImpostosNotaUseCase {
	return &ImpostosNotaUseCase{
		notaRepo:   notaRepo,
		configRepo: configRepo,
		pedidoRepo: pedidoRepo,
		log:        log,
	}
}

// ObterImpostos devolve os totais fiscais da nota e a origem do dado.
//
// Nota AUTORIZADA com snapshot: usa o snapshot (valores imutáveis). Se o
// snapshot estiver corrompido, registra warning e degrada para recálculo
// ao vivo — o erro de decodificação nunca chega ao chamador. RASCUNHO,
// snapshot ausente ou recalcular=true: calcula com os itens e a
// configuração ATUAIS (único caminho que reflete mudança de alíquota
// após a autorização).
func (uc *ImpostosNotaUseCase) ObterImpostos(ctx context.Context, lojaID, notaID string, recalcular bool) (domfiscal.TotaisNota, string, error) {
	nota, err := uc.notaRepo.GetByID(notaID)
	if err != nil {
		return domfiscal.TotaisNota{}, "", err
	}
	if nota == nil {
		return domfiscal.TotaisNota{}, "", domain.ErrNotFound
	}
	if lojaID != "" && nota.LojaID != lojaID {
		return domfiscal.TotaisNota{}, "", domain.ErrForbidden
	}
	return uc.impostosDaNota(ctx, nota, recalcular)
}

// impostosDaNota resolve os totais de uma nota já carregada.
func (uc *ImpostosNotaUseCase) impostosDaNota(ctx context.Context, nota *entity.NotaFiscalSaida, recalcular bool) (domfiscal.TotaisNota, string, error) {
	config, err := uc.configRepo.GetByLoja(nota.LojaID)
	if err != nil {
		return domfiscal.TotaisNota{}, "", err
	}
	regime := ""
	if config != nil {
		regime = config.RegimeTributario
	}

	if nota.Status == entity.StatusAutorizada && nota.TemSnapshot() && !recalcular {
		totais, errDec := domfiscal.DecodificarSnapshot(nota.ImpostosSnapshot, cacheReformaDaNota(nota))
		if errDec == nil {
			totais.RegimeTributario = regime
			totais.IsSimplesNacional = domfiscal.RegimeSimples(regime)
			return totais, OrigemSnapshot, nil
		}
		// Recuperação graciosa: snapshot corrompido degrada para recálculo.
		uc.log.Warn().
			Str("nota_id", nota.ID).
			Err(errDec).
			Msg("snapshot de impostos inválido; recalculando ao vivo")
	}

	totais, err := uc.calcularAoVivo(ctx, nota, regime, config)
	if err != nil {
		return domfiscal.TotaisNota{}, "", err
	}
	return totais, OrigemCalculado, nil
}

func (uc *ImpostosNotaUseCase) calcularAoVivo(_ context.Context, nota *entity.NotaFiscalSaida, regime string, config *entity.ConfiguracaoFiscalLoja) (domfiscal.TotaisNota, error) {
	if nota.PedidoVendaID == nil {
		return domfiscal.CalcularImpostosNota(nil, regime, config), nil
	}
	itens, err := uc.pedidoRepo.GetItensAtivos(*nota.PedidoVendaID)
	if err != nil {
		return domfiscal.TotaisNota{}, err
	}
	if err := validarItens(itens); err != nil {
		return domfiscal.TotaisNota{}, err
	}
	return domfiscal.CalcularImpostosNota(montarItensFiscais(itens), regime, config), nil
}

// montarItensFiscais converte itens do pedido na visão fiscal. Itens sem
// produto nem serviço viram nil e calculam breakdown zerado.
func montarItensFiscais(itens []*entity.ItemPedidoVenda) []domfiscal.ItemNota {
	fiscais := make([]domfiscal.ItemNota, 0, len(itens))
	for _, item := range itens {
		fiscais = append(fiscais, domfiscal.ItemDoPedido(item))
	}
	return fiscais
}

// validarItens rejeita dados numéricos inválidos. Tratar quantidade ou
// preço negativo como zero subestimaria o imposto declarado; o cálculo é
// abortado e a nota permanece no status atual.
func validarItens(itens []*entity.ItemPedidoVenda) error {
	for _, item := range itens {
		if item == nil {
			continue
		}
		if !item.Quantidade.IsPositive() || item.PrecoUnitario.IsNegative() ||
			item.Desconto.IsNegative() || item.Total.IsNegative() {
			return domain.ErrValorInvalido
		}
	}
	return nil
}

// cacheReformaDaNota lê o cache IBS/CBS congelado na nota (zero quando nulo).
func cacheReformaDaNota(nota *entity.NotaFiscalSaida) domfiscal.CacheReforma {
	return domfiscal.CacheReforma{
		BaseIBS:  nullDecimalOuZero(nota.BaseIBSTotal),
		ValorIBS: nullDecimalOuZero(nota.ValorIBSTotal),
		BaseCBS:  nullDecimalOuZero(nota.BaseCBSTotal),
		ValorCBS: nullDecimalOuZero(nota.ValorCBSTotal),
	}
}

func nullDecimalOuZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}
