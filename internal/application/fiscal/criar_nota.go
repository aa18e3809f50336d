package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aladinsys/fiscal-api/internal/application/dto"
	"github.com/aladinsys/fiscal-api/internal/domain"
	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
	"github.com/aladinsys/fiscal-api/pkg/logger"
)

// maxTentativasNumero limita a busca pelo próximo número livre de NF-e.
const maxTentativasNumero = 1000

// CriarNotaUseCase cria uma NF-e RASCUNHO a partir de um pedido de venda.
type CriarNotaUseCase struct {
	txRunner   TxRunner
	notaRepo   repository.NotaFiscalRepository
	pedidoRepo repository.PedidoVendaRepository
	log        *logger.Logger
}

// NewCriarNotaUseCase constrói o caso de uso.
func NewCriarNotaUseCase(
	txRunner TxRunner,
	notaRepo repository.NotaFiscalRepository,
	pedidoRepo repository.PedidoVendaRepository,
	log *logger.Logger,
) *CriarNotaUseCase {
	return &CriarNotaUseCase{
		txRunner:   txRunner,
		notaRepo:   notaRepo,
		pedidoRepo: pedidoRepo,
		log:        log,
	}
}

// CriarRascunhoParaPedido cria a nota RASCUNHO do pedido. Idempotente por
// pedido: se já existe nota ativa, devolve a existente. Número e série vêm
// da configuração fiscal da loja, com sondagem de colisão e incremento do
// contador; sem configuração, usa série "001" e maior número + 1.
func (uc *CriarNotaUseCase) CriarRascunhoParaPedido(ctx context.Context, lojaID, usuarioID string, in dto.CriarNotaRequest) (*entity.NotaFiscalSaida, error) {
	if in.PedidoID == "" {
		return nil, domain.ErrInvalidInput
	}

	pedido, err := uc.pedidoRepo.GetByID(in.PedidoID)
	if err != nil {
		return nil, err
	}
	if pedido == nil {
		return nil, domain.ErrNotFound
	}
	if lojaID != "" && pedido.LojaID != lojaID {
		return nil, domain.ErrForbidden
	}

	// Vendas de balcão ainda emitem NF-e.
	// TODO: emitir NFC-e para TipoVendaBalcao quando o contador de NFC-e
	// da configuração passar a ser consumido.
	tipoDocumento := entity.TipoDocumentoNFE

	existente, err := uc.notaRepo.GetAtivaByPedido(pedido.ID, tipoDocumento)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		uc.log.Info().
			Str("pedido_id", pedido.ID).
			Str("nota_id", existente.ID).
			Int("numero", existente.Numero).
			Msg("nota fiscal já existe para o pedido")
		return existente, nil
	}

	itens, err := uc.pedidoRepo.GetItensAtivos(pedido.ID)
	if err != nil {
		return nil, err
	}
	if len(itens) == 0 {
		return nil, domain.ErrPedidoSemItens
	}

	var nota *entity.NotaFiscalSaida
	err = uc.txRunner.RunFiscal(ctx, func(
		notaRepo repository.NotaFiscalRepository,
		configRepo repository.ConfiguracaoFiscalRepository,
		_ repository.PedidoVendaRepository,
	) error {
		serie, numero, err := uc.alocarNumero(notaRepo, configRepo, pedido.LojaID, tipoDocumento)
		if err != nil {
			return err
		}

		agora := time.Now()
		criadoPor := usuarioID
		if criadoPor == "" {
			criadoPor = pedido.CreatedBy
		}
		nota = &entity.NotaFiscalSaida{
			ID:            uuid.New().String(),
			LojaID:        pedido.LojaID,
			ClienteID:     pedido.ClienteID,
			PedidoVendaID: &pedido.ID,
			TipoDocumento: tipoDocumento,
			Numero:        numero,
			Serie:         serie,
			ValorTotal:    pedido.ValorTotal,
			Status:        entity.StatusRascunho,
			DataEmissao:   &agora,
			Ativa:         true,
			CreatedBy:     criadoPor,
			CreatedAt:     agora,
			UpdatedAt:     agora,
		}
		return notaRepo.Create(nota)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("pedido_id", pedido.ID).
		Str("nota_id", nota.ID).
		Int("numero", nota.Numero).
		Str("serie", nota.Serie).
		Str("tipo_venda", pedido.TipoVenda).
		Msg("nota fiscal criada em rascunho")
	return nota, nil
}

// alocarNumero determina série e número da nova nota.
func (uc *CriarNotaUseCase) alocarNumero(
	notaRepo repository.NotaFiscalRepository,
	configRepo repository.ConfiguracaoFiscalRepository,
	lojaID, tipoDocumento string,
) (string, int, error) {
	config, err := configRepo.GetByLoja(lojaID)
	if err != nil {
		return "", 0, err
	}

	if config == nil {
		// Sem configuração fiscal: série temporária e maior número + 1.
		uc.log.Warn().
			Str("loja_id", lojaID).
			Msg("loja sem configuração fiscal; usando numeração padrão")
		const serie = "001"
		max, err := notaRepo.MaxNumero(lojaID, tipoDocumento, serie)
		if err != nil {
			return "", 0, err
		}
		return serie, max + 1, nil
	}

	serie := config.SerieNFE
	numero := config.ProximoNumeroNFE
	alocado := false
	for tentativa := 0; tentativa < maxTentativasNumero; tentativa++ {
		existe, err := notaRepo.ExisteNumero(lojaID, tipoDocumento, serie, numero)
		if err != nil {
			return "", 0, err
		}
		if !existe {
			alocado = true
			break
		}
		numero++
	}
	if !alocado {
		return "", 0, domain.ErrSemNumeroDisponivel
	}

	if err := configRepo.AtualizarProximoNumeroNFE(lojaID, numero+1); err != nil {
		return "", 0, err
	}
	return serie, numero, nil
}
