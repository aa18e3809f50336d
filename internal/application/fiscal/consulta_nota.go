package fiscal

import (
	"context"
	"encoding/json"

	"github.com/aladinsys/fiscal-api/internal/application/dto"
	"github.com/aladinsys/fiscal-api/internal/domain"
	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	domfiscal "github.com/aladinsys/fiscal-api/internal/domain/fiscal"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
)

// ConsultaNotaUseCase atende o listado e o detalhe de notas de saída.
type ConsultaNotaUseCase struct {
	notaRepo    repository.NotaFiscalRepository
	clienteRepo repository.ClienteRepository
	configRepo  repository.ConfiguracaoFiscalRepository
	pedidoRepo  repository.PedidoVendaRepository
	impostos    *ImpostosNotaUseCase
}

// NewConsultaNotaUseCase constrói o caso de uso.
func NewConsultaNotaUseCase(
	notaRepo repository.NotaFiscalRepository,
	clienteRepo repository.ClienteRepository,
	configRepo repository.ConfiguracaoFiscalRepository,
	pedidoRepo repository.PedidoVendaRepository,
	impostos *ImpostosNotaUseCase,
) *ConsultaNotaUseCase {
	return &ConsultaNotaUseCase{
		notaRepo:    notaRepo,
		clienteRepo: clienteRepo,
		configRepo:  configRepo,
		pedidoRepo:  pedidoRepo,
		impostos:    impostos,
	}
}

// List lista notas da loja com filtros e estatísticas agregadas.
func (uc *ConsultaNotaUseCase) List(ctx context.Context, lojaID string, in dto.ListNotasRequest) (*dto.ListNotasResponse, error) {
	in.DefaultPage()
	filtro := repository.NotaFiscalFilter{
		LojaID:        lojaID,
		Status:        in.Status,
		TipoDocumento: in.TipoDocumento,
		Busca:         in.Busca,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}

	notas, total, err := uc.notaRepo.List(filtro)
	if err != nil {
		return nil, err
	}
	soma, err := uc.notaRepo.SomaValor(filtro)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListNotasResponse{
		Notas:      make([]dto.NotaResponse, 0, len(notas)),
		TotalValor: soma,
		Page: dto.PageResponse{
			Limit:  in.Limit,
			Offset: in.Offset,
			Total:  total,
		},
	}
	for _, nota := range notas {
		resp.Notas = append(resp.Notas, uc.toNotaResponse(nota, ""))
	}
	return resp, nil
}

// Detalhe devolve o cabeçalho, os totais e o breakdown por item da nota:
// do snapshot quando autorizada, calculado ao vivo nos demais casos.
func (uc *ConsultaNotaUseCase) Detalhe(ctx context.Context, lojaID, notaID string) (*dto.NotaDetalheResponse, error) {
	nota, err := uc.notaRepo.GetByID(notaID)
	if err != nil {
		return nil, err
	}
	if nota == nil {
		return nil, domain.ErrNotFound
	}
	if lojaID != "" && nota.LojaID != lojaID {
		return nil, domain.ErrForbidden
	}

	totais, origem, err := uc.impostos.impostosDaNota(ctx, nota, false)
	if err != nil {
		return nil, err
	}

	itens, err := uc.itensDaNota(nota, origem)
	if err != nil {
		return nil, err
	}

	clienteNome := ""
	if cliente, errCli := uc.clienteRepo.GetByID(nota.ClienteID); errCli == nil && cliente != nil {
		clienteNome = cliente.NomeRazaoSocial
	}

	return &dto.NotaDetalheResponse{
		Nota:   uc.toNotaResponse(nota, clienteNome),
		Totais: totais,
		Origem: origem,
		Itens:  itens,
	}, nil
}

// itensDaNota monta o breakdown por item para exibição. Quando os totais
// vieram do snapshot, os itens também vêm de lá, pela mesma razão de
// imutabilidade; senão são codificados ao vivo (sem persistir).
func (uc *ConsultaNotaUseCase) itensDaNota(nota *entity.NotaFiscalSaida, origem string) ([]domfiscal.SnapshotItem, error) {
	if origem == OrigemSnapshot {
		var registros []domfiscal.SnapshotItem
		if err := json.Unmarshal(nota.ImpostosSnapshot, &registros); err == nil {
			return registros, nil
		}
		// impostosDaNota já validou o snapshot; chegar aqui é corrida rara
		// de corrupção entre as duas leituras. Cai para o cálculo ao vivo.
	}

	if nota.PedidoVendaID == nil {
		return []domfiscal.SnapshotItem{}, nil
	}
	itens, err := uc.pedidoRepo.GetItensAtivos(*nota.PedidoVendaID)
	if err != nil {
		return nil, err
	}

	config, err := uc.configRepo.GetByLoja(nota.LojaID)
	if err != nil {
		return nil, err
	}
	regime := ""
	if config != nil {
		regime = config.RegimeTributario
	}

	registros := make([]domfiscal.SnapshotItem, 0, len(itens))
	for _, item := range montarItensFiscais(itens) {
		imp := domfiscal.CalcularImpostosItem(item, regime, config)
		registros = append(registros, domfiscal.CodificarSnapshotItem(item, imp))
	}
	return registros, nil
}

func (uc *ConsultaNotaUseCase) toNotaResponse(nota *entity.NotaFiscalSaida, clienteNome string) dto.NotaResponse {
	resp := dto.NotaResponse{
		ID:            nota.ID,
		LojaID:        nota.LojaID,
		ClienteID:     nota.ClienteID,
		ClienteNome:   clienteNome,
		TipoDocumento: nota.TipoDocumento,
		Numero:        nota.Numero,
		Serie:         nota.Serie,
		ChaveAcesso:   nota.ChaveAcesso,
		ValorTotal:    nota.ValorTotal,
		Status:        nota.Status,
	}
	if nota.PedidoVendaID != nil {
		resp.PedidoID = *nota.PedidoVendaID
	}
	if nota.DataEmissao != nil {
		resp.DataEmissao = nota.DataEmissao.Format("2006-01-02 15:04:05")
	}
	return resp
}
