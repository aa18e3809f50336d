package dto

import (
	"github.com/shopspring/decimal"

	"github.com/aladinsys/fiscal-api/internal/domain/fiscal"
)

// CriarNotaRequest cria uma nota RASCUNHO a partir de um pedido de venda.
type CriarNotaRequest struct {
	PedidoID      string `json:"pedido_id" validate:"required"`
	TipoDocumento string `json:"tipo_documento" validate:"omitempty,oneof=NFE NFCE"`
}

// NotaResponse cabeçalho de uma nota fiscal de saída.
type NotaResponse struct {
	ID            string          `json:"id"`
	LojaID        string          `json:"loja_id"`
	ClienteID     string          `json:"cliente_id"`
	ClienteNome   string          `json:"cliente_nome,omitempty"`
	PedidoID      string          `json:"pedido_id,omitempty"`
	TipoDocumento string          `json:"tipo_documento"`
	Numero        int             `json:"numero"`
	Serie         string          `json:"serie"`
	ChaveAcesso   string          `json:"chave_acesso,omitempty"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	Status        string          `json:"status"`
	DataEmissao   string          `json:"data_emissao,omitempty"`
}

// ListNotasRequest filtros do listado de notas.
type ListNotasRequest struct {
	PageRequest
	Status        string `query:"status" validate:"omitempty,oneof=RASCUNHO EM_PROCESSAMENTO AUTORIZADA REJEITADA CANCELADA"`
	TipoDocumento string `query:"tipo_documento" validate:"omitempty,oneof=NFE NFCE"`
	Busca         string `query:"busca"`
}

// ListNotasResponse listado paginado com estatísticas agregadas.
type ListNotasResponse struct {
	Notas      []NotaResponse  `json:"notas"`
	TotalValor decimal.Decimal `json:"total_valor"`
	Page       PageResponse    `json:"page"`
}

// ImpostosNotaResponse totais fiscais da nota e a origem do dado:
// "snapshot" quando lidos do congelamento, "calculado" quando recalculados
// ao vivo.
type ImpostosNotaResponse struct {
	NotaID string            `json:"nota_id"`
	Origem string            `json:"origem"`
	Totais fiscal.TotaisNota `json:"totais"`
}

// NotaDetalheResponse detalhe completo: cabeçalho, totais e breakdown por item.
type NotaDetalheResponse struct {
	Nota   NotaResponse          `json:"nota"`
	Totais fiscal.TotaisNota     `json:"totais"`
	Origem string                `json:"origem"`
	Itens  []fiscal.SnapshotItem `json:"itens"`
}

// ConfiguracaoFiscalRequest cria/atualiza a configuração fiscal da loja.
type ConfiguracaoFiscalRequest struct {
	InscricaoEstadual string `json:"inscricao_estadual"`
	RegimeTributario  string `json:"regime_tributario" validate:"required"`
	Ambiente          string `json:"ambiente" validate:"omitempty,oneof=HOMOLOGACAO PRODUCAO"`
	SerieNFE          string `json:"serie_nfe" validate:"omitempty,max=3"`
	SerieNFCE         string `json:"serie_nfce" validate:"omitempty,max=3"`

	UsarReforma2026       bool             `json:"usar_reforma_2026"`
	AliquotaIBSPadrao2026 *decimal.Decimal `json:"aliquota_ibs_padrao_2026"`
	AliquotaCBSPadrao2026 *decimal.Decimal `json:"aliquota_cbs_padrao_2026"`
}

// ConfiguracaoFiscalResponse configuração fiscal da loja.
type ConfiguracaoFiscalResponse struct {
	LojaID            string `json:"loja_id"`
	InscricaoEstadual string `json:"inscricao_estadual"`
	RegimeTributario  string `json:"regime_tributario"`
	Ambiente          string `json:"ambiente"`
	SerieNFE          string `json:"serie_nfe"`
	SerieNFCE         string `json:"serie_nfce"`
	ProximoNumeroNFE  int    `json:"proximo_numero_nfe"`
	ProximoNumeroNFCE int    `json:"proximo_numero_nfce"`

	UsarReforma2026       bool            `json:"usar_reforma_2026"`
	AliquotaIBSPadrao2026 decimal.Decimal `json:"aliquota_ibs_padrao_2026"`
	AliquotaCBSPadrao2026 decimal.Decimal `json:"aliquota_cbs_padrao_2026"`
}
