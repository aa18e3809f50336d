package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento fiscal de saída.
const (
	TipoDocumentoNFE  = "NFE"
	TipoDocumentoNFCE = "NFCE"
)

// Status de uma nota fiscal de saída.
const (
	StatusRascunho        = "RASCUNHO"         // Pode receber/alterar itens via pedido
	StatusEmProcessamento = "EM_PROCESSAMENTO" // Enviada, aguardando retorno
	StatusAutorizada      = "AUTORIZADA"       // Impostos congelados no snapshot
	StatusRejeitada       = "REJEITADA"        // Nunca carrega snapshot
	StatusCancelada       = "CANCELADA"        // Nunca carrega snapshot
)

// NotaFiscalSaida representa a cabeça de uma NF-e ou NFC-e de saída.
//
// Os totais de IBS/CBS são cache congelado no momento da autorização e
// nunca são recalculados depois. Os totais dos impostos legados (ICMS,
// ICMS-ST, PIS, COFINS, IPI) não têm cache próprio: existem apenas dentro
// do snapshot por item e são somados a cada leitura.
type NotaFiscalSaida struct {
	ID            string
	LojaID        string
	ClienteID     string
	PedidoVendaID *string

	TipoDocumento string
	Numero        int
	Serie         string
	ChaveAcesso   string
	ValorTotal    decimal.Decimal
	Status        string
	DataEmissao   *time.Time

	MotivoCancelamento string

	// Cache da Reforma 2026, congelado na autorização.
	BaseIBSTotal  decimal.NullDecimal
	ValorIBSTotal decimal.NullDecimal
	BaseCBSTotal  decimal.NullDecimal
	ValorCBSTotal decimal.NullDecimal

	// Snapshot imutável dos impostos por item (JSON), gravado na autorização.
	ImpostosSnapshot json.RawMessage

	Ativa     bool
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TemSnapshot informa se a nota carrega um snapshot não vazio.
func (n *NotaFiscalSaida) TemSnapshot() bool {
	return len(n.ImpostosSnapshot) > 0 && string(n.ImpostosSnapshot) != "null" && string(n.ImpostosSnapshot) != "[]"
}
