package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto representa um produto vendável com seus atributos fiscais.
//
// Os campos da Reforma 2026 são opcionais: código nil e alíquota zero
// significam "usar o padrão da configuração fiscal da loja".
type Produto struct {
	ID           string
	Descricao    string
	CodigoBarras string
	Preco        decimal.Decimal
	Unidade      string

	// ICMS
	CSOSNCST     string // Ex: 102 (Simples) ou 00 (Regime Normal)
	AliquotaICMS decimal.Decimal

	// ICMS-ST (Substituição Tributária) — somente se o estado de destino exigir
	ICMSSTCST      string
	AliquotaICMSST decimal.Decimal

	// PIS / COFINS
	PISCST         string // Ex: 01 (Operação Tributável com Alíquota Básica)
	AliquotaPIS    decimal.Decimal
	COFINSCST      string
	AliquotaCOFINS decimal.Decimal

	// IPI na venda
	IPIVendaCST      string // Ex: 52 (Saída Tributada com Alíquota Zero)
	AliquotaIPIVenda decimal.Decimal

	// Reforma Tributária 2026
	CClassTrib  *string // cClassTrib
	CSTIBS      *string
	CSTCBS      *string
	AliquotaIBS decimal.Decimal // zero = usar padrão da loja
	AliquotaCBS decimal.Decimal

	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
