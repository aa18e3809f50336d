package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Servico representa um serviço vendável.
//
// Serviços não têm ICMS, ICMS-ST, PIS, COFINS nem IPI na engine fiscal:
// esses impostos são sempre zero para linhas de serviço. Na Reforma 2026
// serviços passam a ser tributados via IBS/CBS.
type Servico struct {
	ID    string
	Nome  string
	Preco decimal.Decimal

	// Reforma Tributária 2026
	CClassTrib  *string
	CSTIBS      *string
	CSTCBS      *string
	AliquotaIBS decimal.Decimal // zero = usar padrão da loja
	AliquotaCBS decimal.Decimal

	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
