package fiscal

import "github.com/shopspring/decimal"

// ImpostosItem é o breakdown de impostos de uma linha, produzido pela
// calculadora. Valor imutável: todo par base/valor é ≥ 0 e o valor só é
// diferente de zero quando a base também é.
type ImpostosItem struct {
	// Impostos atuais
	BaseICMS    decimal.Decimal
	ValorICMS   decimal.Decimal
	BaseICMSST  decimal.Decimal
	ValorICMSST decimal.Decimal
	BasePIS     decimal.Decimal
	ValorPIS    decimal.Decimal
	BaseCOFINS  decimal.Decimal
	ValorCOFINS decimal.Decimal
	BaseIPI     decimal.Decimal
	ValorIPI    decimal.Decimal

	// Reforma 2026 (zerados quando a flag da loja está desligada)
	BaseIBS     decimal.Decimal
	ValorIBS    decimal.Decimal
	AliquotaIBS decimal.Decimal
	BaseCBS     decimal.Decimal
	ValorCBS    decimal.Decimal
	AliquotaCBS decimal.Decimal

	// Códigos da Reforma repassados da linha sem síntese de defaults.
	CClassTrib *string
	CSTIBS     *string
	CSTCBS     *string
}

// TotaisNota agrega os breakdowns de todas as linhas de uma nota.
//
// Frete, seguro, desconto e outras despesas existem no schema da NF-e mas
// são sempre zero nesta engine: nenhum módulo a montante os alimenta.
type TotaisNota struct {
	BaseICMS    decimal.Decimal `json:"base_icms"`
	ValorICMS   decimal.Decimal `json:"valor_icms"`
	BaseICMSST  decimal.Decimal `json:"base_icms_st"`
	ValorICMSST decimal.Decimal `json:"valor_icms_st"`
	BasePIS     decimal.Decimal `json:"base_pis"`
	ValorPIS    decimal.Decimal `json:"valor_pis"`
	BaseCOFINS  decimal.Decimal `json:"base_cofins"`
	ValorCOFINS decimal.Decimal `json:"valor_cofins"`
	BaseIPI     decimal.Decimal `json:"base_ipi"`
	ValorIPI    decimal.Decimal `json:"valor_ipi"`

	BaseIBS  decimal.Decimal `json:"base_ibs"`
	ValorIBS decimal.Decimal `json:"valor_ibs"`
	BaseCBS  decimal.Decimal `json:"base_cbs"`
	ValorCBS decimal.Decimal `json:"valor_cbs"`

	ValorProdutos       decimal.Decimal `json:"valor_produtos"`
	ValorFrete          decimal.Decimal `json:"valor_frete"`
	ValorSeguro         decimal.Decimal `json:"valor_seguro"`
	ValorDesconto       decimal.Decimal `json:"valor_desconto"`
	ValorOutrasDespesas decimal.Decimal `json:"valor_outras_despesas"`

	RegimeTributario  string `json:"regime_tributario"`
	IsSimplesNacional bool   `json:"is_simples_nacional"`
}
