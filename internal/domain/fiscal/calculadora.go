package fiscal

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aladinsys/fiscal-api/internal/domain/entity"
)

var cem = decimal.NewFromInt(100)

// RegimeSimples informa se o rótulo de regime contém "SIMPLES"
// (comparação case-insensitive, igual à regra da NF-e).
func RegimeSimples(regime string) bool {
	return strings.Contains(strings.ToUpper(regime), "SIMPLES")
}

// CalcularImpostosItem calcula o breakdown de impostos de uma linha.
//
// Função pura: nunca retorna erro. Item nil (produto/serviço excluído),
// regime vazio ou config nil produzem um breakdown zerado — a nota ainda
// precisa ser exibível nesses casos.
//
// IMPORTANTE: para Simples Nacional (CSOSN 102) os impostos NÃO são
// calculados separadamente, pois já estão embutidos no preço e são pagos
// mensalmente sobre a receita bruta. Informa-se apenas a base de cálculo.
func CalcularImpostosItem(item ItemNota, regime string, config *entity.ConfiguracaoFiscalLoja) ImpostosItem {
	var imp ImpostosItem
	if item == nil {
		return imp
	}

	// Base de cálculo de todos os impostos: o valor total da linha.
	baseCalculo := item.ValorTotal()
	isSimples := RegimeSimples(regime)

	if produto, ok := item.(*ItemProduto); ok {
		calcularImpostosProduto(&imp, produto, baseCalculo, isSimples)
	}
	// Serviços: ICMS, ICMS-ST, PIS, COFINS e IPI ficam zerados.
	// (PIS/COFINS de serviço passam a ser cobertos pela CBS na Reforma.)

	calcularReforma(&imp, item, baseCalculo, config)
	return imp
}

func calcularImpostosProduto(imp *ImpostosItem, produto *ItemProduto, baseCalculo decimal.Decimal, isSimples bool) {
	csosn := produto.CSOSNCST
	if csosn == "" {
		csosn = "000"
	}

	switch {
	// CSOSN 102 = Simples Nacional, tributado pelo Simples sem permissão de
	// crédito: informa base e valor zero para ICMS, PIS e COFINS.
	case csosn == "102" && isSimples:
		imp.BaseICMS = baseCalculo
		imp.BasePIS = baseCalculo
		imp.BaseCOFINS = baseCalculo

	// CST 00 = Regime Normal, tributado integralmente.
	case csosn == "00":
		imp.BaseICMS = baseCalculo
		imp.ValorICMS = baseCalculo.Mul(produto.AliquotaICMS).Div(cem)

		pisCST := produto.PISCST
		if pisCST == "" {
			pisCST = "01"
		}
		if pisCST == "01" {
			imp.BasePIS = baseCalculo
			imp.ValorPIS = baseCalculo.Mul(produto.AliquotaPIS).Div(cem)
		}

		cofinsCST := produto.COFINSCST
		if cofinsCST == "" {
			cofinsCST = "01"
		}
		if cofinsCST == "01" {
			imp.BaseCOFINS = baseCalculo
			imp.ValorCOFINS = baseCalculo.Mul(produto.AliquotaCOFINS).Div(cem)
		}

	// Demais CSOSN/CST variam conforme legislação: informa-se apenas a base
	// quando há alíquota configurada, sem calcular valor.
	default:
		if produto.AliquotaICMS.IsPositive() {
			imp.BaseICMS = baseCalculo
		}
	}

	// ICMS-ST pode se aplicar mesmo no Simples Nacional. Cálculo simplificado
	// base × alíquota ST; MVA e demais variáveis ficam para quando o estado
	// de destino exigir.
	if produto.ICMSSTCST != "" && produto.AliquotaICMSST.IsPositive() {
		imp.BaseICMSST = baseCalculo
		imp.ValorICMSST = baseCalculo.Mul(produto.AliquotaICMSST).Div(cem)
	}

	// IPI na venda.
	ipiCST := produto.IPIVendaCST
	if ipiCST == "" {
		ipiCST = "52"
	}
	switch ipiCST {
	case "52": // Saída Tributada com Alíquota Zero
		imp.BaseIPI = baseCalculo
	case "00", "01", "02", "03":
		imp.BaseIPI = baseCalculo
		imp.ValorIPI = baseCalculo.Mul(produto.AliquotaIPIVenda).Div(cem)
	}
}

// calcularReforma aplica IBS/CBS quando a loja ativou a Reforma 2026.
// Vale para produto e serviço.
func calcularReforma(imp *ImpostosItem, item ItemNota, baseCalculo decimal.Decimal, config *entity.ConfiguracaoFiscalLoja) {
	if config == nil || !config.UsarReforma2026 {
		return
	}

	var reforma AtributosReforma
	switch it := item.(type) {
	case *ItemProduto:
		reforma = it.Reforma
	case *ItemServico:
		reforma = it.Reforma
	}

	// Códigos passam direto da linha, sem síntese de defaults.
	imp.CClassTrib = reforma.CClassTrib
	imp.CSTIBS = reforma.CSTIBS
	imp.CSTCBS = reforma.CSTCBS

	imp.AliquotaIBS = resolverAliquotaReforma(reforma.AliquotaIBS, config.AliquotaIBSPadrao2026, entity.AliquotaIBSPadrao2026)
	imp.AliquotaCBS = resolverAliquotaReforma(reforma.AliquotaCBS, config.AliquotaCBSPadrao2026, entity.AliquotaCBSPadrao2026)

	imp.BaseIBS = baseCalculo
	imp.ValorIBS = baseCalculo.Mul(imp.AliquotaIBS).Div(cem)
	imp.BaseCBS = baseCalculo
	imp.ValorCBS = baseCalculo.Mul(imp.AliquotaCBS).Div(cem)
}

// resolverAliquotaReforma resolve a alíquota IBS/CBS pela cadeia de
// prioridade: linha (quando > 0) > padrão da loja > padrão do sistema
// (fase de testes 2026).
func resolverAliquotaReforma(daLinha, daLoja, doSistema decimal.Decimal) decimal.Decimal {
	if daLinha.IsPositive() {
		return daLinha
	}
	if !daLoja.IsZero() {
		return daLoja
	}
	return doSistema
}
