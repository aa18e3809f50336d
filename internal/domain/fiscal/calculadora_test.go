package fiscal_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	"github.com/aladinsys/fiscal-api/internal/domain/fiscal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// produtoSimples monta uma linha de produto típica do Simples Nacional
// (CSOSN 102) com total 100.00.
func produtoSimples() *fiscal.ItemProduto {
	return &fiscal.ItemProduto{
		Linha: fiscal.Linha{
			ItemID:        "item-1",
			Descricao:     "Cabo HDMI 2m",
			Quantidade:    dec("2"),
			PrecoUnitario: dec("50.00"),
			Total:         dec("100.00"),
		},
		ProdutoID:      "prod-1",
		CSOSNCST:       "102",
		AliquotaICMS:   dec("18.00"),
		PISCST:         "01",
		AliquotaPIS:    dec("1.65"),
		COFINSCST:      "01",
		AliquotaCOFINS: dec("7.60"),
		IPIVendaCST:    "52",
	}
}

// produtoRegimeNormal monta uma linha CST 00 com total 100.00 e as
// alíquotas padrão de cadastro.
func produtoRegimeNormal() *fiscal.ItemProduto {
	p := produtoSimples()
	p.CSOSNCST = "00"
	return p
}

func configReforma(usar bool) *entity.ConfiguracaoFiscalLoja {
	return &entity.ConfiguracaoFiscalLoja{
		LojaID:                "loja-1",
		RegimeTributario:      entity.RegimeSimplesNacional,
		UsarReforma2026:       usar,
		AliquotaIBSPadrao2026: dec("0.10"),
		AliquotaCBSPadrao2026: dec("0.90"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Regime e detecção do Simples
// ──────────────────────────────────────────────────────────────────────────────

func TestRegimeSimples_DetectaPorSubstring(t *testing.T) {
	assert.True(t, fiscal.RegimeSimples("SIMPLES_NACIONAL"))
	assert.True(t, fiscal.RegimeSimples("simples nacional"))
	assert.True(t, fiscal.RegimeSimples("Optante Simples"))
	assert.False(t, fiscal.RegimeSimples("LUCRO_PRESUMIDO"))
	assert.False(t, fiscal.RegimeSimples(""))
}

// CSOSN 102 no Simples: bases informadas, valores zero. O imposto já está
// embutido no preço e é pago mensalmente sobre a receita bruta.
func TestCalcularImpostosItem_Simples102_SomenteBases(t *testing.T) {
	imp := fiscal.CalcularImpostosItem(produtoSimples(), "SIMPLES_NACIONAL", nil)

	assert.True(t, imp.BaseICMS.Equal(dec("100.00")), "base ICMS = total da linha")
	assert.True(t, imp.ValorICMS.IsZero(), "valor ICMS zero no Simples")
	assert.True(t, imp.BasePIS.Equal(dec("100.00")))
	assert.True(t, imp.ValorPIS.IsZero())
	assert.True(t, imp.BaseCOFINS.Equal(dec("100.00")))
	assert.True(t, imp.ValorCOFINS.IsZero())
}

// CSOSN 102 fora do Simples não cai no ramo do Simples: informa só a base
// de ICMS (alíquota positiva), sem valor.
func TestCalcularImpostosItem_102ForaDoSimples(t *testing.T) {
	imp := fiscal.CalcularImpostosItem(produtoSimples(), "LUCRO_PRESUMIDO", nil)

	assert.True(t, imp.BaseICMS.Equal(dec("100.00")))
	assert.True(t, imp.ValorICMS.IsZero())
	assert.True(t, imp.BasePIS.IsZero(), "PIS não informado fora do ramo 102+Simples")
}

// ──────────────────────────────────────────────────────────────────────────────
// Regime normal (CST 00)
// ──────────────────────────────────────────────────────────────────────────────

// CST 00: base 100.00, ICMS 18% = 18.00, PIS 1.65% = 1.65, COFINS 7.6% = 7.60.
func TestCalcularImpostosItem_RegimeNormal_AritmeticaExata(t *testing.T) {
	imp := fiscal.CalcularImpostosItem(produtoRegimeNormal(), "LUCRO_PRESUMIDO", nil)

	assert.True(t, imp.ValorICMS.Equal(dec("18.00")), "ICMS 18%% de 100.00, obtido %s", imp.ValorICMS)
	assert.True(t, imp.ValorPIS.Equal(dec("1.65")), "PIS 1.65%% de 100.00, obtido %s", imp.ValorPIS)
	assert.True(t, imp.ValorCOFINS.Equal(dec("7.60")), "COFINS 7.6%% de 100.00, obtido %s", imp.ValorCOFINS)
}

// PIS/COFINS só são calculados com CST "01"; outros códigos ficam zerados.
func TestCalcularImpostosItem_PISCOFINSOutroCST(t *testing.T) {
	p := produtoRegimeNormal()
	p.PISCST = "06"
	p.COFINSCST = "06"

	imp := fiscal.CalcularImpostosItem(p, "LUCRO_PRESUMIDO", nil)

	assert.True(t, imp.ValorICMS.Equal(dec("18.00")))
	assert.True(t, imp.BasePIS.IsZero())
	assert.True(t, imp.ValorPIS.IsZero())
	assert.True(t, imp.BaseCOFINS.IsZero())
	assert.True(t, imp.ValorCOFINS.IsZero())
}

// IPI CST 52 (alíquota zero): informa base, valor zero.
func TestCalcularImpostosItem_IPIAliquotaZero(t *testing.T) {
	imp := fiscal.CalcularImpostosItem(produtoRegimeNormal(), "LUCRO_PRESUMIDO", nil)

	assert.True(t, imp.BaseIPI.Equal(dec("100.00")))
	assert.True(t, imp.ValorIPI.IsZero())
}

func TestCalcularImpostosItem_IPITributado(t *testing.T) {
	p := produtoRegimeNormal()
	p.IPIVendaCST = "00"
	p.AliquotaIPIVenda = dec("5.00")

	imp := fiscal.CalcularImpostosItem(p, "LUCRO_PRESUMIDO", nil)

	assert.True(t, imp.ValorIPI.Equal(dec("5.00")), "IPI 5%% de 100.00")
}

// ICMS-ST aplica mesmo no Simples Nacional quando código e alíquota existem.
func TestCalcularImpostosItem_ICMSSTNoSimples(t *testing.T) {
	p := produtoSimples()
	p.ICMSSTCST = "10"
	p.AliquotaICMSST = dec("4.00")

	imp := fiscal.CalcularImpostosItem(p, "SIMPLES_NACIONAL", nil)

	assert.True(t, imp.BaseICMSST.Equal(dec("100.00")))
	assert.True(t, imp.ValorICMSST.Equal(dec("4.00")), "ST 4%% de 100.00")
	assert.True(t, imp.ValorICMS.IsZero(), "ICMS próprio continua zero no Simples")
}

// ──────────────────────────────────────────────────────────────────────────────
// Serviços
// ──────────────────────────────────────────────────────────────────────────────

func servico(total string) *fiscal.ItemServico {
	return &fiscal.ItemServico{
		Linha: fiscal.Linha{
			ItemID:        "item-srv",
			Descricao:     "Instalação",
			Quantidade:    dec("1"),
			PrecoUnitario: dec(total),
			Total:         dec(total),
		},
		ServicoID: "srv-1",
	}
}

// Serviço sem Reforma: breakdown inteiramente zerado, inclusive bases.
func TestCalcularImpostosItem_ServicoSemReforma(t *testing.T) {
	imp := fiscal.CalcularImpostosItem(servico("250.00"), "SIMPLES_NACIONAL", configReforma(false))

	assert.True(t, imp.BaseICMS.IsZero())
	assert.True(t, imp.ValorICMS.IsZero())
	assert.True(t, imp.BasePIS.IsZero())
	assert.True(t, imp.BaseIPI.IsZero())
	assert.True(t, imp.BaseIBS.IsZero())
	assert.True(t, imp.ValorCBS.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Reforma 2026 (IBS/CBS)
// ──────────────────────────────────────────────────────────────────────────────

// Flag desligada ou config ausente: nenhum campo da Reforma é preenchido.
func TestCalcularImpostosItem_ReformaDesligada(t *testing.T) {
	for _, config := range []*entity.ConfiguracaoFiscalLoja{nil, configReforma(false)} {
		imp := fiscal.CalcularImpostosItem(produtoSimples(), "SIMPLES_NACIONAL", config)

		assert.True(t, imp.BaseIBS.IsZero())
		assert.True(t, imp.ValorIBS.IsZero())
		assert.True(t, imp.BaseCBS.IsZero())
		assert.True(t, imp.ValorCBS.IsZero())
		assert.Nil(t, imp.CSTIBS)
	}
}

// Reforma ligada com alíquotas padrão da loja: produto de 200.00 rende
// IBS 0.10% = 0.20 e CBS 0.90% = 1.80.
func TestCalcularImpostosItem_ReformaComPadraoDaLoja(t *testing.T) {
	p := produtoSimples()
	p.Total = dec("200.00")

	imp := fiscal.CalcularImpostosItem(p, "SIMPLES_NACIONAL", configReforma(true))

	assert.True(t, imp.BaseIBS.Equal(dec("200.00")))
	assert.True(t, imp.ValorIBS.Equal(dec("0.20")), "IBS 0.10%% de 200.00, obtido %s", imp.ValorIBS)
	assert.True(t, imp.BaseCBS.Equal(dec("200.00")))
	assert.True(t, imp.ValorCBS.Equal(dec("1.80")), "CBS 0.90%% de 200.00, obtido %s", imp.ValorCBS)
	assert.True(t, imp.AliquotaIBS.Equal(dec("0.10")))
	assert.True(t, imp.AliquotaCBS.Equal(dec("0.90")))
}

// Alíquota da linha tem prioridade sobre o padrão da loja.
func TestCalcularImpostosItem_ReformaAliquotaDaLinha(t *testing.T) {
	p := produtoSimples()
	p.Reforma.AliquotaIBS = dec("0.50")

	imp := fiscal.CalcularImpostosItem(p, "SIMPLES_NACIONAL", configReforma(true))

	assert.True(t, imp.AliquotaIBS.Equal(dec("0.50")), "linha sobrepõe o padrão da loja")
	assert.True(t, imp.ValorIBS.Equal(dec("0.50")), "0.50%% de 100.00")
	assert.True(t, imp.AliquotaCBS.Equal(dec("0.90")), "CBS continua no padrão da loja")
}

// Loja sem padrão configurado (zero): cai no padrão do sistema.
func TestCalcularImpostosItem_ReformaPadraoDoSistema(t *testing.T) {
	config := configReforma(true)
	config.AliquotaIBSPadrao2026 = decimal.Zero
	config.AliquotaCBSPadrao2026 = decimal.Zero

	imp := fiscal.CalcularImpostosItem(produtoSimples(), "SIMPLES_NACIONAL", config)

	assert.True(t, imp.AliquotaIBS.Equal(entity.AliquotaIBSPadrao2026))
	assert.True(t, imp.AliquotaCBS.Equal(entity.AliquotaCBSPadrao2026))
}

// Serviço com Reforma ligada: IBS/CBS aplicam, legados seguem zero.
func TestCalcularImpostosItem_ServicoComReforma(t *testing.T) {
	imp := fiscal.CalcularImpostosItem(servico("100.00"), "SIMPLES_NACIONAL", configReforma(true))

	assert.True(t, imp.ValorIBS.Equal(dec("0.10")))
	assert.True(t, imp.ValorCBS.Equal(dec("0.90")))
	assert.True(t, imp.ValorICMS.IsZero())
	assert.True(t, imp.BasePIS.IsZero())
}

// Códigos da Reforma passam da linha direto para o breakdown, sem defaults.
func TestCalcularImpostosItem_ReformaCodigosPassamDireto(t *testing.T) {
	cclass := "000001"
	p := produtoSimples()
	p.Reforma.CClassTrib = &cclass

	imp := fiscal.CalcularImpostosItem(p, "SIMPLES_NACIONAL", configReforma(true))

	require.NotNil(t, imp.CClassTrib)
	assert.Equal(t, "000001", *imp.CClassTrib)
	assert.Nil(t, imp.CSTIBS, "código ausente na linha fica nil")
}

// Item nil (referência excluída): breakdown zerado, sem pânico.
func TestCalcularImpostosItem_ItemNil(t *testing.T) {
	imp := fiscal.CalcularImpostosItem(nil, "SIMPLES_NACIONAL", configReforma(true))

	assert.True(t, imp.BaseICMS.IsZero())
	assert.True(t, imp.ValorIBS.IsZero())
}
