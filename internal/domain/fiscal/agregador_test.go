package fiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aladinsys/fiscal-api/internal/domain/fiscal"
)

// Os totais da nota são a soma campo a campo dos breakdowns de cada item.
func TestCalcularImpostosNota_SomaCampoACampo(t *testing.T) {
	p1 := produtoRegimeNormal() // 100.00, ICMS 18.00, PIS 1.65, COFINS 7.60
	p2 := produtoRegimeNormal()
	p2.Total = dec("50.00") // ICMS 9.00, PIS 0.825, COFINS 3.80

	totais := fiscal.CalcularImpostosNota([]fiscal.ItemNota{p1, p2}, "LUCRO_PRESUMIDO", nil)

	assert.True(t, totais.BaseICMS.Equal(dec("150.00")))
	assert.True(t, totais.ValorICMS.Equal(dec("27.00")))
	assert.True(t, totais.ValorPIS.Equal(dec("2.475")), "soma mantém a precisão completa, obtido %s", totais.ValorPIS)
	assert.True(t, totais.ValorCOFINS.Equal(dec("11.40")))
	assert.True(t, totais.ValorProdutos.Equal(dec("150.00")))
	assert.Equal(t, "LUCRO_PRESUMIDO", totais.RegimeTributario)
	assert.False(t, totais.IsSimplesNacional)
}

// Nota mista produto + serviço com Reforma ligada: legados só do produto,
// IBS/CBS de ambos.
func TestCalcularImpostosNota_MistaProdutoServico(t *testing.T) {
	itens := []fiscal.ItemNota{produtoSimples(), servico("100.00")}

	totais := fiscal.CalcularImpostosNota(itens, "SIMPLES_NACIONAL", configReforma(true))

	assert.True(t, totais.BaseICMS.Equal(dec("100.00")), "só o produto informa base ICMS")
	assert.True(t, totais.BaseIBS.Equal(dec("200.00")), "produto e serviço entram na base IBS")
	assert.True(t, totais.ValorIBS.Equal(dec("0.20")))
	assert.True(t, totais.ValorCBS.Equal(dec("1.80")))
	assert.True(t, totais.ValorProdutos.Equal(dec("200.00")))
	assert.True(t, totais.IsSimplesNacional)
}

// Lista vazia: totais zerados, nunca erro.
func TestCalcularImpostosNota_ListaVazia(t *testing.T) {
	totais := fiscal.CalcularImpostosNota(nil, "SIMPLES_NACIONAL", nil)

	assert.True(t, totais.BaseICMS.IsZero())
	assert.True(t, totais.ValorProdutos.IsZero())
	assert.True(t, totais.IsSimplesNacional)
}

// Item nil no meio da lista (referência excluída) conta zero e não derruba
// a agregação.
func TestCalcularImpostosNota_ItemNilNaLista(t *testing.T) {
	itens := []fiscal.ItemNota{produtoSimples(), nil}

	totais := fiscal.CalcularImpostosNota(itens, "SIMPLES_NACIONAL", nil)

	assert.True(t, totais.BaseICMS.Equal(dec("100.00")))
	assert.True(t, totais.ValorProdutos.Equal(dec("100.00")))
}
