// Package fiscal implementa os cálculos de impostos conforme normas SEFAZ-BA:
// impostos atuais (ICMS, ICMS-ST, PIS, COFINS, IPI) e Reforma Tributária 2026
// (IBS/CBS) atrás de feature flag por loja, além do snapshot imutável gravado
// na autorização da nota.
package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/aladinsys/fiscal-api/internal/domain/entity"
)

// ItemNota é a visão fiscal de uma linha de venda. Tipo soma selado com
// exatamente duas variantes: *ItemProduto e *ItemServico. A calculadora
// resolve o ramo por type switch, sem inspeção de atributos.
type ItemNota interface {
	itemNota()
	// ValorTotal devolve o total da linha (quantidade × preço − desconto,
	// já arredondado a 2 casas). É a base de cálculo de todos os impostos.
	ValorTotal() decimal.Decimal
}

// Linha carrega os campos comuns às duas variantes.
type Linha struct {
	ItemID        string
	Descricao     string
	Quantidade    decimal.Decimal
	PrecoUnitario decimal.Decimal
	Desconto      decimal.Decimal
	Total         decimal.Decimal
}

// AtributosReforma são os campos fiscais da Reforma 2026 de uma linha.
// Códigos nil e alíquota zero significam "usar o padrão da loja".
type AtributosReforma struct {
	CClassTrib  *string
	CSTIBS      *string
	CSTCBS      *string
	AliquotaIBS decimal.Decimal
	AliquotaCBS decimal.Decimal
}

// ItemProduto é a linha de produto, com o conjunto completo de atributos
// fiscais legados mais os da Reforma.
type ItemProduto struct {
	Linha
	ProdutoID string

	CSOSNCST     string
	AliquotaICMS decimal.Decimal

	ICMSSTCST      string
	AliquotaICMSST decimal.Decimal

	PISCST         string
	AliquotaPIS    decimal.Decimal
	COFINSCST      string
	AliquotaCOFINS decimal.Decimal

	IPIVendaCST      string
	AliquotaIPIVenda decimal.Decimal

	Reforma AtributosReforma
}

// ItemServico é a linha de serviço. Impostos legados são sempre zero;
// somente IBS/CBS se aplicam quando a Reforma está ativa.
type ItemServico struct {
	Linha
	ServicoID string

	Reforma AtributosReforma
}

func (*ItemProduto) itemNota() {}
func (*ItemServico) itemNota() {}

func (p *ItemProduto) ValorTotal() decimal.Decimal { return p.Total }
func (s *ItemServico) ValorTotal() decimal.Decimal { return s.Total }

// ItemDoPedido monta a visão fiscal de um item de pedido. Devolve nil quando
// a linha não referencia produto nem serviço (ex: produto excluído); a
// calculadora trata nil como breakdown zerado, sem erro.
func ItemDoPedido(item *entity.ItemPedidoVenda) ItemNota {
	if item == nil {
		return nil
	}
	linha := Linha{
		ItemID:        item.ID,
		Descricao:     item.Descricao(),
		Quantidade:    item.Quantidade,
		PrecoUnitario: item.PrecoUnitario,
		Desconto:      item.Desconto,
		Total:         item.Total,
	}
	switch {
	case item.Produto != nil:
		p := item.Produto
		return &ItemProduto{
			Linha:     linha,
			ProdutoID: p.ID,

			CSOSNCST:     p.CSOSNCST,
			AliquotaICMS: p.AliquotaICMS,

			ICMSSTCST:      p.ICMSSTCST,
			AliquotaICMSST: p.AliquotaICMSST,

			PISCST:         p.PISCST,
			AliquotaPIS:    p.AliquotaPIS,
			COFINSCST:      p.COFINSCST,
			AliquotaCOFINS: p.AliquotaCOFINS,

			IPIVendaCST:      p.IPIVendaCST,
			AliquotaIPIVenda: p.AliquotaIPIVenda,

			Reforma: AtributosReforma{
				CClassTrib:  p.CClassTrib,
				CSTIBS:      p.CSTIBS,
				CSTCBS:      p.CSTCBS,
				AliquotaIBS: p.AliquotaIBS,
				AliquotaCBS: p.AliquotaCBS,
			},
		}
	case item.Servico != nil:
		s := item.Servico
		return &ItemServico{
			Linha:     linha,
			ServicoID: s.ID,
			Reforma: AtributosReforma{
				CClassTrib:  s.CClassTrib,
				CSTIBS:      s.CSTIBS,
				CSTCBS:      s.CSTCBS,
				AliquotaIBS: s.AliquotaIBS,
				AliquotaCBS: s.AliquotaCBS,
			},
		}
	default:
		return nil
	}
}
