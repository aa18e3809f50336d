package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venda de um pedido.
const (
	TipoVendaBalcao  = "BALCAO"
	TipoVendaExterna = "EXTERNA"
	TipoVendaEvento  = "EVENTO"
)

// PedidoVenda representa um pedido de venda (cabeçalho).
type PedidoVenda struct {
	ID         string
	LojaID     string
	ClienteID  string
	TipoVenda  string
	ValorTotal decimal.Decimal
	Ativo      bool
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ItemPedidoVenda representa uma linha do pedido: produto OU serviço.
// Exatamente um de ProdutoID/ServicoID é não nulo; os ponteiros Produto
// e Servico vêm preenchidos pelo repositório quando a linha é carregada
// para cálculo fiscal.
type ItemPedidoVenda struct {
	ID        string
	PedidoID  string
	ProdutoID *string
	ServicoID *string

	Quantidade    decimal.Decimal // 3 casas decimais
	PrecoUnitario decimal.Decimal // 2 casas decimais
	Desconto      decimal.Decimal
	Total         decimal.Decimal // (quantidade × preço − desconto), 2 casas

	Produto *Produto
	Servico *Servico

	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalcularTotal recalcula o total da linha: quantidade × preço − desconto,
// arredondado half-up para 2 casas. Somente o total da linha é arredondado;
// os valores de imposto derivados dele mantêm a precisão completa.
func (i *ItemPedidoVenda) CalcularTotal() {
	i.Total = i.PrecoUnitario.Mul(i.Quantidade).Sub(i.Desconto).Round(2)
}

// Descricao devolve a descrição exibível da linha (produto ou serviço).
func (i *ItemPedidoVenda) Descricao() string {
	switch {
	case i.Produto != nil:
		return i.Produto.Descricao
	case i.Servico != nil:
		return i.Servico.Nome
	default:
		return "Item"
	}
}
