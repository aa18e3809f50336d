package repository

import "github.com/aladinsys/fiscal-api/internal/domain/entity"

// PedidoVendaRepository define o porto de leitura de pedidos de venda.
// A engine fiscal nunca muta pedidos nem itens.
type PedidoVendaRepository interface {
	GetByID(id string) (*entity.PedidoVenda, error)
	// GetItensAtivos devolve as linhas ativas do pedido com Produto ou
	// Servico preenchidos (nil quando a referência foi excluída).
	GetItensAtivos(pedidoID string) ([]*entity.ItemPedidoVenda, error)
}
