package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
)

var _ repository.PedidoVendaRepository = (*PedidoVendaRepo)(nil)

// PedidoVendaRepo implementação somente-leitura de PedidoVendaRepository.
// A engine fiscal lê pedidos e itens mas nunca os altera.
type PedidoVendaRepo struct {
	q Querier
}

func NewPedidoVendaRepository(q Querier) *PedidoVendaRepo {
	return &PedidoVendaRepo{q: q}
}

// GetByID obtém o cabeçalho de um pedido. Devolve (nil, nil) quando não existe.
func (r *PedidoVendaRepo) GetByID(id string) (*entity.PedidoVenda, error) {
	query := `
		SELECT id, loja_id, cliente_id, tipo_venda, valor_total, ativo,
		       created_by, created_at, updated_at
		FROM pedidos_venda WHERE id = $1`
	var p entity.PedidoVenda
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.LojaID, &p.ClienteID, &p.TipoVenda, &p.ValorTotal, &p.Ativo,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	return &p, nil
}

// GetItensAtivos devolve as linhas ativas do pedido com os atributos fiscais
// do produto ou serviço já carregados. Referência excluída vira ponteiro nil,
// que o montador de itens fiscais trata como linha inválida.
func (r *PedidoVendaRepo) GetItensAtivos(pedidoID string) ([]*entity.ItemPedidoVenda, error) {
	query := `
		SELECT i.id, i.pedido_id, i.produto_id, i.servico_id,
		       i.quantidade, i.preco_unitario, i.desconto, i.total,
		       i.ativo, i.created_at, i.updated_at,
		       p.id, p.descricao, COALESCE(p.codigo_barras, ''), p.preco, COALESCE(p.unidade, ''),
		       COALESCE(p.csosn_cst, ''), COALESCE(p.aliquota_icms, 0),
		       COALESCE(p.icms_st_cst, ''), COALESCE(p.aliquota_icms_st, 0),
		       COALESCE(p.pis_cst, ''), COALESCE(p.aliquota_pis, 0),
		       COALESCE(p.cofins_cst, ''), COALESCE(p.aliquota_cofins, 0),
		       COALESCE(p.ipi_venda_cst, ''), COALESCE(p.aliquota_ipi_venda, 0),
		       p.c_class_trib, p.cst_ibs, p.cst_cbs,
		       COALESCE(p.aliquota_ibs, 0), COALESCE(p.aliquota_cbs, 0),
		       s.id, s.nome, s.preco,
		       s.c_class_trib, s.cst_ibs, s.cst_cbs,
		       COALESCE(s.aliquota_ibs, 0), COALESCE(s.aliquota_cbs, 0)
		FROM itens_pedido_venda i
		LEFT JOIN produtos p ON p.id = i.produto_id
		LEFT JOIN servicos s ON s.id = i.servico_id
		WHERE i.pedido_id = $1 AND i.ativo = TRUE
		ORDER BY i.created_at, i.id`
	rows, err := r.q.Query(context.Background(), query, pedidoID)
	if err != nil {
		return nil, fmt.Errorf("list itens do pedido: %w", err)
	}
	defer rows.Close()

	var itens []*entity.ItemPedidoVenda
	for rows.Next() {
		var item entity.ItemPedidoVenda
		var (
			prodID, prodDescricao, prodCodigoBarras, prodUnidade        *string
			prodPreco                                                   *decimal.Decimal
			prodCSOSN, prodICMSSTCST, prodPISCST, prodCOFINSCST, prodIPICST *string
			prodAliqICMS, prodAliqICMSST, prodAliqPIS, prodAliqCOFINS, prodAliqIPI *decimal.Decimal
			prodCClassTrib, prodCSTIBS, prodCSTCBS                      *string
			prodAliqIBS, prodAliqCBS                                    *decimal.Decimal

			servID, servNome                   *string
			servPreco                          *decimal.Decimal
			servCClassTrib, servCSTIBS, servCSTCBS *string
			servAliqIBS, servAliqCBS           *decimal.Decimal
		)
		err := rows.Scan(
			&item.ID, &item.PedidoID, &item.ProdutoID, &item.ServicoID,
			&item.Quantidade, &item.PrecoUnitario, &item.Desconto, &item.Total,
			&item.Ativo, &item.CreatedAt, &item.UpdatedAt,
			&prodID, &prodDescricao, &prodCodigoBarras, &prodPreco, &prodUnidade,
			&prodCSOSN, &prodAliqICMS,
			&prodICMSSTCST, &prodAliqICMSST,
			&prodPISCST, &prodAliqPIS,
			&prodCOFINSCST, &prodAliqCOFINS,
			&prodIPICST, &prodAliqIPI,
			&prodCClassTrib, &prodCSTIBS, &prodCSTCBS,
			&prodAliqIBS, &prodAliqCBS,
			&servID, &servNome, &servPreco,
			&servCClassTrib, &servCSTIBS, &servCSTCBS,
			&servAliqIBS, &servAliqCBS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan item do pedido: %w", err)
		}
		if prodID != nil {
			item.Produto = &entity.Produto{
				ID:               *prodID,
				Descricao:        derefStr(prodDescricao),
				CodigoBarras:     derefStr(prodCodigoBarras),
				Preco:            derefDec(prodPreco),
				Unidade:          derefStr(prodUnidade),
				CSOSNCST:         derefStr(prodCSOSN),
				AliquotaICMS:     derefDec(prodAliqICMS),
				ICMSSTCST:        derefStr(prodICMSSTCST),
				AliquotaICMSST:   derefDec(prodAliqICMSST),
				PISCST:           derefStr(prodPISCST),
				AliquotaPIS:      derefDec(prodAliqPIS),
				COFINSCST:        derefStr(prodCOFINSCST),
				AliquotaCOFINS:   derefDec(prodAliqCOFINS),
				IPIVendaCST:      derefStr(prodIPICST),
				AliquotaIPIVenda: derefDec(prodAliqIPI),
				CClassTrib:       prodCClassTrib,
				CSTIBS:           prodCSTIBS,
				CSTCBS:           prodCSTCBS,
				AliquotaIBS:      derefDec(prodAliqIBS),
				AliquotaCBS:      derefDec(prodAliqCBS),
			}
		}
		if servID != nil {
			item.Servico = &entity.Servico{
				ID:          *servID,
				Nome:        derefStr(servNome),
				Preco:       derefDec(servPreco),
				CClassTrib:  servCClassTrib,
				CSTIBS:      servCSTIBS,
				CSTCBS:      servCSTCBS,
				AliquotaIBS: derefDec(servAliqIBS),
				AliquotaCBS: derefDec(servAliqCBS),
			}
		}
		itens = append(itens, &item)
	}
	return itens, rows.Err()
}

func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

func derefDec(p *decimal.Decimal) decimal.Decimal {
	if p != nil {
		return *p
	}
	return decimal.Zero
}
