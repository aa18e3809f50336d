package repository

import (
	"github.com/shopspring/decimal"

	"github.com/aladinsys/fiscal-api/internal/domain/entity"
)

// NotaFiscalFilter filtros do listado de notas de saída.
type NotaFiscalFilter struct {
	LojaID        string
	Status        string
	TipoDocumento string
	Busca         string // número, chave de acesso ou nome do cliente
	Limit         int
	Offset        int
}

// NotaFiscalRepository define o porto de persistência para NotaFiscalSaida.
type NotaFiscalRepository interface {
	Create(nota *entity.NotaFiscalSaida) error
	GetByID(id string) (*entity.NotaFiscalSaida, error)
	// GetByIDForUpdate lê a nota bloqueando a linha na transação corrente
	// (SELECT ... FOR UPDATE). O status é reverificado dentro da transação
	// para que um segundo freeze concorrente vire leitura, não escrita.
	GetByIDForUpdate(id string) (*entity.NotaFiscalSaida, error)
	GetAtivaByPedido(pedidoID, tipoDocumento string) (*entity.NotaFiscalSaida, error)
	List(f NotaFiscalFilter) ([]*entity.NotaFiscalSaida, int, error)
	// SomaValor soma o valor_total das notas que casam com o filtro
	// (estatística do listado, ignora Limit/Offset).
	SomaValor(f NotaFiscalFilter) (decimal.Decimal, error)
	ExisteNumero(lojaID, tipoDocumento, serie string, numero int) (bool, error)
	MaxNumero(lojaID, tipoDocumento, serie string) (int, error)
	// AtualizarAutorizacao grava em uma única escrita: status, cache
	// IBS/CBS, snapshot e data de emissão.
	AtualizarAutorizacao(nota *entity.NotaFiscalSaida) error
}
