package repository

import "github.com/aladinsys/fiscal-api/internal/domain/entity"

// ClienteRepository define o porto de leitura de clientes.
type ClienteRepository interface {
	GetByID(id string) (*entity.Cliente, error)
}
