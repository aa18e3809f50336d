package repository

import "github.com/aladinsys/fiscal-api/internal/domain/entity"

// LojaRepository define o porto de leitura de lojas.
type LojaRepository interface {
	GetByID(id string) (*entity.Loja, error)
}
