package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aladinsys/fiscal-api/internal/domain/entity"
	"github.com/aladinsys/fiscal-api/internal/domain/repository"
)

var _ repository.LojaRepository = (*LojaRepo)(nil)

// LojaRepo implementação somente-leitura de LojaRepository.
type LojaRepo struct {
	q Querier
}

func NewLojaRepository(q Querier) *LojaRepo {
	return &LojaRepo{q: q}
}

func (r *LojaRepo) GetByID(id string) (*entity.Loja, error) {
	query := `
		SELECT id, nome, COALESCE(cnpj, ''), COALESCE(cidade, ''), COALESCE(uf, ''),
		       ativa, created_at, updated_at
		FROM lojas WHERE id = $1`
	var l entity.Loja
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.Nome, &l.CNPJ, &l.Cidade, &l.UF,
		&l.Ativa, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loja: %w", err)
	}
	return &l, nil
}
