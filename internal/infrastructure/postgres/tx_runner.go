package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aladinsys/fiscal-api/internal/domain/repository"
)

// TxRunner executa trabalho fiscal dentro de uma transação, entregando
// repositórios atados a ela. Commit no sucesso, rollback em qualquer erro.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) RunFiscal(ctx context.Context, fn func(
	notaRepo repository.NotaFiscalRepository,
	configRepo repository.ConfiguracaoFiscalRepository,
	pedidoRepo repository.PedidoVendaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(
		NewNotaFiscalRepository(tx),
		NewConfiguracaoFiscalRepository(tx),
		NewPedidoVendaRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
