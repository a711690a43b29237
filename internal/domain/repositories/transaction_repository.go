package repositories

import (
	"context"

	"nft-market.backend/internal/domain/entities"
)

// TransactionRepository defines ledger operations. The ledger is
// append-only: records are never mutated or removed.
type TransactionRepository interface {
	Append(ctx context.Context, tx *entities.Transaction) error
	List(ctx context.Context) ([]*entities.Transaction, error)
}
