package repositories

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/infrastructure/persistence"
	"nft-market.backend/pkg/logger"
)

// TransactionRepository is the append-only ledger of completed transfers,
// mirrored to the KV layer after every append.
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions []*entities.Transaction
	kv           persistence.KV
}

// NewTransactionRepository creates the ledger and restores the persisted
// snapshot if one exists.
func NewTransactionRepository(kv persistence.KV) *TransactionRepository {
	r := &TransactionRepository{kv: kv}
	r.restore()
	return r
}

func (r *TransactionRepository) restore() {
	raw, err := r.kv.Get(context.Background(), persistence.KeyTransactions)
	if err != nil {
		if !errors.Is(err, persistence.ErrKeyNotFound) {
			logger.Warn(context.Background(), "failed to load transaction snapshot", zap.Error(err))
		}
		return
	}

	var txs []*entities.Transaction
	if err := persistence.UnmarshalSnapshot(raw, &txs); err != nil {
		logger.Warn(context.Background(), "discarding unreadable transaction snapshot", zap.Error(err))
		return
	}
	r.transactions = txs
}

func (r *TransactionRepository) persist(ctx context.Context) {
	snapshot, err := persistence.MarshalSnapshot(r.transactions)
	if err != nil {
		logger.Warn(ctx, "failed to serialize transaction snapshot", zap.Error(err))
		return
	}
	if err := r.kv.Set(ctx, persistence.KeyTransactions, snapshot); err != nil {
		logger.Warn(ctx, "failed to persist transaction snapshot", zap.Error(err))
	}
}

// Append adds a transfer record to the ledger
func (r *TransactionRepository) Append(ctx context.Context, tx *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *tx
	r.transactions = append(r.transactions, &c)
	r.persist(ctx)
	return nil
}

// List returns all transfer records in creation order
func (r *TransactionRepository) List(ctx context.Context) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Transaction, len(r.transactions))
	for i, tx := range r.transactions {
		c := *tx
		out[i] = &c
	}
	return out, nil
}
