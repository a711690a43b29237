package persistence

import (
	"context"
	"errors"
)

// Persistence keys. The record shapes under "nfts" and "transactions" are
// the JSON-serialized entities wrapped in a version envelope.
const (
	KeyAssets          = "nfts"
	KeyTransactions    = "transactions"
	KeyWalletConnected = "walletConnected"
	KeyWalletAddress   = "walletAddress"
)

// ErrKeyNotFound is returned by Get when the key has never been set.
var ErrKeyNotFound = errors.New("key not found")

// KV is the durable local key-value capability the stores mirror into.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}
