package repositories

import (
	"context"

	"nft-market.backend/internal/domain/entities"
)

// SessionRepository defines wallet session persistence. The session is a
// process-wide singleton; Load returns a disconnected session when nothing
// has been persisted.
type SessionRepository interface {
	Save(ctx context.Context, session *entities.WalletSession) error
	Load(ctx context.Context) (*entities.WalletSession, error)
	Clear(ctx context.Context) error
}
