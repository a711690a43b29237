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

// SessionRepository holds the process-wide wallet session. The persisted
// form uses the two plain keys the store has always written; a restored
// session is trusted without re-verification.
type SessionRepository struct {
	mu      sync.RWMutex
	session entities.WalletSession
	kv      persistence.KV
}

// NewSessionRepository creates the session store and restores any
// persisted session.
func NewSessionRepository(kv persistence.KV) *SessionRepository {
	r := &SessionRepository{kv: kv}
	r.restore()
	return r
}

func (r *SessionRepository) restore() {
	ctx := context.Background()
	connected, err := r.kv.Get(ctx, persistence.KeyWalletConnected)
	if err != nil {
		if !errors.Is(err, persistence.ErrKeyNotFound) {
			logger.Warn(ctx, "failed to load wallet session", zap.Error(err))
		}
		return
	}
	address, err := r.kv.Get(ctx, persistence.KeyWalletAddress)
	if err != nil {
		return
	}

	if connected == "true" && address != "" {
		r.session = entities.WalletSession{Connected: true, Address: address}
	}
}

// Save stores the session and persists it
func (r *SessionRepository) Save(ctx context.Context, session *entities.WalletSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session = *session
	if err := r.kv.Set(ctx, persistence.KeyWalletConnected, "true"); err != nil {
		logger.Warn(ctx, "failed to persist wallet session", zap.Error(err))
		return nil
	}
	if err := r.kv.Set(ctx, persistence.KeyWalletAddress, session.Address); err != nil {
		logger.Warn(ctx, "failed to persist wallet address", zap.Error(err))
	}
	return nil
}

// Load returns the current session
func (r *SessionRepository) Load(ctx context.Context) (*entities.WalletSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.session
	return &s, nil
}

// Clear disconnects the session and removes the persisted record
func (r *SessionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session = entities.WalletSession{}
	if err := r.kv.Del(ctx, persistence.KeyWalletConnected); err != nil {
		logger.Warn(ctx, "failed to remove persisted wallet session", zap.Error(err))
	}
	if err := r.kv.Del(ctx, persistence.KeyWalletAddress); err != nil {
		logger.Warn(ctx, "failed to remove persisted wallet address", zap.Error(err))
	}
	return nil
}
