package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/infrastructure/persistence"
)

const sessionAddr = "0x1111111111111111111111111111111111111111"

func TestSessionRepository_DefaultsDisconnected(t *testing.T) {
	repo := NewSessionRepository(newFakeKV())

	session, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, session.Connected)
	assert.Empty(t, session.Address)
}

func TestSessionRepository_SaveLoadClear(t *testing.T) {
	kv := newFakeKV()
	repo := NewSessionRepository(kv)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entities.WalletSession{Connected: true, Address: sessionAddr}))

	session, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, session.Connected)
	assert.Equal(t, sessionAddr, session.Address)

	connected, err := kv.Get(ctx, persistence.KeyWalletConnected)
	require.NoError(t, err)
	assert.Equal(t, "true", connected)

	require.NoError(t, repo.Clear(ctx))

	session, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, session.Connected)

	_, err = kv.Get(ctx, persistence.KeyWalletConnected)
	assert.ErrorIs(t, err, persistence.ErrKeyNotFound)
	_, err = kv.Get(ctx, persistence.KeyWalletAddress)
	assert.ErrorIs(t, err, persistence.ErrKeyNotFound)
}

func TestSessionRepository_RestoresPersistedSession(t *testing.T) {
	kv := newFakeKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, persistence.KeyWalletConnected, "true"))
	require.NoError(t, kv.Set(ctx, persistence.KeyWalletAddress, sessionAddr))

	repo := NewSessionRepository(kv)

	session, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, session.Connected)
	assert.Equal(t, sessionAddr, session.Address)
}

func TestSessionRepository_IgnoresPartialPersistedState(t *testing.T) {
	kv := newFakeKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, persistence.KeyWalletConnected, "true"))

	repo := NewSessionRepository(kv)

	session, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, session.Connected)
}
