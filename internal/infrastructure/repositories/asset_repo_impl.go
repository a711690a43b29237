package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/infrastructure/persistence"
	"nft-market.backend/pkg/logger"
)

// AssetRepository holds the ordered asset collection in memory and mirrors
// it to the KV layer after every mutation. Persistence is best-effort: a
// write failure is logged and the in-memory state stays authoritative for
// the rest of the session.
type AssetRepository struct {
	mu     sync.RWMutex
	assets []*entities.Asset
	index  map[uuid.UUID]int
	kv     persistence.KV
}

// NewAssetRepository creates the store and restores the persisted snapshot
// if one exists. A corrupt or version-mismatched snapshot is logged and the
// store starts empty.
func NewAssetRepository(kv persistence.KV) *AssetRepository {
	r := &AssetRepository{
		index: make(map[uuid.UUID]int),
		kv:    kv,
	}
	r.restore()
	return r
}

func (r *AssetRepository) restore() {
	raw, err := r.kv.Get(context.Background(), persistence.KeyAssets)
	if err != nil {
		if !errors.Is(err, persistence.ErrKeyNotFound) {
			logger.Warn(context.Background(), "failed to load asset snapshot", zap.Error(err))
		}
		return
	}

	var assets []*entities.Asset
	if err := persistence.UnmarshalSnapshot(raw, &assets); err != nil {
		logger.Warn(context.Background(), "discarding unreadable asset snapshot", zap.Error(err))
		return
	}

	r.assets = assets
	for i, a := range assets {
		r.index[a.ID] = i
	}
}

func (r *AssetRepository) persist(ctx context.Context) {
	snapshot, err := persistence.MarshalSnapshot(r.assets)
	if err != nil {
		logger.Warn(ctx, "failed to serialize asset snapshot", zap.Error(err))
		return
	}
	if err := r.kv.Set(ctx, persistence.KeyAssets, snapshot); err != nil {
		logger.Warn(ctx, "failed to persist asset snapshot", zap.Error(err))
	}
}

// Create appends a new asset to the collection
func (r *AssetRepository) Create(ctx context.Context, asset *entities.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[asset.ID]; exists {
		return domainerrors.ErrConflict
	}

	r.assets = append(r.assets, asset.Clone())
	r.index[asset.ID] = len(r.assets) - 1
	r.persist(ctx)
	return nil
}

// GetByID returns a copy of the asset
func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return r.assets[i].Clone(), nil
}

// List returns copies of all assets in creation order
func (r *AssetRepository) List(ctx context.Context) ([]*entities.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Asset, len(r.assets))
	for i, a := range r.assets {
		out[i] = a.Clone()
	}
	return out, nil
}

// Update replaces the stored asset with the given snapshot. The whole
// record swaps at once so multi-field mutations are all-or-nothing.
func (r *AssetRepository) Update(ctx context.Context, asset *entities.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[asset.ID]
	if !ok {
		return domainerrors.ErrNotFound
	}

	r.assets[i] = asset.Clone()
	r.persist(ctx)
	return nil
}
