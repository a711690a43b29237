package repositories

import (
	"context"

	"github.com/google/uuid"
	"nft-market.backend/internal/domain/entities"
)

// AssetRepository defines asset data operations. The store owns the
// ordered collection of assets; updates replace the stored record as a
// single snapshot.
type AssetRepository interface {
	Create(ctx context.Context, asset *entities.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Asset, error)
	List(ctx context.Context) ([]*entities.Asset, error)
	Update(ctx context.Context, asset *entities.Asset) error
}
