package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
	"nft-market.backend/pkg/metrics"
)

// nowMillis is the usecase clock, unix milliseconds. Injectable for tests.
var nowMillis = func() int64 {
	return time.Now().UnixMilli()
}

// ContractClient is the external contract-submission capability. Calls may
// fail; a failure aborts the local mutation with nothing recorded.
type ContractClient interface {
	Mint(ctx context.Context, metadataURI string) (string, error)
	ListItem(ctx context.Context, tokenID string, price float64) (string, error)
	BuyItem(ctx context.Context, tokenID string, price float64) (string, error)
	CancelListing(ctx context.Context, tokenID string) (string, error)
	UpdatePrice(ctx context.Context, tokenID string, price float64) (string, error)
}

// AssetFilter narrows List results
type AssetFilter struct {
	ForSale    *bool
	ForAuction *bool
	Owner      string
}

// AssetUsecase handles the asset store operations: create, fixed-price
// listing, purchase, cancel and price update. All preconditions are
// enforced here, not by callers.
type AssetUsecase struct {
	assets          repositories.AssetRepository
	ledger          repositories.TransactionRepository
	session         repositories.SessionRepository
	chain           ContractClient // nil in local-only mode
	locks           *assetLocks
	contractAddress string
}

// NewAssetUsecase creates a new asset usecase. chain may be nil, in which
// case no contract submissions are made.
func NewAssetUsecase(assets repositories.AssetRepository, ledger repositories.TransactionRepository, session repositories.SessionRepository, chain ContractClient, contractAddress string) *AssetUsecase {
	return &AssetUsecase{
		assets:          assets,
		ledger:          ledger,
		session:         session,
		chain:           chain,
		locks:           newAssetLocks(),
		contractAddress: contractAddress,
	}
}

// currentAddress returns the connected wallet address or fails when no
// wallet session is active.
func (u *AssetUsecase) currentAddress(ctx context.Context) (string, error) {
	session, err := u.session.Load(ctx)
	if err != nil {
		return "", err
	}
	if !session.Connected || session.Address == "" {
		return "", domainerrors.ErrWalletNotConnected
	}
	return session.Address, nil
}

func sameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Create records a freshly minted NFT. Owner is the connected wallet,
// sales count starts at zero.
func (u *AssetUsecase) Create(ctx context.Context, input *entities.CreateAssetInput, tokenID null.String) (*entities.Asset, error) {
	owner, err := u.currentAddress(ctx)
	if err != nil {
		return nil, err
	}

	asset := &entities.Asset{
		ID:              uuid.New(),
		TokenID:         tokenID,
		Name:            input.Name,
		Creator:         input.Creator,
		ContractAddress: u.contractAddress,
		Description:     input.Description,
		Image:           input.Image,
		Owner:           owner,
		SalesCount:      0,
		CreatedAt:       nowMillis(),
	}

	if err := u.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// GetByID returns one asset
func (u *AssetUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.Asset, error) {
	return u.assets.GetByID(ctx, id)
}

// List returns assets matching the filter, in creation order
func (u *AssetUsecase) List(ctx context.Context, filter AssetFilter) ([]*entities.Asset, error) {
	all, err := u.assets.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Asset, 0, len(all))
	for _, a := range all {
		if filter.ForSale != nil && a.ForSale != *filter.ForSale {
			continue
		}
		if filter.ForAuction != nil && a.ForAuction != *filter.ForAuction {
			continue
		}
		if filter.Owner != "" && !sameAddress(a.Owner, filter.Owner) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Transactions returns the completed-transfer ledger in creation order
func (u *AssetUsecase) Transactions(ctx context.Context) ([]*entities.Transaction, error) {
	return u.ledger.List(ctx)
}

// ListForSale puts an asset up at a fixed price
func (u *AssetUsecase) ListForSale(ctx context.Context, id uuid.UUID, input *entities.ListForSaleInput) (*entities.Asset, error) {
	if input.Price <= 0 {
		return nil, domainerrors.ErrBadRequest
	}

	owner, err := u.currentAddress(ctx)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.lock(id)
	defer unlock()

	asset, err := u.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sameAddress(asset.Owner, owner) {
		return nil, domainerrors.ErrForbidden
	}

	if u.chain != nil && asset.TokenID.Valid {
		if _, err := u.chain.ListItem(ctx, asset.TokenID.String, input.Price); err != nil {
			return nil, err
		}
	}

	asset.ForSale = true
	asset.ForAuction = false
	asset.Price = null.Float64From(input.Price)

	if err := u.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Buy transfers a listed asset to the connected wallet and records the
// transfer in the ledger. An asset that is not actively listed for sale,
// including one moved to auction, leaves state and ledger unchanged.
func (u *AssetUsecase) Buy(ctx context.Context, id uuid.UUID) (*entities.Asset, error) {
	buyer, err := u.currentAddress(ctx)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.lock(id)
	defer unlock()

	asset, err := u.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asset.ForSale || !asset.Price.Valid {
		return nil, domainerrors.ErrNotForSale
	}
	if sameAddress(asset.Owner, buyer) {
		return nil, domainerrors.ErrForbidden
	}

	if u.chain != nil && asset.TokenID.Valid {
		if _, err := u.chain.BuyItem(ctx, asset.TokenID.String, asset.Price.Float64); err != nil {
			return nil, err
		}
	}

	tx := &entities.Transaction{
		ID:        uuid.New(),
		AssetID:   asset.ID,
		AssetName: asset.Name,
		Buyer:     buyer,
		Seller:    asset.Owner,
		Price:     asset.Price.Float64,
		Timestamp: nowMillis(),
	}
	if err := u.ledger.Append(ctx, tx); err != nil {
		return nil, err
	}

	asset.Owner = buyer
	asset.ForSale = false
	asset.Price = null.Float64{}
	asset.SalesCount++

	if err := u.assets.Update(ctx, asset); err != nil {
		return nil, err
	}

	metrics.TransfersSettled.WithLabelValues("sale").Inc()
	return asset, nil
}

// CancelListing takes an asset off the market. Auction sub-fields are
// cleared along with the flags so no stale bid state survives a cancel.
func (u *AssetUsecase) CancelListing(ctx context.Context, id uuid.UUID) (*entities.Asset, error) {
	owner, err := u.currentAddress(ctx)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.lock(id)
	defer unlock()

	asset, err := u.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sameAddress(asset.Owner, owner) {
		return nil, domainerrors.ErrForbidden
	}

	if u.chain != nil && asset.TokenID.Valid && asset.ForSale {
		if _, err := u.chain.CancelListing(ctx, asset.TokenID.String); err != nil {
			return nil, err
		}
	}

	asset.ForSale = false
	asset.Price = null.Float64{}
	asset.ClearAuctionFields()

	if err := u.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// UpdatePrice changes the fixed price of a listed asset
func (u *AssetUsecase) UpdatePrice(ctx context.Context, id uuid.UUID, input *entities.UpdatePriceInput) (*entities.Asset, error) {
	if input.Price <= 0 {
		return nil, domainerrors.ErrBadRequest
	}

	owner, err := u.currentAddress(ctx)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.lock(id)
	defer unlock()

	asset, err := u.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sameAddress(asset.Owner, owner) {
		return nil, domainerrors.ErrForbidden
	}
	if !asset.ForSale {
		return nil, domainerrors.ErrNotForSale
	}

	if u.chain != nil && asset.TokenID.Valid {
		if _, err := u.chain.UpdatePrice(ctx, asset.TokenID.String, input.Price); err != nil {
			return nil, err
		}
	}

	asset.Price = null.Float64From(input.Price)

	if err := u.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}
