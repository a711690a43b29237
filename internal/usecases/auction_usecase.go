package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
	"nft-market.backend/pkg/metrics"
)

// AuctionUsecase is the auction engine: listing, bidding and finalizing.
// States per asset run Unlisted -> Auctioning -> Ended -> Finalized, where
// Ended is derived from the end time and Finalized returns the asset to
// Unlisted under its new owner. Bid monotonicity and end-time gating are
// enforced here regardless of caller.
type AuctionUsecase struct {
	assets  repositories.AssetRepository
	ledger  repositories.TransactionRepository
	session repositories.SessionRepository
	locks   *assetLocks
}

// NewAuctionUsecase creates a new auction usecase
func NewAuctionUsecase(assets repositories.AssetRepository, ledger repositories.TransactionRepository, session repositories.SessionRepository) *AuctionUsecase {
	return &AuctionUsecase{
		assets:  assets,
		ledger:  ledger,
		session: session,
		locks:   newAssetLocks(),
	}
}

func (u *AuctionUsecase) currentAddress(ctx context.Context) (string, error) {
	session, err := u.session.Load(ctx)
	if err != nil {
		return "", err
	}
	if !session.Connected || session.Address == "" {
		return "", domainerrors.ErrWalletNotConnected
	}
	return session.Address, nil
}

// ListForAuction opens an auction on an asset owned by the connected
// wallet. The bid list and highest bidder reset; the starting bid becomes
// the current bid.
func (u *AuctionUsecase) ListForAuction(ctx context.Context, id uuid.UUID, input *entities.ListForAuctionInput) (*entities.Asset, error) {
	if input.StartingBid <= 0 {
		return nil, domainerrors.ErrBadRequest
	}
	if input.EndTime <= nowMillis() {
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

	asset.ForAuction = true
	asset.ForSale = false
	asset.Price = null.Float64{}
	asset.CurrentBid = null.Float64From(input.StartingBid)
	asset.AuctionEndTime = null.Int64From(input.EndTime)
	asset.HighestBidder = null.String{}
	asset.Bids = []entities.Bid{}

	if err := u.assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// PlaceBid appends a bid for the connected wallet. A bid at or below the
// current bid is rejected; so is a bid on an ended auction or one from the
// asset's owner.
func (u *AuctionUsecase) PlaceBid(ctx context.Context, id uuid.UUID, input *entities.PlaceBidInput) (*entities.Asset, error) {
	bidder, err := u.currentAddress(ctx)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.lock(id)
	defer unlock()

	asset, err := u.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asset.ForAuction {
		metrics.BidsRejected.Inc()
		return nil, domainerrors.ErrNotForAuction
	}
	if asset.AuctionEndTime.Valid && nowMillis() >= asset.AuctionEndTime.Int64 {
		metrics.BidsRejected.Inc()
		return nil, domainerrors.ErrAuctionEnded
	}
	if sameAddress(asset.Owner, bidder) {
		metrics.BidsRejected.Inc()
		return nil, domainerrors.ErrForbidden
	}
	if asset.CurrentBid.Valid && input.Amount <= asset.CurrentBid.Float64 {
		metrics.BidsRejected.Inc()
		return nil, domainerrors.ErrInvalidBid
	}

	asset.Bids = append(asset.Bids, entities.Bid{
		Bidder: bidder,
		Amount: input.Amount,
		Time:   nowMillis(),
	})
	asset.CurrentBid = null.Float64From(input.Amount)
	asset.HighestBidder = null.StringFrom(bidder)

	if err := u.assets.Update(ctx, asset); err != nil {
		return nil, err
	}

	metrics.BidsAccepted.Inc()
	return asset, nil
}

// FinalizeAuction settles an ended auction: records the transfer in the
// ledger, moves ownership to the highest bidder and clears the auction
// state. Without a highest bidder the asset is left untouched; before the
// end time finalization is refused.
func (u *AuctionUsecase) FinalizeAuction(ctx context.Context, id uuid.UUID) (*entities.Asset, error) {
	caller, err := u.currentAddress(ctx)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.lock(id)
	defer unlock()

	asset, err := u.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sameAddress(asset.Owner, caller) {
		return nil, domainerrors.ErrForbidden
	}
	if !asset.HighestBidder.Valid || !asset.CurrentBid.Valid {
		return nil, domainerrors.ErrNoBids
	}
	if asset.AuctionEndTime.Valid && nowMillis() < asset.AuctionEndTime.Int64 {
		return nil, domainerrors.ErrAuctionStillActive
	}

	tx := &entities.Transaction{
		ID:        uuid.New(),
		AssetID:   asset.ID,
		AssetName: asset.Name,
		Buyer:     asset.HighestBidder.String,
		Seller:    asset.Owner,
		Price:     asset.CurrentBid.Float64,
		Timestamp: nowMillis(),
	}
	if err := u.ledger.Append(ctx, tx); err != nil {
		return nil, err
	}

	asset.Owner = asset.HighestBidder.String
	asset.ClearAuctionFields()
	asset.SalesCount++

	if err := u.assets.Update(ctx, asset); err != nil {
		return nil, err
	}

	metrics.TransfersSettled.WithLabelValues("auction").Inc()
	return asset, nil
}

// RemainingMillis returns the time left in an auction in milliseconds.
// Non-positive means the auction has ended. Presentation only, not engine
// state.
func RemainingMillis(endTime, now int64) int64 {
	return endTime - now
}
