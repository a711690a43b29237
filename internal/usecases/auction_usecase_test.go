package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
)

const bidderAddr = "0x3333333333333333333333333333333333333333"

func newAuctionUsecaseWith(assets *MockAssetRepository, ledger *MockTransactionRepository, session *MockSessionRepository) *AuctionUsecase {
	return NewAuctionUsecase(assets, ledger, session)
}

func TestListForAuction_OpensAuctionWithFreshBidState(t *testing.T) {
	stubNow(t, 1000)

	asset := newAssetFixture(ownerAddr)
	asset.ForSale = true
	asset.Price = null.Float64From(9)
	asset.Bids = []entities.Bid{{Bidder: bidderAddr, Amount: 5}}
	asset.HighestBidder = null.StringFrom(bidderAddr)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, ownerAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)
	mockAssets.On("Update", mock.Anything, asset).Return(nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	got, err := uc.ListForAuction(context.Background(), asset.ID, &entities.ListForAuctionInput{
		StartingBid: 1.5,
		EndTime:     5000,
	})

	assert.NoError(t, err)
	assert.True(t, got.ForAuction)
	assert.False(t, got.ForSale)
	assert.False(t, got.Price.Valid)
	assert.Equal(t, 1.5, got.CurrentBid.Float64)
	assert.Equal(t, int64(5000), got.AuctionEndTime.Int64)
	assert.False(t, got.HighestBidder.Valid)
	assert.Empty(t, got.Bids)
}

func TestListForAuction_MovedAssetCannotBeBoughtAtOldPrice(t *testing.T) {
	stubNow(t, 1000)

	asset := newAssetFixture(ownerAddr)
	asset.ForSale = true
	asset.Price = null.Float64From(2)

	mockAssets := new(MockAssetRepository)
	mockLedger := new(MockTransactionRepository)
	mockSession := new(MockSessionRepository)
	mockSession.On("Load", mock.Anything).Return(&entities.WalletSession{Connected: true, Address: ownerAddr}, nil).Once()
	mockSession.On("Load", mock.Anything).Return(&entities.WalletSession{Connected: true, Address: buyerAddr}, nil)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)
	mockAssets.On("Update", mock.Anything, asset).Return(nil)

	auctions := newAuctionUsecaseWith(mockAssets, mockLedger, mockSession)
	_, err := auctions.ListForAuction(context.Background(), asset.ID, &entities.ListForAuctionInput{
		StartingBid: 1,
		EndTime:     5000,
	})
	assert.NoError(t, err)
	assert.False(t, asset.Price.Valid)

	// A buyer connecting mid-auction must not settle at the old fixed price.
	sales := NewAssetUsecase(mockAssets, mockLedger, mockSession, nil, "")
	_, err = sales.Buy(context.Background(), asset.ID)

	assert.ErrorIs(t, err, domainerrors.ErrNotForSale)
	assert.Equal(t, ownerAddr, asset.Owner)
	assert.True(t, asset.ForAuction)
	mockLedger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestListForAuction_RejectsPastEndTime(t *testing.T) {
	stubNow(t, 5000)

	uc := newAuctionUsecaseWith(new(MockAssetRepository), new(MockTransactionRepository), new(MockSessionRepository))

	_, err := uc.ListForAuction(context.Background(), newAssetFixture(ownerAddr).ID, &entities.ListForAuctionInput{
		StartingBid: 1,
		EndTime:     4000,
	})

	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
}

func TestListForAuction_OnlyOwner(t *testing.T) {
	stubNow(t, 1000)

	asset := newAssetFixture(ownerAddr)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, bidderAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	_, err := uc.ListForAuction(context.Background(), asset.ID, &entities.ListForAuctionInput{
		StartingBid: 1,
		EndTime:     5000,
	})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	mockAssets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func auctionFixture(endTime int64, currentBid float64) *entities.Asset {
	asset := newAssetFixture(ownerAddr)
	asset.ForAuction = true
	asset.AuctionEndTime = null.Int64From(endTime)
	asset.CurrentBid = null.Float64From(currentBid)
	return asset
}

func TestPlaceBid_HigherBidBecomesCurrent(t *testing.T) {
	stubNow(t, 2000)

	asset := auctionFixture(9000, 1.5)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, bidderAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)
	mockAssets.On("Update", mock.Anything, asset).Return(nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	got, err := uc.PlaceBid(context.Background(), asset.ID, &entities.PlaceBidInput{Amount: 2})

	assert.NoError(t, err)
	assert.Equal(t, 2.0, got.CurrentBid.Float64)
	assert.Equal(t, bidderAddr, got.HighestBidder.String)
	assert.Len(t, got.Bids, 1)
	assert.Equal(t, entities.Bid{Bidder: bidderAddr, Amount: 2, Time: 2000}, got.Bids[0])
}

func TestPlaceBid_SequenceStaysMonotone(t *testing.T) {
	stubNow(t, 2000)

	asset := auctionFixture(9000, 1)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, bidderAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)
	mockAssets.On("Update", mock.Anything, asset).Return(nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	for _, amount := range []float64{1.2, 1.4, 2.0} {
		_, err := uc.PlaceBid(context.Background(), asset.ID, &entities.PlaceBidInput{Amount: amount})
		assert.NoError(t, err)
	}

	assert.Len(t, asset.Bids, 3)
	for i := 1; i < len(asset.Bids); i++ {
		assert.Greater(t, asset.Bids[i].Amount, asset.Bids[i-1].Amount)
	}
	assert.Equal(t, 2.0, asset.CurrentBid.Float64)
}

func TestPlaceBid_AtOrBelowCurrentRejected(t *testing.T) {
	stubNow(t, 2000)

	asset := auctionFixture(9000, 2)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, bidderAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	for _, amount := range []float64{2, 1.5} {
		_, err := uc.PlaceBid(context.Background(), asset.ID, &entities.PlaceBidInput{Amount: amount})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidBid)
	}

	assert.Empty(t, asset.Bids)
	assert.Equal(t, 2.0, asset.CurrentBid.Float64)
	mockAssets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPlaceBid_EndedAuctionRejected(t *testing.T) {
	stubNow(t, 9000)

	asset := auctionFixture(9000, 1)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, bidderAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	_, err := uc.PlaceBid(context.Background(), asset.ID, &entities.PlaceBidInput{Amount: 5})

	assert.ErrorIs(t, err, domainerrors.ErrAuctionEnded)
}

func TestPlaceBid_NotForAuction(t *testing.T) {
	asset := newAssetFixture(ownerAddr)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, bidderAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	_, err := uc.PlaceBid(context.Background(), asset.ID, &entities.PlaceBidInput{Amount: 5})

	assert.ErrorIs(t, err, domainerrors.ErrNotForAuction)
}

func TestPlaceBid_OwnerCannotBid(t *testing.T) {
	stubNow(t, 2000)

	asset := auctionFixture(9000, 1)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, ownerAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	_, err := uc.PlaceBid(context.Background(), asset.ID, &entities.PlaceBidInput{Amount: 5})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestFinalizeAuction_SettlesToHighestBidder(t *testing.T) {
	stubNow(t, 9500)

	asset := auctionFixture(9000, 4)
	asset.HighestBidder = null.StringFrom(bidderAddr)
	asset.Bids = []entities.Bid{{Bidder: bidderAddr, Amount: 4, Time: 3000}}
	asset.SalesCount = 2

	mockAssets := new(MockAssetRepository)
	mockLedger := new(MockTransactionRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, ownerAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)
	mockAssets.On("Update", mock.Anything, asset).Return(nil)

	var recorded *entities.Transaction
	mockLedger.On("Append", mock.Anything, mock.AnythingOfType("*entities.Transaction")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*entities.Transaction)
		}).
		Return(nil).
		Once()

	uc := newAuctionUsecaseWith(mockAssets, mockLedger, mockSession)

	got, err := uc.FinalizeAuction(context.Background(), asset.ID)

	assert.NoError(t, err)
	assert.Equal(t, bidderAddr, got.Owner)
	assert.False(t, got.ForAuction)
	assert.False(t, got.CurrentBid.Valid)
	assert.False(t, got.AuctionEndTime.Valid)
	assert.False(t, got.HighestBidder.Valid)
	assert.Empty(t, got.Bids)
	assert.Equal(t, 3, got.SalesCount)

	assert.Equal(t, bidderAddr, recorded.Buyer)
	assert.Equal(t, ownerAddr, recorded.Seller)
	assert.Equal(t, 4.0, recorded.Price)
	mockLedger.AssertExpectations(t)
}

func TestFinalizeAuction_BeforeEndTimeRefused(t *testing.T) {
	stubNow(t, 5000)

	asset := auctionFixture(9000, 4)
	asset.HighestBidder = null.StringFrom(bidderAddr)

	mockAssets := new(MockAssetRepository)
	mockLedger := new(MockTransactionRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, ownerAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	uc := newAuctionUsecaseWith(mockAssets, mockLedger, mockSession)

	_, err := uc.FinalizeAuction(context.Background(), asset.ID)

	assert.ErrorIs(t, err, domainerrors.ErrAuctionStillActive)
	assert.Equal(t, ownerAddr, asset.Owner)
	mockLedger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestFinalizeAuction_NoBidsLeavesStateUntouched(t *testing.T) {
	stubNow(t, 9500)

	asset := auctionFixture(9000, 4)

	mockAssets := new(MockAssetRepository)
	mockLedger := new(MockTransactionRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, ownerAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	uc := newAuctionUsecaseWith(mockAssets, mockLedger, mockSession)

	_, err := uc.FinalizeAuction(context.Background(), asset.ID)

	assert.ErrorIs(t, err, domainerrors.ErrNoBids)
	assert.True(t, asset.ForAuction)
	assert.Equal(t, ownerAddr, asset.Owner)
	mockLedger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockAssets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFinalizeAuction_OnlyOwner(t *testing.T) {
	asset := auctionFixture(9000, 4)
	asset.HighestBidder = null.StringFrom(bidderAddr)

	mockAssets := new(MockAssetRepository)
	mockSession := new(MockSessionRepository)
	connectedSession(mockSession, bidderAddr)
	mockAssets.On("GetByID", mock.Anything, asset.ID).Return(asset, nil)

	uc := newAuctionUsecaseWith(mockAssets, new(MockTransactionRepository), mockSession)

	_, err := uc.FinalizeAuction(context.Background(), asset.ID)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestRemainingMillis(t *testing.T) {
	assert.Equal(t, int64(3000), RemainingMillis(9000, 6000))
	assert.Equal(t, int64(0), RemainingMillis(9000, 9000))
	assert.Equal(t, int64(-500), RemainingMillis(9000, 9500))
}
