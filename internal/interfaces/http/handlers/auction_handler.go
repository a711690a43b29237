package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
)

type auctionService interface {
	ListForAuction(ctx context.Context, id uuid.UUID, input *entities.ListForAuctionInput) (*entities.Asset, error)
	PlaceBid(ctx context.Context, id uuid.UUID, input *entities.PlaceBidInput) (*entities.Asset, error)
	FinalizeAuction(ctx context.Context, id uuid.UUID) (*entities.Asset, error)
}

// AuctionHandler handles auction endpoints
type AuctionHandler struct {
	auctionUsecase auctionService
}

// NewAuctionHandler creates a new auction handler
func NewAuctionHandler(auctionUsecase *usecases.AuctionUsecase) *AuctionHandler {
	return &AuctionHandler{auctionUsecase: auctionUsecase}
}

// auctionView decorates an asset with the derived remaining time.
func auctionView(asset *entities.Asset) gin.H {
	view := gin.H{"asset": asset}
	if asset.ForAuction && asset.AuctionEndTime.Valid {
		remaining := usecases.RemainingMillis(asset.AuctionEndTime.Int64, time.Now().UnixMilli())
		view["remainingMillis"] = remaining
		view["ended"] = remaining <= 0
	}
	return view
}

// ListForAuction opens an auction
// POST /api/v1/assets/:id/auction
func (h *AuctionHandler) ListForAuction(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	var input entities.ListForAuctionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	asset, err := h.auctionUsecase.ListForAuction(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, auctionView(asset))
}

// PlaceBid bids on an auction
// POST /api/v1/assets/:id/bid
func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	var input entities.PlaceBidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	asset, err := h.auctionUsecase.PlaceBid(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, auctionView(asset))
}

// FinalizeAuction settles an ended auction
// POST /api/v1/assets/:id/finalize
func (h *AuctionHandler) FinalizeAuction(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := h.auctionUsecase.FinalizeAuction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"asset": asset})
}
