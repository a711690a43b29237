package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
)

// maxImageBytes caps uploaded image size at 10 MiB.
const maxImageBytes = 10 << 20

type assetService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Asset, error)
	List(ctx context.Context, filter usecases.AssetFilter) ([]*entities.Asset, error)
	ListForSale(ctx context.Context, id uuid.UUID, input *entities.ListForSaleInput) (*entities.Asset, error)
	Buy(ctx context.Context, id uuid.UUID) (*entities.Asset, error)
	CancelListing(ctx context.Context, id uuid.UUID) (*entities.Asset, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, input *entities.UpdatePriceInput) (*entities.Asset, error)
}

type mintService interface {
	Mint(ctx context.Context, input *usecases.MintInput) (*entities.Asset, error)
}

// AssetHandler handles asset store endpoints
type AssetHandler struct {
	assetUsecase assetService
	mintUsecase  mintService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetUsecase *usecases.AssetUsecase, mintUsecase *usecases.MintUsecase) *AssetHandler {
	return &AssetHandler{assetUsecase: assetUsecase, mintUsecase: mintUsecase}
}

func parseAssetID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid asset id"))
		return uuid.Nil, false
	}
	return id, true
}

// Mint uploads the image, mints and records the asset
// POST /api/v1/assets/mint (multipart: name, creator, description, image)
func (h *AssetHandler) Mint(c *gin.Context) {
	name := c.PostForm("name")
	creator := c.PostForm("creator")
	if name == "" || creator == "" {
		response.Error(c, domainerrors.BadRequest("name and creator are required"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("image file is required"))
		return
	}
	if fileHeader.Size > maxImageBytes {
		response.Error(c, domainerrors.BadRequest("image exceeds size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, domainerrors.BadRequest("unreadable image file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("unreadable image file"))
		return
	}

	asset, err := h.mintUsecase.Mint(c.Request.Context(), &usecases.MintInput{
		Name:        name,
		Creator:     creator,
		Description: c.PostForm("description"),
		ImageName:   fileHeader.Filename,
		Image:       data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"asset": asset})
}

// List lists assets, optionally filtered
// GET /api/v1/assets?forSale=&forAuction=&owner=
func (h *AssetHandler) List(c *gin.Context) {
	var filter usecases.AssetFilter
	if v := c.Query("forSale"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("invalid forSale filter"))
			return
		}
		filter.ForSale = &b
	}
	if v := c.Query("forAuction"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("invalid forAuction filter"))
			return
		}
		filter.ForAuction = &b
	}
	filter.Owner = c.Query("owner")

	assets, err := h.assetUsecase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assets": assets})
}

// Get returns one asset
// GET /api/v1/assets/:id
func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := h.assetUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"asset": asset})
}

// ListForSale lists an asset at a fixed price
// POST /api/v1/assets/:id/list
func (h *AssetHandler) ListForSale(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	var input entities.ListForSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	asset, err := h.assetUsecase.ListForSale(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"asset": asset})
}

// Buy purchases a listed asset
// POST /api/v1/assets/:id/buy
func (h *AssetHandler) Buy(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := h.assetUsecase.Buy(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"asset": asset})
}

// CancelListing takes an asset off the market
// POST /api/v1/assets/:id/cancel
func (h *AssetHandler) CancelListing(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := h.assetUsecase.CancelListing(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"asset": asset})
}

// UpdatePrice changes a listing price
// PUT /api/v1/assets/:id/price
func (h *AssetHandler) UpdatePrice(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	var input entities.UpdatePriceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	asset, err := h.assetUsecase.UpdatePrice(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"asset": asset})
}
