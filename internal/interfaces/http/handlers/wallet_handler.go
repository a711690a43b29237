package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
)

type walletService interface {
	Connect(ctx context.Context, input *entities.ConnectWalletInput) (*entities.WalletSession, string, error)
	Disconnect(ctx context.Context) error
	Current(ctx context.Context) (*entities.WalletSession, error)
}

// WalletHandler handles wallet session endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// Connect connects a wallet
// POST /api/v1/wallet/connect
func (h *WalletHandler) Connect(c *gin.Context) {
	var input entities.ConnectWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	session, token, err := h.walletUsecase.Connect(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session": session,
		"token":   token,
	})
}

// Disconnect disconnects the wallet
// POST /api/v1/wallet/disconnect
func (h *WalletHandler) Disconnect(c *gin.Context) {
	if err := h.walletUsecase.Disconnect(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Wallet disconnected"})
}

// Current returns the session snapshot
// GET /api/v1/wallet
func (h *WalletHandler) Current(c *gin.Context) {
	session, err := h.walletUsecase.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}
