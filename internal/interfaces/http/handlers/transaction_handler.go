package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/interfaces/http/response"
	"nft-market.backend/internal/usecases"
)

type ledgerService interface {
	Transactions(ctx context.Context) ([]*entities.Transaction, error)
}

// TransactionHandler serves the completed-transfer ledger
type TransactionHandler struct {
	assetUsecase ledgerService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(assetUsecase *usecases.AssetUsecase) *TransactionHandler {
	return &TransactionHandler{assetUsecase: assetUsecase}
}

// List returns the ledger in creation order
// GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	txs, err := h.assetUsecase.Transactions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if txs == nil {
		txs = []*entities.Transaction{}
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txs})
}
