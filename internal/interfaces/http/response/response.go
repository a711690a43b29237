package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "nft-market.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response, mapping domain errors to HTTP statuses
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
		return
	}

	status := statusFor(err)
	c.JSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerrors.ErrBadRequest),
		errors.Is(err, domainerrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domainerrors.ErrUnauthorized),
		errors.Is(err, domainerrors.ErrWalletNotConnected),
		errors.Is(err, domainerrors.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, domainerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domainerrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domainerrors.ErrNotForSale),
		errors.Is(err, domainerrors.ErrNotForAuction),
		errors.Is(err, domainerrors.ErrInvalidBid),
		errors.Is(err, domainerrors.ErrAuctionEnded),
		errors.Is(err, domainerrors.ErrAuctionStillActive),
		errors.Is(err, domainerrors.ErrNoBids):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainerrors.ErrMalformedResponse),
		errors.Is(err, domainerrors.ErrContractCall):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
