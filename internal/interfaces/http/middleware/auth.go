package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/pkg/jwt"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// WalletAddressKey is the context key for the acting wallet address
	WalletAddressKey = "walletAddress"
)

type sessionLoader interface {
	Load(ctx context.Context) (*entities.WalletSession, error)
}

// AuthMiddleware requires a valid wallet session token issued to the
// currently connected wallet. A token from a wallet that has since been
// replaced by another connection is rejected.
func AuthMiddleware(jwtService *jwt.JWTService, sessions sessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if err == jwt.ErrExpiredToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		session, err := sessions.Load(c.Request.Context())
		if err != nil || !session.Connected || !strings.EqualFold(session.Address, claims.Address) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token does not match the connected wallet",
			})
			return
		}

		c.Set(WalletAddressKey, claims.Address)
		c.Next()
	}
}

// GetWalletAddress returns the authenticated wallet address from the
// request context.
func GetWalletAddress(c *gin.Context) (string, bool) {
	addr, ok := c.Get(WalletAddressKey)
	if !ok {
		return "", false
	}
	s, ok := addr.(string)
	return s, ok && s != ""
}
