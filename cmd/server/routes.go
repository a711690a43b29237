package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"nft-market.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	walletHandler      *handlers.WalletHandler
	assetHandler       *handlers.AssetHandler
	auctionHandler     *handlers.AuctionHandler
	transactionHandler *handlers.TransactionHandler
	authMiddleware     gin.HandlerFunc
	idempotency        gin.HandlerFunc // nil when no redis is configured
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	guard := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.idempotency != nil {
			return []gin.HandlerFunc{d.idempotency, h}
		}
		return []gin.HandlerFunc{h}
	}

	v1 := r.Group("/api/v1")
	{
		// Wallet session routes
		wallet := v1.Group("/wallet")
		{
			wallet.POST("/connect", d.walletHandler.Connect)
			wallet.POST("/disconnect", d.authMiddleware, d.walletHandler.Disconnect)
			wallet.GET("", d.walletHandler.Current)
		}

		// Asset routes (reads public, mutations wallet-gated)
		assets := v1.Group("/assets")
		{
			assets.GET("", d.assetHandler.List)
			assets.GET("/:id", d.assetHandler.Get)

			protected := assets.Group("")
			protected.Use(d.authMiddleware)
			{
				protected.POST("/mint", d.assetHandler.Mint)
				protected.POST("/:id/list", d.assetHandler.ListForSale)
				protected.POST("/:id/buy", guard(d.assetHandler.Buy)...)
				protected.POST("/:id/cancel", d.assetHandler.CancelListing)
				protected.PUT("/:id/price", d.assetHandler.UpdatePrice)
				protected.POST("/:id/auction", d.auctionHandler.ListForAuction)
				protected.POST("/:id/bid", guard(d.auctionHandler.PlaceBid)...)
				protected.POST("/:id/finalize", guard(d.auctionHandler.FinalizeAuction)...)
			}
		}

		// Ledger routes (public)
		v1.GET("/transactions", d.transactionHandler.List)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
