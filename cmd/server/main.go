package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nft-market.backend/internal/config"
	"nft-market.backend/internal/infrastructure/blockchain"
	"nft-market.backend/internal/infrastructure/ipfs"
	"nft-market.backend/internal/infrastructure/persistence"
	"nft-market.backend/internal/infrastructure/repositories"
	"nft-market.backend/internal/interfaces/http/handlers"
	"nft-market.backend/internal/interfaces/http/middleware"
	"nft-market.backend/internal/usecases"
	"nft-market.backend/pkg/jwt"
	"nft-market.backend/pkg/logger"
	"nft-market.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openSQLite = func(path string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	openPostgres = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{DSN: dsn}), &gorm.Config{})
	}
	newEVMClient = blockchain.NewEVMClient
	runServer    = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func openKV(cfg *config.Config) (persistence.KV, bool, error) {
	switch cfg.Persistence.Driver {
	case "redis":
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			return nil, false, fmt.Errorf("failed to initialize redis: %w", err)
		}
		return persistence.NewRedisKV(), true, nil
	case "postgres":
		db, err := openPostgres(cfg.Database.URL())
		if err != nil {
			return nil, false, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		kv, err := persistence.NewGormKV(db)
		return kv, false, err
	case "sqlite":
		db, err := openSQLite(cfg.Persistence.SQLitePath)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		kv, err := persistence.NewGormKV(db)
		return kv, false, err
	default:
		return nil, false, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	kv, redisActive, err := openKV(cfg)
	if err != nil {
		return err
	}
	logger.Info(context.Background(), "Persistence ready", zap.String("driver", cfg.Persistence.Driver))

	// Repositories restore their snapshots on construction.
	assetRepo := repositories.NewAssetRepository(kv)
	transactionRepo := repositories.NewTransactionRepository(kv)
	sessionRepo := repositories.NewSessionRepository(kv)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Contract submission is optional: without an RPC URL the service runs
	// in local-only mode and assets are recorded unminted.
	var chain usecases.ContractClient
	if cfg.Blockchain.RPCURL != "" {
		evm, err := newEVMClient(cfg.Blockchain.RPCURL)
		if err != nil {
			return fmt.Errorf("failed to connect to EVM RPC: %w", err)
		}
		defer evm.Close()

		market, err := blockchain.NewMarketClient(evm, cfg.Blockchain.OperatorPrivateKey, cfg.Blockchain.NFTAddress, cfg.Blockchain.MarketplaceAddress)
		if err != nil {
			return fmt.Errorf("failed to initialize contract client: %w", err)
		}
		chain = market
		logger.Info(context.Background(), "Contract client ready", zap.String("rpc", cfg.Blockchain.RPCURL))
	} else {
		logger.Warn(context.Background(), "No EVM RPC configured, running in local-only mode")
	}

	ipfsClient := ipfs.NewClient(cfg.IPFS.BaseURL, cfg.IPFS.APIKey, cfg.IPFS.APISecret, cfg.IPFS.GatewayURL)

	assetUsecase := usecases.NewAssetUsecase(assetRepo, transactionRepo, sessionRepo, chain, cfg.Blockchain.NFTAddress)
	auctionUsecase := usecases.NewAuctionUsecase(assetRepo, transactionRepo, sessionRepo)
	walletUsecase := usecases.NewWalletUsecase(sessionRepo, jwtService)
	mintUsecase := usecases.NewMintUsecase(assetUsecase, ipfsClient, chain)

	deps := routeDeps{
		walletHandler:      handlers.NewWalletHandler(walletUsecase),
		assetHandler:       handlers.NewAssetHandler(assetUsecase, mintUsecase),
		auctionHandler:     handlers.NewAuctionHandler(auctionUsecase),
		transactionHandler: handlers.NewTransactionHandler(assetUsecase),
		authMiddleware:     middleware.AuthMiddleware(jwtService, sessionRepo),
	}
	if redisActive {
		deps.idempotency = middleware.IdempotencyMiddleware()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerAPIV1Routes(r, deps)

	logger.Info(context.Background(), "Server starting", zap.String("port", cfg.Server.Port))
	return runServer(r, cfg.Server.Port)
}
