package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Persistence PersistenceConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Blockchain  BlockchainConfig
	IPFS        IPFSConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// PersistenceConfig selects the key-value snapshot backend.
// Driver is one of "sqlite", "postgres", "redis".
type PersistenceConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds postgres configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// BlockchainConfig holds EVM RPC and contract settings. When RPCURL is
// empty the service runs without contract submission (local-only mode).
type BlockchainConfig struct {
	RPCURL             string
	OperatorPrivateKey string
	NFTAddress         string
	MarketplaceAddress string
}

// IPFSConfig holds the pinning service settings
type IPFSConfig struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	GatewayURL string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Persistence: PersistenceConfig{
			Driver:     getEnv("PERSISTENCE_DRIVER", "sqlite"),
			SQLitePath: getEnv("SQLITE_PATH", "nft-market.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "nftmarket"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Blockchain: BlockchainConfig{
			RPCURL:             getEnv("EVM_RPC_URL", ""),
			OperatorPrivateKey: getEnv("EVM_OPERATOR_KEY", ""),
			NFTAddress:         getEnv("NFT_CONTRACT_ADDRESS", ""),
			MarketplaceAddress: getEnv("MARKETPLACE_CONTRACT_ADDRESS", ""),
		},
		IPFS: IPFSConfig{
			BaseURL:    getEnv("IPFS_API_URL", "https://api.pinata.cloud"),
			APIKey:     getEnv("IPFS_API_KEY", ""),
			APISecret:  getEnv("IPFS_API_SECRET", ""),
			GatewayURL: getEnv("IPFS_GATEWAY_URL", "https://gateway.pinata.cloud/ipfs/"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
