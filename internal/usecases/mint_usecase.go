package usecases

import (
	"context"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/pkg/logger"
	"nft-market.backend/pkg/metrics"
)

// IPFSClient is the external upload capability
type IPFSClient interface {
	UploadFile(ctx context.Context, name string, data []byte) (string, error)
	UploadMetadata(ctx context.Context, name, description, imageURI string) (string, error)
}

// MintInput carries the metadata and raw image for a mint
type MintInput struct {
	Name        string
	Creator     string
	Description string
	ImageName   string
	Image       []byte
}

// MintUsecase runs the mint flow: image upload, metadata upload, contract
// mint, then asset record creation. Any external failure aborts the flow
// with nothing recorded; there are no retries.
type MintUsecase struct {
	assets *AssetUsecase
	ipfs   IPFSClient
	chain  ContractClient // nil in local-only mode: assets are recorded unminted
}

// NewMintUsecase creates a new mint usecase
func NewMintUsecase(assets *AssetUsecase, ipfs IPFSClient, chain ContractClient) *MintUsecase {
	return &MintUsecase{assets: assets, ipfs: ipfs, chain: chain}
}

// Mint uploads the image and metadata, mints on chain and records the
// asset for the connected wallet.
func (u *MintUsecase) Mint(ctx context.Context, input *MintInput) (*entities.Asset, error) {
	imageURI, err := u.ipfs.UploadFile(ctx, input.ImageName, input.Image)
	if err != nil {
		return nil, err
	}

	metadataURI, err := u.ipfs.UploadMetadata(ctx, input.Name, input.Description, imageURI)
	if err != nil {
		return nil, err
	}

	// Token id stays unset until a contract client is configured; the
	// record is created either way, owner = connected wallet.
	tokenID := null.String{}
	if u.chain != nil {
		id, err := u.chain.Mint(ctx, metadataURI)
		if err != nil {
			return nil, err
		}
		tokenID = null.StringFrom(id)
	}

	asset, err := u.assets.Create(ctx, &entities.CreateAssetInput{
		Name:        input.Name,
		Creator:     input.Creator,
		Description: input.Description,
		Image:       imageURI,
	}, tokenID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "asset minted",
		zap.String("asset_id", asset.ID.String()),
		zap.String("token_id", tokenID.String),
		zap.String("owner", asset.Owner),
	)
	metrics.AssetsMinted.Inc()
	return asset, nil
}
