package usecases

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"nft-market.backend/internal/domain/entities"
	domainerrors "nft-market.backend/internal/domain/errors"
	"nft-market.backend/internal/domain/repositories"
	pkgcrypto "nft-market.backend/pkg/crypto"
	"nft-market.backend/pkg/jwt"
)

var verifySignature = pkgcrypto.VerifyPersonalSign

// WalletUsecase tracks the wallet session: the connection status and the
// current address, which gate every mutating operation.
type WalletUsecase struct {
	session    repositories.SessionRepository
	jwtService *jwt.JWTService
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(session repositories.SessionRepository, jwtService *jwt.JWTService) *WalletUsecase {
	return &WalletUsecase{session: session, jwtService: jwtService}
}

// Connect verifies that the signature proves possession of the address,
// then stores and persists the session and issues a session token.
func (u *WalletUsecase) Connect(ctx context.Context, input *entities.ConnectWalletInput) (*entities.WalletSession, string, error) {
	if input.Address == "" || input.Message == "" || input.Signature == "" {
		return nil, "", domainerrors.ErrBadRequest
	}

	if err := verifySignature(input.Address, input.Message, input.Signature); err != nil {
		return nil, "", domainerrors.ErrInvalidSignature
	}

	session := &entities.WalletSession{
		Connected: true,
		Address:   common.HexToAddress(input.Address).Hex(),
	}
	if err := u.session.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := u.jwtService.GenerateToken(session.Address)
	if err != nil {
		return nil, "", err
	}

	return session, token, nil
}

// Disconnect clears the session and removes the persisted record
func (u *WalletUsecase) Disconnect(ctx context.Context) error {
	return u.session.Clear(ctx)
}

// Current returns the session snapshot. A session restored from
// persistence is trusted until the user disconnects.
func (u *WalletUsecase) Current(ctx context.Context) (*entities.WalletSession, error) {
	return u.session.Load(ctx)
}
