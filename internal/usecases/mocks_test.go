package usecases

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("production")
	os.Exit(m.Run())
}

// Mock AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *entities.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Asset), args.Error(1)
}

func (m *MockAssetRepository) List(ctx context.Context) ([]*entities.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Asset), args.Error(1)
}

func (m *MockAssetRepository) Update(ctx context.Context, asset *entities.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

// Mock TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]*entities.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

// Mock SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Save(ctx context.Context, session *entities.WalletSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Load(ctx context.Context) (*entities.WalletSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletSession), args.Error(1)
}

func (m *MockSessionRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock ContractClient
type MockContractClient struct {
	mock.Mock
}

func (m *MockContractClient) Mint(ctx context.Context, metadataURI string) (string, error) {
	args := m.Called(ctx, metadataURI)
	return args.String(0), args.Error(1)
}

func (m *MockContractClient) ListItem(ctx context.Context, tokenID string, price float64) (string, error) {
	args := m.Called(ctx, tokenID, price)
	return args.String(0), args.Error(1)
}

func (m *MockContractClient) BuyItem(ctx context.Context, tokenID string, price float64) (string, error) {
	args := m.Called(ctx, tokenID, price)
	return args.String(0), args.Error(1)
}

func (m *MockContractClient) CancelListing(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockContractClient) UpdatePrice(ctx context.Context, tokenID string, price float64) (string, error) {
	args := m.Called(ctx, tokenID, price)
	return args.String(0), args.Error(1)
}

// Mock IPFSClient
type MockIPFSClient struct {
	mock.Mock
}

func (m *MockIPFSClient) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}

func (m *MockIPFSClient) UploadMetadata(ctx context.Context, name, description, imageURI string) (string, error) {
	args := m.Called(ctx, name, description, imageURI)
	return args.String(0), args.Error(1)
}

// connectedSession wires the session repo mock to an active wallet.
func connectedSession(repo *MockSessionRepository, address string) {
	repo.On("Load", mock.Anything).Return(&entities.WalletSession{Connected: true, Address: address}, nil)
}

// stubNow pins the usecase clock for the duration of the test.
func stubNow(t *testing.T, ms int64) {
	t.Helper()
	orig := nowMillis
	nowMillis = func() int64 { return ms }
	t.Cleanup(func() { nowMillis = orig })
}
