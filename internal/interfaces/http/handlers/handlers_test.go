package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"nft-market.backend/internal/domain/entities"
	"nft-market.backend/internal/usecases"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performMultipart(t *testing.T, r *gin.Engine, path string, fields map[string]string, fileField, fileName string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatal(err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return out
}

// Service stubs for the narrow handler interfaces.

type assetServiceStub struct {
	asset     *entities.Asset
	assets    []*entities.Asset
	err       error
	gotFilter usecases.AssetFilter
}

func (s *assetServiceStub) GetByID(context.Context, uuid.UUID) (*entities.Asset, error) {
	return s.asset, s.err
}

func (s *assetServiceStub) List(_ context.Context, filter usecases.AssetFilter) ([]*entities.Asset, error) {
	s.gotFilter = filter
	return s.assets, s.err
}

func (s *assetServiceStub) ListForSale(context.Context, uuid.UUID, *entities.ListForSaleInput) (*entities.Asset, error) {
	return s.asset, s.err
}

func (s *assetServiceStub) Buy(context.Context, uuid.UUID) (*entities.Asset, error) {
	return s.asset, s.err
}

func (s *assetServiceStub) CancelListing(context.Context, uuid.UUID) (*entities.Asset, error) {
	return s.asset, s.err
}

func (s *assetServiceStub) UpdatePrice(context.Context, uuid.UUID, *entities.UpdatePriceInput) (*entities.Asset, error) {
	return s.asset, s.err
}

type mintServiceStub struct {
	asset    *entities.Asset
	err      error
	gotInput *usecases.MintInput
}

func (s *mintServiceStub) Mint(_ context.Context, input *usecases.MintInput) (*entities.Asset, error) {
	s.gotInput = input
	return s.asset, s.err
}

type auctionServiceStub struct {
	asset *entities.Asset
	err   error
}

func (s *auctionServiceStub) ListForAuction(context.Context, uuid.UUID, *entities.ListForAuctionInput) (*entities.Asset, error) {
	return s.asset, s.err
}

func (s *auctionServiceStub) PlaceBid(context.Context, uuid.UUID, *entities.PlaceBidInput) (*entities.Asset, error) {
	return s.asset, s.err
}

func (s *auctionServiceStub) FinalizeAuction(context.Context, uuid.UUID) (*entities.Asset, error) {
	return s.asset, s.err
}

type walletServiceStub struct {
	session      *entities.WalletSession
	token        string
	err          error
	disconnected bool
}

func (s *walletServiceStub) Connect(context.Context, *entities.ConnectWalletInput) (*entities.WalletSession, string, error) {
	return s.session, s.token, s.err
}

func (s *walletServiceStub) Disconnect(context.Context) error {
	s.disconnected = true
	return s.err
}

func (s *walletServiceStub) Current(context.Context) (*entities.WalletSession, error) {
	return s.session, s.err
}

type ledgerServiceStub struct {
	txs []*entities.Transaction
	err error
}

func (s *ledgerServiceStub) Transactions(context.Context) ([]*entities.Transaction, error) {
	return s.txs, s.err
}
