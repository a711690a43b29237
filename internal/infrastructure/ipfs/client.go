package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	domainerrors "nft-market.backend/internal/domain/errors"
)

// Client uploads files and metadata to a pinata-style pinning service and
// returns gateway URIs.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	gatewayURL string
	httpClient *http.Client
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// NewClient creates an IPFS upload client
func NewClient(baseURL, apiKey, apiSecret, gatewayURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadFile pins raw file bytes and returns the gateway URI
func (c *Client) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinFileToIPFS", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req)
}

// UploadMetadata pins the token metadata JSON and returns the gateway URI
func (c *Client) UploadMetadata(ctx context.Context, name, description, imageURI string) (string, error) {
	payload := map[string]interface{}{
		"pinataContent": map[string]string{
			"name":        name,
			"description": description,
			"image":       imageURI,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req)
}

func (c *Client) send(req *http.Request) (string, error) {
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ipfs upload failed: status %d: %s", resp.StatusCode, body)
	}

	var pin pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pin); err != nil {
		return "", domainerrors.ErrMalformedResponse
	}
	if pin.IpfsHash == "" {
		return "", domainerrors.ErrMalformedResponse
	}

	return c.gatewayURL + pin.IpfsHash, nil
}
