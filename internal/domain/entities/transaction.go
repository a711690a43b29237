package entities

import (
	"github.com/google/uuid"
)

// Transaction represents one completed transfer: a direct sale or an
// auction settlement. Records are immutable once appended to the ledger.
type Transaction struct {
	ID        uuid.UUID `json:"id"`
	AssetID   uuid.UUID `json:"nftId"`
	AssetName string    `json:"nftName"`
	Buyer     string    `json:"buyer"`
	Seller    string    `json:"seller"`
	Price     float64   `json:"price"`
	Timestamp int64     `json:"timestamp"`
}
