package entities

import (
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Bid represents one accepted bid on an auctioned asset
type Bid struct {
	Bidder string  `json:"bidder"`
	Amount float64 `json:"amount"`
	Time   int64   `json:"time"`
}

// Asset represents one NFT record: the on-chain token plus local metadata.
// Timestamps are unix milliseconds to match the persisted snapshot format.
type Asset struct {
	ID              uuid.UUID    `json:"id"`
	TokenID         null.String  `json:"tokenId,omitempty"`
	Name            string       `json:"name"`
	Creator         string       `json:"creator"`
	ContractAddress string       `json:"contractAddress"`
	Description     string       `json:"description"`
	Image           string       `json:"image"`
	Owner           string       `json:"owner"`
	Price           null.Float64 `json:"price,omitempty"`
	ForSale         bool         `json:"isForSale"`
	ForAuction      bool         `json:"isForAuction"`
	AuctionEndTime  null.Int64   `json:"auctionEndTime,omitempty"`
	CurrentBid      null.Float64 `json:"currentBid,omitempty"`
	HighestBidder   null.String  `json:"highestBidder,omitempty"`
	Bids            []Bid        `json:"bids,omitempty"`
	SalesCount      int          `json:"salesCount"`
	CreatedAt       int64        `json:"createdAt"`
}

// Clone returns a deep copy of the asset. Mutations are prepared on a copy
// and applied as a single snapshot replace, so a failed multi-field update
// never leaves the stored record half-written.
func (a *Asset) Clone() *Asset {
	c := *a
	if a.Bids != nil {
		c.Bids = make([]Bid, len(a.Bids))
		copy(c.Bids, a.Bids)
	}
	return &c
}

// ClearAuctionFields resets every auction-related attribute, returning the
// asset to the unlisted state.
func (a *Asset) ClearAuctionFields() {
	a.ForAuction = false
	a.CurrentBid = null.Float64{}
	a.AuctionEndTime = null.Int64{}
	a.HighestBidder = null.String{}
	a.Bids = nil
}

// CreateAssetInput represents the metadata needed to record a minted NFT
type CreateAssetInput struct {
	Name        string `json:"name" binding:"required"`
	Creator     string `json:"creator" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image" binding:"required"`
}

// ListForSaleInput represents input for a fixed-price listing
type ListForSaleInput struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// UpdatePriceInput represents input for changing a listing price
type UpdatePriceInput struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// ListForAuctionInput represents input for opening an auction.
// EndTime is unix milliseconds.
type ListForAuctionInput struct {
	StartingBid float64 `json:"startingBid" binding:"required,gt=0"`
	EndTime     int64   `json:"endTime" binding:"required"`
}

// PlaceBidInput represents input for bidding on an auction
type PlaceBidInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
