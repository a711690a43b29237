package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersSettled counts ledger entries by kind ("sale" or "auction").
	TransfersSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nftmarket_transfers_settled_total",
		Help: "Completed transfers recorded in the ledger",
	}, []string{"kind"})

	// BidsAccepted counts bids that passed engine validation.
	BidsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nftmarket_bids_accepted_total",
		Help: "Bids accepted by the auction engine",
	})

	// BidsRejected counts bids rejected by engine validation.
	BidsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nftmarket_bids_rejected_total",
		Help: "Bids rejected by the auction engine",
	})

	// AssetsMinted counts assets recorded after a successful mint.
	AssetsMinted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nftmarket_assets_minted_total",
		Help: "Assets created after a successful mint",
	})
)
