package entities

// WalletSession reflects the externally-owned wallet connection. There is
// one session per process; a restored session is trusted until the user
// disconnects.
type WalletSession struct {
	Connected bool   `json:"connected"`
	Address   string `json:"address"`
}

// ConnectWalletInput represents input for connecting a wallet. The
// signature must be a personal-sign of Message by Address.
type ConnectWalletInput struct {
	Address   string `json:"address" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}
