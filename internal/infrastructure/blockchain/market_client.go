package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	domainerrors "nft-market.backend/internal/domain/errors"
)

const nftABIJSON = `[
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"tokenURI","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":true,"name":"tokenId","type":"uint256"}]}
]`

const marketABIJSON = `[
	{"type":"function","name":"listItem","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"price","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"buyItem","stateMutability":"payable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"cancelListing","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"updatePrice","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"newPrice","type":"uint256"}],"outputs":[]}
]`

var (
	transactContract = func(client *ethclient.Client, contractAddress common.Address, parsedABI abi.ABI, opts *bind.TransactOpts, method string, args ...interface{}) (*types.Transaction, error) {
		contract := bind.NewBoundContract(contractAddress, parsedABI, client, client, client)
		return contract.Transact(opts, method, args...)
	}
	waitTxMined = func(ctx context.Context, client *ethclient.Client, tx *types.Transaction) (*types.Receipt, error) {
		return bind.WaitMined(ctx, client, tx)
	}
)

// MarketClient submits mint and marketplace transactions with the
// configured operator key.
type MarketClient struct {
	evm         *EVMClient
	key         *ecdsa.PrivateKey
	nftAddr     common.Address
	marketAddr  common.Address
	nftABI      abi.ABI
	marketABI   abi.ABI
	transferSig common.Hash
}

// NewMarketClient creates a contract client bound to the NFT and
// marketplace contract addresses.
func NewMarketClient(evm *EVMClient, operatorKeyHex, nftAddress, marketplaceAddress string) (*MarketClient, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(operatorKeyHex, "0x"))
	if err != nil {
		return nil, err
	}

	nftABI, err := abi.JSON(strings.NewReader(nftABIJSON))
	if err != nil {
		return nil, err
	}
	marketABI, err := abi.JSON(strings.NewReader(marketABIJSON))
	if err != nil {
		return nil, err
	}

	return &MarketClient{
		evm:         evm,
		key:         key,
		nftAddr:     common.HexToAddress(nftAddress),
		marketAddr:  common.HexToAddress(marketplaceAddress),
		nftABI:      nftABI,
		marketABI:   marketABI,
		transferSig: nftABI.Events["Transfer"].ID,
	}, nil
}

func (c *MarketClient) transactOpts(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.evm.ChainID())
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.Value = value
	return opts, nil
}

// Mint submits a mint transaction and returns the token id parsed from the
// receipt's Transfer event.
func (c *MarketClient) Mint(ctx context.Context, metadataURI string) (string, error) {
	opts, err := c.transactOpts(ctx, nil)
	if err != nil {
		return "", err
	}

	tx, err := transactContract(c.evm.client, c.nftAddr, c.nftABI, opts, "mint", metadataURI)
	if err != nil {
		return "", err
	}

	receipt, err := waitTxMined(ctx, c.evm.client, tx)
	if err != nil {
		return "", err
	}

	return tokenIDFromReceipt(receipt, c.nftAddr, c.transferSig)
}

// tokenIDFromReceipt extracts the minted token id from the Transfer event
// emitted by the NFT contract. A receipt without one is a malformed
// response, not a success.
func tokenIDFromReceipt(receipt *types.Receipt, nftAddr common.Address, transferSig common.Hash) (string, error) {
	for _, log := range receipt.Logs {
		if log.Address != nftAddr || len(log.Topics) != 4 {
			continue
		}
		if log.Topics[0] == transferSig {
			return log.Topics[3].Big().String(), nil
		}
	}
	return "", domainerrors.ErrMalformedResponse
}

// ListItem lists a token at a fixed price on the marketplace contract
func (c *MarketClient) ListItem(ctx context.Context, tokenID string, price float64) (string, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	return c.marketTransact(ctx, nil, "listItem", id, etherToWei(price))
}

// BuyItem purchases a listed token, sending the price as value
func (c *MarketClient) BuyItem(ctx context.Context, tokenID string, price float64) (string, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	return c.marketTransact(ctx, etherToWei(price), "buyItem", id)
}

// CancelListing removes a token's fixed-price listing
func (c *MarketClient) CancelListing(ctx context.Context, tokenID string) (string, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	return c.marketTransact(ctx, nil, "cancelListing", id)
}

// UpdatePrice changes the listed price of a token
func (c *MarketClient) UpdatePrice(ctx context.Context, tokenID string, price float64) (string, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	return c.marketTransact(ctx, nil, "updatePrice", id, etherToWei(price))
}

func (c *MarketClient) marketTransact(ctx context.Context, value *big.Int, method string, args ...interface{}) (string, error) {
	opts, err := c.transactOpts(ctx, value)
	if err != nil {
		return "", err
	}

	tx, err := transactContract(c.evm.client, c.marketAddr, c.marketABI, opts, method, args...)
	if err != nil {
		return "", err
	}

	if _, err := waitTxMined(ctx, c.evm.client, tx); err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

// etherToWei converts a decimal ether amount to wei.
func etherToWei(amount float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(amount), big.NewFloat(1e18)).Int(nil)
	return wei
}

// parseTokenID parses a decimal token id string. Token ids originate from
// receipts parsed by this package, so a bad one means the stored asset
// record is corrupt; no transaction is submitted for it.
func parseTokenID(tokenID string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return nil, fmt.Errorf("%w: token id %q", domainerrors.ErrMalformedResponse, tokenID)
	}
	return id, nil
}
