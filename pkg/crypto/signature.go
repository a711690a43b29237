package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
)

// personalSignHash applies the eth_sign / personal_sign message prefix
// before hashing, matching what browser wallets sign.
func personalSignHash(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return ethcrypto.Keccak256([]byte(prefixed))
}

// VerifyPersonalSign checks that signatureHex is a valid personal-sign
// signature of message by address.
func VerifyPersonalSign(address, message, signatureHex string) error {
	sig, err := hex.DecodeString(strings.TrimPrefix(signatureHex, "0x"))
	if err != nil {
		return ErrInvalidSignature
	}
	if len(sig) != 65 {
		return ErrInvalidSignature
	}

	// Wallets produce V as 27/28; go-ethereum expects 0/1.
	if sig[64] >= 27 {
		sig = append([]byte{}, sig...)
		sig[64] -= 27
	}

	pubKey, err := ethcrypto.SigToPub(personalSignHash(message), sig)
	if err != nil {
		return ErrInvalidSignature
	}

	recovered := ethcrypto.PubkeyToAddress(*pubKey)
	if recovered != common.HexToAddress(address) {
		return ErrInvalidSignature
	}
	return nil
}
