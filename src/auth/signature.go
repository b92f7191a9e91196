package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var errSignatureLength = errors.New("signature must be 65 bytes")

// EthereumVerifier recovers the signer of an EIP-191 personal_sign message,
// which is what MetaMask produces for a login challenge.
type EthereumVerifier struct{}

func NewEthereumVerifier() EthereumVerifier {
	return EthereumVerifier{}
}

func (EthereumVerifier) RecoverAddress(message, signature string) (string, error) {
	raw, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) != crypto.SignatureLength {
		return "", errSignatureLength
	}

	sig := make([]byte, len(raw))
	copy(sig, raw)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}

	return strings.ToLower(crypto.PubkeyToAddress(*pub).Hex()), nil
}

// NormalizeWalletAddress validates a hex wallet address and returns its
// canonical lowercase 0x form.
func NormalizeWalletAddress(address string) (string, bool) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", false
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), true
}
