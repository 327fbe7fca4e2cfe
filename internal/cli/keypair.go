package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

var ErrKeypairRequired = errors.New("keypair is required (--keypair or LEDGER_KEYPAIR)")

// loadKeypair accepts either a solana-keygen JSON file or a base58-encoded 64-byte secret key.
func loadKeypair(value string) (solana.PrivateKey, error) {
	if value == "" {
		return nil, ErrKeypairRequired
	}
	if _, err := os.Stat(value); err == nil {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(value)
		if err != nil {
			return nil, fmt.Errorf("failed to load keypair file: %w", err)
		}
		return key, nil
	}

	raw, err := base58.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("keypair is neither a readable file nor base58: %w", err)
	}
	key := solana.PrivateKey(raw)
	if !key.IsValid() {
		return nil, fmt.Errorf("invalid keypair: expected a 64-byte secret key, got %d bytes", len(raw))
	}
	return key, nil
}
