package wallet

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
)

// Signer signs transactions on behalf of the user's wallet. Remote
// wallets may block on user approval, hence the context.
type Signer interface {
	PublicKey() solana.PublicKey
	SignTransaction(ctx context.Context, tx *solana.Transaction) error
}

// Keypair is a local in-process signer backed by an ed25519 private key.
type Keypair struct {
	privateKey solana.PrivateKey
}

var _ Signer = (*Keypair)(nil)

// NewRandom generates a fresh keypair.
func NewRandom() (*Keypair, error) {
	privateKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "can't generate private key")
	}
	return &Keypair{privateKey: privateKey}, nil
}

// FromBase58 loads a keypair from a base58-encoded private key.
func FromBase58(key string) (*Keypair, error) {
	privateKey, err := solana.PrivateKeyFromBase58(key)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse private key")
	}
	return &Keypair{privateKey: privateKey}, nil
}

// FromFile loads a keypair from a Solana CLI JSON keypair file.
func FromFile(path string) (*Keypair, error) {
	privateKey, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't load keypair file %q", path)
	}
	return &Keypair{privateKey: privateKey}, nil
}

// FromPrivateKey wraps an existing private key.
func FromPrivateKey(privateKey solana.PrivateKey) *Keypair {
	return &Keypair{privateKey: privateKey}
}

func (k *Keypair) PublicKey() solana.PublicKey {
	return k.privateKey.PublicKey()
}

// PrivateKey exposes the underlying key for partial signing of
// transactions that carry additional signers.
func (k *Keypair) PrivateKey() solana.PrivateKey {
	return k.privateKey
}

func (k *Keypair) SignTransaction(_ context.Context, tx *solana.Transaction) error {
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(k.privateKey.PublicKey()) {
			return &k.privateKey
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "can't sign transaction")
	}
	return nil
}
