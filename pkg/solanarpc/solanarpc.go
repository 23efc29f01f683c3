package solanarpc

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SignatureStatus is the confirmation state of a submitted transaction.
type SignatureStatus struct {
	ConfirmationStatus rpc.ConfirmationStatusType

	// Err is the on-chain execution error, nil if the transaction succeeded.
	Err any
}

// Confirmed reports whether the transaction reached at least the
// "confirmed" commitment level.
func (s *SignatureStatus) Confirmed() bool {
	if s == nil {
		return false
	}
	return s.ConfirmationStatus == rpc.ConfirmationStatusConfirmed || s.ConfirmationStatus == rpc.ConfirmationStatusFinalized
}

// Contract is the subset of Solana RPC methods used by this project.
type Contract interface {
	// GetVersion returns the node's software version. Used as a liveness probe.
	GetVersion(ctx context.Context) (string, error)

	// GetMinimumBalanceForRentExemption returns the lamports required to
	// keep an account of the given size rent exempt.
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error)

	// GetBalance returns the lamport balance of the given account.
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)

	// GetLatestBlockhash returns a recent blockhash usable for new transactions.
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)

	// SendTransaction submits a signed transaction and returns its signature.
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)

	// GetSignatureStatus returns the confirmation state of a signature,
	// or nil if the node does not know the signature yet.
	GetSignatureStatus(ctx context.Context, signature solana.Signature) (*SignatureStatus, error)
}
