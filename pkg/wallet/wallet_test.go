package wallet

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypairSignTransaction(t *testing.T) {
	payer, err := NewRandom()
	require.NoError(t, err)
	recipient, err := NewRandom()
	require.NoError(t, err)

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, payer.PublicKey(), recipient.PublicKey()).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)

	require.NoError(t, payer.SignTransaction(context.Background(), tx))
	require.NoError(t, tx.VerifySignatures())
}

func TestKeypairPartialSign(t *testing.T) {
	payer, err := NewRandom()
	require.NoError(t, err)
	mint, err := NewRandom()
	require.NoError(t, err)

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewCreateAccountInstruction(1, 0, solana.SystemProgramID, payer.PublicKey(), mint.PublicKey()).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)

	// each signer contributes only its own signature
	require.NoError(t, mint.SignTransaction(context.Background(), tx))
	assert.Error(t, tx.VerifySignatures(), "payer signature still missing")

	require.NoError(t, payer.SignTransaction(context.Background(), tx))
	require.NoError(t, tx.VerifySignatures())
}

func TestFromBase58RoundTrip(t *testing.T) {
	keypair, err := NewRandom()
	require.NoError(t, err)

	restored, err := FromBase58(keypair.PrivateKey().String())
	require.NoError(t, err)
	assert.Equal(t, keypair.PublicKey(), restored.PublicKey())

	_, err = FromBase58("not-a-key")
	assert.Error(t, err)
}
