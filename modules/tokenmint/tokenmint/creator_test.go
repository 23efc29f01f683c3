package tokenmint

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/pkg/solanarpc"
	"github.com/solmint-labs/solmint/pkg/token2022"
	"github.com/solmint-labs/solmint/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChain struct {
	rent     uint64
	balance  uint64
	sendErrs []error
	statuses []*solanarpc.SignatureStatus

	rentSize uint64
	sent     []*solana.Transaction
	polls    int
}

var _ solanarpc.Contract = (*fakeChain)(nil)

func (c *fakeChain) GetVersion(context.Context) (string, error) {
	return "2.0.0", nil
}

func (c *fakeChain) GetMinimumBalanceForRentExemption(_ context.Context, dataSize uint64) (uint64, error) {
	c.rentSize = dataSize
	return c.rent, nil
}

func (c *fakeChain) GetBalance(context.Context, solana.PublicKey) (uint64, error) {
	return c.balance, nil
}

func (c *fakeChain) GetLatestBlockhash(context.Context) (solana.Hash, error) {
	return solana.Hash{1}, nil
}

func (c *fakeChain) SendTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	index := len(c.sent)
	c.sent = append(c.sent, tx)
	if index < len(c.sendErrs) && c.sendErrs[index] != nil {
		return solana.Signature{}, c.sendErrs[index]
	}
	var signature solana.Signature
	signature[0] = byte(index + 1)
	return signature, nil
}

func (c *fakeChain) GetSignatureStatus(context.Context, solana.Signature) (*solanarpc.SignatureStatus, error) {
	if c.polls < len(c.statuses) {
		status := c.statuses[c.polls]
		c.polls++
		return status, nil
	}
	c.polls++
	return nil, nil
}

var statusConfirmed = &solanarpc.SignatureStatus{ConfirmationStatus: rpc.ConfirmationStatusConfirmed}

// fee schedule: 0.01 base, 0.1 per kept option. The test spec revokes
// everything, so the quote is the 0.01 SOL base fee only.
var testFees = FeeConfig{
	Receiver: solana.MustPublicKeyFromBase58("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"),
	Base:     decimal.RequireFromString("0.01"),
	Option:   decimal.RequireFromString("0.1"),
}

const (
	testRawRent      = uint64(1_000_000)
	testInflatedRent = uint64(1_200_000)
	testRequired     = uint64(10_000_000) + testInflatedRent
)

func testSpec() TokenSpecification {
	return TokenSpecification{
		Name:     "Example Token",
		Symbol:   "EXT",
		Decimals: 9,
		Supply:   1_000_000,
		Options: TokenOptions{
			RevokeFreeze: true,
			RevokeMint:   true,
			RevokeUpdate: true,
		},
	}
}

func newTestCreator(t *testing.T, chain *fakeChain, publisher *Publisher) (*Creator, *wallet.Keypair, *wallet.Keypair) {
	t.Helper()
	payer, err := wallet.NewRandom()
	require.NoError(t, err)
	mintKeypair, err := wallet.NewRandom()
	require.NoError(t, err)
	creator := NewCreator(chain, publisher, testFees, CreatorOptions{
		NewMintKeypair: func() (*wallet.Keypair, error) { return mintKeypair, nil },
		Sleep:          func(context.Context, time.Duration) error { return nil },
	})
	return creator, payer, mintKeypair
}

func TestCreateToken(t *testing.T) {
	t.Run("full_flow", func(t *testing.T) {
		chain := &fakeChain{
			rent:     testRawRent,
			balance:  testRequired,
			statuses: []*solanarpc.SignatureStatus{nil, nil, statusConfirmed},
		}
		pinner := &fakePinner{fileHash: "QmImage", jsonHash: "QmMetadata"}
		creator, payer, mintKeypair := newTestCreator(t, chain, NewPublisher(pinner))

		spec := testSpec()
		spec.Image = []byte{0x89, 0x50, 0x4e, 0x47}

		var stages []string
		hooks := StageHooks{
			OnPublishing:   func() { stages = append(stages, "publishing") },
			OnAwaitingSign: func() { stages = append(stages, "awaitingSign") },
			OnConfirming:   func() { stages = append(stages, "confirming") },
		}

		result, err := creator.CreateToken(context.Background(), payer, spec, hooks)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.False(t, result.Partial)
		assert.Equal(t, mintKeypair.PublicKey(), result.MintAddress)
		assert.Equal(t, solana.Signature{1}, result.Signature)
		assert.Equal(t, "ipfs://QmMetadata", result.MetadataURI)
		assert.Equal(t, "https://gateway.example.com/ipfs/QmMetadata", result.MetadataGatewayURL)
		assert.Equal(t, "https://gateway.example.com/ipfs/QmImage", result.ImageGatewayURL)

		assert.Equal(t, []string{"publishing", "awaitingSign", "confirming"}, stages)
		assert.Len(t, chain.sent, 2)
		assert.Equal(t, 3, chain.polls)

		// The mint account is allocated at the extension size but rent
		// must cover the reallocated metadata too.
		assert.Greater(t, chain.rentSize, uint64(token2022.MintSizeWithMetadataPointer))

		// Both transactions share one blockhash.
		assert.Equal(t, chain.sent[0].Message.RecentBlockhash, chain.sent[1].Message.RecentBlockhash)
	})

	t.Run("insufficient_funds", func(t *testing.T) {
		chain := &fakeChain{rent: testRawRent, balance: testRequired - 1}
		creator, payer, _ := newTestCreator(t, chain, nil)

		_, err := creator.CreateToken(context.Background(), payer, testSpec())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.InsufficientFunds))
		assert.Empty(t, chain.sent)
	})

	t.Run("balance_exactly_required_passes", func(t *testing.T) {
		chain := &fakeChain{
			rent:     testRawRent,
			balance:  testRequired,
			statuses: []*solanarpc.SignatureStatus{statusConfirmed},
		}
		creator, payer, _ := newTestCreator(t, chain, nil)

		result, err := creator.CreateToken(context.Background(), payer, testSpec())
		require.NoError(t, err)
		assert.False(t, result.Partial)
	})

	t.Run("on_chain_failure_stops_before_second_transaction", func(t *testing.T) {
		chain := &fakeChain{
			rent:     testRawRent,
			balance:  testRequired,
			statuses: []*solanarpc.SignatureStatus{{Err: map[string]any{"InstructionError": []any{}}}},
		}
		creator, payer, _ := newTestCreator(t, chain, nil)

		_, err := creator.CreateToken(context.Background(), payer, testSpec())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.TransactionFailure))
		assert.Len(t, chain.sent, 1)
	})

	t.Run("confirmation_timeout_proceeds", func(t *testing.T) {
		// Status never resolves; the poll budget runs out and the second
		// transaction is still attempted.
		chain := &fakeChain{rent: testRawRent, balance: testRequired}
		creator, payer, _ := newTestCreator(t, chain, nil)

		result, err := creator.CreateToken(context.Background(), payer, testSpec())
		require.NoError(t, err)
		assert.False(t, result.Partial)
		assert.Len(t, chain.sent, 2)
		assert.Equal(t, 10, chain.polls)
	})

	t.Run("token_account_failure_returns_partial_result", func(t *testing.T) {
		chain := &fakeChain{
			rent:     testRawRent,
			balance:  testRequired,
			statuses: []*solanarpc.SignatureStatus{statusConfirmed},
			sendErrs: []error{nil, errors.New("blockhash expired")},
		}
		creator, payer, mintKeypair := newTestCreator(t, chain, nil)

		result, err := creator.CreateToken(context.Background(), payer, testSpec())
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Partial)
		assert.Equal(t, mintKeypair.PublicKey(), result.MintAddress)
		assert.Equal(t, solana.Signature{1}, result.Signature)
		assert.Len(t, chain.sent, 2)
	})

	t.Run("nil_signer", func(t *testing.T) {
		chain := &fakeChain{rent: testRawRent, balance: testRequired}
		creator, _, _ := newTestCreator(t, chain, nil)

		_, err := creator.CreateToken(context.Background(), nil, testSpec())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.WalletNotConnected))
	})

	t.Run("invalid_spec_rejected_before_any_call", func(t *testing.T) {
		chain := &fakeChain{rent: testRawRent, balance: testRequired}
		creator, payer, _ := newTestCreator(t, chain, nil)

		spec := testSpec()
		spec.Symbol = ""
		_, err := creator.CreateToken(context.Background(), payer, spec)
		require.Error(t, err)
		assert.Empty(t, chain.sent)
		assert.Zero(t, chain.rentSize)
	})
}
