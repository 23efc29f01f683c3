package tokenmint

import (
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOptionFees(t *testing.T) {
	unitFee := decimal.RequireFromString("0.1")

	// One unit per enabled info group, one unit per kept authority.
	for i := 0; i < 1<<5; i++ {
		options := TokenOptions{
			AddCreatorInfo: i&1 != 0,
			AddSocialLinks: i&2 != 0,
			RevokeFreeze:   i&4 != 0,
			RevokeMint:     i&8 != 0,
			RevokeUpdate:   i&16 != 0,
		}
		units := 0
		if options.AddCreatorInfo {
			units++
		}
		if options.AddSocialLinks {
			units++
		}
		if !options.RevokeFreeze {
			units++
		}
		if !options.RevokeMint {
			units++
		}
		if !options.RevokeUpdate {
			units++
		}
		t.Run(fmt.Sprintf("combination_%05b", i), func(t *testing.T) {
			expected := unitFee.Mul(decimal.NewFromInt(int64(units)))
			assert.True(t, CalculateOptionFees(unitFee, options).Equal(expected))
		})
	}

	t.Run("revoke_everything_is_free", func(t *testing.T) {
		options := TokenOptions{
			RevokeFreeze: true,
			RevokeMint:   true,
			RevokeUpdate: true,
		}
		assert.True(t, CalculateOptionFees(unitFee, options).IsZero())
	})
}

func TestFeeConfigQuote(t *testing.T) {
	feeConfig := FeeConfig{
		Receiver: solana.MustPublicKeyFromBase58("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"),
		Base:     decimal.RequireFromString("0.01"),
		Option:   decimal.RequireFromString("0.1"),
	}

	t.Run("default_options_keep_all_authorities", func(t *testing.T) {
		quote, err := feeConfig.Quote(TokenOptions{})
		require.NoError(t, err)
		assert.True(t, quote.Base.Equal(decimal.RequireFromString("0.01")))
		assert.True(t, quote.Options.Equal(decimal.RequireFromString("0.3")))
		assert.True(t, quote.Total.Equal(decimal.RequireFromString("0.31")))
		assert.Equal(t, uint64(310_000_000), quote.Lamports)
	})

	t.Run("normalizes_before_quoting", func(t *testing.T) {
		// UpdateAuthorityNA implies RevokeUpdate, so the update authority
		// unit is not charged.
		quote, err := feeConfig.Quote(TokenOptions{UpdateAuthorityNA: true})
		require.NoError(t, err)
		assert.True(t, quote.Options.Equal(decimal.RequireFromString("0.2")))
		assert.Equal(t, uint64(210_000_000), quote.Lamports)
	})

	t.Run("free_path", func(t *testing.T) {
		quote, err := feeConfig.Quote(TokenOptions{RevokeFreeze: true, RevokeMint: true, RevokeUpdate: true})
		require.NoError(t, err)
		assert.True(t, quote.Options.IsZero())
		assert.Equal(t, uint64(10_000_000), quote.Lamports)
	})

	t.Run("rejects_sub_lamport_fee", func(t *testing.T) {
		invalid := FeeConfig{Base: decimal.RequireFromString("0.0000000001")}
		_, err := invalid.Quote(TokenOptions{RevokeFreeze: true, RevokeMint: true, RevokeUpdate: true})
		require.Error(t, err)
	})
}
