package tokenmint

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenOptionsNormalize(t *testing.T) {
	t.Run("revoke_update_implies_na", func(t *testing.T) {
		normalized := TokenOptions{RevokeUpdate: true}.Normalize()
		assert.True(t, normalized.RevokeUpdate)
		assert.True(t, normalized.UpdateAuthorityNA)
	})

	t.Run("na_implies_revoke_update", func(t *testing.T) {
		normalized := TokenOptions{UpdateAuthorityNA: true}.Normalize()
		assert.True(t, normalized.RevokeUpdate)
		assert.True(t, normalized.UpdateAuthorityNA)
	})

	t.Run("disabled_groups_drop_text_fields", func(t *testing.T) {
		normalized := TokenOptions{
			CreatorName:    "alice",
			CreatorWebsite: "https://example.com",
			TwitterLink:    "https://twitter.com/example",
			DiscordLink:    "https://discord.gg/example",
			TelegramLink:   "https://t.me/example",
		}.Normalize()
		assert.Empty(t, normalized.CreatorName)
		assert.Empty(t, normalized.CreatorWebsite)
		assert.Empty(t, normalized.TwitterLink)
		assert.Empty(t, normalized.DiscordLink)
		assert.Empty(t, normalized.TelegramLink)
	})

	t.Run("enabled_groups_keep_text_fields", func(t *testing.T) {
		normalized := TokenOptions{
			AddCreatorInfo: true,
			AddSocialLinks: true,
			CreatorName:    "alice",
			TwitterLink:    "https://twitter.com/example",
		}.Normalize()
		assert.Equal(t, "alice", normalized.CreatorName)
		assert.Equal(t, "https://twitter.com/example", normalized.TwitterLink)
	})

	t.Run("idempotent", func(t *testing.T) {
		options := TokenOptions{
			AddCreatorInfo:    true,
			UpdateAuthorityNA: true,
			CreatorName:       "alice",
			TelegramLink:      "https://t.me/example",
		}
		once := options.Normalize()
		assert.Equal(t, once, once.Normalize())
	})
}

func TestTokenSpecificationValidate(t *testing.T) {
	valid := TokenSpecification{
		Name:     "Example Token",
		Symbol:   "EXT",
		Decimals: 9,
		Supply:   1_000_000,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(s TokenSpecification) TokenSpecification
	}{
		{
			name: "empty_name",
			mutate: func(s TokenSpecification) TokenSpecification {
				s.Name = ""
				return s
			},
		},
		{
			name: "empty_symbol",
			mutate: func(s TokenSpecification) TokenSpecification {
				s.Symbol = ""
				return s
			},
		},
		{
			name: "symbol_too_long",
			mutate: func(s TokenSpecification) TokenSpecification {
				s.Symbol = "TOOLONGSYMB"
				return s
			},
		},
		{
			name: "unsupported_decimals",
			mutate: func(s TokenSpecification) TokenSpecification {
				s.Decimals = 3
				return s
			},
		},
		{
			name: "zero_supply",
			mutate: func(s TokenSpecification) TokenSpecification {
				s.Supply = 0
				return s
			},
		},
		{
			name: "supply_above_float_safe_range",
			mutate: func(s TokenSpecification) TokenSpecification {
				s.Supply = 1 << 53
				return s
			},
		},
		{
			name: "mint_amount_overflows_u64",
			mutate: func(s TokenSpecification) TokenSpecification {
				s.Supply = 1<<53 - 1
				s.Decimals = 9
				return s
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.mutate(valid).Validate())
		})
	}
}

func TestTokenSpecificationMintAmount(t *testing.T) {
	tests := []struct {
		name     string
		supply   uint64
		decimals uint8
		expected uint64
		wantErr  bool
	}{
		{name: "zero_decimals", supply: 42, decimals: 0, expected: 42},
		{name: "two_decimals", supply: 42, decimals: 2, expected: 4_200},
		{name: "six_decimals", supply: 1_000_000, decimals: 6, expected: 1_000_000_000_000},
		{name: "nine_decimals", supply: 1_000_000_000, decimals: 9, expected: 1_000_000_000_000_000_000},
		{name: "max_supply_zero_decimals", supply: 1<<53 - 1, decimals: 0, expected: 1<<53 - 1},
		{name: "max_supply_two_decimals", supply: 1<<53 - 1, decimals: 2, expected: 900_719_925_474_099_100},
		{name: "max_supply_nine_decimals_overflows", supply: 1<<53 - 1, decimals: 9, wantErr: true},
		{name: "overflow_past_u64", supply: 18_446_744_074, decimals: 9, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := TokenSpecification{Supply: tt.supply, Decimals: tt.decimals}.MintAmount()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errs.InvalidSupply))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, amount)
		})
	}
}
