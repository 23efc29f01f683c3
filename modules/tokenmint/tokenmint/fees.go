package tokenmint

import (
	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/solmint-labs/solmint/pkg/decimals"
)

// FeeConfig is the service fee schedule.
type FeeConfig struct {
	// Receiver collects the service fee. The zero value disables fee
	// collection entirely.
	Receiver solana.PublicKey

	// Base fee in SOL charged for every creation.
	Base decimal.Decimal

	// Option fee in SOL charged per paid option.
	Option decimal.Decimal
}

// FeeQuote is a service fee breakdown in SOL.
type FeeQuote struct {
	Base     decimal.Decimal `json:"base"`
	Options  decimal.Decimal `json:"options"`
	Total    decimal.Decimal `json:"total"`
	Lamports uint64          `json:"lamports"`
}

// CalculateOptionFees returns the additional fee on top of the base fee:
// one unit per enabled info group, and one unit per authority that is
// kept instead of revoked. Revoking everything is the free path.
func CalculateOptionFees(unitFee decimal.Decimal, options TokenOptions) decimal.Decimal {
	total := decimal.Zero
	if options.AddCreatorInfo {
		total = total.Add(unitFee)
	}
	if options.AddSocialLinks {
		total = total.Add(unitFee)
	}
	if !options.RevokeFreeze {
		total = total.Add(unitFee)
	}
	if !options.RevokeMint {
		total = total.Add(unitFee)
	}
	if !options.RevokeUpdate {
		total = total.Add(unitFee)
	}
	return total
}

// Quote computes the full fee breakdown for the given options.
func (c FeeConfig) Quote(options TokenOptions) (FeeQuote, error) {
	optionFees := CalculateOptionFees(c.Option, options.Normalize())
	total := c.Base.Add(optionFees)
	lamports, err := decimals.ToLamports(total)
	if err != nil {
		return FeeQuote{}, errors.Wrap(err, "invalid fee schedule")
	}
	return FeeQuote{
		Base:     c.Base,
		Options:  optionFees,
		Total:    total,
		Lamports: lamports,
	}, nil
}
