package decimals

import (
	"math"
	"math/big"
	"reflect"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
	"github.com/solmint-labs/solmint/pkg/logger"
	"github.com/solmint-labs/solmint/pkg/logger/slogx"
	"golang.org/x/exp/constraints"
)

const (
	DefaultDivPrecision = 36

	// LamportsPerSOL is the number of lamports in one SOL.
	LamportsPerSOL = 1_000_000_000

	// SolDecimals is the number of decimal places of the native token.
	SolDecimals = 9
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal convert any type to decimal.Decimal (safety floating point)
func ToDecimal[T constraints.Integer](ivalue any, decimals T) decimal.Decimal {
	value := new(big.Int)
	switch v := ivalue.(type) {
	case string:
		value.SetString(v, 10)
	case *big.Int:
		value = v
	case int64:
		value = big.NewInt(v)
	case int, int8, int16, int32:
		rValue := reflect.ValueOf(v)
		value.SetInt64(rValue.Int())
	case uint64:
		value = big.NewInt(0).SetUint64(v)
	case uint, uint8, uint16, uint32:
		rValue := reflect.ValueOf(v)
		value.SetUint64(rValue.Uint())
	case []byte:
		value.SetBytes(v)
	case uint128.Uint128:
		value = v.Big()
	}

	switch {
	case int64(decimals) > math.MaxInt32:
		logger.Panic("ToDecimal: decimals is too big, should be equal less than 2^31-1", slogx.Any("decimals", decimals))
	case int64(decimals) < math.MinInt32+1:
		logger.Panic("ToDecimal: decimals is too small, should be greater than -2^31", slogx.Any("decimals", decimals))
	}

	return decimal.NewFromBigInt(value, -int32(decimals))
}

// FromLamports converts a raw lamport amount to a SOL-denominated decimal.
func FromLamports(lamports uint64) decimal.Decimal {
	return ToDecimal(lamports, SolDecimals)
}

// ToLamports converts a SOL-denominated decimal to a raw lamport amount.
// The value must be non-negative, fit in uint64, and carry at most
// 9 decimal places.
func ToLamports(sol decimal.Decimal) (uint64, error) {
	if sol.IsNegative() {
		return 0, errors.Errorf("amount must not be negative: %s", sol)
	}
	scaled := sol.Mul(PowerOfTen(SolDecimals))
	if !scaled.IsInteger() {
		return 0, errors.Errorf("amount has more than %d decimal places: %s", SolDecimals, sol)
	}
	value := scaled.BigInt()
	if !value.IsUint64() {
		return 0, errors.Errorf("amount overflows uint64 lamports: %s", sol)
	}
	return value.Uint64(), nil
}
