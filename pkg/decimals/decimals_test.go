package decimals

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	t.Run("overflow_decimals", func(t *testing.T) {
		assert.NotPanics(t, func() { ToDecimal(1, math.MaxInt32-1) }, "in-range decimals shouldn't panic")
		assert.NotPanics(t, func() { ToDecimal(1, math.MinInt32+1) }, "in-range decimals shouldn't panic")
		assert.Panics(t, func() { ToDecimal(1, math.MaxInt32+1) }, "out of range decimals should panic")
		assert.Panics(t, func() { ToDecimal(1, math.MinInt32) }, "out of range decimals should panic")
	})
	t.Run("check_supported_types", func(t *testing.T) {
		testcases := []struct {
			decimals uint16
			value    uint64
			expected string
		}{
			{0, 1, "1"},
			{1, 1, "0.1"},
			{2, 1, "0.01"},
			{9, 1, "0.000000001"},
			{18, 1, "0.000000000000000001"},
			{36, 1, "0.000000000000000000000000000000000001"},
		}
		typesConv := []func(uint64) any{
			func(i uint64) any { return int(i) },
			func(i uint64) any { return int8(i) },
			func(i uint64) any { return int16(i) },
			func(i uint64) any { return int32(i) },
			func(i uint64) any { return int64(i) },
			func(i uint64) any { return uint(i) },
			func(i uint64) any { return uint8(i) },
			func(i uint64) any { return uint16(i) },
			func(i uint64) any { return uint32(i) },
			func(i uint64) any { return uint64(i) },
			func(i uint64) any { return fmt.Sprint(i) },
			func(i uint64) any { return new(big.Int).SetUint64(i) },
			func(i uint64) any { return uint128.From64(i) },
		}
		for _, tc := range testcases {
			t.Run(fmt.Sprintf("%d_%d", tc.decimals, tc.value), func(t *testing.T) {
				for _, conv := range typesConv {
					input := conv(tc.value)
					t.Run(fmt.Sprintf("%T", input), func(t *testing.T) {
						actual := ToDecimal(input, tc.decimals)
						assert.Equal(t, tc.expected, actual.String())
					})
				}
			})
		}
	})
}

func TestFromLamports(t *testing.T) {
	testcases := []struct {
		lamports uint64
		expected string
	}{
		{0, "0"},
		{1, "0.000000001"},
		{LamportsPerSOL, "1"},
		{1_500_000_000, "1.5"},
		{math.MaxUint64, "18446744073.709551615"},
	}
	for _, tc := range testcases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FromLamports(tc.lamports).String())
		})
	}
}

func TestToLamports(t *testing.T) {
	testcases := []struct {
		name     string
		input    string
		expected uint64
		wantErr  bool
	}{
		{name: "zero", input: "0", expected: 0},
		{name: "one_sol", input: "1", expected: LamportsPerSOL},
		{name: "fee_like", input: "0.31", expected: 310_000_000},
		{name: "smallest_unit", input: "0.000000001", expected: 1},
		{name: "max_uint64", input: "18446744073.709551615", expected: math.MaxUint64},
		{name: "negative", input: "-1", wantErr: true},
		{name: "too_many_decimal_places", input: "0.0000000001", wantErr: true},
		{name: "overflow", input: "18446744073.709551616", wantErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ToLamports(MustFromString(tc.input))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestToLamportsRoundTrip(t *testing.T) {
	for _, lamports := range []uint64{0, 1, 999_999_999, LamportsPerSOL, 12_345_678_901} {
		actual, err := ToLamports(FromLamports(lamports))
		require.NoError(t, err)
		assert.Equal(t, lamports, actual)
	}
}
