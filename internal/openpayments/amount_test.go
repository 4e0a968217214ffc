package openpayments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaledAmount(t *testing.T) {
	tests := []struct {
		amount string
		scaled int64
	}{
		{"10.00", 1000},
		{"10", 1000},
		{"0.99", 99},
		{"0.005", 1},
		{"0", 0},
		{"1234.56", 123456},
	}
	for _, tt := range tests {
		scaled, err := scaledAmount(tt.amount)
		require.NoError(t, err, tt.amount)
		assert.Equal(t, tt.scaled, scaled, tt.amount)
	}
}

func TestScaledAmountInvalid(t *testing.T) {
	for _, amount := range []string{"", "abc", "-1.00", "NaN", "Inf", "10,00"} {
		_, err := scaledAmount(amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, amount)
	}
}

func TestWithSlippage(t *testing.T) {
	assert.Equal(t, int64(1100), withSlippage(1000))
	assert.Equal(t, int64(110), withSlippage(100))
	assert.Equal(t, int64(1), withSlippage(1))
	assert.Equal(t, int64(0), withSlippage(0))
}

func TestScaledUSD(t *testing.T) {
	a := scaledUSD(1000)
	assert.Equal(t, "1000", a.Value)
	assert.Equal(t, "USD", a.AssetCode)
	assert.Equal(t, 2, a.AssetScale)
}
