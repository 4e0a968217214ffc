package openpayments

import (
	"math"
	"strconv"
)

const (
	assetCode  = "USD"
	assetScale = 2

	// Fixed slippage allowance on the send side of an outgoing payment.
	slippagePercent = 10
)

// Amount is a scaled asset amount as used on every payment resource.
type Amount struct {
	Value      string `json:"value"`
	AssetCode  string `json:"assetCode"`
	AssetScale int    `json:"assetScale"`
}

// scaledAmount converts a decimal amount string into minor units at the
// fixed asset scale, rounding halves up.
func scaledAmount(amount string) (int64, error) {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(v * 100)), nil
}

// withSlippage inflates a scaled amount by the fixed slippage allowance.
func withSlippage(scaled int64) int64 {
	return int64(math.Round(float64(scaled) * (100 + slippagePercent) / 100))
}

func scaledUSD(scaled int64) *Amount {
	return &Amount{
		Value:      strconv.FormatInt(scaled, 10),
		AssetCode:  assetCode,
		AssetScale: assetScale,
	}
}
