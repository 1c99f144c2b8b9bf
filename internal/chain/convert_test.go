package chain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/domain"
)

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		currency domain.Currency
		want     string
	}{
		{"one ether", "1", domain.CurrencyETH, "1000000000000000000"},
		{"fractional ether", "0.05", domain.CurrencyETH, "50000000000000000"},
		{"one usdc", "1", domain.CurrencyUSDC, "1000000"},
		{"usdt with cents", "120.50", domain.CurrencyUSDT, "120500000"},
		{"usdc sub-precision truncated", "0.0000001", domain.CurrencyUSDC, "0"},
		{"zero", "0", domain.CurrencyETH, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToBaseUnits(decimal.RequireFromString(tc.amount), tc.currency)
			if got.String() != tc.want {
				t.Errorf("ToBaseUnits(%s, %s) = %s, want %s", tc.amount, tc.currency, got, tc.want)
			}
		})
	}
}

func TestFromBaseUnits(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	if got := FromBaseUnits(wei, domain.CurrencyETH); !got.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("FromBaseUnits(wei) = %s, want 1.5", got)
	}

	if got := FromBaseUnits(big.NewInt(2500000), domain.CurrencyUSDC); !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("FromBaseUnits(usdc) = %s, want 2.5", got)
	}

	if got := FromBaseUnits(nil, domain.CurrencyETH); !got.IsZero() {
		t.Errorf("FromBaseUnits(nil) = %s, want 0", got)
	}
}

func TestBaseUnitsRoundTrip(t *testing.T) {
	for _, c := range domain.Currencies() {
		amount := decimal.RequireFromString("123.456")
		back := FromBaseUnits(ToBaseUnits(amount, c), c)
		if !back.Equal(amount) {
			t.Errorf("%s round trip: got %s, want %s", c, back, amount)
		}
	}
}
