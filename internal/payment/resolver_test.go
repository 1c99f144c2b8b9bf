package payment

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/domain"
)

func item(eth, usdc, usdt string) domain.MarketItem {
	return domain.MarketItem{
		EthPrice:  decimal.RequireFromString(eth),
		UsdcPrice: decimal.RequireFromString(usdc),
		UsdtPrice: decimal.RequireFromString(usdt),
	}
}

func TestMethodsFixedOrder(t *testing.T) {
	// USDC price is far larger than the ETH price; order must still be
	// ETH first because ordering never derives from amounts.
	methods := Methods(item("0.05", "5000", "120"))

	want := []domain.Currency{domain.CurrencyETH, domain.CurrencyUSDC, domain.CurrencyUSDT}
	if len(methods) != len(want) {
		t.Fatalf("got %d methods, want %d", len(methods), len(want))
	}
	for i, c := range want {
		if methods[i].Currency != c {
			t.Errorf("methods[%d] = %s, want %s", i, methods[i].Currency, c)
		}
	}
}

func TestMethodsSkipsZeroPrices(t *testing.T) {
	methods := Methods(item("0", "120", "0"))
	if len(methods) != 1 {
		t.Fatalf("got %d methods, want 1", len(methods))
	}
	if methods[0].Currency != domain.CurrencyUSDC {
		t.Errorf("currency = %s, want %s", methods[0].Currency, domain.CurrencyUSDC)
	}
	if !methods[0].Amount.Equal(decimal.RequireFromString("120")) {
		t.Errorf("amount = %s, want 120", methods[0].Amount)
	}
}

func TestMethodsSkipsNegativePrices(t *testing.T) {
	if got := Methods(item("-1", "0", "0")); len(got) != 0 {
		t.Fatalf("got %d methods, want 0", len(got))
	}
}

func TestPrimary(t *testing.T) {
	m, ok := Primary(item("0", "0", "42"))
	if !ok {
		t.Fatal("expected a primary method")
	}
	if m.Currency != domain.CurrencyUSDT {
		t.Errorf("currency = %s, want %s", m.Currency, domain.CurrencyUSDT)
	}

	if _, ok := Primary(item("0", "0", "0")); ok {
		t.Error("expected no primary method for an unpriced item")
	}
}
