package approval

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/domain"
)

var buyer = common.HexToAddress("0x00000000000000000000000000000000000000a1")

// fakeChain records the order of chain calls so tests can assert the
// approve-before-purchase sequencing.
type fakeChain struct {
	balance   decimal.Decimal
	allowance decimal.Decimal

	approveErr  error
	purchaseErr error

	calls []string
}

func (f *fakeChain) Allowance(ctx context.Context, owner common.Address, c domain.Currency) (decimal.Decimal, error) {
	f.calls = append(f.calls, "allowance")
	return f.allowance, nil
}

func (f *fakeChain) BalanceOf(ctx context.Context, owner common.Address, c domain.Currency) (decimal.Decimal, error) {
	f.calls = append(f.calls, "balance")
	return f.balance, nil
}

func (f *fakeChain) Approve(ctx context.Context, c domain.Currency, amount decimal.Decimal) (domain.TxResult, error) {
	f.calls = append(f.calls, "approve")
	if f.approveErr != nil {
		return domain.TxResult{}, f.approveErr
	}
	// A confirmed approval raises the allowance.
	f.allowance = amount
	return domain.TxResult{TxHash: common.HexToHash("0xaa")}, nil
}

func (f *fakeChain) PurchaseToken(ctx context.Context, tokenID uint64, c domain.Currency) (domain.TxResult, error) {
	f.calls = append(f.calls, "purchase")
	if f.purchaseErr != nil {
		return domain.TxResult{}, f.purchaseErr
	}
	return domain.TxResult{TxHash: common.HexToHash("0xbb")}, nil
}

func newTestCoordinator(chain *fakeChain) *Coordinator {
	return NewCoordinator(chain, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPurchaseApprovesBeforeSpending(t *testing.T) {
	chain := &fakeChain{balance: dec("500"), allowance: dec("0")}
	co := newTestCoordinator(chain)

	res, err := co.Purchase(context.Background(), buyer, 7, domain.CurrencyUSDC, dec("120"))
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if res.TxHash == (common.Hash{}) {
		t.Error("empty purchase tx hash")
	}

	want := []string{"balance", "allowance", "approve", "purchase"}
	if len(chain.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", chain.calls, want)
	}
	for i := range want {
		if chain.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", chain.calls, want)
		}
	}
}

func TestPurchaseSkipsApprovalWhenAllowanceSuffices(t *testing.T) {
	chain := &fakeChain{balance: dec("500"), allowance: dec("200")}
	co := newTestCoordinator(chain)

	if _, err := co.Purchase(context.Background(), buyer, 7, domain.CurrencyUSDC, dec("120")); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	for _, call := range chain.calls {
		if call == "approve" {
			t.Fatal("approval submitted despite sufficient allowance")
		}
	}
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	chain := &fakeChain{balance: dec("10"), allowance: dec("0")}
	co := newTestCoordinator(chain)

	_, err := co.Purchase(context.Background(), buyer, 7, domain.CurrencyUSDT, dec("120"))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	for _, call := range chain.calls {
		if call == "approve" || call == "purchase" {
			t.Fatalf("%s attempted despite insufficient balance", call)
		}
	}
}

func TestPurchaseApprovalFailureBlocksPurchase(t *testing.T) {
	declined := errors.New("user denied transaction signature")
	chain := &fakeChain{balance: dec("500"), approveErr: declined}
	co := newTestCoordinator(chain)

	_, err := co.Purchase(context.Background(), buyer, 7, domain.CurrencyUSDC, dec("120"))
	if !errors.Is(err, domain.ErrApprovalFailed) {
		t.Fatalf("err = %v, want ErrApprovalFailed", err)
	}
	if errors.Is(err, domain.ErrPurchaseFailed) {
		t.Error("approval failure also reported as purchase failure")
	}
	for _, call := range chain.calls {
		if call == "purchase" {
			t.Fatal("purchase submitted after a failed approval")
		}
	}
}

func TestPurchaseFailureDistinctFromApproval(t *testing.T) {
	chain := &fakeChain{
		balance:     dec("500"),
		purchaseErr: errors.New("execution reverted: item already sold"),
	}
	co := newTestCoordinator(chain)

	_, err := co.Purchase(context.Background(), buyer, 7, domain.CurrencyUSDC, dec("120"))
	if !errors.Is(err, domain.ErrPurchaseFailed) {
		t.Fatalf("err = %v, want ErrPurchaseFailed", err)
	}
	if errors.Is(err, domain.ErrApprovalFailed) {
		t.Error("purchase failure also reported as approval failure")
	}
}

func TestPurchaseRejectsNativeCurrency(t *testing.T) {
	co := newTestCoordinator(&fakeChain{balance: dec("500")})
	if _, err := co.Purchase(context.Background(), buyer, 7, domain.CurrencyETH, dec("1")); err == nil {
		t.Fatal("expected an error for the native currency")
	}
}
