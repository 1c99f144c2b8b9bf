package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mintbay/marketgate/internal/domain"
)

// fakeChain records which emergency transactions were submitted.
type fakeChain struct {
	status domain.EmergencyWithdrawStatus

	initiated int
	cancelled int
	withdrawn int
}

func (f *fakeChain) EmergencyStatus(ctx context.Context) (domain.EmergencyWithdrawStatus, error) {
	return f.status, nil
}

func (f *fakeChain) EmergencyInitiate(ctx context.Context) (domain.TxResult, error) {
	f.initiated++
	return domain.TxResult{TxHash: common.HexToHash("0x1")}, nil
}

func (f *fakeChain) EmergencyCancel(ctx context.Context) (domain.TxResult, error) {
	f.cancelled++
	return domain.TxResult{TxHash: common.HexToHash("0x2")}, nil
}

func (f *fakeChain) EmergencyWithdraw(ctx context.Context) (domain.TxResult, error) {
	f.withdrawn++
	return domain.TxResult{TxHash: common.HexToHash("0x3")}, nil
}

func newTestController(chain *fakeChain, now time.Time) *Controller {
	c := NewController(chain, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.now = func() time.Time { return now }
	return c
}

func TestStatusDerivesState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		status domain.EmergencyWithdrawStatus
		want   domain.EmergencyState
	}{
		{"disabled", domain.EmergencyWithdrawStatus{}, domain.EmergencyInactive},
		{"before timelock", domain.EmergencyWithdrawStatus{Enabled: true, ReadyAt: now.Add(time.Hour)}, domain.EmergencyPending},
		{"after timelock", domain.EmergencyWithdrawStatus{Enabled: true, ReadyAt: now.Add(-time.Hour)}, domain.EmergencyReady},
		{"exactly at ready", domain.EmergencyWithdrawStatus{Enabled: true, ReadyAt: now}, domain.EmergencyReady},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := newTestController(&fakeChain{status: tc.status}, now)
			_, state, err := ctrl.Status(context.Background())
			if err != nil {
				t.Fatalf("Status: %v", err)
			}
			if state != tc.want {
				t.Errorf("state = %q, want %q", state, tc.want)
			}
		})
	}
}

func TestInitiateOnlyFromInactive(t *testing.T) {
	now := time.Now()

	chain := &fakeChain{}
	ctrl := newTestController(chain, now)
	if _, err := ctrl.Initiate(context.Background()); err != nil {
		t.Fatalf("Initiate from inactive: %v", err)
	}
	if chain.initiated != 1 {
		t.Fatalf("initiated = %d, want 1", chain.initiated)
	}

	for _, status := range []domain.EmergencyWithdrawStatus{
		{Enabled: true, ReadyAt: now.Add(time.Hour)},  // pending
		{Enabled: true, ReadyAt: now.Add(-time.Hour)}, // ready
	} {
		chain := &fakeChain{status: status}
		ctrl := newTestController(chain, now)
		_, err := ctrl.Initiate(context.Background())
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("Initiate while %s: err = %v, want ErrInvalidState", status.State(now), err)
		}
		if chain.initiated != 0 {
			t.Errorf("Initiate while %s submitted a transaction", status.State(now))
		}
	}
}

func TestWithdrawFromPendingRejectedWithoutTx(t *testing.T) {
	now := time.Now()
	chain := &fakeChain{status: domain.EmergencyWithdrawStatus{
		Enabled: true,
		ReadyAt: now.Add(30 * time.Minute),
	}}
	ctrl := newTestController(chain, now)

	_, err := ctrl.Withdraw(context.Background())
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if chain.withdrawn != 0 {
		t.Fatal("withdraw submitted a transaction before the timelock elapsed")
	}
}

func TestWithdrawFromReady(t *testing.T) {
	now := time.Now()
	chain := &fakeChain{status: domain.EmergencyWithdrawStatus{
		Enabled: true,
		ReadyAt: now.Add(-time.Minute),
	}}
	ctrl := newTestController(chain, now)

	if _, err := ctrl.Withdraw(context.Background()); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if chain.withdrawn != 1 {
		t.Fatalf("withdrawn = %d, want 1", chain.withdrawn)
	}
}

func TestCancelFromPendingAndReady(t *testing.T) {
	now := time.Now()

	for _, ready := range []time.Time{now.Add(time.Hour), now.Add(-time.Hour)} {
		chain := &fakeChain{status: domain.EmergencyWithdrawStatus{Enabled: true, ReadyAt: ready}}
		ctrl := newTestController(chain, now)
		if _, err := ctrl.Cancel(context.Background()); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if chain.cancelled != 1 {
			t.Fatalf("cancelled = %d, want 1", chain.cancelled)
		}
	}

	// Cancel from inactive is meaningless and must not spend gas.
	chain := &fakeChain{}
	ctrl := newTestController(chain, now)
	_, err := ctrl.Cancel(context.Background())
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("Cancel while inactive: err = %v, want ErrInvalidState", err)
	}
	if chain.cancelled != 0 {
		t.Fatal("Cancel while inactive submitted a transaction")
	}
}
