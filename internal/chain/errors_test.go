package chain

import (
	"errors"
	"testing"

	"github.com/mintbay/marketgate/internal/domain"
)

func TestClassifySubmitError(t *testing.T) {
	cases := []struct {
		name string
		msg  string
		want error
	}{
		{"metamask rejection", "MetaMask Tx Signature: User denied transaction signature.", domain.ErrUserDeclined},
		{"generic rejection", "user rejected the request", domain.ErrUserDeclined},
		{"broke", "insufficient funds for gas * price + value", domain.ErrInsufficientBalance},
		{"revert", "execution reverted: Item already sold", domain.ErrTxReverted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifySubmitError("test op", errors.New(tc.msg))
			if !errors.Is(got, tc.want) {
				t.Errorf("classifySubmitError(%q) = %v, want %v", tc.msg, got, tc.want)
			}
		})
	}
}

func TestClassifySubmitErrorPassThrough(t *testing.T) {
	orig := errors.New("connection refused")
	got := classifySubmitError("test op", orig)
	if !errors.Is(got, orig) {
		t.Errorf("original error lost: %v", got)
	}
	for _, sentinel := range []error{domain.ErrUserDeclined, domain.ErrInsufficientBalance, domain.ErrTxReverted} {
		if errors.Is(got, sentinel) {
			t.Errorf("unrecognized error classified as %v", sentinel)
		}
	}
}

func TestIsRevert(t *testing.T) {
	if !isRevert(errors.New("execution reverted")) {
		t.Error("revert not detected")
	}
	if !isRevert(errors.New("invalid opcode: INVALID")) {
		t.Error("invalid opcode not detected")
	}
	if isRevert(errors.New("connection refused")) {
		t.Error("transport error treated as revert")
	}
	if isRevert(nil) {
		t.Error("nil treated as revert")
	}
}
