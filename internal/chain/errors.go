package chain

import (
	"fmt"
	"strings"

	"github.com/mintbay/marketgate/internal/domain"
)

// classifySubmitError maps RPC-level submission failures onto the
// domain error taxonomy so the UI can tell "you cancelled" from "you
// are broke" from "the contract said no". Matching is on well-known
// node/wallet error strings; anything unrecognized passes through
// wrapped but unclassified.
func classifySubmitError(op string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "user denied") || strings.Contains(msg, "user rejected"):
		return fmt.Errorf("chain: %s: %w: %v", op, domain.ErrUserDeclined, err)
	case strings.Contains(msg, "insufficient funds"):
		return fmt.Errorf("chain: %s: %w: %v", op, domain.ErrInsufficientBalance, err)
	case strings.Contains(msg, "execution reverted"):
		return fmt.Errorf("chain: %s: %w: %v", op, domain.ErrTxReverted, err)
	default:
		return fmt.Errorf("chain: %s: %w", op, err)
	}
}

// isRevert reports whether a read failed because the contract
// reverted, which batch reads treat as "token does not exist" rather
// than a fatal error.
func isRevert(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "invalid opcode") ||
		strings.Contains(msg, "out of gas")
}
