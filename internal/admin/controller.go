// Package admin drives the marketplace's timelocked emergency-withdraw
// state machine and the remaining admin write surface.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintbay/marketgate/internal/domain"
)

// chainAccess is the slice of the gateway the controller needs.
type chainAccess interface {
	EmergencyStatus(ctx context.Context) (domain.EmergencyWithdrawStatus, error)
	EmergencyInitiate(ctx context.Context) (domain.TxResult, error)
	EmergencyCancel(ctx context.Context) (domain.TxResult, error)
	EmergencyWithdraw(ctx context.Context) (domain.TxResult, error)
}

// Controller refuses structurally invalid emergency transitions before
// any gas is spent. Admin authority itself is enforced on-chain; this
// layer only reflects state.
type Controller struct {
	chain  chainAccess
	now    func() time.Time
	logger *slog.Logger
}

// NewController creates a Controller reading and writing through the
// given gateway.
func NewController(chain chainAccess, logger *slog.Logger) *Controller {
	return &Controller{chain: chain, now: time.Now, logger: logger}
}

// Status returns the current emergency-withdraw status and its derived
// state.
func (c *Controller) Status(ctx context.Context) (domain.EmergencyWithdrawStatus, domain.EmergencyState, error) {
	status, err := c.chain.EmergencyStatus(ctx)
	if err != nil {
		return domain.EmergencyWithdrawStatus{}, "", fmt.Errorf("admin: status: %w", err)
	}
	return status, status.State(c.now()), nil
}

// Initiate starts the timelock. Valid only from Inactive.
func (c *Controller) Initiate(ctx context.Context) (domain.TxResult, error) {
	_, err := c.requireState(ctx, "initiate", domain.EmergencyInactive)
	if err != nil {
		return domain.TxResult{}, err
	}

	res, err := c.chain.EmergencyInitiate(ctx)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin: initiate: %w", err)
	}
	c.logger.InfoContext(ctx, "admin: emergency withdraw initiated",
		slog.String("tx", res.TxHash.Hex()),
	)
	return res, nil
}

// Cancel aborts the procedure. Valid from Pending or Ready.
func (c *Controller) Cancel(ctx context.Context) (domain.TxResult, error) {
	_, err := c.requireState(ctx, "cancel", domain.EmergencyPending, domain.EmergencyReady)
	if err != nil {
		return domain.TxResult{}, err
	}

	res, err := c.chain.EmergencyCancel(ctx)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin: cancel: %w", err)
	}
	c.logger.InfoContext(ctx, "admin: emergency withdraw cancelled",
		slog.String("tx", res.TxHash.Hex()),
	)
	return res, nil
}

// Withdraw executes the withdrawal. Valid only from Ready; attempting
// it from Pending fails deterministically without a transaction.
func (c *Controller) Withdraw(ctx context.Context) (domain.TxResult, error) {
	_, err := c.requireState(ctx, "withdraw", domain.EmergencyReady)
	if err != nil {
		return domain.TxResult{}, err
	}

	res, err := c.chain.EmergencyWithdraw(ctx)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin: withdraw: %w", err)
	}
	c.logger.InfoContext(ctx, "admin: emergency withdraw executed",
		slog.String("tx", res.TxHash.Hex()),
	)
	return res, nil
}

// requireState reads the current state and rejects the action unless
// the state is one of the allowed set.
func (c *Controller) requireState(ctx context.Context, action string, allowed ...domain.EmergencyState) (domain.EmergencyState, error) {
	status, err := c.chain.EmergencyStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("admin: %s: read status: %w", action, err)
	}
	state := status.State(c.now())
	for _, s := range allowed {
		if state == s {
			return state, nil
		}
	}
	return state, fmt.Errorf("admin: cannot %s while %s: %w", action, state, domain.ErrInvalidState)
}
