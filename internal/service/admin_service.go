package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/admin"
	"github.com/mintbay/marketgate/internal/domain"
)

// AdminService exposes the contract's admin surface: the emergency
// withdraw state machine plus pause, blacklist, and fee controls.
// Authorization lives on-chain; this layer only relays.
type AdminService struct {
	reader     domain.MarketReader
	writer     domain.AdminWriter
	controller *admin.Controller
	logger     *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(reader domain.MarketReader, writer domain.AdminWriter, controller *admin.Controller, logger *slog.Logger) *AdminService {
	return &AdminService{
		reader:     reader,
		writer:     writer,
		controller: controller,
		logger:     logger,
	}
}

// EmergencyStatus reports the withdraw slot and its derived state.
func (s *AdminService) EmergencyStatus(ctx context.Context) (domain.EmergencyWithdrawStatus, domain.EmergencyState, error) {
	return s.controller.Status(ctx)
}

// EmergencyInitiate starts the withdraw timelock.
func (s *AdminService) EmergencyInitiate(ctx context.Context) (domain.TxResult, error) {
	return s.controller.Initiate(ctx)
}

// EmergencyCancel aborts a pending or ready withdraw.
func (s *AdminService) EmergencyCancel(ctx context.Context) (domain.TxResult, error) {
	return s.controller.Cancel(ctx)
}

// EmergencyWithdraw executes a ready withdraw.
func (s *AdminService) EmergencyWithdraw(ctx context.Context) (domain.TxResult, error) {
	return s.controller.Withdraw(ctx)
}

// SetPaused pauses or unpauses the marketplace.
func (s *AdminService) SetPaused(ctx context.Context, paused bool) (domain.TxResult, error) {
	var (
		res domain.TxResult
		err error
	)
	if paused {
		res, err = s.writer.Pause(ctx)
	} else {
		res, err = s.writer.Unpause(ctx)
	}
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin_service: set paused %t: %w", paused, err)
	}
	s.logger.InfoContext(ctx, "admin_service: pause state changed",
		slog.Bool("paused", paused),
		slog.String("tx", res.TxHash.Hex()),
	)
	return res, nil
}

// IsPaused reads the marketplace pause flag.
func (s *AdminService) IsPaused(ctx context.Context) (bool, error) {
	return s.reader.IsPaused(ctx)
}

// SetUserBlacklist blocks or unblocks an address.
func (s *AdminService) SetUserBlacklist(ctx context.Context, addr common.Address, blocked bool) (domain.TxResult, error) {
	res, err := s.writer.SetUserBlacklist(ctx, addr, blocked)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin_service: user blacklist: %w", err)
	}
	return res, nil
}

// SetTokenBlacklist blocks or unblocks a token.
func (s *AdminService) SetTokenBlacklist(ctx context.Context, tokenID uint64, blocked bool) (domain.TxResult, error) {
	res, err := s.writer.SetTokenBlacklist(ctx, tokenID, blocked)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin_service: token blacklist: %w", err)
	}
	return res, nil
}

// IsBlacklisted reads the blacklist flag for an address.
func (s *AdminService) IsBlacklisted(ctx context.Context, addr common.Address) (bool, error) {
	return s.reader.IsBlacklisted(ctx, addr)
}

// UpdateListingPrice sets the native-currency listing fee.
func (s *AdminService) UpdateListingPrice(ctx context.Context, price decimal.Decimal) (domain.TxResult, error) {
	if price.IsNegative() {
		return domain.TxResult{}, fmt.Errorf("admin_service: negative listing price: %w", domain.ErrInvalidState)
	}
	res, err := s.writer.UpdateListingPrice(ctx, price)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin_service: update listing price: %w", err)
	}
	return res, nil
}

// UpdatePlatformFee sets the platform fee in basis points.
func (s *AdminService) UpdatePlatformFee(ctx context.Context, feeBps int) (domain.TxResult, error) {
	if feeBps < 0 || feeBps > 10_000 {
		return domain.TxResult{}, fmt.Errorf("admin_service: fee %d bps outside [0,10000]: %w", feeBps, domain.ErrInvalidState)
	}
	res, err := s.writer.UpdatePlatformFee(ctx, feeBps)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin_service: update platform fee: %w", err)
	}
	return res, nil
}

// UpdateFeeRecipient changes where platform fees accrue.
func (s *AdminService) UpdateFeeRecipient(ctx context.Context, addr common.Address) (domain.TxResult, error) {
	if addr == (common.Address{}) {
		return domain.TxResult{}, fmt.Errorf("admin_service: zero fee recipient: %w", domain.ErrInvalidState)
	}
	res, err := s.writer.UpdateFeeRecipient(ctx, addr)
	if err != nil {
		return domain.TxResult{}, fmt.Errorf("admin_service: update fee recipient: %w", err)
	}
	return res, nil
}

// ContractOwner returns the admin address the contract recognizes.
func (s *AdminService) ContractOwner(ctx context.Context) (common.Address, error) {
	return s.reader.ContractOwner(ctx)
}
