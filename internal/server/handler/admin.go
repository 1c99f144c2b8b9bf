package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/mintbay/marketgate/internal/domain"
)

// AdminService defines the methods the admin handler requires from the
// service layer.
type AdminService interface {
	EmergencyStatus(ctx context.Context) (domain.EmergencyWithdrawStatus, domain.EmergencyState, error)
	EmergencyInitiate(ctx context.Context) (domain.TxResult, error)
	EmergencyCancel(ctx context.Context) (domain.TxResult, error)
	EmergencyWithdraw(ctx context.Context) (domain.TxResult, error)
	SetPaused(ctx context.Context, paused bool) (domain.TxResult, error)
	IsPaused(ctx context.Context) (bool, error)
	SetUserBlacklist(ctx context.Context, addr common.Address, blocked bool) (domain.TxResult, error)
	SetTokenBlacklist(ctx context.Context, tokenID uint64, blocked bool) (domain.TxResult, error)
	UpdateListingPrice(ctx context.Context, price decimal.Decimal) (domain.TxResult, error)
	UpdatePlatformFee(ctx context.Context, feeBps int) (domain.TxResult, error)
	UpdateFeeRecipient(ctx context.Context, addr common.Address) (domain.TxResult, error)
}

// AdminHandler serves the operator control endpoints. Write endpoints
// require the server to be configured with an operator key; without
// one the service layer rejects them.
type AdminHandler struct {
	admin  AdminService
	logger *slog.Logger
}

// NewAdminHandler creates an AdminHandler with the given service and logger.
func NewAdminHandler(admin AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger,
	}
}

// emergencyResponse reports the timelock status plus the derived state.
type emergencyResponse struct {
	Enabled bool   `json:"enabled"`
	ReadyAt int64  `json:"ready_at,omitempty"`
	State   string `json:"state"`
	Paused  bool   `json:"paused"`
}

// GetEmergency returns the emergency withdraw timelock status.
// GET /api/admin/emergency
func (h *AdminHandler) GetEmergency(w http.ResponseWriter, r *http.Request) {
	status, state, err := h.admin.EmergencyStatus(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: emergency status failed",
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	paused, err := h.admin.IsPaused(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := emergencyResponse{
		Enabled: status.Enabled,
		State:   string(state),
		Paused:  paused,
	}
	if !status.ReadyAt.IsZero() {
		resp.ReadyAt = status.ReadyAt.Unix()
	}
	writeJSON(w, http.StatusOK, resp)
}

// InitiateEmergency starts the emergency withdraw timelock.
// POST /api/admin/emergency/initiate
func (h *AdminHandler) InitiateEmergency(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "initiate emergency withdraw", h.admin.EmergencyInitiate)
}

// CancelEmergency aborts a pending or ready emergency withdraw.
// POST /api/admin/emergency/cancel
func (h *AdminHandler) CancelEmergency(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "cancel emergency withdraw", h.admin.EmergencyCancel)
}

// ExecuteEmergency drains the contract balance after the timelock.
// POST /api/admin/emergency/withdraw
func (h *AdminHandler) ExecuteEmergency(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "execute emergency withdraw", h.admin.EmergencyWithdraw)
}

// SetPaused pauses or unpauses the marketplace.
// POST /api/admin/pause
func (h *AdminHandler) SetPaused(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paused bool `json:"paused"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.submit(w, r, "set paused", func(ctx context.Context) (domain.TxResult, error) {
		return h.admin.SetPaused(ctx, req.Paused)
	})
}

// SetUserBlacklist blocks or unblocks an address.
// POST /api/admin/blacklist/user
func (h *AdminHandler) SetUserBlacklist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
		Blocked bool   `json:"blocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !common.IsHexAddress(req.Address) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.submit(w, r, "set user blacklist", func(ctx context.Context) (domain.TxResult, error) {
		return h.admin.SetUserBlacklist(ctx, common.HexToAddress(req.Address), req.Blocked)
	})
}

// SetTokenBlacklist blocks or unblocks a token.
// POST /api/admin/blacklist/token
func (h *AdminHandler) SetTokenBlacklist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenID uint64 `json:"token_id"`
		Blocked bool   `json:"blocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TokenID == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.submit(w, r, "set token blacklist", func(ctx context.Context) (domain.TxResult, error) {
		return h.admin.SetTokenBlacklist(ctx, req.TokenID, req.Blocked)
	})
}

// UpdateFees adjusts the contract fee parameters. Each field is
// optional; only the fields present in the body are applied, in order,
// each as its own transaction.
// POST /api/admin/fees
func (h *AdminHandler) UpdateFees(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingPrice *string `json:"listing_price,omitempty"`
		PlatformFee  *int    `json:"platform_fee_bps,omitempty"`
		FeeRecipient *string `json:"fee_recipient,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var results []txResponse
	if req.ListingPrice != nil {
		price, err := decimal.NewFromString(*req.ListingPrice)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid listing price")
			return
		}
		res, err := h.admin.UpdateListingPrice(r.Context(), price)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		results = append(results, newTxResponse(res))
	}
	if req.PlatformFee != nil {
		res, err := h.admin.UpdatePlatformFee(r.Context(), *req.PlatformFee)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		results = append(results, newTxResponse(res))
	}
	if req.FeeRecipient != nil {
		if !common.IsHexAddress(*req.FeeRecipient) {
			writeError(w, http.StatusBadRequest, "invalid fee recipient")
			return
		}
		res, err := h.admin.UpdateFeeRecipient(r.Context(), common.HexToAddress(*req.FeeRecipient))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		results = append(results, newTxResponse(res))
	}

	if len(results) == 0 {
		writeError(w, http.StatusBadRequest, "no fee fields provided")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": results})
}

// submit runs one signed admin operation and reports the confirmed
// transaction.
func (h *AdminHandler) submit(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context) (domain.TxResult, error)) {
	res, err := fn(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: admin operation failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "handler: admin operation confirmed",
		slog.String("operation", op),
		slog.String("tx_hash", res.TxHash.Hex()),
	)
	writeJSON(w, http.StatusOK, newTxResponse(res))
}
