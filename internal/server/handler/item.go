package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mintbay/marketgate/internal/domain"
	"github.com/mintbay/marketgate/internal/metadata"
	"github.com/mintbay/marketgate/internal/payment"
)

// ItemService defines the methods the item handler requires from the
// service layer. It is declared locally so the handler package does not
// depend on the concrete service implementation.
type ItemService interface {
	GetItem(ctx context.Context, tokenID uint64) (domain.MarketItem, error)
	FetchMarketItems(ctx context.Context) ([]domain.MarketItem, error)
	FetchOwned(ctx context.Context, addr common.Address) ([]domain.MarketItem, error)
	HydrateMetadata(ctx context.Context, items []domain.MarketItem) []metadata.Result
	ResolveMetadata(ctx context.Context, item domain.MarketItem) metadata.Result
	PaymentMethods(item domain.MarketItem) []payment.Method
}

// ItemHandler serves listing and metadata endpoints.
type ItemHandler struct {
	items  ItemService
	logger *slog.Logger
}

// NewItemHandler creates an ItemHandler with the given service and logger.
func NewItemHandler(items ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		items:  items,
		logger: logger,
	}
}

// itemResponse is the JSON shape of a market item. Addresses are
// checksummed hex; prices are decimal strings to avoid float loss.
type itemResponse struct {
	TokenID          uint64           `json:"token_id"`
	Seller           string           `json:"seller"`
	Owner            string           `json:"owner"`
	ActualOwner      string           `json:"actual_owner,omitempty"`
	EthPrice         string           `json:"eth_price"`
	UsdcPrice        string           `json:"usdc_price"`
	UsdtPrice        string           `json:"usdt_price"`
	Sold             bool             `json:"sold"`
	ListedAt         int64            `json:"listed_at"`
	RoyaltyBps       int              `json:"royalty_bps"`
	RoyaltyRecipient string           `json:"royalty_recipient"`
	TokenURI         string           `json:"token_uri,omitempty"`
	Metadata         *domain.Metadata `json:"metadata,omitempty"`
}

func newItemResponse(item domain.MarketItem) itemResponse {
	resp := itemResponse{
		TokenID:          item.TokenID,
		Seller:           item.Seller.Hex(),
		Owner:            item.CustodialOwner.Hex(),
		EthPrice:         item.EthPrice.String(),
		UsdcPrice:        item.UsdcPrice.String(),
		UsdtPrice:        item.UsdtPrice.String(),
		Sold:             item.Sold,
		ListedAt:         item.ListedAt.Unix(),
		RoyaltyBps:       item.RoyaltyBps,
		RoyaltyRecipient: item.RoyaltyRecipient.Hex(),
		TokenURI:         item.TokenURI,
	}
	if item.ActualOwner != (common.Address{}) {
		resp.ActualOwner = item.ActualOwner.Hex()
	}
	return resp
}

// listItemsResponse wraps the list endpoints' output.
type listItemsResponse struct {
	Items []itemResponse `json:"items"`
	Total int            `json:"total"`
}

// ListItems returns every active, unsold listing with hydrated metadata.
// GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.FetchMarketItems(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list items failed",
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.withMetadata(r.Context(), items))
}

// ListOwned returns every item held by the given address, whether the
// marketplace or the token contract records the holding.
// GET /api/owned/{address}
func (h *ItemHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("address")
	if !common.IsHexAddress(raw) {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}

	items, err := h.items.FetchOwned(r.Context(), common.HexToAddress(raw))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list owned failed",
			slog.String("address", raw),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.withMetadata(r.Context(), items))
}

// GetItem returns a single item by its token ID.
// GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	tokenID, err := tokenIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.items.GetItem(r.Context(), tokenID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get item failed",
			slog.Uint64("token_id", tokenID),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	resp := newItemResponse(item)
	meta := h.items.ResolveMetadata(r.Context(), item).Metadata
	resp.Metadata = &meta
	writeJSON(w, http.StatusOK, resp)
}

// metadataResponse reports the resolved document and which gateways
// failed before it was obtained.
type metadataResponse struct {
	TokenID  uint64          `json:"token_id"`
	Metadata domain.Metadata `json:"metadata"`
	Degraded bool            `json:"degraded"`
	Attempts []string        `json:"failed_gateways,omitempty"`
}

// GetMetadata returns the resolved off-chain metadata for a token.
// Resolution never fails outright; a degraded placeholder is still 200.
// GET /api/items/{id}/metadata
func (h *ItemHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	tokenID, err := tokenIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.items.GetItem(r.Context(), tokenID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	res := h.items.ResolveMetadata(r.Context(), item)
	resp := metadataResponse{
		TokenID:  tokenID,
		Metadata: res.Metadata,
		Degraded: res.Degraded(),
	}
	for _, a := range res.Attempts {
		resp.Attempts = append(resp.Attempts, a.Gateway)
	}
	writeJSON(w, http.StatusOK, resp)
}

// methodResponse is one accepted payment option.
type methodResponse struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Primary  bool   `json:"primary"`
}

// GetPaymentMethods returns the accepted currencies for an item in
// display order, the first being the primary price.
// GET /api/items/{id}/payment-methods
func (h *ItemHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	tokenID, err := tokenIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.items.GetItem(r.Context(), tokenID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	methods := h.items.PaymentMethods(item)
	out := make([]methodResponse, 0, len(methods))
	for i, m := range methods {
		out = append(out, methodResponse{
			Currency: string(m.Currency),
			Amount:   m.Amount.String(),
			Primary:  i == 0,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token_id": tokenID,
		"methods":  out,
	})
}

// withMetadata hydrates metadata for a batch of items and assembles
// the list response.
func (h *ItemHandler) withMetadata(ctx context.Context, items []domain.MarketItem) listItemsResponse {
	results := h.items.HydrateMetadata(ctx, items)
	out := make([]itemResponse, 0, len(items))
	for i, item := range items {
		resp := newItemResponse(item)
		if i < len(results) {
			meta := results[i].Metadata
			resp.Metadata = &meta
		}
		out = append(out, resp)
	}
	return listItemsResponse{Items: out, Total: len(out)}
}
