package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mintbay/marketgate/internal/domain"
)

// writeJSON marshals v as JSON and writes it with the given status.
// If marshaling fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses
// so the UI can distinguish rejection from shortage from contract
// rule.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUserDeclined):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrConfirmTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// tokenIDParam extracts and parses the {id} path parameter.
func tokenIDParam(r *http.Request) (uint64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, errors.New("missing token id")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("token id must be a positive integer")
	}
	return id, nil
}

// txResponse is the JSON shape of a confirmed transaction.
type txResponse struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
}

func newTxResponse(res domain.TxResult) txResponse {
	return txResponse{
		TxHash:      res.TxHash.Hex(),
		BlockNumber: res.BlockNumber,
		GasUsed:     res.GasUsed,
	}
}
