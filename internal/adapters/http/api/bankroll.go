package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// BankrollDependencies defines the interface for bankroll operations.
type BankrollDependencies interface {
	Bankroll(ctx context.Context) (decimal.Decimal, error)
	SetBankroll(ctx context.Context, v decimal.Decimal) (decimal.Decimal, error)
}

// BankrollHandler reads and replaces the bankroll stakes are sized on.
type BankrollHandler struct {
	deps BankrollDependencies
}

// NewBankrollHandler creates a new bankroll handler.
func NewBankrollHandler(deps BankrollDependencies) *BankrollHandler {
	return &BankrollHandler{deps: deps}
}

type bankrollBody struct {
	Bankroll decimal.Decimal `json:"bankroll"`
}

type bankrollResponse struct {
	Bankroll string `json:"bankroll"`
}

// HandleBankroll handles GET and PUT /bankroll.
func (h *BankrollHandler) HandleBankroll(w http.ResponseWriter, r *http.Request) {
	var (
		v   decimal.Decimal
		err error
	)
	switch r.Method {
	case http.MethodGet:
		v, err = h.deps.Bankroll(r.Context())
	case http.MethodPut:
		var req bankrollBody
		if err := decode(w, r, maxBodyBytes, &req); err != nil {
			fail(w, WrapKind("bankroll", ErrBadRequest, err))
			return
		}
		v, err = h.deps.SetBankroll(r.Context(), req.Bankroll)
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err != nil {
		fail(w, Wrap("bankroll", err))
		return
	}
	writeJSON(w, http.StatusOK, bankrollResponse{Bankroll: v.StringFixed(2)})
}
