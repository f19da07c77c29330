package api

import (
	"context"
	"net/http"

	"github.com/okian/vstrike/internal/domain/feedback"
	"github.com/okian/vstrike/internal/domain/model"
)

// StrategyDependencies defines the interface for feedback operations.
type StrategyDependencies interface {
	Analyze(ctx context.Context, date string) (*feedback.Analysis, error)
	Params(ctx context.Context) (model.Params, error)
	Overrides(ctx context.Context) (*feedback.Overrides, error)
	ApplyAdjustment(ctx context.Context, a feedback.Action, confirmed bool) (feedback.Change, error)
	WeeklySummary(ctx context.Context) (feedback.Summary, error)
}

// StrategyHandler serves insights and parameter changes.
type StrategyHandler struct {
	deps StrategyDependencies
}

// NewStrategyHandler creates a new strategy handler.
func NewStrategyHandler(deps StrategyDependencies) *StrategyHandler {
	return &StrategyHandler{deps: deps}
}

type insightsResponse struct {
	Status   string             `json:"status"`
	Analysis *feedback.Analysis `json:"analysis,omitempty"`
}

type paramsResponse struct {
	Params    model.Params        `json:"params"`
	Overrides *feedback.Overrides `json:"overrides"`
}

type adjustRequest struct {
	Action  feedback.Action `json:"action"`
	Confirm bool            `json:"confirm"`
}

// HandleInsights handles GET /insights?date=YYYY-MM-DD.
func (h *StrategyHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	date := r.URL.Query().Get("date")
	if err := parseDate("insights", date); err != nil {
		fail(w, err)
		return
	}
	a, err := h.deps.Analyze(r.Context(), date)
	if err != nil {
		fail(w, Wrap("insights", err))
		return
	}
	if a == nil {
		writeJSON(w, http.StatusOK, insightsResponse{Status: "no_data"})
		return
	}
	writeJSON(w, http.StatusOK, insightsResponse{Status: statusOK, Analysis: a})
}

// HandleParams handles GET /params.
func (h *StrategyHandler) HandleParams(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	p, err := h.deps.Params(r.Context())
	if err != nil {
		fail(w, Wrap("params", err))
		return
	}
	o, err := h.deps.Overrides(r.Context())
	if err != nil {
		fail(w, Wrap("params", err))
		return
	}
	writeJSON(w, http.StatusOK, paramsResponse{Params: p, Overrides: o})
}

// HandleAdjust handles POST /params/adjust. The body must carry
// "confirm": true for the change to be applied.
func (h *StrategyHandler) HandleAdjust(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req adjustRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, WrapKind("params_adjust", ErrBadRequest, err))
		return
	}
	c, err := h.deps.ApplyAdjustment(r.Context(), req.Action, req.Confirm)
	if err != nil {
		fail(w, Wrap("params_adjust", err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleWeekly handles GET /summary/weekly.
func (h *StrategyHandler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	s, err := h.deps.WeeklySummary(r.Context())
	if err != nil {
		fail(w, Wrap("summary_weekly", err))
		return
	}
	writeJSON(w, http.StatusOK, s)
}
