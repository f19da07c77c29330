package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/vstrike/internal/domain/feed"
	"github.com/okian/vstrike/internal/domain/model"
)

// Feed response statuses.
const (
	statusOK                = "ok"
	statusNoRecommendations = "no_recommendations"
)

// FeedDependencies defines the interface for daily set operations.
type FeedDependencies interface {
	Today(ctx context.Context) (*feed.Outcome, error)
	DailySet(ctx context.Context, date string) (*model.DailySet, error)
}

// FeedHandler serves daily recommendation sets.
type FeedHandler struct {
	deps FeedDependencies
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(deps FeedDependencies) *FeedHandler {
	return &FeedHandler{deps: deps}
}

type feedResponse struct {
	Status string          `json:"status"`
	Date   string          `json:"date"`
	Reused bool            `json:"reused"`
	Set    *model.DailySet `json:"set,omitempty"`
}

// HandleToday handles GET /feed. It generates today's set on first call.
// A day without qualifying picks answers 200 with no_recommendations.
func (h *FeedHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	out, err := h.deps.Today(r.Context())
	if err != nil {
		fail(w, Wrap("feed", err))
		return
	}
	resp := feedResponse{Status: statusOK, Reused: out.Reused, Set: out.Set}
	if out.Set != nil {
		resp.Date = out.Set.Date
	}
	if out.State == feed.StateEmpty {
		resp.Status = statusNoRecommendations
		resp.Set = nil
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDay handles GET /feed/{date}.
func (h *FeedHandler) HandleDay(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	date := strings.TrimPrefix(r.URL.Path, "/feed/")
	if err := parseDate("feed_day", date); err != nil {
		fail(w, err)
		return
	}
	set, err := h.deps.DailySet(r.Context(), date)
	if err != nil {
		fail(w, Wrap("feed_day", err))
		return
	}
	writeJSON(w, http.StatusOK, feedResponse{Status: statusOK, Date: date, Reused: true, Set: set})
}
