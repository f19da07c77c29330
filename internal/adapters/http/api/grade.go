package api

import (
	"context"
	"net/http"

	"github.com/okian/vstrike/internal/domain/grading"
	"github.com/okian/vstrike/internal/domain/model"
)

// GradeDependencies defines the interface for settling recommendations.
type GradeDependencies interface {
	GradeYesterday(ctx context.Context) (grading.Report, error)
	GradeDay(ctx context.Context, date string, scores []model.FinalScore) (grading.Report, error)
	SetResult(ctx context.Context, date, id string, r model.Result) (*model.DailySet, error)
}

// GradeHandler handles grading requests.
type GradeHandler struct {
	deps GradeDependencies
}

// NewGradeHandler creates a new grade handler.
func NewGradeHandler(deps GradeDependencies) *GradeHandler {
	return &GradeHandler{deps: deps}
}

type gradeRequest struct {
	Date   string             `json:"date"`
	Scores []model.FinalScore `json:"scores"`
}

type resultRequest struct {
	Date   string `json:"date"`
	ID     string `json:"id"`
	Result string `json:"result"`
}

// HandleGrade handles POST /grade. Without a body it grades yesterday from
// the score feed; with a date and scores it grades that day.
func (h *GradeHandler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	if r.ContentLength == 0 {
		rep, err := h.deps.GradeYesterday(r.Context())
		if err != nil {
			fail(w, Wrap("grade", err))
			return
		}
		writeJSON(w, http.StatusOK, rep)
		return
	}
	var req gradeRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, WrapKind("grade", ErrBadRequest, err))
		return
	}
	if err := parseDate("grade", req.Date); err != nil {
		fail(w, err)
		return
	}
	rep, err := h.deps.GradeDay(r.Context(), req.Date, req.Scores)
	if err != nil {
		fail(w, Wrap("grade", err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleResult handles POST /results, setting one pending entry by hand.
func (h *GradeHandler) HandleResult(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req resultRequest
	if err := decode(w, r, maxBodyBytes, &req); err != nil {
		fail(w, WrapKind("results", ErrBadRequest, err))
		return
	}
	if err := parseDate("results", req.Date); err != nil {
		fail(w, err)
		return
	}
	if req.ID == "" {
		fail(w, NewKind("results", ErrBadRequest, "missing id"))
		return
	}
	res, ok := model.ParseResult(req.Result)
	if !ok || !res.Resolved() {
		fail(w, NewKind("results", ErrBadRequest, "result must be WIN or LOSS"))
		return
	}
	set, err := h.deps.SetResult(r.Context(), req.Date, req.ID, res)
	if err != nil {
		fail(w, Wrap("results", err))
		return
	}
	writeJSON(w, http.StatusOK, set)
}
