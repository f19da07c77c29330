// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/vstrike/internal/domain/model"
)

const (
	maxBodyBytes   = 1 << 20
	maxImportBytes = 32 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider
	FeedDependencies
	GradeDependencies
	StrategyDependencies
	HistoryDependencies
	BankrollDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	feedHandler     *FeedHandler
	gradeHandler    *GradeHandler
	strategyHandler *StrategyHandler
	historyHandler  *HistoryHandler
	bankrollHandler *BankrollHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		feedHandler:     NewFeedHandler(deps),
		gradeHandler:    NewGradeHandler(deps),
		strategyHandler: NewStrategyHandler(deps),
		historyHandler:  NewHistoryHandler(deps),
		bankrollHandler: NewBankrollHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/feed", MetricsMiddleware(s.feedHandler.HandleToday, "feed"))
	mux.HandleFunc("/feed/", MetricsMiddleware(s.feedHandler.HandleDay, "feed_day"))
	mux.HandleFunc("/grade", MetricsMiddleware(s.gradeHandler.HandleGrade, "grade"))
	mux.HandleFunc("/results", MetricsMiddleware(s.gradeHandler.HandleResult, "results"))
	mux.HandleFunc("/insights", MetricsMiddleware(s.strategyHandler.HandleInsights, "insights"))
	mux.HandleFunc("/params", MetricsMiddleware(s.strategyHandler.HandleParams, "params"))
	mux.HandleFunc("/params/adjust", MetricsMiddleware(s.strategyHandler.HandleAdjust, "params_adjust"))
	mux.HandleFunc("/summary/weekly", MetricsMiddleware(s.strategyHandler.HandleWeekly, "summary_weekly"))
	mux.HandleFunc("/history/export", MetricsMiddleware(s.historyHandler.HandleExport, "history_export"))
	mux.HandleFunc("/history/import", MetricsMiddleware(s.historyHandler.HandleImport, "history_import"))
	mux.HandleFunc("/bankroll", MetricsMiddleware(s.bankrollHandler.HandleBankroll, "bankroll"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status of its kind.
func fail(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeError(w, status, code, err)
}

// allow rejects requests whose method is not method.
func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	return false
}

// decode reads a JSON body of at most limit bytes into v.
func decode(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrBadRequest
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// parseDate validates a YYYY-MM-DD day key.
func parseDate(op, date string) error {
	if _, err := time.Parse(model.DayLayout, date); err != nil {
		return NewKind(op, ErrBadRequest, "date must be YYYY-MM-DD")
	}
	return nil
}
