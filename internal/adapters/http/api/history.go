package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/vstrike/internal/adapters/repository"
)

// HistoryDependencies defines the interface for history export and import.
type HistoryDependencies interface {
	ExportHistory(ctx context.Context) (*repository.History, error)
	ImportHistory(ctx context.Context, h *repository.History, overwrite bool) (int, error)
}

// HistoryHandler handles history dumps.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

type importResponse struct {
	Imported int `json:"imported"`
}

// HandleExport handles GET /history/export.
func (h *HistoryHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	hist, err := h.deps.ExportHistory(r.Context())
	if err != nil {
		fail(w, Wrap("history_export", err))
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="vstrike-history.json"`)
	writeJSON(w, http.StatusOK, hist)
}

// HandleImport handles POST /history/import[?overwrite=true].
func (h *HistoryHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	overwrite := false
	if v := r.URL.Query().Get("overwrite"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(w, NewKind("history_import", ErrBadRequest, "overwrite must be a boolean"))
			return
		}
		overwrite = b
	}
	var hist repository.History
	if err := decode(w, r, maxImportBytes, &hist); err != nil {
		fail(w, WrapKind("history_import", ErrBadRequest, err))
		return
	}
	n, err := h.deps.ImportHistory(r.Context(), &hist, overwrite)
	if err != nil {
		fail(w, Wrap("history_import", err))
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}
