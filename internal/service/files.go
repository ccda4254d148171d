package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/rollbook/internal/tracker"
)

// MaxUploadBytes caps the size of an uploaded CSV.
const MaxUploadBytes = 10 << 20

// FileHandler serves spreadsheet downloads and CSV uploads over plain HTTP.
type FileHandler struct {
	tracker *tracker.Tracker
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(t *tracker.Tracker) *FileHandler {
	return &FileHandler{tracker: t}
}

// Register mounts the file routes on mux, each wrapped with wrap.
func (h *FileHandler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET /export/attendance.csv", wrap(http.HandlerFunc(h.ExportCSV)))
	mux.Handle("GET /export/attendance.xlsx", wrap(http.HandlerFunc(h.ExportXLSX)))
	mux.Handle("POST /import/csv", wrap(http.HandlerFunc(h.ImportCSV)))
}

// ExportCSV writes every group as a CSV attachment.
func (h *FileHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("csv")))

	if err := h.tracker.ExportCSV(w); err != nil {
		slog.Error("CSV export failed", "error", err)
	}
}

// ExportXLSX writes every group as an Excel workbook attachment.
func (h *FileHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("xlsx")))

	if err := h.tracker.ExportXLSX(w); err != nil {
		slog.Error("XLSX export failed", "error", err)
	}
}

// ImportCSV replaces all groups with an uploaded CSV. The body is either the
// raw document or a multipart form with a "file" field.
func (h *FileHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("missing file: %w", err))
			return
		}
		defer file.Close()
		body = file
	}

	report, err := h.tracker.ImportCSV(r.Context(), body)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tracker.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		slog.Warn("CSV upload rejected", "status", status, "error", err)
		writeJSONError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPIReport(report))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
