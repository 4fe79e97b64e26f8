package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
	"github.com/Lenacars/adminpanel-sub000/internal/parser"
)

// Uploaded sheets stay far below this.
const maxImportBody = 32 << 20

// BatchRunner runs one import batch to completion.
type BatchRunner interface {
	Run(ctx context.Context, rows []model.VehicleRow) (*model.ImportReport, error)
}

// ImportHandler exposes the catalog import pipeline over HTTP. All three
// entry points (JSON body, CSV upload, Excel upload) converge on the same
// pipeline; only the row adapter differs.
type ImportHandler struct {
	pipeline BatchRunner
	logger   *slog.Logger
}

func NewImportHandler(pipeline BatchRunner, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// ImportJSON ingests a JSON array of vehicle rows.
func (h *ImportHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	var rows []model.VehicleRow
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBody)).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a JSON array of vehicle rows")
		return
	}
	h.run(w, r, rows)
}

// ImportCSV ingests a CSV file uploaded as multipart field "file".
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	file := h.formFile(w, r)
	if file == nil {
		return
	}
	defer file.Close()

	rows, err := parser.ParseCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_file", err.Error())
		return
	}
	h.run(w, r, rows)
}

// ImportXLSX ingests an Excel workbook uploaded as multipart field "file".
func (h *ImportHandler) ImportXLSX(w http.ResponseWriter, r *http.Request) {
	file := h.formFile(w, r)
	if file == nil {
		return
	}
	defer file.Close()

	rows, err := parser.ParseXLSX(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_file", err.Error())
		return
	}
	h.run(w, r, rows)
}

func (h *ImportHandler) run(w http.ResponseWriter, r *http.Request, rows []model.VehicleRow) {
	report, err := h.pipeline.Run(r.Context(), rows)
	if err != nil {
		// Only a storage listing failure is batch-fatal; row failures are
		// inside the report.
		h.logger.Error("import batch aborted", "error", err)
		writeError(w, http.StatusBadGateway, "storage_error", "Could not list storage files")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ImportHandler) formFile(w http.ResponseWriter, r *http.Request) multipart.File {
	if err := r.ParseMultipartForm(maxImportBody); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", "Could not parse multipart form")
		return nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "Multipart field 'file' is required")
		return nil
	}
	return file
}
