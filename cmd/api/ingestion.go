package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kerrybros/fullbay-ingest/internal/response"
	"github.com/kerrybros/fullbay-ingest/internal/store"
)

type GetIngestionHistoryResponse = response.APIResponse[[]store.IngestionHistory]
type UpdateIngestionStatusResponse = response.APIResponse[int64]

func (app *application) handleGetIngestionHistory(w http.ResponseWriter, r *http.Request) {
	limitParam := r.URL.Query().Get("limit")
	limit := 10
	if limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}

	ctx := r.Context()
	data, err := app.store.IngestionHistory.GetLatest(ctx, limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get ingestion history: "+err.Error())
		return
	}

	response := &GetIngestionHistoryResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved latest ingestion records",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// handleUpdateIngestionStatus flips a record to an explicit status, e.g.
// marking a stale in_progress row as failure so the next run retries it.
func (app *application) handleUpdateIngestionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid ingestion record id")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	switch input.Status {
	case store.StatusInProgress, store.StatusSuccess, store.StatusFailure,
		store.StatusPartial, store.StatusSkipped:
	default:
		writeJSONError(w, http.StatusBadRequest, "unknown status: "+input.Status)
		return
	}

	ctx := r.Context()
	if err := app.store.IngestionHistory.UpdateIngestionStatus(ctx, id, input.Status); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to update ingestion status: "+err.Error())
		return
	}

	response := &UpdateIngestionStatusResponse{
		Success: true,
		Data:    id,
		Message: "Ingestion record updated to " + input.Status,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
