package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
	"github.com/kerrybros/fullbay-ingest/internal/response"
	"github.com/kerrybros/fullbay-ingest/internal/store"
)

type GetLineItemsResponse = response.APIResponse[[]types.LineItem]

func (app *application) handleGetInvoiceLineItems(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")
	if invoiceID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing invoice id")
		return
	}

	ctx := r.Context()
	items, err := app.store.LineItems.GetByInvoice(ctx, invoiceID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get line items: "+err.Error())
		return
	}

	if len(items) == 0 {
		writeJSONError(w, http.StatusNotFound, "no line items for invoice "+invoiceID)
		return
	}

	response := &GetLineItemsResponse{
		Success: true,
		Data:    items,
		Message: "Successfully retrieved invoice line items",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetRawInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")
	if invoiceID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing invoice id")
		return
	}

	ctx := r.Context()
	raw, err := app.store.RawInvoices.GetByInvoiceID(ctx, invoiceID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "no raw invoice "+invoiceID)
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get raw invoice: "+err.Error())
		return
	}

	// The archived document is served verbatim alongside its metadata.
	payload := struct {
		*store.RawInvoice
		Document json.RawMessage `json:"document"`
	}{
		RawInvoice: raw,
		Document:   raw.RawData,
	}

	if err := writeJSON(w, http.StatusOK, &response.APIResponse[any]{
		Success: true,
		Data:    payload,
		Message: "Successfully retrieved raw invoice",
	}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
