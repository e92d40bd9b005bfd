package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kerrybros/fullbay-ingest/internal/response"
	"github.com/kerrybros/fullbay-ingest/internal/store"
)

type GetRevenueByTypeResponse = response.APIResponse[[]store.RevenueByType]
type GetTopCustomersResponse = response.APIResponse[[]store.TopCustomer]
type GetTechnicianHoursResponse = response.APIResponse[[]store.TechnicianHours]
type GetPartsMarginResponse = response.APIResponse[[]store.PartsMargin]
type GetIngestionQualityResponse = response.APIResponse[[]store.IngestionQuality]

func reportFilterFromQuery(r *http.Request) store.ReportFilter {
	startParam := r.URL.Query().Get("start_date")
	endParam := r.URL.Query().Get("end_date")

	var filter store.ReportFilter
	filter.StartDate, _ = time.Parse("2006-01-02", parseDateOrDefault(startParam, "2000-01-01"))
	filter.EndDate, _ = time.Parse("2006-01-02", parseDateOrDefault(endParam, "2100-12-31"))
	filter.LineTypes = []string{}

	if typesParam := r.URL.Query().Get("types"); typesParam != "" {
		for _, t := range strings.Split(typesParam, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				filter.LineTypes = append(filter.LineTypes, t)
			}
		}
	}
	return filter
}

func (app *application) handleGetRevenueByType(w http.ResponseWriter, r *http.Request) {
	filter := reportFilterFromQuery(r)

	ctx := r.Context()
	data, err := app.store.Reports.GetRevenueByType(ctx, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get revenue by type: "+err.Error())
		return
	}

	response := &GetRevenueByTypeResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved revenue by line item type",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetTopCustomers(w http.ResponseWriter, r *http.Request) {
	filter := reportFilterFromQuery(r)

	limit := 10
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}

	ctx := r.Context()
	data, err := app.store.Reports.GetTopCustomers(ctx, filter, limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get top customers: "+err.Error())
		return
	}

	response := &GetTopCustomersResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved top customers",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetTechnicianHours(w http.ResponseWriter, r *http.Request) {
	filter := reportFilterFromQuery(r)

	ctx := r.Context()
	data, err := app.store.Reports.GetTechnicianHours(ctx, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get technician hours: "+err.Error())
		return
	}

	response := &GetTechnicianHoursResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved technician hours",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetPartsMargin(w http.ResponseWriter, r *http.Request) {
	filter := reportFilterFromQuery(r)

	ctx := r.Context()
	data, err := app.store.Reports.GetPartsMargin(ctx, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get parts margin: "+err.Error())
		return
	}

	response := &GetPartsMarginResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved parts margin",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetIngestionQuality(w http.ResponseWriter, r *http.Request) {
	filter := reportFilterFromQuery(r)

	ctx := r.Context()
	data, err := app.store.Reports.GetIngestionQuality(ctx, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get ingestion quality: "+err.Error())
		return
	}

	response := &GetIngestionQualityResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved ingestion quality summary",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
