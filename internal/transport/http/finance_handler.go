// Copyright 2026 The Herdbook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/herdbook/herdbook/internal/finance"
)

// ListFinanceEntries returns all financial records of the current farm
// @Summary List Financial Records
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Success 200 {array} finance.Entry
// @Router /finance [get]
func (h *Handler) ListFinanceEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.financeService.ListEntries(r.Context(), GetFarmID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list financial records")
		return
	}
	if entries == nil {
		entries = []*finance.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// RecordFinanceEntry creates a financial record
// @Summary Record Financial Entry
// @Tags Finance
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body finance.Entry true "Entry"
// @Success 201 {object} finance.Entry
// @Failure 400 {object} map[string]string
// @Router /finance [post]
func (h *Handler) RecordFinanceEntry(w http.ResponseWriter, r *http.Request) {
	var entry finance.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.financeService.RecordEntry(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &entry)
	if err != nil {
		if errors.Is(err, finance.ErrInvalidEntry) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to record entry")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// FinanceSummary returns income, expense and net totals over a period
// @Summary Finance Summary
// @Description Totals over [from, to); defaults to the current month
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Param from query string false "RFC 3339 period start"
// @Param to query string false "RFC 3339 period end"
// @Success 200 {object} finance.Summary
// @Failure 400 {object} map[string]string
// @Router /finance/summary [get]
func (h *Handler) FinanceSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid from timestamp")
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid to timestamp")
			return
		}
		to = parsed
	}

	summary, err := h.financeService.Summarize(r.Context(), GetFarmID(r.Context()), from, to)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid summary period")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetFinanceEntry returns a single financial record
// @Summary Get Financial Entry
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Success 200 {object} finance.Entry
// @Failure 404 {object} map[string]string
// @Router /finance/{entryID} [get]
func (h *Handler) GetFinanceEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.financeService.GetEntry(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "entryID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "entry not found")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// UpdateFinanceEntry applies a sparse patch to a financial record
// @Summary Update Financial Entry
// @Tags Finance
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body finance.EntryPatch true "Changes"
// @Success 200 {object} finance.Entry
// @Failure 404 {object} map[string]string
// @Router /finance/{entryID} [patch]
func (h *Handler) UpdateFinanceEntry(w http.ResponseWriter, r *http.Request) {
	var patch finance.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.financeService.UpdateEntry(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "entryID"), patch)
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrEntryNotFound):
			respondError(w, http.StatusNotFound, "entry not found")
		case errors.Is(err, finance.ErrInvalidEntry):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update entry")
		}
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// DeleteFinanceEntry removes a financial record
// @Summary Delete Financial Entry
// @Tags Finance
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /finance/{entryID} [delete]
func (h *Handler) DeleteFinanceEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.financeService.DeleteEntry(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "entryID")); err != nil {
		if errors.Is(err, finance.ErrEntryNotFound) {
			respondError(w, http.StatusNotFound, "entry not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "entry deleted"})
}
