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

	"github.com/go-chi/chi/v5"
	"github.com/herdbook/herdbook/internal/records"
)

// mountRecordRoutes wires the four activity record families. Each
// family is a flat CRUD surface; health, feeding and production lists
// accept an ?animal_id= filter.
func (h *Handler) mountRecordRoutes(r chi.Router) {
	r.Route("/health-records", func(r chi.Router) {
		r.Get("/", h.ListHealthRecords)
		r.Post("/", h.AddHealthRecord)
		r.Route("/{recordID}", func(r chi.Router) {
			r.Get("/", h.GetHealthRecord)
			r.Patch("/", h.UpdateHealthRecord)
			r.Delete("/", h.DeleteHealthRecord)
		})
	})
	r.Route("/feeding-records", func(r chi.Router) {
		r.Get("/", h.ListFeedingRecords)
		r.Post("/", h.AddFeedingRecord)
		r.Route("/{recordID}", func(r chi.Router) {
			r.Get("/", h.GetFeedingRecord)
			r.Patch("/", h.UpdateFeedingRecord)
			r.Delete("/", h.DeleteFeedingRecord)
		})
	})
	r.Route("/breeding-records", func(r chi.Router) {
		r.Get("/", h.ListBreedingRecords)
		r.Post("/", h.AddBreedingRecord)
		r.Route("/{recordID}", func(r chi.Router) {
			r.Get("/", h.GetBreedingRecord)
			r.Patch("/", h.UpdateBreedingRecord)
			r.Delete("/", h.DeleteBreedingRecord)
		})
	})
	r.Route("/production-records", func(r chi.Router) {
		r.Get("/", h.ListProductionRecords)
		r.Post("/", h.AddProductionRecord)
		r.Route("/{recordID}", func(r chi.Router) {
			r.Get("/", h.GetProductionRecord)
			r.Patch("/", h.UpdateProductionRecord)
			r.Delete("/", h.DeleteProductionRecord)
		})
	})
}

func listFilter(r *http.Request) records.ListFilter {
	return records.ListFilter{AnimalID: r.URL.Query().Get("animal_id")}
}

func respondRecordError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, records.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, records.ErrInvalidRecord):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// AddHealthRecord creates a health record
// @Summary Add Health Record
// @Tags Records
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body records.HealthRecord true "Record"
// @Success 201 {object} records.HealthRecord
// @Failure 400 {object} map[string]string
// @Router /health-records [post]
func (h *Handler) AddHealthRecord(w http.ResponseWriter, r *http.Request) {
	var rec records.HealthRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.recordsService.AddHealthRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &rec)
	if err != nil {
		respondRecordError(w, err, "create health record")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListHealthRecords lists health records, optionally per animal
// @Summary List Health Records
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Param animal_id query string false "Filter by animal"
// @Success 200 {array} records.HealthRecord
// @Router /health-records [get]
func (h *Handler) ListHealthRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recordsService.ListHealthRecords(r.Context(), GetFarmID(r.Context()), listFilter(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list health records")
		return
	}
	if recs == nil {
		recs = []*records.HealthRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// GetHealthRecord returns a single health record
// @Summary Get Health Record
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {object} records.HealthRecord
// @Failure 404 {object} map[string]string
// @Router /health-records/{recordID} [get]
func (h *Handler) GetHealthRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recordsService.GetHealthRecord(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "recordID"))
	if err != nil {
		respondRecordError(w, err, "get health record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// UpdateHealthRecord applies a sparse patch to a health record
// @Summary Update Health Record
// @Tags Records
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body records.HealthPatch true "Changes"
// @Success 200 {object} records.HealthRecord
// @Failure 404 {object} map[string]string
// @Router /health-records/{recordID} [patch]
func (h *Handler) UpdateHealthRecord(w http.ResponseWriter, r *http.Request) {
	var patch records.HealthPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.recordsService.UpdateHealthRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "recordID"), patch)
	if err != nil {
		respondRecordError(w, err, "update health record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// DeleteHealthRecord removes a health record
// @Summary Delete Health Record
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /health-records/{recordID} [delete]
func (h *Handler) DeleteHealthRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.recordsService.DeleteHealthRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "recordID")); err != nil {
		respondRecordError(w, err, "delete health record")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}

// AddFeedingRecord creates a feeding record
// @Summary Add Feeding Record
// @Tags Records
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body records.FeedingRecord true "Record"
// @Success 201 {object} records.FeedingRecord
// @Failure 400 {object} map[string]string
// @Router /feeding-records [post]
func (h *Handler) AddFeedingRecord(w http.ResponseWriter, r *http.Request) {
	var rec records.FeedingRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.recordsService.AddFeedingRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &rec)
	if err != nil {
		respondRecordError(w, err, "create feeding record")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListFeedingRecords lists feeding records, optionally per animal
// @Summary List Feeding Records
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Param animal_id query string false "Filter by animal"
// @Success 200 {array} records.FeedingRecord
// @Router /feeding-records [get]
func (h *Handler) ListFeedingRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recordsService.ListFeedingRecords(r.Context(), GetFarmID(r.Context()), listFilter(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list feeding records")
		return
	}
	if recs == nil {
		recs = []*records.FeedingRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// GetFeedingRecord returns a single feeding record
// @Summary Get Feeding Record
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {object} records.FeedingRecord
// @Failure 404 {object} map[string]string
// @Router /feeding-records/{recordID} [get]
func (h *Handler) GetFeedingRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recordsService.GetFeedingRecord(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "recordID"))
	if err != nil {
		respondRecordError(w, err, "get feeding record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// UpdateFeedingRecord applies a sparse patch to a feeding record
// @Summary Update Feeding Record
// @Tags Records
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body records.FeedingPatch true "Changes"
// @Success 200 {object} records.FeedingRecord
// @Failure 404 {object} map[string]string
// @Router /feeding-records/{recordID} [patch]
func (h *Handler) UpdateFeedingRecord(w http.ResponseWriter, r *http.Request) {
	var patch records.FeedingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.recordsService.UpdateFeedingRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "recordID"), patch)
	if err != nil {
		respondRecordError(w, err, "update feeding record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// DeleteFeedingRecord removes a feeding record
// @Summary Delete Feeding Record
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /feeding-records/{recordID} [delete]
func (h *Handler) DeleteFeedingRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.recordsService.DeleteFeedingRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "recordID")); err != nil {
		respondRecordError(w, err, "delete feeding record")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}

// AddBreedingRecord creates a breeding record
// @Summary Add Breeding Record
// @Tags Records
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body records.BreedingRecord true "Record"
// @Success 201 {object} records.BreedingRecord
// @Failure 400 {object} map[string]string
// @Router /breeding-records [post]
func (h *Handler) AddBreedingRecord(w http.ResponseWriter, r *http.Request) {
	var rec records.BreedingRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.recordsService.AddBreedingRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &rec)
	if err != nil {
		respondRecordError(w, err, "create breeding record")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListBreedingRecords lists breeding records
// @Summary List Breeding Records
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {array} records.BreedingRecord
// @Router /breeding-records [get]
func (h *Handler) ListBreedingRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recordsService.ListBreedingRecords(r.Context(), GetFarmID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list breeding records")
		return
	}
	if recs == nil {
		recs = []*records.BreedingRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// GetBreedingRecord returns a single breeding record
// @Summary Get Breeding Record
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {object} records.BreedingRecord
// @Failure 404 {object} map[string]string
// @Router /breeding-records/{recordID} [get]
func (h *Handler) GetBreedingRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recordsService.GetBreedingRecord(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "recordID"))
	if err != nil {
		respondRecordError(w, err, "get breeding record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// UpdateBreedingRecord applies a sparse patch to a breeding record
// @Summary Update Breeding Record
// @Tags Records
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body records.BreedingPatch true "Changes"
// @Success 200 {object} records.BreedingRecord
// @Failure 404 {object} map[string]string
// @Router /breeding-records/{recordID} [patch]
func (h *Handler) UpdateBreedingRecord(w http.ResponseWriter, r *http.Request) {
	var patch records.BreedingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.recordsService.UpdateBreedingRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "recordID"), patch)
	if err != nil {
		respondRecordError(w, err, "update breeding record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// DeleteBreedingRecord removes a breeding record
// @Summary Delete Breeding Record
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /breeding-records/{recordID} [delete]
func (h *Handler) DeleteBreedingRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.recordsService.DeleteBreedingRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "recordID")); err != nil {
		respondRecordError(w, err, "delete breeding record")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}

// AddProductionRecord creates a production record
// @Summary Add Production Record
// @Tags Records
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body records.ProductionRecord true "Record"
// @Success 201 {object} records.ProductionRecord
// @Failure 400 {object} map[string]string
// @Router /production-records [post]
func (h *Handler) AddProductionRecord(w http.ResponseWriter, r *http.Request) {
	var rec records.ProductionRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.recordsService.AddProductionRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &rec)
	if err != nil {
		respondRecordError(w, err, "create production record")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListProductionRecords lists production records, optionally per animal
// @Summary List Production Records
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Param animal_id query string false "Filter by animal"
// @Success 200 {array} records.ProductionRecord
// @Router /production-records [get]
func (h *Handler) ListProductionRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recordsService.ListProductionRecords(r.Context(), GetFarmID(r.Context()), listFilter(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list production records")
		return
	}
	if recs == nil {
		recs = []*records.ProductionRecord{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// GetProductionRecord returns a single production record
// @Summary Get Production Record
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {object} records.ProductionRecord
// @Failure 404 {object} map[string]string
// @Router /production-records/{recordID} [get]
func (h *Handler) GetProductionRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recordsService.GetProductionRecord(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "recordID"))
	if err != nil {
		respondRecordError(w, err, "get production record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// UpdateProductionRecord applies a sparse patch to a production record
// @Summary Update Production Record
// @Tags Records
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body records.ProductionPatch true "Changes"
// @Success 200 {object} records.ProductionRecord
// @Failure 404 {object} map[string]string
// @Router /production-records/{recordID} [patch]
func (h *Handler) UpdateProductionRecord(w http.ResponseWriter, r *http.Request) {
	var patch records.ProductionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.recordsService.UpdateProductionRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "recordID"), patch)
	if err != nil {
		respondRecordError(w, err, "update production record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// DeleteProductionRecord removes a production record
// @Summary Delete Production Record
// @Tags Records
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /production-records/{recordID} [delete]
func (h *Handler) DeleteProductionRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.recordsService.DeleteProductionRecord(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "recordID")); err != nil {
		respondRecordError(w, err, "delete production record")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}
