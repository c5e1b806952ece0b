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
	"github.com/herdbook/herdbook/internal/herd"
)

// ListAnimals returns all animals of the current farm
// @Summary List Animals
// @Tags Herd
// @Produce json
// @Security CookieAuth
// @Success 200 {array} herd.Animal
// @Router /animals [get]
func (h *Handler) ListAnimals(w http.ResponseWriter, r *http.Request) {
	animals, err := h.herdService.ListAnimals(r.Context(), GetFarmID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list animals")
		return
	}
	if animals == nil {
		animals = []*herd.Animal{}
	}
	respondJSON(w, http.StatusOK, animals)
}

// RegisterAnimal adds an animal to the herd register
// @Summary Register Animal
// @Tags Herd
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body herd.Animal true "Animal"
// @Success 201 {object} herd.Animal
// @Failure 400 {object} map[string]string
// @Router /animals [post]
func (h *Handler) RegisterAnimal(w http.ResponseWriter, r *http.Request) {
	var animal herd.Animal
	if err := json.NewDecoder(r.Body).Decode(&animal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.herdService.RegisterAnimal(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &animal)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetAnimal returns a single animal
// @Summary Get Animal
// @Tags Herd
// @Produce json
// @Security CookieAuth
// @Success 200 {object} herd.Animal
// @Failure 404 {object} map[string]string
// @Router /animals/{animalID} [get]
func (h *Handler) GetAnimal(w http.ResponseWriter, r *http.Request) {
	animal, err := h.herdService.GetAnimal(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "animalID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "animal not found")
		return
	}
	respondJSON(w, http.StatusOK, animal)
}

// UpdateAnimal applies a sparse patch to an animal
// @Summary Update Animal
// @Tags Herd
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body herd.AnimalPatch true "Changes"
// @Success 200 {object} herd.Animal
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /animals/{animalID} [patch]
func (h *Handler) UpdateAnimal(w http.ResponseWriter, r *http.Request) {
	var patch herd.AnimalPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	animal, err := h.herdService.UpdateAnimal(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "animalID"), patch)
	if err != nil {
		switch {
		case errors.Is(err, herd.ErrAnimalNotFound):
			respondError(w, http.StatusNotFound, "animal not found")
		case errors.Is(err, herd.ErrInvalidStatus), errors.Is(err, herd.ErrInvalidGender):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update animal")
		}
		return
	}
	respondJSON(w, http.StatusOK, animal)
}

// DeleteAnimal removes an animal from the register
// @Summary Delete Animal
// @Tags Herd
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /animals/{animalID} [delete]
func (h *Handler) DeleteAnimal(w http.ResponseWriter, r *http.Request) {
	err := h.herdService.DeleteAnimal(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "animalID"))
	if err != nil {
		if errors.Is(err, herd.ErrAnimalNotFound) {
			respondError(w, http.StatusNotFound, "animal not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete animal")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "animal deleted"})
}

// GetLineage returns an animal with its resolved parents
// @Summary Get Lineage
// @Description Resolve mother and father; dangling links come back null
// @Tags Herd
// @Produce json
// @Security CookieAuth
// @Success 200 {object} herd.Lineage
// @Failure 404 {object} map[string]string
// @Router /animals/{animalID}/lineage [get]
func (h *Handler) GetLineage(w http.ResponseWriter, r *http.Request) {
	lineage, err := h.herdService.GetLineage(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "animalID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "animal not found")
		return
	}
	respondJSON(w, http.StatusOK, lineage)
}

// ListMeasurements returns an animal's measurement history
// @Summary List Measurements
// @Tags Herd
// @Produce json
// @Security CookieAuth
// @Success 200 {array} herd.Measurement
// @Failure 404 {object} map[string]string
// @Router /animals/{animalID}/measurements [get]
func (h *Handler) ListMeasurements(w http.ResponseWriter, r *http.Request) {
	measurements, err := h.herdService.ListMeasurements(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "animalID"))
	if err != nil {
		if errors.Is(err, herd.ErrAnimalNotFound) {
			respondError(w, http.StatusNotFound, "animal not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to list measurements")
		return
	}
	if measurements == nil {
		measurements = []*herd.Measurement{}
	}
	respondJSON(w, http.StatusOK, measurements)
}

// RecordMeasurement appends a measurement to an animal's history
// @Summary Record Measurement
// @Tags Herd
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body herd.Measurement true "Measurement"
// @Success 201 {object} herd.Measurement
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /animals/{animalID}/measurements [post]
func (h *Handler) RecordMeasurement(w http.ResponseWriter, r *http.Request) {
	var m herd.Measurement
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.herdService.RecordMeasurement(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "animalID"), &m)
	if err != nil {
		if errors.Is(err, herd.ErrAnimalNotFound) {
			respondError(w, http.StatusNotFound, "animal not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}
