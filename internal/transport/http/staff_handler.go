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
	"github.com/herdbook/herdbook/internal/staff"
)

// ListStaff returns the staff roster of the current farm
// @Summary List Staff
// @Tags Staff
// @Produce json
// @Security CookieAuth
// @Success 200 {array} staff.Member
// @Router /staff [get]
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.staffService.ListMembers(r.Context(), GetFarmID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list staff")
		return
	}
	if members == nil {
		members = []*staff.Member{}
	}
	respondJSON(w, http.StatusOK, members)
}

// AddStaffMember adds a member to the roster
// @Summary Add Staff Member
// @Tags Staff
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body staff.Member true "Member"
// @Success 201 {object} staff.Member
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /staff [post]
func (h *Handler) AddStaffMember(w http.ResponseWriter, r *http.Request) {
	var member staff.Member
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.staffService.AddMember(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &member)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrInvalidMember), errors.Is(err, staff.ErrInvalidPermission):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to add staff member")
		}
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetStaffMember returns a single roster member
// @Summary Get Staff Member
// @Tags Staff
// @Produce json
// @Security CookieAuth
// @Success 200 {object} staff.Member
// @Failure 404 {object} map[string]string
// @Router /staff/{memberID} [get]
func (h *Handler) GetStaffMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.staffService.GetMember(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "memberID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "staff member not found")
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// UpdateStaffMember applies a sparse patch to a roster member. A
// permissions patch replaces the whole set.
// @Summary Update Staff Member
// @Tags Staff
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body staff.MemberPatch true "Changes"
// @Success 200 {object} staff.Member
// @Failure 404 {object} map[string]string
// @Router /staff/{memberID} [patch]
func (h *Handler) UpdateStaffMember(w http.ResponseWriter, r *http.Request) {
	var patch staff.MemberPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.staffService.UpdateMember(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "memberID"), patch)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrMemberNotFound):
			respondError(w, http.StatusNotFound, "staff member not found")
		case errors.Is(err, staff.ErrInvalidMember), errors.Is(err, staff.ErrInvalidPermission):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update staff member")
		}
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// RemoveStaffMember removes a member from the roster
// @Summary Remove Staff Member
// @Tags Staff
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /staff/{memberID} [delete]
func (h *Handler) RemoveStaffMember(w http.ResponseWriter, r *http.Request) {
	if err := h.staffService.RemoveMember(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "memberID")); err != nil {
		if errors.Is(err, staff.ErrMemberNotFound) {
			respondError(w, http.StatusNotFound, "staff member not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to remove staff member")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "staff member removed"})
}
