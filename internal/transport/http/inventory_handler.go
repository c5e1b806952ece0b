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
	"github.com/herdbook/herdbook/internal/inventory"
)

// ListInventory returns all inventory items of the current farm
// @Summary List Inventory
// @Tags Inventory
// @Produce json
// @Security CookieAuth
// @Success 200 {array} inventory.Item
// @Router /inventory [get]
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListItems(r.Context(), GetFarmID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []*inventory.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

// ListLowStock returns items at or below their minimum stock level
// @Summary List Low Stock
// @Tags Inventory
// @Produce json
// @Security CookieAuth
// @Success 200 {array} inventory.Item
// @Router /inventory/low-stock [get]
func (h *Handler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListLowStock(r.Context(), GetFarmID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list low stock")
		return
	}
	if items == nil {
		items = []*inventory.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

// AddInventoryItem creates an inventory item
// @Summary Add Inventory Item
// @Tags Inventory
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body inventory.Item true "Item"
// @Success 201 {object} inventory.Item
// @Failure 400 {object} map[string]string
// @Router /inventory [post]
func (h *Handler) AddInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item inventory.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.inventoryService.AddItem(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &item)
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidItem) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create item")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetInventoryItem returns a single inventory item
// @Summary Get Inventory Item
// @Tags Inventory
// @Produce json
// @Security CookieAuth
// @Success 200 {object} inventory.Item
// @Failure 404 {object} map[string]string
// @Router /inventory/{itemID} [get]
func (h *Handler) GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventoryService.GetItem(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// UpdateInventoryItem applies a sparse patch to an inventory item
// @Summary Update Inventory Item
// @Tags Inventory
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body inventory.ItemPatch true "Changes"
// @Success 200 {object} inventory.Item
// @Failure 404 {object} map[string]string
// @Router /inventory/{itemID} [patch]
func (h *Handler) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var patch inventory.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.inventoryService.UpdateItem(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "itemID"), patch)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrItemNotFound):
			respondError(w, http.StatusNotFound, "item not found")
		case errors.Is(err, inventory.ErrInvalidItem):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update item")
		}
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// DeleteInventoryItem removes an inventory item
// @Summary Delete Inventory Item
// @Tags Inventory
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /inventory/{itemID} [delete]
func (h *Handler) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	if err := h.inventoryService.DeleteItem(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "itemID")); err != nil {
		if errors.Is(err, inventory.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "item not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
