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
	"github.com/herdbook/herdbook/internal/tasks"
)

// ListTasks returns all tasks of the current farm
// @Summary List Tasks
// @Tags Tasks
// @Produce json
// @Security CookieAuth
// @Success 200 {array} tasks.Task
// @Router /tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := h.taskService.ListTasks(r.Context(), GetFarmID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if list == nil {
		list = []*tasks.Task{}
	}
	respondJSON(w, http.StatusOK, list)
}

// CreateTask creates a task
// @Summary Create Task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body tasks.Task true "Task"
// @Success 201 {object} tasks.Task
// @Failure 400 {object} map[string]string
// @Router /tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task tasks.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.taskService.CreateTask(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), &task)
	if err != nil {
		if errors.Is(err, tasks.ErrInvalidTask) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create task")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetTask returns a single task
// @Summary Get Task
// @Tags Tasks
// @Produce json
// @Security CookieAuth
// @Success 200 {object} tasks.Task
// @Failure 404 {object} map[string]string
// @Router /tasks/{taskID} [get]
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.GetTask(r.Context(), GetFarmID(r.Context()), chi.URLParam(r, "taskID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// UpdateTask applies a sparse patch to a task
// @Summary Update Task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body tasks.TaskPatch true "Changes"
// @Success 200 {object} tasks.Task
// @Failure 404 {object} map[string]string
// @Router /tasks/{taskID} [patch]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch tasks.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "taskID"), patch)
	if err != nil {
		switch {
		case errors.Is(err, tasks.ErrTaskNotFound):
			respondError(w, http.StatusNotFound, "task not found")
		case errors.Is(err, tasks.ErrInvalidTask):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update task")
		}
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// CompleteTask marks a task as completed
// @Summary Complete Task
// @Tags Tasks
// @Produce json
// @Security CookieAuth
// @Success 200 {object} tasks.Task
// @Failure 404 {object} map[string]string
// @Router /tasks/{taskID}/complete [post]
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.CompleteTask(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "taskID"))
	if err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "task not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to complete task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task
// @Summary Delete Task
// @Tags Tasks
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{taskID} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.DeleteTask(r.Context(), GetFarmID(r.Context()), GetUserID(r.Context()), chi.URLParam(r, "taskID")); err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			respondError(w, http.StatusNotFound, "task not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}
