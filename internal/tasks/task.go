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

// Package tasks is the farm's work planner: feeding rounds, health
// checks, maintenance, assignable to staff and optionally tied to an
// animal.
package tasks

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidTask     = errors.New("invalid task")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidStatus   = errors.New("invalid task status")
)

// Task types
const (
	TypeFeeding     = "feeding"
	TypeHealth      = "health"
	TypeMaintenance = "maintenance"
	TypeBreeding    = "breeding"
	TypeGeneral     = "general"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Status lifecycle
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ValidPriority reports whether p is one of the defined priorities
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the defined statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Task is one unit of planned farm work. AnimalID and AssignedTo are
// weak references.
type Task struct {
	ID          string     `json:"id"`
	FarmID      string     `json:"farm_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	AnimalID    string     `json:"animal_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskPatch is a sparse change-set; nil fields are left untouched
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Type        *string    `json:"type,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	AnimalID    *string    `json:"animal_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Repository defines the interface for task persistence. Every method
// is farm-scoped.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, farmID, id string) (*Task, error)
	ListByFarm(ctx context.Context, farmID string) ([]*Task, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch TaskPatch) (*Task, error)
	Delete(ctx context.Context, farmID, id string) error
}
