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

package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/id"
)

// Service provides task planning business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new task service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// CreateTask adds a new task. Priority defaults to medium, status to
// pending.
func (s *Service) CreateTask(ctx context.Context, farmID, actorID string, task *Task) (*Task, error) {
	if task.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if task.Type == "" {
		task.Type = TypeGeneral
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if !ValidPriority(task.Priority) {
		return nil, ErrInvalidPriority
	}
	if task.Status == "" {
		task.Status = StatusPending
	}
	if !ValidStatus(task.Status) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	task.ID = id.NewUUIDv7()
	task.FarmID = farmID
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordCreated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "task",
		Metadata: map[string]any{"task_id": task.ID, "title": task.Title},
	})

	return task, nil
}

// GetTask retrieves one task, farm-scoped
func (s *Service) GetTask(ctx context.Context, farmID, taskID string) (*Task, error) {
	return s.repo.GetByID(ctx, farmID, taskID)
}

// ListTasks returns the farm's tasks
func (s *Service) ListTasks(ctx context.Context, farmID string) ([]*Task, error) {
	return s.repo.ListByFarm(ctx, farmID)
}

// UpdateTask applies a sparse patch, last-write-wins
func (s *Service) UpdateTask(ctx context.Context, farmID, actorID, taskID string, patch TaskPatch) (*Task, error) {
	if patch.Priority != nil && !ValidPriority(*patch.Priority) {
		return nil, ErrInvalidPriority
	}
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return nil, ErrInvalidStatus
	}

	task, err := s.repo.ApplyPatch(ctx, farmID, taskID, patch)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordUpdated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "task",
		Metadata: map[string]any{"task_id": taskID},
	})

	return task, nil
}

// CompleteTask marks a task completed and stamps the completion time
func (s *Service) CompleteTask(ctx context.Context, farmID, actorID, taskID string) (*Task, error) {
	status := StatusCompleted
	task, err := s.UpdateTask(ctx, farmID, actorID, taskID, TaskPatch{Status: &status})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task
func (s *Service) DeleteTask(ctx context.Context, farmID, actorID, taskID string) error {
	if err := s.repo.Delete(ctx, farmID, taskID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "task",
		Metadata: map[string]any{"task_id": taskID},
	})

	return nil
}
