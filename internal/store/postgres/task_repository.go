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

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/herdbook/herdbook/internal/tasks"
	"github.com/jackc/pgx/v5"
)

// TaskRepository implements tasks.Repository
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, farm_id, title, description, type, priority, status,
	assigned_to, animal_id, due_date, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (*tasks.Task, error) {
	var t tasks.Task
	var dueDate, completedAt sql.NullTime

	err := row.Scan(
		&t.ID, &t.FarmID, &t.Title, &t.Description, &t.Type, &t.Priority, &t.Status,
		&t.AssignedTo, &t.AnimalID, &dueDate, &completedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, tasks.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, t *tasks.Task) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO tasks (
			id, farm_id, title, description, type, priority, status,
			assigned_to, animal_id, due_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		t.ID, t.FarmID, t.Title, t.Description, t.Type, t.Priority, t.Status,
		t.AssignedTo, t.AnimalID, t.DueDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetByID retrieves a task within a farm
func (r *TaskRepository) GetByID(ctx context.Context, farmID, id string) (*tasks.Task, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanTask(row)
}

// ListByFarm retrieves the farm's tasks
func (r *TaskRepository) ListByFarm(ctx context.Context, farmID string) ([]*tasks.Task, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE farm_id = $1 ORDER BY created_at DESC`, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []*tasks.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ApplyPatch updates only the fields present in the patch. Completing
// a task stamps completed_at once.
func (r *TaskRepository) ApplyPatch(ctx context.Context, farmID, id string, patch tasks.TaskPatch) (*tasks.Task, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{farmID, id}
	n := 3

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
		if *patch.Status == tasks.StatusCompleted {
			set = append(set, "completed_at = COALESCE(completed_at, NOW())")
		}
	}
	if patch.AssignedTo != nil {
		add("assigned_to", *patch.AssignedTo)
	}
	if patch.AnimalID != nil {
		add("animal_id", *patch.AnimalID)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}

	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, tasks.ErrTaskNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM tasks WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return tasks.ErrTaskNotFound
	}
	return nil
}
