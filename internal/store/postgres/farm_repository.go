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
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/farm"
	"github.com/jackc/pgx/v5"
)

// FarmRepository implements farm.Repository
type FarmRepository struct {
	db *DB
}

// NewFarmRepository creates a new farm repository
func NewFarmRepository(db *DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// Create creates a new farm
func (r *FarmRepository) Create(ctx context.Context, f *farm.Farm) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO farms (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, f.ID, f.Name, f.Status, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert farm: %w", err)
	}
	return nil
}

// GetByID retrieves a farm by ID
func (r *FarmRepository) GetByID(ctx context.Context, id string) (*farm.Farm, error) {
	var f farm.Farm
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM farms
		WHERE id = $1
	`, id).Scan(&f.ID, &f.Name, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, farm.ErrFarmNotFound
		}
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	return &f, nil
}

// GetByName retrieves a farm by name
func (r *FarmRepository) GetByName(ctx context.Context, name string) (*farm.Farm, error) {
	var f farm.Farm
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM farms
		WHERE name = $1
	`, name).Scan(&f.ID, &f.Name, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, farm.ErrFarmNotFound
		}
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	return &f, nil
}

// Update updates a farm
func (r *FarmRepository) Update(ctx context.Context, f *farm.Farm) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE farms SET name = $2, status = $3, updated_at = $4
		WHERE id = $1
	`, f.ID, f.Name, f.Status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update farm: %w", err)
	}
	if result.RowsAffected() == 0 {
		return farm.ErrFarmNotFound
	}
	return nil
}

// Delete deletes a farm
func (r *FarmRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `DELETE FROM farms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}
	if result.RowsAffected() == 0 {
		return farm.ErrFarmNotFound
	}
	return nil
}

// List retrieves farms with pagination
func (r *FarmRepository) List(ctx context.Context, limit, offset int) ([]*farm.Farm, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM farms
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	defer rows.Close()

	var farms []*farm.Farm
	for rows.Next() {
		var f farm.Farm
		if err := rows.Scan(&f.ID, &f.Name, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan farm: %w", err)
		}
		farms = append(farms, &f)
	}
	return farms, rows.Err()
}
