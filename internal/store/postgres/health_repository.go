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
	"strings"

	"github.com/herdbook/herdbook/internal/records"
	"github.com/jackc/pgx/v5"
)

// HealthRepository implements records.HealthRepository
type HealthRepository struct {
	db *DB
}

// NewHealthRepository creates a new health record repository
func NewHealthRepository(db *DB) *HealthRepository {
	return &HealthRepository{db: db}
}

const healthColumns = `id, farm_id, animal_id, type, description, veterinarian,
	cost, status, occurred_at, created_at, updated_at`

func scanHealthRecord(row pgx.Row) (*records.HealthRecord, error) {
	var rec records.HealthRecord
	err := row.Scan(
		&rec.ID, &rec.FarmID, &rec.AnimalID, &rec.Type, &rec.Description, &rec.Veterinarian,
		&rec.Cost, &rec.Status, &rec.OccurredAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, records.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get health record: %w", err)
	}
	return &rec, nil
}

// Create creates a new health record
func (r *HealthRepository) Create(ctx context.Context, rec *records.HealthRecord) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO health_records (
			id, farm_id, animal_id, type, description, veterinarian,
			cost, status, occurred_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		rec.ID, rec.FarmID, rec.AnimalID, rec.Type, rec.Description, rec.Veterinarian,
		rec.Cost, rec.Status, rec.OccurredAt, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert health record: %w", err)
	}
	return nil
}

// GetByID retrieves a health record within a farm
func (r *HealthRepository) GetByID(ctx context.Context, farmID, id string) (*records.HealthRecord, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+healthColumns+` FROM health_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanHealthRecord(row)
}

// List retrieves health records, optionally narrowed to one animal
func (r *HealthRepository) List(ctx context.Context, farmID string, filter records.ListFilter) ([]*records.HealthRecord, error) {
	query := `SELECT ` + healthColumns + ` FROM health_records WHERE farm_id = $1`
	args := []any{farmID}
	if filter.AnimalID != "" {
		query += ` AND animal_id = $2`
		args = append(args, filter.AnimalID)
	}
	query += ` ORDER BY occurred_at DESC`

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list health records: %w", err)
	}
	defer rows.Close()

	var recs []*records.HealthRecord
	for rows.Next() {
		rec, err := scanHealthRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ApplyPatch updates only the fields present in the patch
func (r *HealthRepository) ApplyPatch(ctx context.Context, farmID, id string, patch records.HealthPatch) (*records.HealthRecord, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{farmID, id}
	n := 3

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}

	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Veterinarian != nil {
		add("veterinarian", *patch.Veterinarian)
	}
	if patch.Cost != nil {
		add("cost", *patch.Cost)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.OccurredAt != nil {
		add("occurred_at", *patch.OccurredAt)
	}

	query := fmt.Sprintf(
		`UPDATE health_records SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch health record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, records.ErrRecordNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes a health record
func (r *HealthRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM health_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete health record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return records.ErrRecordNotFound
	}
	return nil
}
