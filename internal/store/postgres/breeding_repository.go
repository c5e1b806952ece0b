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

	"github.com/herdbook/herdbook/internal/records"
	"github.com/jackc/pgx/v5"
)

// BreedingRepository implements records.BreedingRepository
type BreedingRepository struct {
	db *DB
}

// NewBreedingRepository creates a new breeding record repository
func NewBreedingRepository(db *DB) *BreedingRepository {
	return &BreedingRepository{db: db}
}

const breedingColumns = `id, farm_id, mother_id, father_id, breeding_date,
	expected_birth_date, actual_birth_date, offspring_count, notes,
	created_at, updated_at`

func scanBreedingRecord(row pgx.Row) (*records.BreedingRecord, error) {
	var rec records.BreedingRecord
	var expected, actual sql.NullTime

	err := row.Scan(
		&rec.ID, &rec.FarmID, &rec.MotherID, &rec.FatherID, &rec.BreedingDate,
		&expected, &actual, &rec.OffspringCount, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, records.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get breeding record: %w", err)
	}

	if expected.Valid {
		rec.ExpectedBirthDate = &expected.Time
	}
	if actual.Valid {
		rec.ActualBirthDate = &actual.Time
	}
	return &rec, nil
}

// Create creates a new breeding record
func (r *BreedingRepository) Create(ctx context.Context, rec *records.BreedingRecord) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO breeding_records (
			id, farm_id, mother_id, father_id, breeding_date,
			expected_birth_date, actual_birth_date, offspring_count, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		rec.ID, rec.FarmID, rec.MotherID, rec.FatherID, rec.BreedingDate,
		rec.ExpectedBirthDate, rec.ActualBirthDate, rec.OffspringCount, rec.Notes,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert breeding record: %w", err)
	}
	return nil
}

// GetByID retrieves a breeding record within a farm
func (r *BreedingRepository) GetByID(ctx context.Context, farmID, id string) (*records.BreedingRecord, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+breedingColumns+` FROM breeding_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanBreedingRecord(row)
}

// List retrieves the farm's breeding records
func (r *BreedingRepository) List(ctx context.Context, farmID string) ([]*records.BreedingRecord, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT `+breedingColumns+` FROM breeding_records WHERE farm_id = $1 ORDER BY breeding_date DESC`, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breeding records: %w", err)
	}
	defer rows.Close()

	var recs []*records.BreedingRecord
	for rows.Next() {
		rec, err := scanBreedingRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ApplyPatch updates only the fields present in the patch
func (r *BreedingRepository) ApplyPatch(ctx context.Context, farmID, id string, patch records.BreedingPatch) (*records.BreedingRecord, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{farmID, id}
	n := 3

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}

	if patch.MotherID != nil {
		add("mother_id", *patch.MotherID)
	}
	if patch.FatherID != nil {
		add("father_id", *patch.FatherID)
	}
	if patch.BreedingDate != nil {
		add("breeding_date", *patch.BreedingDate)
	}
	if patch.ExpectedBirthDate != nil {
		add("expected_birth_date", *patch.ExpectedBirthDate)
	}
	if patch.ActualBirthDate != nil {
		add("actual_birth_date", *patch.ActualBirthDate)
	}
	if patch.OffspringCount != nil {
		add("offspring_count", *patch.OffspringCount)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}

	query := fmt.Sprintf(
		`UPDATE breeding_records SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch breeding record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, records.ErrRecordNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes a breeding record
func (r *BreedingRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM breeding_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete breeding record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return records.ErrRecordNotFound
	}
	return nil
}
