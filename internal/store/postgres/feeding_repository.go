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

// FeedingRepository implements records.FeedingRepository
type FeedingRepository struct {
	db *DB
}

// NewFeedingRepository creates a new feeding record repository
func NewFeedingRepository(db *DB) *FeedingRepository {
	return &FeedingRepository{db: db}
}

const feedingColumns = `id, farm_id, animal_id, feed_type, amount, unit, cost,
	fed_at, created_at, updated_at`

func scanFeedingRecord(row pgx.Row) (*records.FeedingRecord, error) {
	var rec records.FeedingRecord
	err := row.Scan(
		&rec.ID, &rec.FarmID, &rec.AnimalID, &rec.FeedType, &rec.Amount, &rec.Unit, &rec.Cost,
		&rec.FedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, records.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get feeding record: %w", err)
	}
	return &rec, nil
}

// Create creates a new feeding record
func (r *FeedingRepository) Create(ctx context.Context, rec *records.FeedingRecord) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO feeding_records (
			id, farm_id, animal_id, feed_type, amount, unit, cost,
			fed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		rec.ID, rec.FarmID, rec.AnimalID, rec.FeedType, rec.Amount, rec.Unit, rec.Cost,
		rec.FedAt, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feeding record: %w", err)
	}
	return nil
}

// GetByID retrieves a feeding record within a farm
func (r *FeedingRepository) GetByID(ctx context.Context, farmID, id string) (*records.FeedingRecord, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+feedingColumns+` FROM feeding_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanFeedingRecord(row)
}

// List retrieves feeding records, optionally narrowed to one animal
func (r *FeedingRepository) List(ctx context.Context, farmID string, filter records.ListFilter) ([]*records.FeedingRecord, error) {
	query := `SELECT ` + feedingColumns + ` FROM feeding_records WHERE farm_id = $1`
	args := []any{farmID}
	if filter.AnimalID != "" {
		query += ` AND animal_id = $2`
		args = append(args, filter.AnimalID)
	}
	query += ` ORDER BY fed_at DESC`

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeding records: %w", err)
	}
	defer rows.Close()

	var recs []*records.FeedingRecord
	for rows.Next() {
		rec, err := scanFeedingRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ApplyPatch updates only the fields present in the patch
func (r *FeedingRepository) ApplyPatch(ctx context.Context, farmID, id string, patch records.FeedingPatch) (*records.FeedingRecord, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{farmID, id}
	n := 3

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}

	if patch.FeedType != nil {
		add("feed_type", *patch.FeedType)
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.Unit != nil {
		add("unit", *patch.Unit)
	}
	if patch.Cost != nil {
		add("cost", *patch.Cost)
	}
	if patch.FedAt != nil {
		add("fed_at", *patch.FedAt)
	}

	query := fmt.Sprintf(
		`UPDATE feeding_records SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch feeding record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, records.ErrRecordNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes a feeding record
func (r *FeedingRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM feeding_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete feeding record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return records.ErrRecordNotFound
	}
	return nil
}
