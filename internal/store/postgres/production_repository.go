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

// ProductionRepository implements records.ProductionRepository
type ProductionRepository struct {
	db *DB
}

// NewProductionRepository creates a new production record repository
func NewProductionRepository(db *DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

const productionColumns = `id, farm_id, animal_id, product_type, quantity, unit,
	produced_at, created_at, updated_at`

func scanProductionRecord(row pgx.Row) (*records.ProductionRecord, error) {
	var rec records.ProductionRecord
	err := row.Scan(
		&rec.ID, &rec.FarmID, &rec.AnimalID, &rec.ProductType, &rec.Quantity, &rec.Unit,
		&rec.ProducedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, records.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get production record: %w", err)
	}
	return &rec, nil
}

// Create creates a new production record
func (r *ProductionRepository) Create(ctx context.Context, rec *records.ProductionRecord) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO production_records (
			id, farm_id, animal_id, product_type, quantity, unit,
			produced_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		rec.ID, rec.FarmID, rec.AnimalID, rec.ProductType, rec.Quantity, rec.Unit,
		rec.ProducedAt, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert production record: %w", err)
	}
	return nil
}

// GetByID retrieves a production record within a farm
func (r *ProductionRepository) GetByID(ctx context.Context, farmID, id string) (*records.ProductionRecord, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+productionColumns+` FROM production_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanProductionRecord(row)
}

// List retrieves production records, optionally narrowed to one animal
func (r *ProductionRepository) List(ctx context.Context, farmID string, filter records.ListFilter) ([]*records.ProductionRecord, error) {
	query := `SELECT ` + productionColumns + ` FROM production_records WHERE farm_id = $1`
	args := []any{farmID}
	if filter.AnimalID != "" {
		query += ` AND animal_id = $2`
		args = append(args, filter.AnimalID)
	}
	query += ` ORDER BY produced_at DESC`

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list production records: %w", err)
	}
	defer rows.Close()

	var recs []*records.ProductionRecord
	for rows.Next() {
		rec, err := scanProductionRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ApplyPatch updates only the fields present in the patch
func (r *ProductionRepository) ApplyPatch(ctx context.Context, farmID, id string, patch records.ProductionPatch) (*records.ProductionRecord, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{farmID, id}
	n := 3

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}

	if patch.ProductType != nil {
		add("product_type", *patch.ProductType)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.Unit != nil {
		add("unit", *patch.Unit)
	}
	if patch.ProducedAt != nil {
		add("produced_at", *patch.ProducedAt)
	}

	query := fmt.Sprintf(
		`UPDATE production_records SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch production record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, records.ErrRecordNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes a production record
func (r *ProductionRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM production_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete production record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return records.ErrRecordNotFound
	}
	return nil
}
