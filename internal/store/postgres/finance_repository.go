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
	"time"

	"github.com/herdbook/herdbook/internal/finance"
	"github.com/jackc/pgx/v5"
)

// FinanceRepository implements finance.Repository
type FinanceRepository struct {
	db *DB
}

// NewFinanceRepository creates a new finance repository
func NewFinanceRepository(db *DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

const financeColumns = `id, farm_id, kind, category, amount, description,
	occurred_at, created_at, updated_at`

func scanFinanceEntry(row pgx.Row) (*finance.Entry, error) {
	var e finance.Entry
	err := row.Scan(
		&e.ID, &e.FarmID, &e.Kind, &e.Category, &e.Amount, &e.Description,
		&e.OccurredAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, finance.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get financial record: %w", err)
	}
	return &e, nil
}

// Create creates a new ledger entry
func (r *FinanceRepository) Create(ctx context.Context, e *finance.Entry) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO financial_records (
			id, farm_id, kind, category, amount, description,
			occurred_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		e.ID, e.FarmID, e.Kind, e.Category, e.Amount, e.Description,
		e.OccurredAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert financial record: %w", err)
	}
	return nil
}

// GetByID retrieves a ledger entry within a farm
func (r *FinanceRepository) GetByID(ctx context.Context, farmID, id string) (*finance.Entry, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+financeColumns+` FROM financial_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanFinanceEntry(row)
}

// ListByFarm retrieves the farm's ledger
func (r *FinanceRepository) ListByFarm(ctx context.Context, farmID string) ([]*finance.Entry, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT `+financeColumns+` FROM financial_records WHERE farm_id = $1 ORDER BY occurred_at DESC`, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list financial records: %w", err)
	}
	defer rows.Close()

	var entries []*finance.Entry
	for rows.Next() {
		e, err := scanFinanceEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ApplyPatch updates only the fields present in the patch
func (r *FinanceRepository) ApplyPatch(ctx context.Context, farmID, id string, patch finance.EntryPatch) (*finance.Entry, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{farmID, id}
	n := 3

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}

	if patch.Kind != nil {
		add("kind", *patch.Kind)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.OccurredAt != nil {
		add("occurred_at", *patch.OccurredAt)
	}

	query := fmt.Sprintf(
		`UPDATE financial_records SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch financial record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, finance.ErrEntryNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes a ledger entry
func (r *FinanceRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM financial_records WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete financial record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return finance.ErrEntryNotFound
	}
	return nil
}

// Summarize aggregates income and expense over [from, to)
func (r *FinanceRepository) Summarize(ctx context.Context, farmID string, from, to time.Time) (*finance.Summary, error) {
	var sum finance.Summary
	err := r.db.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0)
		FROM financial_records
		WHERE farm_id = $1 AND occurred_at >= $2 AND occurred_at < $3
	`, farmID, from, to).Scan(&sum.TotalIncome, &sum.TotalExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ledger: %w", err)
	}
	sum.Net = sum.TotalIncome - sum.TotalExpense
	return &sum, nil
}
