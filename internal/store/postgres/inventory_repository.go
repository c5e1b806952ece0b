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

	"github.com/herdbook/herdbook/internal/inventory"
	"github.com/jackc/pgx/v5"
)

// InventoryRepository implements inventory.Repository
type InventoryRepository struct {
	db *DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `id, farm_id, name, category, quantity, unit, min_stock,
	cost, location, expiry_date, created_at, updated_at`

func scanInventoryItem(row pgx.Row) (*inventory.Item, error) {
	var item inventory.Item
	var expiry sql.NullTime

	err := row.Scan(
		&item.ID, &item.FarmID, &item.Name, &item.Category, &item.Quantity, &item.Unit, &item.MinStock,
		&item.Cost, &item.Location, &expiry, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, inventory.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	if expiry.Valid {
		item.ExpiryDate = &expiry.Time
	}
	return &item, nil
}

// Create creates a new inventory item
func (r *InventoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO inventory_items (
			id, farm_id, name, category, quantity, unit, min_stock,
			cost, location, expiry_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		item.ID, item.FarmID, item.Name, item.Category, item.Quantity, item.Unit, item.MinStock,
		item.Cost, item.Location, item.ExpiryDate, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

// GetByID retrieves an inventory item within a farm
func (r *InventoryRepository) GetByID(ctx context.Context, farmID, id string) (*inventory.Item, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanInventoryItem(row)
}

// ListByFarm retrieves the farm's full inventory
func (r *InventoryRepository) ListByFarm(ctx context.Context, farmID string) ([]*inventory.Item, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE farm_id = $1 ORDER BY name`, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer rows.Close()

	var items []*inventory.Item
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ApplyPatch updates only the fields present in the patch
func (r *InventoryRepository) ApplyPatch(ctx context.Context, farmID, id string, patch inventory.ItemPatch) (*inventory.Item, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{farmID, id}
	n := 3

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if patch.Unit != nil {
		add("unit", *patch.Unit)
	}
	if patch.MinStock != nil {
		add("min_stock", *patch.MinStock)
	}
	if patch.Cost != nil {
		add("cost", *patch.Cost)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.ExpiryDate != nil {
		add("expiry_date", *patch.ExpiryDate)
	}

	query := fmt.Sprintf(
		`UPDATE inventory_items SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch inventory item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, inventory.ErrItemNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes an inventory item
func (r *InventoryRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM inventory_items WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return inventory.ErrItemNotFound
	}
	return nil
}
