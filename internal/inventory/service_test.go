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

package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct{ rows map[string]*Item }

func (m *memRepo) Create(ctx context.Context, item *Item) error {
	cp := *item
	m.rows[item.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, farmID, id string) (*Item, error) {
	r, ok := m.rows[id]
	if !ok || r.FarmID != farmID {
		return nil, ErrItemNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) ListByFarm(ctx context.Context, farmID string) ([]*Item, error) {
	var out []*Item
	for _, r := range m.rows {
		if r.FarmID == farmID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) ApplyPatch(ctx context.Context, farmID, id string, patch ItemPatch) (*Item, error) {
	r, ok := m.rows[id]
	if !ok || r.FarmID != farmID {
		return nil, ErrItemNotFound
	}
	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.Quantity != nil {
		r.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		r.Unit = *patch.Unit
	}
	if patch.MinStock != nil {
		r.MinStock = *patch.MinStock
	}
	if patch.Cost != nil {
		r.Cost = *patch.Cost
	}
	if patch.Location != nil {
		r.Location = *patch.Location
	}
	if patch.ExpiryDate != nil {
		r.ExpiryDate = patch.ExpiryDate
	}
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (m *memRepo) Delete(ctx context.Context, farmID, id string) error {
	r, ok := m.rows[id]
	if !ok || r.FarmID != farmID {
		return ErrItemNotFound
	}
	delete(m.rows, id)
	return nil
}

func newInventoryService() *Service {
	return NewService(&memRepo{rows: make(map[string]*Item)}, audit.NewSlogLogger())
}

// TestPurpose: Validates the inventory item lifecycle and the farm boundary on reads.
// Scope: Unit Test
// Security: Multi-tenant boundary enforcement
// Expected: Round-trip of created fields; foreign farm reads fail; delete removes the row.
// Test Case ID: INV-01
func TestInventory_Service_ItemLifecycle(t *testing.T) {
	s := newInventoryService()
	ctx := context.Background()

	item, err := s.AddItem(ctx, "farm-1", "user-1", &Item{
		Name:     "Alfalfa pellets",
		Category: CategoryFeed,
		Quantity: 120,
		Unit:     "kg",
		MinStock: 40,
		Location: "Barn 2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	got, err := s.GetItem(ctx, "farm-1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alfalfa pellets", got.Name)
	assert.Equal(t, 120.0, got.Quantity)

	_, err = s.GetItem(ctx, "farm-2", item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, s.DeleteItem(ctx, "farm-1", "user-1", item.ID))
	_, err = s.GetItem(ctx, "farm-1", item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

// TestPurpose: Validates the low-stock report includes exactly the items at or below their reorder threshold.
// Scope: Unit Test
// Expected: An item whose quantity is patched below min_stock appears in the report; well-stocked items do not.
// Test Case ID: INV-02
func TestInventory_Service_LowStockReport(t *testing.T) {
	s := newInventoryService()
	ctx := context.Background()

	full, err := s.AddItem(ctx, "farm-1", "user-1", &Item{
		Name: "Hay bales", Category: CategoryFeed, Quantity: 200, MinStock: 50,
	})
	require.NoError(t, err)

	meds, err := s.AddItem(ctx, "farm-1", "user-1", &Item{
		Name: "Ivermectin", Category: CategoryMedicine, Quantity: 3, MinStock: 5,
	})
	require.NoError(t, err)

	low, err := s.ListLowStock(ctx, "farm-1")
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, meds.ID, low[0].ID)

	// Draw down the hay below its threshold.
	qty := 45.0
	_, err = s.UpdateItem(ctx, "farm-1", "user-1", full.ID, ItemPatch{Quantity: &qty})
	require.NoError(t, err)

	low, err = s.ListLowStock(ctx, "farm-1")
	require.NoError(t, err)
	assert.Len(t, low, 2)
}

// TestPurpose: Validates rejection of nameless items and negative quantities.
// Scope: Unit Test
// Expected: ErrInvalidItem for all three invalid payloads.
// Test Case ID: INV-03
func TestInventory_Service_Validation(t *testing.T) {
	s := newInventoryService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "farm-1", "user-1", &Item{Category: CategoryFeed})
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = s.AddItem(ctx, "farm-1", "user-1", &Item{Name: "X", Category: CategoryFeed, Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidItem)

	item, err := s.AddItem(ctx, "farm-1", "user-1", &Item{Name: "X", Category: CategoryFeed, Quantity: 10})
	require.NoError(t, err)

	neg := -4.0
	_, err = s.UpdateItem(ctx, "farm-1", "user-1", item.ID, ItemPatch{Quantity: &neg})
	assert.ErrorIs(t, err, ErrInvalidItem)
}
