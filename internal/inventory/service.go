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
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/id"
)

// Service provides inventory business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new inventory service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// AddItem creates a new inventory item
func (s *Service) AddItem(ctx context.Context, farmID, actorID string, item *Item) (*Item, error) {
	if item.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if item.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidItem)
	}
	if item.Quantity < 0 || item.MinStock < 0 {
		return nil, fmt.Errorf("%w: quantities must be non-negative", ErrInvalidItem)
	}

	now := time.Now()
	item.ID = id.NewUUIDv7()
	item.FarmID = farmID
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordCreated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "inventory_item",
		Metadata: map[string]any{"item_id": item.ID, "name": item.Name},
	})

	return item, nil
}

// GetItem retrieves one item, farm-scoped
func (s *Service) GetItem(ctx context.Context, farmID, itemID string) (*Item, error) {
	return s.repo.GetByID(ctx, farmID, itemID)
}

// ListItems returns the farm's full inventory
func (s *Service) ListItems(ctx context.Context, farmID string) ([]*Item, error) {
	return s.repo.ListByFarm(ctx, farmID)
}

// ListLowStock returns the items at or below their reorder threshold
func (s *Service) ListLowStock(ctx context.Context, farmID string) ([]*Item, error) {
	items, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	var low []*Item
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// UpdateItem applies a sparse patch, last-write-wins
func (s *Service) UpdateItem(ctx context.Context, farmID, actorID, itemID string, patch ItemPatch) (*Item, error) {
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be non-negative", ErrInvalidItem)
	}

	item, err := s.repo.ApplyPatch(ctx, farmID, itemID, patch)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordUpdated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "inventory_item",
		Metadata: map[string]any{"item_id": itemID},
	})

	return item, nil
}

// DeleteItem removes an inventory item
func (s *Service) DeleteItem(ctx context.Context, farmID, actorID, itemID string) error {
	if err := s.repo.Delete(ctx, farmID, itemID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "inventory_item",
		Metadata: map[string]any{"item_id": itemID},
	})

	return nil
}
