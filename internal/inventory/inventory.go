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

// Package inventory tracks farm supplies: feed, medicine, equipment.
package inventory

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrItemNotFound = errors.New("inventory item not found")
	ErrInvalidItem  = errors.New("invalid inventory item")
)

// Item categories
const (
	CategoryFeed      = "feed"
	CategoryMedicine  = "medicine"
	CategoryEquipment = "equipment"
	CategorySupplies  = "supplies"
)

// Item is one stocked article. MinStock is the reorder threshold used
// by the low-stock report.
type Item struct {
	ID         string     `json:"id"`
	FarmID     string     `json:"farm_id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit,omitempty"`
	MinStock   float64    `json:"min_stock"`
	Cost       float64    `json:"cost,omitempty"`
	Location   string     `json:"location,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsLowStock reports whether the item has fallen to or below its
// reorder threshold.
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}

// ItemPatch is a sparse change-set; nil fields are left untouched
type ItemPatch struct {
	Name       *string    `json:"name,omitempty"`
	Category   *string    `json:"category,omitempty"`
	Quantity   *float64   `json:"quantity,omitempty"`
	Unit       *string    `json:"unit,omitempty"`
	MinStock   *float64   `json:"min_stock,omitempty"`
	Cost       *float64   `json:"cost,omitempty"`
	Location   *string    `json:"location,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// Repository defines the interface for inventory persistence. Every
// method is farm-scoped.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, farmID, id string) (*Item, error)
	ListByFarm(ctx context.Context, farmID string) ([]*Item, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch ItemPatch) (*Item, error)
	Delete(ctx context.Context, farmID, id string) error
}
