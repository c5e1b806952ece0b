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

// Package finance is the farm's ledger of income and expense entries.
package finance

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrEntryNotFound = errors.New("financial record not found")
	ErrInvalidEntry  = errors.New("invalid financial record")
)

// Entry kinds
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Entry is one ledger line. Amount is always positive; Kind carries
// the sign.
type Entry struct {
	ID          string    `json:"id"`
	FarmID      string    `json:"farm_id"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntryPatch is a sparse change-set; nil fields are left untouched
type EntryPatch struct {
	Kind        *string    `json:"kind,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Amount      *float64   `json:"amount,omitempty"`
	Description *string    `json:"description,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// Summary aggregates a farm's ledger over a period
type Summary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
}

// Repository defines the interface for ledger persistence. Every
// method is farm-scoped.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, farmID, id string) (*Entry, error)
	ListByFarm(ctx context.Context, farmID string) ([]*Entry, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch EntryPatch) (*Entry, error)
	Delete(ctx context.Context, farmID, id string) error
	Summarize(ctx context.Context, farmID string, from, to time.Time) (*Summary, error)
}
