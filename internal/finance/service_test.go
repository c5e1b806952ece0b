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

package finance

import (
	"context"
	"testing"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct{ rows map[string]*Entry }

func (m *memRepo) Create(ctx context.Context, entry *Entry) error {
	cp := *entry
	m.rows[entry.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, farmID, id string) (*Entry, error) {
	r, ok := m.rows[id]
	if !ok || r.FarmID != farmID {
		return nil, ErrEntryNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) ListByFarm(ctx context.Context, farmID string) ([]*Entry, error) {
	var out []*Entry
	for _, r := range m.rows {
		if r.FarmID == farmID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) ApplyPatch(ctx context.Context, farmID, id string, patch EntryPatch) (*Entry, error) {
	r, ok := m.rows[id]
	if !ok || r.FarmID != farmID {
		return nil, ErrEntryNotFound
	}
	if patch.Kind != nil {
		r.Kind = *patch.Kind
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.Amount != nil {
		r.Amount = *patch.Amount
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.OccurredAt != nil {
		r.OccurredAt = *patch.OccurredAt
	}
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (m *memRepo) Delete(ctx context.Context, farmID, id string) error {
	r, ok := m.rows[id]
	if !ok || r.FarmID != farmID {
		return ErrEntryNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) Summarize(ctx context.Context, farmID string, from, to time.Time) (*Summary, error) {
	sum := &Summary{}
	for _, r := range m.rows {
		if r.FarmID != farmID {
			continue
		}
		if r.OccurredAt.Before(from) || !r.OccurredAt.Before(to) {
			continue
		}
		switch r.Kind {
		case KindIncome:
			sum.TotalIncome += r.Amount
		case KindExpense:
			sum.TotalExpense += r.Amount
		}
	}
	sum.Net = sum.TotalIncome - sum.TotalExpense
	return sum, nil
}

func newFinanceService() *Service {
	return NewService(&memRepo{rows: make(map[string]*Entry)}, audit.NewSlogLogger())
}

// TestPurpose: Validates ledger entry creation rejects unknown kinds, non-positive amounts and missing categories.
// Scope: Unit Test
// Expected: ErrInvalidEntry for each invalid payload; valid entries get a minted id and a default date.
// Test Case ID: FIN-01
func TestFinance_Service_RecordEntry_Validation(t *testing.T) {
	s := newFinanceService()
	ctx := context.Background()

	_, err := s.RecordEntry(ctx, "farm-1", "user-1", &Entry{Kind: "transfer", Category: "misc", Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = s.RecordEntry(ctx, "farm-1", "user-1", &Entry{Kind: KindExpense, Category: "feed", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = s.RecordEntry(ctx, "farm-1", "user-1", &Entry{Kind: KindIncome, Amount: 10})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	entry, err := s.RecordEntry(ctx, "farm-1", "user-1", &Entry{
		Kind: KindIncome, Category: "milk_sales", Amount: 1250.40,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.OccurredAt.IsZero())
}

// TestPurpose: Validates the period summary aggregates income and expense per farm over [from, to).
// Scope: Unit Test
// Security: Multi-tenant boundary enforcement
// Expected: Net equals income minus expense; entries outside the period and foreign farms are excluded.
// Test Case ID: FIN-02
func TestFinance_Service_Summarize(t *testing.T) {
	s := newFinanceService()
	ctx := context.Background()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	_, err := s.RecordEntry(ctx, "farm-1", "user-1", &Entry{
		Kind: KindIncome, Category: "milk_sales", Amount: 2000, OccurredAt: jan,
	})
	require.NoError(t, err)
	_, err = s.RecordEntry(ctx, "farm-1", "user-1", &Entry{
		Kind: KindExpense, Category: "feed", Amount: 750, OccurredAt: jan,
	})
	require.NoError(t, err)
	_, err = s.RecordEntry(ctx, "farm-1", "user-1", &Entry{
		Kind: KindIncome, Category: "livestock_sales", Amount: 5000, OccurredAt: feb,
	})
	require.NoError(t, err)
	_, err = s.RecordEntry(ctx, "farm-2", "user-2", &Entry{
		Kind: KindIncome, Category: "milk_sales", Amount: 9999, OccurredAt: jan,
	})
	require.NoError(t, err)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	sum, err := s.Summarize(ctx, "farm-1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, sum.TotalIncome)
	assert.Equal(t, 750.0, sum.TotalExpense)
	assert.Equal(t, 1250.0, sum.Net)

	_, err = s.Summarize(ctx, "farm-1", to, from)
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

// TestPurpose: Validates sparse ledger patches resolve last-write-wins and keep untouched fields.
// Scope: Unit Test
// Expected: Amount reflects the last write; category survives.
// Test Case ID: FIN-03
func TestFinance_Service_UpdateEntry(t *testing.T) {
	s := newFinanceService()
	ctx := context.Background()

	entry, err := s.RecordEntry(ctx, "farm-1", "user-1", &Entry{
		Kind: KindExpense, Category: "veterinary", Amount: 300,
	})
	require.NoError(t, err)

	a1, a2 := 320.0, 335.5
	_, err = s.UpdateEntry(ctx, "farm-1", "user-1", entry.ID, EntryPatch{Amount: &a1})
	require.NoError(t, err)
	updated, err := s.UpdateEntry(ctx, "farm-1", "user-2", entry.ID, EntryPatch{Amount: &a2})
	require.NoError(t, err)

	assert.Equal(t, 335.5, updated.Amount)
	assert.Equal(t, "veterinary", updated.Category)

	bad := -5.0
	_, err = s.UpdateEntry(ctx, "farm-1", "user-1", entry.ID, EntryPatch{Amount: &bad})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}
