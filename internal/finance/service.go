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
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/id"
)

// Service provides ledger business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new finance service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// RecordEntry appends a ledger line
func (s *Service) RecordEntry(ctx context.Context, farmID, actorID string, entry *Entry) (*Entry, error) {
	if entry.Kind != KindIncome && entry.Kind != KindExpense {
		return nil, fmt.Errorf("%w: kind must be income or expense", ErrInvalidEntry)
	}
	if entry.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidEntry)
	}
	if entry.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidEntry)
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}

	now := time.Now()
	entry.ID = id.NewUUIDv7()
	entry.FarmID = farmID
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create financial record: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordCreated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "financial_record",
		Metadata: map[string]any{"entry_id": entry.ID, "kind": entry.Kind},
	})

	return entry, nil
}

// GetEntry retrieves one ledger line, farm-scoped
func (s *Service) GetEntry(ctx context.Context, farmID, entryID string) (*Entry, error) {
	return s.repo.GetByID(ctx, farmID, entryID)
}

// ListEntries returns the farm's ledger
func (s *Service) ListEntries(ctx context.Context, farmID string) ([]*Entry, error) {
	return s.repo.ListByFarm(ctx, farmID)
}

// UpdateEntry applies a sparse patch, last-write-wins
func (s *Service) UpdateEntry(ctx context.Context, farmID, actorID, entryID string, patch EntryPatch) (*Entry, error) {
	if patch.Kind != nil && *patch.Kind != KindIncome && *patch.Kind != KindExpense {
		return nil, fmt.Errorf("%w: kind must be income or expense", ErrInvalidEntry)
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidEntry)
	}

	entry, err := s.repo.ApplyPatch(ctx, farmID, entryID, patch)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordUpdated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "financial_record",
		Metadata: map[string]any{"entry_id": entryID},
	})

	return entry, nil
}

// DeleteEntry removes a ledger line
func (s *Service) DeleteEntry(ctx context.Context, farmID, actorID, entryID string) error {
	if err := s.repo.Delete(ctx, farmID, entryID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "financial_record",
		Metadata: map[string]any{"entry_id": entryID},
	})

	return nil
}

// Summarize aggregates the farm's ledger over [from, to)
func (s *Service) Summarize(ctx context.Context, farmID string, from, to time.Time) (*Summary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end before start", ErrInvalidEntry)
	}
	return s.repo.Summarize(ctx, farmID, from, to)
}
