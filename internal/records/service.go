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

package records

import (
	"context"
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/id"
)

// Service provides record-keeping business logic across the four
// record families. The farm id always comes from the authenticated
// session.
type Service struct {
	health      HealthRepository
	feeding     FeedingRepository
	breeding    BreedingRepository
	production  ProductionRepository
	auditLogger audit.Logger
}

// NewService creates a new records service
func NewService(health HealthRepository, feeding FeedingRepository, breeding BreedingRepository, production ProductionRepository, auditLogger audit.Logger) *Service {
	return &Service{
		health:      health,
		feeding:     feeding,
		breeding:    breeding,
		production:  production,
		auditLogger: auditLogger,
	}
}

func (s *Service) logEvent(ctx context.Context, eventType, farmID, actorID, resource, recordID string) {
	s.auditLogger.Log(ctx, audit.Event{
		Type:     eventType,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: resource,
		Metadata: map[string]any{"record_id": recordID},
	})
}

// AddHealthRecord creates a health record for an animal
func (s *Service) AddHealthRecord(ctx context.Context, farmID, actorID string, rec *HealthRecord) (*HealthRecord, error) {
	if rec.AnimalID == "" {
		return nil, fmt.Errorf("%w: animal id is required", ErrInvalidRecord)
	}
	if rec.Type == "" {
		return nil, fmt.Errorf("%w: health record type is required", ErrInvalidRecord)
	}
	if rec.Status == "" {
		rec.Status = HealthStatusCompleted
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now()
	}

	now := time.Now()
	rec.ID = id.NewUUIDv7()
	rec.FarmID = farmID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.health.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create health record: %w", err)
	}
	s.logEvent(ctx, audit.TypeRecordCreated, farmID, actorID, "health_record", rec.ID)
	return rec, nil
}

// GetHealthRecord retrieves one health record, farm-scoped
func (s *Service) GetHealthRecord(ctx context.Context, farmID, recordID string) (*HealthRecord, error) {
	return s.health.GetByID(ctx, farmID, recordID)
}

// ListHealthRecords lists health records, optionally for one animal
func (s *Service) ListHealthRecords(ctx context.Context, farmID string, filter ListFilter) ([]*HealthRecord, error) {
	return s.health.List(ctx, farmID, filter)
}

// UpdateHealthRecord applies a sparse patch, last-write-wins
func (s *Service) UpdateHealthRecord(ctx context.Context, farmID, actorID, recordID string, patch HealthPatch) (*HealthRecord, error) {
	rec, err := s.health.ApplyPatch(ctx, farmID, recordID, patch)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, audit.TypeRecordUpdated, farmID, actorID, "health_record", recordID)
	return rec, nil
}

// DeleteHealthRecord removes a health record
func (s *Service) DeleteHealthRecord(ctx context.Context, farmID, actorID, recordID string) error {
	if err := s.health.Delete(ctx, farmID, recordID); err != nil {
		return err
	}
	s.logEvent(ctx, audit.TypeRecordDeleted, farmID, actorID, "health_record", recordID)
	return nil
}

// AddFeedingRecord creates a feeding record for an animal
func (s *Service) AddFeedingRecord(ctx context.Context, farmID, actorID string, rec *FeedingRecord) (*FeedingRecord, error) {
	if rec.AnimalID == "" {
		return nil, fmt.Errorf("%w: animal id is required", ErrInvalidRecord)
	}
	if rec.FeedType == "" {
		return nil, fmt.Errorf("%w: feed type is required", ErrInvalidRecord)
	}
	if rec.FedAt.IsZero() {
		rec.FedAt = time.Now()
	}

	now := time.Now()
	rec.ID = id.NewUUIDv7()
	rec.FarmID = farmID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.feeding.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create feeding record: %w", err)
	}
	s.logEvent(ctx, audit.TypeRecordCreated, farmID, actorID, "feeding_record", rec.ID)
	return rec, nil
}

// GetFeedingRecord retrieves one feeding record, farm-scoped
func (s *Service) GetFeedingRecord(ctx context.Context, farmID, recordID string) (*FeedingRecord, error) {
	return s.feeding.GetByID(ctx, farmID, recordID)
}

// ListFeedingRecords lists feeding records, optionally for one animal
func (s *Service) ListFeedingRecords(ctx context.Context, farmID string, filter ListFilter) ([]*FeedingRecord, error) {
	return s.feeding.List(ctx, farmID, filter)
}

// UpdateFeedingRecord applies a sparse patch, last-write-wins
func (s *Service) UpdateFeedingRecord(ctx context.Context, farmID, actorID, recordID string, patch FeedingPatch) (*FeedingRecord, error) {
	rec, err := s.feeding.ApplyPatch(ctx, farmID, recordID, patch)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, audit.TypeRecordUpdated, farmID, actorID, "feeding_record", recordID)
	return rec, nil
}

// DeleteFeedingRecord removes a feeding record
func (s *Service) DeleteFeedingRecord(ctx context.Context, farmID, actorID, recordID string) error {
	if err := s.feeding.Delete(ctx, farmID, recordID); err != nil {
		return err
	}
	s.logEvent(ctx, audit.TypeRecordDeleted, farmID, actorID, "feeding_record", recordID)
	return nil
}

// AddBreedingRecord creates a breeding record. Parent ids are not
// checked against the herd register; they are weak references.
func (s *Service) AddBreedingRecord(ctx context.Context, farmID, actorID string, rec *BreedingRecord) (*BreedingRecord, error) {
	if rec.MotherID == "" || rec.FatherID == "" {
		return nil, fmt.Errorf("%w: mother and father ids are required", ErrInvalidRecord)
	}
	if rec.BreedingDate.IsZero() {
		rec.BreedingDate = time.Now()
	}

	now := time.Now()
	rec.ID = id.NewUUIDv7()
	rec.FarmID = farmID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.breeding.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create breeding record: %w", err)
	}
	s.logEvent(ctx, audit.TypeRecordCreated, farmID, actorID, "breeding_record", rec.ID)
	return rec, nil
}

// GetBreedingRecord retrieves one breeding record, farm-scoped
func (s *Service) GetBreedingRecord(ctx context.Context, farmID, recordID string) (*BreedingRecord, error) {
	return s.breeding.GetByID(ctx, farmID, recordID)
}

// ListBreedingRecords lists the farm's breeding records
func (s *Service) ListBreedingRecords(ctx context.Context, farmID string) ([]*BreedingRecord, error) {
	return s.breeding.List(ctx, farmID)
}

// UpdateBreedingRecord applies a sparse patch, last-write-wins
func (s *Service) UpdateBreedingRecord(ctx context.Context, farmID, actorID, recordID string, patch BreedingPatch) (*BreedingRecord, error) {
	rec, err := s.breeding.ApplyPatch(ctx, farmID, recordID, patch)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, audit.TypeRecordUpdated, farmID, actorID, "breeding_record", recordID)
	return rec, nil
}

// DeleteBreedingRecord removes a breeding record
func (s *Service) DeleteBreedingRecord(ctx context.Context, farmID, actorID, recordID string) error {
	if err := s.breeding.Delete(ctx, farmID, recordID); err != nil {
		return err
	}
	s.logEvent(ctx, audit.TypeRecordDeleted, farmID, actorID, "breeding_record", recordID)
	return nil
}

// AddProductionRecord creates a production record
func (s *Service) AddProductionRecord(ctx context.Context, farmID, actorID string, rec *ProductionRecord) (*ProductionRecord, error) {
	if rec.AnimalID == "" {
		return nil, fmt.Errorf("%w: animal id is required", ErrInvalidRecord)
	}
	if rec.ProductType == "" {
		return nil, fmt.Errorf("%w: product type is required", ErrInvalidRecord)
	}
	if rec.ProducedAt.IsZero() {
		rec.ProducedAt = time.Now()
	}

	now := time.Now()
	rec.ID = id.NewUUIDv7()
	rec.FarmID = farmID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.production.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create production record: %w", err)
	}
	s.logEvent(ctx, audit.TypeRecordCreated, farmID, actorID, "production_record", rec.ID)
	return rec, nil
}

// GetProductionRecord retrieves one production record, farm-scoped
func (s *Service) GetProductionRecord(ctx context.Context, farmID, recordID string) (*ProductionRecord, error) {
	return s.production.GetByID(ctx, farmID, recordID)
}

// ListProductionRecords lists production records, optionally for one animal
func (s *Service) ListProductionRecords(ctx context.Context, farmID string, filter ListFilter) ([]*ProductionRecord, error) {
	return s.production.List(ctx, farmID, filter)
}

// UpdateProductionRecord applies a sparse patch, last-write-wins
func (s *Service) UpdateProductionRecord(ctx context.Context, farmID, actorID, recordID string, patch ProductionPatch) (*ProductionRecord, error) {
	rec, err := s.production.ApplyPatch(ctx, farmID, recordID, patch)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, audit.TypeRecordUpdated, farmID, actorID, "production_record", recordID)
	return rec, nil
}

// DeleteProductionRecord removes a production record
func (s *Service) DeleteProductionRecord(ctx context.Context, farmID, actorID, recordID string) error {
	if err := s.production.Delete(ctx, farmID, recordID); err != nil {
		return err
	}
	s.logEvent(ctx, audit.TypeRecordDeleted, farmID, actorID, "production_record", recordID)
	return nil
}
