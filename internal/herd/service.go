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

package herd

import (
	"context"
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/id"
)

// Service provides herd management business logic. The farm id always
// comes from the authenticated session, never from the request payload.
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new herd service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// RegisterAnimal adds a new animal to the farm's herd register.
// Status and health score default when not supplied.
func (s *Service) RegisterAnimal(ctx context.Context, farmID, actorID string, animal *Animal) (*Animal, error) {
	if farmID == "" {
		return nil, fmt.Errorf("farm id is required")
	}
	if animal.Name == "" {
		return nil, fmt.Errorf("animal name is required")
	}
	if animal.Species == "" {
		return nil, fmt.Errorf("animal species is required")
	}
	if animal.Gender != "" && animal.Gender != GenderFemale && animal.Gender != GenderMale {
		return nil, ErrInvalidGender
	}
	if animal.Status == "" {
		animal.Status = DefaultStatus
	}
	if !ValidStatus(animal.Status) {
		return nil, ErrInvalidStatus
	}
	if animal.HealthScore == 0 {
		animal.HealthScore = DefaultHealthScore
	}

	now := time.Now()
	animal.ID = id.NewUUIDv7()
	animal.FarmID = farmID
	animal.CreatedAt = now
	animal.UpdatedAt = now

	if err := s.repo.Create(ctx, animal); err != nil {
		return nil, fmt.Errorf("failed to register animal: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordCreated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "animal",
		Metadata: map[string]any{"animal_id": animal.ID, "name": animal.Name},
	})

	return animal, nil
}

// GetAnimal retrieves one animal, farm-scoped
func (s *Service) GetAnimal(ctx context.Context, farmID, animalID string) (*Animal, error) {
	return s.repo.GetByID(ctx, farmID, animalID)
}

// ListAnimals returns every animal belonging to the farm
func (s *Service) ListAnimals(ctx context.Context, farmID string) ([]*Animal, error) {
	if farmID == "" {
		return nil, fmt.Errorf("farm id is required")
	}
	return s.repo.ListByFarm(ctx, farmID)
}

// UpdateAnimal applies a sparse patch. Only the supplied fields change;
// concurrent updates resolve last-write-wins.
func (s *Service) UpdateAnimal(ctx context.Context, farmID, actorID, animalID string, patch AnimalPatch) (*Animal, error) {
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return nil, ErrInvalidStatus
	}
	if patch.Gender != nil && *patch.Gender != GenderFemale && *patch.Gender != GenderMale {
		return nil, ErrInvalidGender
	}

	animal, err := s.repo.ApplyPatch(ctx, farmID, animalID, patch)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordUpdated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "animal",
		Metadata: map[string]any{"animal_id": animalID},
	})

	return animal, nil
}

// DeleteAnimal removes an animal from the register. Parent links on
// offspring are left dangling; they are weak references.
func (s *Service) DeleteAnimal(ctx context.Context, farmID, actorID, animalID string) error {
	if err := s.repo.Delete(ctx, farmID, animalID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "animal",
		Metadata: map[string]any{"animal_id": animalID},
	})

	return nil
}

// RecordMeasurement appends a measurement to an animal's history
func (s *Service) RecordMeasurement(ctx context.Context, farmID, animalID string, m *Measurement) (*Measurement, error) {
	// Verify the animal exists within this farm before writing.
	if _, err := s.repo.GetByID(ctx, farmID, animalID); err != nil {
		return nil, err
	}

	if m.Type == "" {
		return nil, fmt.Errorf("measurement type is required")
	}
	if m.MeasuredAt.IsZero() {
		m.MeasuredAt = time.Now()
	}
	m.ID = id.NewUUIDv7()
	m.AnimalID = animalID
	m.CreatedAt = time.Now()

	if err := s.repo.AddMeasurement(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to record measurement: %w", err)
	}

	return m, nil
}

// ListMeasurements returns an animal's measurement history
func (s *Service) ListMeasurements(ctx context.Context, farmID, animalID string) ([]*Measurement, error) {
	if _, err := s.repo.GetByID(ctx, farmID, animalID); err != nil {
		return nil, err
	}
	return s.repo.ListMeasurements(ctx, farmID, animalID)
}

// GetLineage resolves an animal's parent links. Dangling or absent
// links yield nil parents, not errors.
func (s *Service) GetLineage(ctx context.Context, farmID, animalID string) (*Lineage, error) {
	animal, err := s.repo.GetByID(ctx, farmID, animalID)
	if err != nil {
		return nil, err
	}

	lineage := &Lineage{Animal: animal}
	if animal.MotherID != "" {
		if mother, err := s.repo.GetByID(ctx, farmID, animal.MotherID); err == nil {
			lineage.Mother = mother
		}
	}
	if animal.FatherID != "" {
		if father, err := s.repo.GetByID(ctx, farmID, animal.FatherID); err == nil {
			lineage.Father = father
		}
	}

	return lineage, nil
}
