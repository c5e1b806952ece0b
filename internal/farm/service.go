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

package farm

import (
	"context"
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/id"
)

// Service provides farm management business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new farm service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// CreateFarm creates a new farm with a freshly generated id
func (s *Service) CreateFarm(ctx context.Context, name, createdBy string) (*Farm, error) {
	if name == "" {
		return nil, fmt.Errorf("farm name is required")
	}

	now := time.Now()
	f := &Farm{
		ID:        id.NewUUIDv7(),
		Name:      name,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create farm: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeFarmCreated,
		FarmID:   f.ID,
		ActorID:  createdBy,
		Resource: "farm",
		Metadata: map[string]any{"name": name},
	})

	return f, nil
}

// GetFarm retrieves a farm by ID
func (s *Service) GetFarm(ctx context.Context, id string) (*Farm, error) {
	if id == "" {
		return nil, fmt.Errorf("farm id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// RenameFarm updates the farm name
func (s *Service) RenameFarm(ctx context.Context, farmID, name string) (*Farm, error) {
	if name == "" {
		return nil, fmt.Errorf("farm name is required")
	}

	f, err := s.repo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}

	f.Name = name
	f.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to update farm: %w", err)
	}

	return f, nil
}
