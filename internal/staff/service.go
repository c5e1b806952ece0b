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

package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/id"
)

// Service provides staff roster business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new staff service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// normalizePermissions validates and deduplicates a permission set
func normalizePermissions(perms []string) ([]string, error) {
	seen := make(map[string]bool, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if !ValidPermission(p) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPermission, p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// AddMember adds a staff member to the roster
func (s *Service) AddMember(ctx context.Context, farmID, actorID string, member *Member) (*Member, error) {
	if member.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidMember)
	}
	if member.Role == "" {
		return nil, fmt.Errorf("%w: role is required", ErrInvalidMember)
	}
	perms, err := normalizePermissions(member.Permissions)
	if err != nil {
		return nil, err
	}
	member.Permissions = perms

	now := time.Now()
	member.ID = id.NewUUIDv7()
	member.FarmID = farmID
	member.CreatedAt = now
	member.UpdatedAt = now

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordCreated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "staff_member",
		Metadata: map[string]any{"member_id": member.ID, "name": member.Name},
	})

	return member, nil
}

// GetMember retrieves one roster entry, farm-scoped
func (s *Service) GetMember(ctx context.Context, farmID, memberID string) (*Member, error) {
	return s.repo.GetByID(ctx, farmID, memberID)
}

// ListMembers returns the farm's roster
func (s *Service) ListMembers(ctx context.Context, farmID string) ([]*Member, error) {
	return s.repo.ListByFarm(ctx, farmID)
}

// UpdateMember applies a sparse patch. A permissions patch replaces
// the whole set after validation.
func (s *Service) UpdateMember(ctx context.Context, farmID, actorID, memberID string, patch MemberPatch) (*Member, error) {
	if patch.Permissions != nil {
		perms, err := normalizePermissions(*patch.Permissions)
		if err != nil {
			return nil, err
		}
		patch.Permissions = &perms
	}

	member, err := s.repo.ApplyPatch(ctx, farmID, memberID, patch)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordUpdated,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "staff_member",
		Metadata: map[string]any{"member_id": memberID},
	})

	return member, nil
}

// RemoveMember removes a roster entry
func (s *Service) RemoveMember(ctx context.Context, farmID, actorID, memberID string) error {
	if err := s.repo.Delete(ctx, farmID, memberID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeRecordDeleted,
		FarmID:   farmID,
		ActorID:  actorID,
		Resource: "staff_member",
		Metadata: map[string]any{"member_id": memberID},
	})

	return nil
}
