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

// Package staff keeps the farm's personnel roster. A staff member is
// a directory entry, not a login: accounts live in the identity
// package and may or may not be linked to a roster entry.
package staff

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrMemberNotFound    = errors.New("staff member not found")
	ErrInvalidMember     = errors.New("invalid staff member")
	ErrInvalidPermission = errors.New("invalid permission")
)

// Permissions grantable to a staff member
const (
	PermManageAnimals   = "manage_animals"
	PermManageRecords   = "manage_records"
	PermManageInventory = "manage_inventory"
	PermManageTasks     = "manage_tasks"
	PermManageFinance   = "manage_finance"
	PermManageStaff     = "manage_staff"
)

// ValidPermission reports whether p is one of the defined permissions
func ValidPermission(p string) bool {
	switch p {
	case PermManageAnimals, PermManageRecords, PermManageInventory,
		PermManageTasks, PermManageFinance, PermManageStaff:
		return true
	}
	return false
}

// Member is one roster entry. Permissions is a set; duplicates are
// collapsed on write.
type Member struct {
	ID          string     `json:"id"`
	FarmID      string     `json:"farm_id"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	Permissions []string   `json:"permissions"`
	HiredAt     *time.Time `json:"hired_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasPermission reports whether the member holds the permission
func (m *Member) HasPermission(perm string) bool {
	for _, p := range m.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// MemberPatch is a sparse change-set; nil fields are left untouched.
// Permissions, when present, replaces the whole set.
type MemberPatch struct {
	Name        *string    `json:"name,omitempty"`
	Role        *string    `json:"role,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Permissions *[]string  `json:"permissions,omitempty"`
	HiredAt     *time.Time `json:"hired_at,omitempty"`
}

// Repository defines the interface for staff persistence. Every method
// is farm-scoped.
type Repository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, farmID, id string) (*Member, error)
	ListByFarm(ctx context.Context, farmID string) ([]*Member, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch MemberPatch) (*Member, error)
	Delete(ctx context.Context, farmID, id string) error
}
