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
	"testing"

	"github.com/herdbook/herdbook/internal/audit"
)

type mockFarmRepo struct {
	farms map[string]*Farm
}

func newMockFarmRepo() *mockFarmRepo {
	return &mockFarmRepo{farms: make(map[string]*Farm)}
}

func (m *mockFarmRepo) Create(ctx context.Context, f *Farm) error { m.farms[f.ID] = f; return nil }
func (m *mockFarmRepo) GetByID(ctx context.Context, id string) (*Farm, error) {
	f, ok := m.farms[id]
	if !ok {
		return nil, ErrFarmNotFound
	}
	return f, nil
}
func (m *mockFarmRepo) GetByName(ctx context.Context, name string) (*Farm, error) {
	for _, f := range m.farms {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, ErrFarmNotFound
}
func (m *mockFarmRepo) Update(ctx context.Context, f *Farm) error { m.farms[f.ID] = f; return nil }
func (m *mockFarmRepo) Delete(ctx context.Context, id string) error {
	delete(m.farms, id)
	return nil
}
func (m *mockFarmRepo) List(ctx context.Context, limit, offset int) ([]*Farm, error) {
	var out []*Farm
	for _, f := range m.farms {
		out = append(out, f)
	}
	return out, nil
}

// TestPurpose: Validates farm creation and lookup.
// Scope: Unit Test
// Expected: A created farm gets a fresh id, active status, and is retrievable; empty names are rejected.
// Test Case ID: FRM-01
func TestFarm_Service_Create(t *testing.T) {
	s := NewService(newMockFarmRepo(), audit.NewSlogLogger())
	ctx := context.Background()

	f, err := s.CreateFarm(ctx, "Green Pastures", "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if f.ID == "" {
		t.Error("expected generated id")
	}
	if f.Status != StatusActive {
		t.Errorf("expected active status, got %s", f.Status)
	}

	got, err := s.GetFarm(ctx, f.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Green Pastures" {
		t.Errorf("expected Green Pastures, got %s", got.Name)
	}

	if _, err := s.CreateFarm(ctx, "", "user-1"); err == nil {
		t.Error("expected error for empty name")
	}
}

// TestPurpose: Validates farm renaming.
// Scope: Unit Test
// Expected: Rename persists the new name and bumps updated_at; unknown farms fail.
// Test Case ID: FRM-02
func TestFarm_Service_Rename(t *testing.T) {
	s := NewService(newMockFarmRepo(), audit.NewSlogLogger())
	ctx := context.Background()

	f, err := s.CreateFarm(ctx, "Old Name", "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	renamed, err := s.RenameFarm(ctx, f.ID, "New Name")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if renamed.Name != "New Name" {
		t.Errorf("expected New Name, got %s", renamed.Name)
	}

	if _, err := s.RenameFarm(ctx, "missing", "Whatever"); err != ErrFarmNotFound {
		t.Errorf("expected ErrFarmNotFound, got %v", err)
	}
}
