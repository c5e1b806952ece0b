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
	"testing"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockAnimalRepository is a simple in-memory implementation of Repository
type MockAnimalRepository struct {
	animals      map[string]*Animal
	measurements map[string][]*Measurement
}

func NewMockAnimalRepository() *MockAnimalRepository {
	return &MockAnimalRepository{
		animals:      make(map[string]*Animal),
		measurements: make(map[string][]*Measurement),
	}
}

func (m *MockAnimalRepository) Create(ctx context.Context, animal *Animal) error {
	cp := *animal
	m.animals[animal.ID] = &cp
	return nil
}

func (m *MockAnimalRepository) GetByID(ctx context.Context, farmID, id string) (*Animal, error) {
	a, ok := m.animals[id]
	if !ok || a.FarmID != farmID {
		return nil, ErrAnimalNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAnimalRepository) ListByFarm(ctx context.Context, farmID string) ([]*Animal, error) {
	var out []*Animal
	for _, a := range m.animals {
		if a.FarmID == farmID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockAnimalRepository) ApplyPatch(ctx context.Context, farmID, id string, patch AnimalPatch) (*Animal, error) {
	a, ok := m.animals[id]
	if !ok || a.FarmID != farmID {
		return nil, ErrAnimalNotFound
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Species != nil {
		a.Species = *patch.Species
	}
	if patch.Breed != nil {
		a.Breed = *patch.Breed
	}
	if patch.Gender != nil {
		a.Gender = *patch.Gender
	}
	if patch.BirthDate != nil {
		a.BirthDate = patch.BirthDate
	}
	if patch.Weight != nil {
		a.Weight = *patch.Weight
	}
	if patch.Location != nil {
		a.Location = *patch.Location
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.HealthScore != nil {
		a.HealthScore = *patch.HealthScore
	}
	if patch.MotherID != nil {
		a.MotherID = *patch.MotherID
	}
	if patch.FatherID != nil {
		a.FatherID = *patch.FatherID
	}
	if patch.Tags != nil {
		a.Tags = *patch.Tags
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (m *MockAnimalRepository) Delete(ctx context.Context, farmID, id string) error {
	a, ok := m.animals[id]
	if !ok || a.FarmID != farmID {
		return ErrAnimalNotFound
	}
	delete(m.animals, id)
	return nil
}

func (m *MockAnimalRepository) AddMeasurement(ctx context.Context, mm *Measurement) error {
	cp := *mm
	m.measurements[mm.AnimalID] = append(m.measurements[mm.AnimalID], &cp)
	return nil
}

func (m *MockAnimalRepository) ListMeasurements(ctx context.Context, farmID, animalID string) ([]*Measurement, error) {
	return m.measurements[animalID], nil
}

func newHerdService() (*Service, *MockAnimalRepository) {
	repo := NewMockAnimalRepository()
	return NewService(repo, audit.NewSlogLogger()), repo
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

// TestPurpose: Validates registering an animal applies the documented defaults and the stored record round-trips intact.
// Scope: Unit Test
// Expected: New animal gets a server-minted id, status "healthy" and health score 95 when not supplied.
// Test Case ID: HRD-01
func TestHerd_Service_RegisterAnimal_Defaults(t *testing.T) {
	s, _ := newHerdService()
	ctx := context.Background()

	animal, err := s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name:    "Bella",
		Species: "cow",
		Breed:   "Holstein",
		Gender:  GenderFemale,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, animal.ID, "id must be minted server-side")
	assert.Equal(t, "farm-1", animal.FarmID)
	assert.Equal(t, StatusHealthy, animal.Status)
	assert.Equal(t, 95, animal.HealthScore)

	got, err := s.GetAnimal(ctx, "farm-1", animal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bella", got.Name)
	assert.Equal(t, "cow", got.Species)
	assert.Equal(t, "Holstein", got.Breed)
}

// TestPurpose: Validates sparse patches touch only the supplied fields and sequential updates resolve last-write-wins.
// Scope: Unit Test
// Expected: After patching weight to 460 then 470, the stored weight is 470 and the name is unchanged.
// Test Case ID: HRD-02
func TestHerd_Service_UpdateAnimal_LastWriteWins(t *testing.T) {
	s, _ := newHerdService()
	ctx := context.Background()

	animal, err := s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name: "Bella", Species: "cow", Gender: GenderFemale,
	})
	require.NoError(t, err)

	_, err = s.UpdateAnimal(ctx, "farm-1", "user-1", animal.ID, AnimalPatch{Weight: f64Ptr(460)})
	require.NoError(t, err)

	updated, err := s.UpdateAnimal(ctx, "farm-1", "user-2", animal.ID, AnimalPatch{Weight: f64Ptr(470)})
	require.NoError(t, err)

	assert.Equal(t, 470.0, updated.Weight)
	assert.Equal(t, "Bella", updated.Name, "fields absent from the patch must survive")
	assert.Equal(t, StatusHealthy, updated.Status)
}

// TestPurpose: Validates the farm boundary on every herd operation.
// Scope: Unit Test
// Security: Multi-tenant boundary enforcement
// Expected: Farm B cannot read, patch or delete farm A's animals; each attempt yields ErrAnimalNotFound.
// Test Case ID: HRD-03
func TestHerd_Service_FarmIsolation(t *testing.T) {
	s, _ := newHerdService()
	ctx := context.Background()

	animal, err := s.RegisterAnimal(ctx, "farm-a", "user-a", &Animal{
		Name: "Bella", Species: "cow", Gender: GenderFemale,
	})
	require.NoError(t, err)

	_, err = s.GetAnimal(ctx, "farm-b", animal.ID)
	assert.ErrorIs(t, err, ErrAnimalNotFound)

	_, err = s.UpdateAnimal(ctx, "farm-b", "user-b", animal.ID, AnimalPatch{Name: strPtr("Rustled")})
	assert.ErrorIs(t, err, ErrAnimalNotFound)

	err = s.DeleteAnimal(ctx, "farm-b", "user-b", animal.ID)
	assert.ErrorIs(t, err, ErrAnimalNotFound)

	listed, err := s.ListAnimals(ctx, "farm-b")
	require.NoError(t, err)
	assert.Empty(t, listed)

	// The animal is still there for its own farm.
	got, err := s.GetAnimal(ctx, "farm-a", animal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bella", got.Name)
}

// TestPurpose: Validates deleting an animal removes it from reads and listings.
// Scope: Unit Test
// Expected: ErrAnimalNotFound after deletion, and the listing no longer contains the record.
// Test Case ID: HRD-04
func TestHerd_Service_DeleteAnimal(t *testing.T) {
	s, _ := newHerdService()
	ctx := context.Background()

	animal, err := s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name: "Duke", Species: "horse", Gender: GenderMale,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAnimal(ctx, "farm-1", "user-1", animal.ID))

	_, err = s.GetAnimal(ctx, "farm-1", animal.ID)
	assert.ErrorIs(t, err, ErrAnimalNotFound)

	listed, err := s.ListAnimals(ctx, "farm-1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

// TestPurpose: Validates invalid status and gender values are rejected on registration and patch.
// Scope: Unit Test
// Expected: ErrInvalidStatus / ErrInvalidGender sentinels.
// Test Case ID: HRD-05
func TestHerd_Service_Validation(t *testing.T) {
	s, _ := newHerdService()
	ctx := context.Background()

	_, err := s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name: "X", Species: "cow", Status: "vaporized",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name: "X", Species: "cow", Gender: "unknown",
	})
	assert.ErrorIs(t, err, ErrInvalidGender)

	animal, err := s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name: "Y", Species: "goat", Gender: GenderFemale,
	})
	require.NoError(t, err)

	_, err = s.UpdateAnimal(ctx, "farm-1", "user-1", animal.ID, AnimalPatch{Status: strPtr("abducted")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// TestPurpose: Validates measurements accumulate per animal and listing stays farm-scoped.
// Scope: Unit Test
// Expected: Two recorded weights are both returned; a foreign farm cannot record against the animal.
// Test Case ID: HRD-06
func TestHerd_Service_Measurements(t *testing.T) {
	s, _ := newHerdService()
	ctx := context.Background()

	animal, err := s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name: "Bella", Species: "cow", Gender: GenderFemale,
	})
	require.NoError(t, err)

	_, err = s.RecordMeasurement(ctx, "farm-1", animal.ID, &Measurement{Type: "weight", Value: 460, Unit: "kg"})
	require.NoError(t, err)
	m2, err := s.RecordMeasurement(ctx, "farm-1", animal.ID, &Measurement{Type: "weight", Value: 470, Unit: "kg"})
	require.NoError(t, err)
	assert.NotEmpty(t, m2.ID)
	assert.False(t, m2.MeasuredAt.IsZero())

	history, err := s.ListMeasurements(ctx, "farm-1", animal.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = s.RecordMeasurement(ctx, "farm-b", animal.ID, &Measurement{Type: "weight", Value: 1})
	assert.ErrorIs(t, err, ErrAnimalNotFound)
}

// TestPurpose: Validates lineage resolution treats parent links as weak references.
// Scope: Unit Test
// Expected: Resolved parents when present; nil parent for a dangling link after the parent is deleted.
// Test Case ID: HRD-07
func TestHerd_Service_Lineage(t *testing.T) {
	s, _ := newHerdService()
	ctx := context.Background()

	mother, err := s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name: "Daisy", Species: "cow", Gender: GenderFemale,
	})
	require.NoError(t, err)

	calf, err := s.RegisterAnimal(ctx, "farm-1", "user-1", &Animal{
		Name: "Bella", Species: "cow", Gender: GenderFemale, MotherID: mother.ID,
	})
	require.NoError(t, err)

	lineage, err := s.GetLineage(ctx, "farm-1", calf.ID)
	require.NoError(t, err)
	require.NotNil(t, lineage.Mother)
	assert.Equal(t, "Daisy", lineage.Mother.Name)
	assert.Nil(t, lineage.Father)

	// Deleting the mother leaves the calf's link dangling, not broken.
	require.NoError(t, s.DeleteAnimal(ctx, "farm-1", "user-1", mother.ID))

	lineage, err = s.GetLineage(ctx, "farm-1", calf.ID)
	require.NoError(t, err)
	assert.Nil(t, lineage.Mother)
}
