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
	"errors"
	"time"
)

// Domain errors
var (
	ErrAnimalNotFound = errors.New("animal not found")
	ErrInvalidStatus  = errors.New("invalid animal status")
	ErrInvalidGender  = errors.New("invalid animal gender")
)

// Animal status lifecycle
const (
	StatusHealthy    = "healthy"
	StatusSick       = "sick"
	StatusPregnant   = "pregnant"
	StatusQuarantine = "quarantine"
	StatusSold       = "sold"
	StatusDeceased   = "deceased"
)

// Gender constants
const (
	GenderFemale = "female"
	GenderMale   = "male"
)

// Defaults applied when a new animal is registered
const (
	DefaultStatus      = StatusHealthy
	DefaultHealthScore = 95
)

// ValidStatus reports whether status is one of the defined constants.
func ValidStatus(status string) bool {
	switch status {
	case StatusHealthy, StatusSick, StatusPregnant, StatusQuarantine, StatusSold, StatusDeceased:
		return true
	}
	return false
}

// Animal is the central record of the herd register. MotherID and
// FatherID are weak references: they may be empty or point at animals
// that have since been sold or deleted, and gender compatibility of
// the linked parents is not enforced.
type Animal struct {
	ID          string     `json:"id"`
	FarmID      string     `json:"farm_id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	Breed       string     `json:"breed,omitempty"`
	Gender      string     `json:"gender"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Weight      float64    `json:"weight,omitempty"`
	Location    string     `json:"location,omitempty"`
	Status      string     `json:"status"`
	HealthScore int        `json:"health_score"`
	MotherID    string     `json:"mother_id,omitempty"`
	FatherID    string     `json:"father_id,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Tag is a physical identifier attached to an animal
type Tag struct {
	Type  string `json:"type"` // rfid, ear, microchip
	Value string `json:"value"`
}

// Measurement is one point of an animal's measurement history
// (weight, height, temperature, ...). Persisted alongside the animal.
type Measurement struct {
	ID         string    `json:"id"`
	AnimalID   string    `json:"animal_id"`
	Type       string    `json:"type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	MeasuredAt time.Time `json:"measured_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnimalPatch is a sparse change-set: nil fields are left untouched.
// Applying a patch is last-write-wins; there is no version check.
type AnimalPatch struct {
	Name        *string    `json:"name,omitempty"`
	Species     *string    `json:"species,omitempty"`
	Breed       *string    `json:"breed,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Weight      *float64   `json:"weight,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Status      *string    `json:"status,omitempty"`
	HealthScore *int       `json:"health_score,omitempty"`
	MotherID    *string    `json:"mother_id,omitempty"`
	FatherID    *string    `json:"father_id,omitempty"`
	Tags        *[]Tag     `json:"tags,omitempty"`
}

// Lineage holds an animal with its resolved parents. A nil parent
// means the link is absent or dangling.
type Lineage struct {
	Animal *Animal `json:"animal"`
	Mother *Animal `json:"mother,omitempty"`
	Father *Animal `json:"father,omitempty"`
}

// Repository defines the interface for animal persistence. Every
// method is farm-scoped; implementations must carry the farm id into
// the underlying query.
type Repository interface {
	Create(ctx context.Context, animal *Animal) error
	GetByID(ctx context.Context, farmID, id string) (*Animal, error)
	ListByFarm(ctx context.Context, farmID string) ([]*Animal, error)
	ApplyPatch(ctx context.Context, farmID, id string, patch AnimalPatch) (*Animal, error)
	Delete(ctx context.Context, farmID, id string) error

	AddMeasurement(ctx context.Context, m *Measurement) error
	ListMeasurements(ctx context.Context, farmID, animalID string) ([]*Measurement, error)
}
