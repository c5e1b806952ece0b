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

// Package records holds the veterinary and production bookkeeping
// attached to animals: health, feeding, breeding and production
// records. All of them are farm-scoped rows with sparse-patch updates.
package records

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidRecord  = errors.New("invalid record")
)

// Health record types
const (
	HealthTypeVaccination = "vaccination"
	HealthTypeTreatment   = "treatment"
	HealthTypeCheckup     = "checkup"
	HealthTypeInjury      = "injury"
	HealthTypeIllness     = "illness"
)

// Health record status lifecycle
const (
	HealthStatusScheduled = "scheduled"
	HealthStatusOngoing   = "ongoing"
	HealthStatusCompleted = "completed"
)

// HealthRecord is one veterinary event for an animal
type HealthRecord struct {
	ID           string    `json:"id"`
	FarmID       string    `json:"farm_id"`
	AnimalID     string    `json:"animal_id"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Veterinarian string    `json:"veterinarian,omitempty"`
	Cost         float64   `json:"cost,omitempty"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HealthPatch is a sparse change-set; nil fields are left untouched
type HealthPatch struct {
	Type         *string    `json:"type,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Veterinarian *string    `json:"veterinarian,omitempty"`
	Cost         *float64   `json:"cost,omitempty"`
	Status       *string    `json:"status,omitempty"`
	OccurredAt   *time.Time `json:"occurred_at,omitempty"`
}

// FeedingRecord is one feeding event for an animal
type FeedingRecord struct {
	ID        string    `json:"id"`
	FarmID    string    `json:"farm_id"`
	AnimalID  string    `json:"animal_id"`
	FeedType  string    `json:"feed_type"`
	Amount    float64   `json:"amount"`
	Unit      string    `json:"unit,omitempty"`
	Cost      float64   `json:"cost,omitempty"`
	FedAt     time.Time `json:"fed_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedingPatch is a sparse change-set; nil fields are left untouched
type FeedingPatch struct {
	FeedType *string    `json:"feed_type,omitempty"`
	Amount   *float64   `json:"amount,omitempty"`
	Unit     *string    `json:"unit,omitempty"`
	Cost     *float64   `json:"cost,omitempty"`
	FedAt    *time.Time `json:"fed_at,omitempty"`
}

// BreedingRecord pairs two animals. MotherID and FatherID are weak
// references, same as the animal's own parent links.
type BreedingRecord struct {
	ID                string     `json:"id"`
	FarmID            string     `json:"farm_id"`
	MotherID          string     `json:"mother_id"`
	FatherID          string     `json:"father_id"`
	BreedingDate      time.Time  `json:"breeding_date"`
	ExpectedBirthDate *time.Time `json:"expected_birth_date,omitempty"`
	ActualBirthDate   *time.Time `json:"actual_birth_date,omitempty"`
	OffspringCount    int        `json:"offspring_count,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// BreedingPatch is a sparse change-set; nil fields are left untouched
type BreedingPatch struct {
	MotherID          *string    `json:"mother_id,omitempty"`
	FatherID          *string    `json:"father_id,omitempty"`
	BreedingDate      *time.Time `json:"breeding_date,omitempty"`
	ExpectedBirthDate *time.Time `json:"expected_birth_date,omitempty"`
	ActualBirthDate   *time.Time `json:"actual_birth_date,omitempty"`
	OffspringCount    *int       `json:"offspring_count,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// ProductionRecord is one yield entry (milk, eggs, wool, ...)
type ProductionRecord struct {
	ID          string    `json:"id"`
	FarmID      string    `json:"farm_id"`
	AnimalID    string    `json:"animal_id"`
	ProductType string    `json:"product_type"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	ProducedAt  time.Time `json:"produced_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductionPatch is a sparse change-set; nil fields are left untouched
type ProductionPatch struct {
	ProductType *string    `json:"product_type,omitempty"`
	Quantity    *float64   `json:"quantity,omitempty"`
	Unit        *string    `json:"unit,omitempty"`
	ProducedAt  *time.Time `json:"produced_at,omitempty"`
}
