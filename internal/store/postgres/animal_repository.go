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

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/herdbook/herdbook/internal/herd"
	"github.com/jackc/pgx/v5"
)

// AnimalRepository implements herd.Repository
type AnimalRepository struct {
	db *DB
}

// NewAnimalRepository creates a new animal repository
func NewAnimalRepository(db *DB) *AnimalRepository {
	return &AnimalRepository{db: db}
}

const animalColumns = `id, farm_id, name, species, breed, gender, birth_date,
	weight, location, status, health_score, mother_id, father_id, tags,
	created_at, updated_at`

func scanAnimal(row pgx.Row) (*herd.Animal, error) {
	var a herd.Animal
	var birthDate sql.NullTime
	var tagsJSON []byte

	err := row.Scan(
		&a.ID, &a.FarmID, &a.Name, &a.Species, &a.Breed, &a.Gender, &birthDate,
		&a.Weight, &a.Location, &a.Status, &a.HealthScore, &a.MotherID, &a.FatherID, &tagsJSON,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, herd.ErrAnimalNotFound
		}
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}

	if birthDate.Valid {
		a.BirthDate = &birthDate.Time
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &a.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode animal tags: %w", err)
		}
	}
	return &a, nil
}

// Create creates a new animal
func (r *AnimalRepository) Create(ctx context.Context, a *herd.Animal) error {
	tagsJSON, err := json.Marshal(a.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode animal tags: %w", err)
	}
	if a.Tags == nil {
		tagsJSON = []byte("[]")
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO animals (
			id, farm_id, name, species, breed, gender, birth_date,
			weight, location, status, health_score, mother_id, father_id, tags,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		a.ID, a.FarmID, a.Name, a.Species, a.Breed, a.Gender, a.BirthDate,
		a.Weight, a.Location, a.Status, a.HealthScore, a.MotherID, a.FatherID, tagsJSON,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert animal: %w", err)
	}
	return nil
}

// GetByID retrieves an animal within a farm
func (r *AnimalRepository) GetByID(ctx context.Context, farmID, id string) (*herd.Animal, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanAnimal(row)
}

// ListByFarm retrieves all animals belonging to a farm
func (r *AnimalRepository) ListByFarm(ctx context.Context, farmID string) ([]*herd.Animal, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE farm_id = $1 ORDER BY created_at`, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	defer rows.Close()

	var animals []*herd.Animal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}
	return animals, rows.Err()
}

// ApplyPatch updates only the fields present in the patch and returns
// the resulting row. Last write wins; there is no version column.
func (r *AnimalRepository) ApplyPatch(ctx context.Context, farmID, id string, patch herd.AnimalPatch) (*herd.Animal, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{farmID, id}
	n := 3

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, val)
		n++
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Species != nil {
		add("species", *patch.Species)
	}
	if patch.Breed != nil {
		add("breed", *patch.Breed)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.BirthDate != nil {
		add("birth_date", *patch.BirthDate)
	}
	if patch.Weight != nil {
		add("weight", *patch.Weight)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.HealthScore != nil {
		add("health_score", *patch.HealthScore)
	}
	if patch.MotherID != nil {
		add("mother_id", *patch.MotherID)
	}
	if patch.FatherID != nil {
		add("father_id", *patch.FatherID)
	}
	if patch.Tags != nil {
		tagsJSON, err := json.Marshal(*patch.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode animal tags: %w", err)
		}
		add("tags", tagsJSON)
	}

	query := fmt.Sprintf(
		`UPDATE animals SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch animal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, herd.ErrAnimalNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes an animal
func (r *AnimalRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM animals WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return herd.ErrAnimalNotFound
	}
	return nil
}

// AddMeasurement appends a measurement row
func (r *AnimalRepository) AddMeasurement(ctx context.Context, m *herd.Measurement) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO animal_measurements (id, animal_id, type, value, unit, measured_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.AnimalID, m.Type, m.Value, m.Unit, m.MeasuredAt, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert measurement: %w", err)
	}
	return nil
}

// ListMeasurements retrieves an animal's measurement history. The join
// keeps the farm boundary even though measurements hang off the animal.
func (r *AnimalRepository) ListMeasurements(ctx context.Context, farmID, animalID string) ([]*herd.Measurement, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT m.id, m.animal_id, m.type, m.value, m.unit, m.measured_at, m.created_at
		FROM animal_measurements m
		JOIN animals a ON a.id = m.animal_id
		WHERE a.farm_id = $1 AND m.animal_id = $2
		ORDER BY m.measured_at
	`, farmID, animalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer rows.Close()

	var measurements []*herd.Measurement
	for rows.Next() {
		var m herd.Measurement
		if err := rows.Scan(&m.ID, &m.AnimalID, &m.Type, &m.Value, &m.Unit, &m.MeasuredAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, &m)
	}
	return measurements, rows.Err()
}
