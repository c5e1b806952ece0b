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

	"github.com/herdbook/herdbook/internal/staff"
	"github.com/jackc/pgx/v5"
)

// StaffRepository implements staff.Repository
type StaffRepository struct {
	db *DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `id, farm_id, name, role, phone, email, permissions,
	hired_at, created_at, updated_at`

func scanStaffMember(row pgx.Row) (*staff.Member, error) {
	var m staff.Member
	var hiredAt sql.NullTime
	var permsJSON []byte

	err := row.Scan(
		&m.ID, &m.FarmID, &m.Name, &m.Role, &m.Phone, &m.Email, &permsJSON,
		&hiredAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, staff.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	if hiredAt.Valid {
		m.HiredAt = &hiredAt.Time
	}
	if len(permsJSON) > 0 {
		if err := json.Unmarshal(permsJSON, &m.Permissions); err != nil {
			return nil, fmt.Errorf("failed to decode permissions: %w", err)
		}
	}
	return &m, nil
}

// Create creates a new staff member
func (r *StaffRepository) Create(ctx context.Context, m *staff.Member) error {
	permsJSON, err := json.Marshal(m.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}
	if m.Permissions == nil {
		permsJSON = []byte("[]")
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO staff (
			id, farm_id, name, role, phone, email, permissions,
			hired_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		m.ID, m.FarmID, m.Name, m.Role, m.Phone, m.Email, permsJSON,
		m.HiredAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert staff member: %w", err)
	}
	return nil
}

// GetByID retrieves a staff member within a farm
func (r *StaffRepository) GetByID(ctx context.Context, farmID, id string) (*staff.Member, error) {
	row := r.db.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE farm_id = $1 AND id = $2`, farmID, id)
	return scanStaffMember(row)
}

// ListByFarm retrieves the farm's roster
func (r *StaffRepository) ListByFarm(ctx context.Context, farmID string) ([]*staff.Member, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE farm_id = $1 ORDER BY name`, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var members []*staff.Member
	for rows.Next() {
		m, err := scanStaffMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ApplyPatch updates only the fields present in the patch
func (r *StaffRepository) ApplyPatch(ctx context.Context, farmID, id string, patch staff.MemberPatch) (*staff.Member, error) {
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
	if patch.Role != nil {
		add("role", *patch.Role)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Permissions != nil {
		permsJSON, err := json.Marshal(*patch.Permissions)
		if err != nil {
			return nil, fmt.Errorf("failed to encode permissions: %w", err)
		}
		add("permissions", permsJSON)
	}
	if patch.HiredAt != nil {
		add("hired_at", *patch.HiredAt)
	}

	query := fmt.Sprintf(
		`UPDATE staff SET %s WHERE farm_id = $1 AND id = $2`,
		strings.Join(set, ", "),
	)

	result, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to patch staff member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, staff.ErrMemberNotFound
	}

	return r.GetByID(ctx, farmID, id)
}

// Delete deletes a staff member
func (r *StaffRepository) Delete(ctx context.Context, farmID, id string) error {
	result, err := r.db.pool.Exec(ctx,
		`DELETE FROM staff WHERE farm_id = $1 AND id = $2`, farmID, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return staff.ErrMemberNotFound
	}
	return nil
}
