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
	"fmt"
	"time"

	"github.com/herdbook/herdbook/internal/identity"
	"github.com/jackc/pgx/v5"
)

// UserRepository implements identity.UserRepository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, farm_id, email, name, role, avatar_url,
	currency, locale, timezone, unit_system,
	failed_login_attempts, locked_until, created_at, updated_at`

func scanUser(row pgx.Row) (*identity.User, error) {
	var user identity.User
	var lockedUntil sql.NullTime

	err := row.Scan(
		&user.ID, &user.FarmID, &user.Email, &user.Name, &user.Role, &user.AvatarURL,
		&user.Preferences.Currency, &user.Preferences.Locale,
		&user.Preferences.Timezone, &user.Preferences.UnitSystem,
		&user.FailedLoginAttempts, &lockedUntil, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if lockedUntil.Valid {
		user.LockedUntil = &lockedUntil.Time
	}
	return &user, nil
}

// Create creates a new user identity
func (r *UserRepository) Create(user *identity.User) error {
	ctx := context.Background()
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO users (
			id, farm_id, email, name, role, avatar_url,
			currency, locale, timezone, unit_system,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		user.ID, user.FarmID, user.Email, user.Name, user.Role, user.AvatarURL,
		user.Preferences.Currency, user.Preferences.Locale,
		user.Preferences.Timezone, user.Preferences.UnitSystem,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return nil
}

// AddCredentials adds credentials for a user
func (r *UserRepository) AddCredentials(credentials *identity.Credentials) error {
	ctx := context.Background()
	now := time.Now()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO credentials (user_id, password_hash, updated_at)
		VALUES ($1, $2, $3)
	`, credentials.UserID, credentials.PasswordHash, now)
	if err != nil {
		return fmt.Errorf("failed to insert credentials: %w", err)
	}

	credentials.UpdatedAt = now

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*identity.User, error) {
	row := r.db.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*identity.User, error) {
	row := r.db.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// ListByFarm retrieves all users belonging to a farm
func (r *UserRepository) ListByFarm(farmID string) ([]*identity.User, error) {
	rows, err := r.db.pool.Query(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE farm_id = $1 ORDER BY created_at`, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*identity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update updates user information
func (r *UserRepository) Update(user *identity.User) error {
	ctx := context.Background()

	result, err := r.db.pool.Exec(ctx, `
		UPDATE users SET
			email = $3,
			name = $4,
			role = $5,
			avatar_url = $6,
			currency = $7,
			locale = $8,
			timezone = $9,
			unit_system = $10,
			updated_at = NOW()
		WHERE id = $1 AND farm_id = $2
	`,
		user.ID, user.FarmID, user.Email, user.Name, user.Role, user.AvatarURL,
		user.Preferences.Currency, user.Preferences.Locale,
		user.Preferences.Timezone, user.Preferences.UnitSystem,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

// UpdateLockout updates user lockout status
func (r *UserRepository) UpdateLockout(userID string, failedAttempts int, lockedUntil *time.Time) error {
	query := `
		UPDATE users
		SET failed_login_attempts = $1, locked_until = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.pool.Exec(context.Background(), query, failedAttempts, lockedUntil, userID)
	if err != nil {
		return fmt.Errorf("failed to update user lockout status: %w", err)
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.pool.Exec(context.Background(),
		`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

// GetCredentials retrieves user credentials
func (r *UserRepository) GetCredentials(userID string) (*identity.Credentials, error) {
	var creds identity.Credentials

	err := r.db.pool.QueryRow(context.Background(), `
		SELECT user_id, password_hash, updated_at
		FROM credentials
		WHERE user_id = $1
	`, userID).Scan(&creds.UserID, &creds.PasswordHash, &creds.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &creds, nil
}

// UpdatePassword updates user password
func (r *UserRepository) UpdatePassword(userID string, passwordHash string) error {
	result, err := r.db.pool.Exec(context.Background(), `
		UPDATE credentials SET password_hash = $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}
