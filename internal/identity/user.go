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

package identity

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password does not meet security requirements")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidRole        = errors.New("invalid user role")
)

// Roles a user can hold within a farm. One user belongs to exactly one
// farm; the role lives on the user row, there is no cross-farm identity.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWorker  = "worker"
)

// ValidRole reports whether role is one of the defined constants.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleWorker
}

// User represents a user identity in the system
type User struct {
	ID                  string
	FarmID              string // Always required; the farm is the tenant boundary.
	Email               string
	Name                string
	Role                string
	AvatarURL           string
	Preferences         Preferences
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Preferences holds per-user display settings
type Preferences struct {
	Currency   string `json:"currency"`
	Locale     string `json:"locale"`
	Timezone   string `json:"timezone"`
	UnitSystem string `json:"unit_system"` // metric, imperial
}

// DefaultPreferences returns the preferences applied to new users.
func DefaultPreferences() Preferences {
	return Preferences{
		Currency:   "USD",
		Locale:     "en-US",
		Timezone:   "UTC",
		UnitSystem: "metric",
	}
}

// Credentials represents user authentication credentials
type Credentials struct {
	UserID       string
	PasswordHash string
	UpdatedAt    time.Time
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user identity
	Create(user *User) error

	// AddCredentials adds credentials for a user
	AddCredentials(credentials *Credentials) error

	// GetByID retrieves a user by ID
	GetByID(id string) (*User, error)

	// GetByEmail retrieves a user by email. Email is globally unique;
	// the farm binding comes from the returned user row.
	GetByEmail(email string) (*User, error)

	// ListByFarm retrieves all users belonging to a farm
	ListByFarm(farmID string) ([]*User, error)

	// Update updates user information
	Update(user *User) error

	// UpdateLockout updates user lockout status
	UpdateLockout(userID string, failedAttempts int, lockedUntil *time.Time) error

	// Delete removes a user
	Delete(id string) error

	// GetCredentials retrieves user credentials
	GetCredentials(userID string) (*Credentials, error)

	// UpdatePassword updates user password
	UpdatePassword(userID string, passwordHash string) error
}
