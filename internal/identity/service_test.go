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
	"context"
	"testing"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
)

// MockUserRepository is a simple in-memory implementation of UserRepository
type MockUserRepository struct {
	users       map[string]*User
	credentials map[string]*Credentials
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:       make(map[string]*User),
		credentials: make(map[string]*Credentials),
	}
}

func (m *MockUserRepository) Create(user *User) error {
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) AddCredentials(credentials *Credentials) error {
	m.credentials[credentials.UserID] = credentials
	return nil
}

func (m *MockUserRepository) GetByID(id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MockUserRepository) ListByFarm(farmID string) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		if u.FarmID == farmID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockUserRepository) Update(user *User) error {
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) UpdateLockout(userID string, failedAttempts int, lockedUntil *time.Time) error {
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.FailedLoginAttempts = failedAttempts
	u.LockedUntil = lockedUntil
	return nil
}

func (m *MockUserRepository) Delete(id string) error {
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) GetCredentials(userID string) (*Credentials, error) {
	c, ok := m.credentials[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return c, nil
}

func (m *MockUserRepository) UpdatePassword(userID string, passwordHash string) error {
	c, ok := m.credentials[userID]
	if !ok {
		return ErrUserNotFound
	}
	c.PasswordHash = passwordHash
	return nil
}

// TestPurpose: Validates the user authentication flow, including success, failure, and account lockout after multiple failed attempts.
// Scope: Unit Test
// Security: Authentication mechanisms and Brute-force protection (lockout)
// Expected: Successful login for correct credentials, error for wrong credentials, and account lockout after the threshold.
// Test Case ID: IDN-01
func TestIdentity_Service_Authenticate(t *testing.T) {
	repo := NewMockUserRepository()
	hasher := NewPasswordHasher(65536, 3, 4, 16, 32)
	auditLogger := audit.NewSlogLogger()
	s := NewService(repo, hasher, auditLogger, 3, 5*time.Minute)

	ctx := context.Background()
	farmID := "farm-1"
	email := "rancher@example.com"
	password := "SecurePassword123"

	// 1. Provision user
	user, err := s.ProvisionIdentity(ctx, farmID, email, "Test Rancher", RoleAdmin)
	if err != nil {
		t.Fatalf("failed to provision: %v", err)
	}

	// 2. Add password
	err = s.AddPassword(ctx, user.ID, password)
	if err != nil {
		t.Fatalf("failed to add password: %v", err)
	}

	// 3. Success authentication
	authed, err := s.Authenticate(ctx, email, password)
	if err != nil {
		t.Fatalf("expected success, got err: %v", err)
	}
	if authed.ID != user.ID {
		t.Errorf("expected user ID %s, got %s", user.ID, authed.ID)
	}
	if authed.FarmID != farmID {
		t.Errorf("expected farm ID %s, got %s", farmID, authed.FarmID)
	}

	// 4. Failed authentication (wrong password)
	_, err = s.Authenticate(ctx, email, "WrongPassword")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	// 5. Account lockout
	s.Authenticate(ctx, email, "WrongPassword")          // Total failed: 2
	_, err = s.Authenticate(ctx, email, "WrongPassword") // Total failed: 3 (Threshold met)
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for 3rd failed attempt, got %v", err)
	}

	// 4th attempt should be locked out even with the right password
	_, err = s.Authenticate(ctx, email, password)
	if err != ErrAccountLocked {
		t.Errorf("expected ErrAccountLocked, got %v", err)
	}
}

// TestPurpose: Validates that provisioning an identity fails if a user with the same email already exists.
// Scope: Unit Test
// Security: Data Integrity and Unique Constraint Enforcement
// Expected: ErrUserAlreadyExists when the email is already registered.
// Test Case ID: IDN-02
func TestIdentity_Service_ProvisionIdentity_Conflict(t *testing.T) {
	repo := NewMockUserRepository()
	hasher := NewPasswordHasher(65536, 3, 4, 16, 32)
	s := NewService(repo, hasher, audit.NewSlogLogger(), 3, 5*time.Minute)

	ctx := context.Background()
	email := "conflict@example.com"

	if _, err := s.ProvisionIdentity(ctx, "farm-1", email, "First", RoleWorker); err != nil {
		t.Fatalf("first provision failed: %v", err)
	}

	_, err := s.ProvisionIdentity(ctx, "farm-2", email, "Second", RoleWorker)
	if err != ErrUserAlreadyExists {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}
}

// TestPurpose: Validates role handling during provisioning.
// Scope: Unit Test
// Expected: Empty role defaults to worker, unknown roles are rejected.
// Test Case ID: IDN-03
func TestIdentity_Service_ProvisionIdentity_Roles(t *testing.T) {
	repo := NewMockUserRepository()
	hasher := NewPasswordHasher(65536, 3, 4, 16, 32)
	s := NewService(repo, hasher, audit.NewSlogLogger(), 3, 5*time.Minute)

	ctx := context.Background()

	user, err := s.ProvisionIdentity(ctx, "farm-1", "hand@example.com", "Hand", "")
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	if user.Role != RoleWorker {
		t.Errorf("expected default role worker, got %s", user.Role)
	}
	if user.Preferences != DefaultPreferences() {
		t.Errorf("expected default preferences, got %+v", user.Preferences)
	}

	_, err = s.ProvisionIdentity(ctx, "farm-1", "boss@example.com", "Boss", "overlord")
	if err != ErrInvalidRole {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}

// TestPurpose: Validates profile updates merge only supplied fields.
// Scope: Unit Test
// Expected: Name and individual preferences change independently; absent fields keep stored values.
// Test Case ID: IDN-04
func TestIdentity_Service_UpdateProfile_Merge(t *testing.T) {
	repo := NewMockUserRepository()
	hasher := NewPasswordHasher(65536, 3, 4, 16, 32)
	s := NewService(repo, hasher, audit.NewSlogLogger(), 3, 5*time.Minute)

	ctx := context.Background()
	user, err := s.ProvisionIdentity(ctx, "farm-1", "owner@example.com", "Owner", RoleAdmin)
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}

	updated, err := s.UpdateProfile(ctx, user.ID, "", &Preferences{Currency: "EUR"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Owner" {
		t.Errorf("name should be untouched, got %s", updated.Name)
	}
	if updated.Preferences.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", updated.Preferences.Currency)
	}
	if updated.Preferences.Locale != "en-US" {
		t.Errorf("locale should be untouched, got %s", updated.Preferences.Locale)
	}
}

// TestPurpose: Validates the password change flow.
// Scope: Unit Test
// Security: Credential management
// Expected: Wrong old password is rejected; weak new password is rejected; valid change takes effect.
// Test Case ID: IDN-05
func TestIdentity_Service_ChangePassword(t *testing.T) {
	repo := NewMockUserRepository()
	hasher := NewPasswordHasher(65536, 3, 4, 16, 32)
	s := NewService(repo, hasher, audit.NewSlogLogger(), 3, 5*time.Minute)

	ctx := context.Background()
	user, err := s.ProvisionIdentity(ctx, "farm-1", "owner@example.com", "Owner", RoleAdmin)
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	if err := s.AddPassword(ctx, user.ID, "OldPassword1"); err != nil {
		t.Fatalf("add password failed: %v", err)
	}

	if err := s.ChangePassword(ctx, user.ID, "nope", "NewPassword1"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := s.ChangePassword(ctx, user.ID, "OldPassword1", "short"); err != ErrWeakPassword {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if err := s.ChangePassword(ctx, user.ID, "OldPassword1", "NewPassword1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := s.Authenticate(ctx, "owner@example.com", "NewPassword1"); err != nil {
		t.Errorf("expected login with new password, got %v", err)
	}
}
