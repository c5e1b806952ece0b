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

package session

import (
	"context"
	"testing"
	"time"
)

// MockSessionRepository is a simple in-memory implementation of Repository
type MockSessionRepository struct {
	sessions map[string]*Session
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]*Session)}
}

func (m *MockSessionRepository) Create(s *Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *MockSessionRepository) Get(id string) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *MockSessionRepository) Update(s *Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *MockSessionRepository) Delete(id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionRepository) DeleteByUserID(userID string) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *MockSessionRepository) DeleteExpired() error {
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

// TestPurpose: Validates session creation and retrieval with farm binding.
// Scope: Unit Test
// Security: Session-based tenant binding
// Expected: The session carries the farm it was created for and a non-trivial random ID.
// Test Case ID: SES-01
func TestSession_Service_CreateAndGet(t *testing.T) {
	repo := NewMockSessionRepository()
	s := NewService(repo, 24*time.Hour, 30*time.Minute)
	ctx := context.Background()

	sess, err := s.Create(ctx, "farm-1", "user-1", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(sess.ID) < 32 {
		t.Errorf("session id too short: %q", sess.ID)
	}
	if sess.FarmID != "farm-1" {
		t.Errorf("expected farm-1, got %s", sess.FarmID)
	}

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", got.UserID)
	}
}

// TestPurpose: Validates that expired and idle sessions are destroyed on read.
// Scope: Unit Test
// Security: Session lifetime enforcement
// Expected: ErrSessionExpired for both cases, and the row is gone afterwards.
// Test Case ID: SES-02
func TestSession_Service_Expiry(t *testing.T) {
	repo := NewMockSessionRepository()
	s := NewService(repo, 24*time.Hour, 30*time.Minute)
	ctx := context.Background()

	// Hard expiry
	expired := &Session{
		ID:         "expired-session",
		FarmID:     "farm-1",
		UserID:     "user-1",
		ExpiresAt:  time.Now().Add(-time.Minute),
		LastSeenAt: time.Now(),
	}
	repo.Create(expired)

	if _, err := s.Get(ctx, expired.ID); err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := repo.Get(expired.ID); err != ErrSessionNotFound {
		t.Errorf("expired session should be deleted, got %v", err)
	}

	// Idle timeout
	idle := &Session{
		ID:         "idle-session",
		FarmID:     "farm-1",
		UserID:     "user-1",
		ExpiresAt:  time.Now().Add(time.Hour),
		LastSeenAt: time.Now().Add(-time.Hour),
	}
	repo.Create(idle)

	if _, err := s.Get(ctx, idle.ID); err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired for idle session, got %v", err)
	}
}

// TestPurpose: Validates session refresh, destroy and bulk cleanup.
// Scope: Unit Test
// Expected: Refresh advances last seen; Destroy removes the session; CleanupExpired removes only expired rows.
// Test Case ID: SES-03
func TestSession_Service_RefreshDestroyCleanup(t *testing.T) {
	repo := NewMockSessionRepository()
	s := NewService(repo, 24*time.Hour, 30*time.Minute)
	ctx := context.Background()

	sess, err := s.Create(ctx, "farm-1", "user-1", "", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	before := sess.LastSeenAt
	time.Sleep(5 * time.Millisecond)
	if err := s.Refresh(ctx, sess.ID); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	refreshed, _ := repo.Get(sess.ID)
	if !refreshed.LastSeenAt.After(before) {
		t.Error("refresh should advance last seen time")
	}

	repo.Create(&Session{
		ID:         "stale",
		UserID:     "user-2",
		ExpiresAt:  time.Now().Add(-time.Hour),
		LastSeenAt: time.Now().Add(-2 * time.Hour),
	})
	if err := s.CleanupExpired(ctx); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if _, err := repo.Get("stale"); err != ErrSessionNotFound {
		t.Error("cleanup should remove expired sessions")
	}
	if _, err := repo.Get(sess.ID); err != nil {
		t.Error("cleanup should keep live sessions")
	}

	if err := s.Destroy(ctx, sess.ID); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); err != ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound after destroy, got %v", err)
	}
}
