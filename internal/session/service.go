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
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// Service provides session management business logic
type Service struct {
	repo        Repository
	lifetime    time.Duration
	idleTimeout time.Duration
}

// NewService creates a new session service
func NewService(repo Repository, lifetime, idleTimeout time.Duration) *Service {
	return &Service{
		repo:        repo,
		lifetime:    lifetime,
		idleTimeout: idleTimeout,
	}
}

// Create creates a new session bound to the user's farm
func (s *Service) Create(ctx context.Context, farmID, userID, ipAddress, userAgent string) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	sess := &Session{
		ID:         sessionID,
		FarmID:     farmID,
		UserID:     userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		ExpiresAt:  now.Add(s.lifetime),
		CreatedAt:  now,
		LastSeenAt: now,
	}

	if err := s.repo.Create(sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sess, nil
}

// Get retrieves a valid session. Expired or idle sessions are destroyed
// on read and reported as expired.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.repo.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() || sess.IsIdle(s.idleTimeout) {
		_ = s.repo.Delete(sessionID)
		return nil, ErrSessionExpired
	}

	return sess, nil
}

// Refresh updates the session's last seen time
func (s *Service) Refresh(ctx context.Context, sessionID string) error {
	sess, err := s.repo.Get(sessionID)
	if err != nil {
		return err
	}

	sess.LastSeenAt = time.Now()
	return s.repo.Update(sess)
}

// Destroy deletes a session
func (s *Service) Destroy(ctx context.Context, sessionID string) error {
	return s.repo.Delete(sessionID)
}

// DestroyAllForUser deletes every session belonging to a user
func (s *Service) DestroyAllForUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUserID(userID)
}

// CleanupExpired deletes all expired sessions
func (s *Service) CleanupExpired(ctx context.Context) error {
	return s.repo.DeleteExpired()
}

// generateSessionID returns 256 bits of randomness, base64url encoded
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
