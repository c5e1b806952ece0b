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

package token

import (
	"testing"
	"time"
)

// TestPurpose: Validates the API token round trip.
// Scope: Unit Test
// Security: HS256 signing and farm-scoped claims
// Expected: A signed token verifies and carries subject, farm and role.
// Test Case ID: TOK-01
func TestToken_IssueAndVerify(t *testing.T) {
	s := NewService("test-signing-key", time.Hour, "herdbook")

	signed, expiresAt, err := s.Issue("user-1", "farm-1", "admin")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	claims, err := s.Verify(signed)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.FarmID != "farm-1" {
		t.Errorf("expected farm-1, got %s", claims.FarmID)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %s", claims.Role)
	}
}

// TestPurpose: Validates rejection of expired, tampered and foreign tokens.
// Scope: Unit Test
// Security: Token validation
// Expected: ErrTokenExpired for stale tokens; ErrTokenInvalid for wrong keys, issuers or garbage.
// Test Case ID: TOK-02
func TestToken_VerifyRejections(t *testing.T) {
	s := NewService("test-signing-key", time.Hour, "herdbook")

	// Expired
	stale := NewService("test-signing-key", -time.Minute, "herdbook")
	signed, _, err := stale.Issue("user-1", "farm-1", "worker")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := s.Verify(signed); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}

	// Signed with a different key
	other := NewService("other-key", time.Hour, "herdbook")
	signed, _, _ = other.Issue("user-1", "farm-1", "worker")
	if _, err := s.Verify(signed); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid for foreign key, got %v", err)
	}

	// Wrong issuer
	foreign := NewService("test-signing-key", time.Hour, "someone-else")
	signed, _, _ = foreign.Issue("user-1", "farm-1", "worker")
	if _, err := s.Verify(signed); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid for wrong issuer, got %v", err)
	}

	// Garbage
	if _, err := s.Verify("not.a.token"); err != ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}
