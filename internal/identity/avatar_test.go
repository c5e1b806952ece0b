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
	"bytes"
	"context"
	"testing"

	"github.com/herdbook/herdbook/internal/blob"
)

// pngPayload returns bytes that sniff as image/png.
func pngPayload(size int) []byte {
	payload := make([]byte, size)
	copy(payload, []byte("\x89PNG\r\n\x1a\n"))
	return payload
}

// TestPurpose: Validates avatar upload, type sniffing and size limits.
// Scope: Unit Test
// Security: Content type is sniffed from the payload, not trusted from the client
// Expected: A PNG under the limit is stored and recorded on the user; oversized or non-image payloads are rejected.
// Test Case ID: AVT-01
func TestIdentity_AvatarService_Upload(t *testing.T) {
	repo := NewMockUserRepository()
	store := blob.NewMemory()
	s := NewAvatarService(repo, store, 1024)
	ctx := context.Background()

	user := &User{ID: "user-1", FarmID: "farm-1", Email: "a@example.com"}
	repo.Create(user)

	url, err := s.Upload(ctx, user.ID, bytes.NewReader(pngPayload(512)))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if url == "" {
		t.Error("expected a non-empty avatar reference")
	}

	stored, _ := repo.GetByID(user.ID)
	if stored.AvatarURL != url {
		t.Errorf("avatar url not recorded: %q vs %q", stored.AvatarURL, url)
	}

	if _, _, err := store.Get(ctx, "avatars/farm-1/user-1.png"); err != nil {
		t.Errorf("blob not stored under farm-scoped key: %v", err)
	}

	// Oversized
	if _, err := s.Upload(ctx, user.ID, bytes.NewReader(pngPayload(2048))); err != ErrAvatarTooLarge {
		t.Errorf("expected ErrAvatarTooLarge, got %v", err)
	}

	// Not an image
	if _, err := s.Upload(ctx, user.ID, bytes.NewReader([]byte("just some text"))); err != ErrAvatarInvalidType {
		t.Errorf("expected ErrAvatarInvalidType, got %v", err)
	}

	// Unknown user
	if _, err := s.Upload(ctx, "ghost", bytes.NewReader(pngPayload(16))); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
