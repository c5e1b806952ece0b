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
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/herdbook/herdbook/internal/blob"
)

var (
	ErrAvatarTooLarge    = errors.New("avatar exceeds the size limit")
	ErrAvatarInvalidType = errors.New("avatar must be a png, jpeg or webp image")
)

var allowedAvatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// AvatarService stores user avatars in a blob store and records the
// resulting URL on the user row.
type AvatarService struct {
	users    UserRepository
	store    blob.Store
	maxBytes int64
}

// NewAvatarService creates a new avatar service
func NewAvatarService(users UserRepository, store blob.Store, maxBytes int64) *AvatarService {
	return &AvatarService{
		users:    users,
		store:    store,
		maxBytes: maxBytes,
	}
}

// Upload validates and stores an avatar image for the user, returning
// the reference URL. The content type is sniffed from the payload, not
// trusted from the request.
func (s *AvatarService) Upload(ctx context.Context, userID string, r io.Reader) (string, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return "", ErrUserNotFound
	}

	// Read one byte past the ceiling so oversized uploads are detected
	// without buffering the whole stream.
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar payload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrAvatarTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return "", ErrAvatarInvalidType
	}

	key := fmt.Sprintf("avatars/%s/%s%s", user.FarmID, user.ID, ext)
	if _, err := s.store.Delete(ctx, key); err != nil {
		return "", fmt.Errorf("failed to replace existing avatar: %w", err)
	}
	info, err := s.store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	url := info.URL
	if url == "" {
		url, err = s.store.PresignURL(ctx, key, blob.SignedURLOptions{Method: http.MethodGet})
		if err != nil {
			// Memory driver has no URLs; fall back to the key reference.
			url = key
		}
	}

	user.AvatarURL = url
	if err := s.users.Update(user); err != nil {
		return "", fmt.Errorf("failed to record avatar url: %w", err)
	}

	return url, nil
}
