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

// Package token issues and verifies the HS256 API tokens handed to
// non-browser clients (integrations, scripts) after a session login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carried by an API token. The farm id makes the token
// tenant-scoped by construction; the auth middleware trusts it the
// same way it trusts a session's farm binding.
type Claims struct {
	FarmID string `json:"farm_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies API tokens
type Service struct {
	signingKey []byte
	lifetime   time.Duration
	issuer     string
}

// NewService creates a new token service
func NewService(signingKey string, lifetime time.Duration, issuer string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		lifetime:   lifetime,
		issuer:     issuer,
	}
}

// Issue creates a signed token for the given user
func (s *Service) Issue(userID, farmID, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.lifetime)

	claims := Claims{
		FarmID: farmID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses and validates a token, returning its claims
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !t.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
