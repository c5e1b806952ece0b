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

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/blob"
	"github.com/herdbook/herdbook/internal/farm"
	"github.com/herdbook/herdbook/internal/herd"
	"github.com/herdbook/herdbook/internal/identity"
	"github.com/herdbook/herdbook/internal/session"
	"github.com/herdbook/herdbook/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories for exercising the full router without a
// database. They mirror the fail-closed farm scoping of the postgres
// implementations.

type memUserRepo struct {
	users map[string]*identity.User
	creds map[string]*identity.Credentials
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users: make(map[string]*identity.User),
		creds: make(map[string]*identity.Credentials),
	}
}

func (m *memUserRepo) Create(u *identity.User) error { m.users[u.ID] = u; return nil }
func (m *memUserRepo) AddCredentials(c *identity.Credentials) error {
	m.creds[c.UserID] = c
	return nil
}

func (m *memUserRepo) GetByID(id string) (*identity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(email string) (*identity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (m *memUserRepo) ListByFarm(farmID string) ([]*identity.User, error) {
	var out []*identity.User
	for _, u := range m.users {
		if u.FarmID == farmID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserRepo) Update(u *identity.User) error { m.users[u.ID] = u; return nil }

func (m *memUserRepo) UpdateLockout(userID string, attempts int, until *time.Time) error {
	u, ok := m.users[userID]
	if !ok {
		return identity.ErrUserNotFound
	}
	u.FailedLoginAttempts = attempts
	u.LockedUntil = until
	return nil
}

func (m *memUserRepo) Delete(id string) error { delete(m.users, id); return nil }

func (m *memUserRepo) GetCredentials(userID string) (*identity.Credentials, error) {
	c, ok := m.creds[userID]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return c, nil
}

func (m *memUserRepo) UpdatePassword(userID, hash string) error {
	c, ok := m.creds[userID]
	if !ok {
		return identity.ErrUserNotFound
	}
	c.PasswordHash = hash
	return nil
}

type memSessionRepo struct {
	sessions map[string]*session.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*session.Session)}
}

func (m *memSessionRepo) Create(s *session.Session) error { m.sessions[s.ID] = s; return nil }
func (m *memSessionRepo) Get(id string) (*session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return s, nil
}
func (m *memSessionRepo) Update(s *session.Session) error { m.sessions[s.ID] = s; return nil }
func (m *memSessionRepo) Delete(id string) error          { delete(m.sessions, id); return nil }
func (m *memSessionRepo) DeleteByUserID(userID string) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}
func (m *memSessionRepo) DeleteExpired() error {
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

type memFarmRepo struct {
	farms map[string]*farm.Farm
}

func newMemFarmRepo() *memFarmRepo { return &memFarmRepo{farms: make(map[string]*farm.Farm)} }

func (m *memFarmRepo) Create(ctx context.Context, f *farm.Farm) error { m.farms[f.ID] = f; return nil }
func (m *memFarmRepo) GetByID(ctx context.Context, id string) (*farm.Farm, error) {
	f, ok := m.farms[id]
	if !ok {
		return nil, farm.ErrFarmNotFound
	}
	return f, nil
}
func (m *memFarmRepo) GetByName(ctx context.Context, name string) (*farm.Farm, error) {
	for _, f := range m.farms {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, farm.ErrFarmNotFound
}
func (m *memFarmRepo) Update(ctx context.Context, f *farm.Farm) error { m.farms[f.ID] = f; return nil }
func (m *memFarmRepo) Delete(ctx context.Context, id string) error    { delete(m.farms, id); return nil }
func (m *memFarmRepo) List(ctx context.Context, limit, offset int) ([]*farm.Farm, error) {
	var out []*farm.Farm
	for _, f := range m.farms {
		out = append(out, f)
	}
	return out, nil
}

type memAnimalRepo struct {
	animals map[string]*herd.Animal
}

func newMemAnimalRepo() *memAnimalRepo {
	return &memAnimalRepo{animals: make(map[string]*herd.Animal)}
}

func (m *memAnimalRepo) Create(ctx context.Context, a *herd.Animal) error {
	m.animals[a.ID] = a
	return nil
}

func (m *memAnimalRepo) GetByID(ctx context.Context, farmID, id string) (*herd.Animal, error) {
	a, ok := m.animals[id]
	if !ok || a.FarmID != farmID {
		return nil, herd.ErrAnimalNotFound
	}
	return a, nil
}

func (m *memAnimalRepo) ListByFarm(ctx context.Context, farmID string) ([]*herd.Animal, error) {
	var out []*herd.Animal
	for _, a := range m.animals {
		if a.FarmID == farmID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAnimalRepo) ApplyPatch(ctx context.Context, farmID, id string, patch herd.AnimalPatch) (*herd.Animal, error) {
	a, ok := m.animals[id]
	if !ok || a.FarmID != farmID {
		return nil, herd.ErrAnimalNotFound
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Weight != nil {
		a.Weight = *patch.Weight
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	a.UpdatedAt = time.Now()
	return a, nil
}

func (m *memAnimalRepo) Delete(ctx context.Context, farmID, id string) error {
	a, ok := m.animals[id]
	if !ok || a.FarmID != farmID {
		return herd.ErrAnimalNotFound
	}
	delete(m.animals, id)
	return nil
}

func (m *memAnimalRepo) AddMeasurement(ctx context.Context, meas *herd.Measurement) error {
	return nil
}

func (m *memAnimalRepo) ListMeasurements(ctx context.Context, farmID, animalID string) ([]*herd.Measurement, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	auditLogger := audit.NewSlogLogger()
	users := newMemUserRepo()
	hasher := identity.NewPasswordHasher(65536, 3, 4, 16, 32)

	farmService := farm.NewService(newMemFarmRepo(), auditLogger)
	identityService := identity.NewService(users, hasher, auditLogger, 5, 15*time.Minute)
	avatarService := identity.NewAvatarService(users, blob.NewMemory(), 5<<20)
	sessionService := session.NewService(newMemSessionRepo(), 24*time.Hour, 2*time.Hour)
	tokenService := token.NewService("test-signing-key", time.Hour, "herdbook-test")
	herdService := herd.NewService(newMemAnimalRepo(), auditLogger)

	h := NewHandler(
		farmService,
		identityService,
		avatarService,
		sessionService,
		tokenService,
		herdService,
		nil, nil, nil, nil, nil,
		auditLogger,
		SessionConfig{
			CookieName:     "session_id",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		},
	)

	srv := httptest.NewServer(NewRouter(h, NewRateLimiter(100, 200)))
	t.Cleanup(srv.Close)
	return srv
}

func registerAndLogin(t *testing.T, srv *httptest.Server, farmName, email string) []*http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"farm_name": farmName,
		"email":     email,
		"password":  "SecurePassword123",
		"name":      "Test User",
	})
	resp, err := http.Post(srv.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body, _ = json.Marshal(map[string]string{
		"email":    email,
		"password": "SecurePassword123",
	})
	resp, err = http.Post(srv.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return resp.Cookies()
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, cookies []*http.Cookie, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, srv.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// TestPurpose: Validates the registration and login flow through the full router.
// Scope: Integration Test (HTTP)
// Security: Session cookie issuance and cookie-based authentication
// Expected: Register creates the farm and admin, login sets a session cookie, /auth/me returns the user.
// Test Case ID: API-01
func TestAPI_RegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)
	cookies := registerAndLogin(t, srv, "Green Pastures", "owner@example.com")

	resp := doJSON(t, srv, http.MethodGet, "/api/v1/auth/me", cookies, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "owner@example.com", me["email"])
	assert.Equal(t, "admin", me["role"])
	assert.NotEmpty(t, me["farm_id"])
}

// TestPurpose: Validates that unauthenticated requests are rejected.
// Scope: Integration Test (HTTP)
// Security: Fail-closed authentication
// Expected: 401 without a session cookie or bearer token.
// Test Case ID: API-02
func TestAPI_Unauthenticated(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/animals")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestPurpose: Validates that the farm context comes from the session and cannot be overridden.
// Scope: Integration Test (HTTP)
// Security: Tenant isolation and header spoofing rejection
// Expected: Animals created by farm A are invisible to farm B; X-Farm-ID header is rejected outright.
// Test Case ID: API-03
func TestAPI_FarmIsolation(t *testing.T) {
	srv := newTestServer(t)
	cookiesA := registerAndLogin(t, srv, "Farm A", "a@example.com")
	cookiesB := registerAndLogin(t, srv, "Farm B", "b@example.com")

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/animals", cookiesA, map[string]any{
		"name":    "Bella",
		"species": "cattle",
		"gender":  "female",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	animalID := created["id"].(string)

	// Farm B cannot see or fetch farm A's animal.
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/animals", cookiesB, nil)
	var listB []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listB))
	resp.Body.Close()
	assert.Empty(t, listB)

	resp = doJSON(t, srv, http.MethodGet, "/api/v1/animals/"+animalID, cookiesB, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A spoofed farm header is rejected before any handler runs.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/animals", nil)
	require.NoError(t, err)
	for _, c := range cookiesB {
		req.AddCookie(c)
	}
	req.Header.Set("X-Farm-ID", "some-other-farm")
	spoofed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer spoofed.Body.Close()
	assert.Equal(t, http.StatusBadRequest, spoofed.StatusCode)
}

// TestPurpose: Validates animal defaults and sparse patching through the HTTP surface.
// Scope: Integration Test (HTTP)
// Expected: New animals get status healthy and health score 95; a weight-only patch leaves other fields alone.
// Test Case ID: API-04
func TestAPI_AnimalDefaultsAndPatch(t *testing.T) {
	srv := newTestServer(t)
	cookies := registerAndLogin(t, srv, "Patch Farm", "patch@example.com")

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/animals", cookies, map[string]any{
		"name":    "Bella",
		"species": "cattle",
		"gender":  "female",
		"weight":  460,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var animal map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&animal))
	resp.Body.Close()

	assert.Equal(t, "healthy", animal["status"])
	assert.Equal(t, float64(95), animal["health_score"])

	resp = doJSON(t, srv, http.MethodPatch, "/api/v1/animals/"+animal["id"].(string), cookies, map[string]any{
		"weight": 470,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var patched map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&patched))
	resp.Body.Close()

	assert.Equal(t, float64(470), patched["weight"])
	assert.Equal(t, "Bella", patched["name"])
	assert.Equal(t, "healthy", patched["status"])
}

// TestPurpose: Validates bearer token issuance and token-based access.
// Scope: Integration Test (HTTP)
// Security: API token carries the farm binding
// Expected: A token from /auth/token authenticates requests without a cookie.
// Test Case ID: API-05
func TestAPI_BearerToken(t *testing.T) {
	srv := newTestServer(t)
	cookies := registerAndLogin(t, srv, "Token Farm", "token@example.com")

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/auth/token", cookies, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var issued map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issued))
	resp.Body.Close()
	require.NotEmpty(t, issued["token"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/animals", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+issued["token"].(string))
	tokenResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer tokenResp.Body.Close()
	assert.Equal(t, http.StatusOK, tokenResp.StatusCode)
}
