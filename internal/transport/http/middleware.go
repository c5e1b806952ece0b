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
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/herdbook/herdbook/internal/observability/logger"
)

// Farm context principles:
// 1. The farm id is derived EXCLUSIVELY from the session or API token.
// 2. An X-Farm-ID header is never honored and is rejected on
//    authenticated routes.
// 3. Every repository query carries the farm id; a handler never passes
//    a farm id that did not come out of this middleware.

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// AuthMiddleware authenticates the request and injects the user, farm,
// role and (for cookie logins) session into the context. Two schemes
// are accepted: the session cookie set at login, and a Bearer API token
// issued to non-browser clients.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Spoofing hardening: the farm id comes from the credential,
		// never from a client-supplied header.
		if r.Header.Get("X-Farm-ID") != "" {
			slog.WarnContext(r.Context(), "farm header spoofing attempt detected",
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)
			respondError(w, http.StatusBadRequest, "X-Farm-ID header is not allowed; the farm is derived from the credential")
			return
		}

		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			h.authenticateToken(w, r, next, strings.TrimPrefix(auth, "Bearer "))
			return
		}

		sessionID := h.getSessionFromCookie(r)
		if sessionID == "" {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		sess, err := h.sessionService.Get(r.Context(), sessionID)
		if err != nil {
			h.clearSessionCookie(w)
			respondError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		if err := h.sessionService.Refresh(r.Context(), sessionID); err != nil {
			slog.ErrorContext(r.Context(), "failed to refresh session", logger.Error(err))
		}

		user, err := h.identityService.GetUser(r.Context(), sess.UserID)
		if err != nil {
			h.clearSessionCookie(w)
			respondError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
		ctx = context.WithValue(ctx, sessionIDKey, sess.ID)
		ctx = context.WithValue(ctx, farmIDKey, sess.FarmID)
		ctx = context.WithValue(ctx, roleKey, user.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticateToken handles the Bearer scheme. Token claims carry the
// farm binding, so no session lookup is involved.
func (h *Handler) authenticateToken(w http.ResponseWriter, r *http.Request, next http.Handler, tokenString string) {
	claims, err := h.tokenService.Verify(tokenString)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
	ctx = context.WithValue(ctx, farmIDKey, claims.FarmID)
	ctx = context.WithValue(ctx, roleKey, claims.Role)

	next.ServeHTTP(w, r.WithContext(ctx))
}

// RequireRole gates a route to users holding one of the given roles.
func (h *Handler) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetRole(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, "insufficient role")
		})
	}
}
