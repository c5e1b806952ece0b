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

import "context"

type contextKey string

const (
	farmIDKey    contextKey = "farm_id"
	userIDKey    contextKey = "user_id"
	roleKey      contextKey = "role"
	sessionIDKey contextKey = "session_id"
)

// GetUserID retrieves the authenticated user ID from context.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}

// GetFarmID retrieves the farm ID from context. The farm is the tenant
// boundary; handlers pass this value into every service call.
func GetFarmID(ctx context.Context) string {
	if val, ok := ctx.Value(farmIDKey).(string); ok {
		return val
	}
	return ""
}

// GetRole retrieves the authenticated user's role from context.
func GetRole(ctx context.Context) string {
	if val, ok := ctx.Value(roleKey).(string); ok {
		return val
	}
	return ""
}

// GetSessionID retrieves the session ID from context. Empty for
// requests authenticated with an API token.
func GetSessionID(ctx context.Context) string {
	if val, ok := ctx.Value(sessionIDKey).(string); ok {
		return val
	}
	return ""
}
