// @title Herdbook API
// @version 1.0.0
// @description Multi-tenant livestock management backend
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name session_id

package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/farm"
	"github.com/herdbook/herdbook/internal/finance"
	"github.com/herdbook/herdbook/internal/herd"
	"github.com/herdbook/herdbook/internal/identity"
	"github.com/herdbook/herdbook/internal/inventory"
	"github.com/herdbook/herdbook/internal/observability/logger"
	"github.com/herdbook/herdbook/internal/records"
	"github.com/herdbook/herdbook/internal/session"
	"github.com/herdbook/herdbook/internal/staff"
	"github.com/herdbook/herdbook/internal/tasks"
	"github.com/herdbook/herdbook/internal/token"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	farmService      *farm.Service
	identityService  *identity.Service
	avatarService    *identity.AvatarService
	sessionService   *session.Service
	tokenService     *token.Service
	herdService      *herd.Service
	recordsService   *records.Service
	inventoryService *inventory.Service
	taskService      *tasks.Service
	staffService     *staff.Service
	financeService   *finance.Service
	auditLogger      audit.Logger
	sessionConfig    SessionConfig
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
}

// NewHandler creates a new HTTP handler
func NewHandler(
	farmService *farm.Service,
	identityService *identity.Service,
	avatarService *identity.AvatarService,
	sessionService *session.Service,
	tokenService *token.Service,
	herdService *herd.Service,
	recordsService *records.Service,
	inventoryService *inventory.Service,
	taskService *tasks.Service,
	staffService *staff.Service,
	financeService *finance.Service,
	auditLogger audit.Logger,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		farmService:      farmService,
		identityService:  identityService,
		avatarService:    avatarService,
		sessionService:   sessionService,
		tokenService:     tokenService,
		herdService:      herdService,
		recordsService:   recordsService,
		inventoryService: inventoryService,
		taskService:      taskService,
		staffService:     staffService,
		financeService:   financeService,
		auditLogger:      auditLogger,
		sessionConfig:    sessionConfig,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// Protected routes. The farm id enters the context here and
		// every handler below reads it back out; nothing downstream
		// accepts a farm id from the client.
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.GetCurrentUser)
			r.Post("/auth/token", h.IssueToken)

			// User profile
			r.Get("/user/profile", h.GetCurrentUser)
			r.Put("/user/profile", h.UpdateProfile)
			r.Post("/user/change-password", h.ChangePassword)
			r.Post("/user/avatar", h.UploadAvatar)

			// Farm
			r.Get("/farm", h.GetFarm)
			r.With(h.RequireRole(identity.RoleAdmin)).Put("/farm", h.RenameFarm)

			// Herd register
			r.Route("/animals", func(r chi.Router) {
				r.Get("/", h.ListAnimals)
				r.Post("/", h.RegisterAnimal)
				r.Route("/{animalID}", func(r chi.Router) {
					r.Get("/", h.GetAnimal)
					r.Patch("/", h.UpdateAnimal)
					r.Delete("/", h.DeleteAnimal)
					r.Get("/lineage", h.GetLineage)
					r.Get("/measurements", h.ListMeasurements)
					r.Post("/measurements", h.RecordMeasurement)
				})
			})

			// Activity records
			h.mountRecordRoutes(r)

			// Inventory
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", h.ListInventory)
				r.Post("/", h.AddInventoryItem)
				r.Get("/low-stock", h.ListLowStock)
				r.Route("/{itemID}", func(r chi.Router) {
					r.Get("/", h.GetInventoryItem)
					r.Patch("/", h.UpdateInventoryItem)
					r.Delete("/", h.DeleteInventoryItem)
				})
			})

			// Tasks
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.ListTasks)
				r.Post("/", h.CreateTask)
				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", h.GetTask)
					r.Patch("/", h.UpdateTask)
					r.Delete("/", h.DeleteTask)
					r.Post("/complete", h.CompleteTask)
				})
			})

			// Staff roster (write access is admin/manager only)
			r.Route("/staff", func(r chi.Router) {
				r.Get("/", h.ListStaff)
				r.With(h.RequireRole(identity.RoleAdmin, identity.RoleManager)).Post("/", h.AddStaffMember)
				r.Route("/{memberID}", func(r chi.Router) {
					r.Get("/", h.GetStaffMember)
					r.With(h.RequireRole(identity.RoleAdmin, identity.RoleManager)).Patch("/", h.UpdateStaffMember)
					r.With(h.RequireRole(identity.RoleAdmin, identity.RoleManager)).Delete("/", h.RemoveStaffMember)
				})
			})

			// Finance
			r.Route("/finance", func(r chi.Router) {
				r.Get("/", h.ListFinanceEntries)
				r.Post("/", h.RecordFinanceEntry)
				r.Get("/summary", h.FinanceSummary)
				r.Route("/{entryID}", func(r chi.Router) {
					r.Get("/", h.GetFinanceEntry)
					r.Patch("/", h.UpdateFinanceEntry)
					r.Delete("/", h.DeleteFinanceEntry)
				})
			})
		})
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "herdbook",
	})
}

// RegisterRequest represents farm registration data
type RegisterRequest struct {
	FarmName string `json:"farm_name" binding:"required" example:"Green Pastures"`
	Email    string `json:"email" binding:"required" example:"owner@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Name     string `json:"name" example:"Jane Farmer"`
}

// Register creates a farm and its first admin user
// @Summary Register a new farm
// @Description Create a farm and provision its admin account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The user is provisioned before the farm so an email conflict does
	// not leave an empty farm behind. A farm without its admin row is
	// never reachable, so the reverse ordering is the safer failure.
	existing, err := h.identityService.GetByEmail(r.Context(), req.Email)
	if err == nil && existing != nil {
		respondError(w, http.StatusConflict, "user already exists")
		return
	}

	f, err := h.farmService.CreateFarm(r.Context(), req.FarmName, "")
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create farm",
			logger.Error(err),
		)
		respondError(w, http.StatusBadRequest, "failed to create farm")
		return
	}

	user, err := h.identityService.ProvisionIdentity(r.Context(), f.ID, req.Email, req.Name, identity.RoleAdmin)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to provision user",
			logger.Error(err),
			logger.Email(req.Email),
		)

		switch err {
		case identity.ErrUserAlreadyExists:
			respondError(w, http.StatusConflict, "user already exists")
		case identity.ErrInvalidEmail:
			respondError(w, http.StatusBadRequest, "invalid email address")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	if err := h.identityService.AddPassword(r.Context(), user.ID, req.Password); err != nil {
		slog.ErrorContext(r.Context(), "failed to set password",
			logger.Error(err),
			logger.UserID(user.ID),
		)
		respondError(w, http.StatusBadRequest, "failed to set password: "+err.Error())
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeUserCreated,
		FarmID:    f.ID,
		ActorID:   user.ID, // Self-registration
		Resource:  "user",
		IPAddress: getIPAddress(r),
		Metadata:  map[string]any{"email": user.Email},
	})

	respondJSON(w, http.StatusCreated, map[string]any{
		"farm_id": f.ID,
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"owner@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and create a session bound to their farm
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.identityService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Locked and unknown accounts both come back as 401; the
		// distinction lives in the audit log only.
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.sessionService.Create(
		r.Context(),
		user.FarmID,
		user.ID,
		getIPAddress(r),
		r.UserAgent(),
	)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.setSessionCookie(w, sess.ID)

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeLoginSuccess,
		FarmID:    user.FarmID,
		ActorID:   user.ID,
		Resource:  "session",
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
		Metadata:  map[string]any{"session_id": sess.ID},
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id": user.ID,
		"farm_id": user.FarmID,
		"email":   user.Email,
		"role":    user.Role,
	})
}

// Logout handles user logout
// @Summary Logout
// @Description Destroy the current session
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionID(r.Context())
	if sessionID != "" {
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeLogout,
			FarmID:    GetFarmID(r.Context()),
			ActorID:   GetUserID(r.Context()),
			Resource:  "session",
			IPAddress: getIPAddress(r),
			UserAgent: r.UserAgent(),
			Metadata:  map[string]any{"session_id": sessionID},
		})
		h.sessionService.Destroy(r.Context(), sessionID)
	}

	h.clearSessionCookie(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// GetCurrentUser returns the current authenticated user identity
// @Summary Get Current User
// @Description Retrieve details of the currently logged-in user
// @Tags User
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /auth/me [get]
// @Router /user/profile [get]
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	user, err := h.identityService.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":     user.ID,
		"farm_id":     user.FarmID,
		"email":       user.Email,
		"name":        user.Name,
		"role":        user.Role,
		"avatar_url":  user.AvatarURL,
		"preferences": user.Preferences,
	})
}

// IssueToken mints an API token for the current user
// @Summary Issue API Token
// @Description Issue a farm-scoped bearer token for non-browser clients
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /auth/token [post]
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	farmID := GetFarmID(r.Context())
	role := GetRole(r.Context())

	signed, expiresAt, err := h.tokenService.Issue(userID, farmID, role)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue token", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeTokenIssued,
		FarmID:    farmID,
		ActorID:   userID,
		Resource:  "api_token",
		IPAddress: getIPAddress(r),
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"token":      signed,
		"expires_at": expiresAt,
	})
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name        string                `json:"name"`
	Preferences *identity.Preferences `json:"preferences"`
}

// UpdateProfile updates the user profile
// @Summary Update Profile
// @Description Update name and display preferences; absent fields are untouched
// @Tags User
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body UpdateProfileRequest true "Profile Changes"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /user/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.identityService.UpdateProfile(r.Context(), userID, req.Name, req.Preferences)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"name":        user.Name,
		"preferences": user.Preferences,
	})
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword changes the user password
// @Summary Change Password
// @Description Update the password for the current user
// @Tags User
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ChangePasswordRequest true "Password Change Data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /user/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req ChangePasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.identityService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch err {
		case identity.ErrInvalidCredentials:
			respondError(w, http.StatusUnauthorized, "invalid old password")
		case identity.ErrWeakPassword:
			respondError(w, http.StatusBadRequest, "new password does not meet security requirements")
		default:
			respondError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypePasswordChanged,
		FarmID:    GetFarmID(r.Context()),
		ActorID:   userID,
		Resource:  "user_credentials",
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
	})

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}

// UploadAvatar stores a new avatar image for the current user
// @Summary Upload Avatar
// @Description Store an avatar image (png, jpeg or webp) for the current user
// @Tags User
// @Accept mpfd
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /user/avatar [post]
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("avatar")
		if err != nil {
			respondError(w, http.StatusBadRequest, "missing avatar file")
			return
		}
		defer file.Close()
		body = file
	}

	url, err := h.avatarService.Upload(r.Context(), userID, body)
	if err != nil {
		switch err {
		case identity.ErrAvatarTooLarge:
			respondError(w, http.StatusRequestEntityTooLarge, "avatar exceeds the size limit")
		case identity.ErrAvatarInvalidType:
			respondError(w, http.StatusBadRequest, "avatar must be a png, jpeg or webp image")
		default:
			slog.ErrorContext(r.Context(), "failed to upload avatar", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to upload avatar")
		}
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeAvatarUploaded,
		FarmID:    GetFarmID(r.Context()),
		ActorID:   userID,
		Resource:  "avatar",
		IPAddress: getIPAddress(r),
	})

	respondJSON(w, http.StatusOK, map[string]string{
		"avatar_url": url,
	})
}

// GetFarm returns the current user's farm
// @Summary Get Farm
// @Description Retrieve the farm the current session is bound to
// @Tags Farm
// @Produce json
// @Security CookieAuth
// @Success 200 {object} farm.Farm
// @Failure 404 {object} map[string]string
// @Router /farm [get]
func (h *Handler) GetFarm(w http.ResponseWriter, r *http.Request) {
	f, err := h.farmService.GetFarm(r.Context(), GetFarmID(r.Context()))
	if err != nil {
		respondError(w, http.StatusNotFound, "farm not found")
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// RenameFarmRequest represents a farm rename
type RenameFarmRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameFarm updates the farm name
// @Summary Rename Farm
// @Description Change the farm name (admin only)
// @Tags Farm
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} farm.Farm
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /farm [put]
func (h *Handler) RenameFarm(w http.ResponseWriter, r *http.Request) {
	var req RenameFarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.farmService.RenameFarm(r.Context(), GetFarmID(r.Context()), req.Name)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to rename farm")
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// Helper functions
func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   86400, // 24 hours
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
