// Package server provides the HTTP surface over the response cache,
// personalization engine, and profile store.
package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"nutribot/internal/cache"
	"nutribot/internal/core"
	"nutribot/internal/personalize"
)

// Handler holds the HTTP handlers
type Handler struct {
	cache    *cache.ResponseCache
	engine   *personalize.Engine
	profiles core.ProfileStore
	gen      core.Generator
}

// NewHandler creates a new handler over the given collaborators.
func NewHandler(responseCache *cache.ResponseCache, engine *personalize.Engine, profiles core.ProfileStore, gen core.Generator) *Handler {
	return &Handler{
		cache:    responseCache,
		engine:   engine,
		profiles: profiles,
		gen:      gen,
	}
}

// ChatRequest is the payload for POST /v1/chat.
type ChatRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

// Chat handles POST /v1/chat: the tiered lookup with generation as the
// last resort.
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}
	if req.Query == "" {
		return handleError(c, core.NewInvalidRequestError("query is required", nil))
	}
	if req.UserID == "" {
		return handleError(c, core.NewInvalidRequestError("user_id is required", nil))
	}

	result, err := h.cache.GetOrGenerate(c.Request().Context(), req.Query, req.UserID, h.gen)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// PersonalizeRequest is the payload for POST /v1/personalize. Either a
// user_id (profile loaded from the store) or an inline profile is accepted;
// an inline profile wins when both are present.
type PersonalizeRequest struct {
	Query   string            `json:"query"`
	UserID  string            `json:"user_id,omitempty"`
	Profile *core.UserProfile `json:"profile,omitempty"`
}

// Personalize handles POST /v1/personalize: template filling only, never
// generation. A needs_ai result is a normal 200 response the caller acts on.
func (h *Handler) Personalize(c echo.Context) error {
	var req PersonalizeRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}
	if req.Query == "" {
		return handleError(c, core.NewInvalidRequestError("query is required", nil))
	}

	profile := req.Profile
	if profile == nil && req.UserID != "" {
		stored, err := h.profiles.Get(c.Request().Context(), req.UserID)
		if err != nil {
			return handleError(c, core.NewStorageError("failed to load profile", err))
		}
		profile = stored // may stay nil; the engine blanks missing fields
	}

	return c.JSON(http.StatusOK, h.engine.Personalize(req.Query, profile))
}

// CacheStats handles GET /v1/cache/stats
func (h *Handler) CacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cache.Stats())
}

// CacheSweep handles POST /v1/cache/sweep, removing expired entries from
// the exact and semantic stores.
func (h *Handler) CacheSweep(c echo.Context) error {
	h.cache.ClearExpired()
	return c.NoContent(http.StatusNoContent)
}

// GetProfile handles GET /v1/profiles/:id
func (h *Handler) GetProfile(c echo.Context) error {
	profile, err := h.profiles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, core.NewStorageError("failed to load profile", err))
	}
	if profile == nil {
		return handleError(c, core.NewNotFoundError("profile not found"))
	}
	return c.JSON(http.StatusOK, profile)
}

// PutProfile handles PUT /v1/profiles/:id
func (h *Handler) PutProfile(c echo.Context) error {
	var profile core.UserProfile
	if err := c.Bind(&profile); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}
	profile.UserID = c.Param("id")

	if err := h.profiles.Put(c.Request().Context(), &profile); err != nil {
		return handleError(c, core.NewStorageError("failed to store profile", err))
	}
	return c.JSON(http.StatusOK, profile)
}

// DeleteProfile handles DELETE /v1/profiles/:id
func (h *Handler) DeleteProfile(c echo.Context) error {
	if err := h.profiles.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, core.NewStorageError("failed to delete profile", err))
	}
	return c.NoContent(http.StatusNoContent)
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleError converts typed errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.HTTPStatusCode(), apiErr.ToJSON())
	}

	// Fallback for unexpected errors (e.g. raw generator failures)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
