package handlers

import (
	"net/http"

	"mehndi-album-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AdminHandler handles the shared-secret admin endpoints. Every request
// carries the admin email/password in its body; the session system is not
// involved.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

type adminCredentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type adminDeleteUserRequest struct {
	adminCredentials
	UserID string `json:"user_id" validate:"required"`
}

type adminBulkDeleteRequest struct {
	adminCredentials
	PhotoIDs []string `json:"photo_ids" validate:"required,min=1"`
}

// ListUsers handles POST /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var req adminCredentials
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := h.adminService.Authorize(req.Email, req.Password); err != nil {
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_count": len(users),
		"users":      users,
	})
}

// DeleteUser handles POST /api/v1/admin/delete-user
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req adminDeleteUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "User ID required", http.StatusBadRequest)
		return
	}
	if err := h.adminService.Authorize(req.Email, req.Password); err != nil {
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), req.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "User and all data deleted successfully"})
}

// ListPhotos handles POST /api/v1/admin/photos
func (h *AdminHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	var req adminCredentials
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := h.adminService.Authorize(req.Email, req.Password); err != nil {
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	photos, err := h.adminService.ListPhotos(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list all photos")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"photos": photos})
}

// BulkDeletePhotos handles POST /api/v1/admin/delete-photos
func (h *AdminHandler) BulkDeletePhotos(w http.ResponseWriter, r *http.Request) {
	var req adminBulkDeleteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Photo IDs required", http.StatusBadRequest)
		return
	}
	if err := h.adminService.Authorize(req.Email, req.Password); err != nil {
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	deleted, failed := h.adminService.BulkDeletePhotos(r.Context(), req.PhotoIDs)

	log.Info().Int("deleted", deleted).Int("failed", failed).Msg("Admin bulk delete finished")
	respondJSON(w, http.StatusOK, map[string]any{
		"deleted": deleted,
		"failed":  failed,
	})
}
