package handlers

import (
	"net/http"

	"mehndi-album-backend/internal/middleware"
	"mehndi-album-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AlbumHandler handles album-related HTTP requests
type AlbumHandler struct {
	albumService *services.AlbumService
}

// NewAlbumHandler creates a new album handler
func NewAlbumHandler(albumService *services.AlbumService) *AlbumHandler {
	return &AlbumHandler{
		albumService: albumService,
	}
}

// List handles GET /api/v1/albums
func (h *AlbumHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	albums, err := h.albumService.List(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list albums")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"albums": albums})
}

type createAlbumRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/albums
func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req createAlbumRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Album name is required", http.StatusBadRequest)
		return
	}

	album, err := h.albumService.Create(ctx, userID, req.Name, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("album_id", album.ID).Msg("Album created")
	respondJSON(w, http.StatusCreated, map[string]any{"album": album})
}

// Get handles GET /api/v1/albums/{id}
func (h *AlbumHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "id")

	album, err := h.albumService.Get(ctx, userID, albumID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"album": album})
}

type updateAlbumRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Update handles PUT /api/v1/albums/{id}
func (h *AlbumHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "id")

	var req updateAlbumRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	album, err := h.albumService.Update(ctx, userID, albumID, req.Name, req.Description)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"album": album})
}

// Delete handles DELETE /api/v1/albums/{id}
func (h *AlbumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "id")

	if err := h.albumService.Delete(ctx, userID, albumID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Album deleted successfully"})
}

type albumPhotoRequest struct {
	PhotoID string `json:"photo_id" validate:"required"`
}

// AddPhoto handles POST /api/v1/albums/{id}/photos
func (h *AlbumHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "id")

	var req albumPhotoRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Photo ID is required", http.StatusBadRequest)
		return
	}

	album, err := h.albumService.AddPhoto(ctx, userID, albumID, req.PhotoID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Photo added to album",
		"album":   album,
	})
}

// RemovePhoto handles DELETE /api/v1/albums/{id}/photos
func (h *AlbumHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	albumID := chi.URLParam(r, "id")

	var req albumPhotoRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Photo ID is required", http.StatusBadRequest)
		return
	}

	album, err := h.albumService.RemovePhoto(ctx, userID, albumID, req.PhotoID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Photo removed from album",
		"album":   album,
	})
}
