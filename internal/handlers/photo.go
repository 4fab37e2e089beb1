package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mehndi-album-backend/internal/middleware"
	"mehndi-album-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 32 << 20

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
	captioner    services.Captioner
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService, captioner services.Captioner) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		captioner:    captioner,
	}
}

// List handles GET /api/v1/photos
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var filter services.ListFilter
	q := r.URL.Query()

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.PageSize = limit
	}
	filter.Search = q.Get("search")

	if from := q.Get("from_date"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			respondError(w, "Invalid from_date", http.StatusBadRequest)
			return
		}
		filter.From = &t
	}
	if to := q.Get("to_date"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			respondError(w, "Invalid to_date", http.StatusBadRequest)
			return
		}
		filter.To = &t
	}

	photos, total, err := h.photoService.List(ctx, userID, filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list photos")
		respondServiceError(w, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.PageSize
	if limit <= 0 {
		limit = 20
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"photos": photos,
		"pagination": map[string]any{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + limit - 1) / limit,
		},
	})
}

// Upload handles POST /api/v1/photos
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	in := services.UploadInput{
		Data:        data,
		Filename:    header.Filename,
		Caption:     r.FormValue("caption"),
		AutoCaption: r.FormValue("auto_caption") == "true",
		AutoTags:    r.FormValue("auto_tags") == "true",
	}
	if tags := r.FormValue("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				in.Tags = append(in.Tags, tag)
			}
		}
	}
	if dateStr := r.FormValue("photo_date"); dateStr != "" {
		t, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, "Invalid photo_date", http.StatusBadRequest)
			return
		}
		in.PhotoDate = t
	}

	photo, err := h.photoService.Upload(ctx, userID, in)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("filename", header.Filename).Msg("Upload failed")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", photo.ID).
		Str("folder", photo.Folder).
		Msg("Photo uploaded")

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Upload successful",
		"photo":   photo,
	})
}

type updatePhotoRequest struct {
	Caption *string  `json:"caption"`
	Tags    []string `json:"tags"`
}

// Update handles PUT /api/v1/photos/{id}
func (h *PhotoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	photoID := chi.URLParam(r, "id")

	var req updatePhotoRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.Update(ctx, userID, photoID, req.Caption, req.Tags)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"photo": photo})
}

// Delete handles DELETE /api/v1/photos/{id}
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	photoID := chi.URLParam(r, "id")

	if err := h.photoService.Delete(ctx, userID, photoID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Photo deleted successfully"})
}

type bulkDeleteRequest struct {
	PhotoIDs []string `json:"photo_ids" validate:"required,min=1"`
}

// BulkDelete handles POST /api/v1/photos/bulk-delete
func (h *PhotoHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req bulkDeleteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Photo IDs required", http.StatusBadRequest)
		return
	}

	deleted, failed := h.photoService.BulkDelete(ctx, userID, req.PhotoIDs)

	log.Info().
		Str("user_id", userID).
		Int("deleted", deleted).
		Int("failed", failed).
		Msg("Bulk delete finished")

	respondJSON(w, http.StatusOK, map[string]any{
		"deleted": deleted,
		"failed":  failed,
	})
}

type generateCaptionRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// GenerateCaption handles POST /api/v1/generate-caption
func (h *PhotoHandler) GenerateCaption(w http.ResponseWriter, r *http.Request) {
	var req generateCaptionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, "Image URL is required", http.StatusBadRequest)
		return
	}

	caption, tags := h.captioner.Describe(r.Context(), req.ImageURL)
	respondJSON(w, http.StatusOK, map[string]any{
		"caption": caption,
		"tags":    tags,
	})
}
