package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"mehndi-album-backend/internal/models"
	"mehndi-album-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PhotoService orchestrates the photo lifecycle: blob write, optional AI
// enrichment, record persistence, and the matching teardown on delete.
type PhotoService struct {
	photos     PhotoStore
	blob       BlobStore
	captioner  Captioner
	rootFolder string
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos PhotoStore, blob BlobStore, captioner Captioner, rootFolder string) *PhotoService {
	return &PhotoService{
		photos:     photos,
		blob:       blob,
		captioner:  captioner,
		rootFolder: rootFolder,
	}
}

// UploadInput carries the upload form fields.
type UploadInput struct {
	Data        []byte
	Filename    string
	Caption     string
	Tags        []string
	AutoCaption bool
	AutoTags    bool
	PhotoDate   time.Time
}

// Upload writes the image to the blob store, optionally asks the captioner
// to describe it, and persists the photo record.
//
// Ordering: blob first, record second. If the record insert fails the
// already-written blob is left in place and logged; it is never rolled back
// or retried here.
func (s *PhotoService) Upload(ctx context.Context, userID string, in UploadInput) (*models.Photo, error) {
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("no image file provided: %w", ErrInvalidInput)
	}

	photoDate := in.PhotoDate
	if photoDate.IsZero() {
		photoDate = time.Now()
	}

	filename := in.Filename
	if filename == "" {
		filename = "photo"
	}

	// <root>/<user-id>/<YYYY-MM>, part of the storage contract.
	folder := fmt.Sprintf("%s/%s/%s", s.rootFolder, userID, photoDate.Format("2006-01"))
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filename)

	publicID, url, err := s.blob.Upload(ctx, in.Data, folder, name, http.DetectContentType(in.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	caption := in.Caption
	tags := in.Tags
	if in.AutoCaption || in.AutoTags {
		// Best-effort: Describe is total, so enrichment can degrade to the
		// fallback values but can never fail the upload.
		aiCaption, aiTags := s.captioner.Describe(ctx, url)
		if in.AutoCaption {
			caption = aiCaption
		}
		if in.AutoTags {
			tags = aiTags
		}
	}
	if tags == nil {
		tags = []string{}
	}

	photo := &models.Photo{
		ID:        uuid.New().String(),
		UserID:    userID,
		PublicID:  publicID,
		URL:       url,
		Folder:    folder,
		Caption:   caption,
		Tags:      tags,
		PhotoDate: photoDate,
		CreatedAt: time.Now(),
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		log.Error().
			Str("public_id", publicID).
			Str("user_id", userID).
			Msg("Photo record insert failed, blob left orphaned")
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	return photo, nil
}

// Delete removes a photo owned by the caller: blob first, then the record,
// so a failure between the two leaves a retryable record rather than a
// dangling blob. Missing and foreign photos are both ErrNotFound.
func (s *PhotoService) Delete(ctx context.Context, userID, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil || photo.UserID != userID {
		return ErrNotFound
	}

	if err := s.blob.Destroy(ctx, photo.PublicID); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete photo record: %w", err)
	}
	return nil
}

// BulkDelete deletes the given photos, each independently ownership-checked.
// All deletes are launched concurrently and awaited; there is no atomicity
// across the batch. Returns (deleted, failed) counts.
func (s *PhotoService) BulkDelete(ctx context.Context, userID string, photoIDs []string) (int, int) {
	var deleted, failed atomic.Int64
	var wg sync.WaitGroup

	for _, id := range photoIDs {
		wg.Add(1)
		go func(photoID string) {
			defer wg.Done()
			if err := s.Delete(ctx, userID, photoID); err != nil {
				log.Warn().Err(err).Str("photo_id", photoID).Msg("Bulk delete item failed")
				failed.Add(1)
				return
			}
			deleted.Add(1)
		}(id)
	}
	wg.Wait()

	return int(deleted.Load()), int(failed.Load())
}

// Update applies an ownership-checked partial update of caption and tags.
// Nil caption and nil tags each mean "keep".
func (s *PhotoService) Update(ctx context.Context, userID, photoID string, caption *string, tags []string) (*models.Photo, error) {
	photo, err := s.photos.Update(ctx, photoID, userID, caption, tags)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return photo, nil
}

// ListFilter describes the caller-facing photo search. From and To are
// calendar dates; To is inclusive of the whole day.
type ListFilter struct {
	From     *time.Time
	To       *time.Time
	Search   string
	Page     int
	PageSize int
}

// List returns the caller's photos matching the filter, newest photo date
// first, plus the total match count.
func (s *PhotoService) List(ctx context.Context, userID string, f ListFilter) ([]*models.Photo, int, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	repoFilter := repository.ListFilter{
		UserID: userID,
		From:   f.From,
		Search: f.Search,
		Limit:  size,
		Offset: (page - 1) * size,
	}
	if f.To != nil {
		// Push the exclusive upper bound one day past To so a single-day
		// filter captures the whole day.
		before := f.To.AddDate(0, 0, 1)
		repoFilter.Before = &before
	}

	photos, total, err := s.photos.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list photos: %w", err)
	}
	if photos == nil {
		photos = []*models.Photo{}
	}
	return photos, total, nil
}
