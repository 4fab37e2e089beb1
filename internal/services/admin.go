package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"mehndi-album-backend/internal/models"
	"mehndi-album-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// AdminService covers the destructive cross-user operations. They are
// authorized by a shared-secret email/password pair from configuration, not
// by the session system.
type AdminService struct {
	users  UserStore
	photos PhotoStore
	albums AlbumStore
	blob   BlobStore

	adminEmail    string
	adminPassword string
}

// NewAdminService creates a new admin service
func NewAdminService(users UserStore, photos PhotoStore, albums AlbumStore, blob BlobStore, adminEmail, adminPassword string) *AdminService {
	return &AdminService{
		users:         users,
		photos:        photos,
		albums:        albums,
		blob:          blob,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
	}
}

// Authorize checks the shared-secret pair in constant time.
func (s *AdminService) Authorize(email, password string) error {
	if s.adminEmail == "" || s.adminPassword == "" {
		return ErrUnauthorized
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !emailOK || !passOK {
		return ErrUnauthorized
	}
	return nil
}

// ListUsers returns every user with their photo count, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.UserWithPhotoCount, error) {
	users, err := s.users.ListWithPhotoCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*models.UserWithPhotoCount{}
	}
	return users, nil
}

// DeleteUser cascades: every blob of the user's photos is destroyed, then
// the photo records, albums and finally the user record are deleted. No
// photo or album referencing the user survives.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	photos, err := s.photos.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list user photos: %w", err)
	}

	// Blobs first, records second, same policy as single deletes. Blob
	// failures are logged and skipped so one stuck object cannot block the
	// cascade.
	var wg sync.WaitGroup
	for _, photo := range photos {
		wg.Add(1)
		go func(publicID string) {
			defer wg.Done()
			if err := s.blob.Destroy(ctx, publicID); err != nil {
				log.Warn().Err(err).Str("public_id", publicID).Msg("Failed to destroy blob during user cascade")
			}
		}(photo.PublicID)
	}
	wg.Wait()

	if err := s.photos.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user photos: %w", err)
	}
	if err := s.albums.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user albums: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info().Str("user_id", userID).Int("photos", len(photos)).Msg("User and all data deleted")
	return nil
}

// ListPhotos returns every photo in the system with its owner's name and
// email, newest first.
func (s *AdminService) ListPhotos(ctx context.Context) ([]*models.PhotoWithOwner, error) {
	photos, err := s.photos.ListAllWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	if photos == nil {
		photos = []*models.PhotoWithOwner{}
	}
	return photos, nil
}

// BulkDeletePhotos deletes photos by id across all owners, blob then record
// per item, concurrently. Returns (deleted, failed) counts.
func (s *AdminService) BulkDeletePhotos(ctx context.Context, photoIDs []string) (int, int) {
	var deleted, failed atomic.Int64
	var wg sync.WaitGroup

	for _, id := range photoIDs {
		wg.Add(1)
		go func(photoID string) {
			defer wg.Done()
			if err := s.deletePhoto(ctx, photoID); err != nil {
				log.Warn().Err(err).Str("photo_id", photoID).Msg("Admin bulk delete item failed")
				failed.Add(1)
				return
			}
			deleted.Add(1)
		}(id)
	}
	wg.Wait()

	return int(deleted.Load()), int(failed.Load())
}

func (s *AdminService) deletePhoto(ctx context.Context, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if err := s.blob.Destroy(ctx, photo.PublicID); err != nil {
		return err
	}
	return s.photos.Delete(ctx, photoID)
}
