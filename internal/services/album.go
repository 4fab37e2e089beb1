package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mehndi-album-backend/internal/models"
	"mehndi-album-backend/internal/repository"

	"github.com/google/uuid"
)

// AlbumService maintains user-owned albums and their photo memberships.
type AlbumService struct {
	albums AlbumStore
	photos PhotoStore
}

// NewAlbumService creates a new album service
func NewAlbumService(albums AlbumStore, photos PhotoStore) *AlbumService {
	return &AlbumService{
		albums: albums,
		photos: photos,
	}
}

// Create creates a new, empty album. Name is required.
func (s *AlbumService) Create(ctx context.Context, userID, name, description string) (*models.Album, error) {
	if name == "" {
		return nil, fmt.Errorf("album name is required: %w", ErrInvalidInput)
	}

	album := &models.Album{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Photos:      []*models.Photo{},
		CreatedAt:   time.Now(),
	}

	if err := s.albums.Create(ctx, album); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}
	return album, nil
}

// Get returns one of the caller's albums with member photos expanded.
func (s *AlbumService) Get(ctx context.Context, userID, albumID string) (*models.Album, error) {
	album, err := s.albums.GetByIDForUser(ctx, albumID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return album, nil
}

// List returns all of the caller's albums with member photos expanded.
func (s *AlbumService) List(ctx context.Context, userID string) ([]*models.Album, error) {
	albums, err := s.albums.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	if albums == nil {
		albums = []*models.Album{}
	}
	return albums, nil
}

// AddPhoto appends a photo to an album. Both records must exist and belong
// to the caller; a photo already in the album yields ErrAlreadyInAlbum.
func (s *AlbumService) AddPhoto(ctx context.Context, userID, albumID, photoID string) (*models.Album, error) {
	if _, err := s.albums.GetByIDForUser(ctx, albumID, userID); err != nil {
		return nil, ErrNotFound
	}

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil || photo.UserID != userID {
		return nil, ErrNotFound
	}

	if err := s.albums.AddPhoto(ctx, albumID, photoID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInAlbum
		}
		return nil, fmt.Errorf("failed to add photo to album: %w", err)
	}

	return s.Get(ctx, userID, albumID)
}

// RemovePhoto removes a photo from an album. Removing a photo that is not a
// member succeeds silently.
func (s *AlbumService) RemovePhoto(ctx context.Context, userID, albumID, photoID string) (*models.Album, error) {
	if _, err := s.albums.GetByIDForUser(ctx, albumID, userID); err != nil {
		return nil, ErrNotFound
	}

	if err := s.albums.RemovePhoto(ctx, albumID, photoID); err != nil {
		return nil, fmt.Errorf("failed to remove photo from album: %w", err)
	}

	return s.Get(ctx, userID, albumID)
}

// Update applies an ownership-checked partial update of name/description.
func (s *AlbumService) Update(ctx context.Context, userID, albumID string, name, description *string) (*models.Album, error) {
	if name != nil && *name == "" {
		return nil, fmt.Errorf("album name is required: %w", ErrInvalidInput)
	}

	album, err := s.albums.Update(ctx, albumID, userID, name, description)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update album: %w", err)
	}
	return album, nil
}

// Delete removes the album record and its memberships. Member photo records
// are never touched.
func (s *AlbumService) Delete(ctx context.Context, userID, albumID string) error {
	if err := s.albums.Delete(ctx, albumID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete album: %w", err)
	}
	return nil
}
