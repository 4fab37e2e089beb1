package services

import (
	"context"

	"mehndi-album-backend/internal/models"
	"mehndi-album-backend/internal/repository"
)

// UserStore is the slice of the user repository the services consume.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListWithPhotoCounts(ctx context.Context) ([]*models.UserWithPhotoCount, error)
	Delete(ctx context.Context, id string) error
}

// PhotoStore is the slice of the photo repository the services consume.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*models.Photo, int, error)
	Update(ctx context.Context, id, userID string, caption *string, tags []string) (*models.Photo, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Photo, error)
	DeleteByUser(ctx context.Context, userID string) error
	ListAllWithOwner(ctx context.Context) ([]*models.PhotoWithOwner, error)
}

// AlbumStore is the slice of the album repository the services consume.
type AlbumStore interface {
	Create(ctx context.Context, album *models.Album) error
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Album, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Album, error)
	Update(ctx context.Context, id, userID string, name, description *string) (*models.Album, error)
	Delete(ctx context.Context, id, userID string) error
	AddPhoto(ctx context.Context, albumID, photoID string) error
	RemovePhoto(ctx context.Context, albumID, photoID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// BlobStore writes and destroys image objects in external object storage.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, folder, name, contentType string) (string, string, error)
	Destroy(ctx context.Context, key string) error
}

// Captioner describes an image. It is total: it always produces a caption
// and a non-empty tag list, never an error.
type Captioner interface {
	Describe(ctx context.Context, imageURL string) (string, []string)
}
