package repository

import (
	"context"
	"errors"
	"fmt"

	"mehndi-album-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AlbumRepository handles database operations for albums and their photo
// memberships.
type AlbumRepository struct {
	db *pgxpool.Pool
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository(db *pgxpool.Pool) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Create creates a new album
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	query := `
		INSERT INTO albums (id, user_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		album.ID, album.UserID, album.Name, album.Description, album.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

// GetByIDForUser retrieves an album owned by the given user with its member
// photos expanded in insertion order. A missing album and an album owned by
// someone else are both ErrNotFound.
func (r *AlbumRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Album, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM albums
		WHERE id = $1 AND user_id = $2
	`
	var album models.Album
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&album.ID, &album.UserID, &album.Name, &album.Description, &album.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("album %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	if err := r.expandPhotos(ctx, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// ListByUser retrieves all albums owned by a user with member photos
// expanded.
func (r *AlbumRepository) ListByUser(ctx context.Context, userID string) ([]*models.Album, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM albums
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	var albums []*models.Album
	for rows.Next() {
		var album models.Album
		err := rows.Scan(&album.ID, &album.UserID, &album.Name, &album.Description, &album.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, &album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating albums: %w", err)
	}

	for _, album := range albums {
		if err := r.expandPhotos(ctx, album); err != nil {
			return nil, err
		}
	}
	return albums, nil
}

// expandPhotos loads the album's member photos in membership position order.
func (r *AlbumRepository) expandPhotos(ctx context.Context, album *models.Album) error {
	query := `
		SELECT p.id, p.user_id, p.public_id, p.url, p.folder, p.caption, p.tags,
		       p.photo_date, p.created_at
		FROM album_photos ap
		JOIN photos p ON p.id = ap.photo_id
		WHERE ap.album_id = $1
		ORDER BY ap.position
	`
	rows, err := r.db.Query(ctx, query, album.ID)
	if err != nil {
		return fmt.Errorf("failed to load album photos: %w", err)
	}
	defer rows.Close()

	photos, err := collectPhotos(rows)
	if err != nil {
		return err
	}
	if photos == nil {
		photos = []*models.Photo{}
	}
	album.Photos = photos
	return nil
}

// Update applies a partial name/description update scoped to the owner and
// returns the updated album with photos expanded. Nil means keep.
func (r *AlbumRepository) Update(ctx context.Context, id, userID string, name, description *string) (*models.Album, error) {
	if name == nil && description == nil {
		return r.GetByIDForUser(ctx, id, userID)
	}

	upd := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("albums").
		Where(sq.Eq{"id": id, "user_id": userID})
	if name != nil {
		upd = upd.Set("name", *name)
	}
	if description != nil {
		upd = upd.Set("description", *description)
	}

	query, args, err := upd.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("album %s: %w", id, ErrNotFound)
	}
	return r.GetByIDForUser(ctx, id, userID)
}

// Delete deletes an album owned by the given user. Memberships go with it;
// photo records are untouched.
func (r *AlbumRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM albums WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("album %s: %w", id, ErrNotFound)
	}
	return nil
}

// AddPhoto appends a photo to the album's membership list. A photo already
// in the album yields ErrDuplicate.
func (r *AlbumRepository) AddPhoto(ctx context.Context, albumID, photoID string) error {
	query := `
		INSERT INTO album_photos (album_id, photo_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1
		FROM album_photos
		WHERE album_id = $1
	`
	_, err := r.db.Exec(ctx, query, albumID, photoID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("photo already in album: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to add photo to album: %w", err)
	}
	return nil
}

// RemovePhoto removes a photo from the album's membership list. Removing a
// photo that is not a member is a no-op.
func (r *AlbumRepository) RemovePhoto(ctx context.Context, albumID, photoID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM album_photos WHERE album_id = $1 AND photo_id = $2`, albumID, photoID)
	if err != nil {
		return fmt.Errorf("failed to remove photo from album: %w", err)
	}
	return nil
}

// DeleteByUser deletes all albums owned by a user.
func (r *AlbumRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM albums WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete albums by user: %w", err)
	}
	return nil
}
