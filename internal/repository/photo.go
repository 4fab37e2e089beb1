package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mehndi-album-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilter describes an owner-scoped photo search. From is an inclusive
// lower bound on photo_date, Before an exclusive upper bound. Search matches
// caption or tag substrings case-insensitively.
type ListFilter struct {
	UserID string
	From   *time.Time
	Before *time.Time
	Search string
	Limit  int
	Offset int
}

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create creates a new photo
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	query := `
		INSERT INTO photos (id, user_id, public_id, url, folder, caption, tags, photo_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		photo.ID, photo.UserID, photo.PublicID, photo.URL, photo.Folder,
		photo.Caption, photo.Tags, photo.PhotoDate, photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

const photoColumns = `id, user_id, public_id, url, folder, caption, tags, photo_date, created_at`

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var p models.Photo
	err := row.Scan(
		&p.ID, &p.UserID, &p.PublicID, &p.URL, &p.Folder,
		&p.Caption, &p.Tags, &p.PhotoDate, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// GetByID retrieves a photo by ID regardless of owner. Callers scope access
// themselves.
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	photo, err := scanPhoto(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

// buildListQuery turns a ListFilter into the paginated select and the
// matching count query. Sort order is photo_date descending with created_at
// descending breaking ties.
func buildListQuery(f ListFilter) (sq.SelectBuilder, sq.SelectBuilder) {
	pred := sq.And{sq.Eq{"user_id": f.UserID}}
	if f.From != nil {
		pred = append(pred, sq.GtOrEq{"photo_date": *f.From})
	}
	if f.Before != nil {
		pred = append(pred, sq.Lt{"photo_date": *f.Before})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		pred = append(pred, sq.Or{
			sq.ILike{"caption": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE ?)", pattern),
		})
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	list := psql.Select(photoColumns).
		From("photos").
		Where(pred).
		OrderBy("photo_date DESC", "created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))
	count := psql.Select("COUNT(*)").From("photos").Where(pred)
	return list, count
}

// List retrieves photos matching the filter along with the total match count.
func (r *PhotoRepository) List(ctx context.Context, f ListFilter) ([]*models.Photo, int, error) {
	listQ, countQ := buildListQuery(f)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count photos: %w", err)
	}

	listSQL, listArgs, err := listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}
	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos, err := collectPhotos(rows)
	if err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

func collectPhotos(rows pgx.Rows) ([]*models.Photo, error) {
	var photos []*models.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return photos, nil
}

// Update applies a partial caption/tags update scoped to the owner. Nil
// means keep the stored value. Returns the updated photo.
func (r *PhotoRepository) Update(ctx context.Context, id, userID string, caption *string, tags []string) (*models.Photo, error) {
	upd := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("photos").
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + photoColumns)
	if caption != nil {
		upd = upd.Set("caption", *caption)
	}
	if tags != nil {
		upd = upd.Set("tags", tags)
	}
	if caption == nil && tags == nil {
		return r.getOwned(ctx, id, userID)
	}

	query, args, err := upd.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}
	photo, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return photo, nil
}

func (r *PhotoRepository) getOwned(ctx context.Context, id, userID string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1 AND user_id = $2`
	photo, err := scanPhoto(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

// Delete deletes a photo record by ID
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("photo %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListByUser retrieves every photo owned by a user, newest photo_date first.
func (r *PhotoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE user_id = $1 ORDER BY photo_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos by user: %w", err)
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// DeleteByUser deletes all photo records owned by a user.
func (r *PhotoRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM photos WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete photos by user: %w", err)
	}
	return nil
}

// ListAllWithOwner retrieves every photo in the system with owner name and
// email attached, newest first.
func (r *PhotoRepository) ListAllWithOwner(ctx context.Context) ([]*models.PhotoWithOwner, error) {
	query := `
		SELECT p.id, p.user_id, p.public_id, p.url, p.folder, p.caption, p.tags,
		       p.photo_date, p.created_at, u.name, u.email
		FROM photos p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.PhotoWithOwner
	for rows.Next() {
		var p models.PhotoWithOwner
		err := rows.Scan(
			&p.ID, &p.UserID, &p.PublicID, &p.URL, &p.Folder, &p.Caption, &p.Tags,
			&p.PhotoDate, &p.CreatedAt, &p.OwnerName, &p.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		photos = append(photos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return photos, nil
}
