package services

import (
	"context"
	"fmt"
	"sync"

	"mehndi-album-backend/internal/models"
	"mehndi-album-backend/internal/repository"
)

// In-memory collaborator fakes. Bulk operations run concurrently, so every
// fake guards its state with a mutex.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return fmt.Errorf("email already registered: %w", repository.ErrDuplicate)
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) ListWithPhotoCounts(_ context.Context) ([]*models.UserWithPhotoCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.UserWithPhotoCount
	for _, u := range f.users {
		out = append(out, &models.UserWithPhotoCount{User: *u})
	}
	return out, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakePhotoStore struct {
	mu         sync.Mutex
	photos     map[string]*models.Photo
	createErr  error
	lastFilter repository.ListFilter
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{photos: make(map[string]*models.Photo)}
}

func (f *fakePhotoStore) Create(_ context.Context, photo *models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.photos[photo.ID] = photo
	return nil
}

func (f *fakePhotoStore) GetByID(_ context.Context, id string) (*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	photo, ok := f.photos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return photo, nil
}

func (f *fakePhotoStore) List(_ context.Context, filter repository.ListFilter) ([]*models.Photo, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	var out []*models.Photo
	for _, p := range f.photos {
		if p.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && p.PhotoDate.Before(*filter.From) {
			continue
		}
		if filter.Before != nil && !p.PhotoDate.Before(*filter.Before) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakePhotoStore) Update(_ context.Context, id, userID string, caption *string, tags []string) (*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	photo, ok := f.photos[id]
	if !ok || photo.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if caption != nil {
		photo.Caption = *caption
	}
	if tags != nil {
		photo.Tags = tags
	}
	return photo, nil
}

func (f *fakePhotoStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.photos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.photos, id)
	return nil
}

func (f *fakePhotoStore) ListByUser(_ context.Context, userID string) ([]*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Photo
	for _, p := range f.photos {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePhotoStore) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.photos {
		if p.UserID == userID {
			delete(f.photos, id)
		}
	}
	return nil
}

func (f *fakePhotoStore) ListAllWithOwner(_ context.Context) ([]*models.PhotoWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.PhotoWithOwner
	for _, p := range f.photos {
		out = append(out, &models.PhotoWithOwner{Photo: *p})
	}
	return out, nil
}

func (f *fakePhotoStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.photos)
}

type fakeAlbumStore struct {
	mu      sync.Mutex
	albums  map[string]*models.Album
	members map[string][]string // album id -> photo ids in insertion order
}

func newFakeAlbumStore() *fakeAlbumStore {
	return &fakeAlbumStore{
		albums:  make(map[string]*models.Album),
		members: make(map[string][]string),
	}
}

func (f *fakeAlbumStore) Create(_ context.Context, album *models.Album) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.albums[album.ID] = album
	return nil
}

func (f *fakeAlbumStore) GetByIDForUser(_ context.Context, id, userID string) (*models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	album, ok := f.albums[id]
	if !ok || album.UserID != userID {
		return nil, repository.ErrNotFound
	}
	expanded := *album
	expanded.Photos = []*models.Photo{}
	for _, photoID := range f.members[id] {
		expanded.Photos = append(expanded.Photos, &models.Photo{ID: photoID, UserID: userID})
	}
	return &expanded, nil
}

func (f *fakeAlbumStore) ListByUser(_ context.Context, userID string) ([]*models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Album
	for _, a := range f.albums {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlbumStore) Update(_ context.Context, id, userID string, name, description *string) (*models.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	album, ok := f.albums[id]
	if !ok || album.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if name != nil {
		album.Name = *name
	}
	if description != nil {
		album.Description = *description
	}
	return album, nil
}

func (f *fakeAlbumStore) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	album, ok := f.albums[id]
	if !ok || album.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.albums, id)
	delete(f.members, id)
	return nil
}

func (f *fakeAlbumStore) AddPhoto(_ context.Context, albumID, photoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.members[albumID] {
		if id == photoID {
			return fmt.Errorf("photo already in album: %w", repository.ErrDuplicate)
		}
	}
	f.members[albumID] = append(f.members[albumID], photoID)
	return nil
}

func (f *fakeAlbumStore) RemovePhoto(_ context.Context, albumID, photoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.members[albumID]
	for i, id := range ids {
		if id == photoID {
			f.members[albumID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAlbumStore) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.albums {
		if a.UserID == userID {
			delete(f.albums, id)
			delete(f.members, id)
		}
	}
	return nil
}

type fakeBlobStore struct {
	mu         sync.Mutex
	uploads    []string
	destroyed  []string
	uploadErr  error
	destroyErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{}
}

func (f *fakeBlobStore) Upload(_ context.Context, _ []byte, folder, name, _ string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}
	key := folder + "/" + name
	f.uploads = append(f.uploads, key)
	return key, "https://blobs.test/" + key, nil
}

func (f *fakeBlobStore) Destroy(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed = append(f.destroyed, key)
	return nil
}

func (f *fakeBlobStore) destroyedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.destroyed...)
}

type fakeCaptioner struct {
	caption string
	tags    []string
	calls   int
}

func (f *fakeCaptioner) Describe(_ context.Context, _ string) (string, []string) {
	f.calls++
	return f.caption, f.tags
}
