package services

import (
	"context"
	"testing"

	"mehndi-album-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlbumFixture(t *testing.T) (*AlbumService, *fakeAlbumStore, *fakePhotoStore) {
	t.Helper()
	albums := newFakeAlbumStore()
	photos := newFakePhotoStore()
	return NewAlbumService(albums, photos), albums, photos
}

func TestAlbumCreate_RequiresName(t *testing.T) {
	svc, _, _ := newAlbumFixture(t)

	_, err := svc.Create(context.Background(), "u1", "", "desc")
	assert.ErrorIs(t, err, ErrInvalidInput)

	album, err := svc.Create(context.Background(), "u1", "Wedding", "bridal shots")
	require.NoError(t, err)
	assert.Equal(t, "Wedding", album.Name)
	assert.Empty(t, album.Photos)
}

func TestAddPhoto_DuplicateMembership(t *testing.T) {
	svc, albums, photos := newAlbumFixture(t)
	albums.albums["a1"] = &models.Album{ID: "a1", UserID: "u1", Name: "Wedding"}
	photos.photos["p1"] = &models.Photo{ID: "p1", UserID: "u1"}

	album, err := svc.AddPhoto(context.Background(), "u1", "a1", "p1")
	require.NoError(t, err)
	assert.Len(t, album.Photos, 1)

	_, err = svc.AddPhoto(context.Background(), "u1", "a1", "p1")
	assert.ErrorIs(t, err, ErrAlreadyInAlbum)

	// Membership still holds the photo exactly once.
	album, err = svc.Get(context.Background(), "u1", "a1")
	require.NoError(t, err)
	assert.Len(t, album.Photos, 1)
}

func TestAddPhoto_ForeignAlbumOrPhoto_NotFound(t *testing.T) {
	svc, albums, photos := newAlbumFixture(t)
	albums.albums["a1"] = &models.Album{ID: "a1", UserID: "other"}
	photos.photos["p1"] = &models.Photo{ID: "p1", UserID: "u1"}
	photos.photos["p2"] = &models.Photo{ID: "p2", UserID: "other"}
	albums.albums["a2"] = &models.Album{ID: "a2", UserID: "u1"}

	_, err := svc.AddPhoto(context.Background(), "u1", "a1", "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddPhoto(context.Background(), "u1", "a2", "p2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddPhoto(context.Background(), "u1", "a2", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemovePhoto_NonMemberIsNoOp(t *testing.T) {
	svc, albums, photos := newAlbumFixture(t)
	albums.albums["a1"] = &models.Album{ID: "a1", UserID: "u1"}
	photos.photos["p1"] = &models.Photo{ID: "p1", UserID: "u1"}

	_, err := svc.AddPhoto(context.Background(), "u1", "a1", "p1")
	require.NoError(t, err)

	// Removing a photo that was never added succeeds and changes nothing.
	album, err := svc.RemovePhoto(context.Background(), "u1", "a1", "ghost")
	require.NoError(t, err)
	assert.Len(t, album.Photos, 1)

	album, err = svc.RemovePhoto(context.Background(), "u1", "a1", "p1")
	require.NoError(t, err)
	assert.Empty(t, album.Photos)
}

func TestRemovePhoto_ForeignAlbum_NotFound(t *testing.T) {
	svc, albums, _ := newAlbumFixture(t)
	albums.albums["a1"] = &models.Album{ID: "a1", UserID: "other"}

	_, err := svc.RemovePhoto(context.Background(), "u1", "a1", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAlbumDelete_LeavesPhotoRecords(t *testing.T) {
	svc, albums, photos := newAlbumFixture(t)
	albums.albums["a1"] = &models.Album{ID: "a1", UserID: "u1"}
	photos.photos["p1"] = &models.Photo{ID: "p1", UserID: "u1"}
	photos.photos["p2"] = &models.Photo{ID: "p2", UserID: "u1"}

	_, err := svc.AddPhoto(context.Background(), "u1", "a1", "p1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u1", "a1"))

	_, err = svc.Get(context.Background(), "u1", "a1")
	assert.ErrorIs(t, err, ErrNotFound)
	// Member photos survive album deletion.
	assert.Equal(t, 2, photos.count())
}

func TestAlbumUpdate_PartialAndOwnershipChecked(t *testing.T) {
	svc, albums, _ := newAlbumFixture(t)
	albums.albums["a1"] = &models.Album{ID: "a1", UserID: "u1", Name: "Old", Description: "old desc"}

	name := "New"
	album, err := svc.Update(context.Background(), "u1", "a1", &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "New", album.Name)
	assert.Equal(t, "old desc", album.Description)

	empty := ""
	_, err = svc.Update(context.Background(), "u1", "a1", &empty, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(context.Background(), "intruder", "a1", &name, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
