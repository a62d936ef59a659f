package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/markyai/studio-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageStore struct {
	mu        sync.Mutex
	records   map[string][]models.GeneratedImage
	saved     chan models.GeneratedImage
	deleteErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{
		records: make(map[string][]models.GeneratedImage),
		saved:   make(chan models.GeneratedImage, 8),
	}
}

func (f *fakeImageStore) Save(ctx context.Context, image *models.GeneratedImage) (string, error) {
	f.mu.Lock()
	f.records[image.UserID] = append([]models.GeneratedImage{*image}, f.records[image.UserID]...)
	f.mu.Unlock()
	f.saved <- *image
	return image.ID, nil
}

func (f *fakeImageStore) List(ctx context.Context, userID string) ([]models.GeneratedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.GeneratedImage, len(f.records[userID]))
	copy(out, f.records[userID])
	return out, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, userID, imageID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.records[userID]
	for i := range list {
		if list[i].ID == imageID {
			f.records[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrImageNotFound
}

func testImage(id, prompt string) *models.GeneratedImage {
	return &models.GeneratedImage{
		ID:        id,
		Prompt:    prompt,
		ImageURL:  "data:image/png;base64,aGk=",
		Timestamp: time.Now().UTC(),
	}
}

func awaitSave(t *testing.T, store *fakeImageStore) models.GeneratedImage {
	t.Helper()
	select {
	case img := <-store.saved:
		return img
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async store write")
		return models.GeneratedImage{}
	}
}

func TestGalleryRequiresOwner(t *testing.T) {
	g := NewGallery(newFakeImageStore())

	assert.ErrorIs(t, g.Add(context.Background(), "", testImage("a", "x")), ErrUnauthenticated)
	assert.ErrorIs(t, g.Remove(context.Background(), "", "a"), ErrUnauthenticated)
	_, err := g.Images(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGalleryAddInsertsNewestFirst(t *testing.T) {
	store := newFakeImageStore()
	g := NewGallery(store)
	ctx := context.Background()

	require.NoError(t, g.Add(ctx, "user-1", testImage("first", "sunrise")))
	awaitSave(t, store)
	require.NoError(t, g.Add(ctx, "user-1", testImage("second", "sunset")))
	awaitSave(t, store)

	images, err := g.Images(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "second", images[0].ID)
	assert.Equal(t, "first", images[1].ID)
	assert.Equal(t, "user-1", images[0].UserID)
}

func TestGalleryAddMirrorsToStoreAsync(t *testing.T) {
	store := newFakeImageStore()
	g := NewGallery(store)

	require.NoError(t, g.Add(context.Background(), "user-1", testImage("a", "x")))

	saved := awaitSave(t, store)
	assert.Equal(t, "a", saved.ID)
	assert.Equal(t, "user-1", saved.UserID)
}

func TestGalleryListsAreIsolatedPerUser(t *testing.T) {
	store := newFakeImageStore()
	g := NewGallery(store)
	ctx := context.Background()

	require.NoError(t, g.Add(ctx, "alice", testImage("a", "x")))
	awaitSave(t, store)
	require.NoError(t, g.Add(ctx, "bob", testImage("b", "y")))
	awaitSave(t, store)

	aliceImages, err := g.Images(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceImages, 1)
	assert.Equal(t, "a", aliceImages[0].ID)

	bobImages, err := g.Images(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobImages, 1)
	assert.Equal(t, "b", bobImages[0].ID)
}

func TestGalleryRemove(t *testing.T) {
	store := newFakeImageStore()
	g := NewGallery(store)
	ctx := context.Background()

	require.NoError(t, g.Add(ctx, "user-1", testImage("a", "x")))
	awaitSave(t, store)
	require.NoError(t, g.Add(ctx, "user-1", testImage("b", "y")))
	awaitSave(t, store)

	require.NoError(t, g.Remove(ctx, "user-1", "a"))

	images, err := g.Images(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "b", images[0].ID)
}

func TestGalleryRemoveReloadsOnRemoteFailure(t *testing.T) {
	store := newFakeImageStore()
	g := NewGallery(store)
	ctx := context.Background()

	require.NoError(t, g.Add(ctx, "user-1", testImage("a", "x")))
	awaitSave(t, store)

	// Remote delete fails: the local removal must be rolled back by
	// reloading the list from the store.
	store.deleteErr = errors.New("store unavailable")
	require.NoError(t, g.Remove(ctx, "user-1", "a"))

	images, err := g.Images(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "a", images[0].ID)
}

func TestGalleryRehydratesFromStore(t *testing.T) {
	store := newFakeImageStore()
	store.records["user-1"] = []models.GeneratedImage{
		*testImage("newest", "y"),
		*testImage("oldest", "x"),
	}

	g := NewGallery(store)
	images, err := g.Images(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "newest", images[0].ID)
}
