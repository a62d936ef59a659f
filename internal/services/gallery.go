package services

import (
	"context"
	"log"
	"sync"

	"github.com/markyai/studio-backend/internal/models"
)

// Gallery holds each user's generated images in memory, newest first,
// backed by an ImageStore. Inserts are optimistic: the in-memory list is
// updated immediately and the remote write happens asynchronously. Deletes
// remove locally first and reload from the store if the remote delete
// fails, resynchronizing local state with the remote truth.
type Gallery struct {
	store ImageStore

	mu     sync.RWMutex
	lists  map[string][]models.GeneratedImage
	loaded map[string]bool
}

func NewGallery(store ImageStore) *Gallery {
	return &Gallery{
		store:  store,
		lists:  make(map[string][]models.GeneratedImage),
		loaded: make(map[string]bool),
	}
}

// Add inserts the image at the head of the user's list and mirrors it to
// the store in the background. A failed remote write leaves local and
// remote state inconsistent until the next reload; it is only logged.
func (g *Gallery) Add(ctx context.Context, userID string, image *models.GeneratedImage) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	image.UserID = userID

	if _, err := g.ensureLoaded(ctx, userID); err != nil {
		return err
	}

	g.mu.Lock()
	g.lists[userID] = append([]models.GeneratedImage{*image}, g.lists[userID]...)
	g.mu.Unlock()

	go func(img models.GeneratedImage) {
		if _, err := g.store.Save(context.Background(), &img); err != nil {
			log.Printf("failed to mirror generated image %s to store: %v", img.ID, err)
		}
		Cache.Delete(galleryCacheKey(userID))
	}(*image)

	return nil
}

// Remove deletes the image from the visible list immediately, then makes a
// best-effort remote delete. On remote failure the list is reloaded from
// the store so local state reflects the remote truth again.
func (g *Gallery) Remove(ctx context.Context, userID, imageID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	g.mu.Lock()
	list := g.lists[userID]
	for i := range list {
		if list[i].ID == imageID {
			g.lists[userID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	if err := g.store.Delete(ctx, userID, imageID); err != nil {
		log.Printf("remote delete of image %s failed, reloading list: %v", imageID, err)
		Cache.Delete(galleryCacheKey(userID))
		return g.reload(ctx, userID)
	}

	Cache.Delete(galleryCacheKey(userID))
	return nil
}

// Images returns the user's list, newest first, rehydrating from cache or
// store on first access.
func (g *Gallery) Images(ctx context.Context, userID string) ([]models.GeneratedImage, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return g.ensureLoaded(ctx, userID)
}

func (g *Gallery) ensureLoaded(ctx context.Context, userID string) ([]models.GeneratedImage, error) {
	g.mu.RLock()
	if g.loaded[userID] {
		list := copyImages(g.lists[userID])
		g.mu.RUnlock()
		return list, nil
	}
	g.mu.RUnlock()

	var images []models.GeneratedImage
	if hit, _ := Cache.Get(galleryCacheKey(userID), &images); !hit {
		var err error
		images, err = g.store.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		Cache.Set(galleryCacheKey(userID), images)
	}

	g.mu.Lock()
	// Another request may have loaded meanwhile; keep the newer local state.
	if !g.loaded[userID] {
		g.lists[userID] = images
		g.loaded[userID] = true
	}
	list := copyImages(g.lists[userID])
	g.mu.Unlock()
	return list, nil
}

func (g *Gallery) reload(ctx context.Context, userID string) error {
	images, err := g.store.List(ctx, userID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.lists[userID] = images
	g.loaded[userID] = true
	g.mu.Unlock()
	return nil
}

func galleryCacheKey(userID string) string {
	return "gallery:" + userID
}

func copyImages(list []models.GeneratedImage) []models.GeneratedImage {
	out := make([]models.GeneratedImage, len(list))
	copy(out, list)
	return out
}
