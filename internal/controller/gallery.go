package controller

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/timmy/learnx/internal/backend"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/logger"
)

// Gallery keeps a local copy of generated_images, newest first.
type Gallery struct {
	images ImageTable
	feed   ChangeFeed

	// OnRefresh, if set, is called after every successful fetch.
	OnRefresh func(images []domain.GeneratedImage)

	mu      sync.RWMutex
	list    []domain.GeneratedImage
	loading bool
}

// NewGallery creates a Gallery.
func NewGallery(images ImageTable, feed ChangeFeed) *Gallery {
	return &Gallery{images: images, feed: feed}
}

// Load fetches the full list and replaces the local copy.
func (g *Gallery) Load(ctx context.Context) ([]domain.GeneratedImage, error) {
	g.mu.Lock()
	g.loading = true
	g.mu.Unlock()

	list, err := g.images.ListImages(ctx)

	g.mu.Lock()
	g.loading = false
	if err != nil {
		g.mu.Unlock()
		return nil, goerr.Wrap(err, "failed to load images")
	}
	g.list = list
	g.mu.Unlock()

	if g.OnRefresh != nil {
		g.OnRefresh(list)
	}
	return list, nil
}

// Images returns the last loaded list.
func (g *Gallery) Images() []domain.GeneratedImage {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.GeneratedImage(nil), g.list...)
}

// Loading reports whether a fetch is in flight.
func (g *Gallery) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// Find re-fetches the list and returns the image with id. An id that is not in
// the gallery returns backend.ErrNotFound.
func (g *Gallery) Find(ctx context.Context, id string) (domain.GeneratedImage, error) {
	list, err := g.Load(ctx)
	if err != nil {
		return domain.GeneratedImage{}, err
	}
	for _, img := range list {
		if img.ID == id {
			return img, nil
		}
	}
	return domain.GeneratedImage{}, goerr.Wrap(backend.ErrNotFound, "image not in gallery", goerr.V("id", id))
}

// Delete removes an image. The local list is not touched; the change feed
// triggers the refetch that drops it.
func (g *Gallery) Delete(ctx context.Context, id string) error {
	if err := g.images.DeleteImage(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete image", goerr.V("id", id))
	}
	return nil
}

// Watch loads the list, then re-fetches it on every change event until ctx is
// done or the feed ends.
func (g *Gallery) Watch(ctx context.Context) error {
	sub, err := g.feed.Subscribe(ctx, domain.GeneratedImagesTable)
	if err != nil {
		return goerr.Wrap(err, "failed to subscribe to gallery changes")
	}
	defer sub.Close()

	if _, err := g.Load(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-sub.Events():
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return sub.Err()
			}
			logger.CtxDebug(ctx, "Gallery change: type=%s, record_id=%s", evt.Type, evt.RecordID)
			if _, err := g.Load(ctx); err != nil {
				logger.CtxWarn(ctx, "Gallery refetch failed: %v", err)
			}
		}
	}
}
