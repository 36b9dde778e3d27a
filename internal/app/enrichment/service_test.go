package enrichment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"backend/internal/app/message"
	"backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	preview message.Preview
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (message.Preview, error) {
	return f.preview, f.err
}

type fakeStore struct {
	mu       sync.Mutex
	previews map[uint64]message.Preview
	statuses map[uint64]string
	media    map[uint64]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		previews: make(map[uint64]message.Preview),
		statuses: make(map[uint64]string),
		media:    make(map[uint64]string),
	}
}

func (f *fakeStore) AttachEnrichment(messageID uint64, preview message.Preview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.previews[messageID] = preview
	f.statuses[messageID] = message.EnrichmentComplete
	return nil
}

func (f *fakeStore) SetEnrichmentStatus(messageID uint64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[messageID] = status
	return nil
}

func (f *fakeStore) UpdateMediaURL(messageID uint64, mediaURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media[messageID] = mediaURL
	return nil
}

type fakeMirror struct {
	url string
	err error
}

func (f *fakeMirror) MirrorFromURL(ctx context.Context, srcURL string, contentType string) (string, error) {
	return f.url, f.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestEnqueuePreview_AttachesMetadata(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &fakeFetcher{preview: message.Preview{Title: "Hello", Description: "World"}}
	d := NewDispatcher(1, time.Second, zap.NewNop())
	defer d.Close()

	svc := NewService(d, fetcher, store, nil, utils.NewEventBus(), zap.NewNop())
	svc.EnqueuePreview(7, "https://example.com")

	waitFor(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.statuses[7] == message.EnrichmentComplete
	})

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, "Hello", store.previews[7].Title)
}

func TestEnqueuePreview_FailureMarksFailed(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetcher := &fakeFetcher{err: errors.New("site unreachable")}
	d := NewDispatcher(1, time.Second, zap.NewNop())
	defer d.Close()

	bus := utils.NewEventBus()
	var failedEvents int
	var mu sync.Mutex
	bus.Subscribe(utils.EventEnrichmentFailed, func(e utils.Event) {
		mu.Lock()
		failedEvents++
		mu.Unlock()
	})

	svc := NewService(d, fetcher, store, nil, bus, zap.NewNop())
	svc.EnqueuePreview(7, "https://example.com")

	waitFor(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.statuses[7] == message.EnrichmentFailed
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, failedEvents)
}

func TestEnqueueMediaMirror_RewritesURL(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	mirror := &fakeMirror{url: "http://minio.local/tagboard-media/abc.jpg"}
	d := NewDispatcher(1, time.Second, zap.NewNop())
	defer d.Close()

	svc := NewService(d, &fakeFetcher{}, store, mirror, utils.NewEventBus(), zap.NewNop())
	svc.EnqueueMediaMirror(9, "https://carrier.example/media/1", "image/jpeg")

	waitFor(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.media[9] != ""
	})

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, "http://minio.local/tagboard-media/abc.jpg", store.media[9])
}

func TestEnqueueMediaMirror_FailureKeepsProviderURL(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	mirror := &fakeMirror{err: errors.New("bucket unavailable")}
	d := NewDispatcher(1, time.Second, zap.NewNop())
	defer d.Close()

	svc := NewService(d, &fakeFetcher{}, store, mirror, utils.NewEventBus(), zap.NewNop())
	svc.EnqueueMediaMirror(9, "https://carrier.example/media/1", "image/jpeg")

	// Give the job time to run; the media URL must stay untouched.
	require.Eventually(t, func() bool {
		return d.Pending() == 0 && d.Running() == 0
	}, 2*time.Second, 5*time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.media[9])
}
