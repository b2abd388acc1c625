package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/seatwise/internal/apiclient"
	"github.com/seatwise/seatwise/internal/domain"
	"github.com/seatwise/seatwise/internal/localcache"
)

type fakeAPI struct {
	mu          sync.Mutex
	venue       *domain.Venue
	getErr      error
	updateErr   error
	getCalls    int
	updates     []apiclient.UpdatePayload
	validateOK  bool
	validateMsg string
	validateErr error
}

func (f *fakeAPI) GetVenue(_ context.Context, slug string) (*domain.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.venue == nil || f.venue.Slug != slug {
		return nil, apiclient.ErrNotFound
	}
	v := *f.venue
	return &v, nil
}

func (f *fakeAPI) UpdateVenue(_ context.Context, slug string, payload apiclient.UpdatePayload) (*domain.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, payload)
	return &domain.Venue{Slug: slug, VenueData: payload.VenueData}, nil
}

func (f *fakeAPI) ValidatePIN(_ context.Context, _, _ string) (bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateOK, f.validateMsg, f.validateErr
}

func (f *fakeAPI) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeAPI) lastUpdate() apiclient.UpdatePayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[len(f.updates)-1]
}

func (f *fakeAPI) setUpdateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{Debounce: 20 * time.Millisecond}
}

func TestOpenFreshVenue(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	s, err := Open(context.Background(), "", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.NotEmpty(t, s.Slug())
	assert.True(t, s.EditMode())

	pin, ok := s.PIN()
	require.True(t, ok)
	assert.True(t, domain.ValidPIN(pin))
	assert.Equal(t, domain.DefaultEventTitle, s.EventTitle())

	// creator state is cached immediately
	cachedPIN, ok, err := cache.PIN(s.Slug())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pin, cachedPIN)

	editMode, err := cache.EditMode(s.Slug())
	require.NoError(t, err)
	assert.True(t, editMode)

	last, ok, err := cache.LastSlug()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, s.Slug(), last)

	// nothing was fetched or saved yet
	assert.Equal(t, 0, api.getCalls)
	assert.Equal(t, 0, api.updateCount())
}

func TestOpenResumesLastSlug(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	data := domain.NewVenueData()
	data.EventTitle = "Reunion"
	require.NoError(t, cache.SetVenueData("owl-sofa-123", data))
	require.NoError(t, cache.SetLastSlug("owl-sofa-123"))

	s, err := Open(context.Background(), "", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "owl-sofa-123", s.Slug())
	assert.Equal(t, "Reunion", s.EventTitle())
}

func TestOpenLocalCacheHitSkipsRemote(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	data := domain.NewVenueData()
	data.EventTitle = "Cached Gala"
	data.TableCounter = 7
	require.NoError(t, cache.SetVenueData("slug-a", data))

	s, err := Open(context.Background(), "slug-a", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 0, api.getCalls)
	assert.Equal(t, "Cached Gala", s.EventTitle())
	assert.Equal(t, 7, s.Engine.TableCounter())
	assert.False(t, s.EditMode())
}

func TestOpenFetchesRemoteOnCacheMiss(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())

	data := domain.NewVenueData()
	data.EventTitle = "Server Copy"
	api := &fakeAPI{venue: &domain.Venue{Slug: "slug-b", VenueData: data}}

	s, err := Open(context.Background(), "slug-b", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 1, api.getCalls)
	assert.Equal(t, "Server Copy", s.EventTitle())

	// the fetched snapshot lands in the local cache
	cached, ok, err := cache.VenueData("slug-b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Server Copy", cached.EventTitle)
}

func TestOpenUnknownSlugStartsEmpty(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	s, err := Open(context.Background(), "slug-c", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, domain.DefaultEventTitle, s.EventTitle())
	assert.Equal(t, 0, s.Shapes.Len())
	assert.Equal(t, 0, s.Guests.Len())
}

func TestOpenRemoteFailureStartsEmpty(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{getErr: errors.New("connection refused")}

	s, err := Open(context.Background(), "slug-d", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, domain.DefaultEventTitle, s.EventTitle())
}

func TestMutationWritesCacheThenDebouncedSave(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	s, err := Open(context.Background(), "", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	s.Engine.AddTable(100, 100)

	// local cache is written synchronously with the mutation
	cached, ok, err := cache.VenueData(s.Slug())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, cached.Shapes, 1)

	require.Eventually(t, func() bool {
		return api.updateCount() > 0
	}, time.Second, 5*time.Millisecond)

	payload := api.lastUpdate()
	require.Len(t, payload.VenueData.Shapes, 1)

	// creator session carries the PIN so the first save syncs it
	pin, _ := s.PIN()
	assert.Equal(t, pin, payload.PIN)

	require.Eventually(t, func() bool {
		return s.Status() == StatusSaved
	}, time.Second, 5*time.Millisecond)
}

func TestDebounceCoalescesBursts(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	s, err := Open(context.Background(), "", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.Engine.AddTable(float64(i*10), 0)
	}

	require.Eventually(t, func() bool {
		return api.updateCount() > 0
	}, time.Second, 5*time.Millisecond)

	// one flush for the whole burst, carrying the final state
	assert.Equal(t, 1, api.updateCount())
	assert.Len(t, api.lastUpdate().VenueData.Shapes, 10)
}

func TestViewOnlySaveOmitsPIN(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())

	data := domain.NewVenueData()
	require.NoError(t, cache.SetVenueData("slug-e", data))

	api := &fakeAPI{}
	s, err := Open(context.Background(), "slug-e", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	require.False(t, s.EditMode())

	s.Engine.AddTable(0, 0)

	require.Eventually(t, func() bool {
		return api.updateCount() > 0
	}, time.Second, 5*time.Millisecond)

	assert.Empty(t, api.lastUpdate().PIN)
}

func TestSaveFailureMarksUnsaved(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}
	api.setUpdateErr(errors.New("boom"))

	s, err := Open(context.Background(), "", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	s.Engine.AddTable(0, 0)

	require.Eventually(t, func() bool {
		return s.Status() == StatusUnsaved
	}, time.Second, 5*time.Millisecond)

	// the next explicit save retries with the current snapshot
	api.setUpdateErr(nil)
	s.SaveNow()

	require.Eventually(t, func() bool {
		return s.Status() == StatusSaved
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, 1, api.updateCount())
}

func TestStatusTransitionsObservable(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	s, err := Open(context.Background(), "", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	var mu sync.Mutex
	var seen []SaveStatus
	unsub := s.OnStatus(func(st SaveStatus) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})
	defer unsub()

	s.Engine.AddTable(0, 0)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []SaveStatus{StatusSaving, StatusSaved}, seen[:2])
}

func TestUnlock(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())

	data := domain.NewVenueData()
	require.NoError(t, cache.SetVenueData("slug-f", data))

	api := &fakeAPI{validateOK: false, validateMsg: "Invalid PIN."}
	s, err := Open(context.Background(), "slug-f", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	// malformed attempts never reach the server
	ok, msg, err := s.Unlock(context.Background(), "12x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotEmpty(t, msg)

	ok, msg, err = s.Unlock(context.Background(), "9999")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Invalid PIN.", msg)
	assert.False(t, s.EditMode())

	api.mu.Lock()
	api.validateOK = true
	api.mu.Unlock()

	ok, _, err = s.Unlock(context.Background(), "1234")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, s.EditMode())

	pin, found := s.PIN()
	require.True(t, found)
	assert.Equal(t, "1234", pin)

	cachedPIN, found, err := cache.PIN("slug-f")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1234", cachedPIN)
}

func TestOpenCorruptCacheFallsBackToRemote(t *testing.T) {
	kv := localcache.NewMemoryKV()
	cache := localcache.New(kv)

	// a half-written blob under the data key must not wedge the slug
	require.NoError(t, kv.Set("venue-slug-g-data", `{"shapes":[`))

	data := domain.NewVenueData()
	data.EventTitle = "Server Copy"
	api := &fakeAPI{venue: &domain.Venue{Slug: "slug-g", VenueData: data}}

	s, err := Open(context.Background(), "slug-g", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 1, api.getCalls)
	assert.Equal(t, "Server Copy", s.EventTitle())

	// the fetched snapshot replaces the corrupt blob
	cached, ok, err := cache.VenueData("slug-g")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Server Copy", cached.EventTitle)
}

func TestUnlockSurfacesRateLimitMessage(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())

	data := domain.NewVenueData()
	require.NoError(t, cache.SetVenueData("slug-h", data))

	api := &fakeAPI{
		validateMsg: "Too many PIN attempts, please try again later.",
		validateErr: apiclient.ErrRateLimited,
	}
	s, err := Open(context.Background(), "slug-h", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	ok, msg, err := s.Unlock(context.Background(), "1234")
	require.ErrorIs(t, err, apiclient.ErrRateLimited)
	assert.False(t, ok)
	assert.Equal(t, "Too many PIN attempts, please try again later.", msg)
	assert.False(t, s.EditMode())
}

func TestResetStartsNewVenue(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	s, err := Open(context.Background(), "", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	oldSlug := s.Slug()
	s.Engine.AddTable(0, 0)

	newSlug := s.Reset()
	assert.NotEqual(t, oldSlug, newSlug)
	assert.Equal(t, 0, s.Shapes.Len())
	assert.True(t, s.EditMode())

	last, ok, err := cache.LastSlug()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, newSlug, last)
}

func TestSetEventTitlePersists(t *testing.T) {
	cache := localcache.New(localcache.NewMemoryKV())
	api := &fakeAPI{}

	s, err := Open(context.Background(), "", cache, api, testLogger(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	s.SetEventTitle("Autumn Feast")
	assert.Equal(t, "Autumn Feast", s.EventTitle())

	cached, ok, err := cache.VenueData(s.Slug())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Autumn Feast", cached.EventTitle)
}
