// Package session composes the shape/guest stores, the seat assignment
// engine and the viewport into one editing session for a venue slug, and
// runs the persistence pipeline: every local mutation is written to the
// local cache synchronously and synced to the venue API behind a debounce
// window. Remote failures never block local editing.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/seatwise/seatwise/internal/apiclient"
	"github.com/seatwise/seatwise/internal/domain"
	"github.com/seatwise/seatwise/internal/localcache"
	"github.com/seatwise/seatwise/internal/seating"
	"github.com/seatwise/seatwise/internal/store"
	"github.com/seatwise/seatwise/internal/viewport"
)

// SaveStatus is the derived three-state save signal shown to the user.
type SaveStatus string

const (
	// StatusSaved means the last remote write succeeded (or none was needed).
	StatusSaved SaveStatus = "saved"
	// StatusSaving means a remote write is in flight.
	StatusSaving SaveStatus = "saving"
	// StatusUnsaved means the last remote write failed and no write has
	// succeeded since. The next debounce cycle retries with the latest
	// snapshot.
	StatusUnsaved SaveStatus = "unsaved"
)

// DefaultDebounce is the delay after the last local change before a remote
// save is attempted. Each new change restarts the window.
const DefaultDebounce = 2 * time.Second

const saveTimeout = 15 * time.Second

// RemoteAPI is the slice of the venue API the session needs.
type RemoteAPI interface {
	GetVenue(ctx context.Context, slug string) (*domain.Venue, error)
	UpdateVenue(ctx context.Context, slug string, payload apiclient.UpdatePayload) (*domain.Venue, error)
	ValidatePIN(ctx context.Context, slug, pin string) (bool, string, error)
}

type Config struct {
	Debounce time.Duration
}

// Session is one open venue. The exported stores are the only writers of
// domain state; UI code dispatches intents and reads values.
type Session struct {
	Shapes *store.ShapeStore
	Guests *store.GuestStore
	Engine *seating.Engine
	View   *viewport.Viewport
	UI     UIState

	cfg    Config
	logger *slog.Logger
	cache  *localcache.Cache
	api    RemoteAPI

	mu         sync.Mutex
	slug       string
	eventTitle string
	editMode   bool
	pin        string
	hydrated   bool
	closed     bool
	status     SaveStatus
	statusSubs map[int]func(SaveStatus)
	nextSub    int
	timer      *time.Timer
	unsubs     []func()
}

// Open loads the venue for slug, preferring the local cache, falling back to
// a remote fetch, and finally to a fresh empty venue. An empty slug resumes
// the last visited venue or creates a brand new one with a generated slug
// and PIN, with edit mode enabled for the creator.
func Open(ctx context.Context, slug string, cache *localcache.Cache, api RemoteAPI, logger *slog.Logger, cfg Config) (*Session, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	shapes := store.NewShapeStore()
	guests := store.NewGuestStore()

	s := &Session{
		Shapes:     shapes,
		Guests:     guests,
		Engine:     seating.New(shapes, guests),
		View:       viewport.New(),
		cfg:        cfg,
		logger:     logger,
		cache:      cache,
		api:        api,
		eventTitle: domain.DefaultEventTitle,
		status:     StatusSaved,
		statusSubs: make(map[int]func(SaveStatus)),
	}

	if slug == "" {
		last, ok, err := cache.LastSlug()
		if err != nil {
			return nil, err
		}
		if ok {
			slug = last
		} else {
			s.createFresh()
			s.subscribe()
			return s, nil
		}
	}

	if err := s.load(ctx, slug); err != nil {
		return nil, err
	}
	s.subscribe()

	return s, nil
}

func (s *Session) subscribe() {
	s.unsubs = append(s.unsubs,
		s.Shapes.OnChange(s.onLocalChange),
		s.Guests.OnChange(s.onLocalChange),
	)
}

// createFresh seeds a brand new venue: generated slug and PIN, empty data,
// creator auto-unlocked. The first debounced save syncs the PIN to the
// server.
func (s *Session) createFresh() {
	slug := GenerateSlug()
	pin := GeneratePIN()
	data := domain.NewVenueData()

	s.hydrate(slug, data)
	s.mu.Lock()
	s.editMode = true
	s.pin = pin
	s.mu.Unlock()

	if err := s.cache.SetVenueData(slug, data); err != nil {
		s.logger.Warn("local cache write failed", "slug", slug, "error", err)
	}
	_ = s.cache.SetLastSlug(slug)
	_ = s.cache.SetPIN(slug, pin)
	_ = s.cache.SetEditMode(slug, true)

	s.logger.Info("created new venue", "slug", slug)
}

func (s *Session) load(ctx context.Context, slug string) error {
	// Edit mode is unlocked only by a cached, previously validated PIN.
	pin, hasPin, err := s.cache.PIN(slug)
	if err != nil {
		return err
	}
	editMode, err := s.cache.EditMode(slug)
	if err != nil {
		return err
	}

	// A corrupt cached blob must not wedge the slug; it degrades to a miss
	// and the remote fetch (or an empty venue) takes over.
	data, hit, err := s.cache.VenueData(slug)
	if err != nil {
		s.logger.Warn("local cache read failed, treating as miss", "slug", slug, "error", err)
		hit = false
	}

	if !hit {
		// No local cache: fetch the snapshot. A missing venue is not fatal,
		// the slug just becomes a new empty one.
		v, err := s.api.GetVenue(ctx, slug)
		switch {
		case err == nil:
			data = v.VenueData
		case errors.Is(err, apiclient.ErrNotFound):
			s.logger.Info("venue not on server, starting empty", "slug", slug)
			data = domain.NewVenueData()
		default:
			s.logger.Warn("venue fetch failed, starting empty", "slug", slug, "error", err)
			data = domain.NewVenueData()
		}

		if err := s.cache.SetVenueData(slug, data); err != nil {
			s.logger.Warn("local cache write failed", "slug", slug, "error", err)
		}
	}

	s.hydrate(slug, data)
	s.mu.Lock()
	if hasPin && editMode {
		s.pin = pin
		s.editMode = true
	}
	s.mu.Unlock()

	_ = s.cache.SetLastSlug(slug)

	return nil
}

// hydrate replaces all store state from a snapshot. Saves stay suppressed
// until hydration completes so loading never triggers a write-back.
func (s *Session) hydrate(slug string, data domain.VenueData) {
	s.mu.Lock()
	s.hydrated = false
	s.slug = slug
	s.eventTitle = data.EventTitle
	s.mu.Unlock()

	s.Shapes.Replace(data.Shapes)
	s.Guests.Replace(data.Guests)
	s.Engine.SetTableCounter(data.TableCounter)

	s.mu.Lock()
	s.hydrated = true
	s.mu.Unlock()
}

// Snapshot composes the current persistable state.
func (s *Session) Snapshot() domain.VenueData {
	s.mu.Lock()
	title := s.eventTitle
	s.mu.Unlock()

	return domain.VenueData{
		Shapes:       domain.ShapeList(s.Shapes.List()),
		Guests:       s.Guests.List(),
		EventTitle:   title,
		TableCounter: s.Engine.TableCounter(),
	}
}

// onLocalChange runs after every store mutation: synchronous local cache
// write first, then the debounce window for the remote write restarts.
func (s *Session) onLocalChange() {
	s.mu.Lock()
	if !s.hydrated || s.closed {
		s.mu.Unlock()
		return
	}
	slug := s.slug
	s.mu.Unlock()

	data := s.Snapshot()
	if err := s.cache.SetVenueData(slug, data); err != nil {
		s.logger.Warn("local cache write failed", "slug", slug, "error", err)
	}
	_ = s.cache.SetLastSlug(slug)

	s.mu.Lock()
	if !s.closed {
		if s.timer != nil {
			s.timer.Stop()
		}
		s.timer = time.AfterFunc(s.cfg.Debounce, s.saveRemote)
	}
	s.mu.Unlock()
}

// saveRemote pushes the latest snapshot. The PIN rides along only when this
// session is in edit mode and knows a PIN for the slug, so view-only
// sessions never rewrite PIN state. Failures downgrade the save status; the
// next debounce cycle retries with whatever is current then.
func (s *Session) saveRemote() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	slug := s.slug
	payload := apiclient.UpdatePayload{}
	if s.editMode && s.pin != "" {
		payload.PIN = s.pin
	}
	s.mu.Unlock()

	payload.VenueData = s.Snapshot()

	s.setStatus(StatusSaving)

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if _, err := s.api.UpdateVenue(ctx, slug, payload); err != nil {
		s.logger.Warn("remote save failed", "slug", slug, "error", err)
		s.setStatus(StatusUnsaved)
		return
	}

	s.setStatus(StatusSaved)
}

// SaveNow bypasses the debounce window and performs the remote write
// immediately.
func (s *Session) SaveNow() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.saveRemote()
}

// Status returns the current save status.
func (s *Session) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// OnStatus subscribes to save-status transitions.
func (s *Session) OnStatus(fn func(SaveStatus)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.nextSub
	s.nextSub++
	s.statusSubs[key] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.statusSubs, key)
	}
}

func (s *Session) setStatus(st SaveStatus) {
	s.mu.Lock()
	if s.status == st {
		s.mu.Unlock()
		return
	}
	s.status = st
	subs := make([]func(SaveStatus), 0, len(s.statusSubs))
	for _, fn := range s.statusSubs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// SetEventTitle updates the event title and persists the change.
func (s *Session) SetEventTitle(title string) {
	s.mu.Lock()
	s.eventTitle = title
	s.mu.Unlock()

	s.onLocalChange()
}

// EventTitle returns the current event title.
func (s *Session) EventTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventTitle
}

// Slug returns the slug this session is bound to.
func (s *Session) Slug() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slug
}

// EditMode reports whether this session may write.
func (s *Session) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editMode
}

// PIN returns the PIN cached for this slug, if any.
func (s *Session) PIN() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pin, s.pin != ""
}

// Unlock validates a PIN attempt against the server and, on success, caches
// it and enables edit mode. A malformed PIN is rejected locally and never
// reaches the network.
func (s *Session) Unlock(ctx context.Context, pinAttempt string) (bool, string, error) {
	if !domain.ValidPIN(pinAttempt) {
		return false, "PIN must be a 4-digit string.", nil
	}

	slug := s.Slug()

	ok, message, err := s.api.ValidatePIN(ctx, slug, pinAttempt)
	if err != nil {
		// rate limiting and transport failures still carry whatever
		// message the server sent
		return false, message, err
	}
	if !ok {
		if message == "" {
			message = "Invalid PIN."
		}
		return false, message, nil
	}

	_ = s.cache.SetPIN(slug, pinAttempt)
	_ = s.cache.SetEditMode(slug, true)

	s.mu.Lock()
	s.pin = pinAttempt
	s.editMode = true
	s.mu.Unlock()

	s.logger.Info("edit mode unlocked", "slug", slug)

	return true, "", nil
}

// Reset abandons the current venue and starts a fresh one under a new slug
// and PIN. Returns the new slug.
func (s *Session) Reset() string {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.createFresh()
	s.onLocalChange()

	return s.Slug()
}

// Close stops the pipeline. Pending debounced saves are dropped; call
// SaveNow first to flush.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, fn := range unsubs {
		fn()
	}
}
