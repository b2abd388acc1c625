// Package localcache is the offline-first cache of the client session. It
// mirrors the browser localStorage layout: one JSON blob, PIN, and edit-mode
// flag per slug, plus a single global last-visited-slug pointer.
package localcache

import (
	"encoding/json"
	"fmt"

	"github.com/seatwise/seatwise/internal/domain"
)

const lastSlugKey = "lastVenueSlug"

func venueDataKey(slug string) string { return "venue-" + slug + "-data" }
func pinKey(slug string) string       { return "venue-" + slug + "-pin" }
func editModeKey(slug string) string  { return "venue-" + slug + "-editMode" }

// KV is the minimal key-value backend the cache runs on.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Cache stores per-slug venue state on a KV backend. All operations are
// synchronous; a local write always completes before any remote write for
// the same change is scheduled.
type Cache struct {
	kv KV
}

func New(kv KV) *Cache {
	return &Cache{kv: kv}
}

func (c *Cache) Close() error {
	return c.kv.Close()
}

// VenueData reads the cached snapshot for a slug.
func (c *Cache) VenueData(slug string) (domain.VenueData, bool, error) {
	const op = "localcache.Cache.VenueData"

	raw, ok, err := c.kv.Get(venueDataKey(slug))
	if err != nil || !ok {
		return domain.VenueData{}, false, err
	}

	var data domain.VenueData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return domain.VenueData{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return data, true, nil
}

// SetVenueData writes the snapshot for a slug.
func (c *Cache) SetVenueData(slug string, data domain.VenueData) error {
	const op = "localcache.Cache.SetVenueData"

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return c.kv.Set(venueDataKey(slug), string(b))
}

// PIN reads the cached PIN for a slug.
func (c *Cache) PIN(slug string) (string, bool, error) {
	return c.kv.Get(pinKey(slug))
}

func (c *Cache) SetPIN(slug, pin string) error {
	return c.kv.Set(pinKey(slug), pin)
}

func (c *Cache) RemovePIN(slug string) error {
	return c.kv.Delete(pinKey(slug))
}

// EditMode reads the per-slug edit-mode flag. Absent means view-only.
func (c *Cache) EditMode(slug string) (bool, error) {
	v, ok, err := c.kv.Get(editModeKey(slug))
	if err != nil || !ok {
		return false, err
	}
	return v == "true", nil
}

func (c *Cache) SetEditMode(slug string, enabled bool) error {
	if !enabled {
		return c.kv.Delete(editModeKey(slug))
	}
	return c.kv.Set(editModeKey(slug), "true")
}

// LastSlug reads the global last-visited-slug pointer.
func (c *Cache) LastSlug() (string, bool, error) {
	return c.kv.Get(lastSlugKey)
}

func (c *Cache) SetLastSlug(slug string) error {
	return c.kv.Set(lastSlugKey, slug)
}
