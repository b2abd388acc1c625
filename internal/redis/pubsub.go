package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// VenuesPubSub broadcasts venue snapshot changes so other instances can
// drop their cached copies.
type VenuesPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewVenuesPubSub(rdb *redis.Client) *VenuesPubSub {
	return &VenuesPubSub{
		rdb:     rdb,
		channel: ChannelVenuesChanged(),
	}
}

type venueChangedMsg struct {
	Type   string `json:"type"`
	Slug   string `json:"slug"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *VenuesPubSub) PublishVenueChanged(ctx context.Context, slug string) error {
	msg := venueChangedMsg{
		Type:   "venue_changed",
		Slug:   slug,
		TsUnix: time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *VenuesPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, slug string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev venueChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.Slug != "" {
				handler(ctx, ev.Slug)
			}
		}
	}
}
