package service

import (
	redisx "github.com/seatwise/seatwise/internal/redis"
	postgres "github.com/seatwise/seatwise/internal/repository/postgres"
	redisrepo "github.com/seatwise/seatwise/internal/repository/redis"
	"github.com/seatwise/seatwise/internal/service/venues"
)

type Services struct {
	Venues *venues.Service
}

type Config struct {
	Venues venues.Config
}

func NewServices(
	store *postgres.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.VenuesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Venues: venues.New(store, cache, pubsub, limiter, cfg.Venues),
	}
}
