package venues

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/seatwise/seatwise/internal/domain"
	redisx "github.com/seatwise/seatwise/internal/redis"
	"github.com/seatwise/seatwise/internal/repository"
	postgresrepo "github.com/seatwise/seatwise/internal/repository/postgres"
	redisrepo "github.com/seatwise/seatwise/internal/repository/redis"
	"github.com/seatwise/seatwise/internal/uow"
)

// VenueRepo is the slice of the venues repository the service depends on.
type VenueRepo interface {
	CreateWithRetry(ctx context.Context) (*domain.Venue, error)
	Get(ctx context.Context, slug string) (*domain.Venue, error)
	GetPINHash(ctx context.Context, slug string) (*string, error)
	Upsert(ctx context.Context, slug string, data domain.VenueData, pinHash *string) (*domain.Venue, error)
}

type txRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error) error
}

type rateLimiter interface {
	Allow(ctx context.Context, suffix string) (bool, int64, time.Duration, error)
}

type Config struct {
	VenueTTL   time.Duration
	BcryptCost int
}

type Service struct {
	repo     VenueRepo
	repoWith func(postgresrepo.DB) VenueRepo
	cache    *redisrepo.Cache
	pubsub   *redisx.VenuesPubSub
	limiter  rateLimiter
	tx       txRunner
	cfg      Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.VenuesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.VenueTTL <= 0 {
		cfg.VenueTTL = 60 * time.Second
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	repo := store.Venues()

	return &Service{
		repo:     repo,
		repoWith: func(db postgresrepo.DB) VenueRepo { return repo.With(db) },
		cache:    cache,
		pubsub:   pubsub,
		limiter:  limiter,
		tx:       uow.NewUoW(store),
		cfg:      cfg,
	}
}

// RateLimitedError carries the wait hint for a throttled PIN attempt. It
// matches ErrRateLimited under errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// Create provisions an empty venue under a fresh server-generated slug.
func (s *Service) Create(ctx context.Context) (*domain.Venue, error) {
	const op = "service.venues.Create"

	v, err := s.repo.CreateWithRetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

// Get retrieves a venue snapshot by slug, served through the cache.
//
// Returns:
//   - *domain.Venue: the retrieved venue, or nil if not found.
//   - error: venues.ErrVenueNotFound if the venue is not found.
func (s *Service) Get(ctx context.Context, slug string) (*domain.Venue, error) {
	const op = "service.venues.Get"

	key := redisx.KeyVenue(slug)

	venue, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.VenueTTL,
		func(ctx context.Context) (domain.Venue, error) {
			v, err := s.repo.Get(ctx, slug)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Venue{}, ErrVenueNotFound
				}

				return domain.Venue{}, err
			}

			return *v, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &venue, nil
}

// Update upserts the snapshot under slug. Venues that already carry a PIN
// hash demand the matching PIN; venues without one adopt the supplied PIN as
// their protection. The stored hash survives PIN-less writes untouched.
// After commit the cached copy is dropped and a change event is published.
//
// Returns:
//   - error: venues.ErrPINRequired when the venue is protected and no PIN
//     came with the write, venues.ErrPINInvalid on a wrong PIN,
//     venues.ErrMalformedPIN when the PIN is not a 4-digit string.
func (s *Service) Update(ctx context.Context, slug string, data domain.VenueData, pin string) (*domain.Venue, error) {
	const op = "service.venues.Update"

	if pin != "" && !domain.ValidPIN(pin) {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedPIN)
	}

	var out *domain.Venue

	do := func() error {
		return s.tx.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
			repo := s.repoWith(tx)

			hash, err := repo.GetPINHash(ctx, slug)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			var newHash *string
			switch {
			case err == nil && hash != nil:
				if pin == "" {
					return ErrPINRequired
				}
				if bcrypt.CompareHashAndPassword([]byte(*hash), []byte(pin)) != nil {
					return ErrPINInvalid
				}
			case pin != "":
				h, err := bcrypt.GenerateFromPassword([]byte(pin), s.cfg.BcryptCost)
				if err != nil {
					return err
				}
				hs := string(h)
				newHash = &hs
			}

			v, err := repo.Upsert(ctx, slug, data, newHash)
			if err != nil {
				return err
			}
			out = v

			after(func(ctx context.Context) {
				_ = s.cache.InvalidateVenue(ctx, slug)
				_ = s.pubsub.PublishVenueChanged(ctx, slug)
			})

			return nil
		})
	}

	// serializable transactions can abort under write contention
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if err = do(); err == nil || !postgresrepo.IsRetryable(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// ValidatePIN checks a PIN attempt against the stored hash. Attempts are
// rate limited per rlKey. The message is safe to surface to the caller; an
// unknown slug is indistinguishable from a wrong PIN.
//
// Returns:
//   - error: venues.ErrRateLimited (as *RateLimitedError) when throttled,
//     venues.ErrMalformedPIN on a bad format, venues.ErrPINInvalid on any
//     failed match.
func (s *Service) ValidatePIN(ctx context.Context, slug, pin, rlKey string) (bool, string, error) {
	const op = "service.venues.ValidatePIN"

	allowed, _, retryAfter, err := s.limiter.Allow(ctx, rlKey)
	if err != nil {
		return false, "", fmt.Errorf("%s: %w", op, err)
	}
	if !allowed {
		return false, "Too many PIN attempts, please try again later.",
			fmt.Errorf("%s: %w", op, &RateLimitedError{RetryAfter: retryAfter})
	}

	if !domain.ValidPIN(pin) {
		return false, "PIN must be a 4-digit string.",
			fmt.Errorf("%s: %w", op, ErrMalformedPIN)
	}

	hash, err := s.repo.GetPINHash(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, "Invalid PIN.", fmt.Errorf("%s: %w", op, ErrPINInvalid)
		}

		return false, "", fmt.Errorf("%s: %w", op, err)
	}

	if hash == nil {
		return false, "This venue has no PIN set.",
			fmt.Errorf("%s: %w", op, ErrPINInvalid)
	}

	if bcrypt.CompareHashAndPassword([]byte(*hash), []byte(pin)) != nil {
		return false, "Invalid PIN.", fmt.Errorf("%s: %w", op, ErrPINInvalid)
	}

	return true, "PIN validated.", nil
}
