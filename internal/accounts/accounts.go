// Package accounts serves user, profile and team reads through the
// cache and owns their invalidation on writes.
package accounts

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

// Store is the slice of the persistence layer this service needs.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (store.Profile, error)
	UpsertProfile(ctx context.Context, p store.Profile) (store.Profile, error)
	GetTeam(ctx context.Context, id uuid.UUID) (store.Team, error)
}

type Service struct {
	store Store
	cache *cache.Cache
	log   zerolog.Logger
}

func New(st Store, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		store: st,
		cache: c,
		log:   log.With().Str("component", "accounts").Logger(),
	}
}

// CacheID normalizes an email or username into a cache identifier by
// lowercasing and stripping everything but letters and digits. The key
// deriver does no sanitizing of its own; callers that key on free-form
// strings go through this first.
func CacheID(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GetUser returns a user by id, cached for the medium TTL class.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (store.User, error) {
	return cache.Fetch(ctx, s.cache, cache.NewKey(cache.NSUser, id.String()), cache.TTLMedium,
		func(ctx context.Context) (store.User, error) {
			return s.store.GetUser(ctx, id)
		})
}

// GetUserByEmail looks a user up by email. The cache identifier is the
// sanitized email, kept apart from the id-keyed entries by a sub-key.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	key := cache.NewKey(cache.NSUser, CacheID(email)).WithSub("email")
	return cache.Fetch(ctx, s.cache, key, cache.TTLMedium,
		func(ctx context.Context) (store.User, error) {
			return s.store.GetUserByEmail(ctx, email)
		})
}

// GetProfile returns a seller profile, cached for the long TTL class:
// profiles change rarely outside the onboarding flow.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (store.Profile, error) {
	return cache.Fetch(ctx, s.cache, cache.NewKey(cache.NSProfile, userID.String()), cache.TTLLong,
		func(ctx context.Context) (store.Profile, error) {
			return s.store.GetProfile(ctx, userID)
		})
}

// GetTeam returns a team, cached for the long TTL class.
func (s *Service) GetTeam(ctx context.Context, id uuid.UUID) (store.Team, error) {
	return cache.Fetch(ctx, s.cache, cache.NewKey(cache.NSTeam, id.String()), cache.TTLLong,
		func(ctx context.Context) (store.Team, error) {
			return s.store.GetTeam(ctx, id)
		})
}

// UpdateProfile writes a profile through to the store, scores its
// onboarding completion, and invalidates the user's cached reads so the
// next fetch sees the new data.
func (s *Service) UpdateProfile(ctx context.Context, p store.Profile) (store.Profile, error) {
	p.Completion = completionPct(p)
	updated, err := s.store.UpsertProfile(ctx, p)
	if err != nil {
		return store.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	id := p.UserID.String()
	n := s.cache.InvalidateID(cache.NSProfile, id)
	n += s.cache.InvalidateID(cache.NSUser, id)
	s.log.Debug().Str("user", id).Int("invalidated", n).Msg("profile updated")
	return updated, nil
}

// completionPct scores the progressive-profiling steps a seller has
// finished.
func completionPct(p store.Profile) int32 {
	steps := []bool{
		p.DisplayName != "",
		p.Bio != "",
		len(p.Skills) > 0,
	}
	done := 0
	for _, ok := range steps {
		if ok {
			done++
		}
	}
	return int32(done * 100 / len(steps))
}
