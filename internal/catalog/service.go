package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrUnsupportedType is returned for media types the engine does not know.
	ErrUnsupportedType = errors.New("unsupported media type")
)

// Service is the query resolution and ranking engine. It owns the
// merge/rank pipeline; callers own persistence of results beyond a
// single query cycle. A superseded in-flight call is discarded by the
// caller canceling its context.
type Service struct {
	provider Provider
	cache    *Cache
	networks *NetworkCatalog
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new catalog service.
func NewService(provider Provider, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    NewCache(),
		networks: NewNetworkCatalog(),
		logger:   logger.With().Str("component", "catalog").Logger(),
		now:      time.Now,
	}
}

// Genres returns the genre vocabulary for a media type, memoized for the
// session. The anime virtual type shares the TV vocabulary.
func (s *Service) Genres(ctx context.Context, mediaType MediaType) (map[int]string, error) {
	key := "genres:" + string(mediaType)
	if genres, ok := s.cache.GetGenreMap(key); ok {
		return genres, nil
	}

	var (
		genres map[int]string
		err    error
	)
	switch mediaType {
	case MediaTypeMovie:
		genres, err = s.provider.MovieGenres(ctx)
	case MediaTypeTV, MediaTypeAnime:
		genres, err = s.provider.TVGenres(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}
	if err != nil {
		return nil, fmt.Errorf("genre lookup failed: %w", err)
	}

	s.cache.Set(key, genres)
	s.logger.Debug().Str("type", string(mediaType)).Int("genres", len(genres)).Msg("Genre vocabulary populated")
	return genres, nil
}

// MediaDetail returns detailed info for one movie or TV show, memoized
// per id for the session.
func (s *Service) MediaDetail(ctx context.Context, mediaType MediaType, id int) (*MediaItem, error) {
	key := fmt.Sprintf("detail:%s:%d", mediaType, id)
	if item, ok := s.cache.GetMediaItem(key); ok {
		return item, nil
	}

	var (
		item *MediaItem
		err  error
	)
	switch mediaType {
	case MediaTypeMovie:
		item, err = s.provider.GetMovie(ctx, id)
	case MediaTypeTV:
		item, err = s.provider.GetTV(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}
	if err != nil {
		return nil, fmt.Errorf("media detail failed: %w", err)
	}

	s.cache.Set(key, item)
	return item, nil
}

// ClearCache drops all memoized lookups.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info().Msg("Catalog cache cleared")
}
