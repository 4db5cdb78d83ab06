package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// fakeProvider implements Provider with overridable behavior per method.
// Unset methods return empty results.
type fakeProvider struct {
	discoverMovies    func(ctx context.Context, filters MediaFilters) (PagedResult[MediaItem], error)
	discoverTV        func(ctx context.Context, filters MediaFilters) (PagedResult[MediaItem], error)
	searchMedia       func(ctx context.Context, query string, page int) (PagedResult[MediaItem], error)
	searchCollections func(ctx context.Context, query string, page int) (PagedResult[CollectionResult], error)
	searchCompanies   func(ctx context.Context, query string, page int) (PagedResult[RawChannel], error)
	getNetwork        func(ctx context.Context, id int) (RawChannel, error)
	getMovie          func(ctx context.Context, id int) (*MediaItem, error)
	getTV             func(ctx context.Context, id int) (*MediaItem, error)
	movieGenres       func(ctx context.Context) (map[int]string, error)
	tvGenres          func(ctx context.Context) (map[int]string, error)
}

func (f *fakeProvider) DiscoverMovies(ctx context.Context, filters MediaFilters) (PagedResult[MediaItem], error) {
	if f.discoverMovies != nil {
		return f.discoverMovies(ctx, filters)
	}
	return PagedResult[MediaItem]{}, nil
}

func (f *fakeProvider) DiscoverTV(ctx context.Context, filters MediaFilters) (PagedResult[MediaItem], error) {
	if f.discoverTV != nil {
		return f.discoverTV(ctx, filters)
	}
	return PagedResult[MediaItem]{}, nil
}

func (f *fakeProvider) SearchMedia(ctx context.Context, query string, page int) (PagedResult[MediaItem], error) {
	if f.searchMedia != nil {
		return f.searchMedia(ctx, query, page)
	}
	return PagedResult[MediaItem]{}, nil
}

func (f *fakeProvider) SearchCollections(ctx context.Context, query string, page int) (PagedResult[CollectionResult], error) {
	if f.searchCollections != nil {
		return f.searchCollections(ctx, query, page)
	}
	return PagedResult[CollectionResult]{}, nil
}

func (f *fakeProvider) SearchCompanies(ctx context.Context, query string, page int) (PagedResult[RawChannel], error) {
	if f.searchCompanies != nil {
		return f.searchCompanies(ctx, query, page)
	}
	return PagedResult[RawChannel]{}, nil
}

func (f *fakeProvider) GetNetwork(ctx context.Context, id int) (RawChannel, error) {
	if f.getNetwork != nil {
		return f.getNetwork(ctx, id)
	}
	return RawChannel{}, nil
}

func (f *fakeProvider) GetMovie(ctx context.Context, id int) (*MediaItem, error) {
	if f.getMovie != nil {
		return f.getMovie(ctx, id)
	}
	return &MediaItem{ID: id, MediaType: MediaTypeMovie}, nil
}

func (f *fakeProvider) GetTV(ctx context.Context, id int) (*MediaItem, error) {
	if f.getTV != nil {
		return f.getTV(ctx, id)
	}
	return &MediaItem{ID: id, MediaType: MediaTypeTV}, nil
}

func (f *fakeProvider) MovieGenres(ctx context.Context) (map[int]string, error) {
	if f.movieGenres != nil {
		return f.movieGenres(ctx)
	}
	return map[int]string{}, nil
}

func (f *fakeProvider) TVGenres(ctx context.Context) (map[int]string, error) {
	if f.tvGenres != nil {
		return f.tvGenres(ctx)
	}
	return map[int]string{}, nil
}

// testNow is the fixed clock used by engine tests.
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(provider Provider) *Service {
	svc := NewService(provider, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc
}
