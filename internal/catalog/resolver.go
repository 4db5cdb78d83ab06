package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// The anime virtual type is synthesized as Japanese-language animation
// across both catalogs.
const (
	animeOriginalLanguage = "ja"
	animationGenreID      = 16
)

// ResolveDiscover translates a discovery intent into one or two backend
// requests and returns the merged page. Transport failures are not
// retried; for the anime branch a failure of either sub-request fails
// the whole query, since a partial anime result set would silently
// misrepresent the requested type.
func (s *Service) ResolveDiscover(ctx context.Context, q DiscoverQuery) (PagedResult[MediaItem], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.SortKey == "" {
		q.SortKey = SortPopularity
	}

	switch q.Type {
	case MediaTypeMovie:
		page, err := s.provider.DiscoverMovies(ctx, buildDiscoverFilters(q, s.now()))
		if err != nil {
			return PagedResult[MediaItem]{}, fmt.Errorf("discover movies failed: %w", err)
		}
		s.logDiscover(q, len(page.Items), page.TotalPages)
		return page, nil

	case MediaTypeTV:
		page, err := s.provider.DiscoverTV(ctx, buildDiscoverFilters(q, s.now()))
		if err != nil {
			return PagedResult[MediaItem]{}, fmt.Errorf("discover tv failed: %w", err)
		}
		s.logDiscover(q, len(page.Items), page.TotalPages)
		return page, nil

	case MediaTypeAnime:
		return s.resolveAnime(ctx, q)
	}

	return PagedResult[MediaItem]{}, fmt.Errorf("%w: %s", ErrUnsupportedType, q.Type)
}

// resolveAnime issues the movie and TV halves of an anime query in
// parallel and merges them. Date-based ordering is not comparable across
// the two sources, so a newest sort falls back to popularity.
func (s *Service) resolveAnime(ctx context.Context, q DiscoverQuery) (PagedResult[MediaItem], error) {
	aq := q
	aq.OriginalLanguage = animeOriginalLanguage
	aq.ExcludeGenres = nil
	aq.IncludeGenres = unionGenres(q.IncludeGenres, animationGenreID)
	if aq.SortKey == SortNewest {
		aq.SortKey = SortPopularity
	}

	filters := buildDiscoverFilters(aq, s.now())
	// Anime genre groups use OR semantics.
	filters.IncludeGenres = joinGenreIDs(aq.IncludeGenres, "|")

	var moviePage, tvPage PagedResult[MediaItem]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		moviePage, err = s.provider.DiscoverMovies(gctx, filters)
		return err
	})
	g.Go(func() error {
		var err error
		tvPage, err = s.provider.DiscoverTV(gctx, filters)
		return err
	})
	if err := g.Wait(); err != nil {
		return PagedResult[MediaItem]{}, fmt.Errorf("discover anime failed: %w", err)
	}

	merged := mergeAnimePages(moviePage, tvPage, aq.SortKey)
	s.logDiscover(q, len(merged.Items), merged.TotalPages)
	return merged, nil
}

// mergeAnimePages tags each half with its native media type, concatenates
// them, and re-sorts. The combined page count is the maximum of the two
// sources: the true combined count is not computable without fetching
// every page, so this is a conservative upper bound.
func mergeAnimePages(movies, tv PagedResult[MediaItem], sortKey SortKey) PagedResult[MediaItem] {
	items := make([]MediaItem, 0, len(movies.Items)+len(tv.Items))
	for _, item := range movies.Items {
		item.MediaType = MediaTypeMovie
		items = append(items, item)
	}
	for _, item := range tv.Items {
		item.MediaType = MediaTypeTV
		items = append(items, item)
	}

	if sortKey == SortRating {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].VoteAverage > items[j].VoteAverage
		})
	} else {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Popularity > items[j].Popularity
		})
	}

	totalPages := movies.TotalPages
	if tv.TotalPages > totalPages {
		totalPages = tv.TotalPages
	}

	return PagedResult[MediaItem]{Items: items, TotalPages: totalPages}
}

// buildDiscoverFilters maps a discover query onto a concrete fetch
// specification. Genre lists are AND-joined; a newest sort adds an upper
// release-date bound of "today" so unreleased items do not lead the
// results; a max-age constraint lower-bounds the date at January 1 of
// the cutoff year.
func buildDiscoverFilters(q DiscoverQuery, now time.Time) MediaFilters {
	f := MediaFilters{
		Page:             q.Page,
		Sort:             q.SortKey,
		IncludeGenres:    joinGenreIDs(q.IncludeGenres, ","),
		ExcludeGenres:    joinGenreIDs(q.ExcludeGenres, ","),
		Year:             q.Year,
		OriginalLanguage: q.OriginalLanguage,
		MinVoteAverage:   q.MinVoteAverage,
	}

	if id, ok := q.Channel.Network(); ok {
		f.NetworkID = id
	}
	if id, ok := q.Channel.Company(); ok {
		f.CompanyID = id
	}

	if q.SortKey == SortNewest {
		f.DateTo = now.Format("2006-01-02")
	}
	if q.MaxAgeYears > 0 {
		f.DateFrom = fmt.Sprintf("%04d-01-01", now.Year()-q.MaxAgeYears)
	}

	return f
}

// unionGenres appends forced to ids unless already present.
func unionGenres(ids []int, forced int) []int {
	for _, id := range ids {
		if id == forced {
			return ids
		}
	}
	out := make([]int, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, forced)
}

func joinGenreIDs(ids []int, sep string) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}

func (s *Service) logDiscover(q DiscoverQuery, results, totalPages int) {
	s.logger.Debug().
		Str("type", string(q.Type)).
		Int("page", q.Page).
		Str("sort", string(q.SortKey)).
		Int("results", results).
		Int("totalPages", totalPages).
		Msg("Discover query resolved")
}
