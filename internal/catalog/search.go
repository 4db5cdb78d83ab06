package catalog

import (
	"context"
	"strings"
	"sync"
)

// SearchAll fans out a free-text query to the media, collection, and
// company searches in parallel and, on the first page only, filters the
// cached popular-network catalog by name substring. Each sub-search
// failing independently contributes an empty result set rather than
// failing the whole call. Surviving candidates are identity-merged,
// scored, and returned in one ranked view.
//
// HiddenCount reports how many media and collection entries were
// excluded for missing displayable imagery; logo-less companies and
// networks are dropped silently.
func (s *Service) SearchAll(ctx context.Context, query string, page int, includeImageless bool) (SearchPage, error) {
	if page < 1 {
		page = 1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return SearchPage{Results: []SearchResult{}}, nil
	}

	var (
		media       PagedResult[MediaItem]
		collections PagedResult[CollectionResult]
		companies   PagedResult[RawChannel]
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		res, err := s.provider.SearchMedia(ctx, trimmed, page)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", trimmed).Msg("Media search failed, degrading to empty")
			return
		}
		media = res
	}()
	go func() {
		defer wg.Done()
		res, err := s.provider.SearchCollections(ctx, trimmed, page)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", trimmed).Msg("Collection search failed, degrading to empty")
			return
		}
		collections = res
	}()
	go func() {
		defer wg.Done()
		res, err := s.provider.SearchCompanies(ctx, trimmed, page)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", trimmed).Msg("Company search failed, degrading to empty")
			return
		}
		companies = res
	}()
	wg.Wait()

	// A superseded call's eventual result is a no-op for the caller.
	if err := ctx.Err(); err != nil {
		return SearchPage{}, err
	}

	visibleMedia, hiddenMedia := partitionByImage(media.Items, func(m MediaItem) string {
		return m.BackdropPath
	}, includeImageless)
	visibleCollections, hiddenCollections := partitionByImage(collections.Items, func(c CollectionResult) string {
		return c.BackdropPath
	}, includeImageless)

	companyEntities := MergeChannels(companies.Items, ChannelKindCompany)

	var networkEntities []ChannelEntity
	if page == 1 {
		networkEntities = s.networks.Match(trimmed)
	}

	channels := filterLogoBearing(CombineChannels(networkEntities, companyEntities))

	results := make([]SearchResult, 0, len(visibleMedia)+len(visibleCollections)+len(channels))
	for i := range visibleMedia {
		results = append(results, SearchResult{Kind: ResultKindMedia, Media: &visibleMedia[i]})
	}
	for i := range visibleCollections {
		results = append(results, SearchResult{Kind: ResultKindCollection, Collection: &visibleCollections[i]})
	}
	for i := range channels {
		results = append(results, SearchResult{Kind: ResultKindChannel, Channel: &channels[i]})
	}

	rankResults(results, trimmed)

	totalPages := maxInt(media.TotalPages, maxInt(companies.TotalPages, collections.TotalPages))
	hiddenCount := hiddenMedia + hiddenCollections

	s.logger.Debug().
		Str("query", trimmed).
		Int("page", page).
		Int("results", len(results)).
		Int("hidden", hiddenCount).
		Int("totalPages", totalPages).
		Msg("Search completed")

	return SearchPage{
		Results:     results,
		TotalPages:  totalPages,
		HiddenCount: hiddenCount,
	}, nil
}

// partitionByImage applies the displayable-image rule. The hidden count
// reflects what the default view filters out even when image-less
// results are being included.
func partitionByImage[T any](items []T, path func(T) string, includeImageless bool) ([]T, int) {
	hidden := 0
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if HasDisplayableImage(path(item)) {
			kept = append(kept, item)
			continue
		}
		hidden++
		if includeImageless {
			kept = append(kept, item)
		}
	}
	return kept, hidden
}

func filterLogoBearing(entities []ChannelEntity) []ChannelEntity {
	kept := make([]ChannelEntity, 0, len(entities))
	for _, e := range entities {
		if HasDisplayableImage(e.LogoPath) {
			kept = append(kept, e)
		}
	}
	return kept
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
