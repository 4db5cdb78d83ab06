// Package tmdb implements the catalog provider against The Movie
// Database HTTP API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelscope/reelscope/internal/catalog"
	"github.com/reelscope/reelscope/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// Client is a TMDB API client. It satisfies catalog.Provider.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/configuration", c.config.BaseURL)

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, endpoint, c.baseParams(), &result)
}

// DiscoverMovies fetches one page of the movie discover endpoint.
func (c *Client) DiscoverMovies(ctx context.Context, filters catalog.MediaFilters) (catalog.PagedResult[catalog.MediaItem], error) {
	if !c.IsConfigured() {
		return catalog.PagedResult[catalog.MediaItem]{}, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/discover/movie", c.config.BaseURL)
	params := c.baseParams()
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(filters.Page))
	params.Set("sort_by", movieSortBy(filters.Sort))
	if filters.IncludeGenres != "" {
		params.Set("with_genres", filters.IncludeGenres)
	}
	if filters.ExcludeGenres != "" {
		params.Set("without_genres", filters.ExcludeGenres)
	}
	if filters.CompanyID > 0 {
		params.Set("with_companies", strconv.Itoa(filters.CompanyID))
	}
	if filters.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(filters.Year))
	}
	if filters.OriginalLanguage != "" {
		params.Set("with_original_language", filters.OriginalLanguage)
	}
	if filters.DateFrom != "" {
		params.Set("primary_release_date.gte", filters.DateFrom)
	}
	if filters.DateTo != "" {
		params.Set("primary_release_date.lte", filters.DateTo)
	}
	if filters.MinVoteAverage > 0 {
		params.Set("vote_average.gte", formatFloat(filters.MinVoteAverage))
	}

	var response PagedResponse[MovieResult]
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return catalog.PagedResult[catalog.MediaItem]{}, err
	}

	items := make([]catalog.MediaItem, len(response.Results))
	for i, movie := range response.Results {
		items[i] = c.toMovieItem(movie)
	}

	c.logger.Debug().
		Int("page", filters.Page).
		Int("results", len(items)).
		Msg("Movie discover completed")

	return catalog.PagedResult[catalog.MediaItem]{Items: items, TotalPages: response.TotalPages}, nil
}

// DiscoverTV fetches one page of the TV discover endpoint.
func (c *Client) DiscoverTV(ctx context.Context, filters catalog.MediaFilters) (catalog.PagedResult[catalog.MediaItem], error) {
	if !c.IsConfigured() {
		return catalog.PagedResult[catalog.MediaItem]{}, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/discover/tv", c.config.BaseURL)
	params := c.baseParams()
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(filters.Page))
	params.Set("sort_by", tvSortBy(filters.Sort))
	if filters.IncludeGenres != "" {
		params.Set("with_genres", filters.IncludeGenres)
	}
	if filters.ExcludeGenres != "" {
		params.Set("without_genres", filters.ExcludeGenres)
	}
	if filters.NetworkID > 0 {
		params.Set("with_networks", strconv.Itoa(filters.NetworkID))
	}
	if filters.CompanyID > 0 {
		params.Set("with_companies", strconv.Itoa(filters.CompanyID))
	}
	if filters.Year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(filters.Year))
	}
	if filters.OriginalLanguage != "" {
		params.Set("with_original_language", filters.OriginalLanguage)
	}
	if filters.DateFrom != "" {
		params.Set("first_air_date.gte", filters.DateFrom)
	}
	if filters.DateTo != "" {
		params.Set("first_air_date.lte", filters.DateTo)
	}
	if filters.MinVoteAverage > 0 {
		params.Set("vote_average.gte", formatFloat(filters.MinVoteAverage))
	}

	var response PagedResponse[TVResult]
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return catalog.PagedResult[catalog.MediaItem]{}, err
	}

	items := make([]catalog.MediaItem, len(response.Results))
	for i, tv := range response.Results {
		items[i] = c.toTVItem(tv)
	}

	c.logger.Debug().
		Int("page", filters.Page).
		Int("results", len(items)).
		Msg("TV discover completed")

	return catalog.PagedResult[catalog.MediaItem]{Items: items, TotalPages: response.TotalPages}, nil
}

// SearchMedia searches movies and TV series in one request via the multi
// search endpoint. Person entries are discarded.
func (c *Client) SearchMedia(ctx context.Context, query string, page int) (catalog.PagedResult[catalog.MediaItem], error) {
	if !c.IsConfigured() {
		return catalog.PagedResult[catalog.MediaItem]{}, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/multi", c.config.BaseURL)
	params := c.baseParams()
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var response PagedResponse[MultiResult]
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return catalog.PagedResult[catalog.MediaItem]{}, err
	}

	items := make([]catalog.MediaItem, 0, len(response.Results))
	for _, entry := range response.Results {
		switch entry.MediaType {
		case "movie":
			items = append(items, catalog.MediaItem{
				ID:               entry.ID,
				MediaType:        catalog.MediaTypeMovie,
				Title:            entry.Title,
				Overview:         entry.Overview,
				Popularity:       entry.Popularity,
				VoteAverage:      entry.VoteAverage,
				GenreIDs:         entry.GenreIDs,
				OriginalLanguage: entry.OriginalLanguage,
				BackdropPath:     deref(entry.BackdropPath),
				PosterPath:       deref(entry.PosterPath),
				ReleaseDate:      entry.ReleaseDate,
			})
		case "tv":
			items = append(items, catalog.MediaItem{
				ID:               entry.ID,
				MediaType:        catalog.MediaTypeTV,
				Title:            entry.Name,
				Overview:         entry.Overview,
				Popularity:       entry.Popularity,
				VoteAverage:      entry.VoteAverage,
				GenreIDs:         entry.GenreIDs,
				OriginalLanguage: entry.OriginalLanguage,
				BackdropPath:     deref(entry.BackdropPath),
				PosterPath:       deref(entry.PosterPath),
				ReleaseDate:      entry.FirstAirDate,
			})
		}
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(items)).
		Msg("Media search completed")

	return catalog.PagedResult[catalog.MediaItem]{Items: items, TotalPages: response.TotalPages}, nil
}

// SearchCollections searches movie collections by name.
func (c *Client) SearchCollections(ctx context.Context, query string, page int) (catalog.PagedResult[catalog.CollectionResult], error) {
	if !c.IsConfigured() {
		return catalog.PagedResult[catalog.CollectionResult]{}, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/collection", c.config.BaseURL)
	params := c.baseParams()
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var response PagedResponse[CollectionResult]
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return catalog.PagedResult[catalog.CollectionResult]{}, err
	}

	items := make([]catalog.CollectionResult, len(response.Results))
	for i, collection := range response.Results {
		items[i] = catalog.CollectionResult{
			ID:           collection.ID,
			Name:         collection.Name,
			BackdropPath: deref(collection.BackdropPath),
		}
	}

	return catalog.PagedResult[catalog.CollectionResult]{Items: items, TotalPages: response.TotalPages}, nil
}

// SearchCompanies searches production companies by name.
func (c *Client) SearchCompanies(ctx context.Context, query string, page int) (catalog.PagedResult[catalog.RawChannel], error) {
	if !c.IsConfigured() {
		return catalog.PagedResult[catalog.RawChannel]{}, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/company", c.config.BaseURL)
	params := c.baseParams()
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var response PagedResponse[CompanyResult]
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return catalog.PagedResult[catalog.RawChannel]{}, err
	}

	items := make([]catalog.RawChannel, len(response.Results))
	for i, company := range response.Results {
		items[i] = catalog.RawChannel{
			ID:       company.ID,
			Name:     company.Name,
			LogoPath: deref(company.LogoPath),
		}
	}

	return catalog.PagedResult[catalog.RawChannel]{Items: items, TotalPages: response.TotalPages}, nil
}

// GetNetwork fetches a TV network by TMDB ID.
func (c *Client) GetNetwork(ctx context.Context, id int) (catalog.RawChannel, error) {
	if !c.IsConfigured() {
		return catalog.RawChannel{}, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/network/%d", c.config.BaseURL, id)

	var details NetworkDetails
	if err := c.doRequest(ctx, endpoint, c.baseParams(), &details); err != nil {
		return catalog.RawChannel{}, err
	}

	return catalog.RawChannel{
		ID:       details.ID,
		Name:     details.Name,
		LogoPath: deref(details.LogoPath),
	}, nil
}

// GetMovie gets detailed movie info by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, id int) (*catalog.MediaItem, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d", c.config.BaseURL, id)

	var details MovieDetails
	if err := c.doRequest(ctx, endpoint, c.baseParams(), &details); err != nil {
		return nil, err
	}

	item := catalog.MediaItem{
		ID:               details.ID,
		MediaType:        catalog.MediaTypeMovie,
		Title:            details.Title,
		Overview:         details.Overview,
		Popularity:       details.Popularity,
		VoteAverage:      details.VoteAverage,
		GenreIDs:         genreIDs(details.Genres),
		OriginalLanguage: details.OriginalLanguage,
		BackdropPath:     deref(details.BackdropPath),
		PosterPath:       deref(details.PosterPath),
		ReleaseDate:      details.ReleaseDate,
	}

	c.logger.Debug().
		Int("id", id).
		Str("title", item.Title).
		Msg("Got movie details")

	return &item, nil
}

// GetTV gets detailed TV series info by TMDB ID.
func (c *Client) GetTV(ctx context.Context, id int) (*catalog.MediaItem, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/tv/%d", c.config.BaseURL, id)

	var details TVDetails
	if err := c.doRequest(ctx, endpoint, c.baseParams(), &details); err != nil {
		return nil, err
	}

	item := catalog.MediaItem{
		ID:               details.ID,
		MediaType:        catalog.MediaTypeTV,
		Title:            details.Name,
		Overview:         details.Overview,
		Popularity:       details.Popularity,
		VoteAverage:      details.VoteAverage,
		GenreIDs:         genreIDs(details.Genres),
		OriginalLanguage: details.OriginalLanguage,
		BackdropPath:     deref(details.BackdropPath),
		PosterPath:       deref(details.PosterPath),
		ReleaseDate:      details.FirstAirDate,
	}

	c.logger.Debug().
		Int("id", id).
		Str("title", item.Title).
		Msg("Got TV series details")

	return &item, nil
}

// MovieGenres fetches the movie genre vocabulary.
func (c *Client) MovieGenres(ctx context.Context) (map[int]string, error) {
	return c.genreList(ctx, "movie")
}

// TVGenres fetches the TV genre vocabulary.
func (c *Client) TVGenres(ctx context.Context) (map[int]string, error) {
	return c.genreList(ctx, "tv")
}

func (c *Client) genreList(ctx context.Context, kind string) (map[int]string, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/genre/%s/list", c.config.BaseURL, kind)

	var response GenreListResponse
	if err := c.doRequest(ctx, endpoint, c.baseParams(), &response); err != nil {
		return nil, err
	}

	genres := make(map[int]string, len(response.Genres))
	for _, g := range response.Genres {
		genres[g.ID] = g.Name
	}
	return genres, nil
}

// GetImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) GetImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	return params
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) toMovieItem(movie MovieResult) catalog.MediaItem {
	return catalog.MediaItem{
		ID:               movie.ID,
		MediaType:        catalog.MediaTypeMovie,
		Title:            movie.Title,
		Overview:         movie.Overview,
		Popularity:       movie.Popularity,
		VoteAverage:      movie.VoteAverage,
		GenreIDs:         movie.GenreIDs,
		OriginalLanguage: movie.OriginalLanguage,
		BackdropPath:     deref(movie.BackdropPath),
		PosterPath:       deref(movie.PosterPath),
		ReleaseDate:      movie.ReleaseDate,
	}
}

func (c *Client) toTVItem(tv TVResult) catalog.MediaItem {
	return catalog.MediaItem{
		ID:               tv.ID,
		MediaType:        catalog.MediaTypeTV,
		Title:            tv.Name,
		Overview:         tv.Overview,
		Popularity:       tv.Popularity,
		VoteAverage:      tv.VoteAverage,
		GenreIDs:         tv.GenreIDs,
		OriginalLanguage: tv.OriginalLanguage,
		BackdropPath:     deref(tv.BackdropPath),
		PosterPath:       deref(tv.PosterPath),
		ReleaseDate:      tv.FirstAirDate,
	}
}

// movieSortBy maps a sort key onto the movie discover sort_by parameter.
func movieSortBy(key catalog.SortKey) string {
	switch key {
	case catalog.SortRating:
		return "vote_average.desc"
	case catalog.SortNewest:
		return "primary_release_date.desc"
	default:
		return "popularity.desc"
	}
}

// tvSortBy maps a sort key onto the TV discover sort_by parameter.
func tvSortBy(key catalog.SortKey) string {
	switch key {
	case catalog.SortRating:
		return "vote_average.desc"
	case catalog.SortNewest:
		return "first_air_date.desc"
	default:
		return "popularity.desc"
	}
}

func genreIDs(genres []Genre) []int {
	ids := make([]int, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return ids
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
