package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/reelscope/reelscope/internal/catalog"
)

// discover resolves a filtered, sorted browse query.
// GET /api/v1/discover?type=movie&page=1&sort=popularity&genres=16,28&...
func (s *Server) discover(c echo.Context) error {
	query, err := parseDiscoverQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := s.catalog.ResolveDiscover(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, catalog.ErrUnsupportedType) {
			return echo.NewHTTPError(http.StatusBadRequest, "unsupported media type")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, page)
}

// search runs the mixed free-text search.
// GET /api/v1/search?query=...&page=1&includeImageless=false
func (s *Server) search(c echo.Context) error {
	query := c.QueryParam("query")
	if strings.TrimSpace(query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	page := intParam(c, "page", 1)
	includeImageless := c.QueryParam("includeImageless") == "true"

	result, err := s.catalog.SearchAll(c.Request().Context(), query, page, includeImageless)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// genres returns the genre vocabulary for a media type.
// GET /api/v1/genres/:type
func (s *Server) genres(c echo.Context) error {
	mediaType := catalog.MediaType(c.Param("type"))

	genres, err := s.catalog.Genres(c.Request().Context(), mediaType)
	if err != nil {
		if errors.Is(err, catalog.ErrUnsupportedType) {
			return echo.NewHTTPError(http.StatusBadRequest, "unsupported media type")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, genres)
}

// mediaDetail returns detailed info for one media item.
// GET /api/v1/media/:type/:id
func (s *Server) mediaDetail(c echo.Context) error {
	mediaType := catalog.MediaType(c.Param("type"))
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := s.catalog.MediaDetail(c.Request().Context(), mediaType, id)
	if err != nil {
		if errors.Is(err, catalog.ErrUnsupportedType) {
			return echo.NewHTTPError(http.StatusBadRequest, "unsupported media type")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, item)
}

// networks returns the cached popular-network catalog.
// GET /api/v1/networks
func (s *Server) networks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.Networks())
}

// refreshNetworks repopulates the network catalog from the provider.
// POST /api/v1/networks/refresh
func (s *Server) refreshNetworks(c echo.Context) error {
	if err := s.catalog.RefreshNetworks(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"networks": len(s.catalog.Networks())})
}

// clearCache drops all memoized catalog lookups.
// DELETE /api/v1/cache
func (s *Server) clearCache(c echo.Context) error {
	s.catalog.ClearCache()
	return c.NoContent(http.StatusNoContent)
}

// parseDiscoverQuery maps query parameters onto a DiscoverQuery. Network
// and company filters are mutually exclusive.
func parseDiscoverQuery(c echo.Context) (catalog.DiscoverQuery, error) {
	mediaType := catalog.MediaType(c.QueryParam("type"))
	if mediaType == "" {
		return catalog.DiscoverQuery{}, errors.New("type parameter is required")
	}

	q := catalog.DiscoverQuery{
		Type:             mediaType,
		Page:             intParam(c, "page", 1),
		SortKey:          catalog.SortKey(c.QueryParam("sort")),
		Year:             intParam(c, "year", 0),
		OriginalLanguage: c.QueryParam("language"),
		MaxAgeYears:      intParam(c, "maxAge", 0),
		Channel:          catalog.NoChannel(),
	}

	var err error
	if q.IncludeGenres, err = parseIDList(c.QueryParam("genres")); err != nil {
		return catalog.DiscoverQuery{}, errors.New("invalid genres parameter")
	}
	if q.ExcludeGenres, err = parseIDList(c.QueryParam("excludeGenres")); err != nil {
		return catalog.DiscoverQuery{}, errors.New("invalid excludeGenres parameter")
	}

	if v := c.QueryParam("minRating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil || rating < 0 || rating > 10 {
			return catalog.DiscoverQuery{}, errors.New("invalid minRating parameter")
		}
		q.MinVoteAverage = rating
	}

	networkParam := c.QueryParam("network")
	companyParam := c.QueryParam("company")
	if networkParam != "" && companyParam != "" {
		return catalog.DiscoverQuery{}, errors.New("network and company filters are mutually exclusive")
	}
	if networkParam != "" {
		id, err := strconv.Atoi(networkParam)
		if err != nil {
			return catalog.DiscoverQuery{}, errors.New("invalid network parameter")
		}
		q.Channel = catalog.NetworkFilter(id)
	}
	if companyParam != "" {
		id, err := strconv.Atoi(companyParam)
		if err != nil {
			return catalog.DiscoverQuery{}, errors.New("invalid company parameter")
		}
		q.Channel = catalog.CompanyFilter(id)
	}

	return q, nil
}

// parseIDList parses a comma-separated list of numeric ids.
func parseIDList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func intParam(c echo.Context, name string, fallback int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
