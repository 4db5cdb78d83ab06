package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reelscope/reelscope/internal/library"
)

// getWatchlist lists saved media items.
// GET /api/v1/library/watchlist
func (s *Server) getWatchlist(c echo.Context) error {
	entries, err := s.library.Watchlist(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

// addToWatchlist saves a media item.
// POST /api/v1/library/watchlist
func (s *Server) addToWatchlist(c echo.Context) error {
	var input library.SaveWatchlistInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	entry, err := s.library.AddToWatchlist(c.Request().Context(), input)
	if err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("watchlist")
	return c.JSON(http.StatusCreated, entry)
}

// removeFromWatchlist deletes a saved item.
// DELETE /api/v1/library/watchlist/:mediaType/:mediaId
func (s *Server) removeFromWatchlist(c echo.Context) error {
	mediaID, err := strconv.Atoi(c.Param("mediaId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid media id")
	}

	if err := s.library.RemoveFromWatchlist(c.Request().Context(), c.Param("mediaType"), mediaID); err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("watchlist")
	return c.NoContent(http.StatusNoContent)
}

// getContinueWatching lists in-progress items, most recent first.
// GET /api/v1/library/continue-watching?limit=20
func (s *Server) getContinueWatching(c echo.Context) error {
	entries, err := s.library.ContinueWatching(c.Request().Context(), intParam(c, "limit", 20))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

// saveProgress upserts playback progress.
// PUT /api/v1/library/continue-watching
func (s *Server) saveProgress(c echo.Context) error {
	var input library.SaveProgressInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	entry, err := s.library.SaveProgress(c.Request().Context(), input)
	if err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("continueWatching")
	if entry == nil {
		// Finished items are removed rather than stored.
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, entry)
}

// listPlaylists lists playlists without items.
// GET /api/v1/library/playlists
func (s *Server) listPlaylists(c echo.Context) error {
	playlists, err := s.library.Playlists(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, playlists)
}

// createPlaylist creates an empty named playlist.
// POST /api/v1/library/playlists
func (s *Server) createPlaylist(c echo.Context) error {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	playlist, err := s.library.CreatePlaylist(c.Request().Context(), input.Name)
	if err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("playlists")
	return c.JSON(http.StatusCreated, playlist)
}

// renamePlaylist changes a playlist's name.
// PUT /api/v1/library/playlists/:id
func (s *Server) renamePlaylist(c echo.Context) error {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	playlist, err := s.library.RenamePlaylist(c.Request().Context(), c.Param("id"), input.Name)
	if err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("playlists")
	return c.JSON(http.StatusOK, playlist)
}

// getPlaylist returns one playlist with items.
// GET /api/v1/library/playlists/:id
func (s *Server) getPlaylist(c echo.Context) error {
	playlist, err := s.library.GetPlaylist(c.Request().Context(), c.Param("id"))
	if err != nil {
		return libraryError(err)
	}
	return c.JSON(http.StatusOK, playlist)
}

// deletePlaylist removes a playlist and its items.
// DELETE /api/v1/library/playlists/:id
func (s *Server) deletePlaylist(c echo.Context) error {
	if err := s.library.DeletePlaylist(c.Request().Context(), c.Param("id")); err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("playlists")
	return c.NoContent(http.StatusNoContent)
}

// addPlaylistItem appends a media item to a playlist.
// POST /api/v1/library/playlists/:id/items
func (s *Server) addPlaylistItem(c echo.Context) error {
	var input library.AddPlaylistItemInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := s.library.AddPlaylistItem(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("playlists")
	return c.JSON(http.StatusCreated, item)
}

// reorderPlaylistItems rewrites a playlist's item order. The body must
// name every item in the playlist exactly once.
// PUT /api/v1/library/playlists/:id/items
func (s *Server) reorderPlaylistItems(c echo.Context) error {
	var input struct {
		ItemIDs []int64 `json:"itemIds"`
	}
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.library.ReorderPlaylistItems(c.Request().Context(), c.Param("id"), input.ItemIDs); err != nil {
		return libraryError(err)
	}

	playlist, err := s.library.GetPlaylist(c.Request().Context(), c.Param("id"))
	if err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("playlists")
	return c.JSON(http.StatusOK, playlist)
}

// removePlaylistItem removes one item from a playlist.
// DELETE /api/v1/library/playlists/:id/items/:itemId
func (s *Server) removePlaylistItem(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	if err := s.library.RemovePlaylistItem(c.Request().Context(), c.Param("id"), itemID); err != nil {
		return libraryError(err)
	}

	s.broadcastLibraryChange("playlists")
	return c.NoContent(http.StatusNoContent)
}

// broadcastLibraryChange notifies connected clients that a library
// section changed so open tabs can refetch.
func (s *Server) broadcastLibraryChange(section string) {
	if err := s.hub.Broadcast("library:changed", map[string]string{"section": section}); err != nil {
		s.logger.Warn().Err(err).Str("section", section).Msg("Failed to broadcast library change")
	}
}

// libraryError maps store errors onto HTTP status codes.
func libraryError(err error) error {
	switch {
	case errors.Is(err, library.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, library.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, library.ErrAlreadySaved), errors.Is(err, library.ErrDuplicateItem):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
