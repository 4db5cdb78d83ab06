package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound      = errors.New("library entry not found")
	ErrInvalidInput  = errors.New("invalid library input")
	ErrAlreadySaved  = errors.New("entry already in watchlist")
	ErrDuplicateItem = errors.New("item already in playlist")
)

// Store persists library state in SQLite.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewStore creates a new library store.
func NewStore(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "library").Logger(),
	}
}

// Watchlist returns all watchlist entries, newest first.
func (s *Store) Watchlist(ctx context.Context) ([]WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, media_type, media_id, title, poster_path, backdrop_path, added_at
		FROM watchlist
		ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	entries := make([]WatchlistEntry, 0)
	for rows.Next() {
		var e WatchlistEntry
		if err := rows.Scan(&e.ID, &e.MediaType, &e.MediaID, &e.Title, &e.PosterPath, &e.BackdropPath, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddToWatchlist saves a media item. Saving the same item twice returns
// ErrAlreadySaved.
func (s *Store) AddToWatchlist(ctx context.Context, input SaveWatchlistInput) (*WatchlistEntry, error) {
	if err := validateMediaRef(input.MediaType, input.MediaID); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	var e WatchlistEntry
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO watchlist (media_type, media_id, title, poster_path, backdrop_path)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, media_type, media_id, title, poster_path, backdrop_path, added_at`,
		input.MediaType, input.MediaID, input.Title, input.PosterPath, input.BackdropPath,
	).Scan(&e.ID, &e.MediaType, &e.MediaID, &e.Title, &e.PosterPath, &e.BackdropPath, &e.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadySaved
		}
		return nil, fmt.Errorf("failed to add watchlist entry: %w", err)
	}

	s.logger.Debug().Str("mediaType", e.MediaType).Int("mediaId", e.MediaID).Msg("Added to watchlist")
	return &e, nil
}

// RemoveFromWatchlist deletes a saved item by media reference.
func (s *Store) RemoveFromWatchlist(ctx context.Context, mediaType string, mediaID int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist WHERE media_type = ? AND media_id = ?`, mediaType, mediaID)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ContinueWatching returns progress entries, most recently updated first.
func (s *Store) ContinueWatching(ctx context.Context, limit int) ([]ContinueWatchingEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, media_type, media_id, title, poster_path, season, episode, progress, updated_at
		FROM continue_watching
		ORDER BY updated_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query continue watching: %w", err)
	}
	defer rows.Close()

	entries := make([]ContinueWatchingEntry, 0)
	for rows.Next() {
		var e ContinueWatchingEntry
		if err := rows.Scan(&e.ID, &e.MediaType, &e.MediaID, &e.Title, &e.PosterPath, &e.Season, &e.Episode, &e.Progress, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveProgress upserts playback progress for one item. A progress of
// 1.0 (finished) removes the entry instead.
func (s *Store) SaveProgress(ctx context.Context, input SaveProgressInput) (*ContinueWatchingEntry, error) {
	if err := validateMediaRef(input.MediaType, input.MediaID); err != nil {
		return nil, err
	}
	if input.Progress < 0 || input.Progress > 1 {
		return nil, fmt.Errorf("%w: progress must be within [0, 1]", ErrInvalidInput)
	}

	if input.Progress >= 1 {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM continue_watching
			WHERE media_type = ? AND media_id = ? AND season = ? AND episode = ?`,
			input.MediaType, input.MediaID, input.Season, input.Episode)
		if err != nil {
			return nil, fmt.Errorf("failed to clear finished entry: %w", err)
		}
		return nil, nil
	}

	var e ContinueWatchingEntry
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO continue_watching (media_type, media_id, title, poster_path, season, episode, progress, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (media_type, media_id, season, episode) DO UPDATE SET
			title = excluded.title,
			poster_path = excluded.poster_path,
			progress = excluded.progress,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, media_type, media_id, title, poster_path, season, episode, progress, updated_at`,
		input.MediaType, input.MediaID, input.Title, input.PosterPath, input.Season, input.Episode, input.Progress,
	).Scan(&e.ID, &e.MediaType, &e.MediaID, &e.Title, &e.PosterPath, &e.Season, &e.Episode, &e.Progress, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	return &e, nil
}

// Playlists returns all playlists without their items, newest first.
func (s *Store) Playlists(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM playlists ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]Playlist, 0)
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// CreatePlaylist creates an empty named playlist.
func (s *Store) CreatePlaylist(ctx context.Context, name string) (*Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", ErrInvalidInput)
	}

	var p Playlist
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (id, name)
		VALUES (?, ?)
		RETURNING id, name, created_at`,
		uuid.NewString(), name,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	p.Items = []PlaylistItem{}
	s.logger.Debug().Str("playlistId", p.ID).Str("name", p.Name).Msg("Created playlist")
	return &p, nil
}

// RenamePlaylist changes a playlist's name.
func (s *Store) RenamePlaylist(ctx context.Context, id, name string) (*Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", ErrInvalidInput)
	}

	var p Playlist
	err := s.db.QueryRowContext(ctx, `
		UPDATE playlists SET name = ? WHERE id = ?
		RETURNING id, name, created_at`,
		name, id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rename playlist: %w", err)
	}

	p.Items = []PlaylistItem{}
	s.logger.Debug().Str("playlistId", p.ID).Str("name", p.Name).Msg("Renamed playlist")
	return &p, nil
}

// GetPlaylist returns one playlist with its items in order.
func (s *Store) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	var p Playlist
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM playlists WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, playlist_id, media_type, media_id, title, poster_path, position, added_at
		FROM playlist_items
		WHERE playlist_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist items: %w", err)
	}
	defer rows.Close()

	p.Items = make([]PlaylistItem, 0)
	for rows.Next() {
		var item PlaylistItem
		if err := rows.Scan(&item.ID, &item.PlaylistID, &item.MediaType, &item.MediaID, &item.Title, &item.PosterPath, &item.Position, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist item: %w", err)
		}
		p.Items = append(p.Items, item)
	}
	return &p, rows.Err()
}

// DeletePlaylist removes a playlist and its items.
func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddPlaylistItem appends a media item at the end of a playlist.
func (s *Store) AddPlaylistItem(ctx context.Context, playlistID string, input AddPlaylistItemInput) (*PlaylistItem, error) {
	if err := validateMediaRef(input.MediaType, input.MediaID); err != nil {
		return nil, err
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM playlists WHERE id = ?`, playlistID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check playlist: %w", err)
	}

	var item PlaylistItem
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO playlist_items (playlist_id, media_type, media_id, title, poster_path, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_items WHERE playlist_id = ?))
		RETURNING id, playlist_id, media_type, media_id, title, poster_path, position, added_at`,
		playlistID, input.MediaType, input.MediaID, input.Title, input.PosterPath, playlistID,
	).Scan(&item.ID, &item.PlaylistID, &item.MediaType, &item.MediaID, &item.Title, &item.PosterPath, &item.Position, &item.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateItem
		}
		return nil, fmt.Errorf("failed to add playlist item: %w", err)
	}

	return &item, nil
}

// ReorderPlaylistItems rewrites item positions to match the given item id
// order. The list must name every item in the playlist exactly once.
func (s *Store) ReorderPlaylistItems(ctx context.Context, playlistID string, itemIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM playlists WHERE id = ?`, playlistID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check playlist: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM playlist_items WHERE playlist_id = ?`, playlistID)
	if err != nil {
		return fmt.Errorf("failed to query playlist items: %w", err)
	}

	current := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan playlist item id: %w", err)
		}
		current[id] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read playlist items: %w", err)
	}
	rows.Close()

	if len(itemIDs) != len(current) {
		return fmt.Errorf("%w: order must list every playlist item exactly once", ErrInvalidInput)
	}
	for _, id := range itemIDs {
		if !current[id] {
			return fmt.Errorf("%w: item %d is not in the playlist", ErrInvalidInput, id)
		}
		// Catches duplicate ids since the length check passed.
		delete(current, id)
	}

	for i, id := range itemIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE playlist_items SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("failed to update item position: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	s.logger.Debug().Str("playlistId", playlistID).Int("items", len(itemIDs)).Msg("Reordered playlist")
	return nil
}

// RemovePlaylistItem removes one item from a playlist by item id.
func (s *Store) RemovePlaylistItem(ctx context.Context, playlistID string, itemID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM playlist_items WHERE playlist_id = ? AND id = ?`, playlistID, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove playlist item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func validateMediaRef(mediaType string, mediaID int) error {
	if mediaType != "movie" && mediaType != "tv" {
		return fmt.Errorf("%w: media type must be movie or tv", ErrInvalidInput)
	}
	if mediaID <= 0 {
		return fmt.Errorf("%w: media id is required", ErrInvalidInput)
	}
	return nil
}

// isUniqueViolation detects SQLite unique constraint errors without
// depending on driver error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}
