// Package library persists the user's personal media state: the
// watchlist, continue-watching progress, and named playlists.
package library

import "time"

// WatchlistEntry is one saved media item.
type WatchlistEntry struct {
	ID           int64     `json:"id"`
	MediaType    string    `json:"mediaType"`
	MediaID      int       `json:"mediaId"`
	Title        string    `json:"title"`
	PosterPath   string    `json:"posterPath,omitempty"`
	BackdropPath string    `json:"backdropPath,omitempty"`
	AddedAt      time.Time `json:"addedAt"`
}

// ContinueWatchingEntry records playback progress for one media item.
// Season and episode are zero for movies. Progress is a 0..1 fraction.
type ContinueWatchingEntry struct {
	ID         int64     `json:"id"`
	MediaType  string    `json:"mediaType"`
	MediaID    int       `json:"mediaId"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath,omitempty"`
	Season     int       `json:"season"`
	Episode    int       `json:"episode"`
	Progress   float64   `json:"progress"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Playlist is a named, ordered list of media items.
type Playlist struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	Items     []PlaylistItem `json:"items,omitempty"`
}

// PlaylistItem is one media entry of a playlist.
type PlaylistItem struct {
	ID         int64     `json:"id"`
	PlaylistID string    `json:"playlistId"`
	MediaType  string    `json:"mediaType"`
	MediaID    int       `json:"mediaId"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath,omitempty"`
	Position   int       `json:"position"`
	AddedAt    time.Time `json:"addedAt"`
}

// SaveWatchlistInput is the payload for adding a watchlist entry.
type SaveWatchlistInput struct {
	MediaType    string `json:"mediaType"`
	MediaID      int    `json:"mediaId"`
	Title        string `json:"title"`
	PosterPath   string `json:"posterPath"`
	BackdropPath string `json:"backdropPath"`
}

// SaveProgressInput is the payload for recording playback progress.
type SaveProgressInput struct {
	MediaType  string  `json:"mediaType"`
	MediaID    int     `json:"mediaId"`
	Title      string  `json:"title"`
	PosterPath string  `json:"posterPath"`
	Season     int     `json:"season"`
	Episode    int     `json:"episode"`
	Progress   float64 `json:"progress"`
}

// AddPlaylistItemInput is the payload for appending to a playlist.
type AddPlaylistItemInput struct {
	MediaType  string `json:"mediaType"`
	MediaID    int    `json:"mediaId"`
	Title      string `json:"title"`
	PosterPath string `json:"posterPath"`
}
