// Package catalog implements the media query resolution and result ranking
// engine: it turns discovery intents and free-text searches into catalog
// provider requests and merges the heterogeneous result streams into a
// single ranked, paginated view.
package catalog

import (
	"strconv"
	"strings"
)

// MediaType identifies the kind of media a query targets. Anime is a
// virtual type: the backing catalog has no first-class anime category,
// so it is synthesized from Japanese-language animation movies and TV.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeAnime MediaType = "anime"
)

// SortKey selects the ordering of discover results.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortRating     SortKey = "rating"
	SortNewest     SortKey = "newest"
)

// MediaItem is a movie or TV show from the catalog. Identity is
// (MediaType, ID); items are immutable once fetched.
type MediaItem struct {
	ID               int       `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview,omitempty"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"voteAverage"`
	GenreIDs         []int     `json:"genreIds,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	ReleaseDate      string    `json:"releaseDate,omitempty"` // first air date for TV
}

// CollectionResult is a movie collection from the catalog.
type CollectionResult struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	BackdropPath string `json:"backdropPath,omitempty"`
}

// ChannelKind discriminates the source of a channel entity.
type ChannelKind string

const (
	ChannelKindNetwork ChannelKind = "network"
	ChannelKindCompany ChannelKind = "company"
	ChannelKindMerged  ChannelKind = "merged"
)

// ChannelEntity unifies TV networks and production companies. The same
// real-world studio often appears under several numeric ids upstream;
// merged entities carry a composite id joining all member ids with "|".
// A ChannelEntity is only surfaced to consumers when LogoPath is set.
type ChannelEntity struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	LogoPath  string      `json:"logoPath,omitempty"`
	Kind      ChannelKind `json:"kind"`
	NetworkID string      `json:"networkId,omitempty"`
	CompanyID string      `json:"companyId,omitempty"`
}

// HasSourceID reports whether id is one of the entity's source ids.
// Composite ids are split on "|" for the membership check.
func (e ChannelEntity) HasSourceID(id int) bool {
	for _, member := range SplitChannelID(e.ID) {
		if member == id {
			return true
		}
	}
	return false
}

// SplitChannelID splits a possibly composite channel id back into its
// numeric member ids. Non-numeric segments are skipped.
func SplitChannelID(id string) []int {
	parts := strings.Split(id, "|")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}

// RawChannel is a network or company as reported by the catalog,
// before identity merging.
type RawChannel struct {
	ID       int
	Name     string
	LogoPath string
}

// ChannelFilter narrows a discover query to a single network or company.
// Selecting one structurally excludes the other.
type ChannelFilter struct {
	kind ChannelKind
	id   int
}

// NoChannel returns the empty filter.
func NoChannel() ChannelFilter { return ChannelFilter{} }

// NetworkFilter filters by TV network id.
func NetworkFilter(id int) ChannelFilter {
	return ChannelFilter{kind: ChannelKindNetwork, id: id}
}

// CompanyFilter filters by production company id.
func CompanyFilter(id int) ChannelFilter {
	return ChannelFilter{kind: ChannelKindCompany, id: id}
}

// Network returns the network id when the filter selects a network.
func (f ChannelFilter) Network() (int, bool) {
	return f.id, f.kind == ChannelKindNetwork
}

// Company returns the company id when the filter selects a company.
func (f ChannelFilter) Company() (int, bool) {
	return f.id, f.kind == ChannelKindCompany
}

// IsZero reports whether no channel is selected.
func (f ChannelFilter) IsZero() bool { return f.kind == "" }

// DiscoverQuery is a filter/sort/paginate specification against the
// media catalog, as opposed to free-text search.
type DiscoverQuery struct {
	Type             MediaType
	Page             int
	IncludeGenres    []int
	ExcludeGenres    []int
	Channel          ChannelFilter
	SortKey          SortKey
	Year             int     // 0 = unset; release year or first-air year
	OriginalLanguage string  // "" = unset
	MaxAgeYears      int     // 0 = unset; lower-bounds the release date
	MinVoteAverage   float64 // 0 = unset
}

// PagedResult is one page of items plus the backend-reported page count.
type PagedResult[T any] struct {
	Items      []T `json:"items"`
	TotalPages int `json:"totalPages"`
}

// ResultKind discriminates the variants of a SearchResult.
type ResultKind string

const (
	ResultKindMedia      ResultKind = "media"
	ResultKindCollection ResultKind = "collection"
	ResultKindChannel    ResultKind = "channel"
)

// SearchResult is one entry of a mixed free-text search: exactly one of
// Media, Collection, or Channel is set, per Kind.
type SearchResult struct {
	Kind       ResultKind        `json:"kind"`
	Media      *MediaItem        `json:"media,omitempty"`
	Collection *CollectionResult `json:"collection,omitempty"`
	Channel    *ChannelEntity    `json:"channel,omitempty"`
	Score      float64           `json:"score"`
}

// DisplayName returns the name used for relevance scoring and display.
func (r SearchResult) DisplayName() string {
	switch r.Kind {
	case ResultKindMedia:
		return r.Media.Title
	case ResultKindCollection:
		return r.Collection.Name
	case ResultKindChannel:
		return r.Channel.Name
	}
	return ""
}

// popularity returns the ranking popularity for the variant. Collections
// and channels carry no popularity upstream and contribute zero.
func (r SearchResult) popularity() float64 {
	if r.Kind == ResultKindMedia {
		return r.Media.Popularity
	}
	return 0
}

// SearchPage is the aggregated, ranked output of a free-text search.
type SearchPage struct {
	Results     []SearchResult `json:"results"`
	TotalPages  int            `json:"totalPages"`
	HiddenCount int            `json:"hiddenCount"`
}
