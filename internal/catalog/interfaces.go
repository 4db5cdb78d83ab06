package catalog

import "context"

// MediaFilters is the concrete fetch specification the resolver hands to
// the provider for one discover request. Genre id lists are pre-joined:
// comma for AND semantics, pipe for OR.
type MediaFilters struct {
	Page             int
	Sort             SortKey
	IncludeGenres    string
	ExcludeGenres    string
	NetworkID        int // 0 = unset
	CompanyID        int // 0 = unset
	Year             int // 0 = unset
	OriginalLanguage string
	DateFrom         string // inclusive lower release/air date bound, YYYY-MM-DD
	DateTo           string // inclusive upper bound
	MinVoteAverage   float64
}

// Provider is the abstract "fetch structured data by query" capability
// the engine is built against. Implementations own transport concerns;
// the engine performs no retries and treats any returned error as a
// failed sub-query.
type Provider interface {
	DiscoverMovies(ctx context.Context, filters MediaFilters) (PagedResult[MediaItem], error)
	DiscoverTV(ctx context.Context, filters MediaFilters) (PagedResult[MediaItem], error)

	SearchMedia(ctx context.Context, query string, page int) (PagedResult[MediaItem], error)
	SearchCollections(ctx context.Context, query string, page int) (PagedResult[CollectionResult], error)
	SearchCompanies(ctx context.Context, query string, page int) (PagedResult[RawChannel], error)

	GetNetwork(ctx context.Context, id int) (RawChannel, error)
	GetMovie(ctx context.Context, id int) (*MediaItem, error)
	GetTV(ctx context.Context, id int) (*MediaItem, error)

	MovieGenres(ctx context.Context) (map[int]string, error)
	TVGenres(ctx context.Context) (map[int]string, error)
}
