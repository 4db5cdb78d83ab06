package tmdb

// MovieResult is a movie entry from TMDB search or discover responses.
type MovieResult struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
}

// TVResult is a TV series entry from TMDB search or discover responses.
type TVResult struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	FirstAirDate     string  `json:"first_air_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
}

// MultiResult is an entry from the /search/multi endpoint. MediaType
// discriminates movie, tv, and person entries; person entries are
// ignored.
type MultiResult struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title"` // movies
	Name             string  `json:"name"`  // tv
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
}

// CollectionResult is an entry from the /search/collection endpoint.
type CollectionResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

// CompanyResult is an entry from the /search/company endpoint.
type CompanyResult struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	LogoPath *string `json:"logo_path"`
}

// NetworkDetails is the /network/{id} response.
type NetworkDetails struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	LogoPath *string `json:"logo_path"`
}

// Genre is one entry of a genre vocabulary response.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the /genre/{movie,tv}/list response.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// PagedResponse is the TMDB paged envelope shared by search and
// discover endpoints.
type PagedResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// MovieDetails is the /movie/{id} response.
type MovieDetails struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	Genres           []Genre `json:"genres"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
}

// TVDetails is the /tv/{id} response.
type TVDetails struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	Genres           []Genre `json:"genres"`
	OriginalLanguage string  `json:"original_language"`
	FirstAirDate     string  `json:"first_air_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
}

// ErrorResponse is the TMDB API error envelope.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
