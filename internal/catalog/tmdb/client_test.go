package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelscope/reelscope/internal/catalog"
	"github.com/reelscope/reelscope/internal/config"
)

func strPtr(s string) *string { return &s }

func newTestClient(server *httptest.Server) *Client {
	cfg := config.TMDBConfig{
		APIKey:       "test-api-key",
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Timeout:      5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_Name(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())
	if client.Name() != "tmdb" {
		t.Errorf("Name() = %q, want %q", client.Name(), "tmdb")
	}
}

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.TMDBConfig{APIKey: tt.apiKey}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())
	_, err := client.DiscoverMovies(context.Background(), catalog.MediaFilters{Page: 1})
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("DiscoverMovies() error = %v, want ErrAPIKeyMissing", err)
	}
}

func TestClient_DiscoverMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		q := r.URL.Query()
		if got := q.Get("sort_by"); got != "primary_release_date.desc" {
			t.Errorf("sort_by = %q, want %q", got, "primary_release_date.desc")
		}
		if got := q.Get("with_genres"); got != "16,28" {
			t.Errorf("with_genres = %q, want %q", got, "16,28")
		}
		if got := q.Get("primary_release_date.lte"); got != "2025-06-15" {
			t.Errorf("primary_release_date.lte = %q, want %q", got, "2025-06-15")
		}
		if got := q.Get("with_original_language"); got != "ja" {
			t.Errorf("with_original_language = %q, want %q", got, "ja")
		}

		response := PagedResponse[MovieResult]{
			Page:       2,
			TotalPages: 10,
			Results: []MovieResult{
				{
					ID:           603,
					Title:        "The Matrix",
					Popularity:   85.3,
					VoteAverage:  8.2,
					GenreIDs:     []int{28, 878},
					ReleaseDate:  "1999-03-30",
					BackdropPath: strPtr("/matrix.jpg"),
				},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server)
	page, err := client.DiscoverMovies(context.Background(), catalog.MediaFilters{
		Page:             2,
		Sort:             catalog.SortNewest,
		IncludeGenres:    "16,28",
		OriginalLanguage: "ja",
		DateTo:           "2025-06-15",
	})
	if err != nil {
		t.Fatalf("DiscoverMovies() error = %v", err)
	}

	if page.TotalPages != 10 {
		t.Errorf("TotalPages = %d, want 10", page.TotalPages)
	}
	if len(page.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(page.Items))
	}
	item := page.Items[0]
	if item.MediaType != catalog.MediaTypeMovie {
		t.Errorf("MediaType = %q, want movie", item.MediaType)
	}
	if item.Title != "The Matrix" {
		t.Errorf("Title = %q, want %q", item.Title, "The Matrix")
	}
	if item.BackdropPath != "/matrix.jpg" {
		t.Errorf("BackdropPath = %q, want %q", item.BackdropPath, "/matrix.jpg")
	}
}

func TestClient_DiscoverTV_NetworkFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/tv" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("with_networks"); got != "213" {
			t.Errorf("with_networks = %q, want %q", got, "213")
		}
		if got := r.URL.Query().Get("sort_by"); got != "popularity.desc" {
			t.Errorf("sort_by = %q, want %q", got, "popularity.desc")
		}

		response := PagedResponse[TVResult]{
			Page:       1,
			TotalPages: 3,
			Results: []TVResult{
				{ID: 1399, Name: "Game of Thrones", FirstAirDate: "2011-04-17"},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server)
	page, err := client.DiscoverTV(context.Background(), catalog.MediaFilters{
		Page:      1,
		Sort:      catalog.SortPopularity,
		NetworkID: 213,
	})
	if err != nil {
		t.Fatalf("DiscoverTV() error = %v", err)
	}

	if len(page.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(page.Items))
	}
	if page.Items[0].MediaType != catalog.MediaTypeTV {
		t.Errorf("MediaType = %q, want tv", page.Items[0].MediaType)
	}
	if page.Items[0].Title != "Game of Thrones" {
		t.Errorf("Title = %q, want %q", page.Items[0].Title, "Game of Thrones")
	}
	if page.Items[0].ReleaseDate != "2011-04-17" {
		t.Errorf("ReleaseDate = %q, want first air date", page.Items[0].ReleaseDate)
	}
}

func TestClient_SearchMedia_DropsPersonEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "murphy" {
			t.Errorf("query = %q, want %q", got, "murphy")
		}

		response := PagedResponse[MultiResult]{
			Page:       1,
			TotalPages: 1,
			Results: []MultiResult{
				{ID: 1, MediaType: "movie", Title: "Oppenheimer", ReleaseDate: "2023-07-21"},
				{ID: 2, MediaType: "person", Name: "Cillian Murphy"},
				{ID: 3, MediaType: "tv", Name: "Peaky Blinders", FirstAirDate: "2013-09-12"},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server)
	page, err := client.SearchMedia(context.Background(), "murphy", 1)
	if err != nil {
		t.Fatalf("SearchMedia() error = %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2 (person dropped)", len(page.Items))
	}
	if page.Items[0].MediaType != catalog.MediaTypeMovie || page.Items[0].Title != "Oppenheimer" {
		t.Errorf("unexpected first item: %+v", page.Items[0])
	}
	if page.Items[1].MediaType != catalog.MediaTypeTV || page.Items[1].ReleaseDate != "2013-09-12" {
		t.Errorf("unexpected second item: %+v", page.Items[1])
	}
}

func TestClient_SearchCompanies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/company" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		response := PagedResponse[CompanyResult]{
			Page:       1,
			TotalPages: 1,
			Results: []CompanyResult{
				{ID: 2, Name: "Walt Disney Pictures", LogoPath: strPtr("/disney.png")},
				{ID: 3, Name: "Pixar"},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server)
	page, err := client.SearchCompanies(context.Background(), "disney", 1)
	if err != nil {
		t.Fatalf("SearchCompanies() error = %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Items))
	}
	if page.Items[0].LogoPath != "/disney.png" {
		t.Errorf("LogoPath = %q, want %q", page.Items[0].LogoPath, "/disney.png")
	}
	if page.Items[1].LogoPath != "" {
		t.Errorf("LogoPath = %q, want empty for nil logo_path", page.Items[1].LogoPath)
	}
}

func TestClient_GetNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/network/213" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(NetworkDetails{ID: 213, Name: "Netflix", LogoPath: strPtr("/netflix.png")})
	}))
	defer server.Close()

	client := newTestClient(server)
	network, err := client.GetNetwork(context.Background(), 213)
	if err != nil {
		t.Fatalf("GetNetwork() error = %v", err)
	}

	if network.ID != 213 || network.Name != "Netflix" || network.LogoPath != "/netflix.png" {
		t.Errorf("unexpected network: %+v", network)
	}
}

func TestClient_MovieGenres(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/movie/list" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(GenreListResponse{Genres: []Genre{
			{ID: 28, Name: "Action"},
			{ID: 16, Name: "Animation"},
		}})
	}))
	defer server.Close()

	client := newTestClient(server)
	genres, err := client.MovieGenres(context.Background())
	if err != nil {
		t.Fatalf("MovieGenres() error = %v", err)
	}

	if genres[28] != "Action" || genres[16] != "Animation" {
		t.Errorf("unexpected genres: %v", genres)
	}
}

func TestClient_GetMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(MovieDetails{
			ID:          603,
			Title:       "The Matrix",
			ReleaseDate: "1999-03-30",
			Genres:      []Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	item, err := client.GetMovie(context.Background(), 603)
	if err != nil {
		t.Fatalf("GetMovie() error = %v", err)
	}

	if item.Title != "The Matrix" {
		t.Errorf("Title = %q, want %q", item.Title, "The Matrix")
	}
	if len(item.GenreIDs) != 2 || item.GenreIDs[0] != 28 {
		t.Errorf("GenreIDs = %v, want [28 878]", item.GenreIDs)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, ErrAPIError},
		{"server error", http.StatusInternalServerError, ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(ErrorResponse{StatusCode: tt.status, StatusMessage: "boom"})
			}))
			defer server.Close()

			client := newTestClient(server)
			_, err := client.GetTV(context.Background(), 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("GetTV() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClient_GetImageURL(t *testing.T) {
	client := NewClient(config.TMDBConfig{ImageBaseURL: "https://image.tmdb.org/t/p"}, zerolog.Nop())

	if got := client.GetImageURL("/poster.jpg", "w500"); got != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("GetImageURL() = %q", got)
	}
	if got := client.GetImageURL("", "w500"); got != "" {
		t.Errorf("GetImageURL(empty) = %q, want empty", got)
	}
}
