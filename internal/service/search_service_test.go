package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/movienote/internal/config"
	"github.com/user/movienote/internal/utils"
)

// fakeTMDB serves /search/movie with n results and /movie/{id} with a
// seven-member cast. failSearch makes the search endpoint return 500.
func fakeTMDB(t *testing.T, n int, failSearch bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		if failSearch {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("api_key") == "" || r.URL.Query().Get("language") != "es-ES" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		items := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			date, poster := fmt.Sprintf("%d-03-21", 1990+i), fmt.Sprintf(`"/p%d.jpg"`, i)
			if i == 2 {
				date, poster = "", "null"
			}
			items = append(items, fmt.Sprintf(`{"id":%d,"title":"Movie %d","overview":"Plot %d","release_date":"%s","poster_path":%s}`, i, i, i, date, poster))
		}
		fmt.Fprintf(w, `{"page":1,"results":[%s]}`, strings.Join(items, ","))
	})
	mux.HandleFunc("/movie/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Errorf("credits not requested: %s", r.URL.RawQuery)
		}
		id := strings.TrimPrefix(r.URL.Path, "/movie/")
		fmt.Fprintf(w, `{"id":%s,"title":"The Matrix","overview":"Neo wakes up","release_date":"1999-03-31","poster_path":"/matrix.jpg",
			"credits":{"cast":[{"name":"A1"},{"name":"A2"},{"name":"A3"},{"name":"A4"},{"name":"A5"},{"name":"A6"},{"name":"A7"}]}}`, id)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// fakeOMDB answers s= with n ids (tt0..tt{n-1}) and i= with details,
// failing detail lookups for ids in failIDs with a 500.
func fakeOMDB(t *testing.T, n int, failIDs ...string) *httptest.Server {
	t.Helper()
	fail := map[string]bool{}
	for _, id := range failIDs {
		fail[id] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") == "" {
			t.Errorf("apikey missing: %s", r.URL.RawQuery)
		}
		if s := q.Get("s"); s != "" {
			if q.Get("type") != "movie" {
				t.Errorf("type=movie missing: %s", r.URL.RawQuery)
			}
			if s == "nothing" || n == 0 {
				fmt.Fprint(w, `{"Response":"False","Error":"Movie not found!"}`)
				return
			}
			items := make([]string, 0, n)
			for i := 0; i < n; i++ {
				items = append(items, fmt.Sprintf(`{"Title":"Movie %d","Year":"2001","imdbID":"tt%d","Type":"movie","Poster":"N/A"}`, i, i))
			}
			fmt.Fprintf(w, `{"Search":[%s],"totalResults":"%d","Response":"True"}`, strings.Join(items, ","), n)
			return
		}
		id := q.Get("i")
		if fail[id] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if id == "tt-missing" {
			fmt.Fprint(w, `{"Response":"False","Error":"Incorrect IMDb ID."}`)
			return
		}
		fmt.Fprintf(w, `{"Title":"Movie %s","Year":"2001","imdbID":"%s","Actors":"B1, B2, B3, B4, B5, B6","Plot":"Plot of %s","Poster":"https://m.media-amazon.com/%s.jpg","Response":"True"}`, id, id, id, id)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(tmdbURL, omdbURL string) *SearchService {
	cfg := config.Default()
	if tmdbURL != "" {
		cfg.TMDBAPIKey = "tmdb-key"
		cfg.TMDBBaseURL = tmdbURL
	}
	if omdbURL != "" {
		cfg.OMDBAPIKey = "omdb-key"
		cfg.OMDBBaseURL = omdbURL
	}
	hc := utils.NewHTTPClient(2 * time.Second)
	return NewSearchService(NewTMDBClient(cfg, hc), NewOMDBClient(cfg, hc))
}

func TestSearch_TMDBPrimary(t *testing.T) {
	svc := newTestService(fakeTMDB(t, 12, false).URL, fakeOMDB(t, 3).URL)

	out := svc.Search(context.Background(), "matrix")
	if out.Failed() {
		t.Fatalf("unexpected soft error %q", out.Message)
	}
	if out.Tier != "tmdb" {
		t.Errorf("Tier = %q, want tmdb", out.Tier)
	}
	if len(out.Results) != MaxSearchResults {
		t.Fatalf("len(Results) = %d, want %d", len(out.Results), MaxSearchResults)
	}

	first := out.Results[0]
	if first.IMDbID != "tmdb_1" || first.Title != "Movie 1" || first.Year != "1991" {
		t.Errorf("first = %+v", first)
	}
	if !strings.HasSuffix(first.Poster, "/w342/p1.jpg") {
		t.Errorf("Poster = %q, want w342 url", first.Poster)
	}
	if first.Actors != "" || first.Description != "Plot 1" || first.Plot != "Plot 1" {
		t.Errorf("first = %+v", first)
	}

	second := out.Results[1]
	if second.Year != "N/A" || second.Poster != "N/A" {
		t.Errorf("missing date/poster not mapped to N/A: %+v", second)
	}
}

func TestSearch_FallbackWhenTMDBUnset(t *testing.T) {
	svc := newTestService("", fakeOMDB(t, 3).URL)

	out := svc.Search(context.Background(), "matrix")
	if out.Failed() || out.Tier != "omdb" {
		t.Fatalf("outcome = %+v", out)
	}
	if len(out.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(out.Results))
	}
	for i, r := range out.Results {
		if strings.HasPrefix(r.IMDbID, "tmdb_") {
			t.Errorf("fallback id %q carries tmdb tag", r.IMDbID)
		}
		if r.IMDbID != fmt.Sprintf("tt%d", i) {
			t.Errorf("Results[%d].IMDbID = %q, order not kept", i, r.IMDbID)
		}
		if r.Description == "" || r.Description != r.Plot {
			t.Errorf("description not copied from Plot: %+v", r)
		}
	}
}

func TestSearch_FallbackWhenTMDBFails(t *testing.T) {
	svc := newTestService(fakeTMDB(t, 5, true).URL, fakeOMDB(t, 2).URL)

	out := svc.Search(context.Background(), "matrix")
	if out.Failed() || out.Tier != "omdb" || len(out.Results) != 2 {
		t.Errorf("outcome = %+v", out)
	}
}

func TestSearch_FallbackWhenTMDBEmpty(t *testing.T) {
	svc := newTestService(fakeTMDB(t, 0, false).URL, fakeOMDB(t, 1).URL)

	out := svc.Search(context.Background(), "matrix")
	if out.Tier != "omdb" || len(out.Results) != 1 {
		t.Errorf("outcome = %+v", out)
	}
}

func TestSearch_TMDBEmptyWithoutFallback(t *testing.T) {
	svc := newTestService(fakeTMDB(t, 0, false).URL, "")

	out := svc.Search(context.Background(), "zzzz")
	if out.Message != MsgNoAPIKeys {
		t.Errorf("Message = %q, want %q", out.Message, MsgNoAPIKeys)
	}
	if len(out.Results) != 0 {
		t.Errorf("Results = %v, want none", out.Results)
	}
}

func TestSearch_TMDBFailsWithoutFallback(t *testing.T) {
	svc := newTestService(fakeTMDB(t, 0, true).URL, "")

	out := svc.Search(context.Background(), "matrix")
	if out.Message != MsgProvidersUnavailable {
		t.Errorf("Message = %q, want %q", out.Message, MsgProvidersUnavailable)
	}
}

func TestSearch_NoAPIKeys(t *testing.T) {
	svc := newTestService("", "")

	out := svc.Search(context.Background(), "matrix")
	if out.Message != MsgNoAPIKeys {
		t.Errorf("Message = %q, want %q", out.Message, MsgNoAPIKeys)
	}
}

func TestSearch_OMDBCapsResults(t *testing.T) {
	svc := newTestService("", fakeOMDB(t, 10).URL)

	out := svc.Search(context.Background(), "matrix")
	if len(out.Results) != MaxSearchResults {
		t.Errorf("len(Results) = %d, want %d", len(out.Results), MaxSearchResults)
	}
}

func TestSearch_OMDBPartialDetailFailures(t *testing.T) {
	svc := newTestService("", fakeOMDB(t, 8, "tt2", "tt5").URL)

	out := svc.Search(context.Background(), "matrix")
	if out.Failed() {
		t.Fatalf("unexpected soft error %q", out.Message)
	}
	if len(out.Results) != 6 {
		t.Fatalf("len(Results) = %d, want 6", len(out.Results))
	}
	want := []string{"tt0", "tt1", "tt3", "tt4", "tt6", "tt7"}
	for i, r := range out.Results {
		if r.IMDbID != want[i] {
			t.Errorf("Results[%d] = %q, want %q", i, r.IMDbID, want[i])
		}
	}
}

func TestSearch_OMDBNoResult(t *testing.T) {
	svc := newTestService("", fakeOMDB(t, 3).URL)

	out := svc.Search(context.Background(), "nothing")
	if out.Message != "Movie not found!" {
		t.Errorf("Message = %q, want OMDB's error", out.Message)
	}
}

func TestDetails_TMDB(t *testing.T) {
	svc := newTestService(fakeTMDB(t, 1, false).URL, "")

	out := svc.Details(context.Background(), "tmdb_603")
	if out.Failed() {
		t.Fatalf("unexpected soft error %q", out.Message)
	}
	r := out.Result
	if r.IMDbID != "tmdb_603" || r.Title != "The Matrix" || r.Year != "1999" {
		t.Errorf("result = %+v", r)
	}
	if r.Actors != "A1, A2, A3, A4, A5" {
		t.Errorf("Actors = %q, want first 5 names", r.Actors)
	}
	if !strings.HasSuffix(r.Poster, "/w500/matrix.jpg") {
		t.Errorf("Poster = %q, want w500 url", r.Poster)
	}
	if r.Description != "Neo wakes up" || r.Plot != "Neo wakes up" {
		t.Errorf("description = %q plot = %q", r.Description, r.Plot)
	}
}

func TestDetails_OMDB(t *testing.T) {
	svc := newTestService("", fakeOMDB(t, 1).URL)

	out := svc.Details(context.Background(), "tt0133093")
	if out.Failed() {
		t.Fatalf("unexpected soft error %q", out.Message)
	}
	if out.Result.Actors != "B1, B2, B3, B4, B5" {
		t.Errorf("Actors = %q", out.Result.Actors)
	}
	if out.Result.Description != "Plot of tt0133093" {
		t.Errorf("Description = %q", out.Result.Description)
	}
}

func TestDetails_SoftErrors(t *testing.T) {
	svc := newTestService("", fakeOMDB(t, 1).URL)

	tests := []struct {
		id, want string
	}{
		{"tmdb_abc", MsgInvalidMovieID},
		{"tmdb_603", MsgTMDBNotConfigured},
		{"tt-missing", "Incorrect IMDb ID."},
	}
	for _, tt := range tests {
		if out := svc.Details(context.Background(), tt.id); out.Message != tt.want {
			t.Errorf("Details(%q).Message = %q, want %q", tt.id, out.Message, tt.want)
		}
	}
}

func TestParseMovieID(t *testing.T) {
	id, err := ParseMovieID("tmdb_603")
	if err != nil || id.Provider != ProviderTMDB || id.ID != "603" {
		t.Errorf("ParseMovieID(tmdb_603) = %+v, %v", id, err)
	}
	if id.String() != "tmdb_603" {
		t.Errorf("String() = %q", id.String())
	}

	id, err = ParseMovieID("tt0133093")
	if err != nil || id.Provider != ProviderOMDB || id.String() != "tt0133093" {
		t.Errorf("ParseMovieID(tt0133093) = %+v, %v", id, err)
	}

	for _, bad := range []string{"", "tmdb_", "tmdb_x1"} {
		if _, err := ParseMovieID(bad); err == nil {
			t.Errorf("ParseMovieID(%q) succeeded", bad)
		}
	}
}

func TestDetails_UnknownTMDBIDsKeepSearchTierUp(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-31"}]}`)
	})
	mux.HandleFunc("/movie/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}`)
	})
	tmdb := httptest.NewServer(mux)
	defer tmdb.Close()
	svc := newTestService(tmdb.URL, fakeOMDB(t, 2).URL)

	for i := 0; i < 15; i++ {
		out := svc.Details(context.Background(), fmt.Sprintf("tmdb_9000000%d", i))
		if out.Message != MsgMovieNotFound {
			t.Fatalf("Details #%d Message = %q, want %q", i, out.Message, MsgMovieNotFound)
		}
	}

	out := svc.Search(context.Background(), "matrix")
	if out.Tier != "tmdb" || len(out.Results) != 1 || out.Results[0].IMDbID != "tmdb_603" {
		t.Errorf("search after unknown ids = %+v, want TMDB results", out)
	}
}

func TestHealthy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"no result", &NoResultError{Provider: "omdb", Message: "Movie not found!"}, true},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), true},
		{"not found", &utils.StatusError{StatusCode: http.StatusNotFound}, true},
		{"unauthorized", &utils.StatusError{StatusCode: http.StatusUnauthorized}, true},
		{"rate limited", &utils.StatusError{StatusCode: http.StatusTooManyRequests}, false},
		{"server error", fmt.Errorf("tmdb search: %w", &utils.StatusError{StatusCode: http.StatusBadGateway}), false},
		{"timeout", context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := healthy(tt.err); got != tt.want {
			t.Errorf("healthy(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
