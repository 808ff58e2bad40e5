package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/user/movienote/internal/config"
	"github.com/user/movienote/internal/metrics"
	"github.com/user/movienote/internal/model"
	"github.com/user/movienote/internal/utils"
)

// Poster sizes: search lists use a smaller image than the detail view.
const (
	searchPosterSize = "w342"
	detailPosterSize = "w500"
)

// TMDBClient talks to The Movie Database v3 API.
type TMDBClient struct {
	http         *utils.HTTPClient
	apiKey       string
	language     string
	baseURL      string
	imageBaseURL string
	// search and details fail independently: a burst of bad detail ids
	// must not take the primary search tier down.
	searchBreaker  *providerBreaker
	detailsBreaker *providerBreaker
}

func NewTMDBClient(cfg *config.Config, hc *utils.HTTPClient) *TMDBClient {
	return &TMDBClient{
		http:           hc,
		apiKey:         cfg.TMDBAPIKey,
		language:       cfg.TMDBLanguage,
		baseURL:        strings.TrimRight(cfg.TMDBBaseURL, "/"),
		imageBaseURL:   cfg.TMDBImageBaseURL,
		searchBreaker:  newProviderBreaker(ProviderTMDB.String() + "-search"),
		detailsBreaker: newProviderBreaker(ProviderTMDB.String() + "-details"),
	}
}

// Enabled reports whether an API key is configured.
func (c *TMDBClient) Enabled() bool {
	return c.apiKey != ""
}

type tmdbSearchResponse struct {
	Results []tmdbMovie `json:"results"`
}

type tmdbMovie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

type tmdbDetailsResponse struct {
	tmdbMovie
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
	} `json:"credits"`
}

// Search returns normalized results for query in TMDB's ranking order.
// Actors are left empty; Details fills them.
func (c *TMDBClient) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if !c.Enabled() {
		return nil, ErrProviderDisabled
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	params.Set("query", query)

	resp, err := execute(c.searchBreaker, func() (*tmdbSearchResponse, error) {
		var out tmdbSearchResponse
		if err := c.http.GetJSON(ctx, c.baseURL+"/search/movie?"+params.Encode(), &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		metrics.RecordProviderRequest("tmdb", "search", outcomeFor(err))
		return nil, fmt.Errorf("tmdb search: %w", err)
	}

	results := make([]model.SearchResult, 0, len(resp.Results))
	for _, m := range resp.Results {
		results = append(results, model.SearchResult{
			IMDbID:      TMDBMovieID(m.ID).String(),
			Title:       m.Title,
			Year:        utils.ExtractYear(m.ReleaseDate),
			Poster:      utils.PosterURL(c.imageBaseURL, searchPosterSize, m.PosterPath),
			Plot:        m.Overview,
			Description: m.Overview,
		})
	}
	if len(results) == 0 {
		metrics.RecordProviderRequest("tmdb", "search", metrics.OutcomeEmpty)
	} else {
		metrics.RecordProviderRequest("tmdb", "search", metrics.OutcomeSuccess)
	}
	return results, nil
}

// Details fetches one movie with its credits.
func (c *TMDBClient) Details(ctx context.Context, id MovieID) (*model.SearchResult, error) {
	if !c.Enabled() {
		return nil, ErrProviderDisabled
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	params.Set("append_to_response", "credits")
	endpoint := fmt.Sprintf("%s/movie/%s?%s", c.baseURL, url.PathEscape(id.ID), params.Encode())

	d, err := execute(c.detailsBreaker, func() (*tmdbDetailsResponse, error) {
		var out tmdbDetailsResponse
		if err := c.http.GetJSON(ctx, endpoint, &out); err != nil {
			var se *utils.StatusError
			if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
				return nil, &NoResultError{Provider: ProviderTMDB.String(), Message: MsgMovieNotFound}
			}
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		metrics.RecordProviderRequest("tmdb", "details", outcomeFor(err))
		return nil, fmt.Errorf("tmdb details %s: %w", id.ID, err)
	}
	metrics.RecordProviderRequest("tmdb", "details", metrics.OutcomeSuccess)

	names := make([]string, 0, utils.MaxCastNames)
	for _, member := range d.Credits.Cast {
		if len(names) == utils.MaxCastNames {
			break
		}
		names = append(names, member.Name)
	}

	return &model.SearchResult{
		IMDbID:      id.String(),
		Title:       d.Title,
		Year:        utils.ExtractYear(d.ReleaseDate),
		Poster:      utils.PosterURL(c.imageBaseURL, detailPosterSize, d.PosterPath),
		Actors:      utils.JoinNames(names, utils.MaxCastNames),
		Plot:        d.Overview,
		Description: d.Overview,
	}, nil
}

// outcomeFor maps a provider call error onto a metrics outcome label.
func outcomeFor(err error) string {
	if rejected(err) {
		return metrics.OutcomeRejected
	}
	var nr *NoResultError
	if errors.As(err, &nr) {
		return metrics.OutcomeEmpty
	}
	return metrics.OutcomeFailure
}
