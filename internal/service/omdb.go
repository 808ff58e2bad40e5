package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/user/movienote/internal/config"
	"github.com/user/movienote/internal/metrics"
	"github.com/user/movienote/internal/model"
	"github.com/user/movienote/internal/utils"
)

// OMDBClient talks to the OMDb API. Results are keyed by IMDb id.
type OMDBClient struct {
	http           *utils.HTTPClient
	apiKey         string
	baseURL        string
	searchBreaker  *providerBreaker
	detailsBreaker *providerBreaker
}

func NewOMDBClient(cfg *config.Config, hc *utils.HTTPClient) *OMDBClient {
	return &OMDBClient{
		http:           hc,
		apiKey:         cfg.OMDBAPIKey,
		baseURL:        strings.TrimRight(cfg.OMDBBaseURL, "/"),
		searchBreaker:  newProviderBreaker(ProviderOMDB.String() + "-search"),
		detailsBreaker: newProviderBreaker(ProviderOMDB.String() + "-details"),
	}
}

// Enabled reports whether an API key is configured.
func (c *OMDBClient) Enabled() bool {
	return c.apiKey != ""
}

// omdbEnvelope is embedded in every OMDb response.
type omdbEnvelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (e omdbEnvelope) err() error {
	if strings.EqualFold(e.Response, "False") {
		msg := e.Error
		if msg == "" {
			msg = "no result"
		}
		return &NoResultError{Provider: ProviderOMDB.String(), Message: msg}
	}
	return nil
}

type omdbSearchResponse struct {
	omdbEnvelope
	Search []struct {
		IMDbID string `json:"imdbID"`
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		Poster string `json:"Poster"`
	} `json:"Search"`
}

type omdbDetailsResponse struct {
	omdbEnvelope
	IMDbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
	Actors string `json:"Actors"`
	Plot   string `json:"Plot"`
}

// SearchIDs returns the IMDb ids matching query, in OMDb's order. The
// search endpoint carries no plot, so callers follow up with Details.
func (c *OMDBClient) SearchIDs(ctx context.Context, query string) ([]MovieID, error) {
	if !c.Enabled() {
		return nil, ErrProviderDisabled
	}

	params := c.params()
	params.Set("s", query)
	params.Set("type", "movie")

	resp, err := execute(c.searchBreaker, func() (*omdbSearchResponse, error) {
		var out omdbSearchResponse
		if err := c.http.GetJSON(ctx, c.baseURL+"/?"+params.Encode(), &out); err != nil {
			return nil, err
		}
		if err := out.err(); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		metrics.RecordProviderRequest("omdb", "search", outcomeFor(err))
		return nil, fmt.Errorf("omdb search: %w", err)
	}

	ids := make([]MovieID, 0, len(resp.Search))
	for _, item := range resp.Search {
		if item.IMDbID != "" {
			ids = append(ids, OMDBMovieID(item.IMDbID))
		}
	}
	if len(ids) == 0 {
		metrics.RecordProviderRequest("omdb", "search", metrics.OutcomeEmpty)
	} else {
		metrics.RecordProviderRequest("omdb", "search", metrics.OutcomeSuccess)
	}
	return ids, nil
}

// Details fetches one movie by IMDb id.
func (c *OMDBClient) Details(ctx context.Context, id MovieID) (*model.SearchResult, error) {
	if !c.Enabled() {
		return nil, ErrProviderDisabled
	}

	params := c.params()
	params.Set("i", id.ID)

	d, err := execute(c.detailsBreaker, func() (*omdbDetailsResponse, error) {
		var out omdbDetailsResponse
		if err := c.http.GetJSON(ctx, c.baseURL+"/?"+params.Encode(), &out); err != nil {
			return nil, err
		}
		if err := out.err(); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		metrics.RecordProviderRequest("omdb", "details", outcomeFor(err))
		return nil, fmt.Errorf("omdb details %s: %w", id.ID, err)
	}
	metrics.RecordProviderRequest("omdb", "details", metrics.OutcomeSuccess)

	imdbID := d.IMDbID
	if imdbID == "" {
		imdbID = id.ID
	}
	return &model.SearchResult{
		IMDbID:      imdbID,
		Title:       d.Title,
		Year:        orNotAvailable(d.Year),
		Poster:      orNotAvailable(d.Poster),
		Actors:      utils.TrimNameList(d.Actors, utils.MaxCastNames),
		Plot:        d.Plot,
		Description: d.Plot,
	}, nil
}

func (c *OMDBClient) params() url.Values {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	return params
}

func orNotAvailable(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}
