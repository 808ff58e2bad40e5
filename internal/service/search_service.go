package service

import (
	"context"
	"errors"
	"strings"

	"github.com/user/movienote/internal/logging"
	"github.com/user/movienote/internal/metrics"
	"github.com/user/movienote/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// MaxSearchResults caps every search response.
const MaxSearchResults = 8

// Soft error messages shown to clients.
const (
	MsgProvidersUnavailable = "Movie providers are unavailable"
	MsgInvalidMovieID       = "Invalid movie id"
	MsgTMDBNotConfigured    = "TMDB API key not configured"
	MsgOMDBNotConfigured    = "OMDB API key not configured"
)

// SearchOutcome is what a search produced: either Results (possibly
// empty) or a Message explaining why nothing could be searched.
type SearchOutcome struct {
	Results []model.SearchResult
	Message string
	Tier    string
}

// Failed reports whether the outcome carries a soft error.
func (o *SearchOutcome) Failed() bool {
	return o.Message != ""
}

// DetailsOutcome is either a single Result or a Message.
type DetailsOutcome struct {
	Result  *model.SearchResult
	Message string
}

// Failed reports whether the outcome carries a soft error.
func (o *DetailsOutcome) Failed() bool {
	return o.Message != ""
}

// SearchService aggregates TMDB (primary) and OMDB (fallback).
type SearchService struct {
	tmdb *TMDBClient
	omdb *OMDBClient
	sf   singleflight.Group
}

func NewSearchService(tmdb *TMDBClient, omdb *OMDBClient) *SearchService {
	return &SearchService{tmdb: tmdb, omdb: omdb}
}

// Search tries TMDB first. A non-empty TMDB answer wins outright; otherwise
// the whole query is replayed against OMDB, whose search results are then
// enriched with per-movie details so they carry a plot.
func (s *SearchService) Search(ctx context.Context, query string) SearchOutcome {
	query = strings.TrimSpace(query)
	log := logging.Ctx(ctx)

	if !s.tmdb.Enabled() && !s.omdb.Enabled() {
		metrics.SearchTierServed.WithLabelValues("none").Inc()
		return SearchOutcome{Message: MsgNoAPIKeys}
	}

	tmdbFailed := false
	if s.tmdb.Enabled() {
		results, err := s.tmdb.Search(ctx, query)
		switch {
		case err != nil:
			tmdbFailed = true
			log.Warn().Err(err).Str("query", query).Msg("tmdb search failed")
		case len(results) > 0:
			metrics.SearchTierServed.WithLabelValues("tmdb").Inc()
			return SearchOutcome{Results: capResults(results), Tier: "tmdb"}
		}
	}

	// no fallback tier to replay the query against
	if !s.omdb.Enabled() {
		metrics.SearchTierServed.WithLabelValues("none").Inc()
		if tmdbFailed {
			return SearchOutcome{Message: MsgProvidersUnavailable}
		}
		return SearchOutcome{Message: MsgNoAPIKeys}
	}

	results, err := s.searchOMDB(ctx, query)
	if err != nil {
		metrics.SearchTierServed.WithLabelValues("none").Inc()
		var nr *NoResultError
		if errors.As(err, &nr) {
			return SearchOutcome{Message: nr.Message}
		}
		log.Warn().Err(err).Str("query", query).Msg("omdb search failed")
		return SearchOutcome{Message: MsgProvidersUnavailable}
	}
	metrics.SearchTierServed.WithLabelValues("omdb").Inc()
	return SearchOutcome{Results: results, Tier: "omdb"}
}

// searchOMDB fetches details for up to MaxSearchResults ids concurrently.
// Failed lookups are dropped; the rest keep OMDB's order.
func (s *SearchService) searchOMDB(ctx context.Context, query string) ([]model.SearchResult, error) {
	ids, err := s.omdb.SearchIDs(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) > MaxSearchResults {
		ids = ids[:MaxSearchResults]
	}

	log := logging.Ctx(ctx)
	detailed := make([]*model.SearchResult, len(ids))
	var g errgroup.Group
	g.SetLimit(MaxSearchResults)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			r, err := s.lookup(ctx, id)
			if err != nil {
				log.Debug().Err(err).Str("imdb_id", id.ID).Msg("omdb detail dropped")
				return nil
			}
			detailed[i] = r
			return nil
		})
	}
	g.Wait()

	results := make([]model.SearchResult, 0, len(detailed))
	for _, r := range detailed {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, nil
}

// Details resolves a tagged movie id against the provider that issued it.
func (s *SearchService) Details(ctx context.Context, rawID string) DetailsOutcome {
	id, err := ParseMovieID(rawID)
	if err != nil {
		return DetailsOutcome{Message: MsgInvalidMovieID}
	}

	switch id.Provider {
	case ProviderTMDB:
		if !s.tmdb.Enabled() {
			return DetailsOutcome{Message: MsgTMDBNotConfigured}
		}
	default:
		if !s.omdb.Enabled() {
			return DetailsOutcome{Message: MsgOMDBNotConfigured}
		}
	}

	r, err := s.lookup(ctx, id)
	if err != nil {
		var nr *NoResultError
		if errors.As(err, &nr) {
			return DetailsOutcome{Message: nr.Message}
		}
		logging.Ctx(ctx).Warn().Err(err).Stringer("provider", id.Provider).Str("movie_id", id.String()).
			Msg("details lookup failed")
		return DetailsOutcome{Message: MsgProvidersUnavailable}
	}
	return DetailsOutcome{Result: r}
}

// lookup collapses concurrent lookups of the same id into one provider call.
func (s *SearchService) lookup(ctx context.Context, id MovieID) (*model.SearchResult, error) {
	v, err, _ := s.sf.Do(id.String(), func() (interface{}, error) {
		// shared by every waiter, so it must not die with the first caller
		callCtx := context.WithoutCancel(ctx)
		if id.Provider == ProviderTMDB {
			return s.tmdb.Details(callCtx, id)
		}
		return s.omdb.Details(callCtx, id)
	})
	if err != nil {
		return nil, err
	}
	r := *v.(*model.SearchResult)
	return &r, nil
}

func capResults(results []model.SearchResult) []model.SearchResult {
	if len(results) > MaxSearchResults {
		return results[:MaxSearchResults]
	}
	return results
}
