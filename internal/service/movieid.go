package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Provider identifies which metadata provider a search result came from.
type Provider int

const (
	ProviderOMDB Provider = iota
	ProviderTMDB
)

func (p Provider) String() string {
	switch p {
	case ProviderTMDB:
		return "tmdb"
	case ProviderOMDB:
		return "omdb"
	default:
		return "unknown"
	}
}

const tmdbIDPrefix = "tmdb_"

// MovieID is the identifier handed to clients in search results. TMDB ids
// travel as "tmdb_<n>"; anything else is an IMDb id served by OMDB.
type MovieID struct {
	Provider Provider
	ID       string
}

// TMDBMovieID tags a numeric TMDB id.
func TMDBMovieID(id int) MovieID {
	return MovieID{Provider: ProviderTMDB, ID: strconv.Itoa(id)}
}

// OMDBMovieID tags an IMDb id.
func OMDBMovieID(imdbID string) MovieID {
	return MovieID{Provider: ProviderOMDB, ID: imdbID}
}

// ParseMovieID parses the wire form produced by String.
func ParseMovieID(s string) (MovieID, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, tmdbIDPrefix); ok {
		if _, err := strconv.Atoi(rest); err != nil || rest == "" {
			return MovieID{}, fmt.Errorf("invalid TMDB id %q", s)
		}
		return MovieID{Provider: ProviderTMDB, ID: rest}, nil
	}
	if s == "" {
		return MovieID{}, fmt.Errorf("empty movie id")
	}
	return MovieID{Provider: ProviderOMDB, ID: s}, nil
}

func (m MovieID) String() string {
	if m.Provider == ProviderTMDB {
		return tmdbIDPrefix + m.ID
	}
	return m.ID
}
