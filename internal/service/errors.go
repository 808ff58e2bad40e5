package service

import (
	"errors"
	"fmt"
)

// MsgNoAPIKeys is returned to clients when neither provider is configured.
const MsgNoAPIKeys = "No API keys configured"

// MsgMovieNotFound is reported when a provider has no movie for an id.
const MsgMovieNotFound = "Movie not found"

// ErrProviderDisabled is returned by a client whose API key is unset.
var ErrProviderDisabled = errors.New("provider not configured")

// NoResultError is a well-formed provider answer that carries no movie,
// e.g. OMDB's {"Response":"False","Error":"Movie not found!"}.
type NoResultError struct {
	Provider string
	Message  string
}

func (e *NoResultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}
