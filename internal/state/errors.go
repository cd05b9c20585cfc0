package state

import (
	"errors"
	"strings"

	"github.com/five82/deckhand/internal/api"
)

// ErrLoginInterrupted is returned by Login when Logout ran before the login
// settled. Tokens issued by the interrupted login are removed.
var ErrLoginInterrupted = errors.New("signed out while signing in")

// errorMessage turns a failure into the display string stored on a snapshot.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
