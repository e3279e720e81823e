// Package lockpin wraps the external smart-lock PIN provider.  The provider
// issues numeric access codes valid for an hour-granular local-time window.
// A fresh access token is fetched for every PIN request; tokens are short
// lived and cheap, so no session is cached across calls.
package lockpin

import "errors"

var (
	// ErrInvalidRange is returned before any network call when the requested
	// PIN window is empty or inverted.
	ErrInvalidRange = errors.New("lockpin: end must be after start")
	// ErrAuthenticationFailed is returned when the token endpoint rejects the
	// client credentials.  The provider's error body is included in the
	// wrapping message for diagnostics.
	ErrAuthenticationFailed = errors.New("lockpin: authentication failed")
	// ErrPinProvider is returned when the PIN endpoint answers with a
	// non-2xx status.
	ErrPinProvider = errors.New("lockpin: pin request failed")
	// ErrPinFormat is returned when the provider response contains no
	// recognizable numeric PIN under any known field name.
	ErrPinFormat = errors.New("lockpin: no numeric pin in provider response")
)
