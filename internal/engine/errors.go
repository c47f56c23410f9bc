package engine

import "errors"

var (
	// No usable waypoint text: nothing was added or no query was sent.
	ErrEmptyInput = errors.New("empty input")
	// The entry id is not in the store.
	ErrEntryNotFound = errors.New("entry not found")
	// The token is no longer registered: its entry was removed or resubmitted.
	ErrTokenNotFound = errors.New("token not found")
	// Token generation produced a token that is already in flight.
	ErrDuplicateToken = errors.New("duplicate token")
)
