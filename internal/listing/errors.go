package listing

import (
	"errors"
	"fmt"
)

var (
	// ErrSignInRequired is returned when the backend rejected the session's
	// credentials. The session and its list state have been invalidated.
	ErrSignInRequired = errors.New("listing: sign-in required")
	// ErrStaleResponse is returned when a fetch completed after a newer one
	// was issued for the same list. Its data was discarded and the returned
	// view is the one currently held.
	ErrStaleResponse = errors.New("listing: stale response discarded")
)

// FetchError reports a failed fetch that left the held view untouched.
// Notice is safe to show to the user.
type FetchError struct {
	Resource string
	Notice   string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func isSignIn(err error) bool { return errors.Is(err, ErrSignInRequired) }
