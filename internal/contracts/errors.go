package contracts

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline error taxonomy
var (
	// ErrConfig: no active filter pointer and no default filter exist.
	// Fatal — the pipeline never silently picks an arbitrary filter.
	ErrConfig = errors.New("no active or default filter configured")

	// ErrNotFound: a named filter (or other keyed lookup) does not exist.
	// Fatal to the requested operation only.
	ErrNotFound = errors.New("not found")

	// ErrLocked: another invocation holds the pipeline lock. Benign —
	// callers log a skip instead of failing.
	ErrLocked = errors.New("pipeline lock held by another run")
)

// FetchError reports a failed universe or market-data fetch
type FetchError struct {
	URL        string
	StatusCode int // 0 on transport failure
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is (or wraps) a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
