// Package store defines the shared error contract for secure session store
// backends. The consuming interface lives with the engine ([authflow.Store]);
// backends live in subpackages (memory, redis, bolt, securefile) and report
// their failures through the sentinels here.
package store

import "errors"

var (
	// ErrNotFound is returned by Secret when the named secret is absent.
	// LoadSession reports an absent snapshot as (nil, nil) instead.
	ErrNotFound = errors.New("store: not found")
	// ErrUnavailable indicates the backing medium could not be reached.
	ErrUnavailable = errors.New("store: unavailable")
)
