// Package repo holds the entity repositories: thin CRUD wrappers over the
// persistent store, one fixed storage key per collection. Every write is a
// full load -> mutate -> save of the collection, serialized under a
// per-collection mutex so concurrent callers queue instead of racing.
package repo

import "errors"

// ErrNotFound is returned by Update and Delete when no entity carries the
// given id.
var ErrNotFound = errors.New("entity not found")
