// Package prefs stores small durable client preferences (the bearer token,
// the UI theme) as key/value pairs in the local database.
package prefs

import "context"

// Repository is a single-slot-per-key durable store. Get returns "" with a
// nil error for a missing key; Set overwrites last-writer-wins.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
