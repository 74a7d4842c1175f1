// Package storage holds what every content store backend shares.
package storage

import "errors"

var (
	// ErrContentNotFound is returned when no object exists under a key, or it
	// cannot be read.
	ErrContentNotFound = errors.New("content not found")

	// ErrContentExists is returned by a write-once Put on an existing key.
	ErrContentExists = errors.New("content already exists")
)
