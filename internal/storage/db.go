// Package storage provides the key-value store behind the wallet keystore.
package storage

import "errors"

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("key not found")
	// ErrExists is returned by PutNew when the key is already taken.
	ErrExists = errors.New("key already exists")
)

// DB is the interface for key-value storage.
type DB interface {
	// Get returns a copy of the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	// PutNew stores value only if key is absent. The check and the write
	// are atomic.
	PutNew(key, value []byte) error
	// Delete removes key, or returns ErrNotFound.
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach calls fn for every key with the given prefix in key order.
	// A non-nil error from fn stops iteration and is returned.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}
