package storage

import "errors"

// ErrNotInitialized is returned by Load when the store file does not exist yet.
var ErrNotInitialized = errors.New("storage not initialized, run 'querylib init' first")

// Provider is a key/value store for user preferences. Values are opaque strings;
// callers store whole JSON documents.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	// Preferences
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
