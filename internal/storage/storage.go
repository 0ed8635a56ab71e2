package storage

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/julianstephens/querylib/internal/logger"
)

// New picks a backend from the path: ".json" files use the JSON store,
// anything else is a SQLite database.
func New(path string) Provider {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}

// Open loads the store at path, creating it on first use.
func Open(path string) (Provider, error) {
	store := New(path)
	err := store.Load()
	if errors.Is(err, ErrNotInitialized) {
		logger.Info("Creating preference store", "path", path)
		err = store.Init()
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
