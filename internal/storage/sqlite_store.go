package storage

import (
	"github.com/julianstephens/querylib/internal/storage/sqlite"
)

// SQLiteStore adapts sqlite.Store to Provider.
type SQLiteStore struct {
	store *sqlite.Store
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{store: sqlite.NewStore(path)}
}

func (s *SQLiteStore) Init() error           { return s.store.Init() }
func (s *SQLiteStore) Close() error          { return s.store.Close() }
func (s *SQLiteStore) GetConfigPath() string { return s.store.GetConfigPath() }

func (s *SQLiteStore) Load() error {
	if err := s.store.Load(); err != nil {
		if sqlite.IsNotInitialized(err) {
			return ErrNotInitialized
		}
		return err
	}
	return nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	return s.store.GetPreference(key)
}

func (s *SQLiteStore) Set(key, value string) error {
	return s.store.SetPreference(key, value)
}

func (s *SQLiteStore) Delete(key string) error {
	return s.store.DeletePreference(key)
}

// SchemaVersion returns the applied and the newest available schema versions.
func (s *SQLiteStore) SchemaVersion() (current, latest int, err error) {
	if current, err = s.store.SchemaVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = sqlite.LatestSchemaVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}
