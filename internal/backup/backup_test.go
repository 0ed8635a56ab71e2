package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "querylib.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS preferences (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO preferences (key, value) VALUES ('pinned_folders', '["fin"]')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func readPinned(t *testing.T, dbPath string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	var value string
	if err := db.QueryRow(`SELECT value FROM preferences WHERE key = 'pinned_folders'`).Scan(&value); err != nil {
		t.Fatalf("failed to read preference: %v", err)
	}
	return value
}

func clock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.Now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.Local) }

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Base(backupPath) != "querylib-20251001-120000.db" {
		t.Errorf("unexpected backup name: %s", filepath.Base(backupPath))
	}
	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written outside backup dir: %s", backupPath)
	}
	if got := readPinned(t, backupPath); got != `["fin"]` {
		t.Errorf("backup content = %s", got)
	}

	// same second gets a counter suffix
	second, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("second CreateBackup failed: %v", err)
	}
	if filepath.Base(second) != "querylib-20251001-120000-1.db" {
		t.Errorf("unexpected second backup name: %s", filepath.Base(second))
	}
}

func TestCreateBackupMissingStore(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Fatal("expected error for missing store")
	}
}

func TestListAndRotate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.Now = clock(time.Date(2025, 10, 1, 12, 0, 0, 0, time.Local))

	var last string
	for i := 0; i < MaxBackups+3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		last = path
	}

	// unrelated files are ignored
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
	if backups[0].Path != last {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, last)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestListBackupsNoDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "querylib.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.Now = clock(time.Date(2025, 10, 1, 12, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE preferences SET value = '[]' WHERE key = 'pinned_folders'`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	safety, err := mgr.RestoreBackup(mgr.Resolve(filepath.Base(backupPath)))
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := readPinned(t, dbPath); got != `["fin"]` {
		t.Errorf("restored content = %s", got)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the replaced store")
	}
	if got := readPinned(t, safety); got != `[]` {
		t.Errorf("safety backup content = %s", got)
	}
}

func TestRestoreBackupErrors(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database at all, just text padding it out"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(bogus); err == nil {
		t.Error("expected error for corrupted backup")
	}
	if got := readPinned(t, dbPath); got != `["fin"]` {
		t.Errorf("store changed after failed restore: %s", got)
	}
}

func TestJSONStoreBackup(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(storePath, []byte(`{"pinned_folders":"[\"fin\"]"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(storePath)
	mgr.Now = clock(time.Date(2025, 10, 1, 12, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if !strings.HasSuffix(backupPath, ".json") {
		t.Errorf("expected .json backup, got %s", backupPath)
	}

	if err := os.WriteFile(storePath, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	data, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "fin") {
		t.Errorf("restored JSON = %s", data)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(bad); err == nil {
		t.Error("expected error for invalid JSON backup")
	}
}
