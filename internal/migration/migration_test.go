package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range m {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&count); err != nil {
		t.Fatalf("checking table %s: %v", name, err)
	}
	return count > 0
}

func TestApply_FromScratch(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_init.sql":  "CREATE TABLE preferences (key TEXT PRIMARY KEY, value TEXT NOT NULL);",
		"002_extra.sql": "ALTER TABLE preferences ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';",
		"README.md":     "ignored",
	}))

	if v, err := runner.CurrentVersion(ctx); err != nil || v != 0 {
		t.Fatalf("fresh database version = %d, %v", v, err)
	}

	applied, err := runner.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied %d migrations, want 2", applied)
	}
	if v, _ := runner.CurrentVersion(ctx); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if !tableExists(t, db, "preferences") {
		t.Error("preferences table missing")
	}

	applied, err = runner.Apply(ctx)
	if err != nil || applied != 0 {
		t.Errorf("second Apply = %d, %v; want no-op", applied, err)
	}
}

func TestApply_Incremental(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	first := map[string]string{"001_init.sql": "CREATE TABLE a (id INTEGER);"}
	if _, err := NewRunner(db, files(first)).Apply(ctx); err != nil {
		t.Fatalf("Apply v1: %v", err)
	}

	first["002_b.sql"] = "CREATE TABLE b (id INTEGER);"
	applied, err := NewRunner(db, files(first)).Apply(ctx)
	if err != nil || applied != 1 {
		t.Fatalf("Apply v2 = %d, %v; want 1", applied, err)
	}
	if !tableExists(t, db, "b") {
		t.Error("table b missing")
	}
}

func TestApply_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (id INTEGER); INSERT INTO missing VALUES (1);",
	}))

	applied, err := runner.Apply(ctx)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if v, _ := runner.CurrentVersion(ctx); v != 1 {
		t.Errorf("version = %d, want 1 after rollback", v)
	}
	if tableExists(t, db, "broken") {
		t.Error("table from failed migration should be rolled back")
	}
}

func TestValidate_NewerDatabase(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{"001_init.sql": "CREATE TABLE a (id INTEGER);"}))

	if _, err := runner.Apply(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatal(err)
	}

	if err := runner.Validate(ctx); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Validate error = %v, want ErrSchemaTooNew", err)
	}
	if _, err := runner.Apply(ctx); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Apply error = %v, want ErrSchemaTooNew", err)
	}
}

func TestMigrations_Parsing(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name    string
		files   map[string]string
		want    []int
		wantErr bool
	}{
		{
			name:  "sorted by version",
			files: map[string]string{"010_c.sql": "", "002_b.sql": "", "001_a.sql": ""},
			want:  []int{1, 2, 10},
		},
		{name: "missing separator", files: map[string]string{"001.sql": ""}, wantErr: true},
		{name: "non numeric", files: map[string]string{"abc_init.sql": ""}, wantErr: true},
		{name: "zero version", files: map[string]string{"000_init.sql": ""}, wantErr: true},
		{name: "duplicate version", files: map[string]string{"001_a.sql": "", "01_b.sql": ""}, wantErr: true},
		{name: "empty", files: map[string]string{}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRunner(db, files(tt.files)).Migrations()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Migrations() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d migrations, want %d", len(got), len(tt.want))
			}
			for i, v := range tt.want {
				if got[i].Version != v {
					t.Errorf("migration %d version = %d, want %d", i, got[i].Version, v)
				}
			}
		})
	}
}

func TestLatestVersion(t *testing.T) {
	db := setupTestDB(t)
	v, err := NewRunner(db, files(map[string]string{"001_a.sql": "", "003_c.sql": ""})).LatestVersion()
	if err != nil || v != 3 {
		t.Errorf("LatestVersion = %d, %v; want 3", v, err)
	}
}
