package preferences

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/querylib/internal/logger"
	"github.com/julianstephens/querylib/internal/storage"
)

var defaultPins = []string{"my-folder", "billing-team", "my-quarterly-runs"}

type failingRepo struct {
	getErr, setErr error
}

func (f failingRepo) Get(string) (string, bool, error) { return "", false, f.getErr }
func (f failingRepo) Set(string, string) error         { return f.setErr }
func (f failingRepo) Delete(string) error              { return f.setErr }

func TestPins_Defaults(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		set    bool
		want   []string
	}{
		{name: "missing", want: defaultPins},
		{name: "malformed", stored: "{oops", set: true, want: defaultPins},
		{name: "wrong shape", stored: `{"a":1}`, set: true, want: defaultPins},
		{name: "null", stored: "null", set: true, want: defaultPins},
		{name: "explicit empty", stored: "[]", set: true, want: []string{}},
		{name: "stored", stored: `["ed"]`, set: true, want: []string{"ed"}},
		{name: "truncated", stored: `["a","b","c","d"]`, set: true, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryRepository()
			if tt.set {
				_ = repo.Set("pinnedFolders", tt.stored)
			}
			if got := NewPins(repo).List(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPins_Toggle(t *testing.T) {
	repo := NewMemoryRepository()
	pins := NewPins(repo)

	// Defaults fill all three slots.
	if !pins.Full() {
		t.Fatal("default pins should be full")
	}
	if _, err := pins.Toggle("fin"); !errors.Is(err, ErrPinLimit) || !IsPinLimit(err) {
		t.Fatalf("pinning a fourth folder: err = %v, want ErrPinLimit", err)
	}
	if _, found, _ := repo.Get("pinnedFolders"); found {
		t.Error("rejected pin should not write anything")
	}

	pinned, err := pins.Toggle("billing-team")
	if err != nil || pinned {
		t.Fatalf("unpin = %v, %v", pinned, err)
	}
	if got := pins.List(); !reflect.DeepEqual(got, []string{"my-folder", "my-quarterly-runs"}) {
		t.Errorf("after unpin List() = %v", got)
	}

	pinned, err = pins.Toggle("fin")
	if err != nil || !pinned {
		t.Fatalf("pin = %v, %v", pinned, err)
	}
	if !pins.IsPinned("fin") || pins.IsPinned("billing-team") {
		t.Errorf("unexpected pins %v", pins.List())
	}

	raw, _, _ := repo.Get("pinnedFolders")
	if raw != `["my-folder","my-quarterly-runs","fin"]` {
		t.Errorf("stored value = %s", raw)
	}

	if err := pins.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := pins.List(); !reflect.DeepEqual(got, defaultPins) {
		t.Errorf("after Reset List() = %v", got)
	}
}

func TestPins_UnpinAllKeepsEmpty(t *testing.T) {
	pins := NewPins(NewMemoryRepository())
	for _, slug := range defaultPins {
		if _, err := pins.Toggle(slug); err != nil {
			t.Fatal(err)
		}
	}
	if got := pins.List(); len(got) != 0 {
		t.Errorf("List() = %v, want empty after unpinning everything", got)
	}
}

func TestPins_ReadErrorAbsorbed(t *testing.T) {
	var buf bytes.Buffer
	logger.UseWriter(&buf, log.WarnLevel)
	t.Cleanup(func() { logger.Logger = nil })

	pins := NewPins(failingRepo{getErr: errors.New("disk on fire")})
	if got := pins.List(); !reflect.DeepEqual(got, defaultPins) {
		t.Errorf("List() = %v, want defaults", got)
	}
	if !strings.Contains(buf.String(), "disk on fire") {
		t.Errorf("read failure should be logged, got %q", buf.String())
	}
}

func TestPins_WriteErrorReturned(t *testing.T) {
	pins := NewPins(failingRepo{setErr: errors.New("read-only")})
	if _, err := pins.Toggle("my-folder"); err == nil {
		t.Error("expected write error to be returned")
	}
}

func TestFavorites(t *testing.T) {
	repo := NewMemoryRepository()
	favs := NewFavorites(repo, []string{"q1", "q3"})

	if got := favs.List(); !reflect.DeepEqual(got, []string{"q1", "q3"}) {
		t.Errorf("defaults = %v", got)
	}

	on, err := favs.Toggle("cq1")
	if err != nil || !on {
		t.Fatalf("Toggle(cq1) = %v, %v", on, err)
	}
	on, err = favs.Toggle("q1")
	if err != nil || on {
		t.Fatalf("Toggle(q1) = %v, %v", on, err)
	}
	if !favs.IsFavorite("cq1") || favs.IsFavorite("q1") || !favs.IsFavorite("q3") {
		t.Errorf("unexpected favorites %v", favs.List())
	}

	_ = repo.Set("favoriteQueries", "not json")
	if got := favs.List(); !reflect.DeepEqual(got, []string{"q1", "q3"}) {
		t.Errorf("malformed data should fall back to defaults, got %v", got)
	}

	if err := favs.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := repo.Get("favoriteQueries"); found {
		t.Error("Reset should remove the stored value")
	}
}

func TestWithStorageProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := NewPins(store).Toggle("my-folder"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	store.Close()

	reopened, err := storage.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if got := NewPins(reopened).List(); !reflect.DeepEqual(got, []string{"billing-team", "my-quarterly-runs"}) {
		t.Errorf("persisted pins = %v", got)
	}
}
