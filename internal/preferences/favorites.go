package preferences

import (
	"github.com/julianstephens/querylib/internal/constants"
)

// Favorites is the set of favorited query ids.
type Favorites struct {
	repo Repository
	// defaults apply until the user changes a favorite.
	defaults []string
}

// NewFavorites returns favorites backed by repo. defaults are the ids the
// catalog flags as favorite.
func NewFavorites(repo Repository, defaults []string) *Favorites {
	return &Favorites{repo: repo, defaults: defaults}
}

// List returns favorite ids, falling back to the defaults when nothing valid is stored.
func (f *Favorites) List() []string {
	list, ok := readList(f.repo, constants.PrefFavoriteQueries)
	if !ok {
		return append([]string(nil), f.defaults...)
	}
	return list
}

func (f *Favorites) IsFavorite(id string) bool {
	return contains(f.List(), id)
}

// Toggle flips id and reports whether it is a favorite afterwards.
func (f *Favorites) Toggle(id string) (bool, error) {
	list := f.List()
	if contains(list, id) {
		return false, writeList(f.repo, constants.PrefFavoriteQueries, without(list, id))
	}
	return true, writeList(f.repo, constants.PrefFavoriteQueries, append(list, id))
}

// Reset drops the stored favorites so the defaults apply again.
func (f *Favorites) Reset() error {
	return f.repo.Delete(constants.PrefFavoriteQueries)
}
