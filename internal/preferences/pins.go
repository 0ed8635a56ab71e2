package preferences

import (
	"errors"
	"fmt"

	"github.com/julianstephens/querylib/internal/constants"
)

// ErrPinLimit is returned when pinning beyond constants.MaxPinnedFolders.
var ErrPinLimit = fmt.Errorf("at most %d folders can be pinned", constants.MaxPinnedFolders)

// Pins is the ordered set of pinned folder slugs.
type Pins struct {
	repo Repository
}

func NewPins(repo Repository) *Pins {
	return &Pins{repo: repo}
}

// List returns the pinned slugs. Missing or malformed data yields the
// default pins. A stored empty list is returned as is and is not re-seeded
// with the defaults, so unpinning every folder survives a restart.
func (p *Pins) List() []string {
	list, ok := readList(p.repo, constants.PrefPinnedFolders)
	if !ok {
		return append([]string(nil), constants.DefaultPinnedFolders...)
	}
	if len(list) > constants.MaxPinnedFolders {
		list = list[:constants.MaxPinnedFolders]
	}
	return list
}

func (p *Pins) IsPinned(slug string) bool {
	return contains(p.List(), slug)
}

// Full reports whether another folder can no longer be pinned.
func (p *Pins) Full() bool {
	return len(p.List()) >= constants.MaxPinnedFolders
}

// Toggle pins or unpins slug and reports whether it is pinned afterwards.
// Pinning when full returns ErrPinLimit and leaves the pins unchanged.
func (p *Pins) Toggle(slug string) (bool, error) {
	list := p.List()
	if contains(list, slug) {
		return false, writeList(p.repo, constants.PrefPinnedFolders, without(list, slug))
	}
	if len(list) >= constants.MaxPinnedFolders {
		return false, ErrPinLimit
	}
	return true, writeList(p.repo, constants.PrefPinnedFolders, append(list, slug))
}

// Reset drops the stored pins so the defaults apply again.
func (p *Pins) Reset() error {
	return p.repo.Delete(constants.PrefPinnedFolders)
}

// IsPinLimit reports whether err is the pin limit error.
func IsPinLimit(err error) bool {
	return errors.Is(err, ErrPinLimit)
}
