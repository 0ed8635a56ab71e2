package preferences

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/querylib/internal/logger"
)

// readList decodes the JSON string array stored under key. ok is false when
// the key is missing, unreadable, or not a string array; the cause is logged.
func readList(repo Repository, key string) (list []string, ok bool) {
	raw, found, err := repo.Get(key)
	if err != nil {
		logger.Warn("Failed to read preference, using defaults", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.Warn("Ignoring malformed preference", "key", key, "error", err)
		return nil, false
	}
	if list == nil {
		// "null" is not a list.
		return nil, false
	}
	return list, true
}

func writeList(repo Repository, key string, list []string) error {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := repo.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
