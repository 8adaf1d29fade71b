// Package devseed loads JSON seed files for the in-memory mock stores. A
// seed file is an array of entries:
//
//	[
//	  {"scope": "local", "name": "userData", "value": {"userId": 123}},
//	  {"scope": "session", "name": "cart", "value": {"items": []}}
//	]
//
// An omitted scope defaults to "local".
package devseed

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry is one seeded record: the value is stored as its JSON encoding
// under the name within the scope.
type Entry struct {
	Scope string          `json:"scope"`
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// Load reads and validates a seed file.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("devseed: parse %s: %w", path, err)
	}

	for i := range entries {
		if entries[i].Scope == "" {
			entries[i].Scope = "local"
		}
		switch entries[i].Scope {
		case "local", "session":
		default:
			return nil, fmt.Errorf("devseed: entry %d: unknown scope %q", i, entries[i].Scope)
		}
		if entries[i].Name == "" {
			return nil, fmt.Errorf("devseed: entry %d: missing name", i)
		}
		if len(entries[i].Value) == 0 {
			return nil, fmt.Errorf("devseed: entry %d (%s): missing value", i, entries[i].Name)
		}
	}
	return entries, nil
}

// ForScope filters entries down to one scope.
func ForScope(entries []Entry, scope string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Scope == scope {
			out = append(out, e)
		}
	}
	return out
}
