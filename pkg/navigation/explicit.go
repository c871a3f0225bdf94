package navigation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidLevel is returned when an explicit navigation cannot be resolved
// to a level, either because no level_N name was given or the key is not in the tree.
var ErrInvalidLevel = errors.New("invalid level specified or item key not found")

var levelNamePattern = regexp.MustCompile(`^level_(\d+)$`)

// Explicit declares the current navigation ahead of rendering, overriding
// structural matching. The zero value declares nothing.
type Explicit struct {
	keys   []string
	levels map[string]string
	set    bool
}

// ExplicitKey declares key as current. Its level is inferred from the tree.
func ExplicitKey(key string) Explicit {
	return Explicit{keys: []string{key}, set: true}
}

// ExplicitPath declares one key per level, shallowest first. A single key
// behaves like ExplicitKey.
func ExplicitPath(keys ...string) Explicit {
	return Explicit{keys: keys, set: true}
}

// ExplicitLevels declares keys by level name (level_1, level_2, ...).
// Names not of that form are ignored.
func ExplicitLevels(levels map[string]string) Explicit {
	return Explicit{levels: levels, set: true}
}

// IsZero reports whether nothing was declared.
func (e Explicit) IsZero() bool {
	return !e.set
}

// LevelName returns the level_N name used by ExplicitLevels.
func LevelName(level int) string {
	return "level_" + strconv.Itoa(level)
}

// ParseLevelName returns N for a level_N name.
func ParseLevelName(name string) (int, bool) {
	m := levelNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	return n, true
}

// ResolveExplicit returns the single level and key the declaration stands for.
// Only the deepest declared level is relevant.
func ResolveExplicit(root *ItemContainer, e Explicit) (int, string, error) {
	levels := e.levels
	if levels == nil {
		levels = make(map[string]string, len(e.keys))
		switch len(e.keys) {
		case 0:
		case 1:
			levels[LevelName(root.LevelForItem(e.keys[0]))] = e.keys[0]
		default:
			for i, key := range e.keys {
				levels[LevelName(i+1)] = key
			}
		}
	}

	// Names such as level_1 and level_01 share a level; the lexically
	// smallest name wins.
	level, key, best := 0, "", ""
	for name, k := range levels {
		n, ok := ParseLevelName(name)
		if !ok || n < level || (n == level && name > best) {
			continue
		}
		level, key, best = n, k, name
	}

	if level == 0 {
		return 0, "", fmt.Errorf("resolving explicit navigation: %w", ErrInvalidLevel)
	}

	return level, key, nil
}

// HandleExplicitNavigation resolves e against root and records the result on req.
// A zero Explicit leaves req untouched.
func HandleExplicitNavigation(root *ItemContainer, req *Request, e Explicit) error {
	if e.IsZero() {
		return nil
	}

	level, key, err := ResolveExplicit(root, e)
	if err != nil {
		return err
	}

	req.SetCurrentNavigation(level, key)

	return nil
}
