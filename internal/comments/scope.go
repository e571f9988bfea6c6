package comments

import (
	"fmt"
	"strings"
)

// Scope selects which comment families take part in a scan.
type Scope int

const (
	ScopeSingle Scope = iota + 1
	ScopeMulti
	ScopeBoth
)

func (s Scope) String() string {
	switch s {
	case ScopeSingle:
		return "single"
	case ScopeMulti:
		return "multi"
	case ScopeBoth:
		return "both"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Valid reports whether s is one of the three defined scopes.
func (s Scope) Valid() bool {
	return s >= ScopeSingle && s <= ScopeBoth
}

// IncludesLine reports whether // comments participate in the scope.
func (s Scope) IncludesLine() bool {
	return s == ScopeSingle || s == ScopeBoth
}

// IncludesBlock reports whether /* */ comments participate in the scope.
func (s Scope) IncludesBlock() bool {
	return s == ScopeMulti || s == ScopeBoth
}

// ParseScope converts user input into a Scope. Anything outside the accepted
// spellings is rejected here so that the scanner never sees an invalid scope.
func ParseScope(v string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "single", "single-line", "line":
		return ScopeSingle, nil
	case "multi", "multi-line", "block":
		return ScopeMulti, nil
	case "both", "all":
		return ScopeBoth, nil
	default:
		return 0, fmt.Errorf("invalid scope: %q (want single|multi|both)", v)
	}
}

// MarshalText lets scopes round-trip through JSON and config files.
func (s Scope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid scope: %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Scope) UnmarshalText(b []byte) error {
	parsed, err := ParseScope(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
