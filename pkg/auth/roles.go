package auth

import (
	"encoding/json"
	"strings"
)

// RoleList is the per-farm role collection. The role representation has
// evolved over time and several encodings coexist in the user store: a
// proper list, a JSON-array string, a CSV string, and a single bare role
// name. RoleList is a tagged union over those shapes so the decode
// precedence is explicit and testable.
//
// Exactly one of Names or Raw is populated. Names wins when both are set.
type RoleList struct {
	// Names is the decoded form, used when the source was already a list.
	Names []string

	// Raw is the undecoded string form. Interpreted on demand: JSON array
	// first, comma-split fallback.
	Raw string
}

// RolesFromList builds a RoleList from an already-decoded role slice.
func RolesFromList(names []string) RoleList {
	return RoleList{Names: names}
}

// RolesFromString builds a RoleList from a string-encoded role collection.
func RolesFromString(raw string) RoleList {
	return RoleList{Raw: raw}
}

// Contains reports whether the collection holds the given role,
// case-insensitively. It is total: malformed input never errors, it just
// fails to match.
func (l RoleList) Contains(role string) bool {
	return containsFold(l.roles(), role)
}

// Slice returns the decoded role names. Malformed input decodes to
// whatever the comma-split fallback yields, never to an error.
func (l RoleList) Slice() []string {
	return l.roles()
}

// IsZero reports whether the list carries no roles in any encoding.
func (l RoleList) IsZero() bool {
	return len(l.Names) == 0 && strings.TrimSpace(l.Raw) == ""
}

// roles decodes the union. Precedence: decoded list, then JSON array,
// then CSV split with trimming.
func (l RoleList) roles() []string {
	if l.Names != nil {
		return l.Names
	}
	raw := strings.TrimSpace(l.Raw)
	if raw == "" {
		return nil
	}
	if names, ok := parseJSONList(raw); ok {
		return names
	}
	return splitCSV(raw)
}

// parseJSONList attempts to decode a JSON array of strings. Returns ok=false
// on any parse failure so the caller can degrade to the CSV fallback.
func parseJSONList(raw string) ([]string, bool) {
	if !strings.HasPrefix(raw, "[") {
		return nil, false
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, false
	}
	return names, true
}

// splitCSV splits on commas and trims whitespace, dropping empty parts.
// A bare role name comes out as a single-element slice.
func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func containsFold(names []string, role string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), role) {
			return true
		}
	}
	return false
}
