package catalog

import "strings"

// NormalizeName reduces a display name to a merge key: lowercase with
// everything outside [a-z0-9] stripped. Two names normalize equal iff
// they merge.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasDisplayableImage reports whether path points at a usable image.
// Upstream APIs sometimes serialize an absent image as the literal
// string "null" or "undefined"; those are treated as absent.
func HasDisplayableImage(path string) bool {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return false
	}
	switch strings.ToLower(trimmed) {
	case "null", "undefined":
		return false
	}
	return true
}
