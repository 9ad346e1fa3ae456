package folder

import "strings"

// maxNameLen bounds generated folder names.
const maxNameLen = 50

// fallbackName is used when a name slugs down to nothing.
const fallbackName = "untitled"

// SlugifyName turns free text (a picker's custom path, a tool argument)
// into a filesystem-safe folder name: lowercase alphanumerics and
// hyphens, truncated at a word boundary.
func SlugifyName(text string) string {
	if strings.TrimSpace(text) == "" {
		return fallbackName
	}

	s := strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '_' || r == '-' || r == '/':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return fallbackName
	}
	if len(slug) <= maxNameLen {
		return slug
	}

	// Truncate at a word boundary if one sits past the midpoint.
	truncated := slug[:maxNameLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxNameLen/2 {
		truncated = truncated[:lastHyphen]
	}
	return strings.TrimRight(truncated, "-")
}
