// internal/pkg/slug/slug.go
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	separators = regexp.MustCompile(`[\s_]+`)
	dashes     = regexp.MustCompile(`-+`)
)

// Make turns a display name into a URL-friendly slug
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonWord.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	s = dashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Unique returns the first of base, base-1, base-2, ... that exists reports as free
func Unique(name string, exists func(candidate string) (bool, error)) (string, error) {
	base := Make(name)
	if base == "" {
		return "", fmt.Errorf("cannot build slug from %q", name)
	}

	for suffix := 0; ; suffix++ {
		candidate := base
		if suffix > 0 {
			candidate = fmt.Sprintf("%s-%d", base, suffix)
		}

		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
}
