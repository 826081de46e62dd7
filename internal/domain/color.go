package domain

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
)

// NormalizeColor validates a room label color against the SVG 1.1 web color
// names and returns the canonical lowercase name.
func NormalizeColor(name string) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(name))
	if _, ok := colornames.Map[canonical]; !ok {
		return "", fmt.Errorf("%w: %q is not a known web color name", ErrValidation, name)
	}
	return canonical, nil
}
