// Package entrypoint finds the name of the single public class declared in a source.
//
// It doesn't parse the language, it's a single regular expression scan over the
// raw text, so declarations inside comments or string literals are matched too.
// The extracted name is not validated as a legal identifier.
package entrypoint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/slok/jeval/internal/model"
)

// Case insensitive, multiline and dot matches newline.
var publicClassRegexp = regexp.MustCompile(`(?ims)(public class)(.*?)(\{)`)

// Extract returns the trimmed name captured between `public class` and the
// opening brace. The source must contain exactly one match.
func Extract(source string) (string, error) {
	matches := publicClassRegexp.FindAllStringSubmatch(source, -1)

	switch len(matches) {
	case 0:
		return "", model.ErrNoEntryPoint
	case 1:
	default:
		return "", fmt.Errorf("found %d public class declarations: %w", len(matches), model.ErrAmbiguousEntryPoint)
	}

	return strings.TrimSpace(matches[0][2]), nil
}
