package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// NormalizeTag converts user input such as "#AngelNumber" into the stored form
// "angelnumber".
//
// One leading '#' is stripped, the text is NFKC-normalized (so fullwidth
// digits fold to ASCII) and lowercased. The result must be a non-empty run of
// ASCII letters and digits.
func NormalizeTag(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")
	s = lower.String(norm.NFKC.String(s))

	if s == "" {
		return "", fmt.Errorf("tag %q is empty", raw)
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return "", fmt.Errorf("tag %q must contain only letters and digits", raw)
		}
	}
	return s, nil
}

// NormalizeTags normalizes every tag and drops duplicates, keeping the first
// occurrence. An empty input yields nil, meaning "no tags".
func NormalizeTags(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		tag, err := NormalizeTag(r)
		if err != nil {
			return nil, err
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out, nil
}
