package harness

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every scenario file below a directory.
const DefaultPattern = "**/*.{yaml,yml}"

// FindScenarios returns scenario files under dir whose slash-separated
// relative path matches pattern, sorted for stable run order.
// An empty pattern uses DefaultPattern.
func FindScenarios(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid scenario pattern %q", pattern)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenario directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenario directory: %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		switch path.Ext(m) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
