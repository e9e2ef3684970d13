package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathExpander resolves user-supplied base directories into absolute paths.
// Injecting it keeps the builder independent of how expansion is provided.
type PathExpander interface {
	Expand(path string) (string, error)
}

// OSExpander expands home-directory shortcuts and environment variables
// against the running process environment.
type OSExpander struct{}

func (OSExpander) Expand(pathValue string) (string, error) {
	if pathValue == "" {
		return "", fmt.Errorf("empty path")
	}
	pathValue = os.ExpandEnv(pathValue)
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
