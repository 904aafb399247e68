package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenPathChars are shell metacharacters never valid in SQLITE_PATH.
var forbiddenPathChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ResolveSQLitePath validates a configured SQLite location and returns the
// cleaned absolute file path. In-memory databases and file: URIs pass
// through unchanged; an empty path resolves to DefaultSQLitePath.
func ResolveSQLitePath(path string) (string, error) {
	if path == "" {
		path = DefaultSQLitePath()
	}
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path, nil
	}

	for _, char := range forbiddenPathChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("sqlite path contains forbidden character %q", char)
		}
	}

	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		clean = filepath.Join(cwd, clean)
	}

	resolved, err := filepath.EvalSymlinks(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return clean, nil
		}
		return "", fmt.Errorf("failed to resolve sqlite path: %w", err)
	}
	return resolved, nil
}
