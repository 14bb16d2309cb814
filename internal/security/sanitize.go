// Package security guards file outputs whose names embed values taken from
// input data, such as series names read out of result files.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxFilenameLen caps generated filenames to keep joined paths portable.
const maxFilenameLen = 100

// SanitizeFilename makes a safe filename fragment from an arbitrary string.
// Runs of characters other than ASCII letters, digits, dot, underscore or
// dash collapse to a single underscore; leading and trailing dots and
// underscores are trimmed. An empty result becomes "series".
func SanitizeFilename(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range s {
		if b.Len() >= maxFilenameLen {
			break
		}
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-'
		if ok {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "series"
	}
	return out
}

// EnsureWithinDirectory verifies that path resolves to a location inside dir.
// dir must exist; path need not, but its parent directory must resolve. This
// blocks traversal through crafted names and through symlinked parents.
func EnsureWithinDirectory(path, dir string) error {
	canonDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	canonDir, err = filepath.Abs(canonDir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	// The target may not exist yet; resolve through its parent instead.
	parent, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return fmt.Errorf("failed to resolve parent of %s: %w", path, err)
	}
	canonPath := filepath.Join(parent, filepath.Base(abs))

	rel, err := filepath.Rel(canonDir, canonPath)
	if err != nil {
		return fmt.Errorf("path %s is outside %s: %w", path, dir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %s escapes directory %s", path, dir)
	}
	return nil
}
