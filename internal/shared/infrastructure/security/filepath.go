// Package security provides path validation for on-disk storage.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dangerousChars contains shell metacharacters that never belong in a storage path.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ValidateDir cleans dir, makes it absolute and resolves symlinks when it exists.
func ValidateDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("directory cannot be empty")
	}
	if err := checkChars(dir); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}
	return resolved, nil
}

// ResolveInDir joins name onto baseDir and ensures the result stays inside baseDir.
// name must be a single path element.
func ResolveInDir(baseDir, name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("file name %q must not contain path separators", name)
	}
	if err := checkChars(name); err != nil {
		return "", err
	}

	base, err := ValidateDir(baseDir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(base, name)
	if !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("file path escapes base directory: %s is not within %s", name, baseDir)
	}
	return path, nil
}

func checkChars(path string) error {
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains forbidden character %q: %s", char, path)
		}
	}
	return nil
}
