package utils

import (
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

// ResolveInputPath turns a user-supplied path into an absolute one. Relative
// paths are joined onto workingDir. The result must name an existing regular
// file, otherwise ErrPathNotFound is returned.
func ResolveInputPath(arg, workingDir string) (string, error) {
	if arg == "" {
		return "", kerrors.ErrMissingPath
	}

	resolved := arg
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(workingDir, arg)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", resolved, kerrors.ErrPathNotFound)
		}
		return "", fmt.Errorf("checking %s: %w: %v", resolved, kerrors.ErrPathNotFound, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", resolved, kerrors.ErrPathNotFound)
	}

	return resolved, nil
}

// FileExists reports whether path exists, following symlinks.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
