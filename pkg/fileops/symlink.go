package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsSymlink reports whether the path is a symbolic link.
// Returns an error only when the path cannot be lstat'd at all.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("cannot lstat path: %w", err)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// ResolveSymlink resolves a symlink chain to its final target, returning
// an absolute, cleaned path. The target must exist.
func ResolveSymlink(linkPath string) (string, error) {
	resolved, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve symlink: %w", err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("cannot resolve symlink target to absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// ValidateSymlinkSecurity verifies that a symlink resolves to a location
// inside one of the allowed base paths. Used by the directory scanner to
// keep traversal inside the workspace boundary.
func ValidateSymlinkSecurity(linkPath string, allowedBasePaths []string) error {
	target, err := ResolveSymlink(linkPath)
	if err != nil {
		return err
	}

	for _, base := range allowedBasePaths {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		absBase = filepath.Clean(absBase)
		if target == absBase || strings.HasPrefix(target, absBase+string(filepath.Separator)) {
			return nil
		}
	}

	return fmt.Errorf("symlink target %s is outside allowed paths", target)
}
