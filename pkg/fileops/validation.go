package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ValidatePathSecurity performs static security validation on a file path.
// It rejects empty paths, path traversal attempts, and absolute paths that
// point into reserved system directories. It does not touch the filesystem.
func ValidatePathSecurity(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// Check for path traversal in both the raw and cleaned input
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	if filepath.IsAbs(path) && IsReservedDirectory(cleanPath) {
		return fmt.Errorf("cannot use system or reserved directories")
	}

	return nil
}

// ValidateRelativePath validates that a path is relative and stays inside
// its base when cleaned. Used for workspace-relative file references.
func ValidateRelativePath(relPath string) error {
	if strings.TrimSpace(relPath) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(relPath) {
		return fmt.Errorf("path must be relative")
	}
	clean := filepath.Clean(relPath)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes its base directory")
	}
	return nil
}

// SanitizeFilename validates a bare filename for create/rename operations.
// Path separators, traversal sequences, and characters that are invalid on
// common filesystems are rejected rather than rewritten.
func SanitizeFilename(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}
	if name == "." || name == ".." {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("filename cannot contain path separators")
	}
	if strings.ContainsAny(name, "<>:\"|?*\x00") {
		return "", fmt.Errorf("filename contains invalid characters")
	}
	return name, nil
}

// ValidateDirectoryWritable checks that a directory exists and that files
// can be created in it, by briefly creating and removing a probe file.
func ValidateDirectoryWritable(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}

	probe := filepath.Join(dirPath, ".quill-write-test")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	f.Close()
	os.Remove(probe)

	return nil
}

// ValidateFileSizeLimit returns an error when the file exceeds maxSize bytes.
func ValidateFileSizeLimit(filePath string, maxSize int64) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	if info.Size() > maxSize {
		return fmt.Errorf("file too large: %d bytes (limit %d)", info.Size(), maxSize)
	}
	return nil
}

// ExpandPath expands a path starting with "~/" to the user's home directory.
// Other paths are returned unchanged.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// IsReservedDirectory reports whether the path is a system directory that
// should never be used as a workspace or scanned.
func IsReservedDirectory(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true // unresolvable paths are treated as reserved
	}

	reservedDirs := []string{
		"/",
		"/bin",
		"/boot",
		"/dev",
		"/etc",
		"/lib",
		"/proc",
		"/sbin",
		"/sys",
		"/usr",
		"/var",
	}

	if runtime.GOOS == "windows" {
		reservedDirs = append(reservedDirs,
			"C:\\Windows",
			"C:\\Program Files",
			"C:\\Program Files (x86)",
			"C:\\System32",
		)
	}

	for _, reserved := range reservedDirs {
		if strings.EqualFold(absPath, reserved) {
			return true
		}
		prefix := strings.ToLower(reserved) + string(os.PathSeparator)
		if reserved != "/" && strings.HasPrefix(strings.ToLower(absPath), prefix) {
			return true
		}
	}

	return false
}
