package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// DirectoryScanOptions configures directory scanning behavior.
type DirectoryScanOptions struct {
	// SkipUnreadableDirs makes scanning resilient: unreadable directories
	// and unstattable files are skipped instead of aborting the scan.
	SkipUnreadableDirs bool

	// MaxDepth limits recursion depth to guard against pathological trees.
	MaxDepth int

	// IncludeHidden controls whether dotfiles and dot-directories appear.
	IncludeHidden bool

	// SkipPatterns are glob patterns matched against directory names
	// (not full paths). Directories matching any pattern are not descended
	// into. Plain names like "node_modules" are valid globs and match
	// exactly, so the common case needs no special syntax.
	SkipPatterns []string

	// NamePattern, when non-empty, is a glob matched against file names;
	// only matching files are included. Combine with FileFilter for
	// programmatic filtering.
	NamePattern string

	// FileFilter optionally restricts which files are included. A nil
	// filter includes every file.
	FileFilter func(filename string) bool

	// IncludeDirs controls whether directory entries themselves appear in
	// the results (files always do). The explorer tree wants directories;
	// flat file listings do not.
	IncludeDirs bool
}

// FileInfo is a platform-independent view of a discovered file.
type FileInfo struct {
	// Name is the base filename without path components
	Name string

	// Path is the path relative to the scan root
	Path string

	// IsDir indicates a directory entry
	IsDir bool

	// Size is the file size in bytes (0 for directories)
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// Mode contains the file mode and permission bits
	Mode os.FileMode
}

// SecureDirectoryScanner walks a directory tree inside an os.Root security
// boundary, with symlink containment and loop detection.
type SecureDirectoryScanner struct {
	root     *os.Root
	opts     *DirectoryScanOptions
	skip     []glob.Glob
	namePat  glob.Glob
	results  []FileInfo
	visited  map[string]bool
	scanRoot string
}

// DefaultSkipPatterns returns directory name patterns that are skipped by
// default: build output, dependency caches, and editor metadata.
func DefaultSkipPatterns() []string {
	return []string{
		"node_modules",
		".git",
		"vendor",
		"target",
		"build",
		".next",
		"dist",
		".cache",
		"__pycache__",
		".vscode",
		".idea",
		"*.egg-info",
	}
}

func defaultScanOptions() *DirectoryScanOptions {
	return &DirectoryScanOptions{
		SkipUnreadableDirs: true,
		MaxDepth:           20,
		IncludeHidden:      true,
		SkipPatterns:       DefaultSkipPatterns(),
	}
}

// NewDirectoryScanner creates a scanner for scanPath. The path must exist,
// be a directory, and not be a reserved system directory. Skip patterns
// are compiled once at construction; invalid globs are an error.
func NewDirectoryScanner(scanPath string, opts *DirectoryScanOptions) (*SecureDirectoryScanner, error) {
	if opts == nil {
		opts = defaultScanOptions()
	}

	if strings.TrimSpace(scanPath) == "" {
		return nil, fmt.Errorf("scan path cannot be empty")
	}

	expandedPath := ExpandPath(scanPath)
	absPath, err := filepath.Abs(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve scan path: %w", err)
	}

	if IsReservedDirectory(absPath) {
		return nil, fmt.Errorf("cannot scan reserved/system directory: %s", absPath)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access scan path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path is not a directory: %s", absPath)
	}

	skip := make([]glob.Glob, 0, len(opts.SkipPatterns))
	for _, pattern := range opts.SkipPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid skip pattern %q: %w", pattern, err)
		}
		skip = append(skip, g)
	}

	var namePat glob.Glob
	if opts.NamePattern != "" {
		namePat, err = glob.Compile(opts.NamePattern)
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", opts.NamePattern, err)
		}
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot create secure scan root: %w", err)
	}

	return &SecureDirectoryScanner{
		root:     root,
		opts:     opts,
		skip:     skip,
		namePat:  namePat,
		results:  []FileInfo{},
		visited:  make(map[string]bool),
		scanRoot: absPath,
	}, nil
}

// Close releases the scanner's root handle.
func (s *SecureDirectoryScanner) Close() error {
	if s.root != nil {
		err := s.root.Close()
		s.root = nil
		return err
	}
	return nil
}

// ScanDirectory performs a recursive scan and returns the discovered
// entries, respecting depth limits, skip patterns, and filters.
func (s *SecureDirectoryScanner) ScanDirectory() ([]FileInfo, error) {
	if s.root == nil {
		return nil, fmt.Errorf("scanner has been closed")
	}

	s.results = []FileInfo{}
	s.visited = make(map[string]bool)

	if err := s.scanRecursive(".", 1); err != nil {
		return nil, fmt.Errorf("directory scan failed: %w", err)
	}

	resultsCopy := make([]FileInfo, len(s.results))
	copy(resultsCopy, s.results)
	return resultsCopy, nil
}

func (s *SecureDirectoryScanner) scanRecursive(relativePath string, depth int) error {
	if depth > s.opts.MaxDepth {
		return nil // silently stop at max depth
	}

	cleanPath := filepath.Clean(relativePath)
	if s.visited[cleanPath] {
		return nil // prevents symlink loops
	}
	s.visited[cleanPath] = true

	dir, err := s.root.Open(relativePath)
	if err != nil {
		if s.opts.SkipUnreadableDirs {
			return nil
		}
		return fmt.Errorf("failed to open directory %s: %w", relativePath, err)
	}
	defer dir.Close()

	entries, err := dir.ReadDir(-1)
	if err != nil {
		if s.opts.SkipUnreadableDirs {
			return nil
		}
		return fmt.Errorf("failed to read directory %s: %w", relativePath, err)
	}

	for _, entry := range entries {
		entryPath := filepath.Join(relativePath, entry.Name())

		if entry.IsDir() {
			if s.shouldSkipDirectory(entry.Name()) {
				continue
			}

			// Symlinked directories must resolve inside the scan root
			fullEntryPath := filepath.Join(s.scanRoot, entryPath)
			if isLink, err := IsSymlink(fullEntryPath); err == nil && isLink {
				if err := ValidateSymlinkSecurity(fullEntryPath, []string{s.scanRoot}); err != nil {
					if s.opts.SkipUnreadableDirs {
						continue
					}
					return fmt.Errorf("symlink security check failed for %s: %w", entryPath, err)
				}
			}

			if s.opts.IncludeDirs {
				fileInfo, err := s.createFileInfo(entry, entryPath)
				if err == nil {
					s.results = append(s.results, fileInfo)
				}
			}

			if err := s.scanRecursive(entryPath, depth+1); err != nil {
				return err
			}
		} else if s.shouldIncludeFile(entry.Name()) {
			fileInfo, err := s.createFileInfo(entry, entryPath)
			if err != nil {
				if s.opts.SkipUnreadableDirs {
					continue
				}
				return fmt.Errorf("failed to get file info for %s: %w", entryPath, err)
			}
			s.results = append(s.results, fileInfo)
		}
	}

	return nil
}

func (s *SecureDirectoryScanner) shouldSkipDirectory(dirName string) bool {
	if !s.opts.IncludeHidden && strings.HasPrefix(dirName, ".") {
		return true
	}
	for _, g := range s.skip {
		if g.Match(dirName) {
			return true
		}
	}
	return false
}

func (s *SecureDirectoryScanner) shouldIncludeFile(fileName string) bool {
	if !s.opts.IncludeHidden && strings.HasPrefix(fileName, ".") {
		return false
	}
	if s.namePat != nil && !s.namePat.Match(fileName) {
		return false
	}
	if s.opts.FileFilter != nil {
		return s.opts.FileFilter(fileName)
	}
	return true
}

func (s *SecureDirectoryScanner) createFileInfo(entry os.DirEntry, path string) (FileInfo, error) {
	info, err := entry.Info()
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return FileInfo{
		Name:    entry.Name(),
		Path:    path,
		IsDir:   entry.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
	}, nil
}
