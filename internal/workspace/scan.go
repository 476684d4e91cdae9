package workspace

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"quill/pkg/fileops"
)

// maxSearchFileSize caps per-file reads during content search so one huge
// file cannot stall the whole search.
const maxSearchFileSize = 2 * 1024 * 1024

// Scan walks the workspace and returns every file and directory, relative
// paths sorted, with build output and dependency caches skipped.
func (w *Workspace) Scan() ([]fileops.FileInfo, error) {
	return w.scan(&fileops.DirectoryScanOptions{
		SkipUnreadableDirs: true,
		MaxDepth:           20,
		IncludeHidden:      false,
		SkipPatterns:       fileops.DefaultSkipPatterns(),
		IncludeDirs:        true,
	})
}

// ListFiles returns the workspace's files (no directories), optionally
// filtered by a glob on the file name.
func (w *Workspace) ListFiles(namePattern string) ([]fileops.FileInfo, error) {
	return w.scan(&fileops.DirectoryScanOptions{
		SkipUnreadableDirs: true,
		MaxDepth:           20,
		IncludeHidden:      false,
		SkipPatterns:       fileops.DefaultSkipPatterns(),
		NamePattern:        namePattern,
	})
}

func (w *Workspace) scan(opts *fileops.DirectoryScanOptions) ([]fileops.FileInfo, error) {
	scanner, err := fileops.NewDirectoryScanner(w.path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}
	defer scanner.Close()

	files, err := scanner.ScanDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// SearchOptions controls content search behavior.
type SearchOptions struct {
	CaseSensitive bool
	Regex         bool   // treat the query as a regular expression
	NamePattern   string // optional glob restricting which files are searched
	MaxResults    int    // 0 means no limit
}

// Match is one content search hit.
type Match struct {
	Path string // workspace-relative
	Line int    // 1-based
	Text string // the matching line, trimmed of trailing newline
}

// SearchContent searches workspace files line by line, as a substring or
// a regular expression. Binary files are skipped.
func (w *Workspace) SearchContent(query string, opts SearchOptions) ([]Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	var re *regexp.Regexp
	if opts.Regex {
		pattern := query
		if !opts.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		var err error
		if re, err = regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("invalid search pattern: %w", err)
		}
	}

	files, err := w.ListFiles(opts.NamePattern)
	if err != nil {
		return nil, err
	}

	needle := query
	if !opts.CaseSensitive {
		needle = strings.ToLower(query)
	}

	var matches []Match
	for _, f := range files {
		if f.Size > maxSearchFileSize {
			continue
		}

		data, err := w.ReadFile(filepath.ToSlash(f.Path))
		if err != nil {
			continue // unreadable files don't abort the search
		}
		if isBinary(data) {
			continue
		}

		for i, line := range strings.Split(string(data), "\n") {
			var hit bool
			if re != nil {
				hit = re.MatchString(line)
			} else {
				haystack := line
				if !opts.CaseSensitive {
					haystack = strings.ToLower(line)
				}
				hit = strings.Contains(haystack, needle)
			}
			if hit {
				matches = append(matches, Match{
					Path: filepath.ToSlash(f.Path),
					Line: i + 1,
					Text: strings.TrimRight(line, "\r"),
				})
				if opts.MaxResults > 0 && len(matches) >= opts.MaxResults {
					return matches, nil
				}
			}
		}
	}

	return matches, nil
}

// isBinary uses the classic NUL-byte heuristic on the leading bytes.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
