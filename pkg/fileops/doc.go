// Package fileops provides secure, atomic file operations for quill.
//
// All mutating operations are atomic at the filesystem level (temp file
// plus rename), and directory scanning is confined to an os.Root
// boundary with symlink containment checks. The package is
// application-agnostic: workspace policy (which directories may be
// opened, which files are editable) lives in internal/workspace.
package fileops
