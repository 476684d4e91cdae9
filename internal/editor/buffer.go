// Package editor holds the text-editing model: open buffers with cursor
// and dirty tracking, the buffer container that maps to persisted session
// state, and find/replace over buffer content.
package editor

import (
	"strings"
	"time"
)

// Buffer is one open file's in-memory state. Content is the working copy;
// dirtiness is derived by comparing against the content at last save.
type Buffer struct {
	path    string // workspace-relative, slash-separated
	content string
	saved   string
	line    int       // 0-based cursor line
	col     int       // 0-based cursor column, in runes
	modTime time.Time // on-disk mod time at load or last save

	// lostEdits is set when the previous session recorded unsaved changes
	// for this file; the buffer was restored from disk, so those edits are
	// gone and the UI should say so.
	lostEdits bool
}

// NewBuffer creates a buffer for path with content as both the working and
// saved state.
func NewBuffer(path, content string) *Buffer {
	return &Buffer{path: path, content: content, saved: content}
}

// Path returns the buffer's workspace-relative path.
func (b *Buffer) Path() string { return b.path }

// Content returns the working copy.
func (b *Buffer) Content() string { return b.content }

// SetContent replaces the working copy and clamps the cursor to the new
// content.
func (b *Buffer) SetContent(content string) {
	b.content = content
	b.SetCursor(b.line, b.col)
}

// Dirty reports whether the working copy differs from the last saved state.
func (b *Buffer) Dirty() bool { return b.content != b.saved }

// MarkSaved records the current working copy as the saved state.
func (b *Buffer) MarkSaved() { b.saved = b.content }

// LostEdits reports whether unsaved edits from a previous session could not
// be restored.
func (b *Buffer) LostEdits() bool { return b.lostEdits }

// ModTime returns the on-disk modification time recorded when the buffer
// was loaded or last saved.
func (b *Buffer) ModTime() time.Time { return b.modTime }

// SetModTime records a new on-disk modification time after a reload.
func (b *Buffer) SetModTime(t time.Time) { b.modTime = t }

// Cursor returns the 0-based cursor line and column.
func (b *Buffer) Cursor() (line, col int) { return b.line, b.col }

// SetCursor moves the cursor, clamping to valid positions in the content.
func (b *Buffer) SetCursor(line, col int) {
	lines := b.Lines()

	if line < 0 {
		line = 0
	}
	if line > len(lines)-1 {
		line = len(lines) - 1
	}

	max := len([]rune(lines[line]))
	if col < 0 {
		col = 0
	}
	if col > max {
		col = max
	}

	b.line, b.col = line, col
}

// Lines splits the content into lines. The result is never empty; empty
// content is a single empty line.
func (b *Buffer) Lines() []string {
	return strings.Split(b.content, "\n")
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	return strings.Count(b.content, "\n") + 1
}
