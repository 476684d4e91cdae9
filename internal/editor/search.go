package editor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FindOptions controls how find and replace interpret the query.
type FindOptions struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
	WrapAround    bool
}

// FindMatch is one hit in a buffer. Offsets are byte offsets into the
// content; Line and Col locate the start, 0-based with Col in runes.
type FindMatch struct {
	Start int
	End   int
	Line  int
	Col   int
	Text  string
}

// compilePattern turns a query into a regexp according to the options.
// Literal queries are quoted, so regexp is the single search engine for
// every mode.
func compilePattern(query string, opts FindOptions) (*regexp.Regexp, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	pat := query
	if !opts.Regex {
		pat = regexp.QuoteMeta(query)
	}
	if opts.WholeWord {
		pat = `\b(?:` + pat + `)\b`
	}
	if !opts.CaseSensitive {
		pat = `(?i)` + pat
	}

	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}
	return re, nil
}

// FindAll returns every match in the buffer, in document order.
func FindAll(b *Buffer, query string, opts FindOptions) ([]FindMatch, error) {
	re, err := compilePattern(query, opts)
	if err != nil {
		return nil, err
	}

	content := b.Content()
	var matches []FindMatch
	for _, loc := range re.FindAllStringIndex(content, -1) {
		line, col := offsetToPosition(content, loc[0])
		matches = append(matches, FindMatch{
			Start: loc[0],
			End:   loc[1],
			Line:  line,
			Col:   col,
			Text:  content[loc[0]:loc[1]],
		})
	}
	return matches, nil
}

// FindNext finds the first match at or after the cursor and moves the
// cursor to it. A match starting exactly at the cursor is returned, so
// callers stepping through results advance the cursor past the current
// match first. With WrapAround the search continues from the top when the
// tail has no match; the second return reports whether it wrapped.
func FindNext(b *Buffer, query string, opts FindOptions) (*FindMatch, bool, error) {
	matches, err := FindAll(b, query, opts)
	if err != nil {
		return nil, false, err
	}
	if len(matches) == 0 {
		return nil, false, nil
	}

	from := positionToOffset(b.Content(), b.line, b.col)
	for i := range matches {
		if matches[i].Start >= from {
			m := matches[i]
			b.SetCursor(m.Line, m.Col)
			return &m, false, nil
		}
	}

	if !opts.WrapAround {
		return nil, false, nil
	}
	m := matches[0]
	b.SetCursor(m.Line, m.Col)
	return &m, true, nil
}

// FindPrev finds the last match before the cursor and moves the cursor to
// it, wrapping to the bottom when requested.
func FindPrev(b *Buffer, query string, opts FindOptions) (*FindMatch, bool, error) {
	matches, err := FindAll(b, query, opts)
	if err != nil {
		return nil, false, err
	}
	if len(matches) == 0 {
		return nil, false, nil
	}

	from := positionToOffset(b.Content(), b.line, b.col)
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].Start < from {
			m := matches[i]
			b.SetCursor(m.Line, m.Col)
			return &m, false, nil
		}
	}

	if !opts.WrapAround {
		return nil, false, nil
	}
	m := matches[len(matches)-1]
	b.SetCursor(m.Line, m.Col)
	return &m, true, nil
}

// Replace replaces the next match (from the cursor, honoring WrapAround)
// and leaves the cursor at the start of the replacement. In regex mode the
// replacement may use $1-style group references.
func Replace(b *Buffer, query, replacement string, opts FindOptions) (bool, error) {
	m, _, err := FindNext(b, query, opts)
	if err != nil || m == nil {
		return false, err
	}

	content := b.Content()
	repl := replacement
	if opts.Regex {
		re, err := compilePattern(query, opts)
		if err != nil {
			return false, err
		}
		repl = re.ReplaceAllString(content[m.Start:m.End], replacement)
	}

	b.SetContent(content[:m.Start] + repl + content[m.End:])
	b.SetCursor(m.Line, m.Col)
	return true, nil
}

// ReplaceAll replaces every match in the buffer and returns how many were
// replaced.
func ReplaceAll(b *Buffer, query, replacement string, opts FindOptions) (int, error) {
	re, err := compilePattern(query, opts)
	if err != nil {
		return 0, err
	}

	content := b.Content()
	count := len(re.FindAllStringIndex(content, -1))
	if count == 0 {
		return 0, nil
	}

	if opts.Regex {
		b.SetContent(re.ReplaceAllString(content, replacement))
	} else {
		b.SetContent(re.ReplaceAllLiteralString(content, replacement))
	}
	return count, nil
}

// offsetToPosition converts a byte offset to a 0-based line and rune column.
func offsetToPosition(content string, offset int) (line, col int) {
	if offset > len(content) {
		offset = len(content)
	}
	before := content[:offset]
	line = strings.Count(before, "\n")
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return line, utf8.RuneCountInString(before)
}

// positionToOffset converts a 0-based line and rune column to a byte offset.
func positionToOffset(content string, line, col int) int {
	offset := 0
	for line > 0 {
		i := strings.IndexByte(content[offset:], '\n')
		if i < 0 {
			break
		}
		offset += i + 1
		line--
	}

	rest := content[offset:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	for col > 0 && len(rest) > 0 {
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
		offset += size
		col--
	}
	return offset
}
