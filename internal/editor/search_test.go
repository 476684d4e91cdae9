package editor

import "testing"

const searchFixture = "The quick brown fox\njumps over the lazy dog and another\nThe end. the END.\n"

func TestFindAll(t *testing.T) {
	b := NewBuffer("a.txt", searchFixture)

	tests := []struct {
		name  string
		query string
		opts  FindOptions
		want  int
	}{
		{"case insensitive", "the", FindOptions{}, 5},
		{"case sensitive", "The", FindOptions{CaseSensitive: true}, 2},
		{"whole word", "the", FindOptions{WholeWord: true}, 4},
		{"no match", "zebra", FindOptions{}, 0},
		{"regex", `[Tt]he\s+\w+`, FindOptions{Regex: true, CaseSensitive: true}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := FindAll(b, tt.query, tt.opts)
			if err != nil {
				t.Fatalf("FindAll() error = %v", err)
			}
			if len(matches) != tt.want {
				t.Errorf("FindAll() found %d matches, want %d", len(matches), tt.want)
			}
		})
	}
}

func TestFindAllPositions(t *testing.T) {
	b := NewBuffer("a.txt", searchFixture)

	matches, err := FindAll(b, "lazy", FindOptions{})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("found %d matches, want 1", len(matches))
	}
	if matches[0].Line != 1 || matches[0].Col != 15 {
		t.Errorf("match at %d:%d, want 1:15", matches[0].Line, matches[0].Col)
	}
	if matches[0].Text != "lazy" {
		t.Errorf("match text = %q, want lazy", matches[0].Text)
	}
}

func TestFindAllRejectsBadInput(t *testing.T) {
	b := NewBuffer("a.txt", searchFixture)

	if _, err := FindAll(b, "", FindOptions{}); err == nil {
		t.Error("FindAll() with empty query succeeded, want error")
	}
	if _, err := FindAll(b, "[unclosed", FindOptions{Regex: true}); err == nil {
		t.Error("FindAll() with invalid regex succeeded, want error")
	}
	// Invalid regex syntax is harmless when treated literally
	if _, err := FindAll(b, "[unclosed", FindOptions{}); err != nil {
		t.Errorf("literal FindAll() error = %v", err)
	}
}

func TestFindNextAndWrap(t *testing.T) {
	b := NewBuffer("a.txt", searchFixture)
	b.SetCursor(2, 10)

	// Only "END" remains after the cursor
	m, wrapped, err := FindNext(b, "end", FindOptions{})
	if err != nil {
		t.Fatalf("FindNext() error = %v", err)
	}
	if m == nil || wrapped {
		t.Fatalf("FindNext() = %v wrapped=%v, want tail match without wrap", m, wrapped)
	}
	if m.Line != 2 || m.Col != 13 {
		t.Errorf("match at %d:%d, want 2:13", m.Line, m.Col)
	}

	// Past the last match: no wrap means no result
	b.SetCursor(2, 16)
	m, _, err = FindNext(b, "end", FindOptions{})
	if err != nil {
		t.Fatalf("FindNext() error = %v", err)
	}
	if m != nil {
		t.Errorf("FindNext() without wrap = %+v, want nil", m)
	}

	// With wrap it comes back to the first match
	m, wrapped, err = FindNext(b, "end", FindOptions{WrapAround: true})
	if err != nil {
		t.Fatalf("FindNext() error = %v", err)
	}
	if m == nil || !wrapped {
		t.Fatalf("FindNext() with wrap = %v wrapped=%v, want wrapped match", m, wrapped)
	}
	if m.Line != 2 || m.Col != 4 {
		t.Errorf("wrapped match at %d:%d, want 2:4", m.Line, m.Col)
	}
}

func TestFindPrev(t *testing.T) {
	b := NewBuffer("a.txt", searchFixture)
	b.SetCursor(1, 0)

	m, wrapped, err := FindPrev(b, "quick", FindOptions{})
	if err != nil {
		t.Fatalf("FindPrev() error = %v", err)
	}
	if m == nil || wrapped {
		t.Fatalf("FindPrev() = %v wrapped=%v, want earlier match without wrap", m, wrapped)
	}
	if m.Line != 0 || m.Col != 4 {
		t.Errorf("match at %d:%d, want 0:4", m.Line, m.Col)
	}

	// At top without wrap: nothing before the cursor
	b.SetCursor(0, 0)
	m, _, err = FindPrev(b, "quick", FindOptions{})
	if err != nil {
		t.Fatalf("FindPrev() error = %v", err)
	}
	if m != nil {
		t.Errorf("FindPrev() without wrap = %+v, want nil", m)
	}

	m, wrapped, err = FindPrev(b, "lazy", FindOptions{WrapAround: true})
	if err != nil {
		t.Fatalf("FindPrev() error = %v", err)
	}
	if m == nil || !wrapped {
		t.Fatalf("FindPrev() with wrap = %v wrapped=%v, want wrapped match", m, wrapped)
	}
}

func TestReplace(t *testing.T) {
	b := NewBuffer("a.txt", "aaa bbb aaa\n")
	b.SetCursor(0, 4)

	ok, err := Replace(b, "aaa", "ccc", FindOptions{})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if !ok {
		t.Fatal("Replace() = false, want true")
	}
	if b.Content() != "aaa bbb ccc\n" {
		t.Errorf("content = %q, want only the match after the cursor replaced", b.Content())
	}
	if !b.Dirty() {
		t.Error("buffer not dirty after replace")
	}
}

func TestReplaceNoMatch(t *testing.T) {
	b := NewBuffer("a.txt", "nothing here\n")

	ok, err := Replace(b, "absent", "x", FindOptions{})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if ok {
		t.Error("Replace() = true, want false when nothing matches")
	}
	if b.Dirty() {
		t.Error("buffer dirty after no-op replace")
	}
}

func TestReplaceAll(t *testing.T) {
	b := NewBuffer("a.txt", "foo bar foo baz FOO\n")

	n, err := ReplaceAll(b, "foo", "qux", FindOptions{})
	if err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ReplaceAll() = %d, want 3", n)
	}
	if b.Content() != "qux bar qux baz qux\n" {
		t.Errorf("content = %q", b.Content())
	}
}

func TestReplaceAllCaseSensitive(t *testing.T) {
	b := NewBuffer("a.txt", "foo FOO foo\n")

	n, err := ReplaceAll(b, "foo", "x", FindOptions{CaseSensitive: true})
	if err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ReplaceAll() = %d, want 2", n)
	}
	if b.Content() != "x FOO x\n" {
		t.Errorf("content = %q, want x FOO x", b.Content())
	}
}

func TestReplaceAllRegexGroups(t *testing.T) {
	b := NewBuffer("a.txt", "name: alice\nname: bob\n")

	n, err := ReplaceAll(b, `name: (\w+)`, "user=$1", FindOptions{Regex: true})
	if err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ReplaceAll() = %d, want 2", n)
	}
	if b.Content() != "user=alice\nuser=bob\n" {
		t.Errorf("content = %q", b.Content())
	}
}

func TestReplaceAllLiteralDollar(t *testing.T) {
	b := NewBuffer("a.txt", "price\n")

	if _, err := ReplaceAll(b, "price", "$100", FindOptions{}); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	if b.Content() != "$100\n" {
		t.Errorf("content = %q, want literal $100", b.Content())
	}
}
