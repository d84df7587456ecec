package cursor

import (
	"errors"
	"testing"
)

func TestNew_NormalizesInput(t *testing.T) {
	c := New("a\r\nb")
	if got := c.Len(); got != 4 {
		t.Fatalf("expected 4 runes after normalization, got %d", got)
	}
	var out []rune
	for !c.AtEnd() {
		out = append(out, c.Current())
		c.Advance()
	}
	if string(out) != "a\nb\n" {
		t.Errorf("expected %q, got %q", "a\nb\n", string(out))
	}
}

func TestMarkRewind_RestoresPosition(t *testing.T) {
	c := New("hello")
	c.Advance()
	c.Advance()
	mark := c.Mark()
	c.Advance()
	c.Advance()
	if c.Current() != 'o' {
		t.Fatalf("expected 'o', got %q", c.Current())
	}
	c.Rewind(mark)
	if c.Current() != 'l' {
		t.Errorf("expected 'l' after rewind, got %q", c.Current())
	}
}

func TestRewindErr_ReportsFailurePosition(t *testing.T) {
	c := New("abc")
	mark := c.Mark()
	c.Advance()
	c.Advance()
	err := c.RewindErr(mark)
	if err == nil {
		t.Fatal("expected an error")
	}
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if syntaxErr.Pos != 2 {
		t.Errorf("expected failure position 2, got %d", syntaxErr.Pos)
	}
	if c.Pos() != 0 {
		t.Errorf("expected cursor back at 0, got %d", c.Pos())
	}
}

func TestMatchSequence_ConsumesOnlyOnMatch(t *testing.T) {
	c := New("```go")
	if !c.MatchSequence([]rune("```")) {
		t.Fatal("expected sequence match")
	}
	if c.Current() != 'g' {
		t.Errorf("expected cursor on 'g', got %q", c.Current())
	}
	if c.MatchSequence([]rune("xyz")) {
		t.Error("expected no match")
	}
	if c.Current() != 'g' {
		t.Errorf("expected cursor unchanged on mismatch, got %q", c.Current())
	}
}

func TestScanUntil_StopsBeforeStopChar(t *testing.T) {
	c := New("language\ncode")
	got, err := c.ScanUntil([]rune{'\n'}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "language" {
		t.Errorf("expected %q, got %q", "language", got)
	}
	if !c.IsLineBreak() {
		t.Error("expected cursor on the linebreak")
	}
}

func TestScanUntil_FailCharRewinds(t *testing.T) {
	c := New("abc\ndef")
	start := c.Pos()
	if _, err := c.ScanUntil([]rune{']'}, []rune{'\n'}); err == nil {
		t.Fatal("expected an error")
	}
	if c.Pos() != start {
		t.Errorf("expected rewind to %d, got %d", start, c.Pos())
	}
}

func TestScanUntil_IgnoresEscapedStop(t *testing.T) {
	c := New(`a\]b]c`)
	got, err := c.ScanUntil([]rune{']'}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `a\]b` {
		t.Errorf("expected %q, got %q", `a\]b`, got)
	}
}

func TestEscaped_OddBackslashRun(t *testing.T) {
	// Is reports false on the escaped '*', so seek by raw character.
	c := New(`a\\\*`)
	for c.Current() != '*' {
		c.Advance()
	}
	if c.Is('*') {
		t.Error("expected Is to reject the escaped '*'")
	}
	if !c.Escaped() {
		t.Error("expected '*' behind three backslashes to count as escaped")
	}

	c = New(`a\\*`)
	for c.Current() != '*' {
		c.Advance()
	}
	if !c.Is('*') {
		t.Error("expected Is to accept the '*' behind a doubled backslash")
	}
	if c.Escaped() {
		t.Error("expected '*' behind two backslashes to count as unescaped")
	}
}

func TestSkipInlineWhitespace_CountsIndentation(t *testing.T) {
	c := New("    - item")
	if n := c.SkipInlineWhitespace(); n != 4 {
		t.Errorf("expected 4 skipped characters, got %d", n)
	}
	if c.Current() != '-' {
		t.Errorf("expected cursor on '-', got %q", c.Current())
	}
}

func TestLineCol_MapsPositions(t *testing.T) {
	c := New("ab\ncd")
	line, col := c.LineCol(4)
	if line != 2 || col != 2 {
		t.Errorf("expected 2:2, got %d:%d", line, col)
	}
}
