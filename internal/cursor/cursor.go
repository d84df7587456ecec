// Package cursor provides a backtracking reader over a fully loaded
// input text. Every speculative parse snapshots the position with Mark
// and restores it with Rewind on failure, so a failed attempt leaves no
// observable trace.
package cursor

import "strings"

// Escape marks the following character as literal.
const Escape = '\\'

// LineBreak is the normalized line terminator.
const LineBreak = '\n'

// Cursor reads runes from an eagerly loaded text. The zero value is not
// usable; construct with New.
type Cursor struct {
	text []rune
	pos  int
}

// New normalizes the input (CRLF to LF, guaranteed trailing newline)
// and positions the cursor on the first character.
func New(input string) *Cursor {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	if !strings.HasSuffix(input, "\n") {
		input += "\n"
	}
	return &Cursor{text: []rune(input)}
}

// Pos returns the current rune offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the total rune count of the input.
func (c *Cursor) Len() int { return len(c.text) }

// AtEnd reports whether the cursor has consumed all input.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.text) }

// Current returns the rune under the cursor, or 0 at end of input.
func (c *Cursor) Current() rune {
	if c.AtEnd() {
		return 0
	}
	return c.text[c.pos]
}

// Peek returns the rune at the given offset from the cursor without
// moving, or 0 when out of range.
func (c *Cursor) Peek(offset int) rune {
	i := c.pos + offset
	if i < 0 || i >= len(c.text) {
		return 0
	}
	return c.text[i]
}

// Advance moves to the next rune. It reports false once the end of the
// input is reached.
func (c *Cursor) Advance() bool {
	if c.pos >= len(c.text) {
		return false
	}
	c.pos++
	return !c.AtEnd()
}

// Mark snapshots the current position for a later Rewind.
func (c *Cursor) Mark() int { return c.pos }

// Rewind restores a position previously returned by Mark.
func (c *Cursor) Rewind(mark int) {
	if mark < 0 {
		mark = 0
	}
	if mark > len(c.text) {
		mark = len(c.text)
	}
	c.pos = mark
}

// RewindErr rewinds to mark and returns a syntax error pointing at the
// position the failure was discovered at.
func (c *Cursor) RewindErr(mark int) error {
	err := &SyntaxError{Pos: c.pos}
	c.Rewind(mark)
	return err
}

// Err returns a syntax error at the current position without rewinding.
func (c *Cursor) Err() error { return &SyntaxError{Pos: c.pos} }

// escaped reports whether the rune at index i is preceded by an
// unescaped escape character.
func (c *Cursor) escaped(i int) bool {
	// Count the run of backslashes immediately before i; an odd run
	// escapes the character.
	n := 0
	for j := i - 1; j >= 0 && c.text[j] == Escape; j-- {
		n++
	}
	return n%2 == 1
}

// Escaped reports whether the current character is escaped.
func (c *Cursor) Escaped() bool { return c.escaped(c.pos) }

// Is reports whether the cursor is on the given character and it is not
// escaped.
func (c *Cursor) Is(ch rune) bool {
	return !c.AtEnd() && c.Current() == ch && !c.Escaped()
}

// IsAny reports whether the cursor is on any unescaped character of the
// set.
func (c *Cursor) IsAny(set []rune) bool {
	if c.AtEnd() || c.Escaped() {
		return false
	}
	cur := c.Current()
	for _, ch := range set {
		if cur == ch {
			return true
		}
	}
	return false
}

// IsLineBreak reports whether the cursor is on an unescaped linebreak.
func (c *Cursor) IsLineBreak() bool { return c.Is(LineBreak) }

// IsSequence reports whether the unescaped sequence starts at the
// cursor. The position is unchanged.
func (c *Cursor) IsSequence(seq []rune) bool {
	if c.Escaped() {
		return false
	}
	if c.pos+len(seq) > len(c.text) {
		return false
	}
	for i, ch := range seq {
		if c.text[c.pos+i] != ch {
			return false
		}
	}
	return true
}

// IsAnySequence reports whether any of the sequences starts at the
// cursor.
func (c *Cursor) IsAnySequence(seqs [][]rune) bool {
	for _, seq := range seqs {
		if c.IsSequence(seq) {
			return true
		}
	}
	return false
}

// MatchChar consumes the given character if the cursor is on it.
func (c *Cursor) MatchChar(ch rune) bool {
	if c.Is(ch) {
		c.Advance()
		return true
	}
	return false
}

// MatchAny consumes one character of the set if the cursor is on one.
func (c *Cursor) MatchAny(set []rune) bool {
	if c.IsAny(set) {
		c.Advance()
		return true
	}
	return false
}

// MatchSequence consumes the sequence if it starts at the cursor.
// Nothing is consumed on a partial match.
func (c *Cursor) MatchSequence(seq []rune) bool {
	if !c.IsSequence(seq) {
		return false
	}
	c.pos += len(seq)
	return true
}

// Expect asserts the current character and consumes it, rewinding to
// mark on failure.
func (c *Cursor) Expect(ch rune, mark int) error {
	if !c.MatchChar(ch) {
		return c.RewindErr(mark)
	}
	return nil
}

// ExpectSequence asserts the sequence at the cursor and consumes it,
// rewinding to mark on failure.
func (c *Cursor) ExpectSequence(seq []rune, mark int) error {
	if !c.MatchSequence(seq) {
		return c.RewindErr(mark)
	}
	return nil
}

// ScanUntil consumes characters until an unescaped stop character and
// returns them (possibly empty, stop not consumed). Hitting an
// unescaped fail character or the end of input restores the start
// position and returns an error.
func (c *Cursor) ScanUntil(stop, fail []rune) (string, error) {
	start := c.pos
	var b strings.Builder
	for !c.AtEnd() {
		if c.IsAny(stop) {
			return b.String(), nil
		}
		if c.IsAny(fail) {
			return "", c.RewindErr(start)
		}
		b.WriteRune(c.Current())
		c.Advance()
	}
	return "", c.RewindErr(start)
}

// ScanUntilSequence is ScanUntil with multi-character stop tokens.
func (c *Cursor) ScanUntilSequence(stops [][]rune, fail []rune) (string, error) {
	start := c.pos
	var b strings.Builder
	for !c.AtEnd() {
		if c.IsAnySequence(stops) {
			return b.String(), nil
		}
		if c.IsAny(fail) {
			return "", c.RewindErr(start)
		}
		b.WriteRune(c.Current())
		c.Advance()
	}
	return "", c.RewindErr(start)
}

// SkipInlineWhitespace consumes spaces and tabs up to, but not
// including, a linebreak. It returns the number of consumed characters.
func (c *Cursor) SkipInlineWhitespace() int {
	n := 0
	for !c.AtEnd() {
		ch := c.Current()
		if ch != ' ' && ch != '\t' && ch != '\r' {
			break
		}
		c.Advance()
		n++
	}
	return n
}

// SkipWhitespace consumes all whitespace including linebreaks.
func (c *Cursor) SkipWhitespace() {
	for !c.AtEnd() {
		switch c.Current() {
		case ' ', '\t', '\r', '\n':
			c.Advance()
		default:
			return
		}
	}
}

// SkipToLineEnd consumes the remainder of the current line including
// its linebreak.
func (c *Cursor) SkipToLineEnd() {
	for !c.AtEnd() {
		if c.Is(LineBreak) {
			c.Advance()
			return
		}
		c.Advance()
	}
}

// Slice returns the input text between two marks.
func (c *Cursor) Slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(c.text) {
		to = len(c.text)
	}
	if from >= to {
		return ""
	}
	return string(c.text[from:to])
}

// LineCol translates a rune offset into a 1-based line and column pair
// for diagnostics.
func (c *Cursor) LineCol(pos int) (line, col int) {
	if pos > len(c.text) {
		pos = len(c.text)
	}
	line, col = 1, 1
	for i := 0; i < pos; i++ {
		if c.text[i] == LineBreak {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
