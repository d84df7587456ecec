package cursor

import "fmt"

// SyntaxError marks a failed grammar alternative. It carries the rune
// offset the failure was discovered at and drives backtracking; it is
// expected and silent unless no alternative remains.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("syntax error at offset %d", e.Pos)
	}
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}
