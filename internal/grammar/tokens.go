package grammar

// Single-character tokens of the grammar.
const (
	tkLineBreak  = '\n'
	tkHash       = '#'
	tkPipe       = '|'
	tkMinus      = '-'
	tkPlus       = '+'
	tkAsterisk   = '*'
	tkUnderscore = '_'
	tkTilde      = '~'
	tkBacktick   = '`'
	tkCaret      = '^'
	tkColon      = ':'
	tkSemicolon  = ';'
	tkComma      = ','
	tkDot        = '.'
	tkEquals     = '='
	tkSpace      = ' '
	tkBang       = '!'
	tkQuote      = '>'
	tkImportOpen = '<'
	tkBracketO   = '['
	tkBracketC   = ']'
	tkParenO     = '('
	tkParenC     = ')'
	tkBraceO     = '{'
	tkBraceC     = '}'
	tkDollar     = '$'
	tkAmpersand  = '&'
	tkParagraph  = '§'
	tkPercent    = '%'
	tkChecked    = 'x'
)

// Multi-character tokens.
var (
	seqCodeFence   = []rune("```")
	seqMathFence   = []rune("$$$")
	seqMathInline  = []rune("$$")
	seqBold        = []rune("**")
	seqStrike      = []rune("~~")
	seqRuler       = []rune("- - -")
	seqImport      = []rune("<[")
	seqPlaceholderO = []rune("[[")
	seqPlaceholderC = []rune("]]")
	seqCentered    = []rune("||")
	seqColored     = []rune("§[")
	seqBibRef      = []rune("[^")
)

// arrowSequences are tried longest first so "<-->" is never read as
// "<--" plus ">".
var arrowSequences = []string{"<-->", "<==>", "-->", "<--", "==>", "<=="}

// quoteChars delimit quoted metadata string values.
var quoteChars = []rune{'\'', '"'}

// listMarkers start a list item; a leading digit makes the list
// ordered.
var listMarkers = []rune{tkMinus, tkPlus, tkAsterisk, 'o', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}

// blockStarts are the prefixes that terminate a paragraph: the next
// line belongs to another block kind.
var blockStarts = [][]rune{
	{tkHash},
	{tkHash, tkBracketO},
	{tkMinus, tkSpace},
	seqCodeFence,
	seqMathFence,
	{tkPipe},
	{tkQuote},
	{tkBracketO},
	seqImport,
	seqCentered,
}

// inlineSpecials stop the plain-text scanner; each is the first
// character of some inline construct.
var inlineSpecials = []rune{
	tkBacktick, tkTilde, tkUnderscore, tkAsterisk, tkBracketO, tkBang,
	tkParenO, tkLineBreak, tkCaret, tkColon, tkParagraph, tkDollar,
	tkAmpersand, tkImportOpen, tkMinus, tkEquals,
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isKeyRune(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	case ch == '-' || ch == '_':
		return true
	}
	return false
}
