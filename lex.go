package lambdacalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// space indicates whitespace immediately before the token.
	space bool
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenIdent is an identifier or numeral.
	tokenIdent
	// tokenBinder is a binder symbol: λ ∀ ∃ ι γ, or L A E I in ASCII mode.
	tokenBinder
	// tokenOp is a connective or the bar of cardinality and set builders.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep is a comma.
	tokenSep
	// tokenDot separates a binder's variable from its scope.
	tokenDot
	// tokenType is the type text following a colon.
	tokenType
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "EOF"
	case tokenIdent:
		return "Ident"
	case tokenBinder:
		return "Binder"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	case tokenDot:
		return "Dot"
	case tokenType:
		return "Type"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in ClosedBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// Binders contains the unicode binder symbols, in the order of BinderOp.
const Binders = "λ∀∃ιγ"

// ASCIIBinders contains the letters that begin binders in ASCII mode, in the
// order of BinderOp. Gamma has no ASCII spelling.
const ASCIIBinders = "LAEI"

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

// singleOps maps one-rune connectives to their canonical text.
var singleOps = map[rune]string{
	'¬': "¬", '~': "¬",
	'∧': "∧", '&': "∧", '^': "∧",
	'∨': "∨", '|': "|",
	'→': "→",
	'↔': "↔",
	'=': "=",
	'≠': "≠",
	'×': "×", '*': "×",
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
	// single is whether identifiers are one letter long.
	single bool
	// ascii is whether L A E I begin binders.
	ascii bool
	// pend holds tokens already scanned after the one last returned.
	pend []lexToken
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("lambdacalc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("lambdacalc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// peek returns the next token without consuming it.
func (l *lexer) peek() (lexToken, error) {
	tok, err := l.next()
	if err != nil {
		return tok, err
	}
	l.push(tok)
	return tok, nil
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peekRune reports the next rune without consuming it. ok is false at EOF.
func (l *lexer) peekRune() (r rune, ok bool, err error) {
	r, err = l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	l.unreadRune()
	return r, true, nil
}

// next scans the next token from the input. The first time EOF is
// encountered, the result is an EOF token with a nil error. Subsequent times,
// if the EOF token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if len(l.pend) > 0 {
		tok := l.pend[0]
		l.pend = l.pend[1:]
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			tok.space = true
			continue
		case strings.ContainsRune(Binders, r):
			tok.text = string(r)
			tok.kind = tokenBinder
			return tok, nil
		case l.ascii && !l.single && strings.ContainsRune(ASCIIBinders, r):
			return l.scanASCIIBinder(tok, r)
		case l.ascii && strings.ContainsRune(ASCIIBinders, r):
			// A binder letter is a binder only when its variable follows
			// immediately.
			n, ok, err := l.peekRune()
			if err != nil {
				return tok, err
			}
			if ok && unicode.IsLetter(n) && !strings.ContainsRune(Binders, n) {
				tok.text = string(r)
				tok.kind = tokenBinder
				return tok, nil
			}
			if err := l.scanIdent(r); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, nil
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			if err := l.scanIdent(r); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == '.':
			tok.text = "."
			tok.kind = tokenDot
			return tok, nil
		case r == ':':
			if err := l.scanType(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenType
			return tok, nil
		case r == '-':
			l.buf.WriteRune(r)
			if err := l.expect('>'); err != nil {
				return tok, err
			}
			tok.text = "→"
			tok.kind = tokenOp
			return tok, nil
		case r == '<':
			l.buf.WriteRune(r)
			if err := l.expect('-'); err != nil {
				return tok, err
			}
			if err := l.expect('>'); err != nil {
				return tok, err
			}
			tok.text = "↔"
			tok.kind = tokenOp
			return tok, nil
		case r == '!':
			l.buf.WriteRune(r)
			if err := l.expect('='); err != nil {
				return tok, err
			}
			tok.text = "≠"
			tok.kind = tokenOp
			return tok, nil
		default:
			if s, ok := singleOps[r]; ok {
				tok.text = s
				tok.kind = tokenOp
				return tok, nil
			}
			if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
				tok.text = openbrackets[k]
				tok.kind = tokenOpen
				return tok, nil
			}
			if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
				tok.text = closebrackets[k]
				tok.kind = tokenClose
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanASCIIBinder scans a word beginning with a binder letter when identifiers
// may be longer than one letter. The letter begins a binder only if the rest
// of the word is a variable whose scope follows: the word ends at a dot or an
// open bracket, or at a type annotation which does. Otherwise the whole word
// is an identifier, so Likes and Every are names.
func (l *lexer) scanASCIIBinder(tok lexToken, r rune) (lexToken, error) {
	if err := l.scanIdent(r); err != nil {
		return tok, err
	}
	word := l.buf.String()
	tok.text = word
	tok.kind = tokenIdent
	// Binder letters are ASCII, so the variable starts at byte 1.
	if len(word) == 1 {
		return tok, nil
	}
	if v, _ := utf8.DecodeRuneInString(word[1:]); !unicode.IsLetter(v) {
		return tok, nil
	}
	n, ok, err := l.peekRune()
	if err != nil || !ok {
		return tok, err
	}
	binder := lexToken{text: word[:1], kind: tokenBinder, pos: tok.pos, space: tok.space}
	v := lexToken{text: word[1:], kind: tokenIdent, pos: tok.pos + 1}
	switch n {
	case '.', '[':
		l.pend = append(l.pend, v)
		return binder, nil
	case ':':
	default:
		return tok, nil
	}
	typ := lexToken{kind: tokenType, pos: l.rune}
	if _, err := l.readRune(); err != nil {
		return tok, err
	}
	l.buf.Reset()
	if err := l.scanType(); err != nil {
		return tok, err
	}
	typ.text = l.buf.String()
	n, ok, err = l.peekRune()
	if err != nil {
		return tok, err
	}
	if ok && (n == '.' || n == '[') {
		l.pend = append(l.pend, v, typ)
		return binder, nil
	}
	l.pend = append(l.pend, typ)
	return tok, nil
}

// expect scans r as the next rune of an operator.
func (l *lexer) expect(r rune) error {
	n, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return l.error("operator")
		}
		return err
	}
	l.buf.WriteRune(n)
	if n != r {
		return l.error("operator")
	}
	return nil
}

// scanIdent scans an identifier or numeral beginning with first. Numerals
// are runs of digits. In single-letter mode, an identifier is one letter
// followed by any digits, underscores, and primes; otherwise it is any run of
// those and letters.
func (l *lexer) scanIdent(first rune) error {
	l.buf.WriteRune(first)
	digits := unicode.IsDigit(first)
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case digits:
			if !unicode.IsDigit(r) {
				l.unreadRune()
				return nil
			}
			l.buf.WriteRune(r)
		case r == '_', r == '\'', unicode.IsDigit(r):
			l.buf.WriteRune(r)
		case unicode.IsLetter(r) && !l.single && !strings.ContainsRune(Binders, r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// scanType scans the text of a type after a colon: letters, product signs,
// and balanced angle brackets. An angle bracket may only open a type or follow
// a product sign, and a closed bracket ends the type unless a product sign
// follows it.
func (l *lexer) scanType() error {
	depth := 0
	var last rune
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch {
		case depth > 0:
			switch r {
			case '<':
				depth++
			case '>':
				depth--
			}
		case r == '<':
			if last != 0 && last != '*' && last != '×' {
				l.unreadRune()
				return l.typeEnd()
			}
			depth++
		case last == '>' && r != '*' && r != '×':
			l.unreadRune()
			return l.typeEnd()
		case unicode.IsLetter(r) && !strings.ContainsRune(Binders, r), r == '*', r == '×':
		default:
			l.unreadRune()
			return l.typeEnd()
		}
		l.buf.WriteRune(r)
		last = r
	}
	if depth > 0 {
		return l.error("type")
	}
	return l.typeEnd()
}

func (l *lexer) typeEnd() error {
	if l.buf.Len() == 0 {
		return l.error("type")
	}
	return nil
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be
	// "operator", "type", or the empty string (if a token kind hadn't been
	// decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
