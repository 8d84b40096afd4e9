package ast

import "strings"

// LiteralType is the scalar literal category.
type LiteralType int

const (
	LiteralNull LiteralType = iota
	LiteralBool
	LiteralInteger
	LiteralFloat
	LiteralBigInteger
	LiteralBigDecimal
	LiteralString
	LiteralDate
	LiteralNaN
	LiteralInfinity
)

var literalTypeNames = [...]string{
	LiteralNull:       "null",
	LiteralBool:       "boolean",
	LiteralInteger:    "integer",
	LiteralFloat:      "float",
	LiteralBigInteger: "biginteger",
	LiteralBigDecimal: "bigdecimal",
	LiteralString:     "string",
	LiteralDate:       "date",
	LiteralNaN:        "nan",
	LiteralInfinity:   "infinity",
}

func (t LiteralType) String() string {
	if t < 0 || int(t) >= len(literalTypeNames) {
		return "unknown"
	}
	return literalTypeNames[t]
}

// Width is the numeric width selected by a numeral suffix.
type Width int

const (
	WidthNone Width = iota // no suffix
	WidthByte              // b
	WidthShort             // s
	WidthInt               // i
	WidthLong              // l
	WidthBigInteger        // n
	WidthFloat             // f
	WidthDouble            // d
	WidthBigDecimal        // m
)

// Literal is a scalar literal.
//
// Text holds the source text needed to re-emit the literal:
//   - numerals: sign and digits, without the suffix
//   - strings and dates: the raw quoted text, delimiters included
//   - booleans: "true" or "false"
//
// Suffix is the numeral suffix exactly as written (upper or lower case), or
// zero when absent.
type Literal struct {
	Type   LiteralType
	Text   string
	Suffix byte

	// Negative marks -Infinity.
	Negative bool

	// Nullable marks a string in a slot that also accepts null; the raw text
	// null then denotes the null constant rather than a string.
	Nullable bool

	Location Location
}

// Width returns the numeric width denoted by the suffix.
func (l *Literal) Width() Width {
	switch l.Suffix {
	case 'b', 'B':
		return WidthByte
	case 's', 'S':
		return WidthShort
	case 'i', 'I':
		return WidthInt
	case 'l', 'L':
		return WidthLong
	case 'n', 'N':
		return WidthBigInteger
	case 'f', 'F':
		return WidthFloat
	case 'd', 'D':
		return WidthDouble
	case 'm', 'M':
		return WidthBigDecimal
	}
	return WidthNone
}

// SuffixLower returns the suffix lower-cased, or "" when absent.
func (l *Literal) SuffixLower() string {
	if l.Suffix == 0 {
		return ""
	}
	return strings.ToLower(string(l.Suffix))
}

// Numeral returns the numeral text as written with the suffix lower-cased.
func (l *Literal) Numeral() string {
	return l.Text + l.SuffixLower()
}

// Unquoted returns the body of a string or date literal with the delimiting
// quote character removed from each end. Escapes are left untouched.
func (l *Literal) Unquoted() string {
	return Unquote(l.Text)
}

// Quote returns the delimiting quote character of a string or date literal.
func (l *Literal) Quote() byte {
	if len(l.Text) >= 2 && (l.Text[0] == '\'' || l.Text[0] == '"') {
		return l.Text[0]
	}
	return 0
}

// IsNullString reports whether the literal is a nullable string holding null.
func (l *Literal) IsNullString() bool {
	return l.Type == LiteralString && l.Nullable && l.Text == "null"
}

// Unquote strips one matching quote character from each end of s.
func Unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '\'' || q == '"') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Null returns the null literal.
func Null() *Literal { return &Literal{Type: LiteralNull, Text: "null"} }

// Bool returns a boolean literal.
func Bool(b bool) *Literal {
	if b {
		return &Literal{Type: LiteralBool, Text: "true"}
	}
	return &Literal{Type: LiteralBool, Text: "false"}
}

// NaN returns the not-a-number literal.
func NaN() *Literal { return &Literal{Type: LiteralNaN, Text: "NaN"} }

// Inf returns Infinity, or -Infinity when negative is true.
func Inf(negative bool) *Literal {
	if negative {
		return &Literal{Type: LiteralInfinity, Text: "-Infinity", Negative: true}
	}
	return &Literal{Type: LiteralInfinity, Text: "Infinity"}
}

// Str returns a string literal from its raw quoted source text, for example
// Str(`'x'`) or Str(`"x"`). Unquoted input is wrapped in single quotes.
func Str(raw string) *Literal {
	if len(raw) < 2 || (raw[0] != '\'' && raw[0] != '"') || raw[len(raw)-1] != raw[0] {
		raw = "'" + raw + "'"
	}
	return &Literal{Type: LiteralString, Text: raw}
}

// NullableStr returns a string literal in a slot that also accepts null.
// NullableStr("null") denotes the null constant.
func NullableStr(raw string) *Literal {
	if raw == "null" {
		return &Literal{Type: LiteralString, Text: "null", Nullable: true}
	}
	l := Str(raw)
	l.Nullable = true
	return l
}

// Date returns a datetime('...') literal from the raw quoted timestamp.
func Date(raw string) *Literal {
	s := Str(raw)
	s.Type = LiteralDate
	return s
}

// Int returns an integer literal from numeral text with an optional suffix
// (b, s, i, l or n in either case). In hexadecimal numerals a trailing b is a
// digit, not a suffix.
func Int(text string) *Literal {
	digits, suffix := splitSuffix(text, "bBsSiIlLnN")
	if (suffix == 'b' || suffix == 'B') && isHex(digits) {
		digits, suffix = text, 0
	}
	l := &Literal{Type: LiteralInteger, Text: digits, Suffix: suffix}
	if suffix == 'n' || suffix == 'N' {
		l.Type = LiteralBigInteger
	}
	return l
}

// Float returns a floating point literal from numeral text with an optional
// suffix (f, d or m in either case).
func Float(text string) *Literal {
	digits, suffix := splitSuffix(text, "fFdDmM")
	l := &Literal{Type: LiteralFloat, Text: digits, Suffix: suffix}
	if suffix == 'm' || suffix == 'M' {
		l.Type = LiteralBigDecimal
	}
	return l
}

// Number returns Int or Float depending on the numeral's shape.
func Number(text string) *Literal {
	if isHex(text) {
		return Int(text)
	}
	if strings.ContainsAny(text, ".eE") {
		return Float(text)
	}
	if n := len(text); n > 0 && strings.IndexByte("fFdDmM", text[n-1]) >= 0 {
		return Float(text)
	}
	return Int(text)
}

func splitSuffix(text, suffixes string) (string, byte) {
	if n := len(text); n > 1 && strings.IndexByte(suffixes, text[n-1]) >= 0 {
		return text[:n-1], text[n-1]
	}
	return text, 0
}

func isHex(text string) bool {
	t := strings.TrimLeft(text, "+-")
	return len(t) > 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X')
}
