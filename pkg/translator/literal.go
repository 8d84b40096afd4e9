package translator

import (
	"strings"

	"gremlin-hq/polyglot/pkg/gremlin/ast"
	"gremlin-hq/polyglot/pkg/gremlin/value"
)

// requoter re-delimits a raw string literal with quote. Escapes in the body
// are kept verbatim; a bare quote character is escaped.
func requoter(quote byte) func(raw string) string {
	return func(raw string) string {
		return requote(raw, quote, false)
	}
}

func requote(raw string, quote byte, goEscapes bool) string {
	body := ast.Unquote(raw)
	var sb strings.Builder
	sb.Grow(len(body) + 2)
	sb.WriteByte(quote)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			if goEscapes && body[i+1] == '\'' {
				sb.WriteByte('\'')
				i++
				continue
			}
			sb.WriteByte(c)
			sb.WriteByte(body[i+1])
			i++
			continue
		}
		if goEscapes && (c == '\n' || c == '\r') {
			if c == '\n' {
				sb.WriteString(`\n`)
			} else {
				sb.WriteString(`\r`)
			}
			continue
		}
		if c == quote {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte(quote)
	return sb.String()
}

// goString is requote with double quotes adjusted for Go interpreted
// strings: \' loses its backslash and raw line breaks are escaped.
func goString(raw string) string {
	return requote(raw, '"', true)
}

func groovyNumeral(l *ast.Literal) string {
	switch l.Width() {
	case ast.WidthByte:
		return "new Byte(" + l.Text + ")"
	case ast.WidthShort:
		return "new Short(" + l.Text + ")"
	case ast.WidthBigInteger, ast.WidthBigDecimal:
		return l.Text + "g"
	}
	return l.Numeral()
}

func javaNumeral(l *ast.Literal) string {
	x := strings.ToLower(l.Text)
	switch l.Width() {
	case ast.WidthByte:
		return "new Byte(" + x + ")"
	case ast.WidthShort:
		return "new Short(" + x + ")"
	case ast.WidthInt:
		return x
	case ast.WidthBigInteger:
		return `new BigInteger("` + x + `")`
	case ast.WidthBigDecimal:
		return `new BigDecimal("` + x + `")`
	}
	return x + l.SuffixLower()
}

func pythonNumeral(l *ast.Literal) string {
	switch l.Width() {
	case ast.WidthLong:
		return "long(" + l.Text + ")"
	case ast.WidthNone:
		if l.Type == ast.LiteralInteger && !value.FitsInt32(l.Text) {
			return "long(" + l.Text + ")"
		}
	}
	return l.Text
}

func goNumeral(l *ast.Literal) string {
	switch l.Width() {
	case ast.WidthByte:
		return "int8(" + l.Text + ")"
	case ast.WidthShort:
		return "int16(" + l.Text + ")"
	case ast.WidthInt:
		return "int32(" + l.Text + ")"
	case ast.WidthLong:
		return "int64(" + l.Text + ")"
	case ast.WidthBigInteger:
		return `gremlingo.ParseBigInt("` + l.Text + `")`
	case ast.WidthFloat:
		return "float32(" + l.Text + ")"
	case ast.WidthDouble:
		return "float64(" + l.Text + ")"
	case ast.WidthBigDecimal:
		return `gremlingo.ParseBigDecimal("` + l.Text + `")`
	}
	return l.Text
}

// literal renders a scalar literal for the state's dialect.
func (s *state) literal(l *ast.Literal) (string, error) {
	if s.d.Anonymize {
		class, v := literalClass(l)
		return s.anon.placeholder(class, v), nil
	}

	d := s.d
	switch l.Type {
	case ast.LiteralNull:
		return d.Null, nil
	case ast.LiteralBool:
		if l.Text == "true" {
			return d.True, nil
		}
		return d.False, nil
	case ast.LiteralInteger, ast.LiteralFloat, ast.LiteralBigInteger, ast.LiteralBigDecimal:
		return d.Numeral(l), nil
	case ast.LiteralNaN:
		return d.NaN, nil
	case ast.LiteralInfinity:
		if l.Negative {
			return d.NegInf, nil
		}
		return d.PosInf, nil
	case ast.LiteralString:
		if l.IsNullString() {
			return d.Null, nil
		}
		return d.String(l.Text), nil
	case ast.LiteralDate:
		return d.Date(l)
	}
	return "", &InvalidLiteralError{Text: l.Text, Err: ErrUnsupportedNode}
}
