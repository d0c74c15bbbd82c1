package word2vec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Shard lines use the literal tuple notation downstream loaders already read:
//
//	CBOW:      (['a', 'c'], 'b')
//	skip-gram: ('b', 'a')

// FormatExample renders an example as one shard line without the newline
func FormatExample(e Example) string {
	var b strings.Builder
	b.WriteByte('(')
	if e.Type == CBOW {
		b.WriteByte('[')
		for i, word := range e.Context {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(QuoteLiteral(word))
		}
		b.WriteString("], ")
		b.WriteString(QuoteLiteral(e.Center))
	} else {
		b.WriteString(QuoteLiteral(e.Center))
		b.WriteString(", ")
		context := ""
		if len(e.Context) > 0 {
			context = e.Context[0]
		}
		b.WriteString(QuoteLiteral(context))
	}
	b.WriteByte(')')
	return b.String()
}

// QuoteLiteral quotes s as a literal tuple element: single
// quotes unless s contains a single quote and no double quote.
func QuoteLiteral(s string) string {
	quote := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		quote = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// ParseExample reads one shard line back into an Example. The example type
// is inferred from the shape of the tuple.
func ParseExample(line string) (Example, error) {
	p := &literalParser{src: strings.TrimRight(line, "\r\n")}

	if err := p.expect('('); err != nil {
		return Example{}, err
	}

	var ex Example
	p.skipSpace()
	if p.peek() == '[' {
		context, err := p.parseList()
		if err != nil {
			return Example{}, err
		}
		if err := p.expectSeparator(); err != nil {
			return Example{}, err
		}
		center, err := p.parseString()
		if err != nil {
			return Example{}, err
		}
		ex = Example{Type: CBOW, Center: center, Context: context}
	} else {
		center, err := p.parseString()
		if err != nil {
			return Example{}, err
		}
		if err := p.expectSeparator(); err != nil {
			return Example{}, err
		}
		word, err := p.parseString()
		if err != nil {
			return Example{}, err
		}
		ex = Example{Type: SkipGram, Center: center, Context: []string{word}}
	}

	p.skipSpace()
	if err := p.expect(')'); err != nil {
		return Example{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Example{}, p.errorf("trailing data")
	}
	return ex, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("parse example at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *literalParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *literalParser) expectSeparator() error {
	p.skipSpace()
	if err := p.expect(','); err != nil {
		return err
	}
	p.skipSpace()
	return nil
}

func (p *literalParser) parseList() ([]string, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	items := []string{}
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return items, nil
	}
	for {
		p.skipSpace()
		item, err := p.parseString()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return items, nil
		default:
			return nil, p.errorf("expected ',' or ']' in list")
		}
	}
}

func (p *literalParser) parseString() (string, error) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected string literal")
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			r, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
	return "", p.errorf("unterminated string literal")
}

func (p *literalParser) parseEscape() (rune, error) {
	p.pos++ // backslash
	if p.pos >= len(p.src) {
		return 0, p.errorf("dangling escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\\', '\'', '"':
		return rune(c), nil
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'x':
		return p.parseHex(2)
	case 'u':
		return p.parseHex(4)
	case 'U':
		return p.parseHex(8)
	default:
		return 0, p.errorf("unsupported escape \\%c", c)
	}
}

func (p *literalParser) parseHex(digits int) (rune, error) {
	if p.pos+digits > len(p.src) {
		return 0, p.errorf("short hex escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return 0, p.errorf("bad hex escape: %v", err)
	}
	p.pos += digits
	return rune(v), nil
}
