package speech

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrMalformedOutput marks resegmentation responses that do not parse as a
// well-formed document expression.
var ErrMalformedOutput = errors.New("malformed resegmentation output")

// sexpValue is one node of a parsed S-expression: either an atom or a list.
type sexpValue struct {
	atom string
	list []sexpValue
	// isList distinguishes an empty list from an empty atom.
	isList bool
}

// parseSexp reads a single S-expression from the input, ignoring
// surrounding whitespace. Atoms are bare symbols or double-quoted strings
// with backslash escapes.
func parseSexp(input string) (sexpValue, error) {
	p := &sexpParser{input: input}
	p.skipSpace()
	value, err := p.parseValue()
	if err != nil {
		return sexpValue{}, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return sexpValue{}, fmt.Errorf("%w: trailing content at offset %d", ErrMalformedOutput, p.pos)
	}
	return value, nil
}

type sexpParser struct {
	input string
	pos   int
}

func (p *sexpParser) parseValue() (sexpValue, error) {
	if p.pos >= len(p.input) {
		return sexpValue{}, fmt.Errorf("%w: unexpected end of input", ErrMalformedOutput)
	}
	switch p.input[p.pos] {
	case '(':
		return p.parseList()
	case ')':
		return sexpValue{}, fmt.Errorf("%w: unexpected ')' at offset %d", ErrMalformedOutput, p.pos)
	case '"':
		atom, err := p.parseString()
		if err != nil {
			return sexpValue{}, err
		}
		return sexpValue{atom: atom}, nil
	default:
		return sexpValue{atom: p.parseSymbol()}, nil
	}
}

func (p *sexpParser) parseList() (sexpValue, error) {
	p.pos++ // consume '('
	value := sexpValue{isList: true}
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return sexpValue{}, fmt.Errorf("%w: unterminated list", ErrMalformedOutput)
		}
		if p.input[p.pos] == ')' {
			p.pos++
			return value, nil
		}
		child, err := p.parseValue()
		if err != nil {
			return sexpValue{}, err
		}
		value.list = append(value.list, child)
	}
}

func (p *sexpParser) parseString() (string, error) {
	p.pos++ // consume opening quote
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return "", fmt.Errorf("%w: dangling escape in string", ErrMalformedOutput)
			}
			escaped := p.input[p.pos]
			switch escaped {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(escaped)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("%w: unterminated string", ErrMalformedOutput)
}

func (p *sexpParser) parseSymbol() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := rune(p.input[p.pos])
		if unicode.IsSpace(c) || c == '(' || c == ')' || c == '"' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *sexpParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}
