package graph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	abierr "github.com/rubiojr/abigen/errors"
)

// ParseTypeRef parses a type expression such as `u64`, `Array<u8>`,
// `Account[]` or `Map<string, Array<u64>>`. A trailing `[]` is shorthand
// for Array<T>. Every node records its source spelling in Literal.
func ParseTypeRef(src string) (TypeRef, error) {
	p := &typeParser{src: src}
	p.skipSpace()
	ref, err := p.parseType()
	if err != nil {
		return TypeRef{}, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return TypeRef{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return ref, nil
}

// MustParseTypeRef is ParseTypeRef for literals known to be valid.
func MustParseTypeRef(src string) TypeRef {
	ref, err := ParseTypeRef(src)
	if err != nil {
		panic(err)
	}
	return ref
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return abierr.New(abierr.PhaseLoad, abierr.KindInvalidInput).
		Type(p.src).
		Detail("offset %d: %s", p.pos, fmt.Sprintf(format, args...)).
		Build()
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) parseType() (TypeRef, error) {
	start := p.pos
	name := p.parseName()
	if name == "" {
		return TypeRef{}, p.errorf("expected type name")
	}
	ref := TypeRef{Name: Ident(name), Literal: name}
	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			p.skipSpace()
			arg, err := p.parseType()
			if err != nil {
				return TypeRef{}, err
			}
			ref.Args = append(ref.Args, arg)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return TypeRef{}, p.errorf("expected ',' or '>'")
			}
			break
		}
		ref.Literal = p.src[start:p.pos]
		p.skipSpace()
	}
	for strings.HasPrefix(p.src[p.pos:], "[]") {
		p.pos += 2
		ref = TypeRef{Name: "Array", Args: []TypeRef{ref}, Literal: p.src[start:p.pos]}
		p.skipSpace()
	}
	return ref, nil
}

func (p *typeParser) parseName() string {
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r == '_' || r == '.' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// ParseExpr turns decorator argument source text into an expression
// variant: text wrapped in matching quotes is a StringLit, anything else is
// a RawExpr.
func ParseExpr(src string) Expr {
	s := strings.TrimSpace(src)
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q {
			if q == '"' || q == '`' {
				if v, err := strconv.Unquote(s); err == nil {
					return StringLit{Value: v}
				}
			}
			inner := s[1 : len(s)-1]
			if !strings.ContainsRune(inner, rune(q)) {
				return StringLit{Value: inner}
			}
		}
	}
	return RawExpr{Text: s}
}
