package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/TuanAnhhh123/M26-HKT/pkg/routepath"
)

type tokenKind int

const (
	tokenStatic tokenKind = iota
	tokenParam
)

// token is one segment of a compiled pattern.
type token struct {
	kind tokenKind

	// value is the static text, or the param name for params.
	value string

	// source is the custom regexp source of a param ("" for the default).
	source string
	re     *regexp.Regexp

	optional   bool
	repeatable bool
}

// accepts reports whether a single raw path segment satisfies the param.
func (t *token) accepts(segment string) bool {
	if t.re == nil {
		return segment != ""
	}
	return t.re.MatchString(segment)
}

// Pattern is a compiled route path template.
type Pattern struct {
	raw    string
	tokens []token
}

// ParsePattern compiles a path template.
//
// Templates start with "/" and contain static segments and params:
// ":name", ":name(regexp)", each optionally followed by "?" (optional),
// "*" (zero or more segments) or "+" (one or more segments).
func ParsePattern(raw string) (*Pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("pattern %q must start with /", raw)
	}

	segments, err := splitPattern(raw)
	if err != nil {
		return nil, err
	}

	p := &Pattern{raw: raw}
	seen := make(map[string]bool)
	for i, seg := range segments {
		if seg == "" {
			if i == len(segments)-1 && raw == "/" {
				break
			}
			return nil, fmt.Errorf("pattern %q has an empty segment", raw)
		}
		if !strings.HasPrefix(seg, ":") {
			p.tokens = append(p.tokens, token{kind: tokenStatic, value: seg})
			continue
		}

		tok, err := parseParamSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", raw, err)
		}
		if seen[tok.value] {
			return nil, fmt.Errorf("pattern %q repeats param %q", raw, tok.value)
		}
		seen[tok.value] = true
		p.tokens = append(p.tokens, tok)
	}

	return p, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(raw string) *Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// splitPattern splits a template on "/" while keeping slashes that sit
// inside a param's regexp group.
func splitPattern(raw string) ([]string, error) {
	var (
		segments []string
		current  strings.Builder
		depth    int
	)

	body := raw[1:]
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			current.WriteByte(c)
			current.WriteByte(body[i+1])
			i++
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("pattern %q has unbalanced parentheses", raw)
			}
		case c == '/' && depth == 0:
			segments = append(segments, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	if depth != 0 {
		return nil, fmt.Errorf("pattern %q has unbalanced parentheses", raw)
	}

	return append(segments, current.String()), nil
}

// parseParamSegment parses ":name", ":name(re)" and their modifiers.
func parseParamSegment(seg string) (token, error) {
	tok := token{kind: tokenParam}

	i := 1
	for i < len(seg) && isNameChar(seg[i]) {
		i++
	}
	tok.value = seg[1:i]
	if tok.value == "" {
		return token{}, fmt.Errorf("param in segment %q has no name", seg)
	}

	if i < len(seg) && seg[i] == '(' {
		end := closingParen(seg, i)
		if end < 0 {
			return token{}, fmt.Errorf("param %q has an unterminated regexp", tok.value)
		}
		tok.source = seg[i+1 : end]
		re, err := regexp.Compile("^(?:" + tok.source + ")$")
		if err != nil {
			return token{}, fmt.Errorf("param %q: %w", tok.value, err)
		}
		tok.re = re
		i = end + 1
	}

	if i < len(seg) {
		switch seg[i] {
		case '?':
			tok.optional = true
		case '*':
			tok.optional = true
			tok.repeatable = true
		case '+':
			tok.repeatable = true
		default:
			return token{}, fmt.Errorf("unexpected %q after param %q", seg[i:], tok.value)
		}
		i++
	}
	if i != len(seg) {
		return token{}, fmt.Errorf("unexpected %q after param %q", seg[i:], tok.value)
	}

	return tok, nil
}

// closingParen returns the index of the ")" matching the "(" at open.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// String returns the template the pattern was parsed from.
func (p *Pattern) String() string {
	return p.raw
}

// IsCatchAll reports whether the pattern is a lone zero-or-more param,
// i.e. it matches any path.
func (p *Pattern) IsCatchAll() bool {
	if len(p.tokens) != 1 {
		return false
	}
	tok := p.tokens[0]
	return tok.kind == tokenParam && tok.optional && tok.repeatable
}

// IsStatic reports whether the pattern has no params.
func (p *Pattern) IsStatic() bool {
	for _, tok := range p.tokens {
		if tok.kind == tokenParam {
			return false
		}
	}
	return true
}

// ParamNames returns the param names in template order.
func (p *Pattern) ParamNames() []string {
	var names []string
	for _, tok := range p.tokens {
		if tok.kind == tokenParam {
			names = append(names, tok.value)
		}
	}
	return names
}

// Match matches path segments against the pattern. Static segments compare
// case-insensitively unless sensitive is set.
func (p *Pattern) Match(segments []string, sensitive bool) (Params, bool) {
	params := make(Params)
	if !p.matchFrom(0, segments, params, sensitive) {
		return nil, false
	}
	return params, true
}

// matchFrom matches tokens[ti:] against segs. Captures are written only
// once the remainder has matched, so failed branches leave params clean.
func (p *Pattern) matchFrom(ti int, segs []string, params Params, sensitive bool) bool {
	if ti == len(p.tokens) {
		return len(segs) == 0
	}

	tok := &p.tokens[ti]

	if tok.kind == tokenStatic {
		if len(segs) == 0 || !segmentEqual(tok.value, segs[0], sensitive) {
			return false
		}
		return p.matchFrom(ti+1, segs[1:], params, sensitive)
	}

	if tok.repeatable {
		most := 0
		for most < len(segs) && tok.accepts(segs[most]) {
			most++
		}
		least := 1
		if tok.optional {
			least = 0
		}
		for n := most; n >= least; n-- {
			if p.matchFrom(ti+1, segs[n:], params, sensitive) {
				params[tok.value] = decodeAll(segs[:n])
				return true
			}
		}
		return false
	}

	if len(segs) > 0 && tok.accepts(segs[0]) {
		if p.matchFrom(ti+1, segs[1:], params, sensitive) {
			params[tok.value] = decodeAll(segs[:1])
			return true
		}
	}
	if tok.optional {
		return p.matchFrom(ti+1, segs, params, sensitive)
	}
	return false
}

func segmentEqual(want, got string, sensitive bool) bool {
	if sensitive {
		return want == got
	}
	return strings.EqualFold(want, got)
}

// decodeAll percent-decodes captured segments, keeping the raw text of any
// segment that does not decode.
func decodeAll(segs []string) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		decoded, err := routepath.DecodeSegment(s, true)
		if err != nil {
			decoded = s
		}
		out[i] = decoded
	}
	return out
}

// Build fills the template with params and returns the path.
func (p *Pattern) Build(params Params) (string, error) {
	var b strings.Builder
	for _, tok := range p.tokens {
		if tok.kind == tokenStatic {
			b.WriteByte('/')
			b.WriteString(tok.value)
			continue
		}

		values := params[tok.value]
		if len(values) == 0 {
			if tok.optional {
				continue
			}
			return "", fmt.Errorf("%w: %q in %s", ErrMissingParam, tok.value, p.raw)
		}
		if !tok.repeatable {
			values = values[:1]
		}
		for _, v := range values {
			b.WriteByte('/')
			b.WriteString(url.PathEscape(v))
		}
	}

	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}
