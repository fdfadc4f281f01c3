package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
)

// RejectionKind classifies what has been removed during sanitizing.
type RejectionKind int8

// Kinds of rejections.
const (
	RejectedTag RejectionKind = iota
	RejectedAttribute
	RejectedStyle
)

func (k RejectionKind) String() string {
	switch k {
	case RejectedTag:
		return "tag"
	case RejectedAttribute:
		return "attribute"
	case RejectedStyle:
		return "style"
	}
	return "unknown"
}

// Rejection describes a tag, attribute or style declaration which has been
// removed. Tag is empty if the context is unknown.
type Rejection struct {
	Kind  RejectionKind
	Tag   string
	Key   string
	Value string
}

func (r Rejection) String() string {
	switch r.Kind {
	case RejectedTag:
		return fmt.Sprintf("invalid tag <%s> removed", r.Tag)
	case RejectedAttribute:
		return fmt.Sprintf("invalid attribute %s=%q in <%s> removed", r.Key, r.Value, r.Tag)
	}
	return fmt.Sprintf("invalid style %s: %s in <%s> removed", r.Key, r.Value, r.Tag)
}

// Reporter receives notice of every rejection. It must not panic.
type Reporter func(Rejection)

// traceRejection is the default reporter. Rejections are traced on error
// level, which is enabled by default.
func traceRejection(r Rejection) {
	tracer().Errorf("ast: %s", r)
}

// FilterAttributes removes every attribute from attrs which is not on the
// allow-list, and every reference attribute whose value is not a string
// starting with an allowed reference prefix. attrs is modified in place
// and returned.
func (s *Sanitizer) FilterAttributes(attrs Attributes) Attributes {
	return s.filterAttributes("", attrs)
}

func (s *Sanitizer) filterAttributes(tag string, attrs Attributes) Attributes {
	for key, v := range attrs {
		valid := s.allow.AllowsAttribute(key)
		if valid && IsReferenceAttribute(key) {
			valid = !v.IsNumber() && s.allow.AllowsReference(v.String())
		}
		if !valid {
			s.report(Rejection{Kind: RejectedAttribute, Tag: tag, Key: key, Value: v.String()})
			delete(attrs, key)
		}
	}
	return attrs
}

// --- Inline styles ----------------------------------------------------

// unsafeStyleProperties may load code in legacy renderers.
var unsafeStyleProperties = map[string]struct{}{
	"behavior":     {},
	"-moz-binding": {},
}

var unsafeStyleTokens = []string{
	"url(", "image-set(", "src(", "expression(", "javascript:", "vbscript:",
}

// safeStyleFunctions are the CSS functions allowed in style values.
// Everything else is rejected, including functions which load resources.
var safeStyleFunctions = map[string]struct{}{
	"rgb": {}, "rgba": {}, "hsl": {}, "hsla": {}, "hwb": {},
	"calc": {}, "min": {}, "max": {}, "clamp": {}, "var": {},
	"translate": {}, "translatex": {}, "translatey": {}, "rotate": {},
	"scale": {}, "scalex": {}, "scaley": {}, "skew": {}, "skewx": {},
	"skewy": {}, "matrix": {}, "cubic-bezier": {}, "steps": {}, "rect": {},
	"linear-gradient": {}, "radial-gradient": {},
	"repeating-linear-gradient": {}, "repeating-radial-gradient": {},
}

// StyleDeclaration is a single inline CSS declaration.
type StyleDeclaration struct {
	Property string
	Value    string
}

// ParseStyle splits the value of a style attribute into declarations.
func ParseStyle(css string) ([]StyleDeclaration, error) {
	css = strings.TrimSpace(css)
	if css == "" {
		return nil, nil
	}
	if !strings.HasSuffix(css, ";") { // douceur drops an unterminated last value
		css += ";"
	}
	decls, err := parser.ParseDeclarations(css)
	if err != nil {
		return nil, fmt.Errorf("ast: invalid style attribute: %w", err)
	}
	r := make([]StyleDeclaration, 0, len(decls))
	for _, d := range decls {
		if d.Property == "" || d.Value == "" {
			continue
		}
		v := d.Value
		if d.Important {
			v += " !important"
		}
		r = append(r, StyleDeclaration{Property: strings.ToLower(d.Property), Value: v})
	}
	return r, nil
}

// filterStyle drops declarations which could load resources or execute
// code. Unless bypassing, the result contains safe declarations only.
func (s *Sanitizer) filterStyle(tag string, decls []StyleDeclaration) []StyleDeclaration {
	if s.bypass {
		return decls
	}
	safe := decls[:0]
	for _, d := range decls {
		if isUnsafeStyle(d) {
			s.report(Rejection{Kind: RejectedStyle, Tag: tag, Key: d.Property, Value: d.Value})
			continue
		}
		safe = append(safe, d)
	}
	return safe
}

// isUnsafeStyle checks a declaration after resolving CSS escapes, the way
// a renderer will read it. Values are tokenized and any function not in
// safeStyleFunctions makes the declaration unsafe.
func isUnsafeStyle(d StyleDeclaration) bool {
	if _, ok := unsafeStyleProperties[strings.ToLower(unescapeCSS(d.Property))]; ok {
		return true
	}
	// legacy IE ignores backslashes and whitespace inside of keywords
	if containsUnsafeToken(strings.Map(func(r rune) rune {
		if r == '\\' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(d.Value))) {
		return true
	}
	var compact strings.Builder
	sc := scanner.New(unescapeCSS(d.Value))
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return containsUnsafeToken(strings.ToLower(compact.String()))
		case scanner.TokenError, scanner.TokenURI:
			return true
		case scanner.TokenFunction:
			name := strings.ToLower(strings.TrimSuffix(tok.Value, "("))
			if _, ok := safeStyleFunctions[name]; !ok {
				return true
			}
		case scanner.TokenS, scanner.TokenComment:
			continue
		}
		compact.WriteString(tok.Value)
	}
}

func containsUnsafeToken(v string) bool {
	for _, tok := range unsafeStyleTokens {
		if strings.Contains(v, tok) {
			return true
		}
	}
	return false
}

// unescapeCSS resolves CSS escapes: a backslash followed by 1 to 6 hex
// digits and an optional whitespace, or by any other character, which
// stands for itself. Escaped newlines are removed.
func unescapeCSS(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 == len(s) {
			break
		}
		j := i + 1
		for j < len(s) && j < i+7 && isHexDigit(s[j]) {
			j++
		}
		if j == i+1 {
			r, size := utf8.DecodeRuneInString(s[j:])
			if r != '\n' && r != '\r' && r != '\f' {
				sb.WriteRune(r)
			}
			i += size
			continue
		}
		code, _ := strconv.ParseUint(s[i+1:j], 16, 32)
		r := rune(code)
		if r == 0 || r > unicode.MaxRune || (r >= 0xd800 && r <= 0xdfff) {
			r = utf8.RuneError
		}
		sb.WriteRune(r)
		if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\f' || s[j] == '\r') {
			if s[j] == '\r' && j+1 < len(s) && s[j+1] == '\n' {
				j++
			}
			j++
		}
		i = j - 1
	}
	return sb.String()
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
