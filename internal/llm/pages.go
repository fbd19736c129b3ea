package llm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Page is one entry of the defaultPages array the model is instructed to
// produce: a route path, a component name and the component source.
type Page struct {
	Path      string `json:"path"`
	Component string `json:"component"`
	Exact     bool   `json:"exact"`
	Code      string `json:"code"`
}

var ErrNoPages = errors.New("llm: no page array found in response")

// ExtractPages pulls the defaultPages array out of a model response and
// parses it structurally. The model emits a JavaScript array literal, so
// the grammar here covers exactly that shape: objects with bare or quoted
// keys and single-, double- or backtick-quoted string values. Nothing is
// ever evaluated.
func ExtractPages(response string) ([]Page, error) {
	start := arrayStart(response)
	if start < 0 {
		return nil, ErrNoPages
	}

	p := &pageParser{src: response, pos: start}
	pages, err := p.parseArray()
	if err != nil {
		return nil, fmt.Errorf("llm: parse page array: %w", err)
	}
	return pages, nil
}

// arrayStart locates the opening bracket of the defaultPages array. A
// response that is nothing but an array literal is accepted too.
func arrayStart(s string) int {
	if idx := strings.Index(s, "defaultPages"); idx >= 0 {
		if open := strings.IndexByte(s[idx:], '['); open >= 0 {
			return idx + open
		}
		return -1
	}
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	if strings.HasPrefix(trimmed, "[") {
		return len(s) - len(trimmed)
	}
	return -1
}

type pageParser struct {
	src string
	pos int
}

func (p *pageParser) parseArray() ([]Page, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}

	pages := []Page{}
	for {
		p.skipSpace()
		if p.consume(']') {
			return pages, nil
		}

		page, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)

		if err := p.expectSeparator(']'); err != nil {
			return nil, err
		}
	}
}

func (p *pageParser) parseObject() (Page, error) {
	var page Page
	if err := p.expect('{'); err != nil {
		return page, err
	}

	for {
		p.skipSpace()
		if p.consume('}') {
			return page, nil
		}

		key, err := p.parseKey()
		if err != nil {
			return page, err
		}

		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return page, err
		}

		value, err := p.parseValue()
		if err != nil {
			return page, err
		}

		switch key {
		case "path":
			page.Path, _ = value.(string)
		case "component":
			page.Component, _ = value.(string)
		case "exact":
			page.Exact, _ = value.(bool)
		case "code":
			page.Code, _ = value.(string)
		}
		// Unknown keys are consumed and dropped.

		if err := p.expectSeparator('}'); err != nil {
			return page, err
		}
	}
}

// expectSeparator requires a comma or the closer after an element.
// Trailing commas are tolerated; two elements butted together are not.
func (p *pageParser) expectSeparator(closer byte) error {
	p.skipSpace()
	if p.consume(',') {
		return nil
	}
	if p.pos < len(p.src) && p.src[p.pos] == closer {
		return nil // loop consumes the closer
	}
	return fmt.Errorf("expected %q or %q at offset %d", ',', closer, p.pos)
}

// parseKey accepts a bare identifier or a quoted string.
func (p *pageParser) parseKey() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return "", errors.New("unexpected end of input in object key")
	}

	c := p.src[p.pos]
	if c == '"' || c == '\'' || c == '`' {
		return p.parseString()
	}

	start := p.pos
	for p.pos < len(p.src) && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("invalid object key at offset %d", p.pos)
	}
	return p.src[start:p.pos], nil
}

func (p *pageParser) parseValue() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, errors.New("unexpected end of input in value")
	}

	switch c := p.src[p.pos]; {
	case c == '"' || c == '\'' || c == '`':
		return p.parseString()
	case strings.HasPrefix(p.src[p.pos:], "true"):
		p.pos += len("true")
		return true, nil
	case strings.HasPrefix(p.src[p.pos:], "false"):
		p.pos += len("false")
		return false, nil
	case strings.HasPrefix(p.src[p.pos:], "null"):
		p.pos += len("null")
		return nil, nil
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	}
}

// parseString handles single-, double- and backtick-quoted strings with
// backslash escapes. Template literal interpolation is not expanded; the
// prompt forbids it, and an escaped \$ simply becomes a dollar sign.
func (p *pageParser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", errors.New("unterminated escape sequence")
			}
			switch esc := p.src[p.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				// Covers \`, \', \", \\ and \$.
				b.WriteByte(esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated %q string", quote)
}

func (p *pageParser) parseNumber() (float64, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			p.pos++
			continue
		}
		break
	}
	return strconv.ParseFloat(p.src[start:p.pos], 64)
}

func (p *pageParser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		// Line comments between entries are tolerated.
		if strings.HasPrefix(p.src[p.pos:], "//") {
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
			continue
		}
		return
	}
}

func (p *pageParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *pageParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
