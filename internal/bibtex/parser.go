// Package bibtex parses, formats, and re-serializes BibTeX bibliographies.
package bibtex

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Name is one person name from an author or editor field.
type Name struct {
	First string
	Last  string
}

// Field is one entry field, order-preserving. Names are lowercased; values
// are stored with their outer delimiters removed and inner braces intact.
type Field struct {
	Name  string
	Value string
}

// Entry is one bibliography entry.
type Entry struct {
	Type    string // lowercased raw entry type
	Key     string
	Fields  []Field
	Authors []Name // parsed from the author field
	Editors []Name // parsed from the editor field
}

// Get returns the value of the named field, or "" if absent.
func (e *Entry) Get(name string) string {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Has reports whether the named field is present.
func (e *Entry) Has(name string) bool {
	for _, f := range e.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Year returns the year field as an integer, or 0 if absent or malformed.
func (e *Entry) Year() int {
	y, err := strconv.Atoi(strings.TrimSpace(e.Get("year")))
	if err != nil {
		return 0
	}
	return y
}

// Database is a parsed bibliography file.
type Database struct {
	Entries []Entry

	macros map[string]string
}

// ParseFile parses a BibTeX file from disk.
func ParseFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	db, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return db, nil
}

// Parse parses BibTeX source text. Unknown directives (@comment, @preamble)
// are skipped; @string macros are expanded into field values.
func Parse(src string) (*Database, error) {
	p := &parser{src: src, db: &Database{macros: defaultMacros()}}
	for {
		if !p.seekToEntry() {
			break
		}
		if err := p.parseDirective(); err != nil {
			return nil, err
		}
	}
	return p.db, nil
}

// Month name macros, predefined as in standard BibTeX.
func defaultMacros() map[string]string {
	return map[string]string{
		"jan": "January", "feb": "February", "mar": "March",
		"apr": "April", "may": "May", "jun": "June",
		"jul": "July", "aug": "August", "sep": "September",
		"oct": "October", "nov": "November", "dec": "December",
	}
}

type parser struct {
	src string
	pos int
	db  *Database
}

// seekToEntry advances to the next '@' and reports whether one was found.
func (p *parser) seekToEntry() bool {
	for p.pos < len(p.src) {
		if p.src[p.pos] == '@' {
			return true
		}
		p.pos++
	}
	return false
}

func (p *parser) parseDirective() error {
	p.pos++ // consume '@'
	kind := strings.ToLower(p.readIdent())
	p.skipSpace()

	open := p.peek()
	if open != '{' && open != '(' {
		return fmt.Errorf("offset %d: expected '{' or '(' after @%s", p.pos, kind)
	}
	end := byte('}')
	if open == '(' {
		end = ')'
	}
	p.pos++

	switch kind {
	case "comment", "preamble":
		return p.skipBalanced(open, end)
	case "string":
		return p.parseMacro(end)
	default:
		return p.parseEntry(kind, end)
	}
}

func (p *parser) parseMacro(end byte) error {
	p.skipSpace()
	name := strings.ToLower(p.readIdent())
	p.skipSpace()
	if p.peek() != '=' {
		return fmt.Errorf("offset %d: malformed @string", p.pos)
	}
	p.pos++
	value, err := p.readValue()
	if err != nil {
		return err
	}
	p.db.macros[name] = value
	p.skipSpace()
	if p.peek() == end {
		p.pos++
	}
	return nil
}

func (p *parser) parseEntry(entryType string, end byte) error {
	p.skipSpace()
	key := strings.TrimSpace(p.readWhile(func(c byte) bool {
		return c != ',' && c != end && !unicode.IsSpace(rune(c))
	}))
	if key == "" {
		return fmt.Errorf("offset %d: entry @%s has no key", p.pos, entryType)
	}
	p.skipSpace()
	if p.peek() == ',' {
		p.pos++
	}
	e := Entry{Type: entryType, Key: key}

	for {
		p.skipSpace()
		if p.peek() == end {
			p.pos++
			break
		}
		if p.pos >= len(p.src) {
			return fmt.Errorf("entry %s: unexpected end of input", e.Key)
		}
		name := strings.ToLower(p.readIdent())
		if name == "" {
			return fmt.Errorf("entry %s: expected field name at offset %d", e.Key, p.pos)
		}
		p.skipSpace()
		if p.peek() != '=' {
			return fmt.Errorf("entry %s: expected '=' after field %q", e.Key, name)
		}
		p.pos++
		value, err := p.readValue()
		if err != nil {
			return fmt.Errorf("entry %s: field %q: %w", e.Key, name, err)
		}
		e.Fields = append(e.Fields, Field{Name: name, Value: value})
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
		}
	}

	e.Authors = SplitNames(e.Get("author"))
	e.Editors = SplitNames(e.Get("editor"))
	p.db.Entries = append(p.db.Entries, e)
	return nil
}

// readValue reads one field value: '#'-joined pieces of braced text,
// quoted text, numbers, or macro names.
func (p *parser) readValue() (string, error) {
	var b strings.Builder
	for {
		p.skipSpace()
		switch c := p.peek(); {
		case c == '{':
			part, err := p.readBraced()
			if err != nil {
				return "", err
			}
			b.WriteString(part)
		case c == '"':
			part, err := p.readQuoted()
			if err != nil {
				return "", err
			}
			b.WriteString(part)
		case c >= '0' && c <= '9':
			b.WriteString(p.readWhile(func(r byte) bool { return r >= '0' && r <= '9' }))
		default:
			ident := p.readIdent()
			if ident == "" {
				return "", fmt.Errorf("offset %d: expected value", p.pos)
			}
			if v, ok := p.db.macros[strings.ToLower(ident)]; ok {
				b.WriteString(v)
			} else {
				// Unknown macro: keep its name rather than fail.
				b.WriteString(ident)
			}
		}
		p.skipSpace()
		if p.peek() == '#' {
			p.pos++
			continue
		}
		return b.String(), nil
	}
}

// readBraced consumes a balanced {...} group and returns its inner text.
func (p *parser) readBraced() (string, error) {
	start := p.pos + 1
	depth := 0
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				inner := p.src[start:p.pos]
				p.pos++
				return inner, nil
			}
		}
	}
	return "", fmt.Errorf("offset %d: unterminated brace group", start-1)
}

// readQuoted consumes a "..." value; braces protect embedded quotes.
func (p *parser) readQuoted() (string, error) {
	start := p.pos + 1
	depth := 0
	for p.pos++; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				inner := p.src[start:p.pos]
				p.pos++
				return inner, nil
			}
		}
	}
	return "", fmt.Errorf("offset %d: unterminated quoted value", start-1)
}

// skipBalanced consumes input up to the matching close delimiter.
func (p *parser) skipBalanced(open, end byte) error {
	depth := 1
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case open:
			depth++
		case end:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
	}
	return fmt.Errorf("unterminated @ directive")
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) readIdent() string {
	return p.readWhile(func(c byte) bool {
		return c == '_' || c == '-' || c == ':' || c == '.' || c == '+' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	})
}

func (p *parser) readWhile(ok func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.src) && ok(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// nameParticles are lowercase surname prefixes kept with the last name.
var nameParticles = map[string]bool{
	"van": true, "von": true, "der": true, "den": true,
	"de": true, "del": true, "della": true, "da": true,
	"la": true, "le": true, "di": true, "du": true,
}

// SplitNames splits a BibTeX author/editor field into individual names.
// Separators are top-level " and " tokens; each name is either
// "Last, First" or "First ... Last" form.
func SplitNames(field string) []Name {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}

	var names []Name
	for _, part := range splitTopLevel(field, " and ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		names = append(names, parseName(part))
	}
	return names
}

// splitTopLevel splits on sep occurrences outside brace groups.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				parts = append(parts, s[start:i])
				i += len(sep) - 1
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// parseName parses one person name.
//
// Known limitations (matching the source format, not fixing it):
// middle names fold into the first name, and uncommon particles not in
// nameParticles split with the first name.
func parseName(s string) Name {
	// Fully braced names are corporate authors, kept whole.
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return Name{Last: s}
	}
	if i := strings.Index(s, ","); i >= 0 {
		last := strings.TrimSpace(s[:i])
		rest := strings.TrimSpace(s[i+1:])
		// "Last, Jr., First" keeps the suffix with the last name.
		if j := strings.Index(rest, ","); j >= 0 {
			last = last + " " + strings.TrimSpace(rest[:j])
			rest = strings.TrimSpace(rest[j+1:])
		}
		return Name{First: rest, Last: last}
	}

	tokens := strings.Fields(s)
	if len(tokens) == 1 {
		return Name{Last: tokens[0]}
	}
	// Walk back from the final token, absorbing lowercase particles.
	lastStart := len(tokens) - 1
	for lastStart > 0 && nameParticles[strings.ToLower(tokens[lastStart-1])] {
		lastStart--
	}
	return Name{
		First: strings.Join(tokens[:lastStart], " "),
		Last:  strings.Join(tokens[lastStart:], " "),
	}
}
