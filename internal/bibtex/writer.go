package bibtex

import (
	"fmt"
	"strings"
)

// Write renders an entry back to BibTeX syntax. Extension fields (names
// starting with '_') are stripped so the exported form carries only
// bibliographic data. Field order from the source file is preserved.
func Write(e *Entry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, e.Key))
	for _, f := range e.Fields {
		if strings.HasPrefix(f.Name, "_") {
			continue
		}
		b.WriteString(fmt.Sprintf("    %s = {%s},\n", f.Name, f.Value))
	}
	b.WriteString("}\n")
	return b.String()
}

// WriteAll renders multiple entries separated by blank lines.
func WriteAll(entries []*Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = Write(e)
	}
	return strings.Join(parts, "\n")
}
