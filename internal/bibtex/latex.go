package bibtex

import "strings"

// accentReplacer maps common LaTeX escape sequences to their plain-text
// form. Best effort: unknown sequences pass through unchanged.
var accentReplacer = strings.NewReplacer(
	`\"a`, "ä", `\"o`, "ö", `\"u`, "ü",
	`\"A`, "Ä", `\"O`, "Ö", `\"U`, "Ü",
	`\'a`, "á", `\'e`, "é", `\'i`, "í", `\'o`, "ó", `\'u`, "ú",
	`\'A`, "Á", `\'E`, "É", `\'I`, "Í", `\'O`, "Ó", `\'U`, "Ú",
	"\\`a", "à", "\\`e", "è", "\\`i", "ì", "\\`o", "ò", "\\`u", "ù",
	`\^a`, "â", `\^e`, "ê", `\^i`, "î", `\^o`, "ô", `\^u`, "û",
	`\~n`, "ñ", `\~N`, "Ñ", `\~a`, "ã", `\~o`, "õ",
	`\c c`, "ç", `\c{c}`, "ç",
	`\aa`, "å", `\AA`, "Å", `\ae`, "æ", `\AE`, "Æ",
	`\o`, "ø", `\O`, "Ø", `\ss`, "ß",
	`\&`, "&", `\%`, "%", `\$`, "$", `\#`, "#", `\_`, "_",
	"``", "“", "''", "”",
	`~`, " ",
	`---`, "—", `--`, "–",
)

// CleanText converts a BibTeX field value to plain display text: LaTeX
// escapes are decoded and protective braces removed. Best effort; input
// that decodes to nothing meaningful is returned brace-stripped only.
func CleanText(s string) string {
	s = accentReplacer.Replace(s)
	return StripBraces(s)
}

// StripBraces removes all brace characters from a field value.
func StripBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "")
	return strings.ReplaceAll(s, "}", "")
}

// Dashify replaces hyphen runs in a page range with an HTML en dash.
func Dashify(pages string) string {
	var b strings.Builder
	run := false
	for _, r := range pages {
		if r == '-' {
			run = true
			continue
		}
		if run {
			b.WriteString("&ndash;")
			run = false
		}
		b.WriteRune(r)
	}
	if run {
		b.WriteString("&ndash;")
	}
	return b.String()
}
