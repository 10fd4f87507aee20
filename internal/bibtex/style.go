package bibtex

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatEntry renders an entry into an HTML citation string, one sentence
// per bibliographic unit: authors, emphasized title, then venue details
// chosen by entry type. Extension fields never appear in the output, with
// the studentproject exception below.
func FormatEntry(e *Entry) string {
	switch e.Type {
	case "article":
		return formatArticle(e)
	case "book":
		return formatBook(e)
	case "inbook", "incollection":
		return formatInCollection(e)
	case "conference", "inproceedings", "proceedings", "workshop", "symposium":
		return formatInProceedings(e)
	case "patent":
		return formatPatent(e)
	case "mastersthesis":
		return formatThesis(e, "Master's thesis")
	case "phdthesis":
		return formatThesis(e, "PhD thesis")
	case "techreport":
		return formatTechReport(e)
	default:
		return formatMisc(e)
	}
}

func formatArticle(e *Entry) string {
	volumeAndPages := ""
	volume := cleanField(e, "volume")
	pages := Dashify(cleanField(e, "pages"))
	if volume != "" {
		volumeAndPages = volume
		if number := cleanField(e, "number"); number != "" {
			volumeAndPages += "(" + number + ")"
		}
		if pages != "" {
			volumeAndPages += ":" + pages
		}
	} else if pages != "" {
		volumeAndPages = "pp " + pages
	}

	return sentences(
		namesText(e.Authors),
		titleText(e),
		sentence(cleanField(e, "journal"), volumeAndPages, dateText(e)),
		cleanField(e, "note"),
	)
}

func formatBook(e *Entry) string {
	authors := namesText(e.Authors)
	if authors != "" {
		authors += " (Eds.)"
	}
	out := sentences(
		authors,
		titleText(e),
		dateText(e),
	)
	if isbn := cleanField(e, "isbn"); isbn != "" {
		out += " ISBN: " + isbn + "."
	}
	return out
}

func formatInCollection(e *Entry) string {
	detail := sentence(
		cleanField(e, "booktitle"),
		cleanField(e, "series"),
		pagesText(e),
		dateText(e),
	)
	return sentences(namesText(e.Authors), titleText(e), detail)
}

func formatInProceedings(e *Entry) string {
	detail := sentence(
		namesText(e.Editors),
		cleanField(e, "booktitle"),
		cleanField(e, "volume"),
		cleanField(e, "series"),
		pagesText(e),
		cleanField(e, "address"),
		cleanField(e, "organization"),
		cleanField(e, "publisher"),
		dateText(e),
	)
	if detail != "" {
		detail = "In " + detail
	}
	return sentences(namesText(e.Authors), titleText(e), detail, cleanField(e, "note"))
}

func formatPatent(e *Entry) string {
	number := cleanField(e, "number")
	if number != "" {
		number = "<em>" + number + "</em>"
	}
	return sentences(
		namesText(e.Authors),
		titleText(e),
		sentence(number, dateText(e)),
	)
}

func formatThesis(e *Entry, kind string) string {
	return sentences(
		namesText(e.Authors),
		titleText(e),
		sentence(kind, cleanField(e, "school"), cleanField(e, "address"), dateText(e)),
		cleanField(e, "note"),
	)
}

func formatTechReport(e *Entry) string {
	report := "Technical report"
	if number := cleanField(e, "number"); number != "" {
		report += " " + number
	}
	return sentences(
		namesText(e.Authors),
		titleText(e),
		sentence(report, cleanField(e, "institution"), dateText(e)),
		cleanField(e, "note"),
	)
}

func formatMisc(e *Entry) string {
	var detail string
	if e.Get("_subtype") == "studentproject" {
		detail = sentence(cleanField(e, "_school"), cleanField(e, "_course"), dateText(e))
	} else {
		detail = dateText(e)
	}
	return sentences(namesText(e.Authors), titleText(e), detail, cleanField(e, "note"))
}

// namesText joins person names for display: two names with "and", three
// or more with an Oxford comma before the final one.
func namesText(names []Name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		full := n.Last
		if n.First != "" {
			full = n.First + " " + n.Last
		}
		parts[i] = html.EscapeString(CleanText(full))
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

// titleText renders the emphasized title with its first letter
// capitalized. Braces are stripped rather than used to protect case, so
// acronyms keep the casing they were written with.
func titleText(e *Entry) string {
	title := cleanField(e, "title")
	if title == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(title)
	title = string(unicode.ToUpper(r)) + title[size:]
	return "<em>" + title + "</em>"
}

func pagesText(e *Entry) string {
	if pages := Dashify(cleanField(e, "pages")); pages != "" {
		return "pp " + pages
	}
	return ""
}

func dateText(e *Entry) string {
	return strings.TrimSpace(cleanField(e, "month") + " " + cleanField(e, "year"))
}

func cleanField(e *Entry, name string) string {
	v := e.Get(name)
	if v == "" {
		return ""
	}
	return html.EscapeString(CleanText(v))
}

// sentence joins comma-separated details into one sentence body.
func sentence(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// sentences joins sentence bodies, terminating each with a period.
func sentences(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p)
		if !strings.HasSuffix(p, ".") {
			b.WriteString(".")
		}
	}
	return b.String()
}
