package bibtex

import (
	"strings"
	"testing"
)

func entryFromSource(t *testing.T, src string) *Entry {
	t.Helper()
	db, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(db.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(db.Entries))
	}
	return &db.Entries[0]
}

func TestFormatEntry_Article(t *testing.T) {
	e := entryFromSource(t, `@article{x,
		author = {Mesaros, Annamaria and Heittola, Toni and Virtanen, Tuomas},
		title = {detection and classification of acoustic scenes},
		journal = {IEEE Transactions on Audio Processing},
		volume = {26},
		number = {2},
		pages = {379--393},
		year = {2018}
	}`)

	got := FormatEntry(e)

	if !strings.Contains(got, "Annamaria Mesaros, Toni Heittola, and Tuomas Virtanen.") {
		t.Errorf("missing serial-comma author sentence:\n%s", got)
	}
	if !strings.Contains(got, "<em>Detection and classification of acoustic scenes</em>.") {
		t.Errorf("title should be capitalized and emphasized:\n%s", got)
	}
	if !strings.Contains(got, "26(2):379–393") {
		t.Errorf("missing volume(number):pages:\n%s", got)
	}
	if !strings.Contains(got, "2018.") {
		t.Errorf("missing year:\n%s", got)
	}
}

func TestFormatEntry_InProceedings(t *testing.T) {
	e := entryFromSource(t, `@inproceedings{x,
		author = {Heittola, Toni},
		title = {Acoustic scene classification},
		booktitle = {Proceedings of the DCASE Workshop},
		pages = {12--15},
		address = {Munich, Germany},
		year = {2017}
	}`)

	got := FormatEntry(e)

	if !strings.Contains(got, "In Proceedings of the DCASE Workshop") {
		t.Errorf("booktitle should be prefixed with In:\n%s", got)
	}
	if !strings.Contains(got, "pp 12–15") {
		t.Errorf("pages should be prefixed with pp:\n%s", got)
	}
	if !strings.Contains(got, "Munich, Germany") {
		t.Errorf("missing address:\n%s", got)
	}
}

func TestFormatEntry_Thesis(t *testing.T) {
	e := entryFromSource(t, `@phdthesis{x,
		author = {Heittola, Toni},
		title = {Computational audio content analysis},
		school = {Tampere University},
		year = {2021}
	}`)

	got := FormatEntry(e)
	if !strings.Contains(got, "PhD thesis, Tampere University") {
		t.Errorf("missing thesis detail:\n%s", got)
	}
}

func TestFormatEntry_StudentProject(t *testing.T) {
	e := entryFromSource(t, `@misc{x,
		author = {Opiskelija, Oona},
		title = {Sound event annotation tool},
		year = {2019},
		_subtype = {studentproject},
		_school = {Tampere University},
		_course = {Audio Signal Processing}
	}`)

	got := FormatEntry(e)
	if !strings.Contains(got, "Tampere University, Audio Signal Processing") {
		t.Errorf("studentproject should cite school and course:\n%s", got)
	}
}

func TestFormatEntry_EscapesHTML(t *testing.T) {
	e := entryFromSource(t, `@article{x,
		author = {Smith, John},
		title = {Signals < noise},
		journal = {J. of Tests},
		year = {2020}
	}`)

	got := FormatEntry(e)
	if !strings.Contains(got, "Signals &lt; noise") {
		t.Errorf("field text must be HTML-escaped:\n%s", got)
	}
}
