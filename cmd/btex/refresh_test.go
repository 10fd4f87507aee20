package main

import (
	"testing"

	"github.com/toni-heittola/btex/internal/publication"
)

func TestFilterPublications(t *testing.T) {
	pubs := []publication.Publication{
		{
			Key:     "a",
			Authors: []publication.Author{{First: "Annamaria", Last: "Mesaros"}},
			Venue:   "IEEE Transactions on Audio Processing",
		},
		{
			Key:     "b",
			Authors: []publication.Author{{First: "Toni", Last: "Heittola"}},
			Venue:   "Proceedings of the DCASE Workshop",
		},
		{
			Key:     "c",
			Authors: []publication.Author{{First: "Toni", Last: "Heittola"}, {First: "Annamaria", Last: "Mesaros"}},
			Venue:   "IEEE Transactions on Audio Processing",
		},
	}

	keys := func(got []publication.Publication) string {
		out := ""
		for _, p := range got {
			out += p.Key
		}
		return out
	}

	if got := filterPublications(pubs, "", ""); keys(got) != "abc" {
		t.Errorf("no filters = %s, want abc", keys(got))
	}
	if got := filterPublications(pubs, "mesaros", ""); keys(got) != "ac" {
		t.Errorf("author filter = %s, want ac", keys(got))
	}
	if got := filterPublications(pubs, "", "dcase"); keys(got) != "b" {
		t.Errorf("venue filter = %s, want b", keys(got))
	}
	if got := filterPublications(pubs, "heittola", "ieee"); keys(got) != "c" {
		t.Errorf("combined filters = %s, want c", keys(got))
	}
	if got := filterPublications(pubs, "nobody", ""); keys(got) != "" {
		t.Errorf("non-matching filter = %s, want empty", keys(got))
	}
}
