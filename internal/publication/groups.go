package publication

// TypeGroup maps a set of raw BibTeX entry types to display metadata.
// Groups are matched in table order; the first group whose EntryTypes set
// contains the raw type wins.
type TypeGroup struct {
	ID         int      `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Label      string   `yaml:"label" json:"label"`
	LabelShort string   `yaml:"label_short" json:"label_short"`
	CSS        string   `yaml:"css" json:"css"`
	EntryTypes []string `yaml:"entry_types" json:"entry_types"`
}

// DefaultCSS is the label class applied to entries matching no group.
const DefaultCSS = "label label-default"

// DefaultGroups returns the built-in publication grouping table.
func DefaultGroups() []TypeGroup {
	return []TypeGroup{
		{ID: 0, Name: "Books", Label: "Book", LabelShort: "Book", CSS: "label label-primary", EntryTypes: []string{"book"}},
		{ID: 1, Name: "Phd thesis", Label: "Phd", LabelShort: "Phd", CSS: "label label-primary", EntryTypes: []string{"phdthesis"}},
		{ID: 2, Name: "Journal articles", Label: "Journal", LabelShort: "Journal", CSS: "label label-success", EntryTypes: []string{"article"}},
		{ID: 3, Name: "Book chapters", Label: "Chapter", LabelShort: "Chapter", CSS: "label label-success", EntryTypes: []string{"inbook", "incollection"}},
		{ID: 4, Name: "Conference papers", Label: "Conference", LabelShort: "Conf", CSS: "label label-info", EntryTypes: []string{"conference", "inproceedings", "proceedings", "workshop", "symposium"}},
		{ID: 5, Name: "Patents", Label: "Patent", LabelShort: "Patent", CSS: "label label-danger", EntryTypes: []string{"patent"}},
		{ID: 6, Name: "Master thesis", Label: "Thesis", LabelShort: "Thesis", CSS: "label label-warning", EntryTypes: []string{"mastersthesis"}},
		{ID: 7, Name: "Other publications", Label: "Other", LabelShort: "Other", CSS: "label label-default", EntryTypes: []string{"techreport", "manual", "unpublished"}},
		{ID: 8, Name: "Projects", Label: "Project", LabelShort: "Project", CSS: "label label-info", EntryTypes: []string{"studentproject"}},
	}
}

// Classify resolves a raw entry type against the grouping table and fills
// the derived display fields on the publication. An entry matching no group
// keeps its raw type as label and short label with the default CSS class.
func Classify(p *Publication, groups []TypeGroup) {
	p.TypeLabel = p.EntryType
	p.TypeLabelShort = p.EntryType
	p.TypeCSS = DefaultCSS
	p.TypeGroupID = -1
	p.TypeGroupName = ""

	for _, g := range groups {
		for _, t := range g.EntryTypes {
			if t == p.EntryType {
				p.TypeLabel = g.Label
				p.TypeLabelShort = g.LabelShort
				p.TypeCSS = g.CSS
				p.TypeGroupID = g.ID
				p.TypeGroupName = g.Name
				return
			}
		}
	}
}
