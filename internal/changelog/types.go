package changelog

// Category is a Keep a Changelog section name.
type Category string

// Keep a Changelog categories.
// https://keepachangelog.com/en/1.1.0/
const (
	Added      Category = "Added"
	Changed    Category = "Changed"
	Deprecated Category = "Deprecated"
	Removed    Category = "Removed"
	Fixed      Category = "Fixed"
	Security   Category = "Security"
)

// Categories returns the Keep a Changelog categories in their rendering order.
func Categories() []Category {
	return []Category{Added, Changed, Deprecated, Removed, Fixed, Security}
}

// Commit is a single commit as read from git history.
type Commit struct {
	Hash     string
	Subject  string
	Body     string
	PRNumber string // empty when unknown
}

// Entry is one changelog bullet derived from exactly one commit.
type Entry struct {
	Category Category
	Message  string
	PRNumber string
}

// Entries groups changelog entries by category. Within a category entries
// keep commit order (newest first). Categories without entries are absent.
type Entries map[Category][]Entry

// Count returns the total number of entries across all categories.
func (e Entries) Count() int {
	n := 0
	for _, entries := range e {
		n += len(entries)
	}
	return n
}

// IsEmpty returns true if there are no entries in any category.
func (e Entries) IsEmpty() bool {
	return e.Count() == 0
}

// Ordered returns the non-empty categories in rendering order.
// Map iteration order never leaks into output.
func (e Entries) Ordered() []Category {
	var cats []Category
	for _, cat := range Categories() {
		if len(e[cat]) > 0 {
			cats = append(cats, cat)
		}
	}
	return cats
}
