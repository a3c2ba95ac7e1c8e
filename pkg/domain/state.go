package domain

// Page identifies which of the three notebook pages is active.
type Page string

// Notebook pages.
const (
	PageList   Page = "list"
	PageDetail Page = "detail"
	PageForm   Page = "form"
)

// FilterAll disables the type filter.
const FilterAll = "all"

// Filter holds the list page criteria. An empty Date means unfiltered.
type Filter struct {
	Type string
	Date string
}

// DefaultFilter matches every record.
func DefaultFilter() Filter { return Filter{Type: FilterAll} }

// Matches reports whether r satisfies both criteria. Type matching is exact
// against the stored value.
func (f Filter) Matches(r Record) bool {
	if f.Type != "" && f.Type != FilterAll && string(r.Type) != f.Type {
		return false
	}
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	return true
}

// UIState is the transient navigation context. It is never persisted.
type UIState struct {
	Page Page
	// SelectedID is the record under view or edit; empty when none.
	SelectedID string
	Filter     Filter
}

// DefaultUIState is the state of a freshly started session.
func DefaultUIState() UIState {
	return UIState{Page: PageList, Filter: DefaultFilter()}
}
