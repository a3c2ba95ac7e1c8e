// Package view maps records and UI state onto a typed page model. The model
// carries raw text; escaping belongs to the renderer.
package view

import "labnotebook/pkg/domain"

// Kind selects which member of Page is populated.
type Kind string

// Page kinds.
const (
	KindList     Kind = "list"
	KindDetail   Kind = "detail"
	KindForm     Kind = "form"
	KindNotFound Kind = "not_found"
)

// Page is the complete model for one screen. Exactly one of List, Detail,
// Form or NotFound is non-nil, matching Kind.
type Page struct {
	Kind     Kind
	List     *List
	Detail   *Detail
	Form     *Form
	NotFound *NotFound
}

// Badge is the visual type marker.
type Badge struct {
	Label string
	Class string
}

// Option is one entry of a select control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Card summarises a record on the list page.
type Card struct {
	ID              string
	Title           string
	Badge           Badge
	Date            string
	Experimenter    string
	Purpose         string
	AttachmentCount int
}

// List is the filtered, date-sorted overview.
type List struct {
	Filter      domain.Filter
	TypeOptions []Option
	Cards       []Card
	// Count is the number of records matching Filter; Total ignores it.
	Count int
	Total int
}

// Empty reports whether no record matched.
func (l *List) Empty() bool { return len(l.Cards) == 0 }

// Condition is a labelled condition value.
type Condition struct {
	Key   domain.ConditionKey
	Label string
	Value string
}

// Section is a titled free-text block of the detail page.
type Section struct {
	Key   string
	Title string
	Body  string
}

// Attachment is a stored path. Href is set only when Link is true.
type Attachment struct {
	Name string
	Href string
	Link bool
}

// Detail is the full record page.
type Detail struct {
	ID           string
	Title        string
	Badge        Badge
	Date         string
	Experimenter string
	Sections     []Section
	Conditions   []Condition
	Steps        []string
	Attachments  []Attachment
	CreatedAt    string
	UpdatedAt    string
}

// Form is the create/edit page.
type Form struct {
	// Editing is true when ID belongs to an existing record.
	Editing      bool
	ID           string
	Title        string
	Date         string
	Experimenter string
	Type         string
	TypeOptions  []Option
	Purpose      string
	Conditions   []Condition
	Steps        []string
	Results      string
	Conclusion   string
	Notes        string
	Attachments  []string
	Error        string
	Invalid      []string
}

// IsInvalid reports whether field failed validation.
func (f *Form) IsInvalid(field string) bool {
	for _, v := range f.Invalid {
		if v == field {
			return true
		}
	}
	return false
}

// NotFound replaces detail or form when the selected record is missing.
type NotFound struct {
	ID      string
	Message string
}
