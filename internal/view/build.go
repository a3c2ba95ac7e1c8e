package view

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"labnotebook/pkg/domain"
)

// PurposeLimit is the number of characters of purpose shown on a card.
const PurposeLimit = 80

// TimestampLayout formats created/updated times on the detail page.
const TimestampLayout = "2006-01-02 15:04:05"

// Env supplies the values a form needs that are not derived from records.
type Env struct {
	// NewID and Today prefill a create form.
	NewID string
	Today string
	// Draft, when set, is shown on the form instead of the stored record.
	Draft *domain.Record
	// FormError is the validation message for Draft.
	FormError string
	Invalid   []string
	// Location is the zone detail timestamps are shown in; nil means UTC.
	Location *time.Location
}

var conditionLabels = map[domain.ConditionKey]string{
	domain.ConditionTemperature: "Temperature",
	domain.ConditionDuration:    "Duration",
	domain.ConditionMedium:      "Medium",
	domain.ConditionInstrument:  "Instrument",
	domain.ConditionOther:       "Other",
}

// Build returns the page for state.
func Build(records []domain.Record, state domain.UIState, env Env) Page {
	switch state.Page {
	case domain.PageDetail:
		r, ok := find(records, state.SelectedID)
		if !ok {
			return notFound(state.SelectedID)
		}
		return Page{Kind: KindDetail, Detail: BuildDetail(r, env.Location)}
	case domain.PageForm:
		if env.Draft != nil {
			editing := state.SelectedID != "" && hasID(records, state.SelectedID)
			return Page{Kind: KindForm, Form: formFrom(*env.Draft, editing, env)}
		}
		if state.SelectedID == "" {
			return Page{Kind: KindForm, Form: NewForm(env.NewID, env.Today)}
		}
		r, ok := find(records, state.SelectedID)
		if !ok {
			return notFound(state.SelectedID)
		}
		return Page{Kind: KindForm, Form: formFrom(r, true, env)}
	default:
		return Page{Kind: KindList, List: BuildList(records, state.Filter)}
	}
}

func find(records []domain.Record, id string) (domain.Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Record{}, false
}

func hasID(records []domain.Record, id string) bool {
	_, ok := find(records, id)
	return ok
}

func notFound(id string) Page {
	return Page{Kind: KindNotFound, NotFound: &NotFound{ID: id, Message: "Record not found"}}
}

// TypeOptions lists the type filter choices with "all" first.
func TypeOptions(selected string, withAll bool) []Option {
	var opts []Option
	if withAll {
		if selected == "" {
			selected = domain.FilterAll
		}
		opts = append(opts, Option{Value: domain.FilterAll, Label: "All types", Selected: selected == domain.FilterAll})
	}
	for _, t := range domain.ExperimentTypes() {
		opts = append(opts, Option{Value: string(t), Label: t.Label(), Selected: selected == string(t)})
	}
	return opts
}

// BuildList filters records and sorts them by date, newest first. Records
// with the same date keep their collection order.
func BuildList(records []domain.Record, filter domain.Filter) *List {
	matched := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date > matched[j].Date })
	cards := make([]Card, 0, len(matched))
	for _, r := range matched {
		cards = append(cards, Card{
			ID:              r.ID,
			Title:           r.Title,
			Badge:           badge(r.Type),
			Date:            r.Date,
			Experimenter:    r.Experimenter,
			Purpose:         Truncate(r.Purpose, PurposeLimit),
			AttachmentCount: len(domain.CompactEntries(r.Attachments)),
		})
	}
	return &List{
		Filter:      filter,
		TypeOptions: TypeOptions(filter.Type, true),
		Cards:       cards,
		Count:       len(cards),
		Total:       len(records),
	}
}

func badge(t domain.ExperimentType) Badge {
	return Badge{Label: t.Label(), Class: t.BadgeClass()}
}

// Truncate shortens s to limit characters followed by "...".
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// BuildDetail renders the full record.
func BuildDetail(r domain.Record, loc *time.Location) *Detail {
	d := &Detail{
		ID:           r.ID,
		Title:        r.Title,
		Badge:        badge(r.Type),
		Date:         r.Date,
		Experimenter: r.Experimenter,
		Steps:        domain.CompactEntries(r.Steps),
		CreatedAt:    formatTimestamp(r.CreatedAt, loc),
		UpdatedAt:    formatTimestamp(r.UpdatedAt, loc),
	}
	for _, s := range []Section{
		{Key: "purpose", Title: "Purpose", Body: r.Purpose},
		{Key: "results", Title: "Results", Body: r.Results},
		{Key: "conclusion", Title: "Conclusion", Body: r.Conclusion},
		{Key: "notes", Title: "Notes", Body: r.Notes},
	} {
		if strings.TrimSpace(s.Body) != "" {
			d.Sections = append(d.Sections, s)
		}
	}
	for _, c := range r.Conditions.Entries() {
		if domain.Displayable(c.Value) {
			d.Conditions = append(d.Conditions, Condition{Key: c.Key, Label: conditionLabels[c.Key], Value: c.Value})
		}
	}
	for _, a := range domain.CompactEntries(r.Attachments) {
		d.Attachments = append(d.Attachments, ClassifyAttachment(a))
	}
	return d
}

func formatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

var absolutePath = regexp.MustCompile(`^[a-zA-Z]:|^[~\\/]`)

// ClassifyAttachment turns path-like entries (drive letter, or a leading
// slash, backslash or tilde) into file URLs. Anything else stays plain text.
func ClassifyAttachment(name string) Attachment {
	if !absolutePath.MatchString(name) {
		return Attachment{Name: name}
	}
	p := strings.TrimLeft(strings.ReplaceAll(name, `\`, "/"), "/")
	u := url.URL{Scheme: "file", Path: "/" + p}
	return Attachment{Name: name, Href: u.String(), Link: true}
}

// NewForm is the blank create form.
func NewForm(id, today string) *Form {
	return &Form{
		ID:          id,
		Date:        today,
		Type:        string(domain.DefaultType),
		TypeOptions: TypeOptions(string(domain.DefaultType), false),
		Conditions:  conditionFields(domain.Conditions{}),
		Steps:       []string{""},
		Attachments: []string{""},
	}
}

func formFrom(r domain.Record, editing bool, env Env) *Form {
	f := &Form{
		Editing:      editing,
		ID:           r.ID,
		Title:        r.Title,
		Date:         r.Date,
		Experimenter: r.Experimenter,
		Type:         string(r.Type),
		TypeOptions:  TypeOptions(string(r.Type), false),
		Purpose:      r.Purpose,
		Conditions:   conditionFields(r.Conditions),
		Steps:        atLeastOne(r.Steps),
		Results:      r.Results,
		Conclusion:   r.Conclusion,
		Notes:        r.Notes,
		Attachments:  atLeastOne(r.Attachments),
	}
	if env.Draft != nil {
		f.Error = env.FormError
		f.Invalid = append([]string(nil), env.Invalid...)
	}
	return f
}

func conditionFields(c domain.Conditions) []Condition {
	entries := c.Entries()
	out := make([]Condition, 0, len(entries))
	for _, e := range entries {
		out = append(out, Condition{Key: e.Key, Label: conditionLabels[e.Key], Value: e.Value})
	}
	return out
}

func atLeastOne(in []string) []string {
	if len(in) == 0 {
		return []string{""}
	}
	return append([]string(nil), in...)
}
