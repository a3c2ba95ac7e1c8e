// Package domain defines the experiment record, its value types, and the
// transient navigation state shared by the notebook's controller and views.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// NotApplicable is the sentinel condition value hidden from the detail view.
const NotApplicable = "N/A"

// DateLayout is the day-precision layout used for Record.Date and date filters.
const DateLayout = "2006-01-02"

// Record is a single laboratory experiment entry. ID is immutable once
// assigned; every other field is replaced wholesale on save.
type Record struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	Experimenter string         `json:"experimenter"`
	Type         ExperimentType `json:"type"`
	Purpose      string         `json:"purpose"`
	Conditions   Conditions     `json:"conditions"`
	Steps        []string       `json:"steps"`
	Results      string         `json:"results"`
	Conclusion   string         `json:"conclusion"`
	Notes        string         `json:"notes"`
	Attachments  []string       `json:"attachments"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Clone returns a deep copy so callers never share step or attachment slices.
func (r Record) Clone() Record {
	cp := r
	if r.Steps != nil {
		cp.Steps = append([]string(nil), r.Steps...)
	}
	if r.Attachments != nil {
		cp.Attachments = append([]string(nil), r.Attachments...)
	}
	return cp
}

// UnmarshalJSON decodes a record tolerantly: missing fields stay zero and
// timestamps written without a zone (as older notebooks did) are read as UTC.
// Unparseable timestamps decode to the zero time instead of failing the load.
func (r *Record) UnmarshalJSON(data []byte) error {
	type recordAlias Record
	aux := struct {
		*recordAlias
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}{recordAlias: (*recordAlias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.CreatedAt = parseTimestamp(aux.CreatedAt)
	r.UpdatedAt = parseTimestamp(aux.UpdatedAt)
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Conditions holds the fixed set of optional experimental conditions. Duration
// and Medium are stored under the "time" and "solvent" keys so notebooks stay
// readable by the browser version.
type Conditions struct {
	Temperature string `json:"temperature"`
	Duration    string `json:"time"`
	Medium      string `json:"solvent"`
	Instrument  string `json:"instrument"`
	Other       string `json:"other"`
}

// UnmarshalJSON also accepts "duration" and "medium" for the time and solvent
// slots.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	var aux struct {
		Temperature string `json:"temperature"`
		Duration    string `json:"duration"`
		Time        string `json:"time"`
		Medium      string `json:"medium"`
		Solvent     string `json:"solvent"`
		Instrument  string `json:"instrument"`
		Other       string `json:"other"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Conditions{
		Temperature: aux.Temperature,
		Duration:    firstNonEmpty(aux.Time, aux.Duration),
		Medium:      firstNonEmpty(aux.Solvent, aux.Medium),
		Instrument:  aux.Instrument,
		Other:       aux.Other,
	}
	return nil
}

// ConditionKey names one of the five condition slots.
type ConditionKey string

// Condition slots in display order.
const (
	ConditionTemperature ConditionKey = "temperature"
	ConditionDuration    ConditionKey = "duration"
	ConditionMedium      ConditionKey = "medium"
	ConditionInstrument  ConditionKey = "instrument"
	ConditionOther       ConditionKey = "other"
)

// ConditionEntry pairs a slot with its value.
type ConditionEntry struct {
	Key   ConditionKey
	Value string
}

// Entries lists all five slots in display order, including empty ones.
func (c Conditions) Entries() []ConditionEntry {
	return []ConditionEntry{
		{Key: ConditionTemperature, Value: c.Temperature},
		{Key: ConditionDuration, Value: c.Duration},
		{Key: ConditionMedium, Value: c.Medium},
		{Key: ConditionInstrument, Value: c.Instrument},
		{Key: ConditionOther, Value: c.Other},
	}
}

// Displayable reports whether a condition value should be shown.
func Displayable(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && v != NotApplicable
}

// CompactEntries drops blank entries and trims the rest.
func CompactEntries(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeSteps compacts steps, keeping a single blank placeholder when
// nothing remains so the edit form always offers one step row.
func NormalizeSteps(in []string) []string {
	out := CompactEntries(in)
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
