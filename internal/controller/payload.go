package controller

import (
	"fmt"
	"strings"

	"labnotebook/pkg/domain"
)

// FormPayload is the raw content of a submitted form.
type FormPayload struct {
	ID           string
	Title        string
	Date         string
	Experimenter string
	Type         string
	Purpose      string
	Conditions   domain.Conditions
	Steps        []string
	Results      string
	Conclusion   string
	Notes        string
	Attachments  []string
}

// Row names a repeatable form row.
type Row string

// Repeatable rows.
const (
	RowStep       Row = "step"
	RowAttachment Row = "attachment"
)

// ValidationError lists the fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// Message is the user-facing text shown on the form.
func (e *ValidationError) Message() string {
	return fmt.Sprintf("Please complete the required fields: %s.", strings.Join(e.Fields, ", "))
}

func (p FormPayload) trimmed() FormPayload {
	t := strings.TrimSpace
	return FormPayload{
		ID:           t(p.ID),
		Title:        t(p.Title),
		Date:         t(p.Date),
		Experimenter: t(p.Experimenter),
		Type:         t(p.Type),
		Purpose:      t(p.Purpose),
		Conditions: domain.Conditions{
			Temperature: t(p.Conditions.Temperature),
			Duration:    t(p.Conditions.Duration),
			Medium:      t(p.Conditions.Medium),
			Instrument:  t(p.Conditions.Instrument),
			Other:       t(p.Conditions.Other),
		},
		Steps:       trimAll(p.Steps),
		Results:     t(p.Results),
		Conclusion:  t(p.Conclusion),
		Notes:       t(p.Notes),
		Attachments: trimAll(p.Attachments),
	}
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func (p FormPayload) validate() *ValidationError {
	var fields []string
	if p.Title == "" {
		fields = append(fields, "title")
	}
	if !domain.ValidDate(p.Date) {
		fields = append(fields, "date")
	}
	if p.Experimenter == "" {
		fields = append(fields, "experimenter")
	}
	if !domain.ExperimentType(p.Type).Valid() {
		fields = append(fields, "type")
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// draft carries the entered values back to the form unchanged in shape.
func (p FormPayload) draft() domain.Record {
	return domain.Record{
		ID:           p.ID,
		Title:        p.Title,
		Date:         p.Date,
		Experimenter: p.Experimenter,
		Type:         domain.ExperimentType(p.Type),
		Purpose:      p.Purpose,
		Conditions:   p.Conditions,
		Steps:        append([]string(nil), p.Steps...),
		Results:      p.Results,
		Conclusion:   p.Conclusion,
		Notes:        p.Notes,
		Attachments:  append([]string(nil), p.Attachments...),
	}
}
