// Package render turns view pages into HTML or plain text.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"labnotebook/internal/view"
)

//go:embed templates/*
var templateFS embed.FS

// Notice is a one-shot message shown above the page.
type Notice struct {
	Level   string
	Message string
}

// ConfirmPrompt asks the user to confirm deleting ID.
type ConfirmPrompt struct {
	ID     string
	Prompt string
}

// Document is everything the HTML layout needs for one response.
type Document struct {
	Page    view.Page
	Notices []Notice
	Confirm *ConfirmPrompt
}

// Title derives the browser title from the page.
func (d Document) Title() string {
	switch {
	case d.Confirm != nil:
		return "Confirm delete"
	case d.Page.Kind == view.KindDetail && d.Page.Detail != nil:
		return d.Page.Detail.Title
	case d.Page.Kind == view.KindForm && d.Page.Form != nil && d.Page.Form.Editing:
		return "Edit experiment"
	case d.Page.Kind == view.KindForm:
		return "New experiment"
	case d.Page.Kind == view.KindNotFound:
		return "Not found"
	default:
		return "Experiments"
	}
}

// HTML renders documents through html/template, which escapes every value
// by context.
type HTML struct {
	tmpl *template.Template
}

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	tmpl, err := template.New("labnotebook").Funcs(template.FuncMap{
		// Hrefs are built by view.ClassifyAttachment from url.URL, so only the
		// file scheme reaches here.
		"fileURL": func(href string) template.URL { return template.URL(href) }, //nolint:gosec
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &HTML{tmpl: tmpl}, nil
}

// Render writes doc to w.
func (h *HTML) Render(w io.Writer, doc Document) error {
	if err := h.tmpl.ExecuteTemplate(w, "page", doc); err != nil {
		return fmt.Errorf("render %s: %w", doc.Page.Kind, err)
	}
	return nil
}
