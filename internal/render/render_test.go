package render

import (
	"bytes"
	"strings"
	"testing"

	"labnotebook/internal/view"
	"labnotebook/pkg/domain"
)

const payload = `<script>alert("x")</script>`

func hostile() domain.Record {
	return domain.Record{
		ID: "EXP-1", Title: payload, Date: "2024-01-01", Experimenter: payload, Type: domain.TypeOther,
		Purpose: payload, Results: payload,
		Conditions:  domain.Conditions{Temperature: payload},
		Steps:       []string{payload},
		Attachments: []string{payload, `/tmp/"><script>x</script>`},
	}
}

func renderHTML(t *testing.T, doc Document) string {
	t.Helper()
	h, err := NewHTML()
	if err != nil {
		t.Fatalf("new html: %v", err)
	}
	var buf bytes.Buffer
	if err := h.Render(&buf, doc); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestHTMLEscapesUserText(t *testing.T) {
	r := hostile()
	records := []domain.Record{r}
	pages := map[string]view.Page{
		"list":   view.Build(records, domain.DefaultUIState(), view.Env{}),
		"detail": view.Build(records, domain.UIState{Page: domain.PageDetail, SelectedID: r.ID}, view.Env{}),
		"form":   view.Build(records, domain.UIState{Page: domain.PageForm, SelectedID: r.ID}, view.Env{}),
	}
	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			out := renderHTML(t, Document{Page: page, Notices: []Notice{{Level: "info", Message: payload}}})
			if strings.Contains(out, "<script>") {
				t.Fatalf("raw script tag in %s output:\n%s", name, out)
			}
			if !strings.Contains(out, "&lt;script&gt;") {
				t.Fatalf("expected escaped payload in %s output", name)
			}
		})
	}
}

func TestHTMLAttachmentLinks(t *testing.T) {
	r := domain.Record{ID: "EXP-1", Title: "t", Type: domain.TypeTesting,
		Attachments: []string{`D:\data\a.png`, "notes.txt"}}
	out := renderHTML(t, Document{Page: view.Build([]domain.Record{r},
		domain.UIState{Page: domain.PageDetail, SelectedID: r.ID}, view.Env{})})
	if !strings.Contains(out, `href="file:///D:/data/a.png"`) {
		t.Fatalf("missing file link:\n%s", out)
	}
	if strings.Contains(out, `href="notes.txt"`) || strings.Contains(out, "ZgotmplZ") {
		t.Fatalf("relative attachment must not be a link:\n%s", out)
	}
}

func TestHTMLPagesRender(t *testing.T) {
	empty := renderHTML(t, Document{Page: view.Build(nil, domain.DefaultUIState(), view.Env{})})
	if !strings.Contains(empty, "No experiments match") || !strings.Contains(empty, "<title>Experiments") {
		t.Fatalf("empty list placeholder missing")
	}
	nf := renderHTML(t, Document{Page: view.Build(nil, domain.UIState{Page: domain.PageDetail, SelectedID: "gone"}, view.Env{})})
	if !strings.Contains(nf, "Record not found") {
		t.Fatalf("not found page missing")
	}
	form := renderHTML(t, Document{Page: view.Build(nil, domain.UIState{Page: domain.PageForm}, view.Env{NewID: "EXP-9", Today: "2024-03-01"})})
	if !strings.Contains(form, `name="id" value="EXP-9"`) || !strings.Contains(form, "New experiment") {
		t.Fatalf("create form incomplete")
	}
	confirm := renderHTML(t, Document{Confirm: &ConfirmPrompt{ID: "EXP-1", Prompt: "Delete EXP-1?"}})
	if !strings.Contains(confirm, `action="/records/EXP-1/delete"`) || !strings.Contains(confirm, `value="yes"`) {
		t.Fatalf("confirm prompt incomplete:\n%s", confirm)
	}
}

func TestTextRenderer(t *testing.T) {
	records := []domain.Record{
		{ID: "EXP-1", Title: "First", Date: "2024-01-01", Experimenter: "A", Type: domain.TypeSynthesis},
		{ID: "EXP-2", Title: "Second", Date: "2024-02-01", Experimenter: "B", Type: "odd",
			Conditions: domain.Conditions{Medium: "water"}, Steps: []string{"mix"}, Attachments: []string{"/x.csv"}},
	}
	var buf bytes.Buffer
	if err := (Text{}).Render(&buf, view.Build(records, domain.DefaultUIState(), view.Env{})); err != nil {
		t.Fatalf("render list: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "EXP-2") > strings.Index(out, "EXP-1") || !strings.Contains(out, "2 of 2 experiments") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	buf.Reset()
	if err := (Text{}).Render(&buf, view.Build(records, domain.UIState{Page: domain.PageDetail, SelectedID: "EXP-2"}, view.Env{})); err != nil {
		t.Fatalf("render detail: %v", err)
	}
	out = buf.String()
	for _, want := range []string{"[Other]", "Medium: water", "1. mix", "<file:///x.csv>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail output missing %q:\n%s", want, out)
		}
	}
	buf.Reset()
	_ = (Text{}).Render(&buf, view.Build(records, domain.UIState{Page: domain.PageDetail, SelectedID: "nope"}, view.Env{}))
	if !strings.Contains(buf.String(), "Record not found: nope") {
		t.Fatalf("not found output: %q", buf.String())
	}
}
