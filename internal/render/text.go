package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"labnotebook/internal/view"
)

// Text renders pages for a terminal. Values are written verbatim.
type Text struct{}

// Render writes page to w.
func (Text) Render(w io.Writer, page view.Page) error {
	var err error
	switch page.Kind {
	case view.KindList:
		err = textList(w, page.List)
	case view.KindDetail:
		err = textDetail(w, page.Detail)
	case view.KindForm:
		err = textForm(w, page.Form)
	default:
		_, err = fmt.Fprintf(w, "%s: %s\n", page.NotFound.Message, page.NotFound.ID)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", page.Kind, err)
	}
	return nil
}

func textList(w io.Writer, l *view.List) error {
	if l.Empty() {
		_, err := fmt.Fprintln(w, "No experiments match the current filters.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tTITLE\tEXPERIMENTER\tFILES")
	for _, c := range l.Cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", c.ID, c.Date, c.Badge.Label, oneLine(c.Title), oneLine(c.Experimenter), c.AttachmentCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d experiments\n", l.Count, l.Total)
	return err
}

func textDetail(w io.Writer, d *view.Detail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  [%s]\n%s | %s | %s\n", d.Title, d.Badge.Label, d.ID, d.Date, d.Experimenter)
	for _, s := range d.Sections {
		if s.Key == "purpose" {
			fmt.Fprintf(&b, "\n%s\n  %s\n", s.Title, indent(s.Body))
		}
	}
	if len(d.Conditions) > 0 {
		b.WriteString("\nConditions\n")
		for _, c := range d.Conditions {
			fmt.Fprintf(&b, "  %s: %s\n", c.Label, c.Value)
		}
	}
	if len(d.Steps) > 0 {
		b.WriteString("\nProcedure\n")
		for i, s := range d.Steps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
		}
	}
	for _, s := range d.Sections {
		if s.Key != "purpose" {
			fmt.Fprintf(&b, "\n%s\n  %s\n", s.Title, indent(s.Body))
		}
	}
	if len(d.Attachments) > 0 {
		b.WriteString("\nAttachments\n")
		for _, a := range d.Attachments {
			if a.Link {
				fmt.Fprintf(&b, "  %s <%s>\n", a.Name, a.Href)
			} else {
				fmt.Fprintf(&b, "  %s\n", a.Name)
			}
		}
	}
	fmt.Fprintf(&b, "\nCreated: %s | Updated: %s\n", d.CreatedAt, d.UpdatedAt)
	_, err := io.WriteString(w, b.String())
	return err
}

func textForm(w io.Writer, f *view.Form) error {
	mode := "New experiment"
	if f.Editing {
		mode = "Edit experiment"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", mode, f.ID)
	if f.Error != "" {
		fmt.Fprintf(&b, "! %s\n", f.Error)
	}
	fmt.Fprintf(&b, "  title: %s\n  date: %s\n  experimenter: %s\n  type: %s\n", f.Title, f.Date, f.Experimenter, f.Type)
	_, err := io.WriteString(w, b.String())
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
