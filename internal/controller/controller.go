// Package controller turns user actions into state changes, persistence and
// a freshly built view.
package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"labnotebook/internal/idgen"
	"labnotebook/internal/metrics"
	"labnotebook/internal/store"
	"labnotebook/internal/view"
	"labnotebook/pkg/domain"
)

const maxIDAttempts = 8

// Controller owns the record store. Every action holds the controller lock
// until its view is built, so actions never interleave.
type Controller struct {
	mu      sync.Mutex
	store   *store.Store
	persist Persister
	confirm Confirmer
	notify  Notifier
	newID   idgen.Generator
	now     func() time.Time
	loc     *time.Location
	logger  *slog.Logger
	metrics metrics.Recorder

	// form state that does not belong in domain.UIState
	draft       *domain.Record
	formErr     string
	invalid     []string
	pendingNew  string
	lastNotices []Notice
}

// Option customises a Controller.
type Option func(*Controller)

// WithConfirmer sets the default Confirmer. Without one every delete is
// declined.
func WithConfirmer(c Confirmer) Option { return func(ct *Controller) { ct.confirm = c } }

// WithNotifier sets where notices go. The default logs them.
func WithNotifier(n Notifier) Option { return func(ct *Controller) { ct.notify = n } }

// WithIDGenerator overrides record id generation.
func WithIDGenerator(g idgen.Generator) Option { return func(ct *Controller) { ct.newID = g } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(ct *Controller) { ct.now = now } }

// WithLocation sets the zone detail timestamps are displayed in. The default
// is the local zone.
func WithLocation(loc *time.Location) Option { return func(ct *Controller) { ct.loc = loc } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(ct *Controller) { ct.logger = l } }

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option { return func(ct *Controller) { ct.metrics = m } }

// New builds a controller over persist. Call Start before any action.
func New(persist Persister, opts ...Option) *Controller {
	c := &Controller{
		store:   store.New(),
		persist: persist,
		confirm: Always(false),
		newID:   idgen.Records(),
		now:     time.Now,
		loc:     time.Local,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: metrics.Noop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.notify == nil {
		c.notify = logNotifier{logger: c.logger}
	}
	return c
}

// Start loads the collection and shows the list.
func (c *Controller) Start(ctx context.Context) view.Page {
	return c.run(ctx, "start", func() {
		records := c.persist.Load(ctx)
		if dropped := c.store.Reset(records); len(dropped) > 0 {
			c.logger.WarnContext(ctx, "dropped records with repeated ids", "ids", dropped)
		}
		c.store.SetState(domain.DefaultUIState())
		c.clearForm()
	})
}

// Render rebuilds the current page without changing anything.
func (c *Controller) Render(ctx context.Context) view.Page {
	return c.run(ctx, "render", func() {})
}

// Records returns a copy of the collection.
func (c *Controller) Records() []domain.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Records()
}

// Exists reports whether a record with id is in the collection.
func (c *Controller) Exists(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Contains(id)
}

// State returns the current UI state.
func (c *Controller) State() domain.UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.State()
}

// Notices returns and clears the notices raised by the most recent action.
func (c *Controller) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.lastNotices
	c.lastNotices = nil
	return out
}

// NavigateList shows the list with the current filter.
func (c *Controller) NavigateList(ctx context.Context) view.Page {
	return c.run(ctx, "navigate_list", func() {
		c.clearForm()
		c.store.Navigate(domain.PageList, "")
	})
}

// NavigateDetail shows record id, or the not-found page.
func (c *Controller) NavigateDetail(ctx context.Context, id string) view.Page {
	return c.run(ctx, "navigate_detail", func() {
		c.clearForm()
		c.store.Navigate(domain.PageDetail, id)
	})
}

// NavigateForm opens the edit form for id, or a create form when id is empty.
func (c *Controller) NavigateForm(ctx context.Context, id string) view.Page {
	return c.run(ctx, "navigate_form", func() {
		c.clearForm()
		if id == "" {
			c.pendingNew = c.uniqueID()
		}
		c.store.Navigate(domain.PageForm, id)
	})
}

// CancelForm leaves the form without saving: back to the record when
// editing, to the list when creating.
func (c *Controller) CancelForm(ctx context.Context) view.Page {
	return c.run(ctx, "cancel_form", func() {
		selected := c.store.State().SelectedID
		c.clearForm()
		if selected != "" && c.store.Contains(selected) {
			c.store.Navigate(domain.PageDetail, selected)
			return
		}
		c.store.Navigate(domain.PageList, "")
	})
}

// ChangeFilter applies list criteria and shows the list. Unknown types and
// malformed dates clear the respective criterion.
func (c *Controller) ChangeFilter(ctx context.Context, typ, date string) view.Page {
	return c.run(ctx, "change_filter", func() {
		f := domain.Filter{Type: typ, Date: date}
		if f.Type != domain.FilterAll && !domain.ExperimentType(f.Type).Valid() {
			f.Type = domain.FilterAll
		}
		if f.Date != "" && !domain.ValidDate(f.Date) {
			f.Date = ""
		}
		c.clearForm()
		c.store.SetFilter(f)
		c.store.Navigate(domain.PageList, "")
	})
}

// AddRow re-shows the form with the entered values plus one blank row.
// Nothing is saved.
func (c *Controller) AddRow(ctx context.Context, p FormPayload, row Row) view.Page {
	return c.run(ctx, "add_row", func() {
		d := p.draft()
		switch row {
		case RowAttachment:
			d.Attachments = append(d.Attachments, "")
		default:
			d.Steps = append(d.Steps, "")
		}
		c.showDraft(d, "", nil)
	})
}

// RemoveRow re-shows the form without the row at index. An index out of range
// leaves the rows as entered; the form always keeps one row of each kind.
// Nothing is saved.
func (c *Controller) RemoveRow(ctx context.Context, p FormPayload, row Row, index int) view.Page {
	return c.run(ctx, "remove_row", func() {
		d := p.draft()
		switch row {
		case RowAttachment:
			d.Attachments = without(d.Attachments, index)
		default:
			d.Steps = without(d.Steps, index)
		}
		c.showDraft(d, "", nil)
	})
}

// Submit validates p and creates or updates the record. A validation failure
// keeps the form with the entered data and returns *ValidationError. A save
// failure does not fail the action: the record stays in memory and a warning
// notice is raised.
func (c *Controller) Submit(ctx context.Context, p FormPayload) (view.Page, error) {
	var verr *ValidationError
	page := c.run(ctx, "submit", func() {
		p = p.trimmed()
		if p.ID == "" {
			p.ID = c.uniqueID()
		}
		if verr = p.validate(); verr != nil {
			c.showDraft(p.draft(), verr.Message(), verr.Fields)
			return
		}
		c.commit(ctx, p)
	})
	if verr != nil {
		return page, verr
	}
	return page, nil
}

func (c *Controller) commit(ctx context.Context, p FormPayload) {
	now := c.now().UTC()
	rec := domain.Record{
		ID:           p.ID,
		Title:        p.Title,
		Date:         p.Date,
		Experimenter: p.Experimenter,
		Type:         domain.ExperimentType(p.Type),
		Purpose:      p.Purpose,
		Conditions:   p.Conditions,
		Steps:        domain.NormalizeSteps(p.Steps),
		Results:      p.Results,
		Conclusion:   p.Conclusion,
		Notes:        p.Notes,
		Attachments:  domain.CompactEntries(p.Attachments),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	message := "Record created"
	if prev, ok := c.store.Get(rec.ID); ok {
		message = "Record updated"
		rec.CreatedAt = prev.CreatedAt
		if rec.UpdatedAt.Before(prev.UpdatedAt) {
			rec.UpdatedAt = prev.UpdatedAt
		}
		if err := c.store.Replace(rec); err != nil {
			c.raise(ctx, Notice{Level: LevelError, Message: err.Error()})
			return
		}
	} else if err := c.store.Insert(rec); err != nil {
		c.raise(ctx, Notice{Level: LevelError, Message: err.Error()})
		return
	}
	c.clearForm()
	c.store.Navigate(domain.PageDetail, rec.ID)
	if !c.save(ctx) {
		return
	}
	c.raise(ctx, Notice{Level: LevelInfo, Message: message})
}

// Delete removes record id after the user confirms. A declined prompt leaves
// everything unchanged; an unknown id shows the not-found page.
func (c *Controller) Delete(ctx context.Context, id string) view.Page {
	return c.run(ctx, "delete", func() {
		rec, ok := c.store.Get(id)
		if !ok {
			c.clearForm()
			c.store.Navigate(domain.PageDetail, id)
			return
		}
		prompt := fmt.Sprintf("Delete experiment %s (%s)? This cannot be undone.", rec.ID, rec.Title)
		if !confirmerFrom(ctx, c.confirm).Confirm(ctx, prompt) {
			c.logger.DebugContext(ctx, "delete declined", "id", id)
			return
		}
		if _, err := c.store.Remove(id); err != nil {
			c.raise(ctx, Notice{Level: LevelError, Message: err.Error()})
			return
		}
		c.clearForm()
		c.store.Navigate(domain.PageList, "")
		if c.save(ctx) {
			c.raise(ctx, Notice{Level: LevelInfo, Message: "Record deleted"})
		}
	})
}

func (c *Controller) run(ctx context.Context, action string, fn func()) view.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := time.Now()
	c.lastNotices = nil
	fn()
	page := c.build()
	c.metrics.Observe(ctx, "action_"+action, page.Kind != view.KindNotFound, time.Since(start))
	c.logger.DebugContext(ctx, "action", "name", action, "page", string(page.Kind), "records", c.store.Len())
	return page
}

func (c *Controller) build() view.Page {
	env := view.Env{
		NewID:     c.pendingNew,
		Today:     c.now().Format(domain.DateLayout),
		Draft:     c.draft,
		FormError: c.formErr,
		Invalid:   c.invalid,
		Location:  c.loc,
	}
	return view.Build(c.store.Records(), c.store.State(), env)
}

func (c *Controller) save(ctx context.Context) bool {
	if err := c.persist.Save(ctx, c.store.Records()); err != nil {
		c.raise(ctx, Notice{
			Level:   LevelWarning,
			Message: "Changes are kept for this session but could not be saved: " + err.Error(),
		})
		return false
	}
	return true
}

func (c *Controller) raise(ctx context.Context, n Notice) {
	c.lastNotices = append(c.lastNotices, n)
	c.notify.Notify(ctx, n)
}

func (c *Controller) showDraft(d domain.Record, message string, invalid []string) {
	selected := ""
	if c.store.Contains(d.ID) {
		selected = d.ID
	}
	c.draft = &d
	c.formErr = message
	c.invalid = invalid
	c.store.Navigate(domain.PageForm, selected)
}

func (c *Controller) clearForm() {
	c.draft = nil
	c.formErr = ""
	c.invalid = nil
	c.pendingNew = ""
}

// uniqueID draws ids until one is not in the store. Generators that keep
// colliding get a numeric suffix.
func (c *Controller) uniqueID() string {
	var id string
	for i := 0; i < maxIDAttempts; i++ {
		id = c.newID()
		if !c.store.Contains(id) {
			return id
		}
	}
	base := id
	for n := 2; ; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
		if !c.store.Contains(id) {
			return id
		}
	}
}

func without(rows []string, index int) []string {
	if index < 0 || index >= len(rows) {
		return rows
	}
	return append(rows[:index:index], rows[index+1:]...)
}
