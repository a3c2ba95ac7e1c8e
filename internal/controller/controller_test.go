package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"labnotebook/internal/idgen"
	"labnotebook/internal/infra/kv/memory"
	"labnotebook/internal/metrics"
	"labnotebook/internal/persistence"
	"labnotebook/internal/view"
	"labnotebook/pkg/domain"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type harness struct {
	ctl     *Controller
	kv      *memory.Store
	clock   *clock
	notices []Notice
	prompts []string
}

func newHarness(t *testing.T, initial string, opts ...Option) *harness {
	t.Helper()
	kv := memory.New()
	if initial != "" {
		if err := kv.Set(context.Background(), persistence.DefaultKey, []byte(initial)); err != nil {
			t.Fatalf("prime store: %v", err)
		}
	}
	h := &harness{kv: kv, clock: &clock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}}
	base := []Option{
		WithClock(h.clock.now),
		WithIDGenerator(idgen.Sequence("EXP-new-1", "EXP-new-2", "EXP-new-3")),
		WithNotifier(NotifierFunc(func(_ context.Context, n Notice) { h.notices = append(h.notices, n) })),
		WithConfirmer(ConfirmerFunc(func(_ context.Context, prompt string) bool {
			h.prompts = append(h.prompts, prompt)
			return false
		})),
	}
	h.ctl = New(persistence.New(kv), append(base, opts...)...)
	h.ctl.Start(context.Background())
	return h
}

func (h *harness) stored(t *testing.T) []domain.Record {
	t.Helper()
	raw, ok, err := h.kv.Get(context.Background(), persistence.DefaultKey)
	if err != nil || !ok {
		t.Fatalf("read blob: ok=%v err=%v", ok, err)
	}
	var out []domain.Record
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode blob: %v", err)
	}
	return out
}

func validPayload(id string) FormPayload {
	return FormPayload{
		ID:           id,
		Title:        "  Spin coating ",
		Date:         "2024-03-01",
		Experimenter: "Ada",
		Type:         "testing",
		Purpose:      "check films",
		Conditions:   domain.Conditions{Temperature: " 25C "},
		Steps:        []string{"", "step A", "  "},
		Attachments:  []string{" ", `D:\data\film.png`},
	}
}

func TestCreateScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "[]")
	form := h.ctl.NavigateForm(ctx, "")
	if form.Kind != view.KindForm || form.Form.ID != "EXP-new-1" || form.Form.Date != "2024-03-01" || form.Form.Editing {
		t.Fatalf("unexpected create form %+v", form.Form)
	}
	page, err := h.ctl.Submit(ctx, validPayload(form.Form.ID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if page.Kind != view.KindDetail || page.Detail.ID != "EXP-new-1" || page.Detail.Title != "Spin coating" {
		t.Fatalf("expected detail of new record, got %+v", page)
	}
	stored := h.stored(t)
	if len(stored) != 1 {
		t.Fatalf("expected one stored record, got %d", len(stored))
	}
	r := stored[0]
	if !reflect.DeepEqual(r.Steps, []string{"step A"}) || !reflect.DeepEqual(r.Attachments, []string{`D:\data\film.png`}) {
		t.Fatalf("blank rows not filtered: %q %q", r.Steps, r.Attachments)
	}
	if r.Conditions.Temperature != "25C" || !r.CreatedAt.Equal(h.clock.t) || !r.UpdatedAt.Equal(h.clock.t) {
		t.Fatalf("unexpected stored record %+v", r)
	}
	if len(h.notices) != 1 || h.notices[0] != (Notice{Level: LevelInfo, Message: "Record created"}) {
		t.Fatalf("notices = %+v", h.notices)
	}
	if st := h.ctl.State(); st.Page != domain.PageDetail || st.SelectedID != "EXP-new-1" {
		t.Fatalf("state = %+v", st)
	}
}

func TestSubmitWithoutIDGeneratesOne(t *testing.T) {
	h := newHarness(t, "[]")
	page, err := h.ctl.Submit(context.Background(), validPayload(""))
	if err != nil || page.Detail.ID != "EXP-new-1" {
		t.Fatalf("expected generated id, got %v %+v", err, page)
	}
}

func TestValidationFailureKeepsForm(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "[]")
	writes := h.kv.Writes()
	p := validPayload("EXP-new-1")
	p.Title = "   "
	p.Date = "2024-13-01"
	p.Type = "alchemy"
	page, err := h.ctl.Submit(ctx, p)
	var verr *ValidationError
	if !errors.As(err, &verr) || !reflect.DeepEqual(verr.Fields, []string{"title", "date", "type"}) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if page.Kind != view.KindForm || page.Form.Error == "" || page.Form.Date != "2024-13-01" || page.Form.Experimenter != "Ada" {
		t.Fatalf("form did not keep entered data: %+v", page.Form)
	}
	if !page.Form.IsInvalid("title") || page.Form.Editing {
		t.Fatalf("invalid markers wrong: %+v", page.Form.Invalid)
	}
	if h.kv.Writes() != writes || len(h.ctl.Records()) != 0 {
		t.Fatalf("validation failure must not persist")
	}
	if again := h.ctl.Render(ctx); again.Form == nil || again.Form.Error != page.Form.Error {
		t.Fatalf("re-render lost the draft")
	}
}

func TestEditPreservesIdentity(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "[]")
	if _, err := h.ctl.Submit(ctx, validPayload("EXP-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := h.clock.t
	h.clock.t = created.Add(-time.Hour)
	edit := h.ctl.NavigateForm(ctx, "EXP-1")
	if !edit.Form.Editing || edit.Form.Title != "Spin coating" {
		t.Fatalf("unexpected edit form %+v", edit.Form)
	}
	p := validPayload("EXP-1")
	p.Title = "Spin coating v2"
	p.Steps = []string{" ", ""}
	if _, err := h.ctl.Submit(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	records := h.ctl.Records()
	if len(records) != 1 {
		t.Fatalf("edit duplicated the record: %d", len(records))
	}
	r := records[0]
	if r.ID != "EXP-1" || r.Title != "Spin coating v2" || !r.CreatedAt.Equal(created) {
		t.Fatalf("identity not preserved: %+v", r)
	}
	if r.UpdatedAt.Before(r.CreatedAt) {
		t.Fatalf("updatedAt went backwards: %v < %v", r.UpdatedAt, r.CreatedAt)
	}
	if !reflect.DeepEqual(r.Steps, []string{""}) {
		t.Fatalf("all-blank steps should keep a placeholder, got %q", r.Steps)
	}
	if h.notices[len(h.notices)-1].Message != "Record updated" {
		t.Fatalf("notices = %+v", h.notices)
	}
}

func TestDeleteDeclinedScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "")
	h.ctl.NavigateDetail(ctx, "EXP-2024-002")
	writes := h.kv.Writes()
	page := h.ctl.Delete(ctx, "EXP-2024-002")
	if len(h.prompts) != 1 {
		t.Fatalf("confirmer not asked")
	}
	if page.Kind != view.KindDetail || page.Detail.ID != "EXP-2024-002" {
		t.Fatalf("declined delete should stay on detail, got %+v", page)
	}
	if h.kv.Writes() != writes || len(h.ctl.Records()) != 4 {
		t.Fatalf("declined delete changed state")
	}
}

func TestDeleteDeclinedFromListKeepsRecord(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "")
	page := h.ctl.Delete(ctx, "EXP-2024-001")
	if page.Kind != view.KindList {
		t.Fatalf("declined delete from the list should stay on the list, got %s", page.Kind)
	}
	if !h.ctl.Exists("EXP-2024-001") {
		t.Fatalf("declined delete removed the record")
	}
	if h.ctl.Exists("EXP-missing") {
		t.Fatalf("Exists reported an unknown id")
	}
}

func TestDeleteConfirmed(t *testing.T) {
	h := newHarness(t, "")
	ctx := ContextWithConfirmer(context.Background(), Always(true))
	page := h.ctl.Delete(ctx, "EXP-2024-002")
	if page.Kind != view.KindList || page.List.Total != 3 {
		t.Fatalf("expected list of remaining records, got %+v", page)
	}
	for _, r := range h.stored(t) {
		if r.ID == "EXP-2024-002" {
			t.Fatalf("deleted record still persisted")
		}
	}
	if len(h.prompts) != 0 {
		t.Fatalf("context confirmer should override the default")
	}
	if h.notices[len(h.notices)-1].Message != "Record deleted" {
		t.Fatalf("notices = %+v", h.notices)
	}
}

func TestDeleteUnknownShowsNotFound(t *testing.T) {
	h := newHarness(t, "[]")
	page := h.ctl.Delete(context.Background(), "EXP-missing")
	if page.Kind != view.KindNotFound || len(h.prompts) != 0 {
		t.Fatalf("expected not found without prompt, got %+v", page)
	}
}

func TestSaveFailureRaisesWarning(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "[]")
	h.kv.FailSet = errors.New("quota exceeded")
	page, err := h.ctl.Submit(ctx, validPayload("EXP-1"))
	if err != nil {
		t.Fatalf("save failure must not fail the action: %v", err)
	}
	if page.Kind != view.KindDetail || len(h.ctl.Records()) != 1 {
		t.Fatalf("in-memory state should keep the record")
	}
	if len(h.notices) != 1 || h.notices[0].Level != LevelWarning {
		t.Fatalf("expected one warning notice, got %+v", h.notices)
	}
	if got := h.ctl.Notices(); len(got) != 1 || h.ctl.Notices() != nil {
		t.Fatalf("Notices should return then clear: %+v", got)
	}
}

func TestCorruptedBlobScenario(t *testing.T) {
	h := newHarness(t, "{{{")
	page := h.ctl.Render(context.Background())
	if page.Kind != view.KindList || page.List.Total != 4 {
		t.Fatalf("expected seeded list, got %+v", page)
	}
	if len(h.stored(t)) != 4 {
		t.Fatalf("seed should be persisted over the corrupted blob")
	}
}

func TestStartDropsDuplicateIDs(t *testing.T) {
	h := newHarness(t, `[{"id":"a","title":"first"},{"id":"a","title":"second"}]`)
	records := h.ctl.Records()
	if len(records) != 1 || records[0].Title != "first" {
		t.Fatalf("expected first occurrence only, got %+v", records)
	}
}

func TestCancelForm(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "")
	h.ctl.NavigateForm(ctx, "EXP-2024-001")
	if page := h.ctl.CancelForm(ctx); page.Kind != view.KindDetail || page.Detail.ID != "EXP-2024-001" {
		t.Fatalf("cancel edit should return to detail, got %+v", page)
	}
	h.ctl.NavigateForm(ctx, "")
	if page := h.ctl.CancelForm(ctx); page.Kind != view.KindList {
		t.Fatalf("cancel create should return to list, got %+v", page)
	}
	if len(h.ctl.Records()) != 4 {
		t.Fatalf("cancel changed records")
	}
}

func TestNavigateUnknownRecord(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "[]")
	if p := h.ctl.NavigateDetail(ctx, "nope"); p.Kind != view.KindNotFound {
		t.Fatalf("detail: %+v", p)
	}
	if p := h.ctl.NavigateForm(ctx, "nope"); p.Kind != view.KindNotFound {
		t.Fatalf("form: %+v", p)
	}
	if p := h.ctl.NavigateList(ctx); p.Kind != view.KindList {
		t.Fatalf("list: %+v", p)
	}
}

func TestChangeFilter(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "")
	page := h.ctl.ChangeFilter(ctx, "testing", "")
	if page.List.Count != 1 || page.List.Cards[0].ID != "EXP-2024-002" {
		t.Fatalf("type filter: %+v", page.List.Cards)
	}
	page = h.ctl.ChangeFilter(ctx, "bogus", "2024-01-22")
	if page.List.Filter.Type != domain.FilterAll || page.List.Count != 1 || page.List.Cards[0].ID != "EXP-2024-004" {
		t.Fatalf("date filter: %+v", page.List)
	}
	page = h.ctl.ChangeFilter(ctx, "all", "not-a-date")
	if page.List.Filter.Date != "" || page.List.Count != 4 {
		t.Fatalf("malformed date should clear the filter: %+v", page.List.Filter)
	}
	h.ctl.NavigateDetail(ctx, "EXP-2024-001")
	h.ctl.ChangeFilter(ctx, "simulation", "")
	if p := h.ctl.NavigateList(ctx); p.List.Filter.Type != "simulation" {
		t.Fatalf("filter should survive navigation")
	}
}

func TestAddRow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "[]")
	h.ctl.NavigateForm(ctx, "")
	p := validPayload("EXP-new-1")
	page := h.ctl.AddRow(ctx, p, RowStep)
	if len(page.Form.Steps) != 4 || page.Form.Steps[3] != "" || page.Form.Title != p.Title {
		t.Fatalf("step row not added: %q", page.Form.Steps)
	}
	page = h.ctl.AddRow(ctx, p, RowAttachment)
	if len(page.Form.Attachments) != 3 {
		t.Fatalf("attachment row not added: %q", page.Form.Attachments)
	}
	if h.kv.Writes() != 1 {
		t.Fatalf("adding rows must not save")
	}
}

func TestRemoveRow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "[]")
	h.ctl.NavigateForm(ctx, "")
	p := validPayload("EXP-new-1")
	p.Steps = []string{"mix", "heat", "cool"}

	page := h.ctl.RemoveRow(ctx, p, RowStep, 1)
	if !reflect.DeepEqual(page.Form.Steps, []string{"mix", "cool"}) {
		t.Fatalf("step row not removed: %q", page.Form.Steps)
	}
	if !reflect.DeepEqual(p.Steps, []string{"mix", "heat", "cool"}) {
		t.Fatalf("payload rows were modified: %q", p.Steps)
	}
	page = h.ctl.RemoveRow(ctx, p, RowStep, 7)
	if len(page.Form.Steps) != 3 {
		t.Fatalf("out of range index changed rows: %q", page.Form.Steps)
	}

	p.Attachments = []string{"a.png"}
	page = h.ctl.RemoveRow(ctx, p, RowAttachment, 0)
	if !reflect.DeepEqual(page.Form.Attachments, []string{""}) || page.Form.Title != p.Title {
		t.Fatalf("last attachment row should leave a blank row: %q", page.Form.Attachments)
	}
	if h.kv.Writes() != 1 {
		t.Fatalf("removing rows must not save")
	}
}

func TestDetailTimestampsUseLocation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "[]", WithLocation(time.FixedZone("UTC-5", -5*60*60)))
	page, err := h.ctl.Submit(ctx, validPayload("EXP-1"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if page.Detail.CreatedAt != "2024-03-01 04:00:00" {
		t.Fatalf("createdAt = %q, want the configured zone", page.Detail.CreatedAt)
	}
	if got := h.stored(t)[0].CreatedAt; !got.Equal(h.clock.t) {
		t.Fatalf("stored timestamp changed: %v", got)
	}
}

func TestUniqueIDAvoidsCollisions(t *testing.T) {
	h := newHarness(t, "", WithIDGenerator(idgen.Sequence("EXP-2024-001")))
	page := h.ctl.NavigateForm(context.Background(), "")
	if page.Form.ID != "EXP-2024-001-2" {
		t.Fatalf("expected suffixed id, got %s", page.Form.ID)
	}
}

func TestActionsAreSerialised(t *testing.T) {
	rec := metrics.NewExpvarRecorder("")
	kv := memory.New()
	_ = kv.Set(context.Background(), persistence.DefaultKey, []byte("[]"))
	ctl := New(persistence.New(kv), WithMetrics(rec))
	ctl.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := validPayload(fmt.Sprintf("EXP-%02d", i))
			if _, err := ctl.Submit(context.Background(), p); err != nil {
				t.Errorf("submit %d: %v", i, err)
			}
			ctl.Render(context.Background())
		}(i)
	}
	wg.Wait()
	if got := len(ctl.Records()); got != 20 {
		t.Fatalf("expected 20 records, got %d", got)
	}
	if rec.Snapshot().Actions["submit"].Success != 20 {
		t.Fatalf("metrics = %+v", rec.Snapshot().Actions)
	}
}
