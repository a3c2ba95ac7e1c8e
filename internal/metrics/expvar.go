package metrics

import (
	"context"
	"expvar"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Operation groups exported by ExpvarRecorder. Controller actions are named
// "action_<name>" and adapter calls "persistence_<name>".
const (
	GroupActions     = "actions"
	GroupPersistence = "persistence"
	GroupOther       = "other"
)

var publishMu sync.Mutex

// Outcomes counts the results of one operation.
type Outcomes struct {
	Success int64 `json:"success"`
	Error   int64 `json:"error"`
}

// Snapshot is a copy of the exported counters keyed by group, then by
// operation name with its group prefix removed.
type Snapshot struct {
	Actions     map[string]Outcomes
	Persistence map[string]Outcomes
	Other       map[string]Outcomes
	LastFailure string
}

// ExpvarRecorder exports outcome counters under /debug/vars as one map:
//
//	{"actions": {"submit": {"success": 3, "error": 0}}, "persistence": {...},
//	 "other": {...}, "last_failure": "persistence_save"}
//
// Latency is not tracked; use the Prometheus recorder for histograms.
type ExpvarRecorder struct {
	name    string
	mu      sync.Mutex
	groups  map[string]*expvar.Map
	lastErr expvar.String
}

// NewExpvarRecorder publishes a recorder under name (default "labnotebook").
// A name already taken in the process gets a numeric suffix.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		name = "labnotebook"
	}
	root := new(expvar.Map).Init()
	rec := &ExpvarRecorder{groups: make(map[string]*expvar.Map, 3)}
	for _, g := range []string{GroupActions, GroupPersistence, GroupOther} {
		m := new(expvar.Map).Init()
		rec.groups[g] = m
		root.Set(g, m)
	}
	root.Set("last_failure", &rec.lastErr)

	publishMu.Lock()
	defer publishMu.Unlock()
	rec.name = name
	for n := 2; expvar.Get(rec.name) != nil; n++ {
		rec.name = fmt.Sprintf("%s_%d", name, n)
	}
	expvar.Publish(rec.name, root)
	return rec
}

// Name returns the expvar export name.
func (r *ExpvarRecorder) Name() string { return r.name }

// Observe implements Recorder.
func (r *ExpvarRecorder) Observe(_ context.Context, operation string, success bool, _ time.Duration) {
	if operation == "" {
		return
	}
	group, op := splitOperation(operation)
	r.mu.Lock()
	counts, ok := r.groups[group].Get(op).(*expvar.Map)
	if !ok {
		counts = new(expvar.Map).Init()
		r.groups[group].Set(op, counts)
	}
	r.mu.Unlock()
	counts.Add(status(success), 1)
	if !success {
		r.lastErr.Set(operation)
	}
}

// Snapshot copies the current counters.
func (r *ExpvarRecorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Actions:     collect(r.groups[GroupActions]),
		Persistence: collect(r.groups[GroupPersistence]),
		Other:       collect(r.groups[GroupOther]),
		LastFailure: r.lastErr.Value(),
	}
}

func splitOperation(operation string) (group, op string) {
	if rest, ok := strings.CutPrefix(operation, "action_"); ok && rest != "" {
		return GroupActions, rest
	}
	if rest, ok := strings.CutPrefix(operation, "persistence_"); ok && rest != "" {
		return GroupPersistence, rest
	}
	return GroupOther, operation
}

func collect(group *expvar.Map) map[string]Outcomes {
	out := make(map[string]Outcomes)
	group.Do(func(kv expvar.KeyValue) {
		counts, ok := kv.Value.(*expvar.Map)
		if !ok {
			return
		}
		out[kv.Key] = Outcomes{Success: intValue(counts, "success"), Error: intValue(counts, "error")}
	})
	return out
}

func intValue(m *expvar.Map, key string) int64 {
	if v, ok := m.Get(key).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}
