package controller

import (
	"context"
	"log/slog"

	"labnotebook/pkg/domain"
)

// Persister is the storage contract the controller relies on.
type Persister interface {
	Load(ctx context.Context) []domain.Record
	Save(ctx context.Context, records []domain.Record) error
}

// Confirmer answers a yes/no question put to the user.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Always answers every prompt with the same value.
type Always bool

// Confirm implements Confirmer.
func (a Always) Confirm(context.Context, string) bool { return bool(a) }

type confirmerKey struct{}

// ContextWithConfirmer overrides the controller's Confirmer for calls made
// with the returned context. Display surfaces that learn the answer with the
// request (an HTTP form post) use it.
func ContextWithConfirmer(ctx context.Context, c Confirmer) context.Context {
	return context.WithValue(ctx, confirmerKey{}, c)
}

func confirmerFrom(ctx context.Context, fallback Confirmer) Confirmer {
	if c, ok := ctx.Value(confirmerKey{}).(Confirmer); ok && c != nil {
		return c
	}
	return fallback
}

// Level grades a notice.
type Level string

// Notice levels.
const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient message for the user.
type Notice struct {
	Level   Level
	Message string
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

type logNotifier struct{ logger *slog.Logger }

func (l logNotifier) Notify(ctx context.Context, n Notice) {
	l.logger.InfoContext(ctx, "notice", "level", string(n.Level), "message", n.Message)
}
