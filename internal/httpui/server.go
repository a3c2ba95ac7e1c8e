// Package httpui serves the notebook as server-rendered HTML.
package httpui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"labnotebook/internal/controller"
	"labnotebook/internal/render"
	"labnotebook/internal/view"
	"labnotebook/pkg/domain"
)

// Server routes browser requests to controller actions. Notices raised by a
// POST are carried over the redirect and shown on the next page.
type Server struct {
	ctl     *controller.Controller
	html    *render.HTML
	logger  *slog.Logger
	metrics http.Handler
	router  chi.Router

	mu    sync.Mutex
	flash []render.Notice
}

// New builds the router. metricsHandler may be nil.
func New(ctl *controller.Controller, logger *slog.Logger, metricsHandler http.Handler) (*Server, error) {
	html, err := render.NewHTML()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{ctl: ctl, html: html, logger: logger, metrics: metricsHandler}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleList)
	r.Route("/records", func(r chi.Router) {
		r.Post("/", s.handleSubmit)
		r.Get("/new", s.handleNew)
		r.Get("/{id}", s.handleDetail)
		r.Get("/{id}/edit", s.handleEdit)
		r.Get("/{id}/cancel", s.handleCancel)
		r.Get("/{id}/delete", s.handleDeletePrompt)
		r.Post("/{id}/delete", s.handleDelete)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("type") || q.Has("date") {
		typ := q.Get("type")
		if typ == "" {
			typ = domain.FilterAll
		}
		s.respond(w, r, s.ctl.ChangeFilter(r.Context(), typ, q.Get("date")))
		return
	}
	s.respond(w, r, s.ctl.NavigateList(r.Context()))
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.ctl.NavigateForm(r.Context(), ""))
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.ctl.NavigateDetail(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.ctl.NavigateForm(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.redirect(w, r, s.ctl.CancelForm(r.Context()))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	payload := payloadFromForm(r.PostForm)
	action := r.PostForm.Get("action")
	if row, i, ok := removeAction(action); ok {
		s.respond(w, r, s.ctl.RemoveRow(r.Context(), payload, row, i))
		return
	}
	switch action {
	case "add_step":
		s.respond(w, r, s.ctl.AddRow(r.Context(), payload, controller.RowStep))
		return
	case "add_attachment":
		s.respond(w, r, s.ctl.AddRow(r.Context(), payload, controller.RowAttachment))
		return
	}
	page, err := s.ctl.Submit(r.Context(), payload)
	var verr *controller.ValidationError
	if errors.As(err, &verr) {
		s.write(w, r, http.StatusUnprocessableEntity, render.Document{Page: page, Notices: s.takeNotices()})
		return
	}
	s.redirect(w, r, page)
}

func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	page := s.ctl.NavigateDetail(r.Context(), chi.URLParam(r, "id"))
	if page.Kind != view.KindDetail {
		s.respond(w, r, page)
		return
	}
	prompt := fmt.Sprintf("Delete experiment %s (%s)? This cannot be undone.", page.Detail.ID, page.Detail.Title)
	s.write(w, r, http.StatusOK, render.Document{
		Page:    page,
		Notices: s.takeNotices(),
		Confirm: &render.ConfirmPrompt{ID: page.Detail.ID, Prompt: prompt},
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	answer := r.PostForm.Get("confirm") == "yes"
	ctx := controller.ContextWithConfirmer(r.Context(), controller.Always(answer))
	s.redirect(w, r, s.ctl.Delete(ctx, chi.URLParam(r, "id")))
}

// respond renders page directly, with any pending notices.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, page view.Page) {
	status := http.StatusOK
	if page.Kind == view.KindNotFound {
		status = http.StatusNotFound
	}
	s.write(w, r, status, render.Document{Page: page, Notices: s.takeNotices()})
}

// redirect sends the browser to the canonical URL of page after a state
// change, keeping the action's notices for the next render.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, page view.Page) {
	var target string
	switch page.Kind {
	case view.KindList:
		target = "/"
	case view.KindDetail:
		target = "/records/" + url.PathEscape(page.Detail.ID)
	default:
		s.respond(w, r, page)
		return
	}
	s.stash(s.ctl.Notices())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, doc render.Document) {
	var buf bytes.Buffer
	if err := s.html.Render(&buf, doc); err != nil {
		s.logger.ErrorContext(r.Context(), "render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) stash(notices []controller.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notices {
		s.flash = append(s.flash, render.Notice{Level: string(n.Level), Message: n.Message})
	}
}

// takeNotices drains the flash plus whatever the last action raised.
func (s *Server) takeNotices() []render.Notice {
	s.stash(s.ctl.Notices())
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flash
	s.flash = nil
	return out
}

// ListenAndServe runs the server on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.InfoContext(ctx, "http server listening", "addr", addr)
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
