package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"git.sr.ht/~jakintosh/todo/internal/domain"
	"git.sr.ht/~jakintosh/todo/internal/logger"
	"github.com/rs/zerolog"
)

type Server struct {
	store        domain.Store
	router       *http.ServeMux
	handler      http.Handler
	presentation *Presentation
}

func NewServer(store domain.Store, log zerolog.Logger) (*Server, error) {
	pres, err := NewPresentation()
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:        store,
		router:       http.NewServeMux(),
		presentation: pres,
	}
	s.routes()
	s.handler = withRequestLogging(log.With().Str("component", "web").Logger(), s.router)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// Page Routes
	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("GET /healthz", s.handleHealth)

	// API/HTMX Routes
	s.router.HandleFunc("POST /tasks", s.handleCreateTask)
	s.router.HandleFunc("POST /tasks/{id}/toggle", s.handleToggleTask)
	s.router.HandleFunc("DELETE /tasks/{id}", s.handleDeleteTask)
	s.router.HandleFunc("POST /tasks/{id}/delete", s.handleDeleteTask)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.presentation.RenderIndex(w, NewTaskListView(tasks)); err != nil {
		s.fail(w, r, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.List(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("health check failed")
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	raw := r.FormValue("description")
	desc := strings.TrimSpace(raw)
	if !domain.ValidDescription(desc) {
		s.renderList(w, r, http.StatusBadRequest, func(v *TaskListView) {
			v.Error = "Enter a description first."
			v.Draft = raw
		})
		return
	}

	task, err := s.store.Create(r.Context(), desc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug().Int64("task_id", task.ID).Msg("task created")

	s.renderList(w, r, http.StatusOK, nil)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	task, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.store.Update(r.Context(), task.Toggle())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !res.Found() {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	s.renderList(w, r, http.StatusOK, nil)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	res, err := s.store.Delete(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !res.Found() {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	s.renderList(w, r, http.StatusOK, nil)
}

// renderList re-reads every task and answers with the list partial for htmx,
// a redirect for successful plain form posts, or the full page otherwise.
func (s *Server) renderList(w http.ResponseWriter, r *http.Request, status int, decorate func(*TaskListView)) {
	ctx := parseRequestContext(r)

	if status == http.StatusOK && !ctx.wantsPartial() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	tasks, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := NewTaskListView(tasks)
	if decorate != nil {
		decorate(&view)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if ctx.wantsPartial() {
		err = s.presentation.RenderTaskList(w, view)
	} else {
		err = s.presentation.RenderIndex(w, view)
	}
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("failed to render task list")
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyDescription):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrStorageUnavailable):
		logger.FromContext(r.Context()).Error().Err(err).Msg("task store unavailable")
		http.Error(w, "Task storage is unavailable", http.StatusServiceUnavailable)
	default:
		logger.FromContext(r.Context()).Error().Err(err).Msg("request failed")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
