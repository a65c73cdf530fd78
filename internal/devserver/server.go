// Package devserver is an in-memory implementation of the list/task API.
// It backs local development (taskflow serve) and end-to-end tests.
package devserver

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"taskflow/internal/service"
	"taskflow/internal/validate"
)

const (
	// BasePath is where the API is mounted.
	BasePath = "/api"

	// DefaultTokenTTL is the lifetime of issued tokens.
	DefaultTokenTTL = 24 * time.Hour

	badCredentialsMessage = "Authentication failed: Bad credentials"
)

// Options configures a Server.
type Options struct {
	// Secret signs bearer tokens. A random secret is used when empty.
	Secret string

	// TokenTTL defaults to DefaultTokenTTL.
	TokenTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	Logger *zap.Logger
}

// Server serves the API from memory. All data is lost on exit.
type Server struct {
	store  *memStore
	tokens *tokens
	log    *zap.Logger
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	secret := []byte(opts.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
	}

	return &Server{
		store:  newMemStore(opts.Now),
		tokens: &tokens{secret: secret, ttl: opts.TokenTTL, now: opts.Now},
		log:    opts.Logger,
	}, nil
}

// Handler returns the HTTP handler with the API mounted under BasePath.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.logRequests)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route(BasePath, func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/lists", s.getLists)
			r.Post("/lists", s.createList)
			r.Put("/lists/{listID}", s.updateList)
			r.Delete("/lists/{listID}", s.deleteList)
			r.Post("/lists/{listID}/tasks", s.createTask)
			r.Put("/lists/{listID}/tasks/{taskID}", s.updateTask)
			r.Delete("/lists/{listID}/tasks/{taskID}", s.deleteTask)
		})
	})

	return router
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	form, err := validate.Register(req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	acct, err := s.store.register(form.Email, form.Name, form.Password)
	if errors.Is(err, errAccountExists) {
		writeError(w, http.StatusConflict, "User already exists with email: "+form.Email)
		return
	}
	if err != nil {
		s.log.Error("register failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred during registration.")
		return
	}

	s.log.Info("account registered", zap.String("account_id", acct.id))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	acct, err := s.store.authenticate(req.Email, req.Password)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(badCredentialsMessage))
		return
	}

	token, err := s.tokens.issue(acct)
	if err != nil {
		s.log.Error("issue token failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred during login.")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) getLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listsFor(ownerFrom(r.Context())))
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !decode(w, r, &req) {
		return
	}
	title, err := validate.Title(req.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list := s.store.createList(ownerFrom(r.Context()), title)
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) updateList(w http.ResponseWriter, r *http.Request) {
	var list service.TodoList
	if !decode(w, r, &list) {
		return
	}
	title, err := validate.Title(list.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list.ID = chi.URLParam(r, "listID")
	list.Title = title

	updated, err := s.store.updateList(ownerFrom(r.Context()), list)
	if err != nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteList(ownerFrom(r.Context()), chi.URLParam(r, "listID")); err != nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	text, err := validate.Text(req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := s.store.createTask(ownerFrom(r.Context()), chi.URLParam(r, "listID"), text)
	if err != nil {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var task service.Task
	if !decode(w, r, &task) {
		return
	}
	text, err := validate.Text(task.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task.ID = chi.URLParam(r, "taskID")
	task.Text = text

	updated, err := s.store.updateTask(ownerFrom(r.Context()), chi.URLParam(r, "listID"), task)
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	err := s.store.deleteTask(ownerFrom(r.Context()), chi.URLParam(r, "listID"), chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
