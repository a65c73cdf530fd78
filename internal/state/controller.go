// Package state holds the signed-in user and the last list snapshot fetched
// from the backend, and drives login, logout and refetch-after-mutation.
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"taskflow/internal/service"
	"taskflow/internal/session"
	"taskflow/internal/validate"
)

// SessionStore persists the session between runs. *session.Store implements it.
type SessionStore interface {
	Load() (session.Session, bool)
	Save(session.Session) error
	Clear() error
}

// Connector returns a backend that authorizes requests with token.
// An empty token yields an unauthenticated backend.
type Connector func(token string) (service.Service, error)

// State is a point-in-time copy of the controller's state.
type State struct {
	User    *service.User
	Lists   []service.TodoList
	Loading bool
	Err     error
}

// LoggedIn reports whether a user is present.
func (s State) LoggedIn() bool {
	return s.User != nil
}

// Controller owns the in-memory user and lists. Lists are only ever
// replaced by a full fetch; mutations never patch them locally.
// All methods are safe for concurrent use.
type Controller struct {
	store   SessionStore
	connect Connector
	log     *zap.Logger

	mu      sync.Mutex
	svc     service.Service
	user    *service.User
	lists   []service.TodoList
	loading bool
	err     error

	// seq numbers fetches as they start; applied is the fetch whose
	// result is in lists. A fetch at or below applied is stale. failed
	// is the newest fetch that failed; only a newer success clears err.
	seq     uint64
	applied uint64
	failed  uint64

	// gen changes on every login and logout.
	gen uint64
}

// New creates a Controller with no user.
func New(store SessionStore, connect Connector, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{store: store, connect: connect, log: log}
}

// Logger returns the controller's logger.
func (c *Controller) Logger() *zap.Logger {
	return c.log
}

// Restore loads the saved session without fetching. It reports whether
// a user was found.
func (c *Controller) Restore() (bool, error) {
	sess, ok := c.store.Load()
	if !ok {
		return false, nil
	}

	svc, err := c.connect(sess.Token)
	if err != nil {
		return false, err
	}

	user := sess.User
	c.mu.Lock()
	c.svc = svc
	c.user = &user
	c.mu.Unlock()
	return true, nil
}

// Start restores the saved session and, when a user is present, fetches
// the lists. A fetch failure is recorded in the state and returned.
func (c *Controller) Start(ctx context.Context) error {
	ok, err := c.Restore()
	if err != nil || !ok {
		return err
	}
	return c.Refresh(ctx)
}

// Login validates the credentials, exchanges them for a token, saves the
// session and fetches the lists. Validation and login failures are
// returned without touching the state. A failed fetch after a successful
// login is recorded in the state only.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	form, err := validate.Login(email, password)
	if err != nil {
		return err
	}

	anon, err := c.connect("")
	if err != nil {
		return err
	}
	token, err := anon.Login(ctx, form.Email, form.Password)
	if err != nil {
		return err
	}

	user := service.UserFromEmail(form.Email)
	if err := c.store.Save(session.Session{User: user, Token: token}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	svc, err := c.connect(token)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.svc = svc
	c.user = &user
	c.gen++
	c.mu.Unlock()

	c.log.Info("logged in", zap.String("email", user.Email))
	_ = c.Refresh(ctx)
	return nil
}

// Register validates the form and creates an account. It does not log in.
func (c *Controller) Register(ctx context.Context, email, name, password string) error {
	form, err := validate.Register(email, name, password)
	if err != nil {
		return err
	}

	anon, err := c.connect("")
	if err != nil {
		return err
	}
	return anon.Register(ctx, form.Email, form.Name, form.Password)
}

// Logout clears the saved session and the in-memory state. Fetches still
// in flight are discarded when they complete.
func (c *Controller) Logout() error {
	err := c.store.Clear()

	c.mu.Lock()
	c.svc = nil
	c.user = nil
	c.lists = nil
	c.err = nil
	c.loading = false
	c.applied = c.seq
	c.gen++
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Refresh fetches the lists and replaces the snapshot. On failure the
// error is recorded and the previous lists are kept.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	svc := c.svc
	if svc == nil {
		c.mu.Unlock()
		return service.ErrNotLoggedIn
	}
	c.seq++
	my := c.seq
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	lists, err := svc.GetLists(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if my == c.seq {
		c.loading = false
	}
	if my <= c.applied {
		c.log.Debug("discarding stale fetch", zap.Uint64("seq", my), zap.Uint64("applied", c.applied))
		return err
	}
	if err != nil {
		c.log.Warn("fetch lists failed", zap.Error(err))
		if my > c.failed {
			c.failed = my
			c.err = err
		}
		return err
	}

	c.lists = lists
	c.applied = my
	if my > c.failed {
		c.err = nil
	}
	return nil
}

// mutate runs fn against the backend, then refetches on success.
// A failure is recorded in the state and returned.
func (c *Controller) mutate(ctx context.Context, op string, fn func(service.Service) error) error {
	c.mu.Lock()
	svc, gen := c.svc, c.gen
	c.mu.Unlock()
	if svc == nil {
		return service.ErrNotLoggedIn
	}

	if err := fn(svc); err != nil {
		c.log.Warn("mutation failed", zap.String("op", op), zap.Error(err))
		c.mu.Lock()
		if c.gen == gen {
			c.err = err
		}
		c.mu.Unlock()
		return err
	}

	_ = c.Refresh(ctx)
	return nil
}

// CreateList creates a list with the trimmed title.
func (c *Controller) CreateList(ctx context.Context, title string) error {
	title, err := validate.Title(title)
	if err != nil {
		return err
	}
	return c.mutate(ctx, "createList", func(svc service.Service) error {
		_, err := svc.CreateList(ctx, title)
		return err
	})
}

// DeleteList deletes a list and its tasks.
func (c *Controller) DeleteList(ctx context.Context, listID string) error {
	return c.mutate(ctx, "deleteList", func(svc service.Service) error {
		return svc.DeleteList(ctx, listID)
	})
}

// RenameList sends list with its title replaced.
func (c *Controller) RenameList(ctx context.Context, list service.TodoList, title string) error {
	title, err := validate.Title(title)
	if err != nil {
		return err
	}
	list = list.Clone()
	list.Title = title
	return c.mutate(ctx, "updateList", func(svc service.Service) error {
		_, err := svc.UpdateList(ctx, list)
		return err
	})
}

// AddTask appends a task with the trimmed text.
func (c *Controller) AddTask(ctx context.Context, listID, text string) error {
	text, err := validate.Text(text)
	if err != nil {
		return err
	}
	return c.mutate(ctx, "createTask", func(svc service.Service) error {
		_, err := svc.CreateTask(ctx, listID, text)
		return err
	})
}

// EditTask sends task with its text replaced.
func (c *Controller) EditTask(ctx context.Context, listID string, task service.Task, text string) error {
	text, err := validate.Text(text)
	if err != nil {
		return err
	}
	task.Text = text
	return c.mutate(ctx, "updateTask", func(svc service.Service) error {
		_, err := svc.UpdateTask(ctx, listID, task)
		return err
	})
}

// SetDone sends task with its done flag set.
func (c *Controller) SetDone(ctx context.Context, listID string, task service.Task, done bool) error {
	task.Done = done
	return c.mutate(ctx, "updateTask", func(svc service.Service) error {
		_, err := svc.UpdateTask(ctx, listID, task)
		return err
	})
}

// ToggleTask flips the task's done flag.
func (c *Controller) ToggleTask(ctx context.Context, listID string, task service.Task) error {
	return c.SetDone(ctx, listID, task, !task.Done)
}

// DeleteTask removes a task.
func (c *Controller) DeleteTask(ctx context.Context, listID, taskID string) error {
	return c.mutate(ctx, "deleteTask", func(svc service.Service) error {
		return svc.DeleteTask(ctx, listID, taskID)
	})
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{Loading: c.loading, Err: c.err}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	if c.lists != nil {
		s.Lists = make([]service.TodoList, len(c.lists))
		for i, l := range c.lists {
			s.Lists[i] = l.Clone()
		}
	}
	return s
}

// List resolves ref against the current snapshot by id or title. A
// letter (a-z) that names no list that way picks by position.
func (c *Controller) List(ref string) (service.TodoList, error) {
	lists := c.State().Lists
	ref = strings.TrimSpace(ref)
	l, err := service.ResolveList(lists, ref)
	if errors.Is(err, service.ErrListNotFound) && len(ref) == 1 && ref[0] >= 'a' && ref[0] <= 'z' {
		if l, lerr := service.ResolveListByLetter(lists, rune(ref[0])); lerr == nil {
			return l, nil
		}
	}
	return l, err
}
