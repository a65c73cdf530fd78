package devserver

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/service"
)

var (
	errNotFound      = errors.New("not found")
	errAccountExists = errors.New("account already exists")
	errBadLogin      = errors.New("bad credentials")
)

type account struct {
	id           string
	email        string
	name         string
	passwordHash []byte
}

type listRecord struct {
	ownerID string
	list    service.TodoList
}

// memStore holds accounts and lists. Lists keep creation order; tasks keep
// insertion order.
type memStore struct {
	mu       sync.Mutex
	now      func() time.Time
	accounts map[string]*account // by lower-cased email
	lists    []*listRecord
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		now:      now,
		accounts: make(map[string]*account),
	}
}

func (s *memStore) register(email, name, password string) (*account, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[key]; ok {
		return nil, errAccountExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	acct := &account{
		id:           uuid.NewString(),
		email:        strings.TrimSpace(email),
		name:         strings.TrimSpace(name),
		passwordHash: hash,
	}
	s.accounts[key] = acct
	return acct, nil
}

func (s *memStore) authenticate(email, password string) (*account, error) {
	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	s.mu.Unlock()

	if !ok {
		return nil, errBadLogin
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, errBadLogin
	}
	return acct, nil
}

func (s *memStore) listsFor(ownerID string) []service.TodoList {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []service.TodoList{}
	for _, rec := range s.lists {
		if rec.ownerID == ownerID {
			out = append(out, rec.list.Clone())
		}
	}
	return out
}

func (s *memStore) createList(ownerID, title string) service.TodoList {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &listRecord{
		ownerID: ownerID,
		list: service.TodoList{
			ID:        uuid.NewString(),
			Title:     title,
			Tasks:     []service.Task{},
			CreatedAt: service.NewTimestamp(s.now().UTC()),
		},
	}
	s.lists = append(s.lists, rec)
	return rec.list.Clone()
}

// find returns the record for listID owned by ownerID. Lists of other
// owners are reported as missing. Callers hold s.mu.
func (s *memStore) find(ownerID, listID string) (int, *listRecord) {
	for i, rec := range s.lists {
		if rec.list.ID == listID && rec.ownerID == ownerID {
			return i, rec
		}
	}
	return -1, nil
}

func (s *memStore) updateList(ownerID string, list service.TodoList) (service.TodoList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rec := s.find(ownerID, list.ID)
	if rec == nil {
		return service.TodoList{}, errNotFound
	}
	rec.list.Title = list.Title
	return rec.list.Clone(), nil
}

func (s *memStore) deleteList(ownerID, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, rec := s.find(ownerID, listID)
	if rec == nil {
		return errNotFound
	}
	s.lists = append(s.lists[:i], s.lists[i+1:]...)
	return nil
}

func (s *memStore) createTask(ownerID, listID, text string) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rec := s.find(ownerID, listID)
	if rec == nil {
		return service.Task{}, errNotFound
	}
	task := service.Task{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: service.NewTimestamp(s.now().UTC()),
	}
	rec.list.Tasks = append(rec.list.Tasks, task)
	return task, nil
}

// updateTask overwrites text and done. ID and creation time are kept.
func (s *memStore) updateTask(ownerID, listID string, task service.Task) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rec := s.find(ownerID, listID)
	if rec == nil {
		return service.Task{}, errNotFound
	}
	for i := range rec.list.Tasks {
		if rec.list.Tasks[i].ID == task.ID {
			rec.list.Tasks[i].Text = task.Text
			rec.list.Tasks[i].Done = task.Done
			return rec.list.Tasks[i], nil
		}
	}
	return service.Task{}, errNotFound
}

func (s *memStore) deleteTask(ownerID, listID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rec := s.find(ownerID, listID)
	if rec == nil {
		return errNotFound
	}
	for i, t := range rec.list.Tasks {
		if t.ID == taskID {
			rec.list.Tasks = append(rec.list.Tasks[:i], rec.list.Tasks[i+1:]...)
			return nil
		}
	}
	return errNotFound
}
