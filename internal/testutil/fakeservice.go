// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskflow/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// IDs are deterministic: lists are "list-1", "list-2", ...; tasks "task-1", ...
type FakeService struct {
	mu       sync.Mutex
	lists    []service.TodoList
	accounts map[string]string // email -> password
	nextID   int
	calls    map[string]int

	// Now stamps created entities. Defaults to a fixed instant.
	Now func() time.Time

	// Token is returned by a successful Login.
	Token string

	// Error injection for testing
	GetListsErr   error
	CreateListErr error
	DeleteListErr error
	UpdateListErr error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	RegisterErr   error
	LoginErr      error

	// GetListsHook runs before GetLists reads state, without the lock held.
	// call is 1 for the first GetLists, 2 for the second, and so on.
	GetListsHook func(call int)

	// GetListsErrFor, when set, returns the error for a given GetLists call.
	GetListsErrFor func(call int) error
}

// FixedNow is the default creation time of fake entities.
var FixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		accounts: make(map[string]string),
		calls:    make(map[string]int),
		Token:    "fake-token",
		Now:      func() time.Time { return FixedNow },
	}
}

// AddList adds a list and returns its ID.
func (f *FakeService) AddList(title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addListLocked(title).ID
}

// AddTask adds a task to a list and returns its ID.
func (f *FakeService) AddTask(listID, text string, done bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.lists {
		if f.lists[i].ID == listID {
			t := f.newTaskLocked(text)
			t.Done = done
			f.lists[i].Tasks = append(f.lists[i].Tasks, t)
			return t.ID
		}
	}
	panic("testutil: no such list: " + listID)
}

// AddAccount registers credentials accepted by Login.
func (f *FakeService) AddAccount(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = password
}

// Calls returns how many times the named operation was invoked.
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of operations invoked.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// Lists returns a copy of the stored lists.
func (f *FakeService) Lists() []service.TodoList {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneLists(f.lists)
}

func (f *FakeService) record(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.calls[op]
}

func (f *FakeService) addListLocked(title string) service.TodoList {
	f.nextID++
	l := service.TodoList{
		ID:        fmt.Sprintf("list-%d", f.nextID),
		Title:     title,
		Tasks:     []service.Task{},
		CreatedAt: service.NewTimestamp(f.Now().Add(time.Duration(f.nextID) * time.Minute)),
	}
	f.lists = append(f.lists, l)
	return l
}

func (f *FakeService) newTaskLocked(text string) service.Task {
	f.nextID++
	return service.Task{
		ID:        fmt.Sprintf("task-%d", f.nextID),
		Text:      text,
		CreatedAt: service.NewTimestamp(f.Now()),
	}
}

func (f *FakeService) indexLocked(listID string) int {
	for i, l := range f.lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

func notFound(op, what string) error {
	return &service.RequestError{Op: op, Kind: service.KindNotFound, Message: what + " not found"}
}

// GetLists implements service.Service.
func (f *FakeService) GetLists(ctx context.Context) ([]service.TodoList, error) {
	call := f.record("getLists")
	if f.GetListsHook != nil {
		f.GetListsHook(call)
	}
	if f.GetListsErr != nil {
		return nil, f.GetListsErr
	}
	if f.GetListsErrFor != nil {
		if err := f.GetListsErrFor(call); err != nil {
			return nil, err
		}
	}
	return f.Lists(), nil
}

// CreateList implements service.Service.
func (f *FakeService) CreateList(ctx context.Context, title string) (service.TodoList, error) {
	f.record("createList")
	if f.CreateListErr != nil {
		return service.TodoList{}, f.CreateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addListLocked(title).Clone(), nil
}

// DeleteList implements service.Service.
func (f *FakeService) DeleteList(ctx context.Context, listID string) error {
	f.record("deleteList")
	if f.DeleteListErr != nil {
		return f.DeleteListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(listID)
	if i < 0 {
		return notFound("deleteList", "list")
	}
	f.lists = append(f.lists[:i], f.lists[i+1:]...)
	return nil
}

// UpdateList implements service.Service.
func (f *FakeService) UpdateList(ctx context.Context, list service.TodoList) (service.TodoList, error) {
	f.record("updateList")
	if f.UpdateListErr != nil {
		return service.TodoList{}, f.UpdateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(list.ID)
	if i < 0 {
		return service.TodoList{}, notFound("updateList", "list")
	}
	f.lists[i].Title = list.Title
	return f.lists[i].Clone(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, listID, text string) (service.Task, error) {
	f.record("createTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(listID)
	if i < 0 {
		return service.Task{}, notFound("createTask", "list")
	}
	t := f.newTaskLocked(text)
	f.lists[i].Tasks = append(f.lists[i].Tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, listID string, task service.Task) (service.Task, error) {
	f.record("updateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(listID)
	if i < 0 {
		return service.Task{}, notFound("updateTask", "list")
	}
	for j := range f.lists[i].Tasks {
		if f.lists[i].Tasks[j].ID == task.ID {
			f.lists[i].Tasks[j].Text = task.Text
			f.lists[i].Tasks[j].Done = task.Done
			return f.lists[i].Tasks[j], nil
		}
	}
	return service.Task{}, notFound("updateTask", "task")
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, listID, taskID string) error {
	f.record("deleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(listID)
	if i < 0 {
		return notFound("deleteTask", "list")
	}
	for j, t := range f.lists[i].Tasks {
		if t.ID == taskID {
			f.lists[i].Tasks = append(f.lists[i].Tasks[:j], f.lists[i].Tasks[j+1:]...)
			return nil
		}
	}
	return notFound("deleteTask", "task")
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, email, name, password string) error {
	f.record("register")
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; ok {
		return &service.RequestError{Op: "register", Kind: service.KindInvalid, Message: "User already exists with email: " + email}
	}
	f.accounts[email] = password
	return nil
}

// Login implements service.Service. Any credentials are accepted when no
// account was added.
func (f *FakeService) Login(ctx context.Context, email, password string) (string, error) {
	f.record("login")
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.accounts) > 0 {
		if pw, ok := f.accounts[strings.TrimSpace(email)]; !ok || pw != password {
			return "", &service.RequestError{Op: "login", Kind: service.KindUnauthorized, Message: "Authentication failed: Bad credentials"}
		}
	}
	return f.Token, nil
}

func cloneLists(lists []service.TodoList) []service.TodoList {
	out := make([]service.TodoList, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}
