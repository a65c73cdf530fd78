// Package service defines the data model and the backend-agnostic interface for list and task operations.
package service

import "context"

// Service is the sole channel to the list/task/auth API.
// Commands and the state controller never talk HTTP directly.
//
// Updates always carry the full entity; the backend owns merge semantics.
type Service interface {
	// GetLists returns all lists of the authenticated user in server order.
	GetLists(ctx context.Context) ([]TodoList, error)

	// CreateList creates a list. The caller trims and validates the title.
	CreateList(ctx context.Context, title string) (TodoList, error)

	// DeleteList removes a list and its tasks.
	DeleteList(ctx context.Context, listID string) error

	// UpdateList overwrites the list's fields with list.
	UpdateList(ctx context.Context, list TodoList) (TodoList, error)

	// CreateTask appends a task to a list.
	CreateTask(ctx context.Context, listID, text string) (Task, error)

	// UpdateTask overwrites a task with task.
	UpdateTask(ctx context.Context, listID string, task Task) (Task, error)

	// DeleteTask removes a task. Deleting a missing task fails.
	DeleteTask(ctx context.Context, listID, taskID string) error

	// Register creates an account.
	Register(ctx context.Context, email, name, password string) error

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)
}
