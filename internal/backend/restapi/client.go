// Package restapi implements service.Service over the list/task HTTP API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskflow/internal/config"
	"taskflow/internal/service"
)

// Operation names, used in errors and logs.
const (
	OpGetLists   = "getLists"
	OpCreateList = "createList"
	OpDeleteList = "deleteList"
	OpUpdateList = "updateList"
	OpCreateTask = "createTask"
	OpUpdateTask = "updateTask"
	OpDeleteTask = "deleteTask"
	OpRegister   = "register"
	OpLogin      = "login"
)

// genericMessages are used when a failed response carries no readable message.
var genericMessages = map[string]string{
	OpGetLists:   "failed to fetch lists",
	OpCreateList: "failed to create list",
	OpDeleteList: "failed to delete list",
	OpUpdateList: "failed to update list",
	OpCreateTask: "failed to create task",
	OpUpdateTask: "failed to update task",
	OpDeleteTask: "failed to delete task",
	OpRegister:   "registration failed",
	OpLogin:      "login failed",
}

// maxMessageLen caps plain-text error bodies used as messages.
const maxMessageLen = 200

// Client implements service.Service against a base URL such as
// http://localhost:8080/api.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// New creates a client for cfg. When token is non-empty every request
// carries "Authorization: Bearer <token>"; otherwise the header is omitted.
func New(ctx context.Context, cfg *config.Config, token string, log *zap.Logger) (*Client, error) {
	return newClient(ctx, cfg.APIBaseURL(), token, cfg.Timeout, log)
}

// NewWithHTTPClient creates a client that sends requests through httpClient (for testing).
func NewWithHTTPClient(ctx context.Context, baseURL, token string, httpClient *http.Client) (*Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	return newClient(ctx, baseURL, token, config.DefaultTimeout, nil)
}

func newClient(ctx context.Context, baseURL, token string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &service.ValidationError{Field: "base_url", Message: fmt.Sprintf("invalid base URL: %q", baseURL)}
	}
	if log == nil {
		log = zap.NewNop()
	}

	var src oauth2.TokenSource
	if token != "" {
		src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    oauth2.NewClient(ctx, src),
		timeout: timeout,
		log:     log,
	}, nil
}

// GetLists returns all lists in server order.
func (c *Client) GetLists(ctx context.Context) ([]service.TodoList, error) {
	var lists []service.TodoList
	if err := c.do(ctx, OpGetLists, http.MethodGet, "/lists", nil, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []service.TodoList{}
	}
	return lists, nil
}

// CreateList creates a list with the given title.
func (c *Client) CreateList(ctx context.Context, title string) (service.TodoList, error) {
	var list service.TodoList
	body := map[string]string{"title": title}
	if err := c.do(ctx, OpCreateList, http.MethodPost, "/lists", body, &list); err != nil {
		return service.TodoList{}, err
	}
	return list, nil
}

// DeleteList deletes a list by ID.
func (c *Client) DeleteList(ctx context.Context, listID string) error {
	return c.do(ctx, OpDeleteList, http.MethodDelete, listPath(listID), nil, nil)
}

// UpdateList sends the full list.
func (c *Client) UpdateList(ctx context.Context, list service.TodoList) (service.TodoList, error) {
	var updated service.TodoList
	if err := c.do(ctx, OpUpdateList, http.MethodPut, listPath(list.ID), list, &updated); err != nil {
		return service.TodoList{}, err
	}
	return updated, nil
}

// CreateTask appends a task to a list.
func (c *Client) CreateTask(ctx context.Context, listID, text string) (service.Task, error) {
	var task service.Task
	body := map[string]string{"text": text}
	if err := c.do(ctx, OpCreateTask, http.MethodPost, listPath(listID)+"/tasks", body, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask sends the full task.
func (c *Client) UpdateTask(ctx context.Context, listID string, task service.Task) (service.Task, error) {
	var updated service.Task
	if err := c.do(ctx, OpUpdateTask, http.MethodPut, taskPath(listID, task.ID), task, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) error {
	return c.do(ctx, OpDeleteTask, http.MethodDelete, taskPath(listID, taskID), nil, nil)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, name, password string) error {
	body := map[string]string{"email": email, "name": name, "password": password}
	return c.do(ctx, OpRegister, http.MethodPost, "/auth/register", body, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, OpLogin, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &service.RequestError{Op: OpLogin, Kind: service.KindServer, Message: "login response has no token"}
	}
	return resp.Token, nil
}

func listPath(listID string) string {
	return "/lists/" + url.PathEscape(listID)
}

func taskPath(listID, taskID string) string {
	return listPath(listID) + "/tasks/" + url.PathEscape(taskID)
}

// do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded JSON response.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("op", op), zap.String("method", method),
			zap.String("path", path), zap.Error(err))
		return wrapError(op, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request", zap.String("op", op), zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(op, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &service.RequestError{
			Op:      op,
			Kind:    service.KindServer,
			Message: genericMessages[op] + ": invalid response",
			Err:     err,
		}
	}
	return nil
}

// wrapError turns transport and status errors into *service.RequestError.
func wrapError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &service.RequestError{
			Op:      op,
			Kind:    service.KindForStatus(gerr.Code),
			Message: responseMessage(op, gerr),
			Err:     err,
		}
	}

	msg := "network error: " + err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return &service.RequestError{Op: op, Kind: service.KindNetwork, Message: msg, Err: err}
}

// responseMessage picks the most useful text from a failed response:
// a JSON "message" or "error" field, a short plain-text body, or the
// generic message for op.
func responseMessage(op string, gerr *googleapi.Error) string {
	if gerr.Message != "" {
		return gerr.Message
	}

	body := strings.TrimSpace(gerr.Body)
	if body != "" {
		var fields map[string]interface{}
		if json.Unmarshal([]byte(body), &fields) == nil {
			for _, key := range []string{"message", "error"} {
				if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
					return s
				}
			}
		} else if len(body) <= maxMessageLen && !strings.HasPrefix(body, "<") {
			return body
		}
	}

	return genericMessages[op]
}
