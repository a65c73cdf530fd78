// Package service defines the data model and the backend-agnostic interface for list and task operations.
package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// User is the authenticated account. ID may be empty when the backend
// does not return one at login.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Task is a single to-do item owned by exactly one list.
type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Done      bool      `json:"done" yaml:"done"`
	CreatedAt Timestamp `json:"createdAt" yaml:"createdAt"`
}

// TodoList is a named collection of tasks. Tasks are kept in the order
// the server returned them.
type TodoList struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Tasks     []Task    `json:"tasks" yaml:"tasks"`
	CreatedAt Timestamp `json:"createdAt" yaml:"createdAt"`
}

// DoneCount returns the number of completed tasks in the list.
func (l TodoList) DoneCount() int {
	n := 0
	for _, t := range l.Tasks {
		if t.Done {
			n++
		}
	}
	return n
}

// Clone returns a copy of the list that shares no task storage with l.
func (l TodoList) Clone() TodoList {
	c := l
	if l.Tasks != nil {
		c.Tasks = make([]Task, len(l.Tasks))
		copy(c.Tasks, l.Tasks)
	}
	return c
}

// UserFromEmail builds the identity recorded after a login: the backend
// returns only a token, so the name is the local part of the email.
func UserFromEmail(email string) User {
	email = strings.TrimSpace(email)
	name := email
	if i := strings.Index(email, "@"); i > 0 {
		name = email[:i]
	}
	return User{Email: email, Name: name}
}

// localLayout is the zone-less ISO date-time some backends emit.
const localLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a creation time as sent by the server. The raw text is kept
// so full-entity updates send back exactly what was received.
type Timestamp struct {
	Time time.Time
	raw  string
}

// NewTimestamp returns a Timestamp for t in RFC 3339 form.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, raw: t.Format(time.RFC3339Nano)}
}

// ParseTimestamp parses RFC 3339 or zone-less ISO date-times.
// Unparseable input yields a zero Time but keeps the raw text.
func ParseTimestamp(s string) Timestamp {
	ts := Timestamp{raw: s}
	if s == "" {
		return ts
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		ts.Time = t
		return ts
	}
	if t, err := time.ParseInLocation(localLayout, s, time.Local); err == nil {
		ts.Time = t
	}
	return ts
}

// IsZero reports whether no creation time is known.
func (t Timestamp) IsZero() bool {
	return t.Time.IsZero()
}

// String returns the raw server text.
func (t Timestamp) String() string {
	if t.raw == "" && !t.Time.IsZero() {
		return t.Time.Format(time.RFC3339Nano)
	}
	return t.raw
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	s := t.String()
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTimestamp(s)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}
