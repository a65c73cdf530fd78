package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func sampleLists() []TodoList {
	return []TodoList{
		{ID: "l1", Title: "Groceries"},
		{ID: "l2", Title: " Work "},
		{ID: "l3", Title: "Home"},
		{ID: "l4", Title: "home"},
		{ID: "Work", Title: "Id collision"},
	}
}

func TestResolveList(t *testing.T) {
	lists := sampleLists()

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{"l1", "l1", nil},
		{"groceries", "l1", nil},
		{"  GROCERIES ", "l1", nil},
		{"work", "l2", nil},
		{"Work", "Work", nil}, // ID wins over title
		{"HOME", "", ErrAmbiguousList},
		{"nope", "", ErrListNotFound},
		{"  ", "", ErrListNotFound},
	}

	for _, tt := range tests {
		got, err := ResolveList(lists, tt.ref)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolveList(%q): expected %v, got %v", tt.ref, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ResolveList(%q): unexpected error: %v", tt.ref, err)
			continue
		}
		if got.ID != tt.wantID {
			t.Errorf("ResolveList(%q) = %s, want %s", tt.ref, got.ID, tt.wantID)
		}
	}
}

func TestResolveList_ErrorMessage(t *testing.T) {
	_, err := ResolveList(sampleLists(), "Nope")
	if err == nil || err.Error() != "list not found: Nope" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestResolveListByLetter(t *testing.T) {
	lists := sampleLists()

	got, err := ResolveListByLetter(lists, 'b')
	if err != nil || got.ID != "l2" {
		t.Errorf("expected l2, got %v %v", got.ID, err)
	}

	for _, r := range []rune{'f', 'A', '1'} {
		if _, err := ResolveListByLetter(lists, r); !errors.Is(err, ErrListNotFound) {
			t.Errorf("letter %q: expected ErrListNotFound, got %v", r, err)
		}
	}
}

func TestLetterFor(t *testing.T) {
	if got := LetterFor(0); got != 'a' {
		t.Errorf("LetterFor(0) = %q", got)
	}
	if got := LetterFor(25); got != 'z' {
		t.Errorf("LetterFor(25) = %q", got)
	}
	if got := LetterFor(26); got != 0 {
		t.Errorf("LetterFor(26) = %q, want 0", got)
	}
	if got := LetterFor(-1); got != 0 {
		t.Errorf("LetterFor(-1) = %q, want 0", got)
	}
}

func TestTaskAt(t *testing.T) {
	list := TodoList{Tasks: []Task{{ID: "t1"}, {ID: "t2"}}}

	got, err := TaskAt(list, 2)
	if err != nil || got.ID != "t2" {
		t.Errorf("expected t2, got %v %v", got.ID, err)
	}

	for _, n := range []int{0, 3, -1} {
		_, err := TaskAt(list, n)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("TaskAt(%d): expected ErrTaskNotFound, got %v", n, err)
		}
		if want := fmt.Sprintf("task not found: %d", n); err != nil && err.Error() != want {
			t.Errorf("TaskAt(%d): expected %q, got %q", n, want, err.Error())
		}
	}
}

func TestTodoList_CloneAndDoneCount(t *testing.T) {
	list := TodoList{ID: "l1", Tasks: []Task{{ID: "t1", Done: true}, {ID: "t2"}}}

	c := list.Clone()
	c.Tasks[0].Done = false

	if !list.Tasks[0].Done {
		t.Error("clone shares task storage")
	}
	if n := list.DoneCount(); n != 1 {
		t.Errorf("DoneCount = %d, want 1", n)
	}
	if empty := (TodoList{}).Clone(); empty.Tasks != nil {
		t.Error("clone of nil tasks should stay nil")
	}
}

func TestUserFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  User
	}{
		{"ann@example.com", User{Email: "ann@example.com", Name: "ann"}},
		{" bob@x.io ", User{Email: "bob@x.io", Name: "bob"}},
		{"@x.io", User{Email: "@x.io", Name: "@x.io"}},
	}
	for _, tt := range tests {
		if got := UserFromEmail(tt.email); got != tt.want {
			t.Errorf("UserFromEmail(%q) = %+v, want %+v", tt.email, got, tt.want)
		}
	}
}

func TestTimestamp_ParseForms(t *testing.T) {
	ts := ParseTimestamp("2024-01-02T10:00:00Z")
	if !ts.Time.Equal(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("RFC 3339: got %v", ts.Time)
	}

	ts = ParseTimestamp("2024-01-02T10:00:00.123")
	want := time.Date(2024, 1, 2, 10, 0, 0, 123000000, time.Local)
	if !ts.Time.Equal(want) {
		t.Errorf("zone-less: got %v, want %v", ts.Time, want)
	}

	ts = ParseTimestamp("yesterday")
	if !ts.IsZero() || ts.String() != "yesterday" {
		t.Errorf("unparseable: got %v %q", ts.Time, ts.String())
	}
}

func TestTimestamp_JSONKeepsRawText(t *testing.T) {
	in := `{"id":"t1","text":"x","done":false,"createdAt":"2024-01-02T10:00:00"}`

	var task Task
	if err := json.Unmarshal([]byte(in), &task); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("expected %s, got %s", in, out)
	}
}

func TestTimestamp_NullAndMissing(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":"t1","createdAt":null}`), &task); err != nil {
		t.Fatal(err)
	}
	if !task.CreatedAt.IsZero() {
		t.Error("expected zero timestamp")
	}
	out, _ := json.Marshal(task.CreatedAt)
	if string(out) != "null" {
		t.Errorf("expected null, got %s", out)
	}
}

func TestKindForStatus(t *testing.T) {
	tests := map[int]Kind{
		401: KindUnauthorized,
		403: KindUnauthorized,
		404: KindNotFound,
		400: KindInvalid,
		409: KindInvalid,
		422: KindInvalid,
		500: KindServer,
		503: KindServer,
		302: KindUnknown,
	}
	for code, want := range tests {
		if got := KindForStatus(code); got != want {
			t.Errorf("KindForStatus(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestErrorHelpers(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("wrapped: %w", &RequestError{Op: "getLists", Kind: KindUnauthorized, Message: "invalid or expired token", Err: cause})

	if !IsUnauthorized(err) {
		t.Error("expected unauthorized")
	}
	if KindOf(err) != KindUnauthorized {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("expected unknown kind for plain error")
	}

	verr := fmt.Errorf("form: %w", &ValidationError{Field: "title", Message: "title is required"})
	if !IsValidation(verr) || IsValidation(err) {
		t.Error("IsValidation mismatch")
	}
}
