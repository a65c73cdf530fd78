package output

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"taskflow/internal/service"
)

// Entry is a list together with its letter, which is fixed by the list's
// position in server order and survives filtering and sorting.
type Entry struct {
	Letter rune
	List   service.TodoList
}

// Entries pairs lists with their letters.
func Entries(lists []service.TodoList) []Entry {
	out := make([]Entry, len(lists))
	for i, l := range lists {
		out[i] = Entry{Letter: service.LetterFor(i), List: l}
	}
	return out
}

// Lists returns the lists of entries.
func Lists(entries []Entry) []service.TodoList {
	out := make([]service.TodoList, len(entries))
	for i, e := range entries {
		out[i] = e.List
	}
	return out
}

// Filter keeps entries whose title contains query, ignoring case.
// An empty query keeps everything.
func Filter(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.List.Title), query) {
			out = append(out, e)
		}
	}
	return out
}

// SortKey orders list cards for display.
type SortKey string

const (
	// SortDate puts the newest list first.
	SortDate SortKey = "date"

	// SortTitle orders by title, ignoring case.
	SortTitle SortKey = "title"
)

// ParseSortKey parses a --sort value.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "", SortDate:
		return SortDate, nil
	case SortTitle:
		return SortTitle, nil
	default:
		return "", fmt.Errorf("invalid sort %q (use date or title)", s)
	}
}

// Sort returns a sorted copy of entries. Ties keep server order.
func Sort(entries []Entry, key SortKey) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	switch key {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].List.Title) < strings.ToLower(out[j].List.Title)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].List.CreatedAt.Time.After(out[j].List.CreatedAt.Time)
		})
	}
	return out
}

// Stats summarizes completion across lists.
type Stats struct {
	Lists int
	Tasks int
	Done  int
}

// ComputeStats counts lists and tasks.
func ComputeStats(lists []service.TodoList) Stats {
	s := Stats{Lists: len(lists)}
	for _, l := range lists {
		s.Tasks += len(l.Tasks)
		s.Done += l.DoneCount()
	}
	return s
}

// Rate returns the completion percentage, rounded. It is 0 with no tasks.
func (s Stats) Rate() int {
	if s.Tasks == 0 {
		return 0
	}
	return int(math.Round(float64(s.Done) * 100 / float64(s.Tasks)))
}

// NumberedTask is a task with its 1-based position in server order.
type NumberedTask struct {
	Num  int
	Task service.Task
}

// SplitTasks separates pending from completed tasks, keeping server order
// within each group.
func SplitTasks(tasks []service.Task) (pending, completed []NumberedTask) {
	for i, t := range tasks {
		nt := NumberedTask{Num: i + 1, Task: t}
		if t.Done {
			completed = append(completed, nt)
		} else {
			pending = append(pending, nt)
		}
	}
	return pending, completed
}
