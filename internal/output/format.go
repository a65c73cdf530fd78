// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"taskflow/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// EmptyState is printed instead of list cards when there are no lists.
	EmptyState = "no lists yet (create one: taskflow createlist <title>)"
)

// Now is the reference time for relative dates.
var Now = time.Now

// Printer writes styled output. Styles are dropped when w is not a terminal.
type Printer struct {
	w     io.Writer
	title lipgloss.Style
	faint lipgloss.Style
	done  lipgloss.Style
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		title: r.NewStyle().Bold(true),
		faint: r.NewStyle().Faint(true),
		done:  r.NewStyle().Faint(true).Strikethrough(true),
	}
}

// Cards prints one line per entry: letter, title, done/total and age.
// Titles are padded to a common width.
func (p *Printer) Cards(entries []Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, EmptyState)
		return
	}

	width := 0
	for _, e := range entries {
		if n := lipgloss.Width(normalizeListTitle(e.List.Title)); n > width {
			width = n
		}
	}

	for _, e := range entries {
		title := normalizeListTitle(e.List.Title)
		pad := strings.Repeat(" ", width-lipgloss.Width(title))
		meta := fmt.Sprintf("%d/%d done", e.List.DoneCount(), len(e.List.Tasks))
		if age := relativeAge(e.List.CreatedAt); age != "" {
			meta += "  created " + age
		}
		fmt.Fprintf(p.w, "%s  %s%s  %s\n", letter(e.Letter), p.title.Render(title), pad, p.faint.Render(meta))
	}
}

// Summary prints the completion statistics line.
func (p *Printer) Summary(s Stats) {
	fmt.Fprintln(p.w, ListSeparator)
	fmt.Fprintf(p.w, "%s, %d/%d tasks done (%d%%)\n", plural(s.Lists, "list"), s.Done, s.Tasks, s.Rate())
}

// TaskView prints a list header, then pending tasks, then completed tasks.
// Task numbers are positions in server order.
func (p *Printer) TaskView(e Entry) {
	FormatListHeader(p.w, e)

	if len(e.List.Tasks) == 0 {
		fmt.Fprintln(p.w, p.faint.Render("(no tasks)"))
		return
	}

	pending, completed := SplitTasks(e.List.Tasks)
	for _, nt := range pending {
		FormatTask(p.w, nt.Num, nt.Task)
	}
	for _, nt := range completed {
		fmt.Fprintf(p.w, "%4d  %s\n", nt.Num, p.done.Render("[x] "+normalizeTitle(nt.Task.Text)))
	}
	if len(pending) == 0 {
		fmt.Fprintln(p.w, "all done")
	}
}

// FormatTask formats a pending task line.
// Format: "{N:>4}  [ ] {TEXT}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := "[ ]"
	if task.Done {
		mark = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, mark, normalizeTitle(task.Text))
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, e Entry) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s  %s (%d/%d done)\n", letter(e.Letter), normalizeListTitle(e.List.Title),
		e.List.DoneCount(), len(e.List.Tasks))
	fmt.Fprintln(w, ListSeparator)
}

func letter(r rune) string {
	if r == 0 {
		return "-"
	}
	return string(r)
}

func relativeAge(ts service.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return humanize.RelTime(ts.Time, Now(), "ago", "from now")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// normalizeTitle normalizes a task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	return normalizeTitle(title)
}
