package output_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/output"
	"taskflow/internal/service"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func withNow(t *testing.T) {
	t.Helper()
	prev := output.Now
	output.Now = func() time.Time { return now }
	t.Cleanup(func() { output.Now = prev })
}

func sampleLists() []service.TodoList {
	return []service.TodoList{
		{
			ID:        "l1",
			Title:     "Groceries",
			CreatedAt: service.NewTimestamp(now.Add(-3 * 24 * time.Hour)),
			Tasks: []service.Task{
				{ID: "t1", Text: "Milk", Done: true},
				{ID: "t2", Text: "Bread"},
				{ID: "t3", Text: "Eggs"},
			},
		},
		{
			ID:        "l2",
			Title:     "work",
			CreatedAt: service.NewTimestamp(now.Add(-2 * time.Hour)),
			Tasks:     []service.Task{},
		},
	}
}

func TestCards(t *testing.T) {
	withNow(t)
	var buf bytes.Buffer

	output.NewPrinter(&buf).Cards(output.Entries(sampleLists()))

	want := "" +
		"a  Groceries  1/3 done  created 3 days ago\n" +
		"b  work       0/0 done  created 2 hours ago\n"
	assert.Equal(t, want, buf.String())
}

func TestCards_EmptyState(t *testing.T) {
	var buf bytes.Buffer

	output.NewPrinter(&buf).Cards(nil)

	assert.Equal(t, output.EmptyState+"\n", buf.String())
}

func TestCards_NoCreatedAt(t *testing.T) {
	var buf bytes.Buffer

	output.NewPrinter(&buf).Cards(output.Entries([]service.TodoList{{ID: "x", Title: " "}}))

	assert.Equal(t, "a  (untitled)  0/0 done\n", buf.String())
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer

	output.NewPrinter(&buf).Summary(output.ComputeStats(sampleLists()))

	assert.Equal(t, output.ListSeparator+"\n2 lists, 1/3 tasks done (33%)\n", buf.String())
}

func TestTaskView(t *testing.T) {
	var buf bytes.Buffer
	e := output.Entries(sampleLists())[0]

	output.NewPrinter(&buf).TaskView(e)

	want := "" +
		"------------\n" +
		"a  Groceries (1/3 done)\n" +
		"------------\n" +
		"   2  [ ] Bread\n" +
		"   3  [ ] Eggs\n" +
		"   1  [x] Milk\n"
	assert.Equal(t, want, buf.String())
}

func TestTaskView_AllDoneAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := output.NewPrinter(&buf)

	p.TaskView(output.Entry{Letter: 'c', List: service.TodoList{Title: "Done", Tasks: []service.Task{{Text: "x", Done: true}}}})
	assert.True(t, strings.HasSuffix(buf.String(), "   1  [x] x\nall done\n"), buf.String())

	buf.Reset()
	p.TaskView(output.Entry{Letter: 'd', List: service.TodoList{Title: "Empty"}})
	assert.True(t, strings.HasSuffix(buf.String(), "(no tasks)\n"), buf.String())
}

func TestFormatTask_Newlines(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTask(&buf, 12, service.Task{Text: "a\nb"})
	assert.Equal(t, "  12  [ ] a b\n", buf.String())
}

func TestFilter(t *testing.T) {
	entries := output.Entries(sampleLists())

	got := output.Filter(entries, " GROC")
	require.Len(t, got, 1)
	assert.Equal(t, 'a', got[0].Letter)

	assert.Len(t, output.Filter(entries, ""), 2)
	assert.Empty(t, output.Filter(entries, "nothing"))
}

func TestSort(t *testing.T) {
	entries := output.Entries(sampleLists())

	byDate := output.Sort(entries, output.SortDate)
	assert.Equal(t, "work", byDate[0].List.Title)
	assert.Equal(t, 'b', byDate[0].Letter)

	byTitle := output.Sort(byDate, output.SortTitle)
	assert.Equal(t, "Groceries", byTitle[0].List.Title)

	// The input is not reordered.
	assert.Equal(t, "Groceries", entries[0].List.Title)
}

func TestParseSortKey(t *testing.T) {
	k, err := output.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, output.SortDate, k)

	k, err = output.ParseSortKey("Title")
	require.NoError(t, err)
	assert.Equal(t, output.SortTitle, k)

	_, err = output.ParseSortKey("size")
	assert.Error(t, err)
}

func TestStatsRate(t *testing.T) {
	assert.Equal(t, 0, output.Stats{}.Rate())
	assert.Equal(t, 67, output.Stats{Tasks: 3, Done: 2}.Rate())
	assert.Equal(t, 100, output.Stats{Tasks: 1, Done: 1}.Rate())
}

func TestSplitTasks(t *testing.T) {
	pending, completed := output.SplitTasks(sampleLists()[0].Tasks)

	require.Len(t, pending, 2)
	require.Len(t, completed, 1)
	assert.Equal(t, 2, pending[0].Num)
	assert.Equal(t, 1, completed[0].Num)
}

func TestEncode(t *testing.T) {
	lists := []service.TodoList{{
		ID:        "l1",
		Title:     "T",
		Tasks:     []service.Task{},
		CreatedAt: service.ParseTimestamp("2024-01-02T10:00:00"),
	}}

	var buf bytes.Buffer
	require.NoError(t, output.Encode(&buf, output.FormatJSON, lists))
	assert.Contains(t, buf.String(), `"createdAt": "2024-01-02T10:00:00"`)
	assert.Contains(t, buf.String(), `"tasks": []`)

	buf.Reset()
	require.NoError(t, output.Encode(&buf, output.FormatYAML, lists))
	assert.Equal(t, "- id: l1\n  title: T\n  tasks: []\n  createdAt: \"2024-01-02T10:00:00\"\n", buf.String())

	assert.Error(t, output.Encode(&buf, output.FormatText, lists))
}

func TestParseFormat(t *testing.T) {
	f, err := output.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, output.FormatText, f)

	f, err = output.ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, output.FormatYAML, f)

	_, err = output.ParseFormat("xml")
	assert.Error(t, err)
}
