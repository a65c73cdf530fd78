package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/output"
	"taskflow/internal/service"
	"taskflow/internal/state"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command: the tasks of one list, or of
// every list when no list is named.
type ShowCmd struct {
	format string
}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"list"} }
func (c *ShowCmd) Synopsis() string  { return "Print the tasks of a list" }
func (c *ShowCmd) Usage() string {
	return "taskflow show [common flags] [--format text|json|yaml] [<list>]"
}
func (c *ShowCmd) NeedsAuth() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "text", "")
}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	format, err := output.ParseFormat(c.format)
	if err != nil {
		return fail(errOut, usage("%s", err))
	}

	st := app.State()
	if st.Err != nil && st.Lists == nil {
		return fail(errOut, st.Err)
	}

	entries := output.Entries(st.Lists)
	ref := joinArgs(args)
	if ref != "" {
		list, err := app.List(ref)
		if err != nil {
			return fail(errOut, err)
		}
		entries = []output.Entry{entryFor(st.Lists, list)}
	}

	if format != output.FormatText {
		v := interface{}(output.Lists(entries))
		if ref != "" {
			v = entries[0].List
		}
		if err := output.Encode(out, format, v); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	p := output.NewPrinter(out)
	if len(entries) == 0 {
		p.Cards(nil)
		return exitcode.Success
	}
	for _, e := range entries {
		p.TaskView(e)
	}
	return exitcode.Success
}

// entryFor returns list with the letter of its position in lists.
func entryFor(lists []service.TodoList, list service.TodoList) output.Entry {
	for i, l := range lists {
		if l.ID == list.ID {
			return output.Entry{Letter: service.LetterFor(i), List: l}
		}
	}
	return output.Entry{List: list}
}
