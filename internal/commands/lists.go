package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/output"
	"taskflow/internal/state"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct {
	search string
	sort   string
	format string
}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print all lists with progress" }
func (c *ListsCmd) Usage() string {
	return "taskflow lists [common flags] [--search <text>] [--sort date|title] [--format text|json|yaml]"
}
func (c *ListsCmd) NeedsAuth() bool { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.sort, "sort", "date", "")
	fs.StringVar(&c.format, "format", "text", "")
}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	key, err := output.ParseSortKey(c.sort)
	if err != nil {
		return fail(errOut, usage("%s", err))
	}
	format, err := output.ParseFormat(c.format)
	if err != nil {
		return fail(errOut, usage("%s", err))
	}

	st := app.State()
	if st.Err != nil {
		if st.Lists == nil {
			return fail(errOut, st.Err)
		}
		fmt.Fprintf(errOut, "warning: %s (showing last fetched lists; run: taskflow refresh)\n", st.Err)
	}

	all := output.Entries(st.Lists)
	entries := output.Sort(output.Filter(all, c.search), key)

	if format != output.FormatText {
		if err := output.Encode(out, format, output.Lists(entries)); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	p := output.NewPrinter(out)
	if len(all) == 0 {
		p.Cards(nil)
		return exitcode.Success
	}
	if len(entries) == 0 {
		fmt.Fprintf(out, "no lists match %q\n", c.search)
		return exitcode.Success
	}
	p.Cards(entries)
	p.Summary(output.ComputeStats(st.Lists))
	return exitcode.Success
}
