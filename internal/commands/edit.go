package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/state"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd replaces a task's text.
type EditCmd struct {
	listName string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change the text of a task" }
func (c *EditCmd) Usage() string {
	return "taskflow edit [common flags] [--list <list>] <ref> <text...>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	list, task, rest, err := lookupTask(app, c.listName, args)
	if err != nil {
		return fail(errOut, err)
	}
	if err := app.EditTask(ctx, list.ID, task, joinArgs(rest)); err != nil {
		return fail(errOut, err)
	}
	return succeed(cfg, app, out, errOut)
}
