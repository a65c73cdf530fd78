package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/state"
)

func init() {
	Register(&RenameListCmd{})
}

// RenameListCmd implements the renamelist command.
type RenameListCmd struct{}

func (c *RenameListCmd) Name() string      { return "renamelist" }
func (c *RenameListCmd) Aliases() []string { return nil }
func (c *RenameListCmd) Synopsis() string  { return "Rename a list" }
func (c *RenameListCmd) Usage() string {
	return "taskflow renamelist [common flags] <list> <title...>"
}
func (c *RenameListCmd) NeedsAuth() bool { return true }

func (c *RenameListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RenameListCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return fail(errOut, usage("list required"))
	}

	list, err := app.List(args[0])
	if err != nil {
		return fail(errOut, err)
	}
	if err := app.RenameList(ctx, list, joinArgs(args[1:])); err != nil {
		return fail(errOut, err)
	}
	return succeed(cfg, app, out, errOut)
}
