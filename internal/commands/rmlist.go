package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/state"
)

func init() {
	Register(&RmListCmd{})
}

// RmListCmd implements the rmlist command.
type RmListCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *RmListCmd) SetForce(force bool) {
	c.force = force
}

func (c *RmListCmd) Name() string      { return "rmlist" }
func (c *RmListCmd) Aliases() []string { return nil }
func (c *RmListCmd) Synopsis() string  { return "Delete a list and its tasks" }
func (c *RmListCmd) Usage() string     { return "taskflow rmlist [common flags] [--force] <list>" }
func (c *RmListCmd) NeedsAuth() bool   { return true }

func (c *RmListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *RmListCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	ref := joinArgs(args)
	if ref == "" {
		return fail(errOut, usage("list required"))
	}

	list, err := app.List(ref)
	if err != nil {
		return fail(errOut, err)
	}

	if !c.force && len(list.Tasks) > 0 {
		return fail(errOut, usage("list not empty (use --force)"))
	}

	if err := app.DeleteList(ctx, list.ID); err != nil {
		return fail(errOut, err)
	}
	return succeed(cfg, app, out, errOut)
}
