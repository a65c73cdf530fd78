package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/state"
)

func init() {
	Register(&CreateListCmd{})
}

// CreateListCmd implements the createlist command.
type CreateListCmd struct{}

func (c *CreateListCmd) Name() string      { return "createlist" }
func (c *CreateListCmd) Aliases() []string { return []string{"addlist"} }
func (c *CreateListCmd) Synopsis() string  { return "Create a list" }
func (c *CreateListCmd) Usage() string     { return "taskflow createlist [common flags] <title...>" }
func (c *CreateListCmd) NeedsAuth() bool   { return true }

func (c *CreateListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateListCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	if err := app.CreateList(ctx, joinArgs(args)); err != nil {
		return fail(errOut, err)
	}
	return succeed(cfg, app, out, errOut)
}
