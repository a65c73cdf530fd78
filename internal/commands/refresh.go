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
	Register(&RefreshCmd{})
}

// RefreshCmd refetches the lists, retrying after a failed fetch.
type RefreshCmd struct{}

func (c *RefreshCmd) Name() string      { return "refresh" }
func (c *RefreshCmd) Aliases() []string { return []string{"retry"} }
func (c *RefreshCmd) Synopsis() string  { return "Fetch the lists again" }
func (c *RefreshCmd) Usage() string     { return "taskflow refresh [common flags]" }
func (c *RefreshCmd) NeedsAuth() bool   { return false }

func (c *RefreshCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RefreshCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	if err := app.Refresh(ctx); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		s := output.ComputeStats(app.State().Lists)
		fmt.Fprintf(out, "ok (%d lists, %d/%d tasks done)\n", s.Lists, s.Done, s.Tasks)
	}
	return exitcode.Success
}
