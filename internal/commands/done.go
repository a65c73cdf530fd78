package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/state"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
	Register(&ToggleCmd{})
}

type doneMode int

const (
	markDone doneMode = iota
	markPending
	flip
)

// DoneCmd implements the done command.
type DoneCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *DoneCmd) SetListName(name string) {
	c.listName = name
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskflow done [common flags] [--list <list>] <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	return runSetDone(ctx, cfg, app, c.listName, markDone, args, out, errOut)
}

// UndoCmd marks a task pending again.
type UndoCmd struct {
	listName string
}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoCmd) Synopsis() string  { return "Mark a task pending" }
func (c *UndoCmd) Usage() string     { return "taskflow undo [common flags] [--list <list>] <ref>" }
func (c *UndoCmd) NeedsAuth() bool   { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	return runSetDone(ctx, cfg, app, c.listName, markPending, args, out, errOut)
}

// ToggleCmd flips a task between pending and completed.
type ToggleCmd struct {
	listName string
}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return nil }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between pending and completed" }
func (c *ToggleCmd) Usage() string     { return "taskflow toggle [common flags] [--list <list>] <ref>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	return runSetDone(ctx, cfg, app, c.listName, flip, args, out, errOut)
}

func runSetDone(ctx context.Context, cfg *config.Config, app *state.Controller, listName string, mode doneMode, args []string, out, errOut io.Writer) int {
	list, task, rest, err := lookupTask(app, listName, args)
	if err != nil {
		return fail(errOut, err)
	}
	if len(rest) > 0 {
		return fail(errOut, usage("unexpected argument: %s", rest[0]))
	}

	switch mode {
	case markDone:
		err = app.SetDone(ctx, list.ID, task, true)
	case markPending:
		err = app.SetDone(ctx, list.ID, task, false)
	default:
		err = app.ToggleTask(ctx, list.ID, task)
	}
	if err != nil {
		return fail(errOut, err)
	}
	return succeed(cfg, app, out, errOut)
}
