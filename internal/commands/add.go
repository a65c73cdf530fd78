package commands

import (
	"context"
	"flag"
	"io"

	"taskflow/internal/config"
	"taskflow/internal/service"
	"taskflow/internal/state"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	listName string
}

// SetListName sets the list name (for testing).
func (c *AddCmd) SetListName(name string) {
	c.listName = name
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskflow add [common flags] [--list <list>] <text...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, app, c.listName, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	listName string
}

func (c *CreateCmd) Name() string      { return "create" }
func (c *CreateCmd) Aliases() []string { return nil }
func (c *CreateCmd) Synopsis() string  { return "Create a task (alias for add)" }
func (c *CreateCmd) Usage() string     { return "taskflow create [common flags] [--list <list>] <text...>" }
func (c *CreateCmd) NeedsAuth() bool   { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, app, c.listName, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
// Without --list the task goes to the first list.
func runAdd(ctx context.Context, cfg *config.Config, app *state.Controller, listName string, args []string, out, errOut io.Writer) int {
	text := joinArgs(args)
	if text == "" {
		return fail(errOut, &service.ValidationError{Field: "text", Message: "text is required"})
	}

	list, err := targetList(app, listName, TaskRef{})
	if err != nil {
		return fail(errOut, err)
	}

	if err := app.AddTask(ctx, list.ID, text); err != nil {
		return fail(errOut, err)
	}
	return succeed(cfg, app, out, errOut)
}
