package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/state"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	// Registry lists the commands to describe. Defaults to DefaultRegistry.
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskflow help [<command>]" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}

	if len(args) > 0 {
		cmd, ok := reg.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		writeCommandHelp(out, cmd)
		return exitcode.Success
	}

	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  taskflow [common flags]")
	fmt.Fprintln(out, "      Print all lists (same as: taskflow lists)")
	for _, cmd := range reg.All() {
		writeCommandHelp(out, cmd)
	}
	fmt.Fprintln(out, "  taskflow shell [common flags]")
	fmt.Fprintln(out, "      Read commands from stdin, one per line, until exit or quit")
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

func writeCommandHelp(w io.Writer, cmd Command) {
	fmt.Fprintf(w, "  %s\n", cmd.Usage())
	synopsis := cmd.Synopsis()
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		synopsis += " (alias: " + strings.Join(aliases, ", ") + ")"
	}
	fmt.Fprintf(w, "      %s\n", synopsis)
}

const helpFooter = `
Lists are named by id, by title, or by letter (a, b, ...) in server order.
Tasks are named by number within a list: 3 (first list), b3 or b 3.

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override the API base URL
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
