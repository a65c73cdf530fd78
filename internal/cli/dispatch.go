package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/logging"
	"taskflow/internal/service"
	"taskflow/internal/session"
	"taskflow/internal/state"
)

const shellPrompt = "taskflow> "

// ServiceFactory creates a backend for cfg that authorizes requests with
// token. An empty token yields an unauthenticated backend.
type ServiceFactory func(ctx context.Context, cfg *config.Config, token string, log *zap.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       os.Stdin,
	}
}

// SetInput sets where the shell reads commands from. Defaults to stdin.
func (d *Dispatcher) SetInput(r io.Reader) {
	d.in = r
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	baseURL   string
	quiet     bool
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.StringVar(&c.baseURL, "base-url", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
}

// env is what one invocation runs against.
type env struct {
	cfg     *config.Config
	app     *state.Controller
	cleanup func()
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> print the lists
	if len(args) == 0 {
		return d.dispatch(ctx, "lists", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	if strings.EqualFold(cmdName, "shell") {
		return d.runShell(ctx, args[1:], out, errOut)
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		return d.unknownCommand(errOut, cmdName)
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	positionalArgs, code := parseFlags(fs, args, errOut)
	if code != exitcode.Success {
		return code
	}

	e, code := d.setup(ctx, common, errOut)
	if code != exitcode.Success {
		return code
	}
	defer e.cleanup()

	// Commands that need auth run after a completed fetch.
	if cmd.NeedsAuth() {
		if err := e.app.Start(ctx); err != nil {
			return startupError(errOut, err)
		}
		if !e.app.State().LoggedIn() {
			fmt.Fprintln(errOut, "error: not logged in (run: taskflow login)")
			return exitcode.AuthError
		}
	} else if _, err := e.app.Restore(); err != nil {
		return startupError(errOut, err)
	}

	return cmd.Run(ctx, e.cfg, e.app, positionalArgs, out, errOut)
}

// runShell starts one session and runs commands read from d.in, one per
// line, until EOF or exit. It returns the exit code of the last command.
func (d *Dispatcher) runShell(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var common commonFlags
	common.register(fs)

	rest, code := parseFlags(fs, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if len(rest) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", rest[0])
		return exitcode.UserError
	}

	e, code := d.setup(ctx, common, errOut)
	if code != exitcode.Success {
		return code
	}
	defer e.cleanup()

	if err := e.app.Start(ctx); err != nil {
		fmt.Fprintf(errOut, "warning: %s (run: refresh)\n", err)
	}

	interactive := isTerminal(d.in)
	scanner := bufio.NewScanner(d.in)
	last := exitcode.Success

	for ctx.Err() == nil {
		if interactive {
			fmt.Fprint(errOut, shellPrompt)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words, err := splitWords(line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			last = exitcode.UserError
			continue
		}

		switch strings.ToLower(words[0]) {
		case "exit", "quit":
			return last
		case "shell":
			fmt.Fprintln(errOut, "error: already in shell")
			last = exitcode.UserError
			continue
		}

		last = d.runLine(ctx, e, words, out, errOut)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: read input: %v\n", err)
		return exitcode.UserError
	}
	return last
}

// runLine runs one shell command against the shared session.
func (d *Dispatcher) runLine(ctx context.Context, e *env, words []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(words[0])
	if !ok {
		return d.unknownCommand(errOut, words[0])
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)

	positionalArgs, code := parseFlags(fs, words[1:], errOut)
	if code != exitcode.Success {
		return code
	}

	if cmd.NeedsAuth() && !e.app.State().LoggedIn() {
		fmt.Fprintln(errOut, "error: not logged in (run: login)")
		return exitcode.AuthError
	}

	return cmd.Run(ctx, e.cfg, e.app, positionalArgs, out, errOut)
}

// setup loads the config and builds the logger, session store and controller.
func (d *Dispatcher) setup(ctx context.Context, common commonFlags, errOut io.Writer) (*env, int) {
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	if common.baseURL != "" {
		cfg.BaseURL = common.baseURL
	}

	log, cleanup := logging.New(cfg, errOut)
	log.Debug("config loaded",
		zap.String("dir", cfg.Dir),
		zap.String("base_url", cfg.APIBaseURL()),
		zap.Duration("timeout", cfg.Timeout))

	connect := func(token string) (service.Service, error) {
		if d.factory == nil {
			return nil, errors.New("no backend configured")
		}
		return d.factory(ctx, cfg, token, log.Named("api"))
	}

	store := session.NewStore(cfg, log.Named("session"))
	app := state.New(store, connect, log.Named("state"))
	return &env{cfg: cfg, app: app, cleanup: cleanup}, exitcode.Success
}

// parseFlags parses args into fs and returns the positional args. A
// non-success code means the error was already printed.
func parseFlags(fs *flag.FlagSet, args []string, errOut io.Writer) ([]string, int) {
	if err := fs.Parse(args); err != nil {
		// Handle specific error types
		errStr := err.Error()

		// Check for missing flag value
		if strings.Contains(errStr, "flag needs an argument") {
			flagPart := strings.TrimPrefix(errStr, "flag needs an argument: ")
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return nil, exitcode.UserError
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return nil, exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return nil, exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return nil, exitcode.UserError
	}
	return positionalArgs, exitcode.Success
}

func (d *Dispatcher) unknownCommand(errOut io.Writer, name string) int {
	if hint := d.registry.Suggest(name); hint != "" {
		fmt.Fprintf(errOut, "error: unknown command: %s (did you mean %s?)\n", name, hint)
	} else {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
	}
	return exitcode.UserError
}

// startupError reports a failed session restore or initial fetch.
func startupError(errOut io.Writer, err error) int {
	msg := err.Error()
	if service.IsUnauthorized(err) {
		msg += " (run: taskflow logout, then taskflow login)"
	}
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return exitcode.FromError(err)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
