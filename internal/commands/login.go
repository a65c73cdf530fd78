package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/state"
)

func init() {
	Register(&LoginCmd{})
}

// ReadPassword reads a password when --password is not given. It prompts
// on errOut and reads stdin without echo when stdin is a terminal, and
// returns an empty password otherwise.
var ReadPassword = func(errOut io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprint(errOut, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	return string(b), err
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in and save the session" }
func (c *LoginCmd) Usage() string {
	return "taskflow login [common flags] [--password <pw>] <email>"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	if st := app.State(); st.LoggedIn() {
		if !cfg.Quiet {
			fmt.Fprintf(out, "already logged in as %s\n", st.User.Email)
		}
		return exitcode.Success
	}

	email := c.email
	if email == "" {
		email = joinArgs(args)
	}

	password := c.password
	if password == "" {
		var err error
		password, err = ReadPassword(errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to read password: %v\n", err)
			return exitcode.UserError
		}
	}

	if err := app.Login(ctx, email, password); err != nil {
		return fail(errOut, err)
	}

	st := app.State()
	if st.Err != nil {
		fmt.Fprintf(errOut, "warning: %s (run: taskflow refresh)\n", st.Err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", st.User.Name)
	}
	return exitcode.Success
}
