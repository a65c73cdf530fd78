package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"taskflow/internal/commands"
	"taskflow/internal/exitcode"
)

// withPassword makes the password prompt return pw for the test.
func withPassword(t *testing.T, pw string) {
	t.Helper()
	orig := commands.ReadPassword
	commands.ReadPassword = func(io.Writer) (string, error) { return pw, nil }
	t.Cleanup(func() { commands.ReadPassword = orig })
}

func TestLoginCommand_Success(t *testing.T) {
	e := newEnv(t)
	e.fake.AddList("Inbox")
	withPassword(t, "hunter2")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, e, []string{"ann@example.com"}, false)

	expectResult(t, stdout, stderr, code, "logged in as ann\n", "", exitcode.Success)

	sess, ok := e.store.Load()
	if !ok {
		t.Fatal("expected session to be saved")
	}
	if sess.Token != "fake-token" || sess.User.Email != "ann@example.com" {
		t.Errorf("unexpected session %+v", sess)
	}
	if n := len(e.app.State().Lists); n != 1 {
		t.Errorf("expected lists fetched after login, got %d", n)
	}
}

func TestLoginCommand_PasswordFlag(t *testing.T) {
	e := newEnv(t)
	e.fake.AddAccount("ann@example.com", "hunter2")
	withPassword(t, "wrong")

	cmd := &commands.LoginCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--email", "ann@example.com", "--password", "hunter2"}); err != nil {
		t.Fatal(err)
	}
	stdout, stderr, code := runCommand(t, cmd, e, nil, true)

	expectResult(t, stdout, stderr, code, "", "", exitcode.Success)
	if !e.app.State().LoggedIn() {
		t.Error("expected logged in")
	}
}

func TestLoginCommand_EmptyPassword(t *testing.T) {
	e := newEnv(t)
	withPassword(t, "")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, e, []string{"ann@example.com"}, false)

	expectResult(t, stdout, stderr, code, "", "error: password is required\n", exitcode.UserError)
	if n := e.fake.TotalCalls(); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
}

func TestLoginCommand_InvalidEmail(t *testing.T) {
	e := newEnv(t)
	withPassword(t, "pw")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, e, []string{"not-an-email"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" || !strings.HasPrefix(stderr, "error: email ") {
		t.Errorf("unexpected output %q / %q", stdout, stderr)
	}
	if n := e.fake.TotalCalls(); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	e := newEnv(t)
	e.fake.AddAccount("ann@example.com", "hunter2")
	withPassword(t, "wrong")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, e, []string{"ann@example.com"}, false)

	expectResult(t, stdout, stderr, code, "", "error: Authentication failed: Bad credentials\n", exitcode.AuthError)
	if _, ok := e.store.Load(); ok {
		t.Error("expected no session saved")
	}
	if e.app.State().LoggedIn() {
		t.Error("expected state unchanged")
	}
}

func TestLoginCommand_FetchFailsAfterLogin(t *testing.T) {
	e := newEnv(t)
	e.fake.GetListsErr = errors.New("failed to fetch lists")
	withPassword(t, "pw")

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, e, []string{"ann@example.com"}, false)

	expectResult(t, stdout, stderr, code, "logged in as ann\n", "warning: failed to fetch lists (run: taskflow refresh)\n", exitcode.Success)
}

func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	e := newEnv(t).loggedIn(t)

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, e, []string{"x@y.com"}, false)

	expectResult(t, stdout, stderr, code, "already logged in as a@b.com\n", "", exitcode.Success)
	if n := e.fake.Calls("login"); n != 0 {
		t.Errorf("expected no login call, got %d", n)
	}
}

func TestRegisterCommand(t *testing.T) {
	e := newEnv(t)
	withPassword(t, "pw")

	cmd := &commands.RegisterCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--name", "Ann", "ann@example.com"}); err != nil {
		t.Fatal(err)
	}
	stdout, stderr, code := runCommand(t, cmd, e, fs.Args(), false)

	expectResult(t, stdout, stderr, code, "ok (run: taskflow login)\n", "", exitcode.Success)
	if e.app.State().LoggedIn() {
		t.Error("register should not log in")
	}

	// Same email again.
	stdout, stderr, code = runCommand(t, cmd, e, fs.Args(), false)
	expectResult(t, stdout, stderr, code, "", "error: User already exists with email: ann@example.com\n", exitcode.UserError)
}

func TestRegisterCommand_MissingName(t *testing.T) {
	e := newEnv(t)
	withPassword(t, "pw")

	stdout, stderr, code := runCommand(t, &commands.RegisterCmd{}, e, []string{"ann@example.com"}, false)

	expectResult(t, stdout, stderr, code, "", "error: name is required\n", exitcode.UserError)
	if n := e.fake.TotalCalls(); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
}

func TestLogoutCommand(t *testing.T) {
	e := newEnv(t)
	seedShopping(e)
	e.loggedIn(t)

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, e, nil, false)

	expectResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if _, ok := e.store.Load(); ok {
		t.Error("expected session removed")
	}
	st := e.app.State()
	if st.LoggedIn() || st.Lists != nil {
		t.Errorf("expected empty state, got %+v", st)
	}

	stdout, stderr, code = runCommand(t, &commands.LogoutCmd{}, e, nil, false)
	expectResult(t, stdout, stderr, code, "not logged in\n", "", exitcode.Success)
}

func TestWhoamiCommand(t *testing.T) {
	e := newEnv(t)

	stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, e, nil, false)
	expectResult(t, stdout, stderr, code, "", "error: not logged in (run: taskflow login)\n", exitcode.AuthError)

	e.loggedIn(t)
	stdout, stderr, code = runCommand(t, &commands.WhoamiCmd{}, e, nil, false)
	expectResult(t, stdout, stderr, code, "a <a@b.com>\n", "", exitcode.Success)
}

func TestMutationAfterLogout_NotLoggedIn(t *testing.T) {
	e := newEnv(t)
	seedShopping(e)
	e.loggedIn(t)
	if err := e.app.Logout(); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, &commands.CreateListCmd{}, e, []string{"New"}, false)

	expectResult(t, stdout, stderr, code, "", "error: not logged in (run: taskflow login)\n", exitcode.AuthError)
	if n := e.fake.Calls("createList"); n != 0 {
		t.Errorf("expected no createList call, got %d", n)
	}
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServeCommand(t *testing.T) {
	e := newEnv(t)

	cmd := &commands.ServeCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--addr", "127.0.0.1:0", "--secret", "s3cret"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var out, errOut syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- cmd.Run(ctx, e.cfg, e.app, nil, &out, &errOut)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(errOut.String(), "serving API on http://127.0.0.1:") {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("server did not start: %q", errOut.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.HasSuffix(strings.TrimSpace(errOut.String()), "/api") {
		t.Errorf("expected API base path in %q", errOut.String())
	}

	cancel()
	select {
	case code := <-done:
		if code != exitcode.Success {
			t.Errorf("expected exit code %d, got %d (%q)", exitcode.Success, code, errOut.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
	if out.String() != "stopped\n" {
		t.Errorf("expected stopped, got %q", out.String())
	}
}
