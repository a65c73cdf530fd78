package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/config"
	"taskflow/internal/devserver"
	"taskflow/internal/exitcode"
	"taskflow/internal/state"
)

const shutdownTimeout = 5 * time.Second

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the in-memory API server until the context is cancelled.
type ServeCmd struct {
	addr     string
	secret   string
	tokenTTL time.Duration
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run a local in-memory API server" }
func (c *ServeCmd) Usage() string {
	return "taskflow serve [common flags] [--addr <host:port>] [--secret <s>] [--token-ttl <d>]"
}
func (c *ServeCmd) NeedsAuth() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "localhost:8080", "")
	fs.StringVar(&c.secret, "secret", "", "")
	fs.DurationVar(&c.tokenTTL, "token-ttl", devserver.DefaultTokenTTL, "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, app *state.Controller, args []string, out, errOut io.Writer) int {
	log := app.Logger().Named("devserver")

	srv, err := devserver.New(devserver.Options{Secret: c.secret, TokenTTL: c.tokenTTL, Logger: log})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	fmt.Fprintf(errOut, "serving API on http://%s%s\n", ln.Addr(), devserver.BasePath)
	log.Info("listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(errOut, "error: shutdown: %v\n", err)
		return exitcode.BackendError
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "stopped")
	}
	return exitcode.Success
}
