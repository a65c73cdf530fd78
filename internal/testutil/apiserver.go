package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"taskflow/internal/devserver"
)

// APIServer is a reference API server on a loopback port.
type APIServer struct {
	*httptest.Server

	// BaseURL is the API root to configure clients with.
	BaseURL string
}

// NewAPIServer starts an in-memory API server that is closed when the test ends.
func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()

	srv, err := devserver.New(devserver.Options{Secret: "test-secret", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("failed to create API server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &APIServer{Server: ts, BaseURL: ts.URL + devserver.BasePath}
}
