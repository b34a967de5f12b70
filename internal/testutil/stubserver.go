package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// NewStubServer starts an httptest server whose routes are registered by
// routes. The server is closed when the test ends.
func NewStubServer(t *testing.T, routes func(r chi.Router)) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// Respond returns a handler that writes status and body with the given
// content type.
func Respond(status int, contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// RespondJSON is Respond with an application/json content type.
func RespondJSON(status int, body string) http.HandlerFunc {
	return Respond(status, "application/json", body)
}

// ClosedURL returns the base URL of a listener that has already been closed,
// so connecting to it is refused.
func ClosedURL(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	if err := l.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}
	return "http://" + addr
}
