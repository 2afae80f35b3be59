package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Paths the backend redirects the browser to after Google sign-in.
const (
	DashboardPath  = "/dashboard"
	LoginErrorPath = "/login/error"
)

var (
	// ErrNoToken means a redirect URL carried no token query parameter.
	ErrNoToken = errors.New("redirect has no token parameter")

	// ErrLoginFailed means the backend redirected to its login error page,
	// usually because the OAuth client's redirect URI is misconfigured.
	ErrLoginFailed = errors.New("sign-in failed: check the authorized redirect URI of the Google OAuth client")
)

// TokenFromRedirect extracts the token query parameter from the URL the
// backend redirected to after sign-in.
func TokenFromRedirect(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parsing redirect url: %w", err)
	}
	if u.Path == LoginErrorPath {
		return "", ErrLoginFailed
	}
	token := strings.TrimSpace(u.Query().Get("token"))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Listener is a loopback HTTP server that captures the post-sign-in
// redirect and hands its token to Wait.
type Listener struct {
	server *http.Server
	ln     net.Listener
	tokens chan string
	errs   chan error
}

// Listen starts serving on addr (host:port, port 0 picks a free port).
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	l := &Listener{
		ln:     ln,
		tokens: make(chan string, 1),
		errs:   make(chan error, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(DashboardPath, l.handleDashboard)
	mux.HandleFunc(LoginErrorPath, l.handleLoginError)
	l.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			report(l.errs, err)
		}
	}()

	return l, nil
}

// URL is the base URL the backend should redirect to.
func (l *Listener) URL() string {
	return "http://" + l.ln.Addr().String()
}

// Wait blocks until a token arrives, sign-in fails, or ctx is done. The
// server is shut down before Wait returns.
func (l *Listener) Wait(ctx context.Context) (string, error) {
	defer l.Close()

	select {
	case token := <-l.tokens:
		return token, nil
	case err := <-l.errs:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for sign-in: %w", ctx.Err())
	}
}

// Close stops the server.
func (l *Listener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.server.Shutdown(ctx)
}

func (l *Listener) handleDashboard(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writePage(w, http.StatusBadRequest, "Sign-in incomplete", "No token was received.")
		return
	}
	writePage(w, http.StatusOK, "Signed in", "You can close this window and return to mailpilot.")
	report(l.tokens, token)
}

func (l *Listener) handleLoginError(w http.ResponseWriter, r *http.Request) {
	writePage(w, http.StatusOK, "Authentication Error", ErrLoginFailed.Error())
	report(l.errs, ErrLoginFailed)
}

// report delivers v unless a result is already pending.
func report[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func writePage(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<html><body><h2>%s</h2><p>%s</p></body></html>",
		html.EscapeString(title), html.EscapeString(body))
}
