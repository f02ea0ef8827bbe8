// Package auth obtains and caches the Google OAuth token used for calendar
// sync.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CallbackPath is where the local listener receives the authorization code.
const CallbackPath = "/oauth2callback"

// AuthorizeTimeout bounds how long Authorize waits for the browser.
const AuthorizeTimeout = 5 * time.Minute

// ErrNoToken is returned when no cached token exists yet.
var ErrNoToken = errors.New("no calendar token; run `todo calendar auth`")

// CalendarScopes are requested for sync.
var CalendarScopes = []string{gcal.CalendarEventsScope, gcal.CalendarReadonlyScope}

// Config loads an OAuth client configuration from a credentials JSON file
// downloaded from the Google Cloud console.
func Config(credentialsFile string, scopes ...string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", credentialsFile, err)
	}
	config, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", credentialsFile, err)
	}
	return config, nil
}

// LoadToken reads a cached token. A missing file returns ErrNoToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return tok, nil
}

// SaveToken writes the token with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "token-*.json")
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("save token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Authorize runs the authorization code flow through a local listener. The
// consent URL is passed to prompt, which should show it to the user. The
// exchanged token is returned; callers persist it with SaveToken.
func Authorize(ctx context.Context, config *oauth2.Config, listener net.Listener, prompt func(url string)) (*oauth2.Token, error) {
	cfg := *config
	cfg.RedirectURL = "http://" + listener.Addr().String() + CallbackPath
	state := uuid.NewString()

	codes := make(chan string, 1)
	errs := make(chan error, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		if reason := query.Get("error"); reason != "" {
			http.Error(w, "authorization denied", http.StatusBadRequest)
			sendErr(errs, fmt.Errorf("authorization denied: %s", reason))
			return
		}
		code := query.Get("code")
		if code == "" {
			http.Error(w, "authorization code not found", http.StatusBadRequest)
			sendErr(errs, fmt.Errorf("authorization code not found in redirect"))
			return
		}
		fmt.Fprintln(w, "Authentication successful! You can close this window.")
		select {
		case codes <- code:
		default:
		}
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errs, fmt.Errorf("callback server: %w", err))
		}
	}()
	defer server.Close()

	prompt(cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")))

	ctx, cancel := context.WithTimeout(ctx, AuthorizeTimeout)
	defer cancel()

	select {
	case code := <-codes:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		return tok, nil
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}
}

func sendErr(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}

// Client returns an HTTP client that refreshes the cached token as needed
// and writes refreshed tokens back to tokenFile.
func Client(ctx context.Context, config *oauth2.Config, tokenFile string) (*http.Client, error) {
	tok, err := LoadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	source := &savingTokenSource{
		base: config.TokenSource(ctx, tok),
		path: tokenFile,
		last: tok,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, source)), nil
}

// savingTokenSource persists tokens that differ from the last one seen.
type savingTokenSource struct {
	base oauth2.TokenSource
	path string
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || tok.AccessToken != s.last.AccessToken || tok.RefreshToken != s.last.RefreshToken {
		if err := SaveToken(s.path, tok); err != nil {
			return nil, err
		}
		s.last = tok
	}
	return tok, nil
}

// CalendarService creates an authenticated Calendar API client from the
// credentials file and the cached token.
func CalendarService(ctx context.Context, credentialsFile, tokenFile string) (*gcal.Service, error) {
	config, err := Config(credentialsFile, CalendarScopes...)
	if err != nil {
		return nil, err
	}
	client, err := Client(ctx, config, tokenFile)
	if err != nil {
		return nil, err
	}
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return srv, nil
}
