package googlecal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/personalmgr/backend/domain"
)

type memTokenStore struct {
	token *oauth2.Token
	saves int
}

func (s *memTokenStore) Load() (*oauth2.Token, error) { return s.token, nil }

func (s *memTokenStore) Save(token *oauth2.Token) error {
	s.token = token
	s.saves++
	return nil
}

func writeSecrets(t *testing.T, baseURL string) string {
	t.Helper()
	payload := fmt.Sprintf(
		`{"installed":{"client_id":"client","client_secret":"secret","auth_uri":"%s/auth","token_uri":"%s/token","redirect_uris":["urn:ietf:wg:oauth:2.0:oob"]}}`,
		baseURL, baseURL,
	)
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write secrets: %v", err)
	}
	return path
}

func expiredToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-time.Hour),
	}
}

func newProvider(t *testing.T, baseURL string, store TokenStore) *Provider {
	t.Helper()
	return New(Config{
		CredentialsFile: writeSecrets(t, baseURL),
		RequestTimeout:  5 * time.Second,
	}, store, nil)
}

// The session is shared across requests, so its token source must keep
// refreshing after the request that first authenticated it has returned.
func TestSessionOutlivesAuthenticatingCaller(t *testing.T) {
	var exchanges atomic.Int32
	// expires_in of 1 is inside the oauth2 expiry delta, so the next
	// token fetch always goes through a refresh.
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"granted-%d","token_type":"Bearer","refresh_token":"refresh","expires_in":1}`, n)
	}))
	defer endpoint.Close()

	store := &memTokenStore{token: expiredToken()}
	provider := newProvider(t, endpoint.URL, store)

	reqCtx, cancelReq := context.WithCancel(context.Background())
	if err := provider.Authenticate(reqCtx); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	cancelReq()

	if got := exchanges.Load(); got != 1 {
		t.Fatalf("expected one initial exchange, got %d", got)
	}

	if err := provider.VerifyCredentials(context.Background()); err != nil {
		t.Fatalf("refresh after the authenticating caller returned failed: %v", err)
	}
	if got := exchanges.Load(); got != 2 {
		t.Errorf("expected a second exchange, got %d", got)
	}
	if store.token.AccessToken != "granted-2" {
		t.Errorf("refreshed token should be persisted, got %q", store.token.AccessToken)
	}
}

func TestVerifyCredentialsDeadGrant(t *testing.T) {
	var exchanges atomic.Int32
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if exchanges.Add(1) == 1 {
			fmt.Fprint(w, `{"access_token":"granted-1","token_type":"Bearer","refresh_token":"refresh","expires_in":1}`)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant"}`)
	}))
	defer endpoint.Close()

	provider := newProvider(t, endpoint.URL, &memTokenStore{token: expiredToken()})

	if err := provider.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	err := provider.VerifyCredentials(context.Background())
	if !domain.IsDomainError(err, domain.ErrCodeAuthRequired) {
		t.Fatalf("a dead grant should surface AUTH_REQUIRED, got %v", err)
	}

	provider.mu.RLock()
	reset := provider.srv == nil && provider.source == nil
	provider.mu.RUnlock()
	if !reset {
		t.Error("a dead grant must tear the session down for re-authentication")
	}
}

func TestAuthenticateWithoutGrant(t *testing.T) {
	provider := newProvider(t, "http://127.0.0.1:0", &memTokenStore{})

	err := provider.Authenticate(context.Background())
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("a missing grant should surface AUTH_REQUIRED, got %v", err)
	}
}
