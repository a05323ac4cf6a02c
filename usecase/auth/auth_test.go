package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/personalmgr/backend/domain"
)

// fakeSessionRepo is an in-memory stand-in for the Redis session store.
type fakeSessionRepo struct {
	sessions map[string]*domain.Session
	extends  map[string]int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[string]*domain.Session),
		extends:  make(map[string]int),
	}
}

func (f *fakeSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) Extend(ctx context.Context, id string, ttlSeconds int) error {
	if _, ok := f.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	f.extends[id] = ttlSeconds
	return nil
}

const testSecret = "unit-test-secret"

func newAuthUseCase(repo *fakeSessionRepo) *UseCase {
	return New(repo, testSecret, "personal-manager-backend", nil)
}

func TestCreateSessionSignsToken(t *testing.T) {
	repo := newFakeSessionRepo()
	uc := newAuthUseCase(repo)

	session, err := uc.CreateSession(context.Background(), "u1", time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID == "" || session.Token == "" {
		t.Fatalf("session is missing id or token: %+v", session)
	}
	if _, ok := repo.sessions[session.ID]; !ok {
		t.Error("session should be persisted")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token should verify against the signing secret: %v", err)
	}
	if claims["user_id"] != "u1" || claims["sub"] != "u1" {
		t.Errorf("token should carry the user id, got %v", claims)
	}
	if claims["session_id"] != session.ID {
		t.Errorf("token should carry the session id, got %v", claims["session_id"])
	}
	if claims["iss"] != "personal-manager-backend" {
		t.Errorf("unexpected issuer %v", claims["iss"])
	}
}

func TestCreateSessionRequiresUserID(t *testing.T) {
	uc := newAuthUseCase(newFakeSessionRepo())

	_, err := uc.CreateSession(context.Background(), "", time.Hour)
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
	}
}

func TestGetSessionExpired(t *testing.T) {
	repo := newFakeSessionRepo()
	uc := newAuthUseCase(repo)

	expired := &domain.Session{
		ID:        "s1",
		UserID:    "u1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	repo.sessions[expired.ID] = expired

	_, err := uc.GetSession(context.Background(), "s1")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expired session should read as not found, got %v", err)
	}
	if _, ok := repo.sessions["s1"]; ok {
		t.Error("expired session should be purged on read")
	}
}

func TestRefreshSessionExtendsAndResigns(t *testing.T) {
	repo := newFakeSessionRepo()
	uc := newAuthUseCase(repo)

	created, err := uc.CreateSession(context.Background(), "u1", time.Minute)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	refreshed, err := uc.RefreshSession(context.Background(), created.ID, 2*time.Hour)
	if err != nil {
		t.Fatalf("RefreshSession failed: %v", err)
	}
	if repo.extends[created.ID] != int((2 * time.Hour).Seconds()) {
		t.Errorf("store TTL should be extended, got %d", repo.extends[created.ID])
	}
	if !refreshed.ExpiresAt.After(created.ExpiresAt) {
		t.Error("refresh should push expiry forward")
	}
	if refreshed.Token == "" {
		t.Error("refresh should issue a fresh token")
	}
}

func TestRevokeSession(t *testing.T) {
	repo := newFakeSessionRepo()
	uc := newAuthUseCase(repo)

	created, err := uc.CreateSession(context.Background(), "u1", time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := uc.RevokeSession(context.Background(), created.ID); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}

	_, err = uc.GetSession(context.Background(), created.ID)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("revoked session should be gone, got %v", err)
	}
}
