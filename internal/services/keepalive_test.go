package services

import (
	"context"
	"testing"
	"time"

	"github.com/personalmgr/backend/domain"
)

type fakeSession struct {
	calls int
	err   error
}

func (f *fakeSession) VerifyCredentials(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestKeepaliveVerifiesEveryRun(t *testing.T) {
	session := &fakeSession{}
	k := NewCalendarKeepalive(session, "", time.Second, nil)

	k.check()
	k.check()
	if session.calls != 2 {
		t.Fatalf("every run must verify credentials, got %d calls", session.calls)
	}
}

func TestKeepaliveMissingGrant(t *testing.T) {
	session := &fakeSession{err: domain.ErrAuthRequired}
	k := NewCalendarKeepalive(session, "", time.Second, nil)

	k.check()
	k.check()
	if session.calls != 2 {
		t.Fatalf("a missing grant must not stop later runs, got %d calls", session.calls)
	}
}
