package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/personalmgr/backend/domain"
)

// CalendarSession is the slice of the calendar provider the keepalive
// drives: proving on demand that the credential can still be refreshed.
type CalendarSession interface {
	VerifyCredentials(ctx context.Context) error
}

// CalendarKeepalive periodically verifies the calendar provider credential
// so an expiring token is refreshed in the background instead of on a user
// request. When the grant is gone entirely it only logs: obtaining a new
// authorization is a human-in-the-loop flow outside this process.
type CalendarKeepalive struct {
	session CalendarSession
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

// NewCalendarKeepalive builds the keepalive job on the given cron schedule
// (seconds-granularity spec, e.g. "0 */15 * * * *").
func NewCalendarKeepalive(session CalendarSession, schedule string, timeout time.Duration, logger *zap.Logger) *CalendarKeepalive {
	if schedule == "" {
		schedule = "0 */15 * * * *"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	k := &CalendarKeepalive{
		session: session,
		cron:    cron.New(cron.WithSeconds()),
		timeout: timeout,
		logger:  logger,
	}
	_, _ = k.cron.AddFunc(schedule, k.check)
	return k
}

// Start launches the cron scheduler.
func (k *CalendarKeepalive) Start() {
	if k == nil || k.cron == nil {
		return
	}
	k.cron.Start()
}

// Stop halts the scheduler and waits for a running check to finish.
func (k *CalendarKeepalive) Stop(ctx context.Context) {
	if k == nil || k.cron == nil {
		return
	}
	stopCtx := k.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (k *CalendarKeepalive) check() {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	if err := k.session.VerifyCredentials(ctx); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeAuthRequired) {
			k.logger.Warn("calendar authorization required", zap.Error(err))
			return
		}
		k.logger.Error("calendar keepalive failed", zap.Error(err))
		return
	}
	k.logger.Debug("calendar credentials verified")
}
