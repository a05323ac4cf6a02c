package googlecal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/personalmgr/backend/domain"
	"github.com/personalmgr/backend/usecase"
)

// TokenStore persists the OAuth token between runs. Load returns nil when no
// authorization has been granted yet.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
}

// Config carries the settings needed to reach the Google Calendar API.
type Config struct {
	CredentialsFile string
	CalendarID      string
	RequestTimeout  time.Duration
}

// Provider is the Google-backed usecase.CalendarProvider. The calendar
// service is a single shared session built lazily on first use; the build is
// serialized so only one credential exchange is in flight at a time, while
// authenticated calls run concurrently.
type Provider struct {
	cfg    Config
	tokens TokenStore
	logger *zap.Logger

	mu      sync.RWMutex
	srv     *calendar.Service
	source  oauth2.TokenSource
	current *oauth2.Token
}

var _ usecase.CalendarProvider = (*Provider)(nil)

// New constructs an unauthenticated provider. No network traffic happens
// until the first operation.
func New(cfg Config, tokens TokenStore, logger *zap.Logger) *Provider {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		cfg:    cfg,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate ensures the shared calendar session exists. It is a no-op
// when already authenticated. A missing or unrefreshable credential yields
// an AUTH_REQUIRED error: the consent flow itself is external to this
// service and must be completed out of band.
func (p *Provider) Authenticate(ctx context.Context) error {
	p.mu.RLock()
	ready := p.srv != nil
	p.mu.RUnlock()
	if ready {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.srv != nil {
		return nil
	}

	if err := p.buildSession(); err != nil {
		return err
	}
	p.logger.Info("google calendar session established", zap.String("calendar_id", p.cfg.CalendarID))
	return nil
}

// buildSession is called with p.mu held. The token source and HTTP client
// are deliberately bound to a process-lifetime context: the session outlives
// any single request, and a source tied to a caller's context stops
// refreshing the moment that caller returns.
func (p *Provider) buildSession() error {
	secrets, err := os.ReadFile(p.cfg.CredentialsFile)
	if err != nil {
		return domain.WrapError(domain.ErrCodeAuthRequired,
			fmt.Sprintf("unable to read client secrets file %s", p.cfg.CredentialsFile), err)
	}

	oauthCfg, err := google.ConfigFromJSON(secrets, calendar.CalendarScope)
	if err != nil {
		return domain.WrapError(domain.ErrCodeAuthRequired, "unable to parse client secrets", err)
	}

	stored, err := p.tokens.Load()
	if err != nil {
		return domain.WrapError(domain.ErrCodeAuthRequired, "unable to load stored token", err)
	}
	if stored == nil {
		return domain.ErrAuthRequired
	}

	// Request timeouts apply to every call made through the session,
	// token refreshes included.
	base := &http.Client{Timeout: p.cfg.RequestTimeout}
	clientCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	source := oauthCfg.TokenSource(clientCtx, stored)
	fresh, err := source.Token()
	if err != nil {
		// Expired credential with no usable refresh token: the session
		// drops back to unauthenticated until a new grant arrives.
		return domain.WrapError(domain.ErrCodeAuthRequired, "stored token cannot be refreshed", err)
	}
	if fresh.AccessToken != stored.AccessToken || fresh.RefreshToken != stored.RefreshToken {
		if err := p.tokens.Save(fresh); err != nil {
			p.logger.Warn("failed to persist refreshed token", zap.Error(err))
		}
	}

	reuse := oauth2.ReuseTokenSource(fresh, source)
	srv, err := calendar.NewService(clientCtx,
		option.WithHTTPClient(oauth2.NewClient(clientCtx, reuse)),
	)
	if err != nil {
		return domain.WrapError(domain.ErrCodeAuthRequired, "unable to build calendar service", err)
	}

	p.srv = srv
	p.source = reuse
	p.current = fresh
	return nil
}

// VerifyCredentials proves the session can still mint a usable access
// token, refreshing and persisting it when needed. A refresh failure tears
// the session down so the next operation re-authenticates from the store.
func (p *Provider) VerifyCredentials(ctx context.Context) error {
	if err := p.Authenticate(ctx); err != nil {
		return err
	}

	p.mu.RLock()
	source := p.source
	p.mu.RUnlock()
	if source == nil {
		return domain.ErrAuthRequired
	}

	token, err := source.Token()
	if err != nil {
		p.Reset()
		return domain.WrapError(domain.ErrCodeAuthRequired, "calendar credentials can no longer be refreshed", err)
	}
	p.persistIfChanged(token)
	return nil
}

func (p *Provider) persistIfChanged(token *oauth2.Token) {
	p.mu.Lock()
	changed := p.current == nil || token.AccessToken != p.current.AccessToken
	if changed {
		p.current = token
	}
	p.mu.Unlock()

	if !changed {
		return
	}
	if err := p.tokens.Save(token); err != nil {
		p.logger.Warn("failed to persist refreshed token", zap.Error(err))
	}
}

func (p *Provider) service(ctx context.Context) (*calendar.Service, error) {
	if err := p.Authenticate(ctx); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.srv, nil
}

// Reset drops the shared session so the next operation re-authenticates.
func (p *Provider) Reset() {
	p.mu.Lock()
	p.srv = nil
	p.source = nil
	p.current = nil
	p.mu.Unlock()
}

// ListEvents fetches events inside the requested window. An unset lower
// bound means "now"; an unset upper bound means lower bound plus 30 days.
func (p *Provider) ListEvents(ctx context.Context, opts usecase.EventListOptions) ([]domain.CalendarEvent, error) {
	srv, err := p.service(ctx)
	if err != nil {
		return nil, err
	}

	timeMin, timeMax := eventWindow(opts.TimeMin, opts.TimeMax, time.Now().UTC())

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	call := srv.Events.List(p.calendarID(opts.CalendarID)).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(opts.ExpandRecurring).
		Context(ctx)
	if opts.OrderBy != "" {
		call = call.OrderBy(opts.OrderBy)
	}

	result, err := call.Do()
	if err != nil {
		return nil, domain.NewProviderError("list_events", err)
	}

	events := make([]domain.CalendarEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, normalizeEvent(item))
	}
	return events, nil
}

// CreateEvent inserts a new event and notifies attendees.
func (p *Provider) CreateEvent(ctx context.Context, create usecase.EventCreate) (*domain.CalendarEvent, error) {
	srv, err := p.service(ctx)
	if err != nil {
		return nil, err
	}

	event := &calendar.Event{
		Summary: create.Summary,
		Start:   &calendar.EventDateTime{DateTime: create.Start.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: create.End.Format(time.RFC3339)},
	}
	if create.Description != "" {
		event.Description = create.Description
	}
	if create.Location != "" {
		event.Location = create.Location
	}
	for _, email := range create.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := srv.Events.Insert(p.calendarID(create.CalendarID), event).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, domain.NewProviderError("create_event", err)
	}

	normalized := normalizeEvent(created)
	if normalized.Status == "" {
		normalized.Status = "confirmed"
	}
	return &normalized, nil
}

// UpdateEvent reads the current event, applies the non-nil changes and
// writes it back, notifying attendees.
func (p *Provider) UpdateEvent(ctx context.Context, eventID, calendarID string, changes usecase.EventChanges) (*domain.CalendarEvent, error) {
	srv, err := p.service(ctx)
	if err != nil {
		return nil, err
	}

	id := p.calendarID(calendarID)
	event, err := srv.Events.Get(id, eventID).Context(ctx).Do()
	if err != nil {
		return nil, domain.NewProviderError("update_event", err)
	}

	if changes.Summary != nil {
		event.Summary = *changes.Summary
	}
	if changes.Description != nil {
		event.Description = *changes.Description
	}
	if changes.Location != nil {
		event.Location = *changes.Location
	}
	if changes.Start != nil {
		event.Start = &calendar.EventDateTime{DateTime: changes.Start.Format(time.RFC3339)}
	}
	if changes.End != nil {
		event.End = &calendar.EventDateTime{DateTime: changes.End.Format(time.RFC3339)}
	}
	if changes.Attendees != nil {
		event.Attendees = event.Attendees[:0]
		for _, email := range changes.Attendees {
			event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
		}
	}

	updated, err := srv.Events.Update(id, eventID, event).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, domain.NewProviderError("update_event", err)
	}

	normalized := normalizeEvent(updated)
	return &normalized, nil
}

// DeleteEvent removes an event, notifying attendees.
func (p *Provider) DeleteEvent(ctx context.Context, eventID, calendarID string) (bool, error) {
	srv, err := p.service(ctx)
	if err != nil {
		return false, err
	}

	err = srv.Events.Delete(p.calendarID(calendarID), eventID).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return false, domain.NewProviderError("delete_event", err)
	}
	return true, nil
}

func (p *Provider) calendarID(requested string) string {
	if requested != "" {
		return requested
	}
	return p.cfg.CalendarID
}
