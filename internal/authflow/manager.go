// Package authflow keeps the pending web logins the bot has handed out.
//
// The bot registers a flow and sends the user a /auth/<token> link. The web
// form posts the code (and optionally the 2FA password) back under that
// token, and the bot later collects the credentials to finish the sign-in.
package authflow

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/nfrund/webauth/internal/domain"
	"github.com/nfrund/webauth/internal/pubsub"
)

// TopicCredentialsSubmitted is published every time the web form is accepted.
const TopicCredentialsSubmitted = "webauth.credentials.submitted"

// SubmittedEvent is the payload of TopicCredentialsSubmitted. It never
// carries the secrets themselves; the bot reads them with ConfirmWeb.
type SubmittedEvent struct {
	UserID      int64     `json:"user_id"`
	Token       string    `json:"token"`
	HasCode     bool      `json:"has_code"`
	HasPassword bool      `json:"has_password"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Manager is the in-memory registry of pending web logins.
type Manager struct {
	mu     sync.Mutex
	flows  map[int64]*Flow
	tokens map[string]int64

	ttl       time.Duration
	publisher pubsub.Publisher
	now       func() time.Time
	newToken  func() string
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithTokenSource replaces the token generator, for tests.
func WithTokenSource(gen func() string) Option {
	return func(m *Manager) { m.newToken = gen }
}

// NewManager creates a registry whose flows expire after ttl. publisher may be nil.
func NewManager(ttl time.Duration, publisher pubsub.Publisher, opts ...Option) *Manager {
	m := &Manager{
		flows:     make(map[int64]*Flow),
		tokens:    make(map[string]int64),
		ttl:       ttl,
		publisher: publisher,
		now:       time.Now,
		newToken:  NewToken,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartWeb registers a web login for userID and returns its token.
// An earlier flow of the same user is replaced and its token stops working.
func (m *Manager) StartWeb(ctx context.Context, userID int64, phone string) (string, error) {
	token := m.newToken()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropLocked(userID)
	m.flows[userID] = &Flow{
		UserID:    userID,
		Phone:     phone,
		Token:     token,
		CreatedAt: m.now(),
	}
	m.tokens[token] = userID

	slog.InfoContext(ctx, "Web login started", "user_id", userID)
	return token, nil
}

// lookup returns a copy of the live flow owning token.
func (m *Manager) lookup(token string) (Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.byTokenLocked(token)
	if err != nil {
		return Flow{}, err
	}
	return *f, nil
}

// SubmitWeb records the credentials posted for token. It reports false when
// the token is unknown or its flow has expired.
func (m *Manager) SubmitWeb(ctx context.Context, token, code, password string) bool {
	m.mu.Lock()
	f, err := m.byTokenLocked(token)
	if err != nil {
		m.mu.Unlock()
		slog.WarnContext(ctx, "Web login submission rejected", "error", err)
		return false
	}
	f.apply(code, password)
	event := SubmittedEvent{
		UserID:      f.UserID,
		Token:       f.Token,
		HasCode:     f.Creds.Code != "",
		HasPassword: f.Creds.Password != "",
		SubmittedAt: m.now(),
	}
	m.mu.Unlock()

	slog.InfoContext(ctx, "Web login credentials received",
		"user_id", event.UserID, "has_code", event.HasCode, "has_password", event.HasPassword)

	if m.publisher != nil {
		userID := strconv.FormatInt(event.UserID, 10)
		if err := pubsub.PublishJSON(ctx, m.publisher, TopicCredentialsSubmitted, userID, event); err != nil {
			// The credentials are stored; the bot still finds them when the user presses "check".
			slog.ErrorContext(ctx, "Failed to publish submission event", "user_id", event.UserID, "error", err)
		}
	}
	return true
}

// ConfirmWeb returns the credentials stored for userID and the flow status.
// The flow stays registered; call Complete once the sign-in succeeded.
func (m *Manager) ConfirmWeb(userID int64) (Credentials, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.flows[userID]
	if !ok || f.expired(m.now(), m.ttl) {
		return Credentials{}, StatusFailed
	}
	return f.Creds, f.status()
}

// Complete removes the flow of userID after a successful sign-in.
func (m *Manager) Complete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropLocked(userID)
}

// Cancel removes the flow of userID, if any.
func (m *Manager) Cancel(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dropLocked(userID) {
		slog.Info("Web login cancelled", "user_id", userID)
	}
}

// pending returns the number of registered flows, expired ones included.
func (m *Manager) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.flows)
}

// Sweep drops every flow older than the TTL and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for userID, f := range m.flows {
		if f.expired(now, m.ttl) {
			m.dropLocked(userID)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired flows every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				slog.Debug("Expired web logins removed", "count", n, "pending", m.pending())
			}
		}
	}
}

func (m *Manager) byTokenLocked(token string) (*Flow, error) {
	userID, ok := m.tokens[token]
	if !ok || token == "" {
		return nil, domain.ErrFlowNotFound
	}
	f, ok := m.flows[userID]
	if !ok || f.Token != token {
		return nil, domain.ErrFlowNotFound
	}
	if f.expired(m.now(), m.ttl) {
		return nil, domain.ErrFlowExpired
	}
	return f, nil
}

func (m *Manager) dropLocked(userID int64) bool {
	f, ok := m.flows[userID]
	if !ok {
		return false
	}
	delete(m.tokens, f.Token)
	delete(m.flows, userID)
	return true
}
