package authflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/webauth/internal/domain"
	"github.com/nfrund/webauth/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPublisher implements pubsub.Publisher for testing
type mockPublisher struct {
	messages []pubsub.Message
	mu       sync.Mutex
}

func (m *mockPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

func (m *mockPublisher) getMessages() []pubsub.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]pubsub.Message, len(m.messages))
	copy(result, m.messages)
	return result
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func sequenceTokens(tokens ...string) func() string {
	i := 0
	return func() string {
		t := tokens[i]
		i++
		return t
	}
}

func newTestManager(t *testing.T, tokens ...string) (*Manager, *mockPublisher, *fakeClock) {
	t.Helper()
	pub := &mockPublisher{}
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	m := NewManager(10*time.Minute, pub, WithClock(clock.Now), WithTokenSource(sequenceTokens(tokens...)))
	return m, pub, clock
}

func TestNewToken(t *testing.T) {
	a, b := NewToken(), NewToken()
	assert.Len(t, a, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", a)
	assert.NotEqual(t, a, b)
}

func TestManager_SubmitAndConfirm(t *testing.T) {
	ctx := context.Background()
	m, pub, _ := newTestManager(t, "Z9")

	token, err := m.StartWeb(ctx, 7, "+380000000000")
	require.NoError(t, err)
	assert.Equal(t, "Z9", token)

	creds, status := m.ConfirmWeb(7)
	assert.Equal(t, StatusWaitCode, status)
	assert.Empty(t, creds.Code)

	ok := m.SubmitWeb(ctx, "Z9", " 54321 ", "")
	require.True(t, ok)

	creds, status = m.ConfirmWeb(7)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, Credentials{Code: "54321", Password: ""}, creds)

	messages := pub.getMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, TopicCredentialsSubmitted, messages[0].Topic)
	assert.Equal(t, "7", messages[0].UserID)

	var ev SubmittedEvent
	require.NoError(t, pubsub.DecodeJSON(messages[0], &ev))
	assert.Equal(t, "Z9", ev.Token)
	assert.True(t, ev.HasCode)
	assert.False(t, ev.HasPassword)
	assert.NotContains(t, string(messages[0].Payload), "54321", "event must not leak the code")
}

func TestManager_PasswordInSecondSubmission(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "tok")
	_, err := m.StartWeb(ctx, 1, "+1")
	require.NoError(t, err)

	require.True(t, m.SubmitWeb(ctx, "tok", "111", ""))
	require.True(t, m.SubmitWeb(ctx, "tok", "", "hunter2"))

	creds, status := m.ConfirmWeb(1)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, "111", creds.Code)
	assert.Equal(t, "hunter2", creds.Password)
}

func TestManager_UnknownToken(t *testing.T) {
	ctx := context.Background()
	m, pub, _ := newTestManager(t, "known")
	_, err := m.StartWeb(ctx, 1, "+1")
	require.NoError(t, err)

	assert.False(t, m.SubmitWeb(ctx, "unknown", "1", ""))
	assert.False(t, m.SubmitWeb(ctx, "", "1", ""))
	assert.Empty(t, pub.getMessages())

	_, err = m.lookup("unknown")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)

	_, status := m.ConfirmWeb(99)
	assert.Equal(t, StatusFailed, status)
}

func TestManager_RestartInvalidatesOldToken(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "first", "second")

	_, err := m.StartWeb(ctx, 5, "+1")
	require.NoError(t, err)
	_, err = m.StartWeb(ctx, 5, "+1")
	require.NoError(t, err)

	assert.False(t, m.SubmitWeb(ctx, "first", "1", ""))
	assert.True(t, m.SubmitWeb(ctx, "second", "1", ""))
	assert.Equal(t, 1, m.pending())
}

func TestManager_Expiry(t *testing.T) {
	ctx := context.Background()
	m, _, clock := newTestManager(t, "a", "b")

	_, err := m.StartWeb(ctx, 1, "+1")
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	_, err = m.StartWeb(ctx, 2, "+2")
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)

	_, err = m.lookup("a")
	assert.ErrorIs(t, err, domain.ErrFlowExpired)
	assert.False(t, m.SubmitWeb(ctx, "a", "1", ""))
	_, status := m.ConfirmWeb(1)
	assert.Equal(t, StatusFailed, status)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.pending())

	f, err := m.lookup("b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.UserID)
}

func TestManager_CompleteAndCancel(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "a", "b")

	_, err := m.StartWeb(ctx, 1, "+1")
	require.NoError(t, err)
	_, err = m.StartWeb(ctx, 2, "+2")
	require.NoError(t, err)

	m.Complete(1)
	m.Cancel(2)
	m.Cancel(3)

	assert.Equal(t, 0, m.pending())
	assert.False(t, m.SubmitWeb(ctx, "a", "1", ""))
	assert.False(t, m.SubmitWeb(ctx, "b", "1", ""))
}

func TestManager_RunJanitor(t *testing.T) {
	m, _, clock := newTestManager(t, "a")
	_, err := m.StartWeb(context.Background(), 1, "+1")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.pending() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestManager_ConcurrentSubmissions(t *testing.T) {
	ctx := context.Background()
	m := NewManager(time.Minute, nil)
	token, err := m.StartWeb(ctx, 1, "+1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, m.SubmitWeb(ctx, token, "12345", ""))
		}()
	}
	wg.Wait()

	creds, status := m.ConfirmWeb(1)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, "12345", creds.Code)
}
