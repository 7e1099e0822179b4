package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu    sync.Mutex
	lines []string
	polls []time.Time
}

func (s *stubSource) PollDue(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls = append(s.polls, now)
	return s.lines
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return n.err
}

func (n *recordingNotifier) delivered() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func TestTickForwardsDueLines(t *testing.T) {
	source := &stubSource{lines: []string{
		"Event: Standup is starting now.",
		"Task: Send report is due now.",
	}}
	notifier := &recordingNotifier{}

	fixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	s := New(Config{Enabled: true}, source, notifier, nil).WithClock(func() time.Time { return fixed })

	s.Tick(context.Background())

	assert.Equal(t, source.lines, notifier.delivered())
	require.Len(t, source.polls, 1)
	assert.Equal(t, fixed, source.polls[0])
}

func TestTickQuietWhenNothingDue(t *testing.T) {
	source := &stubSource{}
	notifier := &recordingNotifier{}

	s := New(Config{Enabled: true}, source, notifier, nil)
	s.Tick(context.Background())

	assert.Empty(t, notifier.delivered())
}

func TestTickContinuesPastNotifyErrors(t *testing.T) {
	source := &stubSource{lines: []string{"Task: a is due now.", "Task: b is due now."}}
	notifier := &recordingNotifier{err: errors.New("terminal gone")}

	s := New(Config{Enabled: true}, source, notifier, nil)
	s.Tick(context.Background())

	// Delivery is attempted for every line even when earlier ones fail.
	assert.Len(t, notifier.delivered(), 2)
}

func TestStartDisabledIsNoOp(t *testing.T) {
	source := &stubSource{lines: []string{"Task: a is due now."}}
	s := New(Config{Enabled: false}, source, NopNotifier{}, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.Empty(t, source.polls)
}

func TestStopIsIdempotent(t *testing.T) {
	s := New(Config{Enabled: true}, &stubSource{}, NopNotifier{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}

	s.Stop()
}

func TestDefaultScheduleApplied(t *testing.T) {
	s := New(Config{Enabled: true}, &stubSource{}, nil, nil)
	assert.Equal(t, DefaultSchedule, s.config.Schedule)
}
