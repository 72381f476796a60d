package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminders struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (f *fakeReminders) SendReminders(_ context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return 1, f.err
}

func (f *fakeReminders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New("every now and then", &fakeReminders{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunRemindersPassesClock(t *testing.T) {
	fake := &fakeReminders{err: errors.New("db down")}
	s, err := New("@every 10m", fake, zerolog.Nop())
	require.NoError(t, err)
	at := time.Date(2026, 6, 10, 16, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	s.runReminders() // errors are logged, not propagated
	require.Equal(t, 1, fake.count())
	assert.Equal(t, at, fake.calls[0])
}

func TestStartRunsJob(t *testing.T) {
	fake := &fakeReminders{}
	s, err := New("@every 1s", fake, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return fake.count() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
