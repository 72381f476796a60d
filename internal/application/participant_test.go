package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportmeet/internal/domain"
)

func TestPromotionOnLeave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org, b, c, d := f.user(t, "org"), f.user(t, "b"), f.user(t, "c"), f.user(t, "d")
	ev := f.event(t, org, 2)

	st, err := f.roster.Join(ctx, ev, b)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, st)
	st, err = f.roster.Join(ctx, ev, c)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, st)
	_, err = f.roster.Join(ctx, ev, d)
	require.NoError(t, err)

	require.NoError(t, f.roster.Leave(ctx, ev, b))

	confirmed, waiting := statuses(t, f, ev)
	assert.ElementsMatch(t, []string{org, c}, confirmed)
	assert.Equal(t, map[string]int{d: 1}, waiting)
	assert.Equal(t, []string{c}, f.notifier.users("promoted"))
	assert.Equal(t, 1, f.metrics.promoted)
	assert.Equal(t, 1, f.metrics.left[domain.StatusConfirmed])
}

func TestJoinErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org, b := f.user(t, "org"), f.user(t, "b")
	ev := f.event(t, org, 3)

	_, err := f.roster.Join(ctx, "missing", b)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = f.roster.Join(ctx, ev, org)
	assert.ErrorIs(t, err, domain.ErrOrganizerJoin)

	_, err = f.roster.Join(ctx, ev, b)
	require.NoError(t, err)
	_, err = f.roster.Join(ctx, ev, b)
	assert.ErrorIs(t, err, domain.ErrParticipantExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestLeaveErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org, b := f.user(t, "org"), f.user(t, "b")
	ev := f.event(t, org, 3)

	assert.ErrorIs(t, f.roster.Leave(ctx, ev, b), domain.ErrParticipantNotFound)
	assert.ErrorIs(t, f.roster.Leave(ctx, ev, org), domain.ErrOrganizerLeave)
	assert.ErrorIs(t, f.roster.Leave(ctx, "missing", b), domain.ErrEventNotFound)
}

func TestLeaveFromWaitingListRenumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.user(t, "org")
	ev := f.event(t, org, 1)
	for _, u := range []string{"x", "y", "z"} {
		f.user(t, u)
		_, err := f.roster.Join(ctx, ev, u)
		require.NoError(t, err)
	}

	require.NoError(t, f.roster.Leave(ctx, ev, "y"))

	confirmed, waiting := statuses(t, f, ev)
	assert.Equal(t, []string{org}, confirmed)
	assert.Equal(t, map[string]int{"x": 1, "z": 2}, waiting)
	assert.Empty(t, f.notifier.users("promoted"))
}

func TestNotificationFailureKeepsPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org, b, c := f.user(t, "org"), f.user(t, "b"), f.user(t, "c")
	ev := f.event(t, org, 2)
	_, err := f.roster.Join(ctx, ev, b)
	require.NoError(t, err)
	_, err = f.roster.Join(ctx, ev, c)
	require.NoError(t, err)

	f.notifier.err = errors.New("push gateway down")
	require.NoError(t, f.roster.Leave(ctx, ev, b))

	st, err := f.roster.GetStatus(ctx, ev, c)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, st)
	assert.Equal(t, 1, f.metrics.failed["promoted"])
}

func TestGetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org, b := f.user(t, "org"), f.user(t, "b")
	ev := f.event(t, org, 2)

	st, err := f.roster.GetStatus(ctx, ev, b)
	require.NoError(t, err)
	assert.Empty(t, st)

	st, err = f.roster.GetStatus(ctx, ev, org)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, st)
}

func TestListRosterUnknownEvent(t *testing.T) {
	f := newFixture(t)
	_, err := f.roster.ListRoster(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestConcurrentJoinsNeverOverbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.user(t, "org")
	ev := f.event(t, org, 5)

	const joiners = 40
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		u := f.user(t, fmt.Sprintf("u%02d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.roster.Join(ctx, ev, u)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	confirmed, waiting := statuses(t, f, ev)
	assert.Len(t, confirmed, 5)
	require.Len(t, waiting, joiners-4)
	seen := map[int]bool{}
	for _, pos := range waiting {
		seen[pos] = true
	}
	for pos := 1; pos <= len(waiting); pos++ {
		assert.True(t, seen[pos], "missing waiting position %d", pos)
	}
}
