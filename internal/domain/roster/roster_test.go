package roster

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
)

var t0 = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newRoster(capacity int) *Roster {
	event := &entities.Event{ID: "ev", OrganizerID: "org", PlayerCountTotal: capacity}
	organizer := entities.Participant{ID: "p-org", EventID: "ev", UserID: "org", Status: domain.StatusConfirmed, JoinedAt: t0}
	return New(event, []entities.Participant{organizer})
}

func join(t *testing.T, r *Roster, userID string, at int) entities.Participant {
	t.Helper()
	p, _, err := r.Join("p-"+userID, userID, t0.Add(time.Duration(at)*time.Minute))
	require.NoError(t, err)
	return p
}

func positions(r *Roster) map[string]int {
	out := map[string]int{}
	for _, p := range r.Ordered() {
		if p.IsWaiting() {
			out[p.UserID] = p.WaitingPosition
		}
	}
	return out
}

// checkRosterShape asserts capacity and dense waiting positions.
func checkRosterShape(t *testing.T, r *Roster) {
	t.Helper()
	require.LessOrEqual(t, r.ConfirmedCount(), r.Capacity(), "confirmed exceeds capacity")
	require.Equal(t, domain.StatusConfirmed, r.Status("org"), "organizer must stay confirmed")

	seen := map[int]bool{}
	users := map[string]bool{}
	for _, p := range r.Ordered() {
		require.False(t, users[p.UserID], "duplicate record for %s", p.UserID)
		users[p.UserID] = true
		if p.IsWaiting() {
			require.False(t, seen[p.WaitingPosition], "duplicate position %d", p.WaitingPosition)
			seen[p.WaitingPosition] = true
		} else {
			require.Zero(t, p.WaitingPosition)
		}
	}
	for pos := 1; pos <= len(seen); pos++ {
		require.True(t, seen[pos], "gap at position %d", pos)
	}
}

func TestJoinConfirmsWhileSpaceThenWaits(t *testing.T) {
	r := newRoster(2)

	b := join(t, r, "b", 1)
	c := join(t, r, "c", 2)
	d := join(t, r, "d", 3)

	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, domain.StatusWaiting, c.Status)
	assert.Equal(t, 1, c.WaitingPosition)
	assert.Equal(t, 2, d.WaitingPosition)
	checkRosterShape(t, r)
}

func TestJoinReturnsInsert(t *testing.T) {
	r := newRoster(4)
	_, ch, err := r.Join("p-x", "x", t0)
	require.NoError(t, err)
	require.NotNil(t, ch.Insert)
	assert.Equal(t, "ev", ch.Insert.EventID)
	assert.Nil(t, ch.Delete)
	assert.Empty(t, ch.Updates)
}

func TestJoinTwiceConflicts(t *testing.T) {
	r := newRoster(2)
	join(t, r, "b", 1)

	_, _, err := r.Join("p-b2", "b", t0)
	assert.ErrorIs(t, err, domain.ErrParticipantExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestOrganizerCannotJoinOrLeave(t *testing.T) {
	r := newRoster(2)

	_, _, err := r.Join("p", "org", t0)
	assert.ErrorIs(t, err, domain.ErrOrganizerJoin)
	assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))

	_, _, err = r.Leave("org")
	assert.ErrorIs(t, err, domain.ErrOrganizerLeave)
	assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))
}

func TestLeaveConfirmedPromotesHeadOfWaitingList(t *testing.T) {
	r := newRoster(2)
	join(t, r, "b", 1)
	join(t, r, "c", 2)
	join(t, r, "d", 3)

	left, ch, err := r.Leave("b")
	require.NoError(t, err)

	assert.Equal(t, "b", left.UserID)
	require.NotNil(t, ch.Delete)
	require.Len(t, ch.Promoted, 1)
	assert.Equal(t, "c", ch.Promoted[0].UserID)
	assert.Equal(t, domain.StatusConfirmed, r.Status("c"))
	assert.Equal(t, map[string]int{"d": 1}, positions(r))
	assert.Equal(t, 2, r.ConfirmedCount())

	// promotion first, then d's renumbering
	require.Len(t, ch.Updates, 2)
	assert.Equal(t, "c", ch.Updates[0].UserID)
	assert.Zero(t, ch.Updates[0].WaitingPosition)
	assert.Equal(t, "d", ch.Updates[1].UserID)
	assert.Equal(t, 1, ch.Updates[1].WaitingPosition)
	checkRosterShape(t, r)
}

func TestLeaveConfirmedWithoutWaitingList(t *testing.T) {
	r := newRoster(3)
	join(t, r, "b", 1)

	_, ch, err := r.Leave("b")
	require.NoError(t, err)
	assert.Empty(t, ch.Promoted)
	assert.Empty(t, ch.Updates)
	assert.Equal(t, 1, r.ConfirmedCount())
}

func TestLeaveFromMiddleOfWaitingList(t *testing.T) {
	r := newRoster(1)
	join(t, r, "x", 1)
	join(t, r, "y", 2)
	join(t, r, "z", 3)
	require.Equal(t, map[string]int{"x": 1, "y": 2, "z": 3}, positions(r))

	_, ch, err := r.Leave("y")
	require.NoError(t, err)

	assert.Empty(t, ch.Promoted)
	assert.Equal(t, map[string]int{"x": 1, "z": 2}, positions(r))
	require.Len(t, ch.Updates, 1)
	assert.Equal(t, "z", ch.Updates[0].UserID)
	checkRosterShape(t, r)
}

func TestCapacityOneOrganizerOnly(t *testing.T) {
	r := newRoster(1)
	a := join(t, r, "a", 1)

	assert.Equal(t, domain.StatusWaiting, a.Status)
	assert.Equal(t, 1, a.WaitingPosition)

	_, _, err := r.Leave("org")
	assert.ErrorIs(t, err, domain.ErrOrganizerLeave)
	assert.Equal(t, domain.StatusWaiting, r.Status("a"))
}

func TestLeaveUnknownUser(t *testing.T) {
	r := newRoster(2)
	_, _, err := r.Leave("ghost")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestJoinReactivatesTombstone(t *testing.T) {
	event := &entities.Event{ID: "ev", OrganizerID: "org", PlayerCountTotal: 1}
	rows := []entities.Participant{
		{ID: "p-org", UserID: "org", Status: domain.StatusConfirmed, JoinedAt: t0},
		{ID: "p-w", UserID: "w", Status: domain.StatusWaiting, WaitingPosition: 1, JoinedAt: t0},
		{ID: "p-old", UserID: "old", Status: domain.StatusRemoved, WaitingPosition: 7, JoinedAt: t0},
	}
	r := New(event, rows)

	_, _, err := r.Leave("old")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	p, ch, err := r.Join("ignored", "old", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, ch.Insert)
	require.Len(t, ch.Updates, 1)
	assert.Equal(t, "p-old", p.ID)
	assert.Equal(t, domain.StatusWaiting, p.Status)
	assert.Equal(t, 2, p.WaitingPosition)
}

func TestJoinReactivatesTombstoneAsWaitingWithFreeSlots(t *testing.T) {
	event := &entities.Event{ID: "ev", OrganizerID: "org", PlayerCountTotal: 3}
	rows := []entities.Participant{
		{ID: "p-org", UserID: "org", Status: domain.StatusConfirmed, JoinedAt: t0},
		{ID: "p-old", UserID: "old", Status: domain.StatusRemoved, JoinedAt: t0},
	}
	r := New(event, rows)

	p, ch, err := r.Join("x", "old", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, ch.Insert)
	assert.Equal(t, "p-old", p.ID)
	assert.Equal(t, domain.StatusWaiting, p.Status)
	assert.Equal(t, 1, p.WaitingPosition)
	assert.Equal(t, 1, r.ConfirmedCount())
	checkRosterShape(t, r)

	// ordinary joins still take the free slots
	q, _, err := r.Join("p-new", "new", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, q.Status)
}

func TestResize(t *testing.T) {
	r := newRoster(1)
	join(t, r, "a", 1)
	join(t, r, "b", 2)
	join(t, r, "c", 3)

	ch, err := r.Resize(3)
	require.NoError(t, err)
	require.Len(t, ch.Promoted, 2)
	assert.Equal(t, "a", ch.Promoted[0].UserID)
	assert.Equal(t, "b", ch.Promoted[1].UserID)
	assert.Equal(t, map[string]int{"c": 1}, positions(r))
	checkRosterShape(t, r)

	_, err = r.Resize(2)
	assert.ErrorIs(t, err, domain.ErrCannotReduceSlots)
	_, err = r.Resize(0)
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
}

func TestOrderedPutsConfirmedFirst(t *testing.T) {
	r := newRoster(2)
	join(t, r, "b", 1)
	join(t, r, "c", 2)
	join(t, r, "d", 3)

	var got []string
	for _, p := range r.Ordered() {
		got = append(got, p.UserID)
	}
	assert.Equal(t, []string{"org", "b", "c", "d"}, got)
}

func TestRenumberHealsGaps(t *testing.T) {
	event := &entities.Event{ID: "ev", OrganizerID: "org", PlayerCountTotal: 2}
	rows := []entities.Participant{
		{ID: "p-org", UserID: "org", Status: domain.StatusConfirmed, JoinedAt: t0},
		{ID: "p-b", UserID: "b", Status: domain.StatusConfirmed, JoinedAt: t0},
		{ID: "p-x", UserID: "x", Status: domain.StatusWaiting, WaitingPosition: 2, JoinedAt: t0},
		{ID: "p-y", UserID: "y", Status: domain.StatusWaiting, WaitingPosition: 5, JoinedAt: t0},
	}
	r := New(event, rows)

	_, ch, err := r.Leave("b")
	require.NoError(t, err)
	require.Len(t, ch.Promoted, 1)
	assert.Equal(t, "x", ch.Promoted[0].UserID)
	assert.Equal(t, map[string]int{"y": 1}, positions(r))
}

// TestRandomInterleavings drives random joins and leaves and checks the
// roster shape after every completed operation.
func TestRandomInterleavings(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			capacity := 1 + rng.Intn(5)
			r := newRoster(capacity)
			users := make([]string, 3+rng.Intn(10))
			for i := range users {
				users[i] = fmt.Sprintf("u%d", i)
			}

			for step := 0; step < 300; step++ {
				u := users[rng.Intn(len(users))]
				before := r.Status(u)
				if rng.Intn(2) == 0 {
					_, _, err := r.Join(fmt.Sprintf("p-%d", step), u, t0.Add(time.Duration(step)*time.Second))
					if before != "" {
						require.ErrorIs(t, err, domain.ErrParticipantExists)
					} else {
						require.NoError(t, err)
					}
				} else {
					_, _, err := r.Leave(u)
					if before == "" {
						require.ErrorIs(t, err, domain.ErrParticipantNotFound)
					} else {
						require.NoError(t, err)
					}
				}
				checkRosterShape(t, r)
				if r.WaitingCount() > 0 {
					require.Equal(t, capacity, r.ConfirmedCount(), "nobody waits while a slot is free")
				}
			}
		})
	}
}
