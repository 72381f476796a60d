package database

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/domain/roster"
	"sportmeet/internal/ports/output"
	"sportmeet/pkg/tz"
)

// testPool connects to TEST_DATABASE_URL and migrates it; the test is
// skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, RunMigrations(dsn, "../../../migrations", zerolog.Nop()))
	pool, err := NewPool(context.Background(), dsn, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, users *UserRepository, name string) string {
	t.Helper()
	now := time.Now()
	u := &entities.User{
		ID: uuid.NewString(), Email: fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "x", Name: name, Language: domain.LanguageCzech, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u.ID
}

func seedEvent(t *testing.T, events *EventRepository, organizerID string, capacity int) string {
	t.Helper()
	now := time.Now()
	e := &entities.Event{
		ID: uuid.NewString(), OrganizerID: organizerID, SportID: domain.SportSquash,
		Date: tz.Today(now).AddDate(0, 0, 7), TimeStart: "18:00", TimeEnd: "19:00",
		PlaceName: "Club", ReservationType: domain.ReservationReserved,
		PlayerCountTotal: capacity, SkillMin: 1, SkillMax: 4, CreatedAt: now, UpdatedAt: now,
	}
	org := &entities.Participant{ID: uuid.NewString(), EventID: e.ID, UserID: organizerID, Status: domain.StatusConfirmed, JoinedAt: now}
	require.NoError(t, events.Create(context.Background(), e, org))
	return e.ID
}

func join(ctx context.Context, repo *ParticipantRepository, eventID, userID string) error {
	return repo.WithinEventLock(ctx, eventID, func(ctx context.Context, tx output.RosterTx) error {
		r := roster.New(tx.Event(), tx.Participants())
		_, ch, err := r.Join(uuid.NewString(), userID, time.Now())
		if err != nil {
			return err
		}
		return tx.Insert(ctx, ch.Insert)
	})
}

func TestEventRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users, events := NewUserRepository(pool), NewEventRepository(pool)

	org := seedUser(t, users, "org")
	id := seedEvent(t, events, org, 4)

	e, err := events.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "org", e.OrganizerName)
	assert.Equal(t, 4, e.PlayerCountTotal)
	assert.True(t, e.RemindedAt.IsZero())

	_, err = events.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	require.NoError(t, events.MarkReminded(ctx, id, time.Now()))
	require.NoError(t, events.Delete(ctx, id))
	assert.ErrorIs(t, events.Delete(ctx, id), domain.ErrEventNotFound)
}

func TestRosterLockSerializesJoins(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users, events, participants := NewUserRepository(pool), NewEventRepository(pool), NewParticipantRepository(pool)

	org := seedUser(t, users, "org")
	id := seedEvent(t, events, org, 3)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		u := seedUser(t, users, fmt.Sprintf("u%d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, join(ctx, participants, id, u))
		}()
	}
	wg.Wait()

	players, err := participants.FindByEventID(ctx, id)
	require.NoError(t, err)
	confirmed, positions := 0, map[int]bool{}
	for _, p := range players {
		if p.IsConfirmed() {
			confirmed++
		} else {
			positions[p.WaitingPosition] = true
		}
	}
	assert.Equal(t, 3, confirmed)
	assert.Len(t, positions, 10)
	for pos := 1; pos <= 10; pos++ {
		assert.True(t, positions[pos])
	}
}

func TestDuplicateJoinAndNoShow(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users, events, participants := NewUserRepository(pool), NewEventRepository(pool), NewParticipantRepository(pool)

	org, b := seedUser(t, users, "org"), seedUser(t, users, "b")
	id := seedEvent(t, events, org, 3)

	err := participants.WithinEventLock(ctx, id, func(ctx context.Context, tx output.RosterTx) error {
		return tx.Insert(ctx, &entities.Participant{ID: uuid.NewString(), EventID: id, UserID: org, Status: domain.StatusWaiting, WaitingPosition: 1, JoinedAt: time.Now()})
	})
	assert.ErrorIs(t, err, domain.ErrParticipantExists)

	n := &entities.NoShow{ID: uuid.NewString(), EventID: id, UserID: b, ReportedByID: org, CreatedAt: time.Now()}
	require.NoError(t, events.CreateNoShow(ctx, n))
	n.ID = uuid.NewString()
	assert.ErrorIs(t, events.CreateNoShow(ctx, n), domain.ErrNoShowExists)

	u, err := users.FindByID(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 1, u.NoShows)
}

func TestChatSince(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users, events, chat := NewUserRepository(pool), NewEventRepository(pool), NewChatRepository(pool)

	org := seedUser(t, users, "org")
	id := seedEvent(t, events, org, 2)
	first := time.Now().Add(-time.Minute).Truncate(time.Microsecond)

	require.NoError(t, chat.Create(ctx, &entities.ChatMessage{ID: uuid.NewString(), EventID: id, UserID: org, Message: "one", SentAt: first}))
	require.NoError(t, chat.Create(ctx, &entities.ChatMessage{ID: uuid.NewString(), EventID: id, UserID: org, Message: "two", SentAt: first.Add(time.Second)}))

	all, err := chat.FindByEventID(ctx, id, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "org", all[0].UserName)

	newer, err := chat.FindByEventID(ctx, id, first)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "two", newer[0].Message)
}
