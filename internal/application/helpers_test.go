package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/infrastructure/memory"
	"sportmeet/internal/ports/input"
	"sportmeet/pkg/tz"
)

// fixedNow is a Monday morning in Prague.
var fixedNow = time.Date(2026, 6, 1, 10, 0, 0, 0, tz.Prague)

type sentNotification struct {
	kind   string
	userID string
	event  entities.EventContext
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) record(kind, userID string, ev entities.EventContext) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{kind: kind, userID: userID, event: ev})
	return n.err
}

func (n *fakeNotifier) NotifyPromoted(_ context.Context, userID string, ev entities.EventContext) error {
	return n.record("promoted", userID, ev)
}

func (n *fakeNotifier) NotifyReminder(_ context.Context, userID string, ev entities.EventContext) error {
	return n.record("reminder", userID, ev)
}

func (n *fakeNotifier) users(kind string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, s := range n.sent {
		if s.kind == kind {
			out = append(out, s.userID)
		}
	}
	return out
}

type countingMetrics struct {
	mu       sync.Mutex
	joined   map[domain.Status]int
	left     map[domain.Status]int
	promoted int
	failed   map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{joined: map[domain.Status]int{}, left: map[domain.Status]int{}, failed: map[string]int{}}
}

func (m *countingMetrics) Joined(s domain.Status) { m.mu.Lock(); m.joined[s]++; m.mu.Unlock() }
func (m *countingMetrics) Left(s domain.Status)   { m.mu.Lock(); m.left[s]++; m.mu.Unlock() }
func (m *countingMetrics) Promoted(n int)         { m.mu.Lock(); m.promoted += n; m.mu.Unlock() }
func (m *countingMetrics) NotificationFailed(kind string) {
	m.mu.Lock()
	m.failed[kind]++
	m.mu.Unlock()
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(h, p string) bool      { return h == "hashed:"+p }

type plainTokens struct{}

func (plainTokens) Issue(userID string) (string, time.Time, error) {
	return "token:" + userID, fixedNow.Add(time.Hour), nil
}

func (plainTokens) Parse(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return "", errors.New("malformed token")
	}
	return id, nil
}

type fixture struct {
	store        *memory.Store
	users        *memory.UserRepository
	events       *memory.EventRepository
	participants *memory.ParticipantRepository
	notifier     *fakeNotifier
	metrics      *countingMetrics

	roster  *ParticipantService
	catalog *EventService
	auth    *AuthService
	profile *ProfileService
	chat    *ChatService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:        store,
		users:        memory.NewUserRepository(store),
		events:       memory.NewEventRepository(store),
		participants: memory.NewParticipantRepository(store),
		notifier:     &fakeNotifier{},
		metrics:      newCountingMetrics(),
	}
	log := zerolog.Nop()
	clock := func() time.Time { return fixedNow }

	f.roster = NewParticipantService(f.participants, f.events, f.notifier, f.metrics, log)
	f.roster.now = clock
	f.catalog = NewEventService(f.events, f.participants, f.notifier, f.metrics, log)
	f.catalog.now = clock
	f.profile = NewProfileService(f.users, f.participants)
	f.profile.now = clock
	f.auth = NewAuthService(f.users, plainHasher{}, plainTokens{}, f.profile, log)
	f.auth.now = clock
	f.chat = NewChatService(memory.NewChatRepository(store), f.events, f.users)
	f.chat.now = clock
	return f
}

func (f *fixture) user(t *testing.T, name string) string {
	t.Helper()
	u := &entities.User{ID: name, Email: name + "@example.com", Name: name, Language: domain.LanguageCzech}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func eventInput(capacity int) input.EventInput {
	return input.EventInput{
		SportID:          domain.SportBadminton,
		Date:             "2026-06-10",
		TimeStart:        "18:00",
		TimeEnd:          "19:30",
		PlaceName:        "Hala Strahov",
		ReservationType:  domain.ReservationReserved,
		PlayerCountTotal: capacity,
		SkillMin:         1,
		SkillMax:         3,
	}
}

func (f *fixture) event(t *testing.T, organizerID string, capacity int) string {
	t.Helper()
	sum, err := f.catalog.CreateEvent(context.Background(), organizerID, eventInput(capacity))
	require.NoError(t, err)
	return sum.ID
}

func statuses(t *testing.T, f *fixture, eventID string) (confirmed []string, waiting map[string]int) {
	t.Helper()
	players, err := f.roster.ListRoster(context.Background(), eventID)
	require.NoError(t, err)
	waiting = map[string]int{}
	for _, p := range players {
		if p.IsConfirmed() {
			confirmed = append(confirmed, p.UserID)
		} else {
			waiting[p.UserID] = p.WaitingPosition
		}
	}
	return confirmed, waiting
}
