package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportmeet/internal/domain"
	"sportmeet/internal/domain/entities"
	"sportmeet/internal/infrastructure/i18n"
	"sportmeet/internal/infrastructure/memory"
	"sportmeet/pkg/tz"
)

type recordingSender struct {
	name string
	err  error
	got  []Message
}

func (s *recordingSender) Name() string { return s.name }

func (s *recordingSender) Send(_ context.Context, _ *entities.User, msg Message) error {
	s.got = append(s.got, msg)
	return s.err
}

type memoryBroker struct {
	queue    [][]byte
	handlers chan func([]byte) error
}

func newMemoryBroker() *memoryBroker {
	return &memoryBroker{handlers: make(chan func([]byte) error, 1)}
}

func (b *memoryBroker) Publish(_ context.Context, body []byte) error {
	b.queue = append(b.queue, body)
	return nil
}

func (b *memoryBroker) Consume(handler func([]byte) error) error {
	b.handlers <- handler
	return nil
}

var evCtx = entities.EventContext{
	EventID:   "ev-1",
	SportID:   domain.SportPadel,
	PlaceName: "Arena",
	StartsAt:  time.Date(2026, 6, 10, 18, 0, 0, 0, tz.Prague),
}

func newUsers(t *testing.T, lang string) *memory.UserRepository {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	require.NoError(t, users.Create(context.Background(), &entities.User{ID: "u1", Email: "u1@example.com", Name: "U1", Language: lang}))
	return users
}

func TestDispatcherRendersInUserLanguage(t *testing.T) {
	tr := i18n.NewTranslator("cs", zerolog.Nop())
	sender := &recordingSender{name: "rec"}
	d := NewDispatcher(newUsers(t, "en"), tr, zerolog.Nop(), sender)

	require.NoError(t, d.Dispatch(context.Background(), Job{Kind: KindPromoted, UserID: "u1", Event: evCtx}))

	require.Len(t, sender.got, 1)
	msg := sender.got[0]
	assert.Equal(t, "You are in!", msg.Title)
	assert.Equal(t, "A spot opened up! You are now confirmed for Padel at Arena on 10.06.2026 18:00.", msg.Text)
	assert.Equal(t, "Where", msg.PlaceLabel)
}

func TestDispatcherTriesEverySender(t *testing.T) {
	tr := i18n.NewTranslator("cs", zerolog.Nop())
	failing := &recordingSender{name: "bad", err: errors.New("boom")}
	ok := &recordingSender{name: "ok"}
	d := NewDispatcher(newUsers(t, "cs"), tr, zerolog.Nop(), failing, ok)

	err := d.Dispatch(context.Background(), Job{Kind: KindReminder, UserID: "u1", Event: evCtx})
	assert.ErrorContains(t, err, "bad: boom")
	assert.Len(t, ok.got, 1)
	assert.Contains(t, ok.got[0].Text, "Připomínka")

	err = d.Dispatch(context.Background(), Job{Kind: KindReminder, UserID: "ghost", Event: evCtx})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRabbitPublisherAndConsumer(t *testing.T) {
	broker := newMemoryBroker()
	pub := NewRabbitPublisher(broker)
	require.NoError(t, pub.NotifyReminder(context.Background(), "u1", evCtx))
	require.Len(t, broker.queue, 1)

	var job Job
	require.NoError(t, json.Unmarshal(broker.queue[0], &job))
	assert.Equal(t, KindReminder, job.Kind)
	assert.True(t, evCtx.StartsAt.Equal(job.Event.StartsAt))

	sender := &recordingSender{name: "rec"}
	d := NewDispatcher(newUsers(t, "cs"), i18n.NewTranslator("cs", zerolog.Nop()), zerolog.Nop(), sender)
	c := NewConsumer(broker, d, zerolog.Nop())
	c.Start(context.Background())

	var handle func([]byte) error
	select {
	case handle = <-broker.handlers:
	case <-time.After(time.Second):
		t.Fatal("consumer did not subscribe")
	}

	require.NoError(t, handle(broker.queue[0]))
	assert.Len(t, sender.got, 1)
	assert.NoError(t, handle([]byte("{not json")), "malformed jobs are dropped")

	c.Stop()
}

func TestConsumerRequeuesOnOutage(t *testing.T) {
	d := NewDispatcher(outageUsers{newUsers(t, "cs")}, i18n.NewTranslator("cs", zerolog.Nop()), zerolog.Nop())
	c := NewConsumer(newMemoryBroker(), d, zerolog.Nop())
	body, _ := json.Marshal(Job{Kind: KindPromoted, UserID: "u1", Event: evCtx})
	assert.ErrorIs(t, c.Handle(context.Background(), body), domain.ErrUnavailable)
}

type outageUsers struct{ *memory.UserRepository }

func (outageUsers) FindByID(context.Context, string) (*entities.User, error) {
	return nil, fmt.Errorf("%w: connection refused", domain.ErrUnavailable)
}

func TestInProcessNotifier(t *testing.T) {
	sender := &recordingSender{name: "rec"}
	n := NewInProcess(NewDispatcher(newUsers(t, "cs"), i18n.NewTranslator("cs", zerolog.Nop()), zerolog.Nop(), sender), zerolog.Nop())
	require.NoError(t, n.NotifyPromoted(context.Background(), "u1", evCtx))
	n.Close()
	require.Len(t, sender.got, 1)
	assert.Equal(t, KindPromoted, sender.got[0].Kind)
}

// blockingSender holds every delivery until release is closed.
type blockingSender struct {
	release chan struct{}
	ctxErr  chan error
}

func (s *blockingSender) Name() string { return "blocking" }

func (s *blockingSender) Send(ctx context.Context, _ *entities.User, _ Message) error {
	<-s.release
	s.ctxErr <- ctx.Err()
	return nil
}

func TestInProcessDoesNotBlockOrInheritCancellation(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{}), ctxErr: make(chan error, 1)}
	n := NewInProcess(NewDispatcher(newUsers(t, "cs"), i18n.NewTranslator("cs", zerolog.Nop()), zerolog.Nop(), sender), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, n.NotifyPromoted(ctx, "u1", evCtx)) // returns while the sender is still blocked
	cancel()

	close(sender.release)
	n.Close()
	assert.NoError(t, <-sender.ctxErr, "delivery must survive the caller's cancellation")
}
