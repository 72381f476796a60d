package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"sportmeet/internal/adapters/rest"
	"sportmeet/internal/adapters/scheduler"
	"sportmeet/internal/application"
	"sportmeet/internal/config"
	"sportmeet/internal/infrastructure/auth"
	"sportmeet/internal/infrastructure/database"
	"sportmeet/internal/infrastructure/i18n"
	"sportmeet/internal/infrastructure/memory"
	"sportmeet/internal/infrastructure/metrics"
	"sportmeet/internal/infrastructure/notify"
	"sportmeet/internal/ports/output"
)

const shutdownTimeout = 15 * time.Second

type stores struct {
	events       output.EventRepository
	participants output.ParticipantRepository
	users        output.UserRepository
	chat         output.ChatRepository
	close        func()
}

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "sportmeet").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	tr := i18n.NewTranslator(cfg.DefaultLocale, log)
	m := metrics.New()

	senders := []notify.Sender{notify.NewPushLogSender(st.users, log)}
	if cfg.DiscordToken != "" {
		session, err := notify.NewDiscordSession(cfg.DiscordToken)
		if err != nil {
			return fmt.Errorf("open discord session: %w", err)
		}
		defer session.Close()
		senders = append(senders, notify.NewDiscordSender(session))
		log.Info().Msg("discord notifications enabled")
	}
	dispatcher := notify.NewDispatcher(st.users, tr, log, senders...)

	inproc := notify.NewInProcess(dispatcher, log)
	defer inproc.Close()
	var notifier output.Notifier = inproc
	if cfg.AMQPURL != "" {
		rabbit, err := notify.NewRabbit(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, log)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		notifier = notify.NewRabbitPublisher(rabbit)

		consumer := notify.NewConsumer(rabbit, dispatcher, log)
		consumer.Start(ctx)
		defer consumer.Stop()
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		return err
	}

	profile := application.NewProfileService(st.users, st.participants)
	authSvc := application.NewAuthService(st.users, auth.NewHasher(0), tokens, profile, log)
	events := application.NewEventService(st.events, st.participants, notifier, m, log)
	participants := application.NewParticipantService(st.participants, st.events, notifier, m, log)
	chat := application.NewChatService(st.chat, st.events, st.users)
	reminders := application.NewReminderService(st.events, st.participants, notifier, m, cfg.ReminderLead, log)

	jobs, err := scheduler.New(cfg.ReminderSchedule, reminders, log)
	if err != nil {
		return err
	}
	jobs.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		jobs.Stop(stopCtx)
	}()

	limiter := rest.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx, 5*time.Minute)

	api := rest.NewServer(rest.Deps{
		Auth:         authSvc,
		Events:       events,
		Participants: participants,
		Profile:      profile,
		Chat:         chat,
		Translator:   tr,
		Metrics:      m,
		Limiter:      limiter,
		Log:          log.With().Str("component", "http").Logger(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.UseMemory() {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		s := memory.NewStore()
		return &stores{
			events:       memory.NewEventRepository(s),
			participants: memory.NewParticipantRepository(s),
			users:        memory.NewUserRepository(s),
			chat:         memory.NewChatRepository(s),
			close:        func() {},
		}, nil
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		return nil, err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	return &stores{
		events:       database.NewEventRepository(pool),
		participants: database.NewParticipantRepository(pool),
		users:        database.NewUserRepository(pool),
		chat:         database.NewChatRepository(pool),
		close:        pool.Close,
	}, nil
}
