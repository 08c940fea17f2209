package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"talk-gate/contract"
	"talk-gate/domain"
	"talk-gate/errors"
	"talk-gate/internal"
	"talk-gate/moderation"
	"talk-gate/repositories"
	"talk-gate/runtime/workers"
	"talk-gate/search"
	"talk-gate/services"
	"talk-gate/sink"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if stderrors.Is(err, errUsage) || stderrors.Is(err, errors.ErrValidation) {
			os.Exit(exitUsage)
		}
		os.Exit(exitFailure)
	}
}

// app holds everything a command needs.
type app struct {
	config        internal.Config
	log           *slog.Logger
	identities    repositories.IIdentityRepository
	conversations services.IConversationService
	permissions   services.IPermissionService
}

// run wires the stores, the notification pipeline and the services, executes
// one command and shuts everything down. Returning instead of exiting lets the
// deferred closes run.
func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return errUsage
	}

	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	policy, err := domain.ParsePendingPolicy(config.PendingMessagePolicy)
	if err != nil {
		return err
	}
	char, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	natsConfig, err := internal.LoadNatsConfig()
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Debug("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index & moderation
	index, err := search.NewMessageIndex(config.BlugeFilepath, log)
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	moderator, err := moderation.NewModerator(internal.CensoredWordList(config.CensoredWords), char, log)
	if err != nil {
		return fmt.Errorf("moderator build failed: %w", err)
	}

	// 4. Notifications, delivered by a supervised worker
	var delivery contract.NotificationSink = sink.NewLogSink(log)
	if natsConfig.URL != "" {
		conn, err := sink.Connect(natsConfig.URL, natsConfig.Name, log)
		if err != nil {
			return err
		}
		defer conn.Close()
		delivery = sink.NewNatsSink(conn, natsConfig.Subject, log)
	}
	notifications := sink.NewAsyncSink(delivery, config.NotificationBufferSize, config.NotificationTimeout, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(notifications)
	supervised := make(chan struct{})
	go func() {
		defer close(supervised)
		sup.Run(workerCtx)
	}()
	// Canceling flushes the notification queue before the stores close.
	defer func() {
		cancelWorkers()
		<-supervised
	}()

	// 5. Services
	identities := repositories.NewIdentityRepository(db, log)
	conversations := services.NewConversationService(
		repositories.NewConversationRepository(db, log),
		identities,
		log,
		services.WithModerator(moderator),
		services.WithMessageIndex(index),
	)
	a := &app{
		config:        config,
		log:           log,
		identities:    identities,
		conversations: conversations,
		permissions:   services.NewPermissionService(conversations, identities, notifications, policy, log),
	}

	return a.dispatch(ctx, args[0], args[1:])
}
