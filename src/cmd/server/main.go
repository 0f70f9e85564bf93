package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/movement-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/movement-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/movement-ledger/src/internal/adapter/notification/kafka"
	notifymemory "github.com/api-sage/movement-ledger/src/internal/adapter/notification/memory"
	"github.com/api-sage/movement-ledger/src/internal/adapter/notification/websocket"
	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/movement-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/movement-ledger/src/internal/config"
	"github.com/api-sage/movement-ledger/src/internal/logger"
	"github.com/api-sage/movement-ledger/src/internal/scheduler"
	"github.com/api-sage/movement-ledger/src/internal/usecase/services"
)

type repositories struct {
	accounts  repo_interfaces.AccountRepository
	owners    repo_interfaces.OwnerRepository
	users     repo_interfaces.UserRepository
	cards     repo_interfaces.CardRepository
	movements repo_interfaces.MovementRepository
	journal   repo_interfaces.TransferJournal
	db        *sql.DB
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := run(cfg); err != nil {
		logger.Error("server exited", err, nil)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	if repos.db != nil {
		defer repos.db.Close()
	}

	var (
		channel   repo_interfaces.NotificationChannel
		wsHandler http.Handler
	)
	switch cfg.Notifier {
	case config.NotifierKafka:
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		channel = publisher
	case config.NotifierLog:
		channel = notifymemory.NewChannel()
	default:
		hub := websocket.NewHub(cfg.NotifyTimeout)
		defer hub.Close()
		channel, wsHandler = hub, hub
	}

	notifier := services.NewNotificationService(repos.accounts, repos.owners, repos.users, channel, cfg.NotifyTimeout)
	movementService := services.NewMovementService(
		repos.accounts,
		repos.owners,
		repos.cards,
		repos.movements,
		repos.journal,
		notifier,
		cfg.RevocationWindow,
	)
	recovery := services.NewTransferRecoveryService(repos.journal, repos.accounts, repos.movements, cfg.RecoveryGrace)

	jobs := scheduler.New(ctx)
	if err := jobs.AddJob(cfg.RecoverySchedule, scheduler.NewTransferRecoveryJob(recovery)); err != nil {
		return err
	}
	jobs.Start()

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router.New(
			controller.NewMovementController(movementService),
			wsHandler,
			middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{
			"addr":     server.Addr,
			"store":    cfg.Store,
			"notifier": cfg.Notifier,
		})
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			jobs.Stop()
			notifier.Wait()
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", err, nil)
	}
	jobs.Stop()
	notifier.Wait()

	logger.Info("server stopped", nil)
	return nil
}

func openRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if cfg.Store == config.StoreMemory {
		store := memory.NewDemoStore()
		logger.Info("using in-memory store with demo data", nil)
		return repositories{
			accounts:  store.Accounts,
			owners:    store.Owners,
			users:     store.Users,
			cards:     store.Cards,
			movements: store.Movements,
			journal:   store.Journal,
		}, nil
	}

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := implementations.Open(openCtx, cfg.DatabaseDSN)
	if err != nil {
		return repositories{}, err
	}
	if err := implementations.RunMigrations(openCtx, db, cfg.MigrationsDir); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("run migrations: %w", err)
	}

	return repositories{
		accounts:  implementations.NewAccountRepository(db),
		owners:    implementations.NewOwnerRepository(db),
		users:     implementations.NewUserRepository(db),
		cards:     implementations.NewCardRepository(db),
		movements: implementations.NewMovementRepository(db),
		journal:   implementations.NewTransferJournal(db),
		db:        db,
	}, nil
}
