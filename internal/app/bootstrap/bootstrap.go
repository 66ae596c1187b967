package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	commentservice "civica/contexts/civic-participation/comment-service"
	commentpostgres "civica/contexts/civic-participation/comment-service/adapters/postgres"
	commentworkers "civica/contexts/civic-participation/comment-service/application/workers"
	votationconfig "civica/contexts/civic-participation/votation-config"
	votationpostgres "civica/contexts/civic-participation/votation-config/adapters/postgres"
	votecasting "civica/contexts/civic-participation/vote-casting"
	votingpostgres "civica/contexts/civic-participation/vote-casting/adapters/postgres"
	investmentservice "civica/contexts/finance-core/investment-service"
	investmentpostgres "civica/contexts/finance-core/investment-service/adapters/postgres"
	proposalservice "civica/contexts/proposal-lifecycle/proposal-service"
	proposalpostgres "civica/contexts/proposal-lifecycle/proposal-service/adapters/postgres"
	"civica/internal/platform/config"
	"civica/internal/platform/db"
	"civica/internal/platform/httpserver"
	"civica/internal/platform/messaging"
	"civica/internal/platform/passcrypt"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	analysis      commentworkers.AnalysisWorker
	completed     commentworkers.AnalysisCompletedConsumer
	workerEnabled bool
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	cipher := passcrypt.New()

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	votingModule := votecasting.NewModule(votecasting.Dependencies{
		Voters:   votingRepo,
		Catalog:  votingRepo,
		Votes:    votingRepo,
		Liveness: votingRepo,
		Audit:    votingRepo,
		Cipher:   cipher,
		Clock:    votingpostgres.SystemClock{},
		Tokens:   votingpostgres.UUIDTokenSource{},
		Logger:   logger,
	})

	votationRepo := votationpostgres.NewRepository(pg.DB, logger)
	votationModule := votationconfig.NewModule(votationconfig.Dependencies{
		Proposals: votationRepo,
		Questions: votationRepo,
		Writer:    votationRepo,
		Audit:     votationRepo,
		Clock:     votingpostgres.SystemClock{},
		Logger:    logger,
	})

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	commentRepo := commentpostgres.NewRepository(pg.DB, logger)
	commentModule := commentservice.NewModule(commentservice.Dependencies{
		Commenters: commentRepo,
		Proposals:  commentRepo,
		Comments:   commentRepo,
		Documents:  commentRepo,
		Jobs:       commentRepo,
		Cipher:     cipher,
		Audit:      commentRepo,
		Clock:      votingpostgres.SystemClock{},
		Publisher:  bus,
		IDGen:      commentpostgres.UUIDGenerator{},
		Passphrase: cfg.CommentArchivePassphrase,
		Logger:     logger,
	})

	proposalRepo := proposalpostgres.NewRepository(pg.DB, logger)
	proposalModule := proposalservice.NewModule(proposalservice.Dependencies{
		Proposals: proposalRepo,
		Reviews:   proposalRepo,
		Audit:     proposalRepo,
		Clock:     votingpostgres.SystemClock{},
		Logger:    logger,
	})

	investmentRepo := investmentpostgres.NewRepository(pg.DB, cipher, logger)
	investmentModule := investmentservice.NewModule(investmentservice.Dependencies{
		Credentials: investmentRepo,
		Projects:    investmentRepo,
		Investments: investmentRepo,
		Audit:       investmentRepo,
		Clock:       votingpostgres.SystemClock{},
		Tokens:      votingpostgres.UUIDTokenSource{},
		Logger:      logger,
	})

	server := httpserver.New(
		votingModule,
		votationModule,
		commentModule,
		proposalModule,
		investmentModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	commentRepo := commentpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		analysis: commentworkers.AnalysisWorker{
			Jobs:      commentRepo,
			Publisher: bus,
			Clock:     votingpostgres.SystemClock{},
			IDGen:     commentpostgres.UUIDGenerator{},
			BatchSize: 50,
			Logger:    logger,
		},
		completed: commentworkers.AnalysisCompletedConsumer{
			Subscriber: bus,
			Audit:      commentRepo,
			Clock:      votingpostgres.SystemClock{},
			Logger:     logger,
		},
		workerEnabled: cfg.EnableCommentAnalysisWorker,
		pollInterval:  2 * time.Second,
		logger:        logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.workerEnabled {
		w.logger.Info("analysis worker disabled, idling",
			"event", "bootstrap_worker_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	if err := w.completed.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.analysis.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
