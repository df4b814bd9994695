package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xlov-lab/experience-api/internal/handlers"
	"github.com/xlov-lab/experience-api/internal/platform/config"
	pfirestore "github.com/xlov-lab/experience-api/internal/platform/firestore"
	"github.com/xlov-lab/experience-api/internal/platform/genai"
	"github.com/xlov-lab/experience-api/internal/platform/jobs"
	"github.com/xlov-lab/experience-api/internal/platform/observability"
	"github.com/xlov-lab/experience-api/internal/platform/secrets"
	platformstorage "github.com/xlov-lab/experience-api/internal/platform/storage"
	"github.com/xlov-lab/experience-api/internal/repositories"
	firestoreRepo "github.com/xlov-lab/experience-api/internal/repositories/firestore"
	"github.com/xlov-lab/experience-api/internal/services"
)

const shutdownGrace = 10 * time.Second

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	logger := baseLogger.Named("api")

	if err := run(context.Background(), logger); err != nil {
		logger.Error("api exited with error", zap.Error(err))
		_ = baseLogger.Sync()
		os.Exit(1)
	}
	_ = baseLogger.Sync()
}

// run wires the whole application and blocks until a termination signal
// drains the server. Every resource opened here is released before return.
func run(ctx context.Context, logger *zap.Logger) error {
	startedAt := time.Now().UTC()
	ctx = observability.WithLogger(ctx, logger)

	fetcher, err := newSecretFetcher(ctx, logger)
	if err != nil {
		return fmt.Errorf("secret fetcher: %w", err)
	}
	defer closeQuietly(logger, "secret fetcher", fetcher.Close)

	cfg, err := loadConfig(ctx, logger, fetcher)
	if err != nil {
		return err
	}
	buildInfo := services.BuildInfo{
		Version:     cfg.Service.Version,
		CommitSHA:   cfg.Service.CommitSHA,
		Environment: cfg.Service.Environment,
		StartedAt:   startedAt,
	}

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	firestoreClient, err := firestoreProvider.Client(ctx)
	if err != nil {
		return fmt.Errorf("firestore client: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	bucketReader, err := platformstorage.NewBucketReader(ctx, cfg.Storage.AssetsBucket)
	if err != nil {
		return fmt.Errorf("asset bucket reader: %w", err)
	}
	assetStore, err := platformstorage.NewAssetStore(bucketReader)
	if err != nil {
		return fmt.Errorf("asset store: %w", err)
	}
	defer closeQuietly(logger, "asset store", assetStore.Close)

	generator, err := genai.NewClient(ctx, genai.Config{
		APIKey:     cfg.Gemini.APIKey,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
	})
	if err != nil {
		return fmt.Errorf("generation client: %w", err)
	}

	jobPublisher, pubsubClient, err := newAggregationPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	if pubsubClient != nil {
		defer closeQuietly(logger, "pubsub client", pubsubClient.Close)
	}

	router, err := buildRouter(routerDeps{
		logger:        logger,
		cfg:           cfg,
		generator:     generator,
		assets:        assetStore,
		provider:      firestoreProvider,
		jobPublisher:  jobPublisher,
		build:         buildInfo,
		healthClient:  firestoreClient,
		healthSecrets: fetcher,
	})
	if err != nil {
		return err
	}

	return serve(ctx, logger, cfg.Server, router)
}

func loadConfig(ctx context.Context, logger *zap.Logger, fetcher *secrets.Fetcher) (config.Config, error) {
	cfg, err := config.Load(ctx,
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
		config.WithRequiredSecrets("Gemini.APIKey"),
	)
	if err != nil {
		var missing *config.MissingSecretsError
		if errors.As(err, &missing) {
			logger.Error("missing required secrets", zap.Strings("secrets", missing.Names()))
		}
		return config.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func newAggregationPublisher(ctx context.Context, cfg config.Config) (services.AggregationJobPublisher, *pubsub.Client, error) {
	if !cfg.Features.EnableAggregationJobs {
		return nil, nil, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.Jobs.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("pubsub client: %w", err)
	}
	publisher, err := jobs.NewPubSubAggregationPublisher(client.Topic(cfg.Jobs.Topic))
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("aggregation publisher: %w", err)
	}
	return publisher, client, nil
}

type routerDeps struct {
	logger        *zap.Logger
	cfg           config.Config
	generator     services.Generator
	assets        *platformstorage.AssetStore
	provider      *pfirestore.Provider
	jobPublisher  services.AggregationJobPublisher
	build         services.BuildInfo
	healthClient  *firestore.Client
	healthSecrets *secrets.Fetcher
}

func buildRouter(deps routerDeps) (http.Handler, error) {
	responseRepo, err := firestoreRepo.NewResponseRepository(deps.provider)
	if err != nil {
		return nil, fmt.Errorf("response repository: %w", err)
	}
	participationRepo, err := firestoreRepo.NewParticipationRepository(deps.provider)
	if err != nil {
		return nil, fmt.Errorf("participation repository: %w", err)
	}

	spectrumService, err := services.NewSpectrumService(services.SpectrumServiceDeps{
		Generator: deps.generator,
	})
	if err != nil {
		return nil, fmt.Errorf("spectrum service: %w", err)
	}
	canvasService, err := services.NewCanvasService(services.CanvasServiceDeps{
		Generator: deps.generator,
		Assets:    deps.assets,
	})
	if err != nil {
		return nil, fmt.Errorf("canvas service: %w", err)
	}
	mirrorService, err := services.NewMirrorService(services.MirrorServiceDeps{
		Generator: deps.generator,
		Assets:    deps.assets,
	})
	if err != nil {
		return nil, fmt.Errorf("mirror service: %w", err)
	}
	responseService, err := services.NewResponseService(services.ResponseServiceDeps{
		Responses:     responseRepo,
		Participation: participationRepo,
		Jobs:          deps.jobPublisher,
		Clock:         time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("response service: %w", err)
	}

	systemService, err := newSystemService(deps.healthClient, deps.healthSecrets, deps.build)
	if err != nil {
		// Readiness degrades to liveness; the API itself still serves.
		deps.logger.Warn("health: system service init failed", zap.Error(err))
	}

	spectrumHandlers := handlers.NewSpectrumHandlers(spectrumService)
	canvasHandlers := handlers.NewCanvasHandlers(canvasService)
	mirrorHandlers := handlers.NewMirrorHandlers(mirrorService)
	responseHandlers := handlers.NewResponseHandlers(responseService)
	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(deps.build),
		handlers.WithHealthSystemService(systemService),
	)

	projectID := strings.TrimSpace(deps.cfg.Firestore.ProjectID)
	return handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(deps.logger.Named("http")),
			observability.TraceMiddleware(projectID),
			observability.RecoveryMiddleware(deps.logger.Named("http")),
			observability.RequestLoggerMiddleware(projectID),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithSpectrumRoutes(spectrumHandlers.Routes),
		handlers.WithCanvasRoutes(canvasHandlers.Routes),
		handlers.WithMirrorRoutes(mirrorHandlers.Routes),
		handlers.WithResponseRoutes(responseHandlers.Routes),
		handlers.WithStatsRoutes(responseHandlers.StatsRoutes),
	), nil
}

func serve(ctx context.Context, logger *zap.Logger, cfg config.ServerConfig, handler http.Handler) error {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("xlov experience api listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-signalCtx.Done():
	}

	logger.Info("shutdown signal received; draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newSystemService(client *firestore.Client, fetcher *secrets.Fetcher, build services.BuildInfo) (services.SystemService, error) {
	var checks []repositories.DependencyCheck
	if client != nil {
		c := client
		checks = append(checks, repositories.DependencyCheck{
			Name:    "firestore",
			Timeout: 1500 * time.Millisecond,
			Check: func(ctx context.Context) error {
				_, err := c.Collections(ctx).Next()
				if errors.Is(err, iterator.Done) {
					return nil
				}
				return err
			},
		})
	}
	if fetcher != nil {
		// Resolving a well-known missing secret still proves connectivity.
		const probeRef = "secret://system/healthz?version=latest"
		checks = append(checks, repositories.DependencyCheck{
			Name:    "secretManager",
			Timeout: time.Second,
			Check: func(ctx context.Context) error {
				_, err := fetcher.Resolve(ctx, probeRef)
				if err == nil {
					return nil
				}
				if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
					return nil
				}
				return err
			},
		})
	}
	if len(checks) == 0 {
		return nil, errors.New("health: no dependency checks configured")
	}
	repo, err := repositories.NewDependencyHealthRepository(checks)
	if err != nil {
		return nil, err
	}
	return services.NewSystemService(services.SystemServiceDeps{
		HealthRepository: repo,
		Clock:            time.Now,
		Build:            build,
	})
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger) (*secrets.Fetcher, error) {
	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
	}
	if project := strings.TrimSpace(os.Getenv("XLOV_SECRET_PROJECT_ID")); project != "" {
		opts = append(opts, secrets.WithDefaultProject(project))
	}
	if fallback := strings.TrimSpace(os.Getenv("XLOV_SECRET_FALLBACK_FILE")); fallback != "" {
		opts = append(opts, secrets.WithFallbackFile(fallback))
	}
	return secrets.NewFetcher(ctx, opts...)
}

func closeQuietly(logger *zap.Logger, name string, close func() error) {
	if err := close(); err != nil {
		logger.Warn(name+" close error", zap.Error(err))
	}
}
