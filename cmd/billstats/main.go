// billstats is the operator CLI: offline builds, bulk-data mirroring, an
// embedded API server, and session listing.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/cache"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/database/postgres"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/database/postgres/repositories"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds/congress"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds/govinfo"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds/ilga"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/prometheus"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/storage/minio"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/cli"
	httpserver "github.com/Doommen3/congress-bill-stats/internal/interfaces/http"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/http/handlers"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/http/middleware"
)

// bulkDataDir is where `billstats sync` mirrors the govinfo tree and where
// `billstats build` looks for it before falling back to the API.
const bulkDataDir = "data/govinfo"

func main() {
	cfg, log, err := bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "billstats: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := cli.Dependencies{
		Builder:  &lazyBuilder{cfg: cfg, log: log},
		Syncer:   &lazySyncer{cfg: cfg, log: log},
		Serve:    func(ctx context.Context) error { return serve(ctx, cfg, log) },
		Sessions: func() []stats.SessionInfo { return stats.KnownSessions(cfg.Stats.DefaultSession) },
		Logger:   log,
	}

	if err := cli.NewRootCommand(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "billstats: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and the logger shared by every subcommand.
func bootstrap() (*config.Config, logging.Logger, error) {
	var cfg *config.Config
	var err error
	if path := os.Getenv("BILLSTATS_CONFIG"); path != "" {
		cfg, err = config.Load(path)
	} else if _, statErr := os.Stat("configs/config.yaml"); statErr == nil {
		cfg, err = config.Load("configs/config.yaml")
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log.Named("billstats"), nil
}

// buildStack holds the storage and feed components one build needs.
type buildStack struct {
	tracker  *stats.RefreshTracker
	conn     *postgres.Connection
	billRepo *repositories.BillRepo
}

func (s *buildStack) close() { s.conn.Close() }

// newBuildStack connects the database and wires the feed router in front of
// the builder.
func newBuildStack(ctx context.Context, cfg *config.Config, log logging.Logger) (*buildStack, error) {
	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(cfg.Database, log); err != nil {
		conn.Close()
		return nil, err
	}

	congressClient := congress.NewClient(cfg.Congress, cfg.Worker.Concurrency, log)
	source := feeds.NewRouter(
		ilga.NewSource(ilga.NewClient(cfg.ILGA, log), cfg.Worker.Concurrency, log),
		congress.NewBulkSource(congressClient, congress.NewBulkLoader(cfg.Worker.Concurrency, log), bulkDataDir, log),
		0,
	)

	billRepo := repositories.NewBillRepo(conn.Pool(), log)
	builder := stats.NewBuilder(stats.BuilderDeps{
		Members:    source,
		Bills:      source,
		MemberRepo: repositories.NewLegislatorRepo(conn.Pool(), log),
		BillRepo:   billRepo,
		Normalizer: stats.NewNormalizer(congressClient, log),
		Log:        log,
	}, stats.BuilderOptions{
		PriorWeight: cfg.Stats.PriorWeight,
		Workers:     cfg.Worker.Concurrency,
	})
	return &buildStack{
		tracker:  stats.NewRefreshTracker(builder, log),
		conn:     conn,
		billRepo: billRepo,
	}, nil
}

// lazyBuilder defers database and feed wiring until the build command
// actually runs, keeping cheap commands free of connection setup.
type lazyBuilder struct {
	cfg *config.Config
	log logging.Logger
}

func (b *lazyBuilder) Run(ctx context.Context, session int, incremental bool) (*stats.Report, error) {
	stack, err := newBuildStack(ctx, b.cfg, b.log)
	if err != nil {
		return nil, err
	}
	defer stack.close()
	return stack.tracker.Run(ctx, session, incremental)
}

// lazySyncer assembles the govinfo mirror on first use.  The MinIO archive
// is optional: without it the mirror is disk-only.
type lazySyncer struct {
	cfg *config.Config
	log logging.Logger
}

func (s *lazySyncer) Sync(ctx context.Context, congressNum int) (*govinfo.SyncResult, error) {
	var store govinfo.ObjectStore
	archive, err := minio.NewArchive(ctx, s.cfg.MinIO, s.log)
	if err != nil {
		s.log.Warn("minio unavailable, mirroring to disk only", logging.Err(err))
	} else {
		store = archive
	}
	syncer := govinfo.NewSyncer(
		govinfo.NewClient(s.cfg.GovInfo, s.log),
		bulkDataDir,
		s.cfg.GovInfo.MaxZipBytes,
		store,
		s.log,
	)
	return syncer.Sync(ctx, congressNum)
}

// serve runs the embedded API server until ctx is cancelled.  It carries the
// same stats pipeline as the standalone apiserver without the optional graph
// and search dependencies.
func serve(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	stack, err := newBuildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stack.close()

	var reportCache stats.ReportCache
	redisCache, err := cache.New(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, serving without report cache", logging.Err(err))
	} else {
		defer redisCache.Close()
		reportCache = redisCache
	}

	service := stats.NewService(stack.tracker, reportCache, nil, stats.ServiceOptions{
		DefaultSession: cfg.Stats.DefaultSession,
		CacheTTL:       cfg.Stats.CacheTTL,
	}, log)

	adminGate := middleware.NewAdminGate(cfg.Admin)
	router := httpserver.NewRouter(httpserver.RouterConfig{
		StatsHandler: handlers.NewStatsHandler(service, adminGate),
		LawsHandler:  handlers.NewLawsHandler(stack.billRepo, cfg.Stats.DefaultSession),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.HealthCheck{
			"postgres": stack.conn.HealthCheck,
		}),
		AdminGate: adminGate,
		Logger:    log,
		Metrics:   prometheus.NewMetrics(),
	})
	srv := httpserver.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Stop(stopCtx)
}

//Personal.AI order the ending
