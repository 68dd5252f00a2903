// API server entry point for congress-bill-stats.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/cache"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/database/neo4j"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/database/postgres"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/database/postgres/repositories"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds/congress"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/feeds/ilga"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/messaging/kafka"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/prometheus"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/search/opensearch"
	httpserver "github.com/Doommen3/congress-bill-stats/internal/interfaces/http"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/http/handlers"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/http/middleware"
)

const (
	defaultConfigPath = "configs/config.yaml"

	// Per-client request budget; generous because the stats endpoints are
	// cache-backed and cheap.
	limiterRate  = 20.0
	limiterBurst = 40
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: logger: %v\n", err)
		os.Exit(1)
	}
	log = log.Named("apiserver")
	log.Info("starting api server",
		logging.Int("port", cfg.Server.Port),
		logging.Int("default_session", cfg.Stats.DefaultSession))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics()

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("postgres connection failed", logging.Err(err))
	}
	defer conn.Close()
	if err := postgres.Migrate(cfg.Database, log); err != nil {
		log.Fatal("migrations failed", logging.Err(err))
	}

	memberRepo := repositories.NewLegislatorRepo(conn.Pool(), log)
	billRepo := repositories.NewBillRepo(conn.Pool(), log)

	health := map[string]handlers.HealthCheck{
		"postgres": conn.HealthCheck,
	}

	// Redis is optional at startup: without it every read runs a fresh build,
	// which is slow but correct.
	var reportCache stats.ReportCache
	redisCache, err := cache.New(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, serving without report cache", logging.Err(err))
	} else {
		defer redisCache.Close()
		reportCache = redisCache
		health["redis"] = redisCache.HealthCheck
	}

	producer := kafka.NewProducer(cfg.Kafka, "apiserver", log)
	defer producer.Close()

	congressClient := congress.NewClient(cfg.Congress, cfg.Worker.Concurrency, log)
	source := feeds.NewRouter(
		ilga.NewSource(ilga.NewClient(cfg.ILGA, log), cfg.Worker.Concurrency, log),
		congressClient,
		0,
	)

	builder := stats.NewBuilder(stats.BuilderDeps{
		Members:    source,
		Bills:      source,
		MemberRepo: memberRepo,
		BillRepo:   billRepo,
		Normalizer: stats.NewNormalizer(congressClient, log),
		Log:        log,
	}, stats.BuilderOptions{
		PriorWeight: cfg.Stats.PriorWeight,
		Workers:     cfg.Worker.Concurrency,
	})
	tracker := stats.NewRefreshTracker(builder, log)
	service := stats.NewService(tracker, reportCache, producer, stats.ServiceOptions{
		DefaultSession: cfg.Stats.DefaultSession,
		CacheTTL:       cfg.Stats.CacheTTL,
	}, log)

	var networkHandler *handlers.NetworkHandler
	driver, err := neo4j.NewDriver(cfg.Neo4j, log)
	if err != nil {
		log.Warn("neo4j unavailable, network endpoint disabled", logging.Err(err))
	} else {
		defer driver.Close(context.Background())
		networkHandler = handlers.NewNetworkHandler(neo4j.NewGraph(driver, log), cfg.Stats.DefaultSession)
		health["neo4j"] = driver.HealthCheck
	}

	var searchHandler *handlers.SearchHandler
	index, err := opensearch.NewIndex(ctx, cfg.OpenSearch, log)
	if err != nil {
		log.Warn("opensearch unavailable, bill search disabled", logging.Err(err))
	} else {
		searchHandler = handlers.NewSearchHandler(index)
	}

	adminGate := middleware.NewAdminGate(cfg.Admin)
	if _, err := os.Stat(*configPath); err == nil {
		config.Watch(*configPath, func(next *config.Config) {
			log.Info("config reloaded, applying admin allowlist",
				logging.Int("allowed_cidrs", len(next.Admin.AllowedCIDRs)))
			adminGate.Update(next.Admin)
		})
	}
	limiter := middleware.NewTokenBucketLimiter(limiterRate, limiterBurst, 5*time.Minute)
	defer limiter.Close()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		StatsHandler:   handlers.NewStatsHandler(service, adminGate),
		LawsHandler:    handlers.NewLawsHandler(billRepo, cfg.Stats.DefaultSession),
		NetworkHandler: networkHandler,
		SearchHandler:  searchHandler,
		HealthHandler:  handlers.NewHealthHandler(health),
		AdminGate:      adminGate,
		RateLimiter:    limiter,
		Logger:         log,
		Metrics:        metrics,
	})
	srv := httpserver.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("http server failed", logging.Err(err))
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := srv.Stop(context.Background()); err != nil {
		log.Error("shutdown error", logging.Err(err))
	}
}

// loadConfig prefers the file, falling back to environment-only loading when
// it is absent so containerised deployments need no mounted config.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	fmt.Fprintf(os.Stderr, "apiserver: config file %s not found, using environment\n", path)
	return config.LoadFromEnv()
}

//Personal.AI order the ending
