// Background worker entry point: consumes refresh requests, rebuilds session
// statistics, and fans the results out to the cache, the sponsorship graph,
// and the search index.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
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
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

const defaultConfigPath = "configs/config.yaml"

// billIndexer is the slice of the search index the worker publishes to.
type billIndexer interface {
	IndexBills(ctx context.Context, bills []*bill.NormalizedBill) error
}

// graphWriter is the slice of the sponsorship graph the worker publishes to.
type graphWriter interface {
	ReplaceSession(ctx context.Context, session int, nodes []sponsorship.NetworkNode, edges []sponsorship.NetworkEdge) error
}

// worker holds everything one refresh needs.
type worker struct {
	tracker    *stats.RefreshTracker
	service    *stats.Service
	memberRepo *repositories.LegislatorRepo
	billRepo   *repositories.BillRepo
	graph      graphWriter
	index      billIndexer
	producer   *kafka.Producer
	metrics    *prometheus.Metrics
	log        logging.Logger
}

// handleRefresh rebuilds one session and fans the result out.  Conflicting
// requests (a build already running) are dropped, not retried.
func (w *worker) handleRefresh(ctx context.Context, env *kafka.EventEnvelope) error {
	var payload kafka.RefreshRequestedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		w.log.Warn("undecodable refresh payload", logging.Err(err))
		return nil
	}
	w.log.Info("refresh requested",
		logging.Int("session", payload.Session),
		logging.Bool("incremental", payload.Incremental))
	return w.rebuild(ctx, payload.Session, payload.Incremental)
}

func (w *worker) rebuild(ctx context.Context, session int, incremental bool) error {
	start := time.Now()
	report, err := w.tracker.Run(ctx, session, incremental)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			w.log.Info("build already running, dropping request", logging.Int("session", session))
			return nil
		}
		return err
	}
	w.service.StoreReport(ctx, report)
	w.publishDerived(ctx, session)
	w.metrics.ObserveBuild(session, report.Summary.TotalBills, report.UnmatchedSponsors, time.Since(start))

	if w.producer != nil {
		if err := w.producer.PublishStatsBuilt(ctx, kafka.StatsBuiltPayload{
			Session:           session,
			TotalBills:        report.Summary.TotalBills,
			TotalLaws:         report.Summary.TotalLaws,
			UnmatchedSponsors: report.UnmatchedSponsors,
			BuiltAt:           time.Now().UTC(),
		}); err != nil {
			w.log.Warn("stats-built publish failed", logging.Err(err))
		}
	}
	return nil
}

// publishDerived pushes the freshly stored session into the graph and the
// search index.  Both are enrichments; failures log and move on.
func (w *worker) publishDerived(ctx context.Context, session int) {
	roster, err := w.memberRepo.ListBySession(ctx, session)
	if err != nil {
		w.log.Warn("roster read failed", logging.Int("session", session), logging.Err(err))
		return
	}
	bills, err := w.billRepo.ListBySession(ctx, session)
	if err != nil {
		w.log.Warn("bill read failed", logging.Int("session", session), logging.Err(err))
		return
	}
	if w.graph != nil {
		nodes, edges := stats.BuildNetwork(roster, bills)
		if err := w.graph.ReplaceSession(ctx, session, nodes, edges); err != nil {
			w.log.Warn("graph update failed", logging.Int("session", session), logging.Err(err))
		}
	}
	if w.index != nil {
		if err := w.index.IndexBills(ctx, bills); err != nil {
			w.log.Warn("search index update failed", logging.Int("session", session), logging.Err(err))
		}
	}
}

// refreshLoop re-runs an incremental build of the default session on a
// timer, keeping pending-bill statuses current between explicit requests.
func (w *worker) refreshLoop(ctx context.Context, session int, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.rebuild(ctx, session, true); err != nil {
				w.log.Error("scheduled refresh failed", logging.Int("session", session), logging.Err(err))
			}
		}
	}
}

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: logger: %v\n", err)
		os.Exit(1)
	}
	log = log.Named("worker")
	log.Info("starting worker",
		logging.Int("concurrency", cfg.Worker.Concurrency),
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

	var reportCache stats.ReportCache
	redisCache, err := cache.New(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, built reports will not be cached", logging.Err(err))
	} else {
		defer redisCache.Close()
		reportCache = redisCache
	}

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
	service := stats.NewService(tracker, reportCache, nil, stats.ServiceOptions{
		DefaultSession: cfg.Stats.DefaultSession,
		CacheTTL:       cfg.Stats.CacheTTL,
	}, log)

	var graph graphWriter
	driver, err := neo4j.NewDriver(cfg.Neo4j, log)
	if err != nil {
		log.Warn("neo4j unavailable, graph publishing disabled", logging.Err(err))
	} else {
		defer driver.Close(context.Background())
		graph = neo4j.NewGraph(driver, log)
	}

	var index billIndexer
	osIndex, err := opensearch.NewIndex(ctx, cfg.OpenSearch, log)
	if err != nil {
		log.Warn("opensearch unavailable, search indexing disabled", logging.Err(err))
	} else {
		index = osIndex
	}

	producer := kafka.NewProducer(cfg.Kafka, "worker", log)
	defer producer.Close()

	w := &worker{
		tracker:    tracker,
		service:    service,
		memberRepo: memberRepo,
		billRepo:   billRepo,
		graph:      graph,
		index:      index,
		producer:   producer,
		metrics:    metrics,
		log:        log,
	}

	go w.refreshLoop(ctx, cfg.Stats.DefaultSession, cfg.Stats.RefreshInterval)

	consumer := kafka.NewConsumer(cfg.Kafka, kafka.TopicRefreshRequested, w.handleRefresh, log)
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("consumer failed", logging.Err(err))
	}
	log.Info("worker stopped")
}

// loadConfig prefers the file, falling back to environment-only loading when
// it is absent so containerised deployments need no mounted config.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	fmt.Fprintf(os.Stderr, "worker: config file %s not found, using environment\n", path)
	return config.LoadFromEnv()
}

//Personal.AI order the ending
