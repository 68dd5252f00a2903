// Package config provides configuration loading, defaults, and validation for
// the congress-bill-stats service.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "billstats"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisDB        = 0
	DefaultRedisTTL       = 15 * time.Minute
	DefaultRedisKeyPrefix = "billstats:"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "billstats-workers"

	DefaultOpenSearchAddr   = "http://localhost:9200"
	DefaultOpenSearchPrefix = "billstats"

	DefaultNeo4jURI = "bolt://localhost:7687"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "billstats-archive"

	DefaultCongressBaseURL  = "https://api.congress.gov/v3"
	DefaultCongressPageSize = 250

	DefaultGovInfoBaseURL    = "https://www.govinfo.gov/bulkdata"
	DefaultGovInfoCollection = "BILLSTATUS"
	DefaultGovInfoMaxZip     = int64(512 << 20)

	DefaultILGABaseURL   = "https://www.ilga.gov"
	DefaultILGAUserAgent = "congress-bill-stats/1.0"
	DefaultILGADelay     = 500 * time.Millisecond

	DefaultPriorWeight     = 10.0
	DefaultSession         = 104
	DefaultRefreshInterval = 6 * time.Hour
	DefaultStatsCacheTTL   = 30 * time.Minute

	DefaultWorkerConcurrency = 8

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate() so that
// optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "billstats"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.NumPartitions == 0 {
		cfg.Kafka.NumPartitions = 3
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddr}
	}
	if cfg.OpenSearch.IndexPrefix == "" {
		cfg.OpenSearch.IndexPrefix = DefaultOpenSearchPrefix
	}
	if cfg.OpenSearch.BulkBatchSize == 0 {
		cfg.OpenSearch.BulkBatchSize = 500
	}

	// ── Neo4j ─────────────────────────────────────────────────────────────────
	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = DefaultNeo4jURI
	}
	if cfg.Neo4j.Database == "" {
		cfg.Neo4j.Database = "neo4j"
	}
	if cfg.Neo4j.MaxConnectionPoolSize == 0 {
		cfg.Neo4j.MaxConnectionPoolSize = 50
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = time.Hour
	}

	// ── Feeds ─────────────────────────────────────────────────────────────────
	if cfg.Congress.BaseURL == "" {
		cfg.Congress.BaseURL = DefaultCongressBaseURL
	}
	if cfg.Congress.PageSize == 0 {
		cfg.Congress.PageSize = DefaultCongressPageSize
	}
	if cfg.Congress.RequestTimeout == 0 {
		cfg.Congress.RequestTimeout = 30 * time.Second
	}
	if cfg.Congress.MaxRetries == 0 {
		cfg.Congress.MaxRetries = 3
	}
	if cfg.GovInfo.BaseURL == "" {
		cfg.GovInfo.BaseURL = DefaultGovInfoBaseURL
	}
	if cfg.GovInfo.Collection == "" {
		cfg.GovInfo.Collection = DefaultGovInfoCollection
	}
	if cfg.GovInfo.RequestTimeout == 0 {
		cfg.GovInfo.RequestTimeout = 2 * time.Minute
	}
	if cfg.GovInfo.MaxZipBytes == 0 {
		cfg.GovInfo.MaxZipBytes = DefaultGovInfoMaxZip
	}
	if cfg.ILGA.BaseURL == "" {
		cfg.ILGA.BaseURL = DefaultILGABaseURL
	}
	if cfg.ILGA.UserAgent == "" {
		cfg.ILGA.UserAgent = DefaultILGAUserAgent
	}
	if cfg.ILGA.RequestTimeout == 0 {
		cfg.ILGA.RequestTimeout = 30 * time.Second
	}
	if cfg.ILGA.FetchDelay == 0 {
		cfg.ILGA.FetchDelay = DefaultILGADelay
	}

	// ── Stats ─────────────────────────────────────────────────────────────────
	if cfg.Stats.PriorWeight == 0 {
		cfg.Stats.PriorWeight = DefaultPriorWeight
	}
	if cfg.Stats.DefaultSession == 0 {
		cfg.Stats.DefaultSession = DefaultSession
	}
	if cfg.Stats.RefreshInterval == 0 {
		cfg.Stats.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Stats.CacheTTL == 0 {
		cfg.Stats.CacheTTL = DefaultStatsCacheTTL
	}

	// ── Admin ─────────────────────────────────────────────────────────────────
	if len(cfg.Admin.AllowedCIDRs) == 0 {
		cfg.Admin.AllowedCIDRs = []string{"127.0.0.1", "::1"}
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.QueueDepth == 0 {
		cfg.Worker.QueueDepth = 256
	}
	if cfg.Worker.HeartbeatInterval == 0 {
		cfg.Worker.HeartbeatInterval = 30 * time.Second
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.Worker.RetryBackoff == 0 {
		cfg.Worker.RetryBackoff = 5 * time.Second
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

//Personal.AI order the ending
