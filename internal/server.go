package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/SirBarnaby/moyb/internal/catalog"
	"github.com/SirBarnaby/moyb/internal/config"
	"github.com/SirBarnaby/moyb/internal/db"
	plannermcp "github.com/SirBarnaby/moyb/internal/mcp"
	"github.com/SirBarnaby/moyb/internal/middleware"
	"github.com/SirBarnaby/moyb/internal/misc"
	"github.com/SirBarnaby/moyb/internal/planner"
	"github.com/SirBarnaby/moyb/internal/telemetry/metrics"
	"github.com/SirBarnaby/moyb/internal/telemetry/tracing"
	"github.com/SirBarnaby/moyb/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const idlePlansScanInterval = time.Minute

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool // only set for the postgres exercise source
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	registry    *planner.Registry
	lookup      *catalog.Lookup
	tipsManager *misc.TipsManager

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets
	if secrets == nil {
		secrets = &config.Secrets{}
	}

	var dbPool *pgxpool.Pool
	var pgxpoolCollector prometheus.Collector
	if cfg.ExerciseSource == config.ExerciseSourcePostgres {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: secrets.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		pgxpoolCollector = pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		)
	}

	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, "moyb-planner", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}

	source, err := newExerciseSource(cfg, dbPool, tracedHttpClient)
	if err != nil {
		return nil, fmt.Errorf("exercise source: %w", err)
	}

	tipsManager, err := loadTips(cfg.TipsCsvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create tips manager: %w", err)
	}

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),
		versionInfo: params.VersionInfo,

		registry: planner.NewRegistry(planner.Config{
			SetsPerWeekMax:        cfg.SetsPerWeekMax,
			SynergisticMultiplier: cfg.SynergisticMultiplier,
			StabilizingMultiplier: cfg.StabilizingMultiplier,
		}, metricsManager),
		lookup: catalog.NewLookup(
			source,
			rdb,
			time.Duration(cfg.MuscleSearchCacheTTLSec)*time.Second,
			metricsManager,
		),
		tipsManager: tipsManager,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func newExerciseSource(cfg *config.Config, dbPool *pgxpool.Pool, httpClient *http.Client) (catalog.Source, error) {
	switch cfg.ExerciseSource {
	case config.ExerciseSourceAPI:
		log.Debugf("using exercise backend api: %s", cfg.ExerciseApiURL)
		return catalog.NewApi(cfg.ExerciseApiURL, httpClient, cfg.ExerciseCacheSizeMB, cfg.ExerciseCacheTTLSec), nil
	case config.ExerciseSourcePostgres:
		if dbPool == nil {
			return nil, errors.New("postgres source without a db pool")
		}
		return catalog.NewPsqlSource(dbPool), nil
	case config.ExerciseSourceFile:
		log.Debugf("using exercise catalog file: %s", cfg.ExerciseFilePath)
		return catalog.NewFileSource(cfg.ExerciseFilePath)
	default:
		return nil, fmt.Errorf("unknown exercise source: %s", cfg.ExerciseSource)
	}
}

func loadTips(path string) (*misc.TipsManager, error) {
	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return nil, fmt.Errorf("check tips file: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("tips file not found: %s", path)
	}

	tipsCsvFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tips file: %w", err)
	}
	defer func() {
		if err := tipsCsvFile.Close(); err != nil {
			log.Warnf("close tips csv file: %s", err)
		}
	}()

	return misc.NewTipsManager(csv.NewReader(tipsCsvFile))
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	planner.NewHandler(s.registry, s.metricsManager).SetupRoutes(r)
	catalog.NewHandler(s.lookup).SetupRoutes(r)
	misc.NewHandler(s.tipsManager, s.versionInfo).SetupRoutes(r)

	mcpServer := plannermcp.NewServer(s.registry, s.lookup)
	r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.RateLimit(s.rateLimiter, "mutations", s.config.MutationRateLimitPerMin, s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	go s.cleanIdlePlans(ctx, idlePlansScanInterval)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// cleanIdlePlans drops the plans nobody touched for PlanIdleTimeoutMin, until ctx is done.
func (s *Server) cleanIdlePlans(ctx context.Context, interval time.Duration) {
	maxIdle := time.Duration(s.config.PlanIdleTimeoutMin) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("idle plans cleaner stopped")
			return
		case <-ticker.C:
			s.registry.ScanAndClean(maxIdle)
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
