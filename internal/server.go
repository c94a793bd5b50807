package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/auth"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/config"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/db"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/export"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/goals"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/middleware"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/settings"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/stats"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/metrics"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/users"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"
)

const serviceName = "fitness-backend"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	location     *time.Location
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	rateLimiter  middleware.RequestRateLimiter
	tokenService *auth.TokenService
	nowFunc      func() time.Time

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	JWTSecret               string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
	HoneycombAPIKey         string
}

func (p NewServerParams) dbParams() db.NewDBPoolParams {
	return db.NewDBPoolParams{
		DBHost:         p.Config.PostgresHost,
		DBPort:         p.Config.PostgresPort,
		DBUser:         p.Config.PostgresUser,
		DBPassword:     p.PostgresPassword,
		DBName:         p.Config.PostgresDBName,
		SSLMode:        p.Config.PostgresSSLMode,
		TracingEnabled: p.HoneycombTracingEnabled,
	}
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	location, err := params.Config.Location()
	if err != nil {
		return nil, err
	}

	tokenService, err := auth.NewTokenService(params.JWTSecret, auth.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("new token service: %w", err)
	}

	if err := db.MigrateUp(params.dbParams()); err != nil {
		return nil, fmt.Errorf("db migrations: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, params.dbParams())
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(
		params.HoneycombTracingEnabled,
		serviceName,
		params.HoneycombAPIKey,
		rdb,
	)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:       params.Config,
		location:     location,
		dbPool:       dbPool,
		redisClient:  rdb,
		rateLimiter:  redis_rate.NewLimiter(rdb),
		tokenService: tokenService,
		nowFunc:      time.Now,
		versionInfo:  params.VersionInfo,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	usersRepo := users.NewRepo(s.dbPool)
	workoutsRepo := workouts.NewRepo(s.dbPool)
	goalsRepo := goals.NewRepo(s.dbPool)
	goalsService := goals.NewService(goalsRepo, workoutsRepo, s.nowFunc)

	r.HandleFunc("/api/health", s.handleHealth).Methods("GET").Name("health")

	// register and login are rate limited per client IP
	limited := r.NewRoute().Subrouter()
	limited.Use(middleware.RateLimit(
		s.rateLimiter,
		s.metricsManager,
		"auth",
		s.config.LoginRateLimitAllowedPerMin,
	))

	users.NewAuthHandler(usersRepo, s.tokenService, s.metricsManager, s.config.SecureCookies).
		SetupRoutes(r, limited)
	users.NewProfileHandler(usersRepo, workoutsRepo, s.config.SecureCookies).
		SetupRoutes(r)
	workouts.NewHandler(workoutsRepo, s.metricsManager).
		SetupRoutes(r)
	goals.NewHandler(goalsRepo, goalsService, s.metricsManager, s.location, s.nowFunc).
		SetupRoutes(r)
	stats.NewHandler(stats.NewAnalyzer(workoutsRepo, s.location, s.nowFunc)).
		SetupRoutes(r)
	settings.NewHandler(usersRepo).
		SetupRoutes(r)
	export.NewHandler(export.NewExporter(usersRepo, workoutsRepo, goalsService, s.nowFunc), s.metricsManager, s.location).
		SetupRoutes(r)

	// unknown api paths
	r.PathPrefix("/api/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteNotFoundResponse(w, pkg.MsgNotFound)
	}).Name("unknown-api")

	// all the rest are pages, guarded by the access gate
	pages, err := s.pagesHandler()
	if err != nil {
		return nil, err
	}
	r.PathPrefix("/").Handler(pages).Methods("GET", "HEAD").Name("pages")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.NewAuthMiddlewareHandler(s.tokenService).AuthCheck())
	r.Use(middleware.AccessGate(s.tokenService, s.config.SecureCookies))
	r.Use(middleware.LimitAndDrainRequest())

	return r, nil
}

// pagesHandler serves the web client from the configured static dir.
// Without one, every page is a 404 once it passes the access gate.
func (s *Server) pagesHandler() (http.Handler, error) {
	if s.config.StaticDir == "" {
		return http.NotFoundHandler(), nil
	}

	exists, err := pkg.DirExists(s.config.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("check static dir: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("static dir not found: %s", s.config.StaticDir)
	}

	log.Debugf("serving pages from: %s", s.config.StaticDir)
	return http.FileServer(http.Dir(s.config.StaticDir)), nil
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, healthResponse{
		Status:  "ok",
		Version: s.versionInfo,
	})
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(router, serviceName),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

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
