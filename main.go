package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Illuminate/internal/auth"
	"Illuminate/internal/cache"
	"Illuminate/internal/calc/efficacy"
	"Illuminate/internal/calc/ozone"
	"Illuminate/internal/calc/premium/autodesign"
	"Illuminate/internal/calc/premium/batch"
	"Illuminate/internal/calc/premium/export"
	"Illuminate/internal/calc/premium/importer"
	"Illuminate/internal/calc/premium/recommend"
	"Illuminate/internal/calc/report"
	"Illuminate/internal/calc/results"
	"Illuminate/internal/calc/safety"
	"Illuminate/internal/config"
	"Illuminate/internal/history"
	"Illuminate/internal/logger"
	"Illuminate/internal/observability"
	"Illuminate/internal/refdata"
	"Illuminate/internal/repo"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

type deps struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *sql.DB
	repo    *repo.PostgresRepository
	engine  *safety.Engine
	tables  *refdata.Tables
	cache   *cache.ResultCache
	metrics *observability.Metrics
}

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(router *mux.Router, d deps) {
	authEnv := &auth.Authenv{JWTKey: []byte(d.cfg.TokenKey), Repo: d.repo, Log: d.log}
	limiter := auth.NewIPRateLimiter(rate.Limit(d.cfg.RateLimit.RPS), d.cfg.RateLimit.Burst)

	router.Handle("/metrics", d.metrics.Handler()).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	tool := func(path, route string, h http.HandlerFunc) {
		secureApi.Handle(path, d.metrics.WrapHandler(route, h)).Methods("POST")
	}

	safetyH := &safety.Handler{Engine: d.engine, Log: d.log, Warnings: d.metrics}
	efficacyH := &efficacy.Handler{Pathogens: d.tables.Pathogens, Log: d.log}
	ozoneH := &ozone.Handler{Log: d.log}
	resultsH := &results.Handler{Engine: d.engine, Cache: d.cache, Runs: d.repo, Log: d.log, Warnings: d.metrics}
	reportH := &report.Handler{Engine: d.engine, Log: d.log}
	exportH := &export.Handler{Pathogens: d.tables.Pathogens, Log: d.log}
	importH := &importer.Handler{Pathogens: d.tables.Pathogens, Log: d.log}
	batchH := &batch.Handler{Engine: d.engine, Log: d.log}
	recommendH := &recommend.Handler{}
	autodesignH := &autodesign.Handler{}

	tool("/tools/safety/calc", "safety", safetyH.Calc)
	tool("/tools/efficacy/calc", "efficacy", efficacyH.Calc)
	tool("/tools/efficacy/xlsx", "efficacy_xlsx", exportH.Efficacy)
	tool("/tools/ozone/calc", "ozone", ozoneH.Calc)
	tool("/tools/results/calc", "results", resultsH.Calc)
	tool("/tools/report/pdf", "report", reportH.Generate)
	tool("/tools/premium/batch", "batch", batchH.Rooms)
	tool("/tools/premium/import", "import", importH.Rooms)
	tool("/tools/premium/recommend", "recommend", recommendH.Dimming)
	tool("/tools/premium/autodesign", "autodesign", autodesignH.Ventilation)

	historyH := &history.Handler{Repo: d.repo, Log: d.log}
	secureApi.HandleFunc("/history", historyH.List).Methods("GET")
	secureApi.HandleFunc("/history/{id}", historyH.Get).Methods("GET")
}

// resultCache returns nil when Redis is not configured or unreachable; the
// results endpoint then computes every request.
func resultCache(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, zl *zap.Logger) *cache.ResultCache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(ctx, client); err != nil {
		zl.Warn("redis unavailable, result cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		client.Close()
		return nil
	}
	return cache.NewResultCache(cache.NewRedisKVStore(client), cfg.Redis.TTL, metrics, zl)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "illuminate")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tables, err := refdata.Load(cfg.RefdataDir)
	if err != nil {
		zl.Fatal("load reference tables", zap.String("dir", cfg.RefdataDir), zap.Error(err))
	}

	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	defer db.Close()
	pg := repo.NewPostgresRepository(db, zl)
	if err := pg.EnsureSchema(ctx); err != nil {
		zl.Fatal("ensure schema", zap.Error(err))
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	d := deps{
		cfg:     cfg,
		log:     zl,
		db:      db,
		repo:    pg,
		engine:  safety.NewEngine(tables),
		tables:  tables,
		cache:   resultCache(ctx, cfg, metrics, zl),
		metrics: metrics,
	}

	router := mux.NewRouter()
	HandleList(router, d)

	stdLog := zap.NewStdLog(zl)
	handler := handlers.RecoveryHandler(handlers.RecoveryLogger(stdLog))(
		handlers.LoggingHandler(stdLog.Writer(), CORS(router)),
	)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		zl.Info("starting server", zap.String("addr", cfg.HTTP.Addr), zap.Bool("tls", cfg.TLS()))
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.HTTP.TLSCert, cfg.HTTP.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	zl.Info("shutdown signal received, closing active connections")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	wg.Wait()
	zl.Info("server stopped")
}
