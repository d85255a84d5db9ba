package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"lectureRegistrar/internal/config"
	"lectureRegistrar/internal/http-server/handlers/lecture/applyLecture"
	"lectureRegistrar/internal/http-server/handlers/lecture/createLecture"
	"lectureRegistrar/internal/http-server/handlers/lecture/getLecture"
	"lectureRegistrar/internal/http-server/handlers/lecture/hasApplied"
	"lectureRegistrar/internal/http-server/handlers/lecture/listLectures"
	"lectureRegistrar/internal/http-server/middleware/mwlogger"
	"lectureRegistrar/internal/http-server/middleware/ratelimit"
	"lectureRegistrar/internal/lib/logger/handlers/slogpretty"
	"lectureRegistrar/internal/lib/logger/sl"
	"lectureRegistrar/internal/registrar"
	"lectureRegistrar/internal/stats"
	"lectureRegistrar/internal/storage/memory"
	"lectureRegistrar/internal/storage/postgres"
	"lectureRegistrar/internal/storage/sqlite"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	shutdownTimeout = 10 * time.Second
)

type store interface {
	registrar.Store
	Close() error
}

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting lecture registrar", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage.Driver))
	log.Debug("debug messages are enabled")

	st, err := setupStorage(cfg)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	memStats := stats.NewMemoryRecorder()
	var recorder stats.Recorder = memStats

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()

		if err != nil {
			log.Warn("redis unavailable, admission stats kept in memory", sl.Err(err))
			_ = rdb.Close()
			rdb = nil
		} else {
			recorder = stats.NewRedisRecorder(rdb,
				stats.WithPrefix(cfg.Redis.Prefix),
				stats.WithTTL(cfg.Redis.TTL),
			)
			memStats = nil
			log.Info("admission stats go to redis", slog.String("address", cfg.Redis.Address))
		}
	}

	reg := registrar.New(log, st,
		registrar.WithStats(recorder),
		registrar.WithDefaultCapacity(cfg.Registrar.DefaultCapacity),
		registrar.WithListCacheTTL(cfg.Registrar.ListCacheTTL),
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	var limiters *ratelimit.Store

	apply := router.With()
	if cfg.RateLimit.Enabled {
		limiters = ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
		apply = router.With(ratelimit.New(log, limiters))
	}

	apply.Post("/lectures/apply", applyLecture.New(log, reg))
	router.Get("/lectures", listLectures.New(log, reg))
	router.Get("/lectures/application/{userId}", hasApplied.New(log, reg))
	router.Post("/lectures", createLecture.New(log, reg))
	router.Get("/lectures/{id}", getLecture.New(log, reg))

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	done := make(chan struct{})

	if limiters != nil {
		go func() {
			ticker := time.NewTicker(cfg.RateLimit.CleanupEvery)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					if n := limiters.Cleanup(); n > 0 {
						log.Debug("idle rate limiters removed", slog.Int("count", n))
					}
				case <-done:
					return
				}
			}
		}()
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop
	close(done)

	log.Info("application stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if memStats != nil {
		totals := memStats.Totals()

		attrs := make([]any, 0, len(totals))
		for outcome, n := range totals {
			attrs = append(attrs, slog.Int64(string(outcome), n))
		}
		log.Info("admission stats", attrs...)
	}

	if rdb != nil {
		if err = rdb.Close(); err != nil {
			log.Error("failed to close redis client", sl.Err(err))
		}
	}

	if err = st.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	log.Info("storage closed")
}

func setupStorage(cfg *config.Config) (store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return postgres.InitDB(&cfg.Database)
	case "sqlite":
		if cfg.Storage.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create storage dir: %w", err)
			}
		}
		return sqlite.New(cfg.Storage.SQLitePath)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
