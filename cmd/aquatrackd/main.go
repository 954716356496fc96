package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"aquatrack/internal/config"
	"aquatrack/internal/database"
	"aquatrack/internal/goal"
	"aquatrack/internal/health"
	"aquatrack/internal/insight"
	"aquatrack/internal/metrics"
	"aquatrack/internal/model"
	"aquatrack/internal/notify"
	"aquatrack/internal/scheduler"
	"aquatrack/internal/settings"
	"aquatrack/internal/weather"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("AQUATRACK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	store := settings.NewStore(db)

	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey)
	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.WeatherCacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		weatherClient.UseRedisCache(rdb, cfg.WeatherCacheTTL())
	}

	samplesPath := cfg.Health.SamplesPath
	if samplesPath == "" {
		samplesPath = "data/health_samples.json"
	}
	healthAdapter := health.NewAdapter(health.NewFileSource(samplesPath), logger)

	notifier := notify.New(notify.DefaultConfig(), notify.NewLogSink(logger), true, logger)
	sched := scheduler.New(notifier, logger)
	forecaster := insight.NewForecaster(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	notifier.Start(ctx)
	defer notifier.Stop()

	logger.Info().Msg("aquatrack daemon started")
	runLoop(ctx, cfg, store, weatherClient, healthAdapter, sched, forecaster, &logger)
}

// prefsTracker remembers the preferences last applied to the scheduler.
// A fresh Sync anchors interval fire times at now+interval, so syncing
// unconditionally on a ticker faster than the reminder interval would
// cancel every pending reminder before it comes due. The schedule is
// only resynced when the stored preferences actually changed.
type prefsTracker struct {
	synced bool
	last   model.NotificationPreferences
}

func (p *prefsTracker) needsSync(prefs model.NotificationPreferences) bool {
	return !p.synced || prefs != p.last
}

func (p *prefsTracker) markSynced(prefs model.NotificationPreferences) {
	p.synced = true
	p.last = prefs
}

// runLoop resyncs the schedule on start and then on every tick until
// shutdown.
func runLoop(
	ctx context.Context,
	cfg *config.Config,
	store *settings.Store,
	weatherClient *weather.Client,
	healthAdapter *health.Adapter,
	sched *scheduler.Scheduler,
	forecaster *insight.Forecaster,
	logger *zerolog.Logger,
) {
	tracker := &prefsTracker{}
	resync(ctx, cfg, store, weatherClient, healthAdapter, sched, forecaster, tracker, logger)

	ticker := time.NewTicker(cfg.SyncInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("aquatrack daemon stopped")
			return
		case <-ticker.C:
			resync(ctx, cfg, store, weatherClient, healthAdapter, sched, forecaster, tracker, logger)
		}
	}
}

// resync recomputes the recommendation from current signals, records the
// day's goal, and brings the notification schedule in line with the
// stored preferences.
func resync(
	ctx context.Context,
	cfg *config.Config,
	store *settings.Store,
	weatherClient *weather.Client,
	healthAdapter *health.Adapter,
	sched *scheduler.Scheduler,
	forecaster *insight.Forecaster,
	tracker *prefsTracker,
	logger *zerolog.Logger,
) {
	prefs, err := store.Preferences(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("read preferences failed")
		return
	}

	baseGoal, err := store.BaseGoalMl(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("read base goal failed")
		return
	}

	goalMl := baseGoal
	dynamic, err := store.DynamicGoalEnabled(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("read dynamic goal flag failed")
		return
	}

	if dynamic {
		var sample *model.WeatherSample
		if cfg.Weather.BaseURL != "" {
			sample, err = weatherClient.Current(ctx, cfg.Weather.City)
			if err != nil {
				// Missing weather means no weather adjustment, never a failure.
				logger.Warn().Err(err).Msg("weather fetch failed, continuing without")
				metrics.IncWeatherFetch("error")
				sample = nil
			} else {
				metrics.IncWeatherFetch("ok")
			}
		}

		steps := 0
		if healthEnabled, _ := store.HealthKitEnabled(ctx); healthEnabled {
			steps = healthAdapter.StepCount(ctx)
		}

		detox, _ := store.DetoxModeEnabled(ctx)

		rec := goal.Recommend(baseGoal, sample, steps, detox)
		metrics.IncRecommendationComputed()
		goalMl = rec.RecommendedGoalMl

		logger.Info().
			Int("base_ml", baseGoal).
			Int("recommended_ml", rec.RecommendedGoalMl).
			Int("reasons", len(rec.Reasons)).
			Msg("recommendation computed")
	}

	recordToday(ctx, store, healthAdapter, goalMl, logger)

	if tracker.needsSync(prefs) {
		granted, err := sched.Sync(ctx, prefs)
		if err != nil {
			logger.Error().Err(err).Msg("schedule sync failed")
			return
		}
		tracker.markSynced(prefs)
		if !granted {
			logger.Info().Msg("notifications not permitted, schedule left empty")
		}
	}

	history, err := store.DailyLogs(ctx, 30)
	if err != nil {
		logger.Error().Err(err).Msg("read history failed")
		return
	}
	summary := forecaster.Summarize(history)
	logger.Info().
		Int("streak_days", summary.StreakDays).
		Str("trend", string(summary.Trend)).
		Int("insights", len(summary.Insights)).
		Msg("history summarized")
}

// recordToday folds the health platform's water total into today's log
// and stamps it with the active goal.
func recordToday(ctx context.Context, store *settings.Store, healthAdapter *health.Adapter, goalMl int, logger *zerolog.Logger) {
	day := time.Now().Format(model.DayFormat)

	current, err := store.DailyLog(ctx, day)
	if err != nil {
		logger.Error().Err(err).Msg("read today's log failed")
		return
	}

	total := current.TotalMl
	if healthMl := healthAdapter.WaterIntakeMl(ctx); healthMl > total {
		total = healthMl
	}

	err = store.UpsertDailyLog(ctx, model.DailyIntakeLog{Day: day, TotalMl: total, GoalMl: goalMl})
	if err != nil {
		logger.Error().Err(err).Msg("write today's log failed")
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
