// Package main provides the entry point for the prediction service.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sportcast/internal/api"
	"github.com/yourusername/sportcast/internal/config"
	"github.com/yourusername/sportcast/internal/database"
	"github.com/yourusername/sportcast/internal/ensemble"
	"github.com/yourusername/sportcast/internal/health"
	"github.com/yourusername/sportcast/internal/logger"
	"github.com/yourusername/sportcast/internal/metrics"
	"github.com/yourusername/sportcast/internal/models"
	"github.com/yourusername/sportcast/internal/odds"
	"github.com/yourusername/sportcast/internal/oddsfeed"
	"github.com/yourusername/sportcast/internal/predictor"
	"github.com/yourusername/sportcast/internal/repository"
	"github.com/yourusername/sportcast/internal/scheduler"
	"github.com/yourusername/sportcast/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "predictor",
	Short: "Sportcast match outcome prediction service",
	Long:  `Runs the stacking ensemble, odds analysis and advisory engine for sports fixtures.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func serve() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Secrets.Enabled {
		if err := config.LoadSecretsFromAWS(cfg, cfg.Secrets.Region, cfg.Secrets.SecretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"sport":       cfg.Prediction.Sport,
		"version":     Version,
	}).Info("Sportcast prediction service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}

	combiner := buildEnsemble(ctx, cfg, appLog)

	feed := oddsfeed.NewClient(cfg.OddsFeed, appLog)
	defer feed.Close()

	metrics.InitRegistry()
	metrics.UpdateBankroll(cfg.Prediction.Bankroll)

	engine := predictor.New(
		cfg.Prediction.Sport,
		combiner,
		buildOddsAnalyzer(cfg, appLog),
		feed,
		cfg.DecisionCacheTTL(),
		appLog,
	)

	apiSrv := api.NewServer(api.Config{
		Port:      cfg.App.APIPort,
		Sport:     cfg.Prediction.Sport,
		Engine:    engine,
		Decisions: repos.Decision,
		Logger:    appLog,
	})

	trainingSvc := service.NewTrainingService(repos.TrainingSample, combiner, cfg.Prediction.Sport, appLog)
	refreshSvc := service.NewOddsRefreshService(feed, repos.OddsSnapshot, []string{cfg.Prediction.Sport}, appLog)

	if cfg.OddsFeed.StreamURL != "" {
		stream := oddsfeed.NewStreamClient(cfg.OddsFeed.StreamURL, cfg.OddsFeed.APIKey, appLog)
		stream.AddHandler(func(update oddsfeed.StreamUpdate) error {
			feed.InvalidateSport(cfg.Prediction.Sport)
			capturedAt := update.Ts
			if capturedAt.IsZero() {
				capturedAt = time.Now().UTC()
			}
			snapshots := make([]*models.OddsSnapshot, 0, len(update.Quotes))
			for _, quote := range update.Quotes {
				snapshots = append(snapshots, &models.OddsSnapshot{
					OddsQuote:  quote,
					Sport:      cfg.Prediction.Sport,
					EventID:    update.EventID,
					CapturedAt: capturedAt,
				})
			}
			return repos.OddsSnapshot.InsertBatch(ctx, snapshots)
		})
		go func() {
			if err := stream.ConnectWithRetry(ctx); err != nil {
				appLog.WithError(err).Warn("Odds stream unavailable, relying on polling refresh")
				return
			}
			if err := stream.Subscribe([]string{cfg.Prediction.Sport}); err != nil {
				appLog.WithError(err).Warn("Odds stream subscription failed")
			}
		}()
		defer stream.Close()
	}

	// Train from stored samples on startup so readiness can pass without
	// waiting for the first cron run.
	if err := trainingSvc.Retrain(ctx); err != nil {
		appLog.WithError(err).Warn("Initial training failed, service starts untrained")
	}

	sched := scheduler.NewScheduler(trainingSvc, refreshSvc, appLog)
	if err := sched.ScheduleRetraining(cfg.Scheduler.RetrainCron); err != nil {
		return fmt.Errorf("failed to schedule retraining: %w", err)
	}
	if err := sched.ScheduleOddsRefresh(cfg.Scheduler.OddsRefreshCron); err != nil {
		return fmt.Errorf("failed to schedule odds refresh: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.App.HealthPort),
		Logger:      appLog,
		DB:          db,
		Model:       combiner,
	})
	if err := healthSrv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if err := apiSrv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start prediction API: %w", err)
	}
	healthSrv.SetReady(true)

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsSrv = &http.Server{
			Addr:        fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:     mux,
			ReadTimeout: 5 * time.Second,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	appLog.Info("Prediction service is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	cancel()
	if err := apiSrv.Shutdown(); err != nil {
		appLog.WithError(err).Error("Prediction API shutdown error")
	}
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	appLog.Info("Prediction service shut down")
	return nil
}

// buildEnsemble registers the local adapters plus any configured remote
// models, weighted per configuration. Remote models get one readiness
// check at startup; the training service re-checks them on every tick.
func buildEnsemble(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) *ensemble.Combiner {
	classes := cfg.Ensemble.Classes
	registry := ensemble.NewRegistry(appLog)

	registry.Register("logistic", ensemble.NewLogisticAdapter("logistic", classes), cfg.Ensemble.Weights["logistic"])
	registry.Register("naive_bayes", ensemble.NewNaiveBayesAdapter("naive_bayes", classes), cfg.Ensemble.Weights["naive_bayes"])
	registry.Register("centroid", ensemble.NewCentroidAdapter("centroid", classes), cfg.Ensemble.Weights["centroid"])

	for _, remote := range cfg.Ensemble.RemoteModels {
		adapter := ensemble.NewRemoteAdapter(
			remote.Name,
			classes,
			remote.URL,
			time.Duration(remote.TimeoutSeconds)*time.Second,
			appLog,
		)
		registry.Register(remote.Name, adapter, remote.Weight)
		appLog.WithFields(logrus.Fields{
			"model": remote.Name,
			"ready": adapter.CheckReady(ctx),
		}).Info("Remote model registered")
	}

	return ensemble.NewCombiner(registry, appLog)
}

func buildOddsAnalyzer(cfg *config.Config, appLog *logrus.Logger) *odds.Analyzer {
	return odds.NewAnalyzer(cfg.Prediction.ValueThreshold, cfg.Prediction.DrawPossible, appLog)
}
