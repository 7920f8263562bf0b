// Package main provides a one-shot training run against the stored
// sample archive, outside the serve loop's cron schedule.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sportcast/internal/config"
	"github.com/yourusername/sportcast/internal/database"
	"github.com/yourusername/sportcast/internal/ensemble"
	"github.com/yourusername/sportcast/internal/logger"
	"github.com/yourusername/sportcast/internal/metrics"
	"github.com/yourusername/sportcast/internal/repository"
	"github.com/yourusername/sportcast/internal/service"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain the prediction ensemble from stored samples",
	Long:  `Loads the archived training samples for the configured sport, fits the base models and the stacking meta-learner, and records the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
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
	metrics.InitRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}

	classes := cfg.Ensemble.Classes
	registry := ensemble.NewRegistry(appLog)
	registry.Register("logistic", ensemble.NewLogisticAdapter("logistic", classes), cfg.Ensemble.Weights["logistic"])
	registry.Register("naive_bayes", ensemble.NewNaiveBayesAdapter("naive_bayes", classes), cfg.Ensemble.Weights["naive_bayes"])
	registry.Register("centroid", ensemble.NewCentroidAdapter("centroid", classes), cfg.Ensemble.Weights["centroid"])
	combiner := ensemble.NewCombiner(registry, appLog)

	trainingSvc := service.NewTrainingService(repos.TrainingSample, combiner, cfg.Prediction.Sport, appLog)

	start := time.Now()
	if err := trainingSvc.Retrain(ctx); err != nil {
		return fmt.Errorf("training run failed: %w", err)
	}

	report := combiner.Report()
	if report == nil {
		appLog.Warn("Training run completed without a report, likely skipped for lack of samples")
		return nil
	}

	appLog.WithFields(logrus.Fields{
		"sport":               cfg.Prediction.Sport,
		"training_samples":    report.TrainingSamples,
		"validation_samples":  report.ValidationSamples,
		"validation_accuracy": fmt.Sprintf("%.4f", report.ValidationAccuracy),
		"duration":            time.Since(start).Round(time.Millisecond),
	}).Info("Training run complete")

	return nil
}
