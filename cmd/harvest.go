package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youthball/portal-crawler/internal/config"
	"github.com/youthball/portal-crawler/internal/crawler"
	"github.com/youthball/portal-crawler/internal/logging"
	"github.com/youthball/portal-crawler/internal/metrics"
	"github.com/youthball/portal-crawler/internal/portal"
	"github.com/youthball/portal-crawler/internal/sink"
)

// newHarvestCmd creates the 'harvest' subcommand, which runs the full
// five-stage pipeline for the configured years and grades.
func newHarvestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Runs the harvest pipeline",
		Long: `Discovers competitions for the configured years and grades, then pulls
match results, match detail (when session credentials are configured),
team lists and rosters, and writes the collections as JSON artifacts.`,
		RunE: runHarvest,
	}
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	metrics.Init()

	client := portal.NewClient(portal.Config{
		BaseURL:   cfg.Portal.BaseURL,
		Timeout:   cfg.Timeout(),
		Delay:     cfg.Delay(),
		PageSize:  cfg.PageSize,
		UserAgent: cfg.Portal.UserAgent,
		Session: portal.Session{
			UserID:    cfg.Session.UserID,
			Secret:    cfg.Session.Secret,
			SessionID: cfg.Session.SessionID,
		},
	}, logger)

	engine := crawler.New(client, crawler.Config{
		Years:       cfg.Years,
		Grades:      cfg.ResolveGrades(),
		Limit:       cfg.Limit,
		Concurrency: cfg.Concurrency,
		Delay:       cfg.Delay(),
	}, logger)

	harvest := engine.Run(cmd.Context())

	writer, err := sink.NewWriter(cfg.OutputDir, logger)
	if err != nil {
		return fmt.Errorf("init sink: %w", err)
	}

	tag := sink.YearTag(cfg.Years)
	artifacts := []struct {
		kind string
		data any
	}{
		{"competitions", harvest.Competitions},
		{"results", harvest.Results},
		{"details", harvest.Details},
		{"teams", harvest.Teams},
		{"players", harvest.Players},
		{"stats", harvest.Stats},
	}
	for _, a := range artifacts {
		if _, err := writer.Write(a.kind, tag, a.data); err != nil {
			return fmt.Errorf("emit %s: %w", a.kind, err)
		}
	}

	return nil
}
