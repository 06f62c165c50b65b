package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/vytor/ninebynine/internal/config"
	"github.com/vytor/ninebynine/internal/db"
	apperrors "github.com/vytor/ninebynine/internal/errors"
	"github.com/vytor/ninebynine/internal/export"
	"github.com/vytor/ninebynine/internal/logger"
	"github.com/vytor/ninebynine/internal/ogs"
	"github.com/vytor/ninebynine/internal/pipeline"
	"github.com/vytor/ninebynine/internal/repository/sqlite"
	"github.com/vytor/ninebynine/internal/services"
	"github.com/vytor/ninebynine/internal/tui"
)

func setupLogger(c *cli.Context, cfg *config.Config) *logger.Logger {
	if cfg.NoColor {
		tui.DisableColors()
	}
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(!cfg.NoColor),
		logger.WithOutput(c.App.ErrWriter),
	)
	logger.SetDefault(log)
	return log
}

func exportAction(c *cli.Context) error {
	out := c.App.Writer
	names := playerNames(c.StringSlice(flagName))
	root := c.String(flagPath)
	if len(names) == 0 || root == "" {
		_ = cli.ShowAppHelp(c)
		return fail(c, 1, "Both --name and --path are required.")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return fail(c, 1, failureMessage(err))
	}
	log := setupLogger(c, cfg)
	defer func() { _ = log.Sync() }()

	log.Info("configuration loaded")
	log.Debug("api_url=%s", cfg.APIURL)
	log.Debug("page_size=%d", cfg.PageSize)
	log.Debug("pagination=%s", cfg.Pagination)
	log.Debug("pages=%d..%d", cfg.FromPage, cfg.ToPage)
	log.Debug("page_retry_policy=%s", cfg.PageRetryPolicy)
	log.Debug("sgf_retry_policy=%s", cfg.SGFRetryPolicy)
	log.Debug("retry_delay=%v..%v", cfg.RetryMinDelay, cfg.RetryMaxDelay)
	log.Debug("request_delay=%v..%v", cfg.RequestMinDelay, cfg.RequestMaxDelay)
	log.Debug("sgf_concurrency=%d", cfg.SGFConcurrency)
	log.Debug("sgf_cache_path=%s", cfg.SGFCachePath)

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fmt.Fprintln(out, "Save path not exist.")
		return nil
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	var client ogs.ClientInterface = ogs.New(
		ogs.WithBaseURL(cfg.APIURL),
		ogs.WithTimeout(cfg.HTTPTimeout),
		ogs.WithUserAgent(cfg.UserAgent),
	)
	if cfg.SGFCachePath != "" {
		database, err := db.Open(cfg.SGFCachePath)
		if err != nil {
			return fail(c, 1, fmt.Sprintf("Cannot open SGF cache %s: %v", cfg.SGFCachePath, err))
		}
		defer func() {
			log.Debug("closing database connection")
			database.Close()
		}()
		client = ogs.NewCachedClient(client, sqlite.NewSGFRepository(database.DB))
	}

	pagePolicy, err := cfg.PagePolicy()
	if err != nil {
		return fail(c, 1, failureMessage(err))
	}
	sgfPolicy, err := cfg.SGFPolicy()
	if err != nil {
		return fail(c, 1, failureMessage(err))
	}

	prompter := tui.NewPrompter(tui.WithInput(c.App.Reader), tui.WithOutput(out))
	pipe := pipeline.New(pipeline.Deps{
		Players: services.NewPlayerService(client, prompter),
		History: services.NewHistoryService(client, services.HistoryOptions{
			PageSize:   cfg.PageSize,
			Pagination: cfg.Pagination,
			FirstPage:  cfg.FromPage,
			LastPage:   cfg.ToPage,
			Policy:     pagePolicy,
			Pace:       cfg.RequestPace(),
		}),
		SGF: services.NewSGFService(client, services.SGFOptions{
			Concurrency: cfg.SGFConcurrency,
			Policy:      sgfPolicy,
			Pace:        cfg.RequestPace(),
		}),
		Sink:     export.NewSink(),
		Prompter: prompter,
		Progress: tui.NewProgressBar(c.App.ErrWriter),
	})

	for _, name := range names {
		if len(names) > 1 {
			fmt.Fprintf(out, "Player %s:\n", name)
		}
		res, err := pipe.Run(ctx, name, root)
		if err != nil {
			log.Error("export of %s failed: %v", name, err)
			if errors.Is(err, context.Canceled) {
				return fail(c, 130, failureMessage(err))
			}
			return fail(c, 1, failureMessage(err))
		}

		log.Info("run finished player=%s outcome=%s exported=%d dir=%s", name, res.Outcome, res.Exported, res.Dir)
		fmt.Fprintln(out, res.Message())
		if res.Outcome == pipeline.OutcomeExported {
			fmt.Fprintln(out, "Done!")
		}
	}
	return nil
}

// playerNames drops blank entries and repeats, keeping the given order.
func playerNames(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var names []string
	for _, n := range raw {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}

// failureMessage is the one line shown for a fatal error.
func failureMessage(err error) string {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	case !errors.As(err, &appErr):
		return fmt.Sprintf("Error: %v", err)
	}

	switch appErr.Code {
	case apperrors.ErrCodeUpstream:
		return "Error response from OGS. Exit"
	case apperrors.ErrCodeSelection:
		return "You must select a player."
	case apperrors.ErrCodeExport:
		return fmt.Sprintf("Export failed: %s", appErr.Message)
	default:
		return fmt.Sprintf("Error: %s", appErr.Message)
	}
}
