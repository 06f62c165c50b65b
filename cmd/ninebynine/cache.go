package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vytor/ninebynine/internal/db"
	"github.com/vytor/ninebynine/internal/repository"
	"github.com/vytor/ninebynine/internal/repository/sqlite"
)

const flagOlderThan = "older-than"

// cacheCommand manages the local SGF cache database.
func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or prune the local SGF cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show how many games are cached",
				Flags:  []cli.Flag{cacheFlag(), logLevelFlag(), noColorFlag()},
				Action: cacheStatsAction,
			},
			{
				Name:  "prune",
				Usage: "Remove records fetched before a cutoff",
				Flags: []cli.Flag{
					cacheFlag(), logLevelFlag(), noColorFlag(),
					&cli.DurationFlag{
						Name:  flagOlderThan,
						Usage: "Remove records older than this (e.g. 720h)",
						Value: 30 * 24 * time.Hour,
					},
				},
				Action: cachePruneAction,
			},
		},
	}
}

// openCache opens the configured cache; the caller closes the returned DB.
func openCache(c *cli.Context) (*db.DB, repository.SGFRepository, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, fail(c, 1, failureMessage(err))
	}
	setupLogger(c, cfg)

	if cfg.SGFCachePath == "" {
		return nil, nil, fail(c, 1, "No SGF cache configured; set SGF_CACHE_PATH or --cache.")
	}
	database, err := db.Open(cfg.SGFCachePath)
	if err != nil {
		return nil, nil, fail(c, 1, fmt.Sprintf("Cannot open SGF cache %s: %v", cfg.SGFCachePath, err))
	}
	return database, sqlite.NewSGFRepository(database.DB), nil
}

func cacheStatsAction(c *cli.Context) error {
	database, repo, err := openCache(c)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := repo.Count(c.Context)
	if err != nil {
		return fail(c, 1, fmt.Sprintf("Cannot read SGF cache: %v", err))
	}
	fmt.Fprintf(c.App.Writer, "%d games cached.\n", n)
	return nil
}

func cachePruneAction(c *cli.Context) error {
	database, repo, err := openCache(c)
	if err != nil {
		return err
	}
	defer database.Close()

	cutoff := time.Now().Add(-c.Duration(flagOlderThan))
	n, err := repo.DeleteOlderThan(c.Context, cutoff)
	if err != nil {
		return fail(c, 1, fmt.Sprintf("Cannot prune SGF cache: %v", err))
	}
	fmt.Fprintf(c.App.Writer, "Removed %d cached games.\n", n)
	return nil
}
