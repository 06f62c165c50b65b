package main

import (
	"github.com/urfave/cli/v2"

	"github.com/vytor/ninebynine/internal/config"
)

// Flag names.
const (
	flagName        = "name"
	flagPath        = "path"
	flagFromPage    = "from-page"
	flagToPage      = "to-page"
	flagConcurrency = "concurrency"
	flagCache       = "cache"
	flagLogLevel    = "log-level"
	flagNoColor     = "no-color"
)

func cacheFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagCache,
		Usage: "SQLite file caching downloaded SGF records (overrides SGF_CACHE_PATH)",
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagLogLevel,
		Usage: "DEBUG, INFO, WARN or ERROR (overrides LOG_LEVEL)",
	}
}

func noColorFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  flagNoColor,
		Usage: "Disable colored output",
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    flagName,
			Aliases: []string{"n"},
			Usage:   "Player name to search for; repeat or separate with commas to export several players",
		},
		&cli.StringFlag{
			Name:    flagPath,
			Aliases: []string{"p"},
			Usage:   "Existing directory to export into; games go to <path>/<username>",
		},
		&cli.IntFlag{
			Name:  flagFromPage,
			Usage: "First page of the games list to read (overrides FROM_PAGE)",
		},
		&cli.IntFlag{
			Name:  flagToPage,
			Usage: "Last page of the games list to read (overrides TO_PAGE)",
		},
		&cli.IntFlag{
			Name:  flagConcurrency,
			Usage: "Parallel SGF downloads (overrides SGF_CONCURRENCY)",
		},
		cacheFlag(),
		logLevelFlag(),
		noColorFlag(),
	}
}

// loadConfig reads the environment and applies the flags set on c.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if c.IsSet(flagFromPage) {
		cfg.FromPage = c.Int(flagFromPage)
	}
	if c.IsSet(flagToPage) {
		cfg.ToPage = c.Int(flagToPage)
	}
	if c.IsSet(flagConcurrency) {
		cfg.SGFConcurrency = c.Int(flagConcurrency)
	}
	if c.IsSet(flagCache) {
		cfg.SGFCachePath = c.String(flagCache)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if c.Bool(flagNoColor) {
		cfg.NoColor = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
