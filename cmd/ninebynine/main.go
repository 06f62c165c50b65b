// Command ninebynine downloads a player's 9x9 games from online-go.com and
// exports the ones played on the chosen dates as SGF files.
//
// Usage:
//
//	ninebynine --name <player> [--name <player>...] --path <dir>
//	ninebynine cache stats|prune
//	ninebynine version
//
// Games are written to <dir>/<username>/<gameId>.sgf. The directory is
// recreated on every run.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	app := newApp()
	app.ExitErrHandler = exitErrHandler

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "ninebynine",
		Usage:   "Export a player's 9x9 games from OGS as SGF files",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Flags:   exportFlags(),
		Action:  exportAction,
		Commands: []*cli.Command{
			cacheCommand(),
			versionCommand(),
		},
	}
}

// exitErrHandler preserves exit codes from cli.Exit. Actions print their
// own messages, so only non-empty ones are written here, to stdout.
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	out := io.Writer(os.Stdout)
	if c != nil && c.App != nil && c.App.Writer != nil {
		out = c.App.Writer
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(out, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(out, "Error: %v\n", err)
	os.Exit(1)
}

// fail prints msg for the user and exits with code.
func fail(c *cli.Context, code int, msg string) error {
	fmt.Fprintln(c.App.Writer, msg)
	return cli.Exit("", code)
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "ninebynine %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
