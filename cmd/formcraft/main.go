// Command formcraft edits, previews and exports form schemas from the
// terminal or over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formcraft/internal/config"
	"github.com/goliatone/go-formcraft/pkg/renderers/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdout, os.Stderr, nil)
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "formcraft: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app carries the streams and collaborators shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer
	// driver overrides the terminal prompt driver used by preview.
	driver tui.PromptDriver
}

func newApp(stdout, stderr io.Writer, driver tui.PromptDriver) *cli.Command {
	a := &app{stdout: stdout, stderr: stderr, driver: driver}
	return &cli.Command{
		Name:      "formcraft",
		Usage:     "build form schemas and generate validated components",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the TOML configuration file (defaults to $" + config.EnvVar + " or ./" + config.DefaultFileName + ")",
			},
		},
		Commands: []*cli.Command{
			a.templatesCommand(),
			a.exportCommand(),
			a.serveCommand(),
			a.previewCommand(),
			a.validateCommand(),
			a.configCommand(),
		},
	}
}

// setup loads the configuration named by the global flag and builds the
// logger it describes.
func (a *app) setup(cmd *cli.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, newLogger(a.stderr, cfg), nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
