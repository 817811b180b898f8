package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formcraft/internal/config"
	"github.com/goliatone/go-formcraft/internal/server"
	"github.com/goliatone/go-formcraft/pkg/exporter"
	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/renderers/tui"
	"github.com/goliatone/go-formcraft/pkg/rules"
	"github.com/goliatone/go-formcraft/pkg/session"
	"github.com/goliatone/go-formcraft/pkg/templates"
	"github.com/goliatone/go-formcraft/pkg/visibility"
)

// errInvalidValues is returned by validate when any field fails.
var errInvalidValues = errors.New("submitted values are invalid")

const stdoutPath = "-"

func localeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "locale",
		Aliases: []string{"l"},
		Usage:   "language for generated strings (defaults to the configured locale)",
	}
}

func renderOptions(cmd *cli.Command, cfg config.Config) (render.RenderOptions, error) {
	catalog, err := render.NewCatalog()
	if err != nil {
		return render.RenderOptions{}, err
	}
	locale := strings.TrimSpace(cmd.String("locale"))
	if locale == "" {
		locale = cfg.Locale
	}
	return render.RenderOptions{Locale: locale, Translator: catalog}, nil
}

func (a *app) templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "list the canned form templates",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME\tTITLE\tFIELDS")
			for _, tpl := range templates.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", tpl.Slug, tpl.Name, tpl.Title, tpl.Fields)
			}
			return tw.Flush()
		},
	}
}

func (a *app) exportCommand() *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringFlag{
			Name:  "target",
			Usage: "export target: " + strings.Join(exporter.Default().Targets(), ", "),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file, or - for stdout (defaults to the target's file name in export.output_dir)",
		},
		localeFlag(),
	)
	return &cli.Command{
		Name:  "export",
		Usage: "render a schema through an export target",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}
			state, err := loadState(cmd, model.NewReducer())
			if err != nil {
				return err
			}
			opts, err := renderOptions(cmd, cfg)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(cmd.String("target"))
			if target == "" {
				target = cfg.Export.Target
			}
			result, err := exporter.Default().Export(ctx, state, exporter.Request{
				Target:        target,
				RenderOptions: opts,
			})
			if err != nil {
				return err
			}

			output := strings.TrimSpace(cmd.String("output"))
			if output == "" {
				output = filepath.Join(cfg.Export.OutputDir, result.FileName)
			}
			if output == stdoutPath {
				_, err := a.stdout.Write(result.Body)
				return err
			}
			if dir := filepath.Dir(output); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			if err := os.WriteFile(output, result.Body, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logger.Info("exported", "target", result.Target, "path", output, "bytes", len(result.Body))
			return nil
		},
	}
}

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the editing API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address (defaults to server.addr)",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "seed the session with a canned template",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}

			reducer := model.NewReducer()
			options := []session.Option{session.WithReducer(reducer)}
			if name := strings.TrimSpace(cmd.String("template")); name != "" {
				tpl, err := templates.Get(name)
				if err != nil {
					return err
				}
				options = append(options, session.WithState(reducer.LoadTemplate(reducer.NewState(), tpl.Schema)))
			}
			sess := session.New(options...)

			srv, err := server.New(sess,
				server.WithLogger(logger),
				server.WithLocale(cfg.Locale),
				server.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
			)
			if err != nil {
				return err
			}

			addr := strings.TrimSpace(cmd.String("addr"))
			if addr == "" {
				addr = cfg.Server.Addr
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}
}

func (a *app) previewCommand() *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringFlag{
			Name:  "format",
			Usage: "output format for collected values: json, form or pretty",
			Value: string(tui.OutputFormatJSON),
		},
		localeFlag(),
	)
	return &cli.Command{
		Name:  "preview",
		Usage: "fill the form interactively in the terminal",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, _, err := a.setup(cmd)
			if err != nil {
				return err
			}
			state, err := loadState(cmd, model.NewReducer())
			if err != nil {
				return err
			}
			opts, err := renderOptions(cmd, cfg)
			if err != nil {
				return err
			}

			format, err := tui.ParseOutputFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(a.stdout)
			}
			out, err := tui.New(tui.WithPromptDriver(driver), tui.WithOutputFormat(format)).Render(ctx, state.Schema, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, strings.TrimRight(string(out), "\n"))
			return err
		},
	}
}

func (a *app) validateCommand() *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringFlag{
			Name:  "values",
			Usage: "JSON or YAML file mapping field ids to submitted values",
		},
		localeFlag(),
	)
	return &cli.Command{
		Name:  "validate",
		Usage: "check submitted values against a schema's rules",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, _, err := a.setup(cmd)
			if err != nil {
				return err
			}
			state, err := loadState(cmd, model.NewReducer())
			if err != nil {
				return err
			}
			values, err := loadValues(cmd.String("values"))
			if err != nil {
				return err
			}
			opts, err := renderOptions(cmd, cfg)
			if err != nil {
				return err
			}

			live := model.LiveFields(state.Schema)
			byID := make(map[string]model.Field, len(live))
			for _, field := range live {
				byID[field.ID] = field
			}
			checker := rules.NewChecker(rules.WithMessages(render.Messages(opts)))
			failures := checker.CheckAll(rules.CompileAll(live), values, func(id string) bool {
				return visibility.IsVisible(byID[id], values)
			})
			if len(failures) == 0 {
				_, err := fmt.Fprintln(a.stdout, "ok")
				return err
			}

			ids := make([]string, 0, len(failures))
			for id := range failures {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				for _, msg := range failures[id] {
					fmt.Fprintf(a.stdout, "%s (%s): %s\n", id, byID[id].Label, msg)
				}
			}
			return errInvalidValues
		},
	}
}

func (a *app) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write a configuration file holding the defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "destination file",
						Value: config.DefaultFileName,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "overwrite an existing file",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.String("path")
					if !cmd.Bool("force") {
						if _, err := os.Stat(path); err == nil {
							return fmt.Errorf("%s already exists (use --force to overwrite)", path)
						}
					}
					if err := config.Save(path, config.Default()); err != nil {
						return err
					}
					_, err := fmt.Fprintf(a.stdout, "wrote %s\n", path)
					return err
				},
			},
		},
	}
}
