package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

type (
	// InputConfig describes a single-line prompt. Default is ignored for
	// passwords.
	InputConfig struct {
		Message string
		Default string
		Help    string
	}

	// ConfirmConfig describes a checkbox prompt.
	ConfirmConfig struct {
		Message string
		Default bool
		Help    string
	}

	// SelectConfig describes a choice prompt. The driver answers with an
	// index into Options, or -1 when the answer matches none.
	SelectConfig struct {
		Message      string
		Options      []string
		DefaultIndex int
		Help         string
		PageSize     int
	}

	// TextAreaConfig describes a multi-line prompt.
	TextAreaConfig struct {
		Message string
		Default string
		Help    string
	}
)

// PromptDriver is the terminal seam. Tests script answers through it and the
// CLI uses the survey-backed implementation.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver returns a driver backed by survey. Step titles and
// validation messages go to out (stdout when nil); when out is a terminal
// file the prompts are drawn there too.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	d := &surveyDriver{out: out}
	if f, ok := out.(*os.File); ok {
		d.opts = append(d.opts, survey.WithStdio(os.Stdin, f, os.Stderr))
	}
	return d
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (answer string, err error) {
	err = d.ask(ctx, &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) Password(ctx context.Context, cfg InputConfig) (answer string, err error) {
	err = d.ask(ctx, &survey.Password{Message: cfg.Message, Help: cfg.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (answer bool, err error) {
	err = d.ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (answer string, err error) {
	err = d.ask(ctx, &survey.Multiline{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	var choice string
	if err := d.ask(ctx, prompt, &choice); err != nil {
		return -1, err
	}
	return indexOf(cfg.Options, choice), nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// ask runs one survey prompt. Ctrl-C surfaces as ErrAborted.
func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, response any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(prompt, response, d.opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
