package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcraft/pkg/model"
	"github.com/goliatone/go-formcraft/pkg/templates"
)

var (
	errNoSource       = errors.New("one of --input or --template is required")
	errTooManySources = errors.New("--input and --template are mutually exclusive")
)

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "schema document (JSON or YAML)",
		},
		&cli.StringFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   "canned template name or slug",
		},
	}
}

// loadState builds the editing state named by --input or --template. A
// template goes through LoadTemplate so it receives fresh ids, exactly as
// in the editor.
func loadState(cmd *cli.Command, reducer *model.Reducer) (model.State, error) {
	input := strings.TrimSpace(cmd.String("input"))
	name := strings.TrimSpace(cmd.String("template"))

	switch {
	case input != "" && name != "":
		return model.State{}, errTooManySources
	case input != "":
		data, err := os.ReadFile(input)
		if err != nil {
			return model.State{}, fmt.Errorf("read schema: %w", err)
		}
		schema, err := model.Decode(data)
		if err != nil {
			return model.State{}, fmt.Errorf("%s: %w", input, err)
		}
		return model.State{Schema: schema}, nil
	case name != "":
		tpl, err := templates.Get(name)
		if err != nil {
			return model.State{}, err
		}
		return reducer.LoadTemplate(reducer.NewState(), tpl.Schema), nil
	}
	return model.State{}, errNoSource
}

// loadValues reads a JSON or YAML mapping of field ids to submitted values.
func loadValues(path string) (map[string]any, error) {
	values := map[string]any{}
	if strings.TrimSpace(path) == "" {
		return values, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	if err := json.Unmarshal(data, &values); err != nil {
		values = map[string]any{}
		if yamlErr := yaml.Unmarshal(data, &values); yamlErr != nil {
			return nil, fmt.Errorf("%s: invalid JSON or YAML: %w", path, errors.Join(err, yamlErr))
		}
	}
	return normalizeValues(values), nil
}

// normalizeValues converts YAML integers into float64 so numeric rules see
// the same types a JSON payload produces.
func normalizeValues(values map[string]any) map[string]any {
	for key, value := range values {
		switch v := value.(type) {
		case int:
			values[key] = float64(v)
		case int64:
			values[key] = float64(v)
		case uint64:
			values[key] = float64(v)
		}
	}
	return values
}
