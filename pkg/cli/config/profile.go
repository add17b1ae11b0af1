package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/draftmill/inkbase/pkg/domain/model"
)

// Profile holds the path to the assistant profile TOML file
type Profile struct {
	path string
}

// Flags returns CLI flags for profile configuration
func (p *Profile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Path to the assistant profile TOML file",
			Sources:     cli.EnvVars("INKBASE_PROFILE"),
			Destination: &p.path,
		},
	}
}

type profileFile struct {
	Persona      string `toml:"persona"`
	AnswerPrompt string `toml:"answer_prompt"`
	PolicyPrompt string `toml:"policy_prompt"`
}

// Configure loads the assistant profile. Returns nil when no path is set,
// in which case the built-in prompts apply.
func (p *Profile) Configure() (*model.AssistantProfile, error) {
	if p.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V(ConfigPathKey, p.path))
		}
		return nil, goerr.Wrap(err, "failed to read profile file", goerr.V(ConfigPathKey, p.path))
	}

	var file profileFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, p.path))
	}

	return &model.AssistantProfile{
		Persona:      file.Persona,
		AnswerPrompt: file.AnswerPrompt,
		PolicyPrompt: file.PolicyPrompt,
	}, nil
}
