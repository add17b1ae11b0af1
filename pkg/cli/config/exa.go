package config

import (
	"github.com/urfave/cli/v3"

	"github.com/draftmill/inkbase/pkg/service/websearch"
)

// Exa holds configuration for the Exa web search provider
type Exa struct {
	apiKey  string
	baseURL string
}

// Flags returns CLI flags for Exa configuration
func (e *Exa) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "exa-api-key",
			Usage:       "Exa API key for web search (web search is disabled when empty)",
			Sources:     cli.EnvVars("INKBASE_EXA_API_KEY"),
			Destination: &e.apiKey,
		},
		&cli.StringFlag{
			Name:        "exa-base-url",
			Usage:       "Override the Exa API endpoint",
			Sources:     cli.EnvVars("INKBASE_EXA_BASE_URL"),
			Destination: &e.baseURL,
		},
	}
}

// Configure creates the web search client from the configured flags.
// Returns nil when no API key is set and web search stays disabled.
func (e *Exa) Configure() (websearch.Service, error) {
	if e.apiKey == "" {
		return nil, nil
	}

	var opts []websearch.Option
	if e.baseURL != "" {
		opts = append(opts, websearch.WithBaseURL(e.baseURL))
	}

	return websearch.New(e.apiKey, opts...)
}
