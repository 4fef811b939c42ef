package cli

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/timmy/learnx/internal/backend"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	url        string
	projectKey string
	timeout    time.Duration
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Usage:       "LearnX backend URL",
			Sources:     cli.EnvVars("LEARNX_URL"),
			Destination: &cfg.url,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "project-key",
			Aliases:     []string{"k"},
			Usage:       "LearnX project key",
			Sources:     cli.EnvVars("LEARNX_PROJECT_KEY"),
			Destination: &cfg.projectKey,
			Required:    true,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Per-request timeout (0 for none)",
			Sources:     cli.EnvVars("LEARNX_TIMEOUT"),
			Destination: &cfg.timeout,
		},
	}
}

// newClient creates a backend client from the flags
func (cfg *config) newClient() (*backend.Client, error) {
	client, err := backend.New(&backend.Config{
		URL:        cfg.url,
		ProjectKey: cfg.projectKey,
		Timeout:    cfg.timeout,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create backend client")
	}
	return client, nil
}
