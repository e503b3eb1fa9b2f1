package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/prlabeler/internal/config"
	"github.com/prlabeler/internal/engine"
	"github.com/prlabeler/internal/event"
	githubclient "github.com/prlabeler/internal/platform/github"
)

// RunCommand returns the run command, which processes exactly one inbound
// event and terminates.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Process the event supplied by the runtime environment",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Compute and log effects without applying them",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort the run after this long",
				Value: 10 * time.Minute,
			},
		},
		Action: runRun,
	}
}

func runRun(c *cli.Context) error {
	log := newLogger(c.Bool("verbose"))

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ev, err := event.FromEnvironment()
	if err != nil {
		return fmt.Errorf("failed to read event: %w", err)
	}

	log.Info().Str("event", string(ev.Kind)).Str("repository", cfg.Repository).Msg("processing event")

	client, err := githubclient.New(cfg.Token, cfg.Repository, log)
	if err != nil {
		return fmt.Errorf("failed to build platform client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	eng := engine.New(client, engine.Options{
		StagingBranch:    cfg.StagingBranch,
		ProductionBranch: cfg.ProductionBranch,
		AbandonedDays:    cfg.AbandonedTimeout,
		CheckConflicts:   cfg.CheckConflicts,
		TeamID:           cfg.TeamID,
	}, log)

	effects := eng.Route(ctx, ev)
	if len(effects) == 0 {
		log.Info().Msg("no effects for this event")
		return nil
	}

	if c.Bool("dry-run") {
		for _, ef := range effects {
			log.Info().
				Str("effect", ef.Kind.String()).
				Int("pr", ef.PR).
				Str("label", string(ef.Label)).
				Msg("dry-run effect")
		}
		return nil
	}

	failed := engine.NewExecutor(client, log).Apply(ctx, effects)
	log.Info().Int("effects", len(effects)).Int("failed", failed).Msg("run complete")
	return nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}
