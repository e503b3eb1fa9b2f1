package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/prlabeler/internal/config"
	"github.com/prlabeler/internal/labels"
	githubclient "github.com/prlabeler/internal/platform/github"
)

// LabelsCommand returns the labels command.
func LabelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "labels",
		Usage: "Manage the label catalog on the repository",
		Subcommands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Create every catalog label that is missing from the repository",
				Action: runLabelsSync,
			},
			{
				Name:   "list",
				Usage:  "Print the label catalog",
				Action: runLabelsList,
			},
		},
	}
}

func runLabelsSync(c *cli.Context) error {
	log := newLogger(false)

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := githubclient.New(cfg.Token, cfg.Repository, log)
	if err != nil {
		return fmt.Errorf("failed to build platform client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, label := range labels.All() {
		if err := client.EnsureLabel(ctx, label); err != nil {
			return fmt.Errorf("failed to sync label %q: %w", label, err)
		}
	}

	fmt.Printf("Synced %d labels to %s\n", len(labels.All()), cfg.Repository)
	return nil
}

func runLabelsList(c *cli.Context) error {
	for _, label := range labels.All() {
		spec := labels.Lookup(label)
		fmt.Printf("%-30s #%s  %s\n", label, spec.Color, spec.Description)
	}
	return nil
}
