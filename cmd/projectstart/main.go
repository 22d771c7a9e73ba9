// Command projectstart creates the yearly projects from spreadsheet exports:
// one Phabricator project and a set of wiki pages per project, plus the
// yearly overview pages.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	projectstart "github.com/wikimedia-sverige/project-start"
	"github.com/wikimedia-sverige/project-start/internal/logging"
	"github.com/wikimedia-sverige/project-start/internal/logging/gologger"
	"github.com/wikimedia-sverige/project-start/internal/mediawiki"
	"github.com/wikimedia-sverige/project-start/phab"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	year       int
	dryRun     bool
	verbose    bool
	overwrite  bool
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "project-start [flags] project_file goal_file",
		Short: "Create yearly projects on the wiki and on Phabricator",
		Long: "project-start reads tab separated project and goal data and creates " +
			"the corresponding Phabricator projects, wiki project pages, subpages, " +
			"categories and yearly overview pages.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.year, "year", "y", 0,
		"Year for the projects created. If not given, the current year will be used.")
	flags.BoolVarP(&opts.dryRun, "dry-run", "d", false,
		"Don't write anything to the target platforms.")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Print all logging messages.")
	flags.BoolVarP(&opts.overwrite, "overwrite-wiki", "w", false,
		"Write to wiki even if pages exist.")
	flags.StringVarP(&opts.configPath, "config", "c", "config.yaml",
		"Config file.")
	return cmd
}

func run(ctx context.Context, opts options, projectFile, goalFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	level := "info"
	if opts.verbose {
		level = "debug"
	}
	provider, err := gologger.NewProvider(gologger.Config{Level: level, Format: "console"})
	if err != nil {
		return err
	}
	logger := logging.RunnerLogger(provider)

	cfg, err := projectstart.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger.Info("Loaded config.", "path", opts.configPath)

	store, err := mediawiki.NewClient(mediawiki.Config{
		APIURL:    cfg.Wiki.APIURL,
		Username:  cfg.Wiki.Username,
		Password:  cfg.Wiki.Password,
		UserAgent: cfg.Wiki.UserAgent,
	}, mediawiki.WithLogger(logging.WikiLogger(provider)))
	if err != nil {
		return err
	}
	if !opts.dryRun && cfg.Wiki.Username != "" {
		if err := store.Login(ctx); err != nil {
			return err
		}
	}

	creator, err := phab.NewClient(phab.Config{
		APIURL:          cfg.Phab.APIURL,
		Token:           cfg.Phab.APIToken,
		ParentProjectID: cfg.Phab.ParentProjectID,
		RequestDelay:    time.Duration(cfg.Phab.RequestDelay) * time.Second,
		DryRun:          opts.dryRun,
	}, phab.WithLogger(logging.PhabLogger(provider)))
	if err != nil {
		return err
	}

	year := opts.year
	if year == 0 {
		year = time.Now().Year()
	}
	runner := projectstart.NewRunner(cfg, store, creator,
		projectstart.WithYear(year),
		projectstart.WithDryRun(opts.dryRun),
		projectstart.WithOverwrite(opts.overwrite),
		projectstart.WithLoggerProvider(provider),
	)
	return runner.Run(ctx, projectstart.RunRequest{
		ProjectFile: projectFile,
		GoalFile:    goalFile,
	})
}
