// Package projectstart creates the yearly projects of Wikimedia Sverige on
// the wiki and on Phabricator. It reads project and goal data from tab
// separated spreadsheet exports, creates one Phabricator project per wiki
// project and builds the project pages, subpages, categories and yearly
// overview pages.
package projectstart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wikimedia-sverige/project-start/internal/logging"
	"github.com/wikimedia-sverige/project-start/pkg/interfaces"
	"github.com/wikimedia-sverige/project-start/tsv"
	"github.com/wikimedia-sverige/project-start/wiki"
)

// PageStore exports the wiki backend contract for consumers of the
// projectstart package.
type PageStore = wiki.PageStore

// Goals exports the parsed goal matrix.
type Goals = tsv.Goals

// ProjectRecord exports one row of the project spreadsheet.
type ProjectRecord = tsv.ProjectRecord

var ErrColumnNotConfigured = errors.New("projectstart: project column is not configured")

// ProjectCreator creates projects on the task tracker. Satisfied by
// phab.Client.
type ProjectCreator interface {
	AddProject(ctx context.Context, name, description string) (id int, projectName string, err error)
}

// RunRequest names the input files for one run.
type RunRequest struct {
	// ProjectFile is the path to the tab separated project data.
	ProjectFile string
	// GoalFile is the path to the tab separated goal matrix.
	GoalFile string
}

// Validate checks that both input files are named.
func (r RunRequest) Validate() error {
	return validation.Errors{
		"project_file": validation.Validate(r.ProjectFile, validation.Required),
		"goal_file":    validation.Validate(r.GoalFile, validation.Required),
	}.Filter()
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithYear sets the year the projects are created for. Defaults to the
// current year.
func WithYear(year int) RunnerOption {
	return func(r *Runner) {
		if year > 0 {
			r.year = year
		}
	}
}

// WithDryRun suppresses all writes to the wiki and Phabricator.
func WithDryRun(dryRun bool) RunnerOption {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithOverwrite writes wiki pages even when they already exist.
func WithOverwrite(overwrite bool) RunnerOption {
	return func(r *Runner) { r.overwrite = overwrite }
}

// WithLoggerProvider wires the logger provider used for run progress.
func WithLoggerProvider(provider interfaces.LoggerProvider) RunnerOption {
	return func(r *Runner) {
		r.provider = provider
		r.logger = logging.RunnerLogger(provider)
	}
}

// Runner orchestrates one project creation run.
type Runner struct {
	cfg       Config
	store     wiki.PageStore
	phab      ProjectCreator
	provider  interfaces.LoggerProvider
	logger    interfaces.Logger
	year      int
	dryRun    bool
	overwrite bool
}

// NewRunner returns a runner writing through the given page store and
// project creator.
func NewRunner(cfg Config, store wiki.PageStore, creator ProjectCreator, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:    cfg,
		store:  store,
		phab:   creator,
		logger: logging.NoOp(),
		year:   time.Now().Year(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run creates the projects named in the input files: for every active
// top-level project with goal data it creates the Phabricator project, the
// project pages and the category page, then builds the yearly overview
// pages and updates the name lookup templates.
func (r *Runner) Run(ctx context.Context, req RunRequest) error {
	if err := req.Validate(); err != nil {
		return wrapValidationError(err)
	}
	return wrapRunError(r.run(ctx, req))
}

func (r *Runner) run(ctx context.Context, req RunRequest) error {
	r.logger.Info("Creating projects.")

	goals, err := r.readGoals(req.GoalFile)
	if err != nil {
		return err
	}
	records, err := r.readProjects(req.ProjectFile)
	if err != nil {
		return err
	}

	wikiService := wiki.NewService(wiki.Config{
		Wiki:           r.cfg.Wiki,
		ProjectColumns: r.cfg.ProjectColumns,
		Year:           r.year,
		DryRun:         r.dryRun,
		Overwrite:      r.overwrite,
	}, r.store, wiki.WithLogger(logging.WikiLogger(r.provider)), wiki.WithGoals(goals))

	added := map[string]bool{}
	for _, record := range records {
		englishName, err := r.column(record, "english_name")
		if err != nil {
			return err
		}
		skip, err := r.column(record, "skip")
		if err != nil {
			return err
		}
		if skip != "" {
			r.logger.Info("Skipping project marked as inactive.", "project", englishName)
			continue
		}
		superproject, err := r.column(record, "super_project")
		if err != nil {
			return err
		}
		if superproject != "" {
			// Subprojects get no pages of their own.
			continue
		}
		if !goals.Has(englishName) {
			r.logger.Warn(
				"Project name found in projects file, but not in goals file. It will not be created.",
				"project", englishName)
			continue
		}
		swedishName, err := r.column(record, "swedish_name")
		if err != nil {
			return err
		}
		r.logger.Info("Processing project.", "project", swedishName)

		description, err := r.column(record, "about_english")
		if err != nil {
			return err
		}
		r.logger.Info("Adding Phabricator project.")
		phabID, phabName, err := r.phab.AddProject(ctx, englishName, description)
		if err != nil {
			return err
		}

		r.logger.Info("Adding wiki pages.")
		if err := wikiService.AddProjectPage(ctx, record, phabID, phabName); err != nil {
			return err
		}
		area, err := r.column(record, "area")
		if err != nil {
			return err
		}
		if err := wikiService.AddProjectCategories(ctx, swedishName, area); err != nil {
			return err
		}

		projectID, err := r.column(record, "project_id")
		if err != nil {
			return err
		}
		wikiService.RegisterProject(projectID, swedishName, englishName)
		added[englishName] = true
	}

	// Parse the operational plan up front so unmatched projects are
	// reported before any overview page is built.
	if _, err := wikiService.Programs(ctx); err != nil {
		return err
	}
	for _, project := range goals.Projects() {
		if !added[project] {
			r.logger.Warn(
				"Project name found in goals file, but not in projects file. It will not be created.",
				"project", project)
		}
	}

	if err := wikiService.AddYearPages(ctx); err != nil {
		return err
	}
	if err := wikiService.UpdateProjectNameTemplates(ctx); err != nil {
		return err
	}
	wikiService.LogReport()
	return nil
}

func (r *Runner) readGoals(path string) (*tsv.Goals, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open goal file: %w", err)
	}
	defer file.Close()
	return tsv.ReadGoals(file, r.cfg.Goals)
}

func (r *Runner) readProjects(path string) ([]tsv.ProjectRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project file: %w", err)
	}
	defer file.Close()
	return tsv.ReadProjects(file)
}

func (r *Runner) column(record tsv.ProjectRecord, canonical string) (string, error) {
	label, ok := r.cfg.ProjectColumns[canonical]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrColumnNotConfigured, canonical)
	}
	return record[label], nil
}
