// Package wiki builds the project and year pages on the wiki: main project
// pages substituted from a template, subpages including the goal values,
// category pages and the yearly overview pages derived from the operational
// plan.
package wiki

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wikimedia-sverige/project-start/internal/logging"
	"github.com/wikimedia-sverige/project-start/internal/runtimeconfig"
	"github.com/wikimedia-sverige/project-start/pkg/interfaces"
	"github.com/wikimedia-sverige/project-start/plan"
	"github.com/wikimedia-sverige/project-start/tsv"
	"github.com/wikimedia-sverige/project-start/wikitext"
)

// Config carries the settings the page builder needs for one run.
type Config struct {
	Wiki runtimeconfig.WikiConfig
	// ProjectColumns maps canonical column names to the labels used in the
	// project spreadsheet.
	ProjectColumns map[string]string
	Year           int
	// DryRun suppresses writes while still reading and reporting.
	DryRun bool
	// Overwrite writes pages even when they already exist.
	Overwrite bool
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger wires a logger for page building progress.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGoals supplies the goal matrix used for goal subpages.
func WithGoals(goals *tsv.Goals) Option {
	return func(s *Service) { s.goals = goals }
}

type projectNames struct {
	swedish string
	english string
}

// Service builds pages through a PageStore. It accumulates the projects of
// the run so the year pages can be produced once all projects are known.
type Service struct {
	cfg    Config
	store  PageStore
	goals  *tsv.Goals
	logger interfaces.Logger

	// Projects registered during the run, keyed by project number, with the
	// numbers kept in registration order.
	projects map[string]projectNames
	numbers  []string

	// Parsed operational plan, cached after the first use.
	plan *plan.Plan

	touched []string
}

// NewService returns a page builder writing through the given store.
func NewService(cfg Config, store PageStore, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		store:    store,
		logger:   logging.NoOp(),
		projects: map[string]projectNames{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterProject records a project's number and names for the year pages.
func (s *Service) RegisterProject(number, swedishName, englishName string) {
	if _, ok := s.projects[number]; !ok {
		s.numbers = append(s.numbers, number)
	}
	s.projects[number] = projectNames{swedish: swedishName, english: englishName}
}

// Touched returns the titles of the pages written, or that would have been
// written during a dry run, in write order.
func (s *Service) Touched() []string {
	return s.touched
}

// LogReport logs the pages modified during the run.
func (s *Service) LogReport() {
	s.logger.Info("These pages were modified:")
	for _, title := range s.touched {
		s.logger.Info(title)
	}
}

// AddProjectPage creates the main page for a project and its configured
// subpages. Pages that already exist are skipped unless overwriting is
// enabled.
func (s *Service) AddProjectPage(ctx context.Context, record tsv.ProjectRecord, phabID int, phabName string) error {
	name, err := s.column(record, "swedish_name")
	if err != nil {
		return err
	}
	if err := s.addProjectMainPage(ctx, record, name, phabID, phabName); err != nil {
		return err
	}
	for _, subpage := range s.cfg.Wiki.Subpages {
		if err := s.addSubpage(ctx, subpage, record, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) addProjectMainPage(ctx context.Context, record tsv.ProjectRecord, name string, phabID int, phabName string) error {
	title := s.cfg.Wiki.ProjectNamespace + ":" + name
	exists, err := s.store.Exists(ctx, title)
	if err != nil {
		return err
	}
	if exists && !s.cfg.Overwrite {
		s.logger.Warn("Project page already exists. It will not be created.", "title", title)
		return nil
	}

	template := wikitext.NewSubst(s.cfg.Wiki.ProjectTemplate)
	for _, param := range s.cfg.Wiki.ProjectParameters {
		value, err := s.column(record, param.Value)
		if err != nil {
			return err
		}
		template.AddParameter(param.Name, value)
	}
	template.AddNumber("year", s.cfg.Year)
	template.AddNumber("phabricatorId", phabID)
	template.AddParameter("phabricatorName", phabName)
	template.AddParameter("bot", "ja")

	s.logger.Info("Writing to project page.", "title", title)
	return s.writePage(ctx, title, template.String())
}

func (s *Service) addSubpage(ctx context.Context, subpage runtimeconfig.SubpageConfig, record tsv.ProjectRecord, projectName string) error {
	template := wikitext.NewSubst(subpage.TemplateName)
	template.AddNumber("år", s.cfg.Year)
	for _, param := range subpage.Parameters {
		value, err := s.column(record, param.Value)
		if err != nil {
			return err
		}
		template.AddParameter(param.Name, value)
	}

	if len(subpage.AddGoalsParameters) > 0 {
		if s.goals == nil {
			s.logger.Warn("Goals need to be supplied for the subpage, it will not be added.", "title", subpage.Title)
			return nil
		}
		if err := s.addGoalParameters(template, subpage, record); err != nil {
			return err
		}
	}

	title := fmt.Sprintf("%s:%s/%s", s.cfg.Wiki.ProjectNamespace, projectName, subpage.Title)
	return s.addPageFromTemplate(ctx, title, template)
}

// addGoalParameters fills in the nested goals template and the fulfillment
// list. The goals are not copied from the spreadsheet verbatim; they become
// parameters of a dedicated template named by the subpage configuration.
func (s *Service) addGoalParameters(template *wikitext.Template, subpage runtimeconfig.SubpageConfig, record tsv.ProjectRecord) error {
	englishName, err := s.column(record, "english_name")
	if err != nil {
		return err
	}
	parameterName := subpage.AddGoalsParameters[0].Name
	goalsTemplateName := s.makeYearTitle(subpage.AddGoalsParameters[0].Value)

	goalsTemplate := wikitext.New(goalsTemplateName)
	var fulfillments strings.Builder
	for _, goal := range s.goals.For(englishName) {
		goalsTemplate.AddParameter(goal.Name, goal.Planned)
		text, ok := s.goals.Fulfillments[goal.Name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrFulfillmentMissing, goal.Name)
		}
		fulfillments.WriteString("\n* ")
		fulfillments.WriteString(text)
	}
	template.AddTemplate(parameterName, goalsTemplate)
	template.AddParameter("måluppfyllnad", fulfillments.String())
	return nil
}

// AddProjectCategories creates the project's category page, categorised under
// the year category and, when given, the area category.
func (s *Service) AddProjectCategories(ctx context.Context, project, area string) error {
	categories := []string{s.yearCategory()}
	if area != "" {
		categories = append(categories, area)
	}
	return s.addCategoryPage(ctx, project, categories)
}

func (s *Service) yearCategory() string {
	if s.cfg.Wiki.YearPages.Categories.General != "" {
		return s.makeYearTitle(s.cfg.Wiki.YearPages.Categories.General)
	}
	return fmt.Sprintf("Projekt %d", s.cfg.Year)
}

func (s *Service) addCategoryPage(ctx context.Context, title string, categories []string) error {
	fullTitle := "Kategori:" + title
	exists, err := s.store.Exists(ctx, fullTitle)
	if err != nil {
		return err
	}
	if exists && !s.cfg.Overwrite {
		s.logger.Warn("Category page already exists. It will not be created.", "title", fullTitle)
		return nil
	}

	var text strings.Builder
	for _, category := range categories {
		if category == title {
			continue
		}
		text.WriteString("[[Kategori:")
		text.WriteString(category)
		text.WriteString("]]\n")
	}
	s.logger.Info("Writing to category page.", "title", fullTitle)
	return s.writePage(ctx, fullTitle, text.String())
}

// addPageFromTemplate writes a page whose whole content is one substituted
// template in block form, unless the page already exists.
func (s *Service) addPageFromTemplate(ctx context.Context, title string, template *wikitext.Template) error {
	exists, err := s.store.Exists(ctx, title)
	if err != nil {
		return err
	}
	if exists && !s.cfg.Overwrite {
		s.logger.Warn("Page already exists. It will not be created.", "title", title)
		return nil
	}
	s.logger.Info("Writing to page.", "title", title)
	return s.writePage(ctx, title, template.Multiline())
}

func (s *Service) writePage(ctx context.Context, title, text string) error {
	s.logger.Debug(text)
	if !s.cfg.DryRun {
		if err := s.store.Write(ctx, title, text, s.cfg.Wiki.EditSummary); err != nil {
			return fmt.Errorf("wiki: write page %q: %w", title, err)
		}
	}
	s.touched = append(s.touched, title)
	return nil
}

// Programs returns the operational plan hierarchy with the registered
// projects assigned to their strategies. The plan page is fetched and parsed
// once; later calls reuse the result.
func (s *Service) Programs(ctx context.Context) (*plan.Plan, error) {
	if s.plan != nil {
		return s.plan, nil
	}

	title := s.makeYearTitle(s.cfg.Wiki.YearPages.OperationalPlan)
	exists, err := s.store.Exists(ctx, title)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &PageMissingError{Title: title}
	}
	text, err := s.store.Read(ctx, title)
	if err != nil {
		return nil, err
	}
	table, err := plan.FirstTable(text)
	if err != nil {
		return nil, fmt.Errorf("wiki: operational plan %q: %w", title, err)
	}
	parsed, err := plan.ParseTable(table, s.numbers)
	if err != nil {
		return nil, fmt.Errorf("wiki: operational plan %q: %w", title, err)
	}
	if len(parsed.Unmatched) > 0 {
		s.logger.Warn(
			"There were projects which could not be matched to programs, these will be skipped from overview pages.",
			"projects", strings.Join(parsed.Unmatched, ", "))
	}
	s.plan = parsed
	return parsed, nil
}

// makeYearTitle replaces the <YEAR> placeholder with the run's year.
func (s *Service) makeYearTitle(raw string) string {
	return strings.ReplaceAll(raw, "<YEAR>", strconv.Itoa(s.cfg.Year))
}

func (s *Service) column(record tsv.ProjectRecord, canonical string) (string, error) {
	label, ok := s.cfg.ProjectColumns[canonical]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, canonical)
	}
	return record[label], nil
}

func (s *Service) swedishName(number string) string {
	return s.projects[number].swedish
}

// sortedStrategyProjects collects the distinct project numbers of a program's
// strategies, sorted for thematic grouping.
func sortedStrategyProjects(program *plan.Program) []string {
	seen := map[string]bool{}
	var projects []string
	for _, strategy := range program.Strategies {
		for _, project := range strategy.Projects {
			if !seen[project] {
				seen[project] = true
				projects = append(projects, project)
			}
		}
	}
	sort.Strings(projects)
	return projects
}
