// Package runtimeconfig defines the configuration surface of the
// project-start tool: wiki templates and titles, year page layouts,
// Phabricator connection settings and the goal spreadsheet layout.
package runtimeconfig

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrWikiAPIURLRequired = errors.New("config: wiki api url is required")
var ErrProjectNamespaceRequired = errors.New("config: wiki project namespace is required")
var ErrProjectTemplateRequired = errors.New("config: wiki project template is required")
var ErrEditSummaryRequired = errors.New("config: wiki edit summary is required")
var ErrOperationalPlanRequired = errors.New("config: operational plan page title is required")
var ErrSubpageTitleRequired = errors.New("config: every subpage needs a title")
var ErrSubpageTemplateRequired = errors.New("config: every subpage needs a template name")
var ErrPhabAPIURLRequired = errors.New("config: phab api url is required")
var ErrPhabTokenRequired = errors.New("config: phab api token is required")
var ErrRequestDelayInvalid = errors.New("config: phab request delay must be zero or positive")
var ErrGoalsLayoutInvalid = errors.New("config: goals layout rows and columns must be zero or positive")

// Config aggregates every setting read from the configuration file.
type Config struct {
	Wiki           WikiConfig        `yaml:"wiki"`
	Phab           PhabConfig        `yaml:"phab"`
	ProjectColumns map[string]string `yaml:"project_columns"`
	Goals          GoalsLayout       `yaml:"goals"`
}

// WikiConfig captures page titles, template names and parameter label maps
// used when building wiki pages.
type WikiConfig struct {
	// APIURL is the MediaWiki action API endpoint, e.g.
	// https://se.wikimedia.org/w/api.php.
	APIURL                string          `yaml:"api_url"`
	Username              string          `yaml:"username"`
	Password              string          `yaml:"password"`
	UserAgent             string          `yaml:"user_agent"`
	ProjectNamespace      string          `yaml:"project_namespace"`
	ProjectTemplate       string          `yaml:"project_template"`
	ProjectParameters     Params          `yaml:"project_parameters"`
	EditSummary           string          `yaml:"edit_summary"`
	Subpages              []SubpageConfig `yaml:"subpages"`
	YearPages             YearPagesConfig `yaml:"year_pages"`
	ProjectNameTemplate   string          `yaml:"project_name_template"`
	ProjectNumberTemplate string          `yaml:"project_number_template"`
}

// SubpageConfig describes one subpage created under each project page.
// Parameters maps template parameter names to project spreadsheet column
// labels. AddGoalsParameters, when set, names the parameter that receives
// the nested goals template; its value is the goals template title with the
// usual <YEAR> placeholder.
type SubpageConfig struct {
	Title              string `yaml:"title"`
	TemplateName       string `yaml:"template_name"`
	Parameters         Params `yaml:"parameters"`
	AddGoalsParameters Params `yaml:"add_goals_parameters"`
}

// YearPagesConfig describes the pages created once per year. Titles may
// contain the <YEAR> placeholder.
type YearPagesConfig struct {
	OperationalPlan string                `yaml:"operational_plan"`
	Simple          Params                `yaml:"simple"`
	Projects        TitledTemplate        `yaml:"projects"`
	ProgramOverview ProgramOverviewConfig `yaml:"program_overview"`
	Categories      CategoriesConfig      `yaml:"categories"`
	CurrentProjects CurrentProjectsConfig `yaml:"current_projects"`
	VolunteerTasks  TitledTemplate        `yaml:"volunteer_tasks"`
}

// TitledTemplate pairs a page title with the template substituted onto it.
type TitledTemplate struct {
	Title    string `yaml:"title"`
	Template string `yaml:"template"`
}

// ProgramOverviewConfig describes the program overview table page.
type ProgramOverviewConfig struct {
	Title     string            `yaml:"title"`
	Templates OverviewTemplates `yaml:"templates"`
	Colours   []string          `yaml:"colours"`
}

// OverviewTemplates names the templates that build the overview table.
type OverviewTemplates struct {
	Page     string `yaml:"page"`
	Program  string `yaml:"program"`
	Strategy string `yaml:"strategy"`
	Goal     string `yaml:"goal"`
	Project  string `yaml:"project"`
}

// CategoriesConfig describes the category pages created for a year.
type CategoriesConfig struct {
	General string        `yaml:"general"`
	Pages   CategoryPages `yaml:"pages"`
}

// CurrentProjectsConfig describes the current projects navigation template.
// Programs maps layout parameter names to program names in the operational
// plan, in render order.
type CurrentProjectsConfig struct {
	Title    string `yaml:"title"`
	Template string `yaml:"template"`
	Programs Params `yaml:"programs"`
}

// PhabConfig captures the Conduit connection settings.
type PhabConfig struct {
	APIURL          string `yaml:"api_url"`
	APIToken        string `yaml:"api_token"`
	ParentProjectID int    `yaml:"parent_project_id"`
	// RequestDelay is the minimum spacing between requests, in seconds.
	RequestDelay int `yaml:"request_delay"`
}

// GoalsLayout locates the data inside the goal spreadsheet.
type GoalsLayout struct {
	// LastRow is the first row index past the goal data.
	LastRow int `yaml:"last_row"`
	// ProjectRow is the row index holding the project name headers.
	ProjectRow int `yaml:"project_row"`
	// FirstProjectColumn is the column index of the first project column.
	FirstProjectColumn int `yaml:"first_project_column"`
}

// DefaultConfig returns the built-in defaults applied before the file is
// read.
func DefaultConfig() Config {
	return Config{
		Phab: PhabConfig{
			RequestDelay: 10,
		},
	}
}

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings every run depends on.
func (c Config) Validate() error {
	if c.Wiki.APIURL == "" {
		return ErrWikiAPIURLRequired
	}
	if c.Wiki.ProjectNamespace == "" {
		return ErrProjectNamespaceRequired
	}
	if c.Wiki.ProjectTemplate == "" {
		return ErrProjectTemplateRequired
	}
	if c.Wiki.EditSummary == "" {
		return ErrEditSummaryRequired
	}
	if c.Wiki.YearPages.OperationalPlan == "" {
		return ErrOperationalPlanRequired
	}
	for _, subpage := range c.Wiki.Subpages {
		if subpage.Title == "" {
			return ErrSubpageTitleRequired
		}
		if subpage.TemplateName == "" {
			return ErrSubpageTemplateRequired
		}
	}
	if c.Phab.APIURL == "" {
		return ErrPhabAPIURLRequired
	}
	if c.Phab.APIToken == "" {
		return ErrPhabTokenRequired
	}
	if c.Phab.RequestDelay < 0 {
		return ErrRequestDelayInvalid
	}
	if c.Goals.LastRow < 0 || c.Goals.ProjectRow < 0 || c.Goals.FirstProjectColumn < 0 {
		return ErrGoalsLayoutInvalid
	}
	return nil
}
