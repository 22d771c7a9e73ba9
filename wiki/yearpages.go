package wiki

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wikimedia-sverige/project-start/wikitext"
)

// AddYearPages creates the pages that are added once per year: the simple
// template pages, the project listing, the program overview table, the year
// categories, the current projects template and the volunteer tasks page.
// Sections without a configured title are left out.
func (s *Service) AddYearPages(ctx context.Context) error {
	yearPages := s.cfg.Wiki.YearPages

	for _, page := range yearPages.Simple {
		title := s.makeYearTitle(page.Name)
		template := wikitext.NewPositional(page.Value, true, wikitext.Number(s.cfg.Year))
		if err := s.addPageFromTemplate(ctx, title, template); err != nil {
			return err
		}
	}
	if yearPages.Projects.Title != "" {
		if err := s.addProjectsYearPage(ctx); err != nil {
			return err
		}
	}
	if yearPages.ProgramOverview.Title != "" {
		if err := s.addProgramOverviewYearPage(ctx); err != nil {
			return err
		}
	}
	if len(yearPages.Categories.Pages) > 0 {
		if err := s.addYearCategories(ctx); err != nil {
			return err
		}
	}
	if yearPages.CurrentProjects.Title != "" {
		if err := s.createCurrentProjectsTemplate(ctx); err != nil {
			return err
		}
	}
	if yearPages.VolunteerTasks.Title != "" {
		if err := s.addVolunteerTasksPage(ctx); err != nil {
			return err
		}
	}
	return nil
}

// addProjectsYearPage creates the page listing the year's projects grouped
// by program and strategy, each project contributing its project data
// template and a commented-out project number.
func (s *Service) addProjectsYearPage(ctx context.Context) error {
	cfg := s.cfg.Wiki.YearPages.Projects
	title := s.makeYearTitle(cfg.Title)

	programs, err := s.Programs(ctx)
	if err != nil {
		s.logger.Error("Error when processing page.", "title", title)
		return err
	}

	var content strings.Builder
	for _, program := range programs.Programs {
		fmt.Fprintf(&content, "== %s %s ==\n", program.Number, program.Name)
		for _, strategy := range program.Strategies {
			fmt.Fprintf(&content, "=== %s %s ===\n", strategy.Number, strategy.ShortDescription)
			for _, project := range strategy.Projects {
				content.WriteString(s.makeProjectDataString(project))
			}
		}
	}

	template := wikitext.NewSubst(cfg.Template)
	template.AddNumber("år", s.cfg.Year)
	template.AddParameter("projekt", content.String())
	return s.addPageFromTemplate(ctx, title, template)
}

// makeProjectDataString renders one project's entry on the projects year
// page: its project data template and a comment holding the project number.
func (s *Service) makeProjectDataString(number string) string {
	data := wikitext.New(fmt.Sprintf(":%s:%s/Projektdata", s.cfg.Wiki.ProjectNamespace, s.swedishName(number)))
	comment := wikitext.NewPositional("Utkommenterat", true, wikitext.Text(number))
	return fmt.Sprintf("%s%s\n", data, comment)
}

// addProgramOverviewYearPage builds the overview table from per-program,
// per-strategy, per-goal and per-project templates.
func (s *Service) addProgramOverviewYearPage(ctx context.Context) error {
	cfg := s.cfg.Wiki.YearPages.ProgramOverview
	title := s.makeYearTitle(cfg.Title)

	programs, err := s.Programs(ctx)
	if err != nil {
		s.logger.Error("Error when processing page.", "title", title)
		return err
	}

	var content strings.Builder
	for i, program := range programs.Programs {
		if i >= len(cfg.Colours) {
			return fmt.Errorf("%w: %d programs, %d colours", ErrColoursExhausted, len(programs.Programs), len(cfg.Colours))
		}
		programTemplate := wikitext.NewSubst(cfg.Templates.Program)
		programTemplate.AddParameter("program", program.Name)
		programTemplate.AddParameter("färg", cfg.Colours[i])
		content.WriteString(programTemplate.Multiline())
		content.WriteString("\n")
		for _, strategy := range program.Strategies {
			content.WriteString(wikitext.NewPositional(cfg.Templates.Strategy, true, wikitext.Text(strategy.Description)).Multiline())
			content.WriteString("\n")
			for _, goal := range strategy.Goals {
				content.WriteString(wikitext.NewPositional(cfg.Templates.Goal, true, wikitext.Text(goal)).Multiline())
				content.WriteString("\n")
			}
			for _, project := range strategy.Projects {
				content.WriteString(wikitext.NewPositional(cfg.Templates.Project, true, wikitext.Text(project)).Multiline())
				content.WriteString("\n")
			}
		}
	}

	template := wikitext.NewSubst(cfg.Templates.Page)
	template.AddNumber("år", s.cfg.Year)
	template.AddParameter("tabellinnehåll", content.String())
	return s.addPageFromTemplate(ctx, title, template)
}

// addYearCategories creates the configured category pages, each categorised
// under the general year category plus any extra categories.
func (s *Service) addYearCategories(ctx context.Context) error {
	cfg := s.cfg.Wiki.YearPages.Categories
	general := s.makeYearTitle(cfg.General)
	for _, page := range cfg.Pages {
		title := s.makeYearTitle(page.Title)
		categories := append([]string{general}, page.Extra...)
		if err := s.addCategoryPage(ctx, title, categories); err != nil {
			return err
		}
	}
	return nil
}

// createCurrentProjectsTemplate builds the navigation template linking the
// year's projects per program, sorted by project number for thematic
// grouping.
func (s *Service) createCurrentProjectsTemplate(ctx context.Context) error {
	cfg := s.cfg.Wiki.YearPages.CurrentProjects
	title := s.makeYearTitle(cfg.Title)

	exists, err := s.store.Exists(ctx, title)
	if err != nil {
		return err
	}
	if exists && !s.cfg.Overwrite {
		s.logger.Warn("Page already exists. It will not be created.", "title", title)
		return nil
	}

	programs, err := s.Programs(ctx)
	if err != nil {
		s.logger.Error("Error when processing page.", "title", title)
		return err
	}

	const delimiter = "''' · '''"
	linksByProgram := map[string]string{}
	for _, program := range programs.Programs {
		var links []string
		for _, number := range sortedStrategyProjects(program) {
			name := s.swedishName(number)
			links = append(links, fmt.Sprintf("[[%s:%s|%s]]", s.cfg.Wiki.ProjectNamespace, name, name))
		}
		linksByProgram[program.Name] = strings.Join(links, delimiter)
	}

	template := wikitext.New(cfg.Template)
	template.AddNumber("år", s.cfg.Year)
	for _, param := range cfg.Programs {
		links, ok := linksByProgram[param.Value]
		if !ok {
			return fmt.Errorf("%w: %q", ErrProgramUnknown, param.Value)
		}
		template.AddParameter(param.Name, links)
	}

	text := template.Multiline() + "\n<noinclude>{{Dokumentation}}</noinclude>"
	s.logger.Info("Writing to page.", "title", title)
	return s.writePage(ctx, title, text)
}

// addVolunteerTasksPage creates the list of volunteer task pages, grouped by
// program, with a commented-out placeholder ending each section.
func (s *Service) addVolunteerTasksPage(ctx context.Context) error {
	cfg := s.cfg.Wiki.YearPages.VolunteerTasks
	title := s.makeYearTitle(cfg.Title)

	programs, err := s.Programs(ctx)
	if err != nil {
		s.logger.Error("Error when processing page.", "title", title)
		return err
	}

	var content strings.Builder
	placeholder := wikitext.NewPositional("Utkommenterat", true, wikitext.Text("Platshållare"))
	for _, program := range programs.Programs {
		fmt.Fprintf(&content, "== %s ==\n", program.Name)
		for _, strategy := range program.Strategies {
			for _, number := range strategy.Projects {
				fmt.Fprintf(&content, "{{:%s:%s/Frivillig}}\n", s.cfg.Wiki.ProjectNamespace, s.swedishName(number))
			}
		}
		fmt.Fprintf(&content, "%s&nbsp;\n\n", placeholder)
	}

	template := wikitext.NewSubst(cfg.Template)
	template.AddParameter("frivilliguppdrag", content.String())
	template.AddNumber("år", s.cfg.Year)
	return s.addPageFromTemplate(ctx, title, template)
}

// SingleProjectInfo logs the year pages that must be updated by hand when a
// single project is added after the start-of-the-year run. Returns the page
// titles for callers that want them.
func (s *Service) SingleProjectInfo(number, swedishName string) []string {
	yearPages := s.cfg.Wiki.YearPages
	var pages []string
	for _, raw := range []string{
		yearPages.OperationalPlan,
		yearPages.Projects.Title,
		yearPages.ProgramOverview.Title,
		yearPages.CurrentProjects.Title,
		yearPages.VolunteerTasks.Title,
	} {
		if raw != "" {
			pages = append(pages, s.makeYearTitle(raw))
		}
	}
	s.logger.Warn(
		"Don't forget to manually add the project to the overview pages.",
		"project", number+" - "+swedishName,
		"pages", strings.Join(pages, ", "))
	return pages
}

var defaultRowPattern = regexp.MustCompile(`\| #default.*`)

// UpdateProjectNameTemplates inserts the registered projects into the
// number-to-name and name-to-number switch templates, just above each
// template's default row. Numbers already present are left untouched.
func (s *Service) UpdateProjectNameTemplates(ctx context.Context) error {
	if s.cfg.Wiki.ProjectNameTemplate == "" || s.cfg.Wiki.ProjectNumberTemplate == "" {
		return nil
	}

	nameText, err := s.store.Read(ctx, s.cfg.Wiki.ProjectNameTemplate)
	if err != nil {
		return err
	}
	numberText, err := s.store.Read(ctx, s.cfg.Wiki.ProjectNumberTemplate)
	if err != nil {
		return err
	}

	for _, number := range s.numbers {
		names := s.projects[number]
		nameRow := fmt.Sprintf("| %s = {{#if: {{{en|}}}| %s | %s }}", number, names.english, names.swedish)
		nameText = s.insertRowBeforeDefault(s.cfg.Wiki.ProjectNameTemplate, nameText, nameRow, number)

		numberRow := fmt.Sprintf("| %s = %s", names.swedish, number)
		numberText = s.insertRowBeforeDefault(s.cfg.Wiki.ProjectNumberTemplate, numberText, numberRow, number)
	}

	if err := s.writePage(ctx, s.cfg.Wiki.ProjectNameTemplate, nameText); err != nil {
		return err
	}
	return s.writePage(ctx, s.cfg.Wiki.ProjectNumberTemplate, numberText)
}

// insertRowBeforeDefault adds a switch row just above the default row. When
// the number is already present nothing is added; a template without a
// default row is left alone with a warning since that means the template is
// broken.
func (s *Service) insertRowBeforeDefault(title, text, row, number string) string {
	if strings.Contains(text, number) {
		s.logger.Debug("Skipping adding existing project to template.", "title", title, "project", number)
		return text
	}
	loc := defaultRowPattern.FindStringIndex(text)
	if loc == nil {
		s.logger.Warn("No default row in template.", "title", title)
		return text
	}
	return text[:loc[0]] + row + "\n" + text[loc[0]:]
}
