package wiki_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wikimedia-sverige/project-start/internal/runtimeconfig"
	"github.com/wikimedia-sverige/project-start/tsv"
	"github.com/wikimedia-sverige/project-start/wiki"
)

// fakeStore is an in-memory page backend recording every write.
type fakeStore struct {
	pages     map[string]string
	writes    map[string]int
	summaries []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{pages: map[string]string{}, writes: map[string]int{}}
}

func (f *fakeStore) Exists(_ context.Context, title string) (bool, error) {
	_, ok := f.pages[title]
	return ok, nil
}

func (f *fakeStore) Read(_ context.Context, title string) (string, error) {
	text, ok := f.pages[title]
	if !ok {
		return "", fmt.Errorf("read %q: page not found", title)
	}
	return text, nil
}

func (f *fakeStore) Write(_ context.Context, title, text, summary string) error {
	f.pages[title] = text
	f.writes[title]++
	f.summaries = append(f.summaries, summary)
	return nil
}

func testConfig() wiki.Config {
	return wiki.Config{
		Wiki: runtimeconfig.WikiConfig{
			ProjectNamespace: "Projekt",
			ProjectTemplate:  "Projekt-sida",
			ProjectParameters: runtimeconfig.Params{
				{Name: "beskrivning", Value: "about"},
				{Name: "ansvarig", Value: "manager"},
			},
			EditSummary: "Skapa sida för nytt projekt",
			YearPages: runtimeconfig.YearPagesConfig{
				OperationalPlan: "Verksamhetsplan <YEAR>",
				Categories: runtimeconfig.CategoriesConfig{
					General: "Projekt <YEAR>",
				},
			},
		},
		ProjectColumns: map[string]string{
			"swedish_name": "Svenskt namn",
			"english_name": "Engelskt namn",
			"about":        "Om",
			"manager":      "Ansvarig",
			"area":         "Område",
		},
		Year: 2019,
	}
}

func testRecord() tsv.ProjectRecord {
	return tsv.ProjectRecord{
		"Svenskt namn":  "Fri kunskap",
		"Engelskt namn": "Free Knowledge",
		"Om":            "Beskrivningstext",
		"Ansvarig":      "John",
		"Område":        "Tillgång",
	}
}

// testGoals builds a goal matrix holding two goals for Free Knowledge.
func testGoals(t *testing.T) *tsv.Goals {
	t.Helper()
	data := "x\t\tFree Knowledge\n" +
		"T.1.1 - Beskrivning\tFörbättra 25 sidor\t25\n" +
		"G.2.2 - Annan\tNå 100 personer\t100\n"
	goals, err := tsv.ReadGoals(strings.NewReader(data), runtimeconfig.GoalsLayout{
		LastRow:            10,
		ProjectRow:         0,
		FirstProjectColumn: 2,
	})
	if err != nil {
		t.Fatalf("ReadGoals() returned unexpected error: %v", err)
	}
	return goals
}

func TestAddProjectPage_MainPage(t *testing.T) {
	store := newFakeStore()
	service := wiki.NewService(testConfig(), store)

	err := service.AddProjectPage(context.Background(), testRecord(), 99, "WMSE-Free-Knowledge")
	if err != nil {
		t.Fatalf("AddProjectPage() returned unexpected error: %v", err)
	}

	want := "{{subst:Projekt-sida\n" +
		"| beskrivning = Beskrivningstext\n" +
		"| ansvarig = John\n" +
		"| year = 2019\n" +
		"| phabricatorId = 99\n" +
		"| phabricatorName = WMSE-Free-Knowledge\n" +
		"| bot = ja\n" +
		"}}"
	if got := store.pages["Projekt:Fri kunskap"]; got != want {
		t.Fatalf("project page text =\n%s\nwant\n%s", got, want)
	}
	if len(store.summaries) != 1 || store.summaries[0] != "Skapa sida för nytt projekt" {
		t.Fatalf("summaries = %v", store.summaries)
	}
}

func TestAddProjectPage_ExistingPageIsSkipped(t *testing.T) {
	store := newFakeStore()
	store.pages["Projekt:Fri kunskap"] = "befintlig text"
	service := wiki.NewService(testConfig(), store)

	if err := service.AddProjectPage(context.Background(), testRecord(), 99, "WMSE-Free-Knowledge"); err != nil {
		t.Fatalf("AddProjectPage() returned unexpected error: %v", err)
	}
	if got := store.pages["Projekt:Fri kunskap"]; got != "befintlig text" {
		t.Fatalf("existing page was overwritten: %q", got)
	}
}

func TestAddProjectPage_OverwriteReplacesExistingPage(t *testing.T) {
	store := newFakeStore()
	store.pages["Projekt:Fri kunskap"] = "befintlig text"
	cfg := testConfig()
	cfg.Overwrite = true
	service := wiki.NewService(cfg, store)

	if err := service.AddProjectPage(context.Background(), testRecord(), 99, "WMSE-Free-Knowledge"); err != nil {
		t.Fatalf("AddProjectPage() returned unexpected error: %v", err)
	}
	if got := store.pages["Projekt:Fri kunskap"]; got == "befintlig text" {
		t.Fatal("page was not overwritten")
	}
}

func TestAddProjectPage_DryRunWritesNothing(t *testing.T) {
	store := newFakeStore()
	cfg := testConfig()
	cfg.DryRun = true
	service := wiki.NewService(cfg, store)

	if err := service.AddProjectPage(context.Background(), testRecord(), 99, "WMSE-Free-Knowledge"); err != nil {
		t.Fatalf("AddProjectPage() returned unexpected error: %v", err)
	}
	if len(store.writes) != 0 {
		t.Fatalf("dry run wrote pages: %v", store.writes)
	}
	touched := service.Touched()
	if len(touched) != 1 || touched[0] != "Projekt:Fri kunskap" {
		t.Fatalf("Touched() = %v, want the project page reported", touched)
	}
}

func TestAddProjectPage_GoalsSubpage(t *testing.T) {
	cfg := testConfig()
	cfg.Wiki.Subpages = []runtimeconfig.SubpageConfig{
		{
			Title:        "Global mätning",
			TemplateName: "Global mätning",
			AddGoalsParameters: runtimeconfig.Params{
				{Name: "mål", Value: "Mål och mätning <YEAR>"},
			},
		},
	}
	store := newFakeStore()
	service := wiki.NewService(cfg, store, wiki.WithGoals(testGoals(t)))

	if err := service.AddProjectPage(context.Background(), testRecord(), 99, "WMSE-Free-Knowledge"); err != nil {
		t.Fatalf("AddProjectPage() returned unexpected error: %v", err)
	}

	want := "{{subst:Global mätning\n" +
		"| år = 2019\n" +
		"| mål = {{Mål och mätning 2019\n" +
		"  | T.1.1 = 25\n" +
		"  | G.2.2 = 100\n" +
		"  }}\n" +
		"| måluppfyllnad = \n" +
		"* Förbättra 25 sidor\n" +
		"* Nå 100 personer\n" +
		"}}"
	if got := store.pages["Projekt:Fri kunskap/Global mätning"]; got != want {
		t.Fatalf("goals subpage text =\n%s\nwant\n%s", got, want)
	}
}

func TestAddProjectPage_GoalsSubpageWithoutGoalsIsSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.Wiki.Subpages = []runtimeconfig.SubpageConfig{
		{
			Title:        "Global mätning",
			TemplateName: "Global mätning",
			AddGoalsParameters: runtimeconfig.Params{
				{Name: "mål", Value: "Mål och mätning <YEAR>"},
			},
		},
	}
	store := newFakeStore()
	service := wiki.NewService(cfg, store)

	if err := service.AddProjectPage(context.Background(), testRecord(), 99, "WMSE-Free-Knowledge"); err != nil {
		t.Fatalf("AddProjectPage() returned unexpected error: %v", err)
	}
	if _, ok := store.pages["Projekt:Fri kunskap/Global mätning"]; ok {
		t.Fatal("goals subpage was written without any goals supplied")
	}
}

func TestAddProjectPage_MissingFulfillmentFailsLoudly(t *testing.T) {
	cfg := testConfig()
	cfg.Wiki.Subpages = []runtimeconfig.SubpageConfig{
		{
			Title:        "Global mätning",
			TemplateName: "Global mätning",
			AddGoalsParameters: runtimeconfig.Params{
				{Name: "mål", Value: "Mål och mätning <YEAR>"},
			},
		},
	}
	// A goal matrix where T.1.1 has a planned value but no fulfillment text.
	data := "x\t\tFree Knowledge\n" +
		"T.1.1 - Beskrivning\t\t25\n"
	goals, err := tsv.ReadGoals(strings.NewReader(data), runtimeconfig.GoalsLayout{
		LastRow:            10,
		ProjectRow:         0,
		FirstProjectColumn: 2,
	})
	if err != nil {
		t.Fatalf("ReadGoals() returned unexpected error: %v", err)
	}
	store := newFakeStore()
	service := wiki.NewService(cfg, store, wiki.WithGoals(goals))

	err = service.AddProjectPage(context.Background(), testRecord(), 99, "WMSE-Free-Knowledge")
	if !errors.Is(err, wiki.ErrFulfillmentMissing) {
		t.Fatalf("expected ErrFulfillmentMissing, got %v", err)
	}
}

func TestAddProjectPage_UnknownColumn(t *testing.T) {
	cfg := testConfig()
	delete(cfg.ProjectColumns, "manager")
	service := wiki.NewService(cfg, newFakeStore())

	err := service.AddProjectPage(context.Background(), testRecord(), 99, "WMSE-Free-Knowledge")
	if !errors.Is(err, wiki.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestAddProjectCategories(t *testing.T) {
	store := newFakeStore()
	service := wiki.NewService(testConfig(), store)

	if err := service.AddProjectCategories(context.Background(), "Fri kunskap", "Tillgång"); err != nil {
		t.Fatalf("AddProjectCategories() returned unexpected error: %v", err)
	}
	want := "[[Kategori:Projekt 2019]]\n[[Kategori:Tillgång]]\n"
	if got := store.pages["Kategori:Fri kunskap"]; got != want {
		t.Fatalf("category page text = %q, want %q", got, want)
	}
}

func TestAddProjectCategories_WithoutArea(t *testing.T) {
	store := newFakeStore()
	service := wiki.NewService(testConfig(), store)

	if err := service.AddProjectCategories(context.Background(), "Fri kunskap", ""); err != nil {
		t.Fatalf("AddProjectCategories() returned unexpected error: %v", err)
	}
	want := "[[Kategori:Projekt 2019]]\n"
	if got := store.pages["Kategori:Fri kunskap"]; got != want {
		t.Fatalf("category page text = %q, want %q", got, want)
	}
}

func TestPrograms_MissingOperationalPlan(t *testing.T) {
	service := wiki.NewService(testConfig(), newFakeStore())

	_, err := service.Programs(context.Background())
	if !errors.Is(err, wiki.ErrPageMissing) {
		t.Fatalf("expected ErrPageMissing, got %v", err)
	}
	var missing *wiki.PageMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *PageMissingError, got %T", err)
	}
	if missing.Title != "Verksamhetsplan 2019" {
		t.Fatalf("PageMissingError.Title = %q", missing.Title)
	}
	if !strings.Contains(missing.Error(), "Verksamhetsplan 2019") {
		t.Fatalf("error message does not name the page: %q", missing.Error())
	}
}
