package tsv_test

import (
	"strings"
	"testing"

	"github.com/wikimedia-sverige/project-start/internal/runtimeconfig"
	"github.com/wikimedia-sverige/project-start/tsv"
)

func layout() runtimeconfig.GoalsLayout {
	return runtimeconfig.GoalsLayout{
		LastRow:            6,
		ProjectRow:         1,
		FirstProjectColumn: 3,
	}
}

const goalMatrix = "Mål\tUppfyllnad\tTotal\tProject A\t\tProject B\n" +
	"T.1.1 - Berika projekten med 25 nya resurser\t25 nya resurser\t25\t10\t\t15\n" +
	"\tskipped row\t0\t99\t\t99\n" +
	"T.1.2 - Nå 100 användare\t100 användare\t100\t\t\t100\n" +
	"G.2.1 - Engagera 50 frivilliga\t50 frivilliga\t50\t50\t\t\n" +
	"X.9.9 - Utanför intervallet\t\t0\t1\t\t1\n"

func TestReadGoals(t *testing.T) {
	// The header row is row 0 here, so the project names sit on row 1 and
	// goal values start on row 2.
	data := "rubrikrad\t\t\t\t\t\n" + goalMatrix

	goals, err := tsv.ReadGoals(strings.NewReader(data), layout())
	if err != nil {
		t.Fatalf("ReadGoals() returned unexpected error: %v", err)
	}

	projects := goals.Projects()
	if len(projects) != 2 || projects[0] != "Project A" || projects[1] != "Project B" {
		t.Fatalf("Projects() = %v, want [Project A, Project B]", projects)
	}

	a := goals.For("Project A")
	if len(a) != 2 {
		t.Fatalf("Project A has %d goal values, want 2: %v", len(a), a)
	}
	if a[0] != (tsv.GoalValue{Name: "T.1.1", Planned: "10"}) {
		t.Fatalf("Project A first goal = %+v", a[0])
	}
	if a[1] != (tsv.GoalValue{Name: "G.2.1", Planned: "50"}) {
		t.Fatalf("Project A second goal = %+v", a[1])
	}

	b := goals.For("Project B")
	if len(b) != 2 || b[1].Name != "T.1.2" || b[1].Planned != "100" {
		t.Fatalf("Project B goals = %v", b)
	}

	if got := goals.Fulfillments["T.1.1"]; got != "25 nya resurser" {
		t.Fatalf("Fulfillments[T.1.1] = %q", got)
	}
	if _, ok := goals.Fulfillments["X.9.9"]; ok {
		t.Fatal("row past the last data row leaked a fulfillment")
	}
}

func TestReadGoals_RowPastLastRowIsIgnored(t *testing.T) {
	data := "rubrikrad\t\t\t\t\t\n" + goalMatrix

	goals, err := tsv.ReadGoals(strings.NewReader(data), layout())
	if err != nil {
		t.Fatalf("ReadGoals() returned unexpected error: %v", err)
	}

	for _, value := range goals.For("Project A") {
		if value.Name == "X.9.9" {
			t.Fatal("goal past the last data row was read")
		}
	}
}

func TestReadGoals_RowsWithEmptyFirstFieldAreSkipped(t *testing.T) {
	data := "rubrikrad\t\t\t\t\t\n" + goalMatrix

	goals, err := tsv.ReadGoals(strings.NewReader(data), layout())
	if err != nil {
		t.Fatalf("ReadGoals() returned unexpected error: %v", err)
	}

	for _, value := range goals.For("Project A") {
		if value.Planned == "99" {
			t.Fatal("skipped row contributed a goal value")
		}
	}
}

func TestReadGoals_ProjectsWithoutValuesAreDropped(t *testing.T) {
	data := "rubrik\t\t\tEmpty Project\n" +
		"namn\t\t\tEmpty Project\n" +
		"T.1.1 - Mål\ttext\t1\t\n"

	goals, err := tsv.ReadGoals(strings.NewReader(data), runtimeconfig.GoalsLayout{
		LastRow:            10,
		ProjectRow:         1,
		FirstProjectColumn: 3,
	})
	if err != nil {
		t.Fatalf("ReadGoals() returned unexpected error: %v", err)
	}
	if goals.Has("Empty Project") {
		t.Fatal("project without planned values was kept")
	}
	if len(goals.Projects()) != 0 {
		t.Fatalf("Projects() = %v, want none", goals.Projects())
	}
}
