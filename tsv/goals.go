package tsv

import (
	"fmt"
	"io"
	"strings"

	"github.com/wikimedia-sverige/project-start/internal/runtimeconfig"
)

// GoalValue is one planned goal value for a project.
type GoalValue struct {
	Name    string
	Planned string
}

// Goals holds the goal matrix read from the spreadsheet: planned values per
// project, in spreadsheet order, and the fulfillment text per goal.
type Goals struct {
	projects     []string
	values       map[string][]GoalValue
	Fulfillments map[string]string
}

// Projects returns the project names in spreadsheet column order. Projects
// without any planned values are left out.
func (g *Goals) Projects() []string {
	return g.projects
}

// Has reports whether the project has planned goal values.
func (g *Goals) Has(project string) bool {
	_, ok := g.values[project]
	return ok
}

// For returns the planned values for a project, in goal row order.
func (g *Goals) For(project string) []GoalValue {
	return g.values[project]
}

// ReadGoals reads the goal matrix from tab separated data. The layout names
// the row holding the project headers, the first column with project data
// and the row where goal data ends. Rows with an empty first field carry no
// goal and are skipped.
func ReadGoals(r io.Reader, layout runtimeconfig.GoalsLayout) (*Goals, error) {
	reader := newReader(r)

	// Column headers from the project row, empties kept to preserve the
	// column index mapping until the end.
	var columns []string
	values := map[string][]GoalValue{}
	fulfillments := map[string]string{}

	for i := 0; ; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tsv: read goal row %d: %w", i, err)
		}
		if i == layout.LastRow {
			break
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}

		name := goalName(row[0])
		if len(row) > 1 && row[1] != "" {
			fulfillments[name] = row[1]
		}

		for j := layout.FirstProjectColumn; j < len(row); j++ {
			switch {
			case i == layout.ProjectRow:
				columns = append(columns, row[j])
			case i > layout.ProjectRow:
				index := j - layout.FirstProjectColumn
				if index >= len(columns) {
					continue
				}
				project := columns[index]
				if project == "" || row[j] == "" {
					continue
				}
				values[project] = setGoal(values[project], name, row[j])
			}
		}
	}

	goals := &Goals{values: values, Fulfillments: fulfillments}
	for _, project := range columns {
		if project != "" && len(values[project]) > 0 {
			goals.projects = append(goals.projects, project)
		}
	}
	for project := range values {
		if len(values[project]) == 0 {
			delete(values, project)
		}
	}
	return goals, nil
}

// goalName extracts the goal name from a description like
// "T.1.1 - Berika projekten med 25 nya resurser".
func goalName(description string) string {
	name, _, _ := strings.Cut(description, " - ")
	return name
}

func setGoal(goals []GoalValue, name, planned string) []GoalValue {
	for i := range goals {
		if goals[i].Name == name {
			goals[i].Planned = planned
			return goals
		}
	}
	return append(goals, GoalValue{Name: name, Planned: planned})
}
