package plan

// Matches reports whether a project belongs to a strategy. Projects are part
// of a strategy when the two middle digits of the project number (characters
// 2-3) equal the first two digits of the strategy number. E.g. strategy 3100
// contains the projects 183102 and 193103.
func Matches(projectNumber, strategyNumber string) bool {
	if len(projectNumber) < 4 || len(strategyNumber) < 2 {
		return false
	}
	return projectNumber[2:4] == strategyNumber[0:2]
}

// Allocate assigns each project to the first strategy it matches, in strategy
// order, appending to each strategy's Projects list. A project is claimed at
// most once. The returned slice holds the projects that matched no strategy,
// in input order.
func Allocate(projects []string, strategies []*Strategy) []string {
	a := newAllocator(projects)
	for _, strategy := range strategies {
		strategy.Projects = append(strategy.Projects, a.claim(strategy.Number)...)
	}
	return a.unclaimed()
}

// allocator tracks the projects not yet assigned to a strategy. Claiming
// removes projects from the candidate set immediately so no two strategies
// can claim the same project within a run.
type allocator struct {
	remaining []string
}

func newAllocator(projects []string) *allocator {
	remaining := make([]string, len(projects))
	copy(remaining, projects)
	return &allocator{remaining: remaining}
}

func (a *allocator) claim(strategyNumber string) []string {
	var claimed []string
	kept := a.remaining[:0]
	for _, project := range a.remaining {
		if Matches(project, strategyNumber) {
			claimed = append(claimed, project)
			continue
		}
		kept = append(kept, project)
	}
	a.remaining = kept
	return claimed
}

func (a *allocator) unclaimed() []string {
	return a.remaining
}
