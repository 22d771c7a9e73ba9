package plan_test

import (
	"reflect"
	"testing"

	"github.com/wikimedia-sverige/project-start/plan"
)

func TestMatches(t *testing.T) {
	cases := []struct {
		name     string
		project  string
		strategy string
		want     bool
	}{
		{"middle digits equal strategy prefix", "191002", "1001", true},
		{"different middle digits", "182003", "1001", false},
		{"strategy 3100 contains 183102", "183102", "3100", true},
		{"strategy 3100 contains 193103", "193103", "3100", true},
		{"project number too short", "191", "1001", false},
		{"strategy number too short", "191002", "1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := plan.Matches(tc.project, tc.strategy); got != tc.want {
				t.Fatalf("Matches(%q, %q) = %v, want %v", tc.project, tc.strategy, got, tc.want)
			}
		})
	}
}

func TestAllocate_PartitionsProjects(t *testing.T) {
	strategies := []*plan.Strategy{
		{Number: "1001"},
		{Number: "2001"},
	}
	projects := []string{"191002", "182003", "192001", "199901"}

	unmatched := plan.Allocate(projects, strategies)

	if !reflect.DeepEqual(strategies[0].Projects, []string{"191002"}) {
		t.Fatalf("strategy 1001 projects = %v, want [191002]", strategies[0].Projects)
	}
	if !reflect.DeepEqual(strategies[1].Projects, []string{"182003", "192001"}) {
		t.Fatalf("strategy 2001 projects = %v, want [182003 192001]", strategies[1].Projects)
	}
	if !reflect.DeepEqual(unmatched, []string{"199901"}) {
		t.Fatalf("unmatched = %v, want [199901]", unmatched)
	}

	// Matched and unmatched together cover every input exactly once.
	seen := map[string]int{}
	for _, s := range strategies {
		for _, p := range s.Projects {
			seen[p]++
			if !plan.Matches(p, s.Number) {
				t.Fatalf("project %q assigned to strategy %q it does not match", p, s.Number)
			}
		}
	}
	for _, p := range unmatched {
		seen[p]++
	}
	for _, p := range projects {
		if seen[p] != 1 {
			t.Fatalf("project %q claimed %d times, want exactly once", p, seen[p])
		}
	}
}

func TestAllocate_NeverClaimsTwiceAcrossEqualStrategies(t *testing.T) {
	// Two strategies sharing a code prefix: row order decides the owner.
	strategies := []*plan.Strategy{
		{Number: "1001"},
		{Number: "1002"},
	}

	unmatched := plan.Allocate([]string{"191001"}, strategies)

	if len(unmatched) != 0 {
		t.Fatalf("unmatched = %v, want none", unmatched)
	}
	if !reflect.DeepEqual(strategies[0].Projects, []string{"191001"}) {
		t.Fatalf("first strategy projects = %v, want [191001]", strategies[0].Projects)
	}
	if len(strategies[1].Projects) != 0 {
		t.Fatalf("second strategy projects = %v, want none", strategies[1].Projects)
	}
}
