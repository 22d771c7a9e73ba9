// Package plan reconstructs the operational plan hierarchy from wikitext.
//
// The source is a loosely formatted wiki table where program and strategy
// cells span multiple rows and the machine-readable identifiers are embedded
// as HTML comments trailing the human-readable cell text. An instance of
// such a table can be found on:
// https://se.wikimedia.org/w/index.php?title=Verksamhetsplan_2019/Tabell_%C3%B6ver_program,_strategi_och_m%C3%A5l&oldid=75471
package plan

import (
	"regexp"
	"strings"
)

// Program is a top-level grouping of strategies in the operational plan.
type Program struct {
	Number     string
	Name       string
	Strategies []*Strategy
}

// Strategy is a mid-level grouping of goals and projects under a program,
// identified by a 4-digit code.
type Strategy struct {
	Number           string
	Description      string
	ShortDescription string
	Projects         []string
	Goals            []string
}

// Plan is the parsed operational plan together with the projects that could
// not be matched to any strategy. Unmatched projects are reported, never
// silently dropped.
type Plan struct {
	Programs  []*Program
	Unmatched []string
}

var (
	// Cosmetic artifacts irrelevant to the data: ref tags and the link
	// halves of [[target|label]] wiki links.
	cosmeticsPattern = regexp.MustCompile(`(?s)(<ref.*?>.*?</ref>|\[\[.*?\||\]\])`)
	// Cells are separated by "||" on shared lines or a "|" at line start.
	cellSeparatorPattern = regexp.MustCompile(`[|\n]\|`)
	programPattern       = regexp.MustCompile(`^(.*)\s+<!--\s*(.*)\s*-->`)
	strategyPattern      = regexp.MustCompile(`^(.*)\s*<!--\s*(\d+)\s*(.*?)\s*-->`)
)

// FirstTable extracts the first wikitext table from a page, honouring nested
// table markers. Returns ErrNoTable when the page holds no complete table.
func FirstTable(pageText string) (string, error) {
	start := strings.Index(pageText, "{|")
	if start < 0 {
		return "", ErrNoTable
	}
	depth := 0
	for i := start; i+1 < len(pageText); {
		switch pageText[i : i+2] {
		case "{|":
			depth++
			i += 2
		case "|}":
			depth--
			i += 2
			if depth == 0 {
				return pageText[start:i], nil
			}
		default:
			i++
		}
	}
	return "", ErrNoTable
}

// ParseTable scans the table text top to bottom and rebuilds the
// program/strategy/goal hierarchy, assigning each known project to the
// strategy that matches its number.
//
// A row supplying three non-empty cells opens a new program; a row supplying
// at least two opens a new strategy under the current program; the rightmost
// cell of every row holds one goal appended to the current strategy. Rows
// where the program and strategy cells are blank therefore extend the
// current strategy, which is how the table emulates row-spanning cells.
//
// Projects are claimed in row order so allocation is deterministic; the
// known project numbers should be passed in a stable order.
func ParseTable(table string, projects []string) (*Plan, error) {
	cleaned := cosmeticsPattern.ReplaceAllString(table, "")
	// Discard the table terminator up front so the final data row does not
	// pick up a stray "}" cell.
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "|}")
	claims := newAllocator(projects)

	var programs []*Program
	var currentProgram *Program
	var currentStrategy *Strategy

	rows := strings.Split(cleaned, "|-")
	if len(rows) < 2 {
		return nil, &MalformedRowError{Row: table, Reason: "table has no rows"}
	}
	// The first chunk holds the table opening and headers.
	for _, row := range rows[1:] {
		if strings.TrimSpace(strings.TrimRight(row, "|}")) == "" {
			// Closing table row.
			continue
		}
		cells := splitCells(row)
		if len(cells) == 0 {
			return nil, &MalformedRowError{Row: row, Reason: "row has no cells"}
		}
		if len(cells) == 3 {
			match := programPattern.FindStringSubmatch(cells[0])
			if match == nil {
				return nil, &MalformedRowError{Row: row, Reason: "program cell has no number annotation"}
			}
			currentProgram = &Program{
				Number: strings.TrimSpace(match[2]),
				Name:   strings.TrimSpace(match[1]),
			}
			programs = append(programs, currentProgram)
			currentStrategy = nil
		}
		if len(cells) >= 2 {
			if currentProgram == nil {
				return nil, &MalformedRowError{Row: row, Reason: "strategy row before any program row"}
			}
			// The strategy is always in the cell second from the right.
			match := strategyPattern.FindStringSubmatch(cells[len(cells)-2])
			if match == nil {
				return nil, &MalformedRowError{Row: row, Reason: "strategy cell has no number annotation"}
			}
			currentStrategy = &Strategy{
				Number:           match[2],
				Description:      strings.TrimSpace(match[1]),
				ShortDescription: strings.TrimSpace(match[3]),
			}
			currentStrategy.Projects = claims.claim(currentStrategy.Number)
			currentProgram.Strategies = append(currentProgram.Strategies, currentStrategy)
		}
		if currentStrategy == nil {
			return nil, &MalformedRowError{Row: row, Reason: "goal row before any strategy row"}
		}
		// The rightmost cell always contains a goal.
		currentStrategy.Goals = append(currentStrategy.Goals, cells[len(cells)-1])
	}

	return &Plan{Programs: programs, Unmatched: claims.unclaimed()}, nil
}

// splitCells breaks a table row into trimmed cell texts, dropping empty
// cells and any per-cell formatting prefix ("style=... |").
func splitCells(row string) []string {
	var cells []string
	for _, part := range cellSeparatorPattern.Split(row, -1) {
		segments := strings.Split(part, "|")
		cell := strings.TrimSpace(segments[len(segments)-1])
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}
