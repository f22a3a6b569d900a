package scheduler

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// EdgeScorer rates a dependency edge; inside a cycle the lowest score is removed.
type EdgeScorer func(dependent, prerequisite *Task) float64

// DefaultEdgeScorer prefers edges that follow the setup, learn, practice,
// build, test, final progression and that link tasks sharing a topic.
// It is a greedy heuristic, not a minimum feedback arc set.
func DefaultEdgeScorer(dependent, prerequisite *Task) float64 {
	typeDependent := ClassifyTaskType(dependent.Name)
	typePrerequisite := ClassifyTaskType(prerequisite.Name)

	var hierarchy float64

	if typeDependent != TaskTypeUnknown && typePrerequisite != TaskTypeUnknown {
		hierarchy = float64(typeDependent) - float64(typePrerequisite)
	}

	return hierarchy + TopicConfidence(dependent.Name, prerequisite.Name)
}

// ErrUnresolvableCycle means the dependency constraints cannot be satisfied.
type ErrUnresolvableCycle struct {
	Cycle []string
}

func (e ErrUnresolvableCycle) Error() string {
	if len(e.Cycle) == 0 {
		return "unresolvable dependency cycle"
	}

	return "unresolvable dependency cycle: " +
		strings.Join(append(slices.Clone(e.Cycle), e.Cycle[0]), " -> ")
}

// detectCycles walks prerequisite edges depth first, white / gray / black,
// and returns one cycle per back edge found.
// In a returned cycle every element depends on the next one and the last on the first.
func detectCycles(ids []string, next func(id string) []string) [][]string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(ids))
	position := make(map[string]int, len(ids))

	var stack []string
	var cycles [][]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		position[node] = len(stack)
		stack = append(stack, node)

		for _, prerequisite := range next(node) {
			switch color[prerequisite] {
			case gray:
				cycles = append(
					cycles,
					slices.Clone(stack[position[prerequisite]:]),
				)

			case white:
				dfs(prerequisite)
			}
		}

		stack = stack[:len(stack)-1]
		color[node] = black
	}

	for _, id := range ids {
		if color[id] == white {
			dfs(id)
		}
	}

	return cycles
}

// DetectCycles lists the cycles left in a dependency map, nil when acyclic.
func DetectCycles(dependencies DependencyMap) [][]string {
	nodes := make(map[string]bool)

	for dependent, prerequisites := range dependencies {
		nodes[dependent] = true

		for _, prerequisite := range prerequisites {
			nodes[prerequisite] = true
		}
	}

	return detectCycles(
		slices.Sorted(maps.Keys(nodes)),
		func(id string) []string {
			prerequisites := slices.Clone(dependencies[id])
			slices.Sort(prerequisites)

			return prerequisites
		},
	)
}

func (g *dependencyGraph) detectCycles() [][]string {
	return detectCycles(g.ids, g.prerequisitesOf)
}

// weakestEdge picks the removable edge of a cycle with the lowest score.
// Sequence edges are explicit and never removed.
// Reports false when the cycle is already broken or holds no removable edge.
func (g *dependencyGraph) weakestEdge(cycle []string, scorer EdgeScorer) (Edge, bool, bool) {
	var weakest Edge
	var weakestScore float64
	var found bool

	for ix, dependent := range cycle {
		prerequisite := cycle[(ix+1)%len(cycle)]

		kind, exists := g.kindOf(dependent, prerequisite)
		if !exists {
			return Edge{}, false, true
		}

		if kind == edgeSequence {
			continue
		}

		score := scorer(g.tasks[dependent], g.tasks[prerequisite])

		if !found || score < weakestScore {
			weakest = Edge{
				Dependent:    dependent,
				Prerequisite: prerequisite,
			}
			weakestScore = score
			found = true
		}
	}

	return weakest, found, false
}

// resolveCycles removes the weakest edge of every cycle until none is left.
func (g *dependencyGraph) resolveCycles(scorer EdgeScorer, logger *slog.Logger) error {
	maxRounds := g.countEdges() + 1

	for range maxRounds {
		cycles := g.detectCycles()
		if len(cycles) == 0 {
			return nil
		}

		for _, cycle := range cycles {
			edge, found, broken := g.weakestEdge(cycle, scorer)
			if broken {
				continue
			}

			if !found {
				return ErrUnresolvableCycle{
					Cycle: cycle,
				}
			}

			logger.Debug(
				"dependency cycle broken",
				slog.Any("cycle", cycle),
				slog.String("removed", edge.String()),
			)

			g.removeEdge(edge.Dependent, edge.Prerequisite)
		}
	}

	if cycles := g.detectCycles(); len(cycles) > 0 {
		return ErrUnresolvableCycle{
			Cycle: cycles[0],
		}
	}

	return nil
}
