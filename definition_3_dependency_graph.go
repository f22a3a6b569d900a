package scheduler

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sort"

	goerrors "github.com/TudorHulban/go-errors"
)

// DependencyMap maps a dependent task ID to the IDs that must be placed
// on the same day or earlier.
type DependencyMap map[string][]string

// Edges returns every dependent/prerequisite pair, sorted.
func (m DependencyMap) Edges() []Edge {
	var result []Edge

	for _, dependent := range slices.Sorted(maps.Keys(m)) {
		prerequisites := slices.Clone(m[dependent])
		slices.Sort(prerequisites)

		for _, prerequisite := range prerequisites {
			result = append(
				result,
				Edge{
					Dependent:    dependent,
					Prerequisite: prerequisite,
				},
			)
		}
	}

	return result
}

type Edge struct {
	Dependent    string
	Prerequisite string
}

func (e Edge) String() string {
	return e.Dependent + " -> " + e.Prerequisite
}

type edgeKind uint8

const (
	edgeSequence edgeKind = iota + 1
	edgeSemantic
	edgeHint
)

type dependencyGraph struct {
	tasks         map[string]*Task
	prerequisites map[string]map[string]edgeKind

	ids []string // processing order of the tasks
}

func newDependencyGraph(tasks []Task) *dependencyGraph {
	graph := dependencyGraph{
		tasks:         make(map[string]*Task, len(tasks)),
		prerequisites: make(map[string]map[string]edgeKind, len(tasks)),
		ids:           make([]string, 0, len(tasks)),
	}

	for ix := range tasks {
		graph.tasks[tasks[ix].ID] = &tasks[ix]
		graph.ids = append(graph.ids, tasks[ix].ID)
	}

	sort.SliceStable(
		graph.ids,
		func(i, j int) bool {
			return lessTask(graph.tasks[graph.ids[i]], graph.tasks[graph.ids[j]])
		},
	)

	return &graph
}

func (g *dependencyGraph) addEdge(dependent, prerequisite string, kind edgeKind) {
	if g.prerequisites[dependent] == nil {
		g.prerequisites[dependent] = make(map[string]edgeKind)
	}

	if _, exists := g.prerequisites[dependent][prerequisite]; exists {
		return
	}

	g.prerequisites[dependent][prerequisite] = kind
}

func (g *dependencyGraph) removeEdge(dependent, prerequisite string) {
	delete(g.prerequisites[dependent], prerequisite)

	if len(g.prerequisites[dependent]) == 0 {
		delete(g.prerequisites, dependent)
	}
}

func (g *dependencyGraph) kindOf(dependent, prerequisite string) (edgeKind, bool) {
	kind, exists := g.prerequisites[dependent][prerequisite]

	return kind, exists
}

func (g *dependencyGraph) prerequisitesOf(id string) []string {
	return slices.Sorted(maps.Keys(g.prerequisites[id]))
}

// dependsOn reports whether from reaches target through prerequisite edges.
func (g *dependencyGraph) dependsOn(from, target string) bool {
	visited := make(map[string]bool)
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for prerequisite := range g.prerequisites[current] {
			if prerequisite == target {
				return true
			}

			if !visited[prerequisite] {
				visited[prerequisite] = true
				queue = append(queue, prerequisite)
			}
		}
	}

	return false
}

func (g *dependencyGraph) dependencyMap() DependencyMap {
	result := make(DependencyMap, len(g.prerequisites))

	for dependent := range g.prerequisites {
		result[dependent] = g.prerequisitesOf(dependent)
	}

	return result
}

func (g *dependencyGraph) countEdges() int {
	var result int

	for _, prerequisites := range g.prerequisites {
		result = result + len(prerequisites)
	}

	return result
}

// addSequenceEdges chains same-priority tasks by ascending idx.
// Equal idx values fall back to name order.
func (g *dependencyGraph) addSequenceEdges() {
	byPriority := make(map[uint8][]*Task)

	for _, id := range g.ids {
		task := g.tasks[id]

		if task.HasIdx() {
			byPriority[task.Priority] = append(byPriority[task.Priority], task)
		}
	}

	for _, bucket := range byPriority {
		sort.SliceStable(
			bucket,
			func(i, j int) bool {
				return sequenceLess(bucket[i], bucket[j])
			},
		)

		for ix := 1; ix < len(bucket); ix++ {
			g.addEdge(bucket[ix].ID, bucket[ix-1].ID, edgeSequence)
		}
	}
}

// sequenceLess orders tasks carrying idx. Equal idx values fall back to name.
func sequenceLess(a, b *Task) bool {
	if *a.Idx != *b.Idx {
		return *a.Idx < *b.Idx
	}

	if a.Name != b.Name {
		return a.Name < b.Name
	}

	return a.ID < b.ID
}

// isForward tells whether producer comes first in the explicit sequence.
// Tasks without idx on either side count as forward.
func isForward(producer, consumer *Task) bool {
	if !producer.HasIdx() || !consumer.HasIdx() {
		return true
	}

	return sequenceLess(producer, consumer)
}

func (g *dependencyGraph) addSemanticEdges(logger *slog.Logger) {
	for _, producerID := range g.ids {
		producer := g.tasks[producerID]

		for _, consumerID := range g.ids {
			if producerID == consumerID {
				continue
			}

			consumer := g.tasks[consumerID]

			for _, rule := range dependencyRules {
				if !rule.Matches(producer.Name, consumer.Name) {
					continue
				}

				forward := isForward(producer, consumer)

				if rule.direction == directionFollowSequence && !forward {
					continue
				}

				confidence := TopicConfidence(producer.Name, consumer.Name)

				if confidence < ternary(forward, _ConfidenceLink, _ConfidenceSharedOnly) {
					continue
				}

				if forbiddenEdge(consumer.Name, producer.Name) {
					continue
				}

				if g.dependsOn(producerID, consumerID) {
					logger.Debug(
						"dependency rejected, would create cycle",
						slog.String("dependent", consumerID),
						slog.String("prerequisite", producerID),
						slog.String("rule", rule.Name),
					)

					continue
				}

				g.addEdge(consumerID, producerID, edgeSemantic)

				break
			}
		}
	}
}

func (g *dependencyGraph) addHints(hints DependencyMap) error {
	for _, dependent := range slices.Sorted(maps.Keys(hints)) {
		if _, exists := g.tasks[dependent]; !exists {
			return goerrors.ErrInvalidInput{
				Caller:     "addHints",
				InputName:  "DependencyHints",
				InputValue: dependent,
				Issue:      fmt.Errorf("unknown dependent task %q", dependent),
			}
		}

		for _, prerequisite := range hints[dependent] {
			if _, exists := g.tasks[prerequisite]; !exists {
				return goerrors.ErrInvalidInput{
					Caller:     "addHints",
					InputName:  "DependencyHints",
					InputValue: prerequisite,
					Issue:      fmt.Errorf("unknown prerequisite task %q", prerequisite),
				}
			}

			if prerequisite == dependent {
				continue
			}

			g.addEdge(dependent, prerequisite, edgeHint)
		}
	}

	return nil
}

// repairForbiddenEdges drops inferred edges running against the natural order of work.
// Explicit sequence edges are kept.
func (g *dependencyGraph) repairForbiddenEdges(logger *slog.Logger) {
	for _, dependent := range slices.Sorted(maps.Keys(g.prerequisites)) {
		for _, prerequisite := range g.prerequisitesOf(dependent) {
			kind, _ := g.kindOf(dependent, prerequisite)
			if kind == edgeSequence {
				continue
			}

			if forbiddenEdge(g.tasks[dependent].Name, g.tasks[prerequisite].Name) {
				logger.Debug(
					"removed forbidden dependency",
					slog.String("dependent", dependent),
					slog.String("prerequisite", prerequisite),
				)

				g.removeEdge(dependent, prerequisite)
			}
		}
	}
}

type paramsBuildGraph struct {
	Tasks  []Task
	Hints  DependencyMap
	Scorer EdgeScorer
	Logger *slog.Logger
}

func buildDependencyGraph(params *paramsBuildGraph) (*dependencyGraph, error) {
	graph := newDependencyGraph(params.Tasks)

	graph.addSequenceEdges()

	if params.Hints != nil {
		if errHints := graph.addHints(params.Hints); errHints != nil {
			return nil,
				goerrors.ErrValidation{
					Caller: "buildDependencyGraph",
					Issue:  errHints,
				}
		}
	} else {
		graph.addSemanticEdges(params.Logger)
	}

	graph.repairForbiddenEdges(params.Logger)

	if errResolve := graph.resolveCycles(params.Scorer, params.Logger); errResolve != nil {
		return nil,
			errResolve
	}

	return graph, nil
}

type ParamsBuildDependencies struct {
	Tasks []Task

	// Hints replace semantic inference when not nil.
	Hints DependencyMap

	// Scorer picks the edge to drop from a cycle, DefaultEdgeScorer when nil.
	Scorer EdgeScorer
	Logger *slog.Logger
}

// BuildDependencyMap validates the tasks and returns their acyclic dependency map.
func BuildDependencyMap(params *ParamsBuildDependencies) (DependencyMap, error) {
	if errValidation := validateTasks(params.Tasks); errValidation != nil {
		return nil,
			errValidation
	}

	scorer := params.Scorer
	if scorer == nil {
		scorer = DefaultEdgeScorer
	}

	graph, errBuild := buildDependencyGraph(
		&paramsBuildGraph{
			Tasks:  slices.Clone(params.Tasks),
			Hints:  params.Hints,
			Scorer: scorer,
			Logger: ternary(params.Logger == nil, discardLogger(), params.Logger),
		},
	)
	if errBuild != nil {
		return nil,
			errBuild
	}

	return graph.dependencyMap(),
		nil
}
