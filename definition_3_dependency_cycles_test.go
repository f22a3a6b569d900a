package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name         string
		dependencies DependencyMap
		expected     [][]string
	}{
		{
			name: "1. acyclic chain",
			dependencies: DependencyMap{
				"c": {"b"},
				"b": {"a"},
			},
		},
		{
			name: "2. two node cycle",
			dependencies: DependencyMap{
				"a": {"b"},
				"b": {"a"},
			},
			expected: [][]string{{"a", "b"}},
		},
		{
			name: "3. three node cycle",
			dependencies: DependencyMap{
				"a": {"b"},
				"b": {"c"},
				"c": {"a"},
			},
			expected: [][]string{{"a", "b", "c"}},
		},
		{
			name: "4. diamond is not a cycle",
			dependencies: DependencyMap{
				"d": {"b", "c"},
				"b": {"a"},
				"c": {"a"},
			},
		},
		{
			name: "5. two separate cycles",
			dependencies: DependencyMap{
				"a": {"b"},
				"b": {"a"},
				"x": {"y"},
				"y": {"x"},
			},
			expected: [][]string{{"a", "b"}, {"x", "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				require.Equal(t, tt.expected, DetectCycles(tt.dependencies))
			},
		)
	}
}

func TestDefaultEdgeScorer(t *testing.T) {
	setup := &Task{ID: "setup", Name: "Set up repository"}
	test := &Task{ID: "test", Name: "Test API"}
	unknown := &Task{ID: "call", Name: "Call grandma"}

	require.Greater(
		t,
		DefaultEdgeScorer(test, setup),
		DefaultEdgeScorer(setup, test),
	)

	// unknown types only count the topic confidence
	require.Equal(t, 0.5, DefaultEdgeScorer(unknown, &Task{Name: "Call bank"}))
}

func TestUnresolvableCycle(t *testing.T) {
	graph := newDependencyGraph(
		[]Task{
			{ID: "a", Name: "Alpha", Priority: 1, EstimatedDurationMinutes: 30},
			{ID: "b", Name: "Beta", Priority: 1, EstimatedDurationMinutes: 30},
		},
	)

	graph.addEdge("a", "b", edgeSequence)
	graph.addEdge("b", "a", edgeSequence)

	errResolve := graph.resolveCycles(DefaultEdgeScorer, discardLogger())
	require.Error(t, errResolve)

	var target ErrUnresolvableCycle
	require.ErrorAs(t, errResolve, &target)
	require.Equal(t, []string{"a", "b"}, target.Cycle)
	require.Equal(t, "unresolvable dependency cycle: a -> b -> a", target.Error())
}

func TestResolveKeepsSequenceEdges(t *testing.T) {
	graph := newDependencyGraph(
		[]Task{
			{ID: "a", Name: "Final review", Priority: 1, EstimatedDurationMinutes: 30},
			{ID: "b", Name: "Set up tools", Priority: 1, EstimatedDurationMinutes: 30},
		},
	)

	// the hint edge scores best but the sequence edge cannot go
	graph.addEdge("a", "b", edgeHint)
	graph.addEdge("b", "a", edgeSequence)

	require.NoError(t, graph.resolveCycles(DefaultEdgeScorer, discardLogger()))
	require.Equal(
		t,
		DependencyMap{
			"b": {"a"},
		},
		graph.dependencyMap(),
	)
}
