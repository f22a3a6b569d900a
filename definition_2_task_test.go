package scheduler

import (
	"sort"
	"testing"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/stretchr/testify/require"
)

func TestErrorsTask(t *testing.T) {
	tests := []struct {
		name string
		task Task
	}{
		{
			name: "1. empty ID",
			task: Task{Name: "Write", Priority: 1, EstimatedDurationMinutes: 30},
		},
		{
			name: "2. empty name",
			task: Task{ID: "t1", Priority: 1, EstimatedDurationMinutes: 30},
		},
		{
			name: "3. priority zero",
			task: Task{ID: "t1", Name: "Write", EstimatedDurationMinutes: 30},
		},
		{
			name: "4. priority five",
			task: Task{ID: "t1", Name: "Write", Priority: 5, EstimatedDurationMinutes: 30},
		},
		{
			name: "5. duration too short",
			task: Task{ID: "t1", Name: "Write", Priority: 2, EstimatedDurationMinutes: 4},
		},
		{
			name: "6. duration too long",
			task: Task{ID: "t1", Name: "Write", Priority: 2, EstimatedDurationMinutes: 361},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				errValidation := tt.task.IsValid()
				require.Error(t, errValidation)

				var target goerrors.ErrValidation
				require.ErrorAs(t, errValidation, &target)
			},
		)
	}
}

func TestValidTaskBounds(t *testing.T) {
	require.NoError(t, (&Task{ID: "a", Name: "A", Priority: 1, EstimatedDurationMinutes: 5}).IsValid())
	require.NoError(t, (&Task{ID: "b", Name: "B", Priority: 4, EstimatedDurationMinutes: 360}).IsValid())
}

func TestDuplicateTaskID(t *testing.T) {
	errValidation := validateTasks(
		[]Task{
			{ID: "a", Name: "A", Priority: 1, EstimatedDurationMinutes: 30},
			{ID: "a", Name: "B", Priority: 1, EstimatedDurationMinutes: 30},
		},
	)
	require.Error(t, errValidation)
	require.Contains(t, errValidation.Error(), "a")
}

func TestProcessingOrder(t *testing.T) {
	tasks := []*Task{
		{ID: "no-idx-p1", Name: "Zeta", Priority: 1, EstimatedDurationMinutes: 30},
		{ID: "idx-2", Name: "Second", Priority: 4, EstimatedDurationMinutes: 30, Idx: idx(2)},
		{ID: "idx-1", Name: "First", Priority: 3, EstimatedDurationMinutes: 30, Idx: idx(1)},
		{ID: "no-idx-p1-long", Name: "Alpha", Priority: 1, EstimatedDurationMinutes: 90},
		{ID: "no-idx-p2", Name: "Beta", Priority: 2, EstimatedDurationMinutes: 90},
		{ID: "no-idx-p1-long-b", Name: "Beta", Priority: 1, EstimatedDurationMinutes: 90},
	}

	sort.SliceStable(
		tasks,
		func(i, j int) bool {
			return lessTask(tasks[i], tasks[j])
		},
	)

	var ids []string
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}

	require.Equal(
		t,
		[]string{"idx-1", "idx-2", "no-idx-p1-long", "no-idx-p1-long-b", "no-idx-p1", "no-idx-p2"},
		ids,
	)
}
