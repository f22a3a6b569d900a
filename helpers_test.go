package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// monday is the first day of a Monday to Sunday week.
var monday = time.Date(2026, time.October, 12, 0, 0, 0, 0, time.Local)

func idx(value int) *int {
	return &value
}

func newTestSettings(start time.Time, numberDays int) Settings {
	return Settings{
		StartDate: start,
		EndDate:   AddDays(start, numberDays-1),

		WorkdayStartHour: 9,
		WorkdayEndHour:   17,
		LunchStartHour:   12,
		LunchEndHour:     13,
	}
}

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()

	planner, errCr := NewPlanner(&ParamsNewPlanner{})
	require.NoError(t, errCr)
	require.NotNil(t, planner)

	return planner
}

func clock(t *testing.T, value string) int {
	t.Helper()

	minuteOfDay, errParse := ParseClock(value)
	require.NoError(t, errParse)

	return minuteOfDay
}

// requireInvariants checks no overlap, capacity, no split and dependency order.
func requireInvariants(t *testing.T, params *ParamsSchedule, response *ResponseSchedule) {
	t.Helper()

	durations := make(map[string]int, len(params.Tasks))
	for _, task := range params.Tasks {
		durations[task.ID] = task.EstimatedDurationMinutes
	}

	perDay := make(map[int][]Slot)
	usedPerDay := make(map[int]int)
	seen := make(map[string]bool)

	for _, placement := range response.Placements {
		require.False(t, seen[placement.TaskID], "task %s placed twice", placement.TaskID)
		seen[placement.TaskID] = true

		require.Equal(t, durations[placement.TaskID], placement.DurationMinutes)

		start := clock(t, placement.StartTime)
		end := clock(t, placement.EndTime)
		require.Equal(t, placement.DurationMinutes, end-start)

		config := params.Settings.DayConfig(placement.Date)
		require.False(t, config.OverlapsLunch(start, end), "task %s over lunch", placement.TaskID)
		require.GreaterOrEqual(t, start, config.StartMinute)
		require.LessOrEqual(t, end, config.EndMinute)

		perDay[placement.DayIndex] = append(
			perDay[placement.DayIndex],
			Slot{
				StartMinute:    start,
				EndMinute:      end,
				OccupantTaskID: placement.TaskID,
			},
		)
		usedPerDay[placement.DayIndex] = usedPerDay[placement.DayIndex] + placement.DurationMinutes
	}

	for _, busy := range params.BusySlots {
		date, errDate := ParseDate(busy.Date)
		require.NoError(t, errDate)

		dayIndex := DaysBetween(params.StartDate, date) - 1

		perDay[dayIndex] = append(
			perDay[dayIndex],
			Slot{
				StartMinute:    clock(t, busy.StartTime),
				EndMinute:      clock(t, busy.EndTime),
				OccupantTaskID: BusyOccupant,
			},
		)
	}

	for dayIndex, slots := range perDay {
		for i := range slots {
			for j := i + 1; j < len(slots); j++ {
				if slots[i].IsBusy() && slots[j].IsBusy() {
					continue
				}

				require.False(
					t,
					slots[i].Overlaps(slots[j].StartMinute, slots[j].EndMinute),
					"day %d: %v overlaps %v",
					dayIndex,
					slots[i],
					slots[j],
				)
			}
		}

		config := params.Settings.DayConfig(AddDays(params.StartDate, dayIndex))
		require.LessOrEqual(t, usedPerDay[dayIndex], config.DailyCapacityMinutes)
	}

	require.Equal(
		t,
		len(params.Tasks),
		len(response.Placements)+len(response.UnscheduledTaskIDs),
	)

	for _, edge := range response.Dependencies.Edges() {
		dependent := response.PlacementOf(edge.Dependent)
		prerequisite := response.PlacementOf(edge.Prerequisite)

		if dependent == nil || prerequisite == nil {
			continue
		}

		require.LessOrEqual(
			t,
			prerequisite.DayIndex,
			dependent.DayIndex,
			"%s placed before its prerequisite",
			edge.Dependent,
		)
	}

	require.Empty(t, DetectCycles(response.Dependencies))
}
