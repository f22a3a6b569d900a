package scheduler

import (
	"math"
	"sort"
)

// TargetDay is the preferred position of a task among the active days.
type TargetDay struct {
	Day int

	// Enforced targets are fixed to the last active day and are not widened by the search.
	Enforced bool
}

var phrasesEndOfTimeline = []string{
	"final review", "final check", "polish", "wrap-up", "wrap up",
	"practice", "rehears", "mock interview", "dry run",
	"tech check", "equipment check", "sound check", "test equipment", "pre-event",
	"relax", "mental prep", "rest before",
}

// IsEndOfTimelineTask reports whether a task belongs on the last active day.
func IsEndOfTimelineTask(name string) bool {
	return containsAny(normalizeName(name), phrasesEndOfTimeline)
}

// priorityWindowEnd is the last active day a priority band targets:
// priority 1 the first 40 %, priority 2 the first 70 %, the rest the whole timeline.
func priorityWindowEnd(priority uint8, activeDays int) int {
	switch priority {
	case 1:
		return max(0, ceilDiv(4*activeDays, 10)-1)

	case 2:
		return max(0, ceilDiv(7*activeDays, 10)-1)

	default:
		return activeDays - 1
	}
}

type ParamsAssignTargets struct {
	Tasks        []Task
	Dependencies DependencyMap

	ActiveDays int
}

// AssignTargetDays spreads tasks over their priority window, then raises
// targets until sequence and dependency order hold.
func AssignTargetDays(params *ParamsAssignTargets) map[string]TargetDay {
	result := make(map[string]TargetDay, len(params.Tasks))

	if params.ActiveDays <= 0 {
		return result
	}

	lastDay := params.ActiveDays - 1

	ordered := make([]*Task, len(params.Tasks))
	for ix := range params.Tasks {
		ordered[ix] = &params.Tasks[ix]
	}

	sort.SliceStable(
		ordered,
		func(i, j int) bool {
			return lessTask(ordered[i], ordered[j])
		},
	)

	byPriority := make(map[uint8][]*Task)
	for _, task := range ordered {
		byPriority[task.Priority] = append(byPriority[task.Priority], task)
	}

	for priority, bucket := range byPriority {
		windowEnd := priorityWindowEnd(priority, params.ActiveDays)

		for rank, task := range bucket {
			var day int

			if len(bucket) > 1 {
				day = int(
					math.Round(
						float64(rank) * float64(windowEnd) / float64(len(bucket)-1),
					),
				)
			}

			result[task.ID] = TargetDay{
				Day: min(day, lastDay),
			}
		}
	}

	if params.ActiveDays > 1 {
		for _, task := range ordered {
			if IsEndOfTimelineTask(task.Name) {
				result[task.ID] = TargetDay{
					Day:      lastDay,
					Enforced: true,
				}
			}
		}
	}

	sequenced := make(map[uint8][]*Task)
	for _, task := range ordered {
		if task.HasIdx() {
			sequenced[task.Priority] = append(sequenced[task.Priority], task)
		}
	}

	for _, bucket := range sequenced {
		sort.SliceStable(
			bucket,
			func(i, j int) bool {
				return sequenceLess(bucket[i], bucket[j])
			},
		)
	}

	raise := func(id string, floor int) bool {
		target := result[id]
		if target.Day >= floor {
			return false
		}

		target.Day = min(floor, lastDay)
		result[id] = target

		return true
	}

	// targets only grow and stay below ActiveDays, so this settles
	for changed := true; changed; {
		changed = false

		for _, bucket := range sequenced {
			latest := 0

			for _, task := range bucket {
				changed = raise(task.ID, latest) || changed
				latest = max(latest, result[task.ID].Day)
			}
		}

		for dependent, prerequisites := range params.Dependencies {
			if _, known := result[dependent]; !known {
				continue
			}

			for _, prerequisite := range prerequisites {
				if target, known := result[prerequisite]; known {
					changed = raise(dependent, target.Day) || changed
				}
			}
		}
	}

	return result
}
