package scheduler

import (
	"slices"
	"sort"
)

// maxDeviationByPriority is how far from its target, in active days,
// the search of each priority may widen before falling back.
var maxDeviationByPriority = map[uint8]int{
	1: 2,
	2: 3,
	3: 4,
	4: 5,
}

// maxDeviation caps the priority deviation at 30 % of the active days.
func maxDeviation(priority uint8, activeDays int) int {
	return min(
		maxDeviationByPriority[priority],
		max(1, activeDays*3/10),
	)
}

// placementOrder lists task IDs with every prerequisite before its dependents,
// ready tasks taken in processing order.
func (g *dependencyGraph) placementOrder() []string {
	waiting := make(map[string]int, len(g.ids))
	dependents := make(map[string][]string)

	for dependent, prerequisites := range g.prerequisites {
		waiting[dependent] = len(prerequisites)

		for prerequisite := range prerequisites {
			dependents[prerequisite] = append(dependents[prerequisite], dependent)
		}
	}

	done := make(map[string]bool, len(g.ids))
	result := make([]string, 0, len(g.ids))

	for len(result) < len(g.ids) {
		progressed := false

		// g.ids is sorted, the first ready one wins
		for _, id := range g.ids {
			if done[id] || waiting[id] > 0 {
				continue
			}

			done[id] = true
			result = append(result, id)
			progressed = true

			for _, dependent := range dependents[id] {
				waiting[dependent]--
			}

			break
		}

		if !progressed {
			// only reachable with a cycle, which resolution rules out
			for _, id := range g.ids {
				if !done[id] {
					done[id] = true
					result = append(result, id)
				}
			}
		}
	}

	return result
}

// weekendAffinity is 1 when the day kind suits the task: long tasks on
// weekends, short ones on weekdays. Zero when weekends are not allowed.
func (r *run) weekendAffinity(task *Task, day *daySchedule) int {
	if !r.settings.AllowWeekends {
		return 0
	}

	long := task.EstimatedDurationMinutes >= r.longTaskMinutes

	return ternary(long == day.config.IsWeekend, 1, 0)
}

// candidateDays returns the active day ordinals to try, best first:
// the deviation window around the target, then the fallback days.
// Priorities 1 and 2 may fall back to any day, earlier ones included.
func (r *run) candidateDays(task *Task, minOrdinal int) []int {
	activeDays := r.timeline.activeCount()
	target := r.targets[task.ID]
	targetDay := max(target.Day, minOrdinal)

	if target.Enforced {
		result := make([]int, 0, targetDay-minOrdinal+1)

		for ordinal := targetDay; ordinal >= minOrdinal; ordinal-- {
			result = append(result, ordinal)
		}

		return result
	}

	deviation := maxDeviation(task.Priority, activeDays)

	var window, fallback []int

	for ordinal := minOrdinal; ordinal < activeDays; ordinal++ {
		distance := abs(ordinal - targetDay)

		if distance <= deviation {
			window = append(window, ordinal)

			continue
		}

		// lower priorities never move earlier than their window
		if task.Priority >= 3 && ordinal < targetDay {
			continue
		}

		fallback = append(fallback, ordinal)
	}

	r.rankDays(task, targetDay, window)
	r.rankDays(task, targetDay, fallback)

	return slices.Concat(window, fallback)
}

// _ProximityBucketDays groups distances for priorities 1 and 2,
// days in one bucket compete on capacity.
const _ProximityBucketDays = 2

// rankDays orders ordinals: the target when it fits the whole task, then
// the proximity bucket for priorities 1 and 2, free capacity plus weekend
// affinity, affinity, distance and day.
func (r *run) rankDays(task *Task, targetDay int, ordinals []int) {
	duration := task.EstimatedDurationMinutes
	weight := r.settings.WeekendAffinityWeight

	targetFits := r.days[r.timeline.active[targetDay]].availableCapacity() >= duration

	sort.SliceStable(
		ordinals,
		func(i, j int) bool {
			a, b := ordinals[i], ordinals[j]

			if targetFits && (a == targetDay) != (b == targetDay) {
				return a == targetDay
			}

			distanceA := abs(a - targetDay)
			distanceB := abs(b - targetDay)

			if task.Priority <= 2 {
				bucketA := distanceA / _ProximityBucketDays
				bucketB := distanceB / _ProximityBucketDays

				if bucketA != bucketB {
					return bucketA < bucketB
				}
			}

			dayA := r.days[r.timeline.active[a]]
			dayB := r.days[r.timeline.active[b]]

			affinityA := r.weekendAffinity(task, dayA)
			affinityB := r.weekendAffinity(task, dayB)

			scoreA := dayA.availableCapacity() + weight*affinityA
			scoreB := dayB.availableCapacity() + weight*affinityB

			if scoreA != scoreB {
				return scoreA > scoreB
			}

			if affinityA != affinityB {
				return affinityA > affinityB
			}

			if distanceA != distanceB {
				return distanceA < distanceB
			}

			return a < b
		},
	)
}
