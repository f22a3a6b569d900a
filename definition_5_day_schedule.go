package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	_NoAvailability = -1

	// _MaxGapScanAttempts bounds the forward scan of one day.
	_MaxGapScanAttempts = 64
)

// daySchedule is the slot book of one calendar day during a run.
type daySchedule struct {
	config DayConfig
	slots  []Slot // sorted by start, pairwise non-overlapping

	usedMinutes int // task work
	busyMinutes int // pre-loaded commitments inside working time

	dayIndex int
}

func newDaySchedule(dayIndex int, config DayConfig) *daySchedule {
	return &daySchedule{
		dayIndex: dayIndex,
		config:   config,
	}
}

func (d *daySchedule) availableCapacity() int {
	return max(0, d.config.DailyCapacityMinutes-d.usedMinutes-d.busyMinutes)
}

// overlaps returns the committed slots intersecting [startMinute, endMinute).
func (d *daySchedule) overlaps(startMinute, endMinute int) []Slot {
	var result []Slot

	for _, slot := range d.slots {
		if slot.StartMinute >= endMinute {
			break
		}

		if slot.Overlaps(startMinute, endMinute) {
			result = append(result, slot)
		}
	}

	return result
}

// addSlot commits a slot, or returns what it would overlap.
func (d *daySchedule) addSlot(slot Slot) ([]Slot, error) {
	if slot.StartMinute >= slot.EndMinute {
		return nil,
			fmt.Errorf(
				"slot start %s not before end %s",
				FormatClock(slot.StartMinute),
				FormatClock(slot.EndMinute),
			)
	}

	if overlaps := d.overlaps(slot.StartMinute, slot.EndMinute); len(overlaps) > 0 {
		return overlaps,
			errors.New("requested time slot is busy")
	}

	position := sort.Search(
		len(d.slots),
		func(i int) bool {
			return d.slots[i].StartMinute >= slot.StartMinute
		},
	)

	d.slots = append(d.slots, Slot{})
	copy(d.slots[position+1:], d.slots[position:])
	d.slots[position] = slot

	if slot.IsBusy() {
		d.busyMinutes = d.busyMinutes + d.config.WorkingMinutes(slot.StartMinute, slot.EndMinute)
	} else {
		d.usedMinutes = d.usedMinutes + slot.Duration()
	}

	return nil, nil
}

// findStart scans forward from fromMinute for the first start fitting duration
// clear of lunch and committed slots, or returns _NoAvailability.
// Each attempt moves to the next free gap.
func (d *daySchedule) findStart(fromMinute, duration int) int {
	start := max(fromMinute, d.config.StartMinute)

	for range _MaxGapScanAttempts {
		end := start + duration

		if end > d.config.EndMinute {
			return _NoAvailability
		}

		if d.config.OverlapsLunch(start, end) {
			start = d.endOfRun(d.config.LunchEndMinute)

			continue
		}

		if overlaps := d.overlaps(start, end); len(overlaps) > 0 {
			for _, blocking := range overlaps {
				start = max(start, blocking.EndMinute)
			}

			start = d.endOfRun(start)

			continue
		}

		return start
	}

	return _NoAvailability
}

// endOfRun returns the first free minute at or after minute,
// skipping the back to back slots covering it.
func (d *daySchedule) endOfRun(minute int) int {
	for _, slot := range d.slots {
		if slot.StartMinute > minute {
			break
		}

		minute = max(minute, slot.EndMinute)
	}

	return minute
}

func (d *daySchedule) String() string {
	if len(d.slots) == 0 {
		return FormatDate(d.config.Date) + ": (empty)"
	}

	var sb strings.Builder

	sb.WriteString(
		fmt.Sprintf(
			"%s (%d/%d min):\n",
			FormatDate(d.config.Date),
			d.usedMinutes,
			d.config.DailyCapacityMinutes,
		),
	)

	for _, slot := range d.slots {
		sb.WriteString(
			fmt.Sprintf(
				"- [%s-%s] → %s\n",

				FormatClock(slot.StartMinute),
				FormatClock(slot.EndMinute),
				slot.OccupantTaskID,
			),
		)
	}

	return sb.String()
}

// mergeSlots folds overlapping or touching slots into one,
// sweeping them in start order.
func mergeSlots(slots []Slot) []Slot {
	if len(slots) == 0 {
		return nil
	}

	sorted := make([]Slot, len(slots))
	copy(sorted, slots)

	sort.Slice(
		sorted,
		func(i, j int) bool {
			return sorted[i].StartMinute < sorted[j].StartMinute
		},
	)

	result := []Slot{sorted[0]}

	for _, slot := range sorted[1:] {
		last := &result[len(result)-1]

		if slot.StartMinute <= last.EndMinute {
			last.EndMinute = max(last.EndMinute, slot.EndMinute)

			continue
		}

		result = append(result, slot)
	}

	return result
}
