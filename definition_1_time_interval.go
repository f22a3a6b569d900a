package scheduler

// BusyOccupant marks slots pre-loaded from existing calendar commitments.
const BusyOccupant = "__busy__"

// Slot is a minute-of-day range on one calendar date, end exclusive.
type Slot struct {
	OccupantTaskID string

	StartMinute int
	EndMinute   int
}

func (s Slot) Duration() int {
	return s.EndMinute - s.StartMinute
}

func (s Slot) Overlaps(startMinute, endMinute int) bool {
	overlapStart := max(s.StartMinute, startMinute)
	overlapEnd := min(s.EndMinute, endMinute)

	return overlapStart < overlapEnd
}

func (s Slot) IsBusy() bool {
	return s.OccupantTaskID == BusyOccupant
}

func overlapMinutes(startA, endA, startB, endB int) int {
	return max(0, min(endA, endB)-max(startA, startB))
}
