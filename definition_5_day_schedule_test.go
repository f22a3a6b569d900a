package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDay(t *testing.T) *daySchedule {
	t.Helper()

	settings := newTestSettings(monday, 1)

	return newDaySchedule(0, settings.DayConfig(monday))
}

func TestAddSlot(t *testing.T) {
	day := newTestDay(t)

	overlaps, errAdd := day.addSlot(Slot{OccupantTaskID: "b", StartMinute: 600, EndMinute: 660})
	require.NoError(t, errAdd)
	require.Empty(t, overlaps)

	_, errAdd = day.addSlot(Slot{OccupantTaskID: "a", StartMinute: 540, EndMinute: 600})
	require.NoError(t, errAdd)

	require.Equal(t, "a", day.slots[0].OccupantTaskID, "slots kept in start order")
	require.Equal(t, 120, day.usedMinutes)
	require.Equal(t, 300, day.availableCapacity())

	t.Run(
		"1. overlapping slot rejected",
		func(t *testing.T) {
			overlaps, errAdd := day.addSlot(Slot{OccupantTaskID: "c", StartMinute: 630, EndMinute: 700})
			require.Error(t, errAdd)
			require.Len(t, overlaps, 1)
			require.Equal(t, "b", overlaps[0].OccupantTaskID)
		},
	)

	t.Run(
		"2. empty slot rejected",
		func(t *testing.T) {
			_, errAdd := day.addSlot(Slot{OccupantTaskID: "d", StartMinute: 700, EndMinute: 700})
			require.Error(t, errAdd)
		},
	)

	t.Run(
		"3. busy slot counts working minutes only",
		func(t *testing.T) {
			_, errAdd := day.addSlot(Slot{OccupantTaskID: BusyOccupant, StartMinute: 690, EndMinute: 810})
			require.NoError(t, errAdd)
			require.Equal(t, 60, day.busyMinutes)
			require.Equal(t, 240, day.availableCapacity())
		},
	)

	require.Contains(t, day.String(), "[09:00-10:00] → a")
}

func TestFindStart(t *testing.T) {
	day := newTestDay(t)

	_, errAdd := day.addSlot(Slot{OccupantTaskID: "a", StartMinute: 540, EndMinute: 600})
	require.NoError(t, errAdd)

	tests := []struct {
		name     string
		from     int
		duration int
		expected int
	}{
		{"1. after committed slot", 540, 60, 600},
		{"2. jumps over lunch", 540, 150, 780},
		{"3. from later bound", 15 * 60, 60, 15 * 60},
		{"4. does not fit before end", 16 * 60, 90, _NoAvailability},
		{"5. before workday start", 0, 30, 600},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				require.Equal(t, tt.expected, day.findStart(tt.from, tt.duration))
			},
		)
	}
}

func TestMergeSlots(t *testing.T) {
	require.Nil(t, mergeSlots(nil))

	require.Equal(
		t,
		[]Slot{
			{OccupantTaskID: BusyOccupant, StartMinute: 540, EndMinute: 660},
			{OccupantTaskID: BusyOccupant, StartMinute: 700, EndMinute: 720},
		},
		mergeSlots(
			[]Slot{
				{OccupantTaskID: BusyOccupant, StartMinute: 700, EndMinute: 720},
				{OccupantTaskID: BusyOccupant, StartMinute: 600, EndMinute: 660},
				{OccupantTaskID: BusyOccupant, StartMinute: 540, EndMinute: 600},
				{OccupantTaskID: BusyOccupant, StartMinute: 550, EndMinute: 580},
			},
		),
	)
}

func TestSlot(t *testing.T) {
	slot := Slot{StartMinute: 600, EndMinute: 660}

	require.Equal(t, 60, slot.Duration())
	require.True(t, slot.Overlaps(659, 700))
	require.False(t, slot.Overlaps(660, 700))
	require.False(t, slot.Overlaps(500, 600))
	require.False(t, slot.IsBusy())
	require.Equal(t, 30, overlapMinutes(600, 660, 630, 700))
	require.Zero(t, overlapMinutes(600, 660, 700, 800))
}

func TestFindStartAfterContiguousSlots(t *testing.T) {
	day := newTestDay(t)

	// 09:00 to 11:30 fully booked in 5 minute slots, lunch at 12:00
	for start := 540; start < 690; start = start + 5 {
		_, errAdd := day.addSlot(Slot{OccupantTaskID: FormatClock(start), StartMinute: start, EndMinute: start + 5})
		require.NoError(t, errAdd)
	}

	require.Len(t, day.slots, 30)

	// booked back to back after lunch as well
	for start := 780; start < 960; start = start + 5 {
		_, errAdd := day.addSlot(Slot{OccupantTaskID: FormatClock(start), StartMinute: start, EndMinute: start + 5})
		require.NoError(t, errAdd)
	}

	require.Greater(t, len(day.slots), _MaxGapScanAttempts)

	tests := []struct {
		name     string
		from     int
		duration int
		expected int
	}{
		{"1. gap before lunch", 540, 30, 690},
		{"2. gap after the afternoon run", 540, 45, 960},
		{"3. from inside the afternoon run", 800, 15, 960},
		{"4. no gap long enough", 540, 61, _NoAvailability},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				require.Equal(t, tt.expected, day.findStart(tt.from, tt.duration))
			},
		)
	}
}
