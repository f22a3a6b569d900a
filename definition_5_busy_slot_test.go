package scheduler

import (
	"testing"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/stretchr/testify/require"
)

func TestErrorsBusySlot(t *testing.T) {
	tests := []struct {
		name string
		slot BusySlot
	}{
		{
			name: "1. missing date",
			slot: BusySlot{StartTime: "10:00", EndTime: "11:00"},
		},
		{
			name: "2. malformed date",
			slot: BusySlot{Date: "12/10/2026", StartTime: "10:00", EndTime: "11:00"},
		},
		{
			name: "3. malformed clock",
			slot: BusySlot{Date: "2026-10-12", StartTime: "10am", EndTime: "11:00"},
		},
		{
			name: "4. clock out of range",
			slot: BusySlot{Date: "2026-10-12", StartTime: "10:00", EndTime: "25:00"},
		},
		{
			name: "5. ends before it starts",
			slot: BusySlot{Date: "2026-10-12", StartTime: "11:00", EndTime: "10:00"},
		},
		{
			name: "6. impossible date",
			slot: BusySlot{Date: "2026-02-30", StartTime: "10:00", EndTime: "11:00"},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				interval, errParse := tt.slot.parse()
				require.Error(t, errParse)
				require.Nil(t, interval)

				var target goerrors.ErrValidation
				require.ErrorAs(t, errParse, &target)
			},
		)
	}
}

func TestPreloadBusySlots(t *testing.T) {
	settings := newTestSettings(monday, 2)

	days := []*daySchedule{
		newDaySchedule(0, settings.DayConfig(monday)),
		newDaySchedule(1, settings.DayConfig(AddDays(monday, 1))),
	}

	require.NoError(
		t,
		preloadBusySlots(
			monday,
			days,
			[]BusySlot{
				{Date: "2026-10-12", StartTime: "10:00", EndTime: "11:00"},
				{Date: "2026-10-12", StartTime: "10:30", EndTime: "11:30"},
				{Date: "2026-10-13", StartTime: "08:00", EndTime: "09:30"},
				{Date: "2026-10-20", StartTime: "10:00", EndTime: "11:00"},
			},
		),
	)

	require.Equal(
		t,
		[]Slot{
			{OccupantTaskID: BusyOccupant, StartMinute: 600, EndMinute: 690},
		},
		days[0].slots,
	)
	require.Equal(t, 90, days[0].busyMinutes)

	require.Len(t, days[1].slots, 1)
	require.Equal(t, 30, days[1].busyMinutes, "minutes before the workday are free")
}
