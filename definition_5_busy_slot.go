package scheduler

import (
	"errors"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
)

// BusySlot is an existing commitment the scheduler must work around.
type BusySlot struct {
	Date      string `valid:"required,matches(^[0-9]{4}-[0-9]{2}-[0-9]{2}$)" yaml:"date" json:"date"`
	StartTime string `valid:"required,matches(^[0-9]{2}:[0-9]{2}$)" yaml:"start_time" json:"start_time"`
	EndTime   string `valid:"required,matches(^[0-9]{2}:[0-9]{2}$)" yaml:"end_time" json:"end_time"`
}

type busyInterval struct {
	date time.Time
	Slot
}

func (b *BusySlot) parse() (*busyInterval, error) {
	if _, errValidation := govalidator.ValidateStruct(b); errValidation != nil {
		return nil,
			goerrors.ErrValidation{
				Caller: "parse - BusySlot",
				Issue:  errValidation,
			}
	}

	date, errDate := ParseDate(b.Date)
	if errDate != nil {
		return nil,
			goerrors.ErrValidation{
				Caller: "parse - BusySlot",
				Issue:  errDate,
			}
	}

	start, errStart := ParseClock(b.StartTime)
	if errStart != nil {
		return nil,
			goerrors.ErrValidation{
				Caller: "parse - BusySlot",
				Issue:  errStart,
			}
	}

	end, errEnd := ParseClock(b.EndTime)
	if errEnd != nil {
		return nil,
			goerrors.ErrValidation{
				Caller: "parse - BusySlot",
				Issue:  errEnd,
			}
	}

	if start >= end {
		return nil,
			goerrors.ErrValidation{
				Caller: "parse - BusySlot",
				Issue: goerrors.ErrInvalidInput{
					Caller:     "parse",
					InputName:  "EndTime",
					InputValue: b.EndTime,
					Issue:      errors.New("busy slot must start before it ends"),
				},
			}
	}

	return &busyInterval{
			date: date,
			Slot: Slot{
				StartMinute:    start,
				EndMinute:      end,
				OccupantTaskID: BusyOccupant,
			},
		},
		nil
}

// preloadBusySlots merges busy windows per date and books them.
// Windows outside the plan dates are ignored.
func preloadBusySlots(start time.Time, days []*daySchedule, busySlots []BusySlot) error {
	perDay := make(map[int][]Slot)

	for ix := range busySlots {
		interval, errParse := busySlots[ix].parse()
		if errParse != nil {
			return errParse
		}

		dayIndex := DaysBetween(start, interval.date) - 1
		if dayIndex < 0 || dayIndex >= len(days) {
			continue
		}

		perDay[dayIndex] = append(perDay[dayIndex], interval.Slot)
	}

	for dayIndex, slots := range perDay {
		for _, slot := range mergeSlots(slots) {
			if _, errAdd := days[dayIndex].addSlot(slot); errAdd != nil {
				return errAdd
			}
		}
	}

	return nil
}
