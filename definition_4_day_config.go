package scheduler

import (
	"errors"
	"fmt"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
)

// Settings are the global scheduling constraints of one run.
type Settings struct {
	StartDate time.Time
	EndDate   time.Time

	// CurrentTime, when set, keeps placements on today out of the past.
	CurrentTime *time.Time

	WorkdayStartHour   int
	WorkdayStartMinute int
	WorkdayEndHour     int
	WorkdayEndMinute   int

	// Lunch is disabled when both hours are zero.
	LunchStartHour int
	LunchEndHour   int

	// Zero means no cap.
	MaxWeekdayMinutes int
	MaxWeekendMinutes int

	// WeekendAffinityWeight is the capacity bonus, in minutes, a day gets
	// when its kind suits the task length. Only used with AllowWeekends.
	WeekendAffinityWeight int

	AllowWeekends bool

	// AnchorToStartDate schedules from the start date even when it is
	// a disallowed weekend or already partly past.
	AnchorToStartDate bool
}

func (s *Settings) workdayStart() int {
	return s.WorkdayStartHour*_MinutesPerHour + s.WorkdayStartMinute
}

func (s *Settings) workdayEnd() int {
	return s.WorkdayEndHour*_MinutesPerHour + s.WorkdayEndMinute
}

func (s *Settings) hasLunch() bool {
	return s.LunchStartHour != 0 || s.LunchEndHour != 0
}

func invalidSetting(name string, value any, issue error) error {
	return goerrors.ErrValidation{
		Caller: "IsValid - Settings",
		Issue: goerrors.ErrInvalidInput{
			Caller:     "Settings",
			InputName:  name,
			InputValue: value,
			Issue:      issue,
		},
	}
}

func (s *Settings) IsValid() error {
	if s.StartDate.IsZero() {
		return goerrors.ErrValidation{
			Caller: "IsValid - Settings",
			Issue: goerrors.ErrNilInput{
				InputName: "StartDate",
			},
		}
	}

	if s.EndDate.IsZero() {
		return goerrors.ErrValidation{
			Caller: "IsValid - Settings",
			Issue: goerrors.ErrNilInput{
				InputName: "EndDate",
			},
		}
	}

	if DaysBetween(s.StartDate, s.EndDate) < 1 {
		return invalidSetting(
			"EndDate",
			FormatDate(s.EndDate),
			fmt.Errorf("end date before start date %s", FormatDate(s.StartDate)),
		)
	}

	hours := []struct {
		name  string
		value int
	}{
		{"WorkdayStartHour", s.WorkdayStartHour},
		{"WorkdayEndHour", s.WorkdayEndHour},
		{"LunchStartHour", s.LunchStartHour},
		{"LunchEndHour", s.LunchEndHour},
	}

	for _, hour := range hours {
		if hour.value < 0 || hour.value > 24 {
			return invalidSetting(
				hour.name,
				hour.value,
				errors.New("hour must be between 0 and 24"),
			)
		}
	}

	for name, minute := range map[string]int{
		"WorkdayStartMinute": s.WorkdayStartMinute,
		"WorkdayEndMinute":   s.WorkdayEndMinute,
	} {
		if minute < 0 || minute >= _MinutesPerHour {
			return invalidSetting(
				name,
				minute,
				errors.New("minute must be between 0 and 59"),
			)
		}
	}

	if s.workdayEnd() > _MinutesPerDay {
		return invalidSetting(
			"WorkdayEndMinute",
			s.WorkdayEndMinute,
			errors.New("workday cannot end after midnight"),
		)
	}

	if s.workdayStart() >= s.workdayEnd() {
		return invalidSetting(
			"WorkdayEndHour",
			s.WorkdayEndHour,
			errors.New("workday start must be before workday end"),
		)
	}

	if s.hasLunch() && s.LunchStartHour >= s.LunchEndHour {
		return invalidSetting(
			"LunchEndHour",
			s.LunchEndHour,
			errors.New("lunch start must be before lunch end"),
		)
	}

	for name, value := range map[string]int{
		"MaxWeekdayMinutes":     s.MaxWeekdayMinutes,
		"MaxWeekendMinutes":     s.MaxWeekendMinutes,
		"WeekendAffinityWeight": s.WeekendAffinityWeight,
	} {
		if value < 0 {
			return goerrors.ErrValidation{
				Caller: "IsValid - Settings",
				Issue: goerrors.ErrNegativeInput{
					InputName: name,
				},
			}
		}
	}

	return nil
}

// DayConfig is the working frame of one calendar day.
type DayConfig struct {
	Date time.Time

	StartMinute      int
	EndMinute        int
	LunchStartMinute int
	LunchEndMinute   int

	DailyCapacityMinutes int

	IsWeekend bool
}

func (c *DayConfig) HasLunch() bool {
	return c.LunchStartMinute < c.LunchEndMinute
}

// OverlapsLunch reports whether [startMinute, endMinute) touches the lunch break.
func (c *DayConfig) OverlapsLunch(startMinute, endMinute int) bool {
	return c.HasLunch() &&
		overlapMinutes(startMinute, endMinute, c.LunchStartMinute, c.LunchEndMinute) > 0
}

// WorkingMinutes counts the minutes of [startMinute, endMinute)
// inside working hours and outside lunch.
func (c *DayConfig) WorkingMinutes(startMinute, endMinute int) int {
	result := overlapMinutes(startMinute, endMinute, c.StartMinute, c.EndMinute)

	if c.HasLunch() {
		result = result - overlapMinutes(
			max(startMinute, c.StartMinute),
			min(endMinute, c.EndMinute),
			c.LunchStartMinute,
			c.LunchEndMinute,
		)
	}

	return max(0, result)
}

// DayConfig derives the working frame of date:
// capacity is the workday span minus lunch, capped by the weekday or weekend maximum.
func (s *Settings) DayConfig(date time.Time) DayConfig {
	result := DayConfig{
		Date:        NormalizeDate(date),
		StartMinute: s.workdayStart(),
		EndMinute:   s.workdayEnd(),
		IsWeekend:   IsWeekend(date),
	}

	if s.hasLunch() {
		result.LunchStartMinute = s.LunchStartHour * _MinutesPerHour
		result.LunchEndMinute = s.LunchEndHour * _MinutesPerHour
	}

	result.DailyCapacityMinutes = result.WorkingMinutes(result.StartMinute, result.EndMinute)

	limit := ternary(result.IsWeekend, s.MaxWeekendMinutes, s.MaxWeekdayMinutes)
	if limit > 0 {
		result.DailyCapacityMinutes = min(result.DailyCapacityMinutes, limit)
	}

	return result
}

// timeline holds every calendar day of the plan and the ones eligible for work.
type timeline struct {
	days []DayConfig

	// active holds calendar day indexes; a task target is a position in it.
	active []int
}

func (t *timeline) activeCount() int {
	return len(t.active)
}

// ordinalOf returns the position of a calendar day index among active days.
func (t *timeline) ordinalOf(dayIndex int) int {
	for ordinal, calendarIndex := range t.active {
		if calendarIndex >= dayIndex {
			return ordinal
		}
	}

	return len(t.active) - 1
}

func (s *Settings) isActive(dayIndex int, config *DayConfig) bool {
	if dayIndex == 0 && s.AnchorToStartDate {
		return true
	}

	if config.IsWeekend && !s.AllowWeekends {
		return false
	}

	if s.CurrentTime != nil && !s.AnchorToStartDate {
		return !config.Date.Before(NormalizeDate(*s.CurrentTime))
	}

	return true
}

func (s *Settings) buildTimeline() (*timeline, error) {
	start := NormalizeDate(s.StartDate)
	numberDays := DaysBetween(start, s.EndDate)

	result := timeline{
		days: make([]DayConfig, numberDays),
	}

	for dayIndex := range numberDays {
		result.days[dayIndex] = s.DayConfig(AddDays(start, dayIndex))

		if !s.isActive(dayIndex, &result.days[dayIndex]) {
			continue
		}

		if result.days[dayIndex].DailyCapacityMinutes <= 0 {
			return nil,
				invalidSetting(
					"DailyCapacityMinutes",
					result.days[dayIndex].DailyCapacityMinutes,
					fmt.Errorf(
						"no working minutes on %s",
						FormatDate(result.days[dayIndex].Date),
					),
				)
		}

		result.active = append(result.active, dayIndex)
	}

	if len(result.active) == 0 {
		return nil,
			invalidSetting(
				"EndDate",
				FormatDate(s.EndDate),
				errors.New("no schedulable day between start and end date"),
			)
	}

	return &result, nil
}
