// Package request reads plan requests from YAML documents and renders
// scheduling responses back to YAML or JSON.
package request

import (
	"fmt"
	"io"
	"os"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	scheduler "github.com/TudorHulban/goalscheduler"
)

const layoutCurrentTime = "2006-01-02 15:04"

// Defaults fill the settings a document leaves out.
type Defaults struct {
	WorkdayStart string
	WorkdayEnd   string

	LunchStartHour int
	LunchEndHour   int

	MaxWeekdayMinutes     int
	MaxWeekendMinutes     int
	WeekendAffinityWeight int

	AllowWeekends bool
}

// DefaultDefaults is a 09:00 to 17:00 weekday with lunch from 12 to 13.
func DefaultDefaults() *Defaults {
	return &Defaults{
		WorkdayStart:   "09:00",
		WorkdayEnd:     "17:00",
		LunchStartHour: 12,
		LunchEndHour:   13,
	}
}

type SettingsDocument struct {
	StartDate   string `yaml:"start_date"`
	EndDate     string `yaml:"end_date"`
	CurrentTime string `yaml:"current_time,omitempty"`

	WorkdayStart string `yaml:"workday_start,omitempty"`
	WorkdayEnd   string `yaml:"workday_end,omitempty"`

	LunchStartHour *int `yaml:"lunch_start_hour,omitempty"`
	LunchEndHour   *int `yaml:"lunch_end_hour,omitempty"`

	MaxWeekdayMinutes     *int `yaml:"max_weekday_minutes,omitempty"`
	MaxWeekendMinutes     *int `yaml:"max_weekend_minutes,omitempty"`
	WeekendAffinityWeight *int `yaml:"weekend_affinity_weight,omitempty"`

	AllowWeekends     *bool `yaml:"allow_weekends,omitempty"`
	AnchorToStartDate bool  `yaml:"anchor_to_start_date,omitempty"`
}

// Document is a plan request as written by the surrounding application.
type Document struct {
	Settings SettingsDocument `yaml:"settings"`

	Tasks        []scheduler.Task        `yaml:"tasks"`
	BusySlots    []scheduler.BusySlot    `yaml:"busy_slots,omitempty"`
	Dependencies scheduler.DependencyMap `yaml:"dependencies,omitempty"`
}

func LoadFile(path string, defaults *Defaults) (*scheduler.ParamsSchedule, error) {
	file, errOpen := os.Open(path)
	if errOpen != nil {
		return nil,
			fmt.Errorf("open request: %w", errOpen)
	}
	defer file.Close()

	return Load(file, defaults)
}

func Load(reader io.Reader, defaults *Defaults) (*scheduler.ParamsSchedule, error) {
	var document Document

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	if errDecode := decoder.Decode(&document); errDecode != nil {
		return nil,
			fmt.Errorf("decode request: %w", errDecode)
	}

	return document.ToParams(defaults)
}

func orDefault[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}

	return *value
}

func parseWorkdayClock(name, value string) (int, int, error) {
	minuteOfDay, errParse := scheduler.ParseClock(value)
	if errParse != nil {
		return 0, 0,
			goerrors.ErrInvalidInput{
				Caller:     "ToParams",
				InputName:  name,
				InputValue: value,
				Issue:      errParse,
			}
	}

	return minuteOfDay / 60, minuteOfDay % 60, nil
}

// ToParams converts the document, giving tasks without an ID a random one.
func (d *Document) ToParams(defaults *Defaults) (*scheduler.ParamsSchedule, error) {
	if defaults == nil {
		defaults = DefaultDefaults()
	}

	startDate, errStart := scheduler.ParseDate(d.Settings.StartDate)
	if errStart != nil {
		return nil,
			fmt.Errorf("start_date: %w", errStart)
	}

	endDate, errEnd := scheduler.ParseDate(d.Settings.EndDate)
	if errEnd != nil {
		return nil,
			fmt.Errorf("end_date: %w", errEnd)
	}

	startHour, startMinute, errWorkStart := parseWorkdayClock(
		"workday_start",
		orDefault(nonEmpty(d.Settings.WorkdayStart), defaults.WorkdayStart),
	)
	if errWorkStart != nil {
		return nil,
			errWorkStart
	}

	endHour, endMinute, errWorkEnd := parseWorkdayClock(
		"workday_end",
		orDefault(nonEmpty(d.Settings.WorkdayEnd), defaults.WorkdayEnd),
	)
	if errWorkEnd != nil {
		return nil,
			errWorkEnd
	}

	result := scheduler.ParamsSchedule{
		Settings: scheduler.Settings{
			StartDate: startDate,
			EndDate:   endDate,

			WorkdayStartHour:   startHour,
			WorkdayStartMinute: startMinute,
			WorkdayEndHour:     endHour,
			WorkdayEndMinute:   endMinute,

			LunchStartHour: orDefault(d.Settings.LunchStartHour, defaults.LunchStartHour),
			LunchEndHour:   orDefault(d.Settings.LunchEndHour, defaults.LunchEndHour),

			MaxWeekdayMinutes:     orDefault(d.Settings.MaxWeekdayMinutes, defaults.MaxWeekdayMinutes),
			MaxWeekendMinutes:     orDefault(d.Settings.MaxWeekendMinutes, defaults.MaxWeekendMinutes),
			WeekendAffinityWeight: orDefault(d.Settings.WeekendAffinityWeight, defaults.WeekendAffinityWeight),

			AllowWeekends:     orDefault(d.Settings.AllowWeekends, defaults.AllowWeekends),
			AnchorToStartDate: d.Settings.AnchorToStartDate,
		},

		BusySlots:       d.BusySlots,
		DependencyHints: d.Dependencies,
	}

	if len(d.Settings.CurrentTime) > 0 {
		currentTime, errCurrent := parseCurrentTime(d.Settings.CurrentTime)
		if errCurrent != nil {
			return nil,
				errCurrent
		}

		result.CurrentTime = &currentTime
	}

	result.Tasks = make([]scheduler.Task, len(d.Tasks))
	copy(result.Tasks, d.Tasks)

	for ix := range result.Tasks {
		if len(result.Tasks[ix].ID) == 0 {
			result.Tasks[ix].ID = uuid.NewString()
		}
	}

	return &result, nil
}

func nonEmpty(value string) *string {
	if len(value) == 0 {
		return nil
	}

	return &value
}

// parseCurrentTime accepts RFC 3339 or a local "YYYY-MM-DD HH:MM".
func parseCurrentTime(value string) (time.Time, error) {
	if parsed, errRFC := time.Parse(time.RFC3339, value); errRFC == nil {
		return parsed.In(time.Local), nil
	}

	parsed, errLocal := time.ParseInLocation(layoutCurrentTime, value, time.Local)
	if errLocal != nil {
		return time.Time{},
			goerrors.ErrInvalidInput{
				Caller:     "parseCurrentTime",
				InputName:  "current_time",
				InputValue: value,
				Issue:      errLocal,
			}
	}

	return parsed, nil
}
