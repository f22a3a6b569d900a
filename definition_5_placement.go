package scheduler

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
)

const (
	_DefaultLongTaskMinutes = 120

	// _StartGranularityMinutes rounds a start bound by the current time up.
	_StartGranularityMinutes = 5
)

// Planner places tasks into time blocks. It holds no run state
// and can serve concurrent Schedule calls.
type Planner struct {
	logger *slog.Logger
	scorer EdgeScorer

	longTaskMinutes int
}

type ParamsNewPlanner struct {
	Logger *slog.Logger `valid:"-"`

	// Scorer breaks dependency cycles, DefaultEdgeScorer when nil.
	Scorer EdgeScorer `valid:"-"`

	// LongTaskMinutes is where weekend affinity starts, default 120.
	LongTaskMinutes int `valid:"range(0|1440)"`
}

func NewPlanner(params *ParamsNewPlanner) (*Planner, error) {
	if _, errValidation := govalidator.ValidateStruct(params); errValidation != nil {
		return nil,
			goerrors.ErrServiceValidation{
				ServiceName: "Planner",
				Caller:      "NewPlanner",
				Issue:       errValidation,
			}
	}

	result := Planner{
		logger:          params.Logger,
		scorer:          params.Scorer,
		longTaskMinutes: params.LongTaskMinutes,
	}

	if result.logger == nil {
		result.logger = discardLogger()
	}

	if result.scorer == nil {
		result.scorer = DefaultEdgeScorer
	}

	if result.longTaskMinutes == 0 {
		result.longTaskMinutes = _DefaultLongTaskMinutes
	}

	return &result, nil
}

type ParamsSchedule struct {
	Settings

	Tasks     []Task
	BusySlots []BusySlot

	// DependencyHints replace inferred dependencies when not nil.
	DependencyHints DependencyMap
}

// Placement is the committed time block of one task.
type Placement struct {
	TaskID string    `yaml:"task_id" json:"task_id"`
	Date   time.Time `yaml:"date" json:"date"`

	StartTime string `yaml:"start_time" json:"start_time"`
	EndTime   string `yaml:"end_time" json:"end_time"`

	DayIndex        int `yaml:"day_index" json:"day_index"`
	DurationMinutes int `yaml:"duration_minutes" json:"duration_minutes"`
}

type ResponseSchedule struct {
	Placements         []Placement   `yaml:"placements" json:"placements"`
	UnscheduledTaskIDs []string      `yaml:"unscheduled_task_ids" json:"unscheduled_task_ids"`
	Dependencies       DependencyMap `yaml:"dependencies" json:"dependencies"`

	TotalScheduledMinutes int `yaml:"total_scheduled_minutes" json:"total_scheduled_minutes"`
}

// PlacementOf returns the placement of a task, nil when unscheduled.
func (r *ResponseSchedule) PlacementOf(taskID string) *Placement {
	for ix := range r.Placements {
		if r.Placements[ix].TaskID == taskID {
			return &r.Placements[ix]
		}
	}

	return nil
}

func (r ResponseSchedule) String() string {
	placements := slices.Clone(r.Placements)

	slices.SortFunc(
		placements,
		func(a, b Placement) int {
			if a.DayIndex != b.DayIndex {
				return a.DayIndex - b.DayIndex
			}

			return strings.Compare(a.StartTime, b.StartTime)
		},
	)

	var sb strings.Builder

	sb.WriteString(
		fmt.Sprintf("Schedule (%d min):\n", r.TotalScheduledMinutes),
	)

	for _, placement := range placements {
		sb.WriteString(
			fmt.Sprintf(
				"- %s day %d [%s-%s] → %s\n",

				FormatDate(placement.Date),
				placement.DayIndex,
				placement.StartTime,
				placement.EndTime,
				placement.TaskID,
			),
		)
	}

	if len(r.UnscheduledTaskIDs) > 0 {
		sb.WriteString(
			"Unscheduled: " + strings.Join(r.UnscheduledTaskIDs, ", ") + "\n",
		)
	}

	return sb.String()
}

// ErrExtendTimeline means a single-day plan holds more work than the day.
type ErrExtendTimeline struct {
	TotalMinutes    int
	CapacityMinutes int
	MinimumDays     int
}

func (e ErrExtendTimeline) Error() string {
	return fmt.Sprintf(
		"extend timeline: %d minutes of tasks do not fit the %d minutes of a single day, at least %d days needed",
		e.TotalMinutes,
		e.CapacityMinutes,
		e.MinimumDays,
	)
}

func totalDuration(tasks []Task) int {
	var result int

	for ix := range tasks {
		result = result + tasks[ix].EstimatedDurationMinutes
	}

	return result
}

// run is the mutable state of one Schedule call.
type run struct {
	*Planner

	settings *Settings
	timeline *timeline
	graph    *dependencyGraph
	targets  map[string]TargetDay

	days       []*daySchedule
	placements map[string]*Placement
}

// Schedule validates the request, builds the dependency graph, assigns
// target days and places every task it can.
// Tasks that find no room are returned in UnscheduledTaskIDs, not as an error.
func (p *Planner) Schedule(params *ParamsSchedule) (*ResponseSchedule, error) {
	if params == nil {
		return nil,
			goerrors.ErrNilInput{
				InputName: "params",
			}
	}

	if errValidation := params.Settings.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	if errValidation := validateTasks(params.Tasks); errValidation != nil {
		return nil,
			errValidation
	}

	planTimeline, errTimeline := params.Settings.buildTimeline()
	if errTimeline != nil {
		return nil,
			errTimeline
	}

	tasks := slices.Clone(params.Tasks)

	if len(planTimeline.days) == 1 {
		total := totalDuration(tasks)
		capacity := planTimeline.days[0].DailyCapacityMinutes

		if total > capacity {
			return nil,
				ErrExtendTimeline{
					TotalMinutes:    total,
					CapacityMinutes: capacity,
					MinimumDays:     ceilDiv(total, capacity),
				}
		}
	}

	days := make([]*daySchedule, len(planTimeline.days))
	for dayIndex, config := range planTimeline.days {
		days[dayIndex] = newDaySchedule(dayIndex, config)
	}

	if errBusy := preloadBusySlots(planTimeline.days[0].Date, days, params.BusySlots); errBusy != nil {
		return nil,
			errBusy
	}

	graph, errGraph := buildDependencyGraph(
		&paramsBuildGraph{
			Tasks:  tasks,
			Hints:  params.DependencyHints,
			Scorer: p.scorer,
			Logger: p.logger,
		},
	)
	if errGraph != nil {
		return nil,
			errGraph
	}

	dependencies := graph.dependencyMap()

	state := run{
		Planner:  p,
		settings: &params.Settings,
		timeline: planTimeline,
		graph:    graph,
		targets: AssignTargetDays(
			&ParamsAssignTargets{
				Tasks:        tasks,
				Dependencies: dependencies,
				ActiveDays:   planTimeline.activeCount(),
			},
		),
		days:       days,
		placements: make(map[string]*Placement, len(tasks)),
	}

	result := ResponseSchedule{
		Dependencies: dependencies,
	}

	for _, taskID := range graph.placementOrder() {
		placement, scheduled := state.place(graph.tasks[taskID])
		if !scheduled {
			result.UnscheduledTaskIDs = append(result.UnscheduledTaskIDs, taskID)

			p.logger.Info(
				"task unscheduled",
				slog.String("task", taskID),
				slog.Int("duration", graph.tasks[taskID].EstimatedDurationMinutes),
			)

			continue
		}

		result.Placements = append(result.Placements, *placement)
		result.TotalScheduledMinutes = result.TotalScheduledMinutes + placement.DurationMinutes
	}

	traceExit(
		p.logger,
		slog.Int("placed", len(result.Placements)),
		slog.Int("unscheduled", len(result.UnscheduledTaskIDs)),
		slog.Int("minutes", result.TotalScheduledMinutes),
	)

	return &result, nil
}

// place commits the task on the first ranked day with a large enough gap.
func (r *run) place(task *Task) (*Placement, bool) {
	minOrdinal := 0

	for _, prerequisite := range r.graph.prerequisitesOf(task.ID) {
		if placement, placed := r.placements[prerequisite]; placed {
			minOrdinal = max(minOrdinal, r.timeline.ordinalOf(placement.DayIndex))
		}
	}

	for _, ordinal := range r.candidateDays(task, minOrdinal) {
		dayIndex := r.timeline.active[ordinal]
		day := r.days[dayIndex]

		if day.config.IsWeekend && !r.settings.AllowWeekends &&
			!(dayIndex == 0 && r.settings.AnchorToStartDate) {
			continue
		}

		if day.availableCapacity() < task.EstimatedDurationMinutes {
			continue
		}

		start := day.findStart(
			r.earliestStart(day),
			task.EstimatedDurationMinutes,
		)
		if start == _NoAvailability {
			continue
		}

		slot := Slot{
			StartMinute:    start,
			EndMinute:      start + task.EstimatedDurationMinutes,
			OccupantTaskID: task.ID,
		}

		if overlaps, errAdd := day.addSlot(slot); errAdd != nil {
			r.logger.Warn(
				"slot rejected",
				slog.String("task", task.ID),
				slog.Int("overlaps", len(overlaps)),
				slog.Any("error", errAdd),
			)

			continue
		}

		placement := Placement{
			TaskID:          task.ID,
			Date:            day.config.Date,
			DayIndex:        dayIndex,
			StartTime:       FormatClock(slot.StartMinute),
			EndTime:         FormatClock(slot.EndMinute),
			DurationMinutes: task.EstimatedDurationMinutes,
		}

		r.placements[task.ID] = &placement

		r.logger.Debug(
			"task placed",
			slog.String("task", task.ID),
			slog.String("date", FormatDate(placement.Date)),
			slog.String("start", placement.StartTime),
			slog.Int("target", r.targets[task.ID].Day),
		)

		return &placement, true
	}

	return nil, false
}

// earliestStart is the workday start, or on the current date the current time
// rounded up, unless the run is anchored to the start date.
func (r *run) earliestStart(day *daySchedule) int {
	result := day.config.StartMinute

	now := r.settings.CurrentTime
	if now == nil || r.settings.AnchorToStartDate || !IsSameDay(day.config.Date, *now) {
		return result
	}

	current := minuteOfDay(*now)
	if now.Second() > 0 || now.Nanosecond() > 0 {
		current++
	}

	current = ceilDiv(current, _StartGranularityMinutes) * _StartGranularityMinutes

	return max(result, current)
}
