package scheduler

import (
	"fmt"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
)

const (
	MinTaskDurationMinutes = 5
	MaxTaskDurationMinutes = 360

	MinPriority = 1
	MaxPriority = 4
)

type Task struct {
	ID   string `valid:"required" yaml:"id" json:"id"`
	Name string `valid:"required" yaml:"name" json:"name"`

	// Idx is the optional total-order hint of the upstream generator.
	Idx *int `yaml:"idx,omitempty" json:"idx,omitempty"`

	EstimatedDurationMinutes int   `yaml:"estimated_duration_minutes" json:"estimated_duration_minutes"`
	Priority                 uint8 `yaml:"priority" json:"priority"`
}

func (t *Task) HasIdx() bool {
	return t.Idx != nil
}

func (t *Task) IsValid() error {
	if _, errValidation := govalidator.ValidateStruct(t); errValidation != nil {
		return goerrors.ErrValidation{
			Caller: "IsValid - Task " + t.ID,
			Issue:  errValidation,
		}
	}

	if t.Priority < MinPriority || t.Priority > MaxPriority {
		return goerrors.ErrValidation{
			Caller: "IsValid - Task " + t.ID,
			Issue: goerrors.ErrInvalidInput{
				Caller:     t.Name,
				InputName:  "Priority",
				InputValue: t.Priority,
				Issue: fmt.Errorf(
					"priority must be between %d and %d",
					MinPriority,
					MaxPriority,
				),
			},
		}
	}

	if t.EstimatedDurationMinutes < MinTaskDurationMinutes ||
		t.EstimatedDurationMinutes > MaxTaskDurationMinutes {
		return goerrors.ErrValidation{
			Caller: "IsValid - Task " + t.ID,
			Issue: goerrors.ErrInvalidInput{
				Caller:     t.Name,
				InputName:  "EstimatedDurationMinutes",
				InputValue: t.EstimatedDurationMinutes,
				Issue: fmt.Errorf(
					"duration must be between %d and %d minutes",
					MinTaskDurationMinutes,
					MaxTaskDurationMinutes,
				),
			},
		}
	}

	return nil
}

func validateTasks(tasks []Task) error {
	seen := make(map[string]bool, len(tasks))

	for ix := range tasks {
		if errValidation := tasks[ix].IsValid(); errValidation != nil {
			return errValidation
		}

		if seen[tasks[ix].ID] {
			return goerrors.ErrValidation{
				Caller: "validateTasks",
				Issue: goerrors.ErrInvalidInput{
					Caller:     "validateTasks",
					InputName:  "ID",
					InputValue: tasks[ix].ID,
					Issue:      fmt.Errorf("duplicate task ID %q", tasks[ix].ID),
				},
			}
		}

		seen[tasks[ix].ID] = true
	}

	return nil
}

// lessTask is the processing order: tasks carrying idx first by ascending idx,
// then priority ascending, duration descending, name ascending.
func lessTask(a, b *Task) bool {
	if a.HasIdx() != b.HasIdx() {
		return a.HasIdx()
	}

	if a.HasIdx() && *a.Idx != *b.Idx {
		return *a.Idx < *b.Idx
	}

	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}

	if a.EstimatedDurationMinutes != b.EstimatedDurationMinutes {
		return a.EstimatedDurationMinutes > b.EstimatedDurationMinutes
	}

	if a.Name != b.Name {
		return a.Name < b.Name
	}

	return a.ID < b.ID
}
