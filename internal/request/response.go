package request

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	scheduler "github.com/TudorHulban/goalscheduler"
)

type PlacementDocument struct {
	TaskID string `yaml:"task_id" json:"task_id"`
	Date   string `yaml:"date" json:"date"`

	StartTime string `yaml:"start_time" json:"start_time"`
	EndTime   string `yaml:"end_time" json:"end_time"`

	DayIndex        int `yaml:"day_index" json:"day_index"`
	DurationMinutes int `yaml:"duration_minutes" json:"duration_minutes"`
}

type ResponseDocument struct {
	Placements         []PlacementDocument     `yaml:"placements" json:"placements"`
	UnscheduledTaskIDs []string                `yaml:"unscheduled_task_ids" json:"unscheduled_task_ids"`
	Dependencies       scheduler.DependencyMap `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`

	TotalScheduledMinutes int `yaml:"total_scheduled_minutes" json:"total_scheduled_minutes"`
}

func NewResponseDocument(response *scheduler.ResponseSchedule) *ResponseDocument {
	result := ResponseDocument{
		Placements:            make([]PlacementDocument, 0, len(response.Placements)),
		UnscheduledTaskIDs:    response.UnscheduledTaskIDs,
		Dependencies:          response.Dependencies,
		TotalScheduledMinutes: response.TotalScheduledMinutes,
	}

	if result.UnscheduledTaskIDs == nil {
		result.UnscheduledTaskIDs = []string{}
	}

	for _, placement := range response.Placements {
		result.Placements = append(
			result.Placements,
			PlacementDocument{
				TaskID:          placement.TaskID,
				Date:            scheduler.FormatDate(placement.Date),
				StartTime:       placement.StartTime,
				EndTime:         placement.EndTime,
				DayIndex:        placement.DayIndex,
				DurationMinutes: placement.DurationMinutes,
			},
		)
	}

	return &result
}

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Write renders any document, usually a ResponseDocument or a DependencyMap.
func Write(writer io.Writer, document any, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")

		return encoder.Encode(document)

	case FormatYAML, "":
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(2)

		if errEncode := encoder.Encode(document); errEncode != nil {
			return errEncode
		}

		return encoder.Close()

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
