package output

import "time"

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type EventName string

const (
	EventUpdateStarted  EventName = "update_started"
	EventRepoUpdated    EventName = "repo_updated"
	EventRepoUnclean    EventName = "repo_unclean"
	EventRepoSkipped    EventName = "repo_skipped"
	EventRepoFailed     EventName = "repo_failed"
	EventUpdateFinished EventName = "update_finished"
)

type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Event     EventName      `json:"event"`
	Repo      string         `json:"repo,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}
