package model

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusArchived   Status = "Archived"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusArchived}

// Task ID is assigned by the client; the gateway never sets it.
type Task struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title" yaml:"title" validate:"required"`
	Description string   `json:"description" yaml:"description"`
	Priority    Priority `json:"priority" yaml:"priority" validate:"priority"`
	Status      Status   `json:"status,omitempty" yaml:"status" validate:"status"`
}

type Epic struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title" validate:"required"`
	Description string `json:"description" yaml:"description"`
	Tasks       []Task `json:"tasks" yaml:"tasks" validate:"dive"`
	Status      Status `json:"status,omitempty" yaml:"status" validate:"status"`
}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Next cycles HIGH -> MEDIUM -> LOW -> HIGH.
func (p Priority) Next() Priority {
	for i, v := range Priorities {
		if p == v {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityHigh
}

func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, v := range Priorities {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) Next() Status {
	for i, v := range Statuses {
		if s == v {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusPending
}

// ParseStatus accepts any casing plus "in_progress" and "in-progress".
// An empty string yields StatusPending.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusPending, nil
	}
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(s)
	for _, v := range Statuses {
		if strings.EqualFold(norm, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}
