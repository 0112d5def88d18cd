package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode selects which response contract the gateway serves.
type Mode string

const (
	ModeEpics Mode = "epics"
	ModeTasks Mode = "tasks"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeEpics:
		return ModeEpics, nil
	case ModeTasks:
		return ModeTasks, nil
	}
	return "", fmt.Errorf("unknown extraction mode %q (supported: epics, tasks)", s)
}

type ChatRequest struct {
	Message string `json:"message"`
}

// EpicList is the epic-mode response body. The contract requires at least one epic.
type EpicList struct {
	Epics []Epic `json:"epics" yaml:"epics" validate:"required,min=1,dive"`
}

// TaskList is the task-only response body.
type TaskList struct {
	Tasks []Task `json:"tasks" yaml:"tasks" validate:"required,min=1,dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
}

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string
	Message string
	Value   any
}

// ValidationError lists every constraint a value failed.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks v against its validate tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Namespace(),
			Message: describe(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s element(s)", fe.Param())
	case "priority":
		return "must be one of HIGH, MEDIUM, LOW"
	case "status":
		return "must be one of Pending, In Progress, Completed, Archived"
	}
	return fmt.Sprintf("failed %q constraint", fe.Tag())
}

// Normalize canonicalizes enum spelling and defaults missing statuses to
// Pending. Unrecognized values are left for Validate to report.
func (t *Task) Normalize() {
	if p, err := ParsePriority(string(t.Priority)); err == nil {
		t.Priority = p
	}
	if s, err := ParseStatus(string(t.Status)); err == nil {
		t.Status = s
	}
}

func (e *Epic) Normalize() {
	if s, err := ParseStatus(string(e.Status)); err == nil {
		e.Status = s
	}
	for i := range e.Tasks {
		e.Tasks[i].Normalize()
	}
}

func (l *EpicList) Normalize() {
	for i := range l.Epics {
		l.Epics[i].Normalize()
	}
}

func (l *TaskList) Normalize() {
	for i := range l.Tasks {
		l.Tasks[i].Normalize()
	}
}

func (l *EpicList) Validate() error { return Validate(l) }

func (l *TaskList) Validate() error { return Validate(l) }
