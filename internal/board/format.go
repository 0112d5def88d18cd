package board

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/BuzzLyutic/taskchat/internal/gateway"
	"github.com/BuzzLyutic/taskchat/internal/model"
)

// FormatEpics renders the chat summary for newly added epics.
func FormatEpics(epics []model.Epic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Created %d %s:", len(epics), plural(len(epics), "epic", "epics"))
	for _, e := range epics {
		fmt.Fprintf(&sb, "\n\n%s [%s]", e.Title, e.Status)
		if e.Description != "" {
			fmt.Fprintf(&sb, "\n%s", e.Description)
		}
		for _, t := range e.Tasks {
			sb.WriteString("\n  • ")
			writeTask(&sb, t)
		}
	}
	return sb.String()
}

// FormatTasks renders the chat summary for task-only responses.
func FormatTasks(tasks []model.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Created %d %s:", len(tasks), plural(len(tasks), "task", "tasks"))
	for _, t := range tasks {
		sb.WriteString("\n• ")
		writeTask(&sb, t)
	}
	return sb.String()
}

func writeTask(sb *strings.Builder, t model.Task) {
	fmt.Fprintf(sb, "%s (%s)", t.Title, t.Priority)
	if t.Description != "" {
		fmt.Fprintf(sb, ": %s", t.Description)
	}
}

// FormatError renders a failed send for the transcript.
func FormatError(err error) string {
	var perr *gateway.ParseError
	var gerr *gateway.GatewayError
	switch {
	case errors.As(err, &perr):
		return "The gateway sent a response I could not use: " + perr.Details
	case errors.As(err, &gerr) && gerr.StatusCode == http.StatusBadGateway:
		return "Extraction failed: the model did not produce usable epics. Try rephrasing."
	case errors.As(err, &gerr):
		return "Request rejected: " + gerr.Error()
	default:
		return "Could not reach the gateway: " + err.Error()
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
