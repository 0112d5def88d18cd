package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "HIGH", want: PriorityHigh},
		{in: "medium", want: PriorityMedium},
		{in: " Low ", want: PriorityLow},
		{in: "urgent", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "", want: StatusPending},
		{in: "pending", want: StatusPending},
		{in: "In Progress", want: StatusInProgress},
		{in: "in_progress", want: StatusInProgress},
		{in: "IN-PROGRESS", want: StatusInProgress},
		{in: "completed", want: StatusCompleted},
		{in: "Archived", want: StatusArchived},
		{in: "blocked", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCycling(t *testing.T) {
	assert.Equal(t, PriorityMedium, PriorityHigh.Next())
	assert.Equal(t, PriorityHigh, PriorityLow.Next())
	assert.Equal(t, PriorityHigh, Priority("bogus").Next())

	assert.Equal(t, StatusInProgress, StatusPending.Next())
	assert.Equal(t, StatusPending, StatusArchived.Next())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Tasks")
	require.NoError(t, err)
	assert.Equal(t, ModeTasks, m)

	m, err = ParseMode("epics")
	require.NoError(t, err)
	assert.Equal(t, ModeEpics, m)

	_, err = ParseMode("stories")
	assert.Error(t, err)
}
