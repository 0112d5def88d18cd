package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpicList_NormalizeDefaultsStatus(t *testing.T) {
	var list EpicList
	err := json.Unmarshal([]byte(`{"epics":[{"title":"Party Planning","description":"Organize the event","tasks":[{"title":"Book venue","description":"Find a location","priority":"high"}]}]}`), &list)
	require.NoError(t, err)

	list.Normalize()
	require.NoError(t, list.Validate())

	epic := list.Epics[0]
	assert.Equal(t, StatusPending, epic.Status)
	assert.Equal(t, StatusPending, epic.Tasks[0].Status)
	assert.Equal(t, PriorityHigh, epic.Tasks[0].Priority)
}

func TestEpicList_Validate(t *testing.T) {
	tests := []struct {
		name      string
		list      EpicList
		wantField string
	}{
		{
			name:      "empty list",
			list:      EpicList{Epics: []Epic{}},
			wantField: "EpicList.epics",
		},
		{
			name:      "nil list",
			list:      EpicList{},
			wantField: "EpicList.epics",
		},
		{
			name:      "missing epic title",
			list:      EpicList{Epics: []Epic{{Status: StatusPending}}},
			wantField: "EpicList.epics[0].title",
		},
		{
			name: "bad task priority",
			list: EpicList{Epics: []Epic{{
				Title:  "E",
				Status: StatusPending,
				Tasks:  []Task{{Title: "T", Priority: "URGENT", Status: StatusPending}},
			}}},
			wantField: "EpicList.epics[0].tasks[0].priority",
		},
		{
			name:      "bad epic status",
			list:      EpicList{Epics: []Epic{{Title: "E", Status: "Done"}}},
			wantField: "EpicList.epics[0].status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.list.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			var fields []string
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestTaskList_Validate(t *testing.T) {
	list := TaskList{Tasks: []Task{{Title: "Write report", Priority: "low"}}}
	list.Normalize()
	require.NoError(t, list.Validate())
	assert.Equal(t, PriorityLow, list.Tasks[0].Priority)

	empty := TaskList{Tasks: []Task{}}
	assert.Error(t, empty.Validate())
}

func TestTask_IDOmittedOnWire(t *testing.T) {
	b, err := json.Marshal(Task{Title: "T", Priority: PriorityLow, Status: StatusPending})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"id"`)
}
