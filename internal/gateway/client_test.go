package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskchat/internal/model"
)

const partyBody = `{"epics":[{"title":"Party Planning","description":"Organize the event","status":"Pending","tasks":[{"title":"Book venue","description":"Find a location","priority":"HIGH","status":"Pending"}]}]}`

func newGateway(t *testing.T, code int, body string, gotMessage *string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, _ := io.ReadAll(r.Body)
		var req model.ChatRequest
		_ = json.Unmarshal(raw, &req)
		if gotMessage != nil {
			*gotMessage = req.Message
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", server.Client())
}

func TestClient_Chat(t *testing.T) {
	var sent string
	c := newGateway(t, http.StatusOK, partyBody, &sent)

	res, err := c.Chat(context.Background(), "Plan a birthday party")
	require.NoError(t, err)

	assert.Equal(t, "Plan a birthday party", sent)
	require.Len(t, res.Epics, 1)
	assert.Equal(t, "Party Planning", res.Epics[0].Title)
	assert.Equal(t, model.PriorityHigh, res.Epics[0].Tasks[0].Priority)
	assert.Nil(t, res.Tasks)
}

func TestClient_Chat_GatewayError(t *testing.T) {
	c := newGateway(t, http.StatusBadGateway, `{"error":"extraction failed","epics":[]}`, nil)

	_, err := c.Chat(context.Background(), "hello")

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusBadGateway, gerr.StatusCode)
	assert.Equal(t, "extraction failed", gerr.Message)
}

func TestClient_Chat_TransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)

	_, err := c.Chat(context.Background(), "hello")
	require.Error(t, err)
	assert.NotErrorAs(t, err, new(*ParseError))
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantEpics int
		wantTasks int
		wantErr   bool
	}{
		{name: "epics", body: partyBody, wantEpics: 1},
		{name: "tasks", body: `{"tasks":[{"title":"Buy milk","description":"2l","priority":"LOW"}]}`, wantTasks: 1},
		{name: "status defaults", body: `{"epics":[{"title":"E","description":"d","tasks":[]}]}`, wantEpics: 1},
		{name: "empty epics is out of contract", body: `{"epics":[]}`, wantErr: true},
		{name: "empty tasks is out of contract", body: `{"tasks":[]}`, wantErr: true},
		{name: "bad priority", body: `{"tasks":[{"title":"T","description":"d","priority":"URGENT"}]}`, wantErr: true},
		{name: "wrong types", body: `{"epics":"nope"}`, wantErr: true},
		{name: "neither key", body: `{"items":[]}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseResponse([]byte(tt.body))
			if tt.wantErr {
				var perr *ParseError
				assert.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, res.Epics, tt.wantEpics)
			assert.Len(t, res.Tasks, tt.wantTasks)
			for _, e := range res.Epics {
				assert.Equal(t, model.StatusPending, e.Status)
			}
		})
	}
}
