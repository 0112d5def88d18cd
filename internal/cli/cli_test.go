package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/BuzzLyutic/taskchat/internal/gateway"
	"github.com/BuzzLyutic/taskchat/internal/model"
)

const partyBody = `{"epics":[{"title":"Party Planning","description":"Organize the event","status":"Pending","tasks":[{"title":"Book venue","description":"Find a location","priority":"HIGH","status":"Pending"}]}]}`

func gatewayStub(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		var req model.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		got = req.Message
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(viper.New())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSend_Text(t *testing.T) {
	srv, got := gatewayStub(t, http.StatusOK, partyBody)

	out, _, err := run(t, "send", "--api-url", srv.URL+"/", "Plan", "a", "birthday", "party")
	require.NoError(t, err)

	assert.Equal(t, "Plan a birthday party", *got)
	assert.Contains(t, out, "Created 1 epic:")
	assert.Contains(t, out, "Book venue (HIGH): Find a location")
}

func TestSend_JSON(t *testing.T) {
	srv, _ := gatewayStub(t, http.StatusOK, partyBody)

	out, _, err := run(t, "send", "--api-url", srv.URL, "-o", "json", "party")
	require.NoError(t, err)

	var res gateway.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Epics, 1)
	assert.NotEmpty(t, res.Epics[0].ID)
	assert.NotEmpty(t, res.Epics[0].Tasks[0].ID)
	assert.Equal(t, model.PriorityHigh, res.Epics[0].Tasks[0].Priority)
}

func TestSend_YAML(t *testing.T) {
	srv, _ := gatewayStub(t, http.StatusOK, `{"tasks":[{"title":"Buy milk","priority":"low"}]}`)

	out, _, err := run(t, "send", "--api-url", srv.URL, "--output", "yaml", "milk")
	require.NoError(t, err)

	var res gateway.Result
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "Buy milk", res.Tasks[0].Title)
	assert.Equal(t, model.PriorityLow, res.Tasks[0].Priority)
	assert.Equal(t, model.StatusPending, res.Tasks[0].Status)
}

func TestSend_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"extraction failed", http.StatusBadGateway, `{"error":"extraction failed","epics":[]}`, "Extraction failed"},
		{"bad request", http.StatusBadRequest, `{"error":"message is required"}`, "Request rejected"},
		{"empty list", http.StatusOK, `{"epics":[]}`, "could not use"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := gatewayStub(t, tt.status, tt.body)

			out, stderr, err := run(t, "send", "--api-url", srv.URL, "hi")
			require.Error(t, err)
			assert.Empty(t, out)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestSend_InvalidOutput(t *testing.T) {
	_, _, err := run(t, "send", "--output", "xml", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestSend_RequiresMessage(t *testing.T) {
	_, _, err := run(t, "send")
	require.Error(t, err)
}

func TestRoot_RequiresTerminal(t *testing.T) {
	_, _, err := run(t)
	assert.ErrorIs(t, err, ErrNotTerminal)
}
