package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		data     any
		wantCode int
		wantBody map[string]any
	}{
		{
			name:     "health",
			code:     http.StatusOK,
			data:     map[string]string{"status": "ok"},
			wantCode: http.StatusOK,
			wantBody: map[string]any{"status": "ok"},
		},
		{
			name:     "epic list",
			code:     http.StatusOK,
			data:     map[string][]map[string]string{"epics": {{"title": "Party Planning"}}},
			wantCode: http.StatusOK,
			wantBody: map[string]any{"epics": []any{map[string]any{"title": "Party Planning"}}},
		},
		{
			name:     "empty object",
			code:     http.StatusAccepted,
			data:     map[string]string{},
			wantCode: http.StatusAccepted,
			wantBody: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			JSON(w, r, tt.code, tt.data)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got map[string]any
			err := json.NewDecoder(w.Body).Decode(&got)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		message  string
		wantCode int
		wantErr  string
	}{
		{
			name:     "bad request",
			code:     http.StatusBadRequest,
			message:  "validation error",
			wantCode: http.StatusBadRequest,
			wantErr:  "validation error",
		},
		{
			name:     "bad gateway",
			code:     http.StatusBadGateway,
			message:  "extraction failed",
			wantCode: http.StatusBadGateway,
			wantErr:  "extraction failed",
		},
		{
			name:     "internal error",
			code:     http.StatusInternalServerError,
			message:  "something went wrong",
			wantCode: http.StatusInternalServerError,
			wantErr:  "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			Error(w, r, tt.code, tt.message)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got map[string]string
			err := json.NewDecoder(w.Body).Decode(&got)
			require.NoError(t, err)
			assert.Equal(t, tt.wantErr, got["error"])
		})
	}
}

func TestErrorWith(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/chat", nil)

	ErrorWith(w, r, http.StatusBadGateway, "extraction failed", map[string]any{
		"epics": []string{},
		"error": "overridden",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "extraction failed", got["error"])
	assert.Equal(t, []any{}, got["epics"])
}
