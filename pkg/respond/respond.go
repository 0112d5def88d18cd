package respond

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, r *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	ErrorWith(w, r, code, message, nil)
}

// ErrorWith writes {"error": message} merged with extra fields, so failure
// bodies can still carry the keys a client expects on success.
func ErrorWith(w http.ResponseWriter, r *http.Request, code int, message string, extra map[string]any) {
	body := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		body[k] = v
	}
	body["error"] = message
	JSON(w, r, code, body)
}
