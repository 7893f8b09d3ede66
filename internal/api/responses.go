package api

import (
	"encoding/json"
	"net/http"
)

// ErrorMessage is the body of every non-2xx response
type ErrorMessage struct {
	Message string `json:"message"`
}

// StartedResponse is the body returned when a verification run is accepted
type StartedResponse struct {
	RunID string `json:"runID"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorMessage{Message: message})
}
