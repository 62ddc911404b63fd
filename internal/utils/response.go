package utils

import (
	"encoding/json"
	"net/http"
)

// JSON encodes payload to the response with the given status. A nil payload
// writes the status line and headers only.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	// The status line is already out, so an encode failure cannot be
	// reported to the client.
	_ = json.NewEncoder(w).Encode(payload)
}

// JSONError writes {"error": message} with the given status.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
