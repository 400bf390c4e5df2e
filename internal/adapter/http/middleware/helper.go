package middleware

import (
	"encoding/json"
	"net/http"
)

// errorResponse sends a JSON-formatted error body with the given status.
func errorResponse(w http.ResponseWriter, status int, message any) {
	js, err := json.Marshal(map[string]any{"error": message})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}
