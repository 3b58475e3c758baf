package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every response: {success, data?, message?}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, Envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Envelope{Success: true, Message: msg})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Envelope{Success: false, Message: msg})
}
