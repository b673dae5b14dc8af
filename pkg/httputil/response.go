// Package httputil provides shared HTTP helpers for the MCP endpoint and the
// REST front end: JSON responses and request logging.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/api/types"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error body of the form {"error": code, "message": msg}.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, types.ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteBadRequest writes a 400 Bad Request error response.
func WriteBadRequest(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusBadRequest, errCode, message)
}

// WriteNotFound writes a 404 Not Found error response.
func WriteNotFound(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusNotFound, errCode, message)
}
