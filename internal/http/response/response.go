package response

import (
	"encoding/json"
	"net/http"
)

// Error codes on the wire. Clients match on these, not on messages.
const (
	CodeNotFound        = "not_found"
	CodeBadRequest      = "bad_request"
	CodeUnauthorized    = "unauthorized"
	CodeDatabaseError   = "database_error"
	CodeTooManyRequests = "too_many_requests"
	CodeInternal        = "internal_error"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: code, Message: message})
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, CodeNotFound, message)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, CodeBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// DatabaseError hides storage detail from the client; callers log the
// underlying error server-side.
func DatabaseError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, CodeDatabaseError, "Database operation failed")
}
