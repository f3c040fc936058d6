package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/vjhub/vjhub-backend/internal/validate"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Data    interface{}          `json:"data,omitempty"`
	Errors  []validate.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func respondOK(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondCreated(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func respondValidation(w http.ResponseWriter, errs validate.Errors) {
	writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Validation failed", Errors: errs})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: message})
}

func respondUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Authentication required"})
}

func respondForbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, Response{Success: false, Message: message})
}

func respondNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, Response{Success: false, Message: message})
}

func respondConflict(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusConflict, Response{Success: false, Message: message})
}

// respondServerError logs the underlying error and returns a generic message
// so internals never leak to the client.
func respondServerError(w http.ResponseWriter, context string, err error) {
	log.Printf("ERROR: %s: %v", context, err)
	writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: "Server error"})
}
