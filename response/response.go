// Package response writes JSON bodies and the portal's error envelope.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rabbikazmi/HackingDelhi/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func OK(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

// Error writes err as an envelope. Internal errors never expose their text.
func Error(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	msg := "Internal server error"
	if e.Code != apperr.CodeInternal && e.Err != nil {
		msg = e.Err.Error()
	}
	JSON(w, e.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: e.Code}})
}
