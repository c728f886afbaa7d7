package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/bucketdesk/core/handler"
)

// Envelope is the JSON body shape shared by every API endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON creates an application/json response with 200 OK status.
// JSON encoding is performed directly to the response writer.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}

		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}

		return json.NewEncoder(w).Encode(v)
	}
}

// Success wraps data in a {"success":true,"data":...} envelope.
func Success(data any) handler.Response {
	return JSON(Envelope{Success: true, Data: data})
}

// OK renders {"success":true}.
func OK() handler.Response {
	return JSON(Envelope{Success: true})
}

// Failure renders {"success":false,"error":message} with the given status.
func Failure(message string, status int) handler.Response {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return JSONWithStatus(Envelope{Success: false, Error: message}, status)
}
