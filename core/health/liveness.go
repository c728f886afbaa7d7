package health

import (
	"github.com/dmitrymomot/bucketdesk/core/handler"
	"github.com/dmitrymomot/bucketdesk/core/response"
)

// Status is the payload of a successful health check.
type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness reports that the process is up. It never inspects dependencies.
func Liveness[C handler.Context](C) handler.Response {
	return response.Success(Status{Status: "ok"})
}
