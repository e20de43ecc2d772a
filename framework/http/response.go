package http

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/km-arc/go-container/framework/container"
)

// Response writes the JSON envelopes served by the container routes.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// JSON sends data with the given status.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error sends {"message": message} with status.
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// Fail reports a container error as {"error": kind, "message": text}, with
// the status StatusFor picks.
//
//	res.Fail(&container.NotFoundError{ID: "mailer"})   // 404 {"error": "not_found", ...}
func (res *Response) Fail(err error) {
	res.JSON(StatusFor(err), envelope{"error": KindOf(err), "message": err.Error()})
}

// StatusFor maps a container error onto an HTTP status. Unknown identifiers
// are 404, bad arguments 400, and every other failure 500.
func StatusFor(err error) int {
	var (
		nf  *container.NotFoundError
		bad *container.InvalidArgumentError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &bad):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// KindOf names the container error kind of err, or "internal".
func KindOf(err error) string {
	var (
		nf       *container.NotFoundError
		bad      *container.InvalidArgumentError
		cycle    *container.CircularDependencyError
		dangling *container.DanglingReferenceError
		failed   *container.ResolutionError
	)
	switch {
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &bad):
		return "invalid_argument"
	case errors.As(err, &cycle):
		return "circular_dependency"
	case errors.As(err, &dangling):
		return "dangling_reference"
	case errors.As(err, &failed):
		return "resolution_failed"
	}
	return "internal"
}

type envelope map[string]any
