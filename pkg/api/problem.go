package api

import (
	"errors"
	"net/http"

	"github.com/athenianco/especifico/pkg/jsonifier"
	"github.com/athenianco/especifico/pkg/request"
	"github.com/athenianco/especifico/pkg/validation"
)

// ProblemContentType is the media type of problem documents.
const ProblemContentType = "application/problem+json"

const internalErrorDetail = "The server encountered an internal error and was unable to complete your request."

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// NewProblem creates an about:blank problem titled after the status code.
func NewProblem(status int, detail string) *Problem {
	return &Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// ProblemFromError maps request, validation and handler errors to problems.
// Invalid requests are 400s; everything else is a 500 without internal details.
func ProblemFromError(err error) *Problem {
	var (
		paramErr    *validation.ParameterError
		bodyErr     *validation.BodyError
		responseErr *validation.ResponseError
	)

	switch {
	case errors.As(err, &paramErr):
		return NewProblem(http.StatusBadRequest, paramErr.Error())
	case errors.As(err, &bodyErr):
		return NewProblem(http.StatusBadRequest, bodyErr.Error())
	case errors.Is(err, request.ErrInvalidBody):
		return NewProblem(http.StatusBadRequest, err.Error())
	case errors.As(err, &responseErr):
		p := NewProblem(http.StatusInternalServerError, responseErr.Error())
		p.Title = "Response body does not conform to specification"
		return p
	default:
		return NewProblem(http.StatusInternalServerError, internalErrorDetail)
	}
}

// Send writes the problem document.
func (p *Problem) Send(w http.ResponseWriter, codec jsonifier.Codec) {
	NewJSONResponse(w, codec).
		WithContentType(ProblemContentType).
		WithStatusCode(p.Status).
		Send(p)
}
