package api

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/ztrue/tracerr"
)

// NotAuthenticatedError means no token was available or the backend
// answered 401.
type NotAuthenticatedError struct{}

func (e *NotAuthenticatedError) Error() string {
	return "Notandi er ekki auðkenndur"
}

// NotAuthorizedError means the backend answered 403 for the requested
// resource.
type NotAuthorizedError struct{}

func (e *NotAuthorizedError) Error() string {
	return "Notandi hefur ekki leyfi til þess að nota valið efni"
}

// ServerError carries the status and body of a 5xx answer. The wrapped
// error is tracerr'd so logs can show where the call originated.
type ServerError struct {
	StatusCode int
	Body       string
	err        error
}

// NewServerError creates a server error for a backend status and body.
func NewServerError(status int, body string) *ServerError {
	e := &ServerError{StatusCode: status, Body: body}
	e.err = tracerr.Wrap(errors.New(e.Error()))
	return e
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Villa frá netþjóni (%d): %s", e.StatusCode, e.Body)
}

func (e *ServerError) Unwrap() error {
	return e.err
}

// LogTrace logs the error with the first few stack frames of the call
// that produced it.
func (e *ServerError) LogTrace() {
	log.WithField("error", e).Error(e)
	traced, ok := e.err.(tracerr.Error)
	if !ok {
		return
	}
	frames := traced.StackTrace()
	if len(frames) > 4 {
		frames = frames[1:4]
	}
	for _, frame := range frames {
		fmt.Println(frame)
	}
}
