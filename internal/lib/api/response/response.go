package response

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"strings"
)

// ErrorKind is the machine-readable failure reason carried by the envelope.
type ErrorKind string

const (
	KindLectureNotFound    ErrorKind = "LectureNotFound"
	KindAlreadyApplied     ErrorKind = "AlreadyApplied"
	KindCapacityExceeded   ErrorKind = "CapacityExceeded"
	KindPersistenceFailure ErrorKind = "PersistenceFailure"
	KindInvalidRequest     ErrorKind = "InvalidRequest"
	KindTooManyRequests    ErrorKind = "TooManyRequests"
)

// Response is the envelope shared by every endpoint.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data"`
	Error   *ErrorKind `json:"error"`
	Message string     `json:"message,omitempty"`
}

func OK(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func Error(kind ErrorKind, msg string) Response {
	return Response{
		Success: false,
		Error:   &kind,
		Message: msg,
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "gt":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Error(KindInvalidRequest, strings.Join(errMsgs, ", "))
}
