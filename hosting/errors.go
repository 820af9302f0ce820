package hosting

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument reports a caller-fixable
	// request problem detected before any remote call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrContentExtraction reports that a document did
	// not contain exactly one code block.
	ErrContentExtraction = errors.New(
		"content extraction failed",
	)

	// ErrValidation reports a remote response that does
	// not have the expected shape.
	ErrValidation = errors.New("unexpected response shape")

	// ErrBranchNotFound reports that the branch head
	// could not be read.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrConflict reports a remote rejection caused by
	// a stale or missing version token.
	ErrConflict = errors.New("conflict")

	// ErrNotFound reports a 404 from the remote.
	ErrNotFound = errors.New("not found")
)

// RemoteError is a non-2xx response (or a failed
// round trip, when StatusCode is zero) from the
// hosting API.
type RemoteError struct {
	// Op names the remote operation.
	Op string
	// StatusCode is the HTTP status, zero when no
	// response was received.
	StatusCode int
	// Message is the remote error message, if any.
	Message string
	// Conflict is set by backends that report version
	// conflicts with a status other than 409.
	Conflict bool
	// Err is the underlying client error.
	Err error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}

	return fmt.Sprintf(
		"%s: status %d: %s", e.Op, e.StatusCode, msg,
	)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is matches ErrNotFound on 404 and ErrConflict on 409
// or when the backend flagged a conflict.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.Conflict ||
			e.StatusCode == http.StatusConflict
	default:
		return false
	}
}

// Invalidf returns an error wrapping
// ErrInvalidArgument.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf(
		"%w: %s",
		ErrInvalidArgument, fmt.Sprintf(format, args...),
	)
}

// Malformedf returns an error wrapping ErrValidation.
func Malformedf(format string, args ...any) error {
	return fmt.Errorf(
		"%w: %s",
		ErrValidation, fmt.Sprintf(format, args...),
	)
}
