package errno

import "fmt"

// Errno is a business error with a stable code. Handlers map codes onto HTTP
// statuses; the engine packages below the HTTP layer return these instead of
// framework errors.
type Errno struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *Errno) Error() string {
	return e.Message
}

// Wrap returns a copy of e carrying additional detail while keeping the code,
// so errors.Is against the sentinel still matches.
func (e *Errno) Wrap(detail string) error {
	return fmt.Errorf("%w: %s", e, detail)
}

var (
	ErrInvalidArgument = &Errno{Code: 400, Message: "Invalid argument"}
	ErrUnauthorized    = &Errno{Code: 401, Message: "Unauthorized"}
	ErrForbidden       = &Errno{Code: 403, Message: "Forbidden"}
	ErrNotFound        = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrUnavailable    = &Errno{Code: 503, Message: "Service unavailable"}
)
