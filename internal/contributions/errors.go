package contributions

import (
	"errors"
	"fmt"
)

var (
	ErrNoUsername   = errors.New("github username is not configured")
	ErrNoToken      = errors.New("github token is not configured")
	ErrUserNotFound = errors.New("github user not found")
)

// QueryError reports which stage of a contribution query failed.
type QueryError struct {
	Username string
	Stage    string
	Cause    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("contribution query for %q failed at %s: %v", e.Username, e.Stage, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}
