package cli

import (
	"errors"
	"fmt"
)

// ExitCodeMatchFound is the exit status of `search --fail-on-match` when
// the lookup returned a match record.
const ExitCodeMatchFound = 2

// MatchFoundError reports that a screening lookup found a match while the
// caller asked for a failing exit status in that case.
type MatchFoundError struct {
	ExitCode int
	Caption  string
	Tier     string
}

// Error implements error.
func (e *MatchFoundError) Error() string {
	return fmt.Sprintf("match found: %s (%s)", e.Caption, e.Tier)
}

// LookupFailedError is a failed lookup whose message is already humanized
// for the operator.
type LookupFailedError struct {
	Message string
	Err     error
}

// Error implements error.
func (e *LookupFailedError) Error() string {
	return e.Message
}

// Unwrap returns the upstream failure.
func (e *LookupFailedError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status for err: the MatchFoundError
// code when one is in the chain, 1 for any other error, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var mfe *MatchFoundError
	if errors.As(err, &mfe) && mfe.ExitCode > 0 {
		return mfe.ExitCode
	}
	return 1
}
