package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for the web login flow.
var (
	ErrFlowNotFound  = errors.New("no pending web login for this token")
	ErrFlowExpired   = errors.New("web login link has expired")
	ErrRuntimeTooOld = errors.New("runtime version is below the required minimum")
)
