package authflow

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is what the bot sees when it checks a pending web login.
type Status string

const (
	// StatusWaitCode means the user has not submitted a code yet.
	StatusWaitCode Status = "WAIT_CODE"
	// StatusReady means a code is present; a 2FA password may be too.
	StatusReady Status = "READY"
	// StatusFailed means there is no usable flow for the user.
	StatusFailed Status = "FAILED"
)

// Credentials are the values a user typed into the web form.
type Credentials struct {
	Code     string
	Password string
}

// Flow is a pending web login started by the bot for one chat user.
type Flow struct {
	UserID    int64
	Phone     string
	Token     string
	CreatedAt time.Time
	Creds     Credentials
}

// expired reports whether the flow is older than ttl at now.
func (f *Flow) expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(f.CreatedAt) > ttl
}

// apply stores non-empty, trimmed values; empty ones keep the earlier value
// so a password can be sent after the code in a second submission.
func (f *Flow) apply(code, password string) {
	if code = strings.TrimSpace(code); code != "" {
		f.Creds.Code = code
	}
	if password = strings.TrimSpace(password); password != "" {
		f.Creds.Password = password
	}
}

func (f *Flow) status() Status {
	if f.Creds.Code == "" {
		return StatusWaitCode
	}
	return StatusReady
}

// NewToken returns a fresh 32 character lowercase hex token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
