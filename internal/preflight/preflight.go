// Package preflight checks the host runtime before the server starts.
package preflight

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/nfrund/webauth/internal/domain"
)

// Version is a major.minor pair, e.g. 1.22.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// MinimumGo is the oldest Go runtime the server is supported on.
var MinimumGo = Version{Major: 1, Minor: 22}

// ParseVersion reads the leading major.minor of strings such as "go1.25.3",
// "1.22", "go1.23rc1" or "devel go1.26-8e2c4d1 Mon Oct 6 2025". ok is false
// when no number can be read.
func ParseVersion(s string) (v Version, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "devel ")
	s = strings.TrimPrefix(strings.TrimSpace(s), "go")
	majorStr, rest, _ := strings.Cut(s, ".")
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return Version{}, false
	}
	v.Major = major

	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end > 0 {
		v.Minor, _ = strconv.Atoi(rest[:end])
	}
	return v, true
}

// Check returns an error carrying a readable diagnostic when detected is
// unparseable or older than minimum.
func Check(detected string, minimum Version) error {
	v, ok := ParseVersion(detected)
	if !ok || v.Less(minimum) {
		return fmt.Errorf("%w: Go %s+ is required, detected %s. Upgrade Go and rebuild the binary",
			domain.ErrRuntimeTooOld, minimum, detected)
	}
	return nil
}

// CheckRuntime runs Check against the runtime the binary was built with.
func CheckRuntime() error {
	return Check(runtime.Version(), MinimumGo)
}
