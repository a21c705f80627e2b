package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

// Iranian mobile numbers: 09xxxxxxxxx, optionally prefixed +98 or 0098.
var mobilePattern = regexp.MustCompile(`^09\d{9}$`)

// MobileNumber is a normalized Iranian mobile number (09xxxxxxxxx).
type MobileNumber struct {
	value string
}

// NewMobileNumber normalizes and validates an Iranian mobile number.
// Accepts "+98912...", "0098912..." and "0912..." spellings.
func NewMobileNumber(raw string) (MobileNumber, error) {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")

	switch {
	case strings.HasPrefix(normalized, "+98"):
		normalized = "0" + normalized[3:]
	case strings.HasPrefix(normalized, "0098"):
		normalized = "0" + normalized[4:]
	case strings.HasPrefix(normalized, "98") && len(normalized) == 12:
		normalized = "0" + normalized[2:]
	}

	if !mobilePattern.MatchString(normalized) {
		return MobileNumber{}, fmt.Errorf("invalid mobile number: %q", raw)
	}

	return MobileNumber{value: normalized}, nil
}

func (m MobileNumber) String() string {
	return m.value
}

// IsZero reports whether m is the zero value.
func (m MobileNumber) IsZero() bool {
	return m.value == ""
}
