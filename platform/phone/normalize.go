// Package phone normalizes consumer phone numbers for storage and
// matching against notification recipients.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are assumed to be US, the market this
// service operates in.
const defaultRegion = "US"

// NormalizeE164 converts the input to E.164. Unparseable or invalid
// numbers come back trimmed but otherwise untouched, so a bad submission
// is still stored for manual follow-up.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return trimmed
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
