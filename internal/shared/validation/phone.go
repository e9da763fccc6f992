package validation

import (
	"regexp"
	"strings"
)

var (
	// 0 + 5/6/7 + 8 digits
	localPhone = regexp.MustCompile(`^0[567][0-9]{8}$`)
	// + or 00, then 11-15 digits not starting with 0
	intlPhone = regexp.MustCompile(`^(\+|00)[1-9][0-9]{10,14}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// NormalizePhone strips common separators.
func NormalizePhone(s string) string {
	return phoneSeparators.Replace(strings.TrimSpace(s))
}

// ValidPhone accepts a local mobile number or an international number.
func ValidPhone(s string) bool {
	p := NormalizePhone(s)
	return localPhone.MatchString(p) || intlPhone.MatchString(p)
}
