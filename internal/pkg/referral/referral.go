package referral

import (
	"strings"

	"github.com/google/uuid"
)

// CodeLength is the length of generated referral codes
const CodeLength = 8

// NewCode generates a referral code: the first 8 hex characters of a
// random UUID, uppercased. Uniqueness is enforced by the database index;
// callers retry on collision.
func NewCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:CodeLength])
}

// IsValidCode checks the shape of a user-supplied referral code
func IsValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, r := range code {
		ok := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
		if !ok {
			return false
		}
	}
	return true
}
