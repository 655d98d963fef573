package core

import (
	"fmt"
	"strings"
)

// ValidateSubmission performs the required-field checks that gate any
// persistence side effect. It returns the identity key on success.
func ValidateSubmission(sub Submission, familyLimit int) (string, error) {
	if strings.TrimSpace(sub.Primary.Name) == "" {
		return "", &ValidationError{Reason: "primary name is required"}
	}

	key := IdentityKey(sub.Primary.Email)
	if key == "" {
		return "", &ValidationError{Reason: "primary email is required"}
	}

	if len(sub.Family) > familyLimit {
		return "", &ValidationError{
			Reason: fmt.Sprintf("at most %d family members per submission", familyLimit),
		}
	}

	return key, nil
}
