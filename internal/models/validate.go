// ABOUTME: Shared validators for standardized biomarker and ingredient codes
// ABOUTME: Codes are uppercase identifiers used for temporal tracking across imports
package models

import (
	"regexp"
	"strings"
)

// codePattern matches valid codes: uppercase letters, digits, underscores,
// starting with a letter (e.g. "VITAMIN_D3", "HDL").
var codePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ValidateCode checks a standardized code for format violations.
func ValidateCode(field, code string) error {
	if code == "" {
		return validationErr(field, "code cannot be empty")
	}
	if strings.Contains(code, " ") {
		return validationErr(field, "code must not contain spaces")
	}
	if code != strings.ToUpper(code) {
		return validationErr(field, "code must be uppercase")
	}
	if !codePattern.MatchString(code) {
		return validationErr(field, "code contains invalid characters (only uppercase letters, numbers, and underscores allowed)")
	}
	return nil
}
