package utils

import (
	"fmt"
	"regexp"
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidatePincode validates an Indian postal pincode (6 digits, non-zero lead)
func ValidatePincode(pincode string) error {
	pincodeRegex := regexp.MustCompile(`^[1-9][0-9]{5}$`)
	if !pincodeRegex.MatchString(pincode) {
		return fmt.Errorf("invalid pincode: %s", pincode)
	}
	return nil
}
