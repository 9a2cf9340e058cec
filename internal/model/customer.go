package model

import (
	"regexp"
	"time"
)

// Customer mirrors the storefront customer record the service needs for
// dispatching: identity, display name and the captured mobile number.
type Customer struct {
	ID                uint      `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	MobilePhonePrefix string    `json:"mobile_phone_prefix"`
	MobilePhoneNumber string    `json:"mobile_phone_number"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FullMobileNumber joins prefix and number into the E.164-like destination
// the gateway expects, e.g. "+1" + "5556789012" -> "+15556789012".
func (c Customer) FullMobileNumber() string {
	return c.MobilePhonePrefix + c.MobilePhoneNumber
}

// FullName returns "First Last" for template substitution.
func (c Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

var destinationPattern = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// IsValidDestination reports whether number looks like an E.164 mobile
// number. Malformed destinations are rejected before any gateway call.
func IsValidDestination(number string) bool {
	return destinationPattern.MatchString(number)
}
