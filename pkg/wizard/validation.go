package wizard

import (
	"regexp"

	"rental-booking/pkg/models"
)

// Optional "+" or "00", then at least ten digits, spaces, parentheses or hyphens
var phonePattern = regexp.MustCompile(`^(?:\+|00)?[0-9\s()\-]{10,}$`)

// IsValidPhoneNumber reports whether phone is acceptable for contact
func IsValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateDetails is the guard for leaving the details step
func ValidateDetails(f models.FormData) bool {
	return f.Country != "" &&
		f.Station != "" &&
		f.PickupDate != "" &&
		f.ReturnDate != "" &&
		f.PickupTime != "" &&
		f.ReturnTime != "" &&
		f.DriverAge != ""
}

// ValidateVehicle is the guard for leaving the vehicle step. Picking a
// vehicle is optional.
func ValidateVehicle(models.FormData) bool {
	return true
}

// ValidateContact is the final guard. It gates both the CRM registration and
// the explicit submit.
func ValidateContact(f models.FormData) bool {
	return f.FirstName != "" &&
		f.LastName != "" &&
		f.Email != "" &&
		IsValidPhoneNumber(f.Phone)
}
