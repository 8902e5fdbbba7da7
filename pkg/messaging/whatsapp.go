// Package messaging builds the WhatsApp hand-off for a booking request: the
// French summary text and the deep link that opens a chat with the agency.
package messaging

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"rental-booking/pkg/models"
)

const (
	appLinkBase = "whatsapp://send"
	webLinkBase = "https://api.whatsapp.com/send"
)

var mobileAgents = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// IsMobile guesses from the user agent whether the client can open the
// app scheme directly. Best effort only.
func IsMobile(userAgent string) bool {
	return mobileAgents.MatchString(userAgent)
}

// BuildSummary writes the human-readable request summary. stationName is
// the name as displayed to the user.
func BuildSummary(f models.FormData, stationName string, vehicle *models.Vehicle) string {
	var b strings.Builder

	b.WriteString("Location Voiture:\n\n")
	fmt.Fprintf(&b, "Pays: %s\n\n", f.Country)
	fmt.Fprintf(&b, "Station: %s\n\n", stationName)
	fmt.Fprintf(&b, "Dates: Du %s %s au %s %s\n\n", f.PickupDate, f.PickupTime, f.ReturnDate, f.ReturnTime)
	fmt.Fprintf(&b, "Âge conducteur: %s\n\n", f.DriverAge)
	fmt.Fprintf(&b, "Visa Premier: %s\n\n", yesNo(f.HasVisa))
	fmt.Fprintf(&b, "Restriction Shabbat: %s\n", yesNo(f.ShabbatRestriction))

	if vehicle != nil {
		fmt.Fprintf(&b, "\nVéhicule sélectionné: %s\n", vehicle.Name)
	}

	b.WriteString("\nContact:\n\n")
	fmt.Fprintf(&b, "Nom: %s %s\n\n", f.FirstName, f.LastName)
	fmt.Fprintf(&b, "Email: %s\n\n", f.Email)
	fmt.Fprintf(&b, "Téléphone: %s", f.Phone)

	if f.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", f.Notes)
	}

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Oui"
	}
	return "Non"
}

// BuildLink returns the deep link opening a chat with phone and text
// pre-filled. Mobile clients get the app scheme, others the web fallback.
func BuildLink(phone, text string, mobile bool) (string, error) {
	if phone == "" {
		return "", fmt.Errorf("error building WhatsApp link: no destination number")
	}
	base := webLinkBase
	if mobile {
		base = appLinkBase
	}
	return fmt.Sprintf("%s?phone=%s&text=%s", base, encodeComponent(phone), encodeComponent(text)), nil
}

// encodeComponent percent-encodes s for use as a query value, with spaces
// as %20 rather than "+"
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
