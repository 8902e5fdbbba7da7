package messaging

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-booking/pkg/models"
)

func sampleForm() models.FormData {
	return models.FormData{
		FirstName:  "Jean",
		LastName:   "Dupont",
		Email:      "j@x.com",
		Phone:      "0612345678",
		Country:    "FR",
		Station:    "CDG",
		PickupDate: "10/06/2025",
		ReturnDate: "12/06/2025",
		PickupTime: "09:00",
		ReturnTime: "18:30",
		DriverAge:  "25+",
		HasVisa:    true,
	}
}

func TestBuildSummary(t *testing.T) {
	got := BuildSummary(sampleForm(), "aeroport de paris charles de gaulle", nil)

	want := "Location Voiture:\n\n" +
		"Pays: FR\n\n" +
		"Station: aeroport de paris charles de gaulle\n\n" +
		"Dates: Du 10/06/2025 09:00 au 12/06/2025 18:30\n\n" +
		"Âge conducteur: 25+\n\n" +
		"Visa Premier: Oui\n\n" +
		"Restriction Shabbat: Non\n" +
		"\nContact:\n\n" +
		"Nom: Jean Dupont\n\n" +
		"Email: j@x.com\n\n" +
		"Téléphone: 0612345678"

	assert.Equal(t, want, got)
}

func TestBuildSummary_VehicleAndNotes(t *testing.T) {
	f := sampleForm()
	f.Notes = "Siège bébé"
	f.ShabbatRestriction = true

	got := BuildSummary(f, "Paris", &models.Vehicle{Name: "Fiat 500"})

	assert.Contains(t, got, "Restriction Shabbat: Oui\n\nVéhicule sélectionné: Fiat 500\n\nContact:")
	assert.True(t, strings.HasSuffix(got, "Téléphone: 0612345678\nNotes: Siège bébé"))
}

func TestIsMobile(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", true},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", true},
		{"Opera/9.80 (J2ME/MIDP; Opera Mini/9.80)", true},
		{"mozilla/5.0 (ipad; cpu os 16_0)", true},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0", false},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) Safari/605.1.15", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ua, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMobile(tt.ua))
		})
	}
}

func TestBuildLink(t *testing.T) {
	text := "Nom: Jean Dupont\nÂge: 25+ & co"

	web, err := BuildLink("972584140489", text, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(web, "https://api.whatsapp.com/send?phone=972584140489&text="))
	assert.NotContains(t, web, "+")
	assert.Contains(t, web, "Jean%20Dupont%0A")

	u, err := url.Parse(web)
	require.NoError(t, err)
	assert.Equal(t, text, u.Query().Get("text"))
	assert.Equal(t, "972584140489", u.Query().Get("phone"))

	app, err := BuildLink("972584140489", text, true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(app, "whatsapp://send?phone=972584140489&text="))
}

func TestBuildLink_NoPhone(t *testing.T) {
	_, err := BuildLink("", "hello", false)
	assert.Error(t, err)
}
