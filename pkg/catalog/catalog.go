// Package catalog holds the read-only reference data used by the booking
// wizard (countries, stations, vehicles) and the views derived from it.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"rental-booking/pkg/models"
)

// RestrictedPrefix marks stations whose raw name needs cleaning before display
const RestrictedPrefix = "red_"

// Countries listed after all the others in the country selector
var preferredCountries = []string{"Israel", "France", "États-Unis"}

var (
	airportTokens = regexp.MustCompile(`(?i)\b(airport|apt|ap)\b`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// StationOption is a station as shown in the station selector
type StationOption struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Restricted  bool   `json:"restricted"`
}

// Catalog is immutable after construction and safe for concurrent use
type Catalog struct {
	countries []models.Country
	byCode    map[string]models.Country
	stations  map[string][]models.Station // keyed by country display name
	vehicles  []models.Vehicle
}

// New builds a catalog. stations is keyed by the country's display name,
// which is how the reference files are organised.
func New(countries []models.Country, stations map[string][]models.Station, vehicles []models.Vehicle) *Catalog {
	sorted := make([]models.Country, len(countries))
	copy(sorted, countries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return !isPreferred(sorted[i].Name) && isPreferred(sorted[j].Name)
	})

	byCode := make(map[string]models.Country, len(countries))
	for _, c := range countries {
		byCode[c.Code] = c
	}

	st := make(map[string][]models.Station, len(stations))
	for name, list := range stations {
		st[name] = append([]models.Station(nil), list...)
	}

	return &Catalog{
		countries: sorted,
		byCode:    byCode,
		stations:  st,
		vehicles:  append([]models.Vehicle(nil), vehicles...),
	}
}

func isPreferred(name string) bool {
	for _, p := range preferredCountries {
		if p == name {
			return true
		}
	}
	return false
}

// Countries returns every country, preferred ones last
func (c *Catalog) Countries() []models.Country {
	return append([]models.Country(nil), c.countries...)
}

// Country looks a country up by code
func (c *Catalog) Country(code string) (models.Country, bool) {
	country, ok := c.byCode[code]
	return country, ok
}

// Stations returns the stations of the given country, or nothing when the
// code is empty or unknown.
func (c *Catalog) Stations(countryCode string) []models.Station {
	country, ok := c.byCode[countryCode]
	if !ok {
		return nil
	}
	return append([]models.Station(nil), c.stations[country.Name]...)
}

// StationOptions returns the stations of a country ready for display
func (c *Catalog) StationOptions(countryCode string) []StationOption {
	stations := c.Stations(countryCode)
	options := make([]StationOption, 0, len(stations))
	for _, s := range stations {
		options = append(options, StationOption{
			Code:        s.Code,
			Name:        s.Name,
			DisplayName: FormatStationName(s.Name),
			Restricted:  IsRestricted(s.Name),
		})
	}
	return options
}

// Station finds a station of a country by code
func (c *Catalog) Station(countryCode, stationCode string) (models.Station, bool) {
	for _, s := range c.Stations(countryCode) {
		if s.Code == stationCode {
			return s, true
		}
	}
	return models.Station{}, false
}

// RawStationName returns the unformatted station name, falling back to the
// station code when the station is not in the catalog.
func (c *Catalog) RawStationName(countryCode, stationCode string) string {
	if s, ok := c.Station(countryCode, stationCode); ok {
		return s.Name
	}
	return stationCode
}

// DisplayStationName returns the formatted station name, falling back to the
// station code when the station is not in the catalog.
func (c *Catalog) DisplayStationName(countryCode, stationCode string) string {
	if s, ok := c.Station(countryCode, stationCode); ok {
		return FormatStationName(s.Name)
	}
	return stationCode
}

// Vehicles returns the vehicle catalog
func (c *Catalog) Vehicles() []models.Vehicle {
	return append([]models.Vehicle(nil), c.vehicles...)
}

// Vehicle finds a vehicle by name
func (c *Catalog) Vehicle(name string) (models.Vehicle, bool) {
	for _, v := range c.vehicles {
		if v.Name == name {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

// Validate checks the catalog for duplicate codes and stations attached to
// unknown countries.
func (c *Catalog) Validate() error {
	names := make(map[string]bool, len(c.countries))
	for _, country := range c.countries {
		names[country.Name] = true
	}
	if len(c.byCode) != len(c.countries) {
		return fmt.Errorf("duplicate country code in catalog")
	}
	for name, stations := range c.stations {
		if !names[name] {
			return fmt.Errorf("stations listed for unknown country %q", name)
		}
		seen := make(map[string]bool, len(stations))
		for _, s := range stations {
			if seen[s.Code] {
				return fmt.Errorf("duplicate station code %q in %s", s.Code, name)
			}
			seen[s.Code] = true
		}
	}
	return nil
}

// IsRestricted reports whether a raw station name carries the restricted prefix
func IsRestricted(raw string) bool {
	return strings.HasPrefix(strings.ToLower(raw), RestrictedPrefix)
}

// FormatStationName turns a restricted raw name into "aeroport de <city>".
// Names without the prefix are returned unchanged.
func FormatStationName(raw string) string {
	if !IsRestricted(raw) {
		return raw
	}
	cleaned := strings.ToLower(raw)[len(RestrictedPrefix):]
	cleaned = airportTokens.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
	return "aeroport de " + cleaned
}
