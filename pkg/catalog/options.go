package catalog

import (
	"fmt"
	"strconv"

	"rental-booking/pkg/models"
)

// Youngest and oldest ages offered before the "25+" sentinel
const (
	MinDriverAge = 18
	MaxDriverAge = 25
)

var (
	timeOptions = generateTimeOptions()
	ageOptions  = generateAgeOptions()
)

// generateTimeOptions lists every half hour of the day
func generateTimeOptions() []string {
	times := make([]string, 0, 48)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 30 {
			times = append(times, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return times
}

func generateAgeOptions() []string {
	ages := make([]string, 0, MaxDriverAge-MinDriverAge+2)
	for age := MinDriverAge; age <= MaxDriverAge; age++ {
		ages = append(ages, strconv.Itoa(age))
	}
	return append(ages, models.DriverAgeSenior)
}

// TimeOptions returns "00:00" through "23:30"
func TimeOptions() []string {
	return append([]string(nil), timeOptions...)
}

// IsTimeOption reports whether t is one of the half-hour marks
func IsTimeOption(t string) bool {
	for _, option := range timeOptions {
		if option == t {
			return true
		}
	}
	return false
}

// AgeOptions returns the selectable driver ages, sentinel last
func AgeOptions() []string {
	return append([]string(nil), ageOptions...)
}

// IsAgeOption reports whether age is one of the selectable driver ages
func IsAgeOption(age string) bool {
	for _, option := range ageOptions {
		if option == age {
			return true
		}
	}
	return false
}
