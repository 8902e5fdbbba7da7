package tui

import (
	"rental-booking/pkg/catalog"
	"rental-booking/pkg/models"
	"rental-booking/pkg/wizard"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindChoice
	kindToggle
	kindVehicle
)

// field is one editable line of a wizard step
type field struct {
	label    string
	kind     fieldKind
	value    func(wizard.State) string
	update   func(string) models.FormUpdate
	options  func(wizard.State) []string
	display  func(wizard.State, string) string
	required bool
}

func (f field) shown(s wizard.State) string {
	v := f.value(s)
	if f.display != nil {
		return f.display(s, v)
	}
	return v
}

// cycle returns the option delta steps away from the current one
func (f field) cycle(s wizard.State, delta int) (string, bool) {
	opts := f.options(s)
	if len(opts) == 0 {
		return "", false
	}
	current := f.value(s)
	idx := -1
	for i, o := range opts {
		if o == current {
			idx = i
			break
		}
	}
	switch {
	case idx == -1 && delta > 0:
		idx = 0
	case idx == -1:
		idx = len(opts) - 1
	default:
		idx = (idx + delta + len(opts)) % len(opts)
	}
	return opts[idx], true
}

func textField(label string, required bool, get func(models.FormData) string, set func(*models.FormUpdate, *string)) field {
	return field{
		label:    label,
		kind:     kindText,
		required: required,
		value:    func(s wizard.State) string { return get(s.Form) },
		update: func(v string) models.FormUpdate {
			var u models.FormUpdate
			set(&u, models.String(v))
			return u
		},
	}
}

func choiceField(label string, get func(models.FormData) string, set func(*models.FormUpdate, *string), options func(wizard.State) []string) field {
	f := textField(label, true, get, set)
	f.kind = kindChoice
	f.options = options
	return f
}

func toggleField(label string, get func(models.FormData) bool, set func(*models.FormUpdate, *bool)) field {
	return field{
		label: label,
		kind:  kindToggle,
		value: func(s wizard.State) string { return yesNo(get(s.Form)) },
		update: func(v string) models.FormUpdate {
			var u models.FormUpdate
			set(&u, models.Bool(v != "Oui"))
			return u
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "Oui"
	}
	return "Non"
}

func fixed(opts []string) func(wizard.State) []string {
	return func(wizard.State) []string { return opts }
}

// stepFields lists the fields of each step
func stepFields(cat *catalog.Catalog) map[wizard.Step][]field {
	countryCodes := func(wizard.State) []string {
		countries := cat.Countries()
		codes := make([]string, 0, len(countries))
		for _, c := range countries {
			codes = append(codes, c.Code)
		}
		return codes
	}
	stationCodes := func(s wizard.State) []string {
		stations := cat.Stations(s.Form.Country)
		codes := make([]string, 0, len(stations))
		for _, st := range stations {
			codes = append(codes, st.Code)
		}
		return codes
	}
	vehicleNames := func(wizard.State) []string {
		vehicles := cat.Vehicles()
		names := make([]string, 0, len(vehicles)+1)
		names = append(names, "")
		for _, v := range vehicles {
			names = append(names, v.Name)
		}
		return names
	}

	country := choiceField("Pays",
		func(f models.FormData) string { return f.Country },
		func(u *models.FormUpdate, v *string) { u.Country = v },
		countryCodes)
	country.display = func(_ wizard.State, code string) string {
		if c, ok := cat.Country(code); ok {
			return c.Name
		}
		return code
	}

	station := choiceField("Station",
		func(f models.FormData) string { return f.Station },
		func(u *models.FormUpdate, v *string) { u.Station = v },
		stationCodes)
	station.display = func(s wizard.State, code string) string {
		if code == "" {
			return ""
		}
		return cat.DisplayStationName(s.Form.Country, code)
	}

	vehicle := field{
		label:   "Véhicule",
		kind:    kindVehicle,
		options: vehicleNames,
		value: func(s wizard.State) string {
			if s.SelectedVehicle == nil {
				return ""
			}
			return s.SelectedVehicle.Name
		},
		display: func(_ wizard.State, name string) string {
			if name == "" {
				return "Aucun"
			}
			return name
		},
	}

	return map[wizard.Step][]field{
		wizard.StepDetails: {
			country,
			station,
			textField("Date de départ", true,
				func(f models.FormData) string { return f.PickupDate },
				func(u *models.FormUpdate, v *string) { u.PickupDate = v }),
			choiceField("Heure de départ",
				func(f models.FormData) string { return f.PickupTime },
				func(u *models.FormUpdate, v *string) { u.PickupTime = v },
				fixed(catalog.TimeOptions())),
			textField("Date de retour", true,
				func(f models.FormData) string { return f.ReturnDate },
				func(u *models.FormUpdate, v *string) { u.ReturnDate = v }),
			choiceField("Heure de retour",
				func(f models.FormData) string { return f.ReturnTime },
				func(u *models.FormUpdate, v *string) { u.ReturnTime = v },
				fixed(catalog.TimeOptions())),
			choiceField("Âge du conducteur",
				func(f models.FormData) string { return f.DriverAge },
				func(u *models.FormUpdate, v *string) { u.DriverAge = v },
				fixed(catalog.AgeOptions())),
			toggleField("Visa Premier",
				func(f models.FormData) bool { return f.HasVisa },
				func(u *models.FormUpdate, v *bool) { u.HasVisa = v }),
			toggleField("Restriction Shabbat",
				func(f models.FormData) bool { return f.ShabbatRestriction },
				func(u *models.FormUpdate, v *bool) { u.ShabbatRestriction = v }),
			textField("Code promo", false,
				func(f models.FormData) string { return f.PromoCode },
				func(u *models.FormUpdate, v *string) { u.PromoCode = v }),
		},
		wizard.StepVehicle: {
			vehicle,
		},
		wizard.StepContact: {
			textField("Prénom", true,
				func(f models.FormData) string { return f.FirstName },
				func(u *models.FormUpdate, v *string) { u.FirstName = v }),
			textField("Nom", true,
				func(f models.FormData) string { return f.LastName },
				func(u *models.FormUpdate, v *string) { u.LastName = v }),
			textField("Email", true,
				func(f models.FormData) string { return f.Email },
				func(u *models.FormUpdate, v *string) { u.Email = v }),
			textField("Téléphone", true,
				func(f models.FormData) string { return f.Phone },
				func(u *models.FormUpdate, v *string) { u.Phone = v }),
			textField("Notes", false,
				func(f models.FormData) string { return f.Notes },
				func(u *models.FormUpdate, v *string) { u.Notes = v }),
		},
	}
}
