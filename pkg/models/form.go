package models

// Sentinel stored when the driver is over the listed ages
const DriverAgeSenior = "25+"

// Default times pre-selected on a fresh form
const DefaultTime = "09:00"

// FormData holds everything the user types into the booking wizard
type FormData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`

	Country string `json:"country"`
	Station string `json:"station"`

	PickupDate string `json:"pickupDate"` // DD/MM/YYYY
	ReturnDate string `json:"returnDate"` // DD/MM/YYYY
	PickupTime string `json:"pickupTime"` // HH:MM
	ReturnTime string `json:"returnTime"` // HH:MM

	DriverAge          string `json:"driverAge"`
	HasVisa            bool   `json:"hasVisa"`
	ShabbatRestriction bool   `json:"shabbatRestriction"`
	PromoCode          string `json:"promoCode"`
}

// NewFormData returns the form as it looks when the wizard first opens
func NewFormData() FormData {
	return FormData{
		PickupTime: DefaultTime,
		ReturnTime: DefaultTime,
		DriverAge:  DriverAgeSenior,
	}
}

// Vehicle is an entry of the vehicle catalog. The JSON keys match the
// catalog files and the CRM deal payload.
type Vehicle struct {
	Name     string `json:"Nom du véhicule" yaml:"Nom du véhicule"`
	ImageURL string `json:"Image URL" yaml:"Image URL"`
}

// Country is a rental country from the reference data
type Country struct {
	Code string `json:"Item1" yaml:"Item1"`
	Name string `json:"Item2" yaml:"Item2"`
}

// Station is a pickup/return location. Name is the raw name, which may
// carry the restricted prefix.
type Station struct {
	Code string `json:"Item1" yaml:"Item1"`
	Name string `json:"Item2" yaml:"Item2"`
}

// FormUpdate is a partial change to FormData. Nil fields are left untouched.
type FormUpdate struct {
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" binding:"omitempty,max=255"`
	Phone     *string `json:"phone,omitempty" binding:"omitempty,max=40"`
	Notes     *string `json:"notes,omitempty" binding:"omitempty,max=4000"`

	Country *string `json:"country,omitempty" binding:"omitempty,max=20"`
	Station *string `json:"station,omitempty" binding:"omitempty,max=50"`

	PickupDate *string `json:"pickupDate,omitempty" binding:"omitempty,ddmmyyyy"`
	ReturnDate *string `json:"returnDate,omitempty" binding:"omitempty,ddmmyyyy"`
	PickupTime *string `json:"pickupTime,omitempty" binding:"omitempty,halfhour"`
	ReturnTime *string `json:"returnTime,omitempty" binding:"omitempty,halfhour"`

	DriverAge          *string `json:"driverAge,omitempty" binding:"omitempty,driverage"`
	HasVisa            *bool   `json:"hasVisa,omitempty"`
	ShabbatRestriction *bool   `json:"shabbatRestriction,omitempty"`
	PromoCode          *string `json:"promoCode,omitempty" binding:"omitempty,max=50"`
}

// ApplyTo returns a copy of f with the non-nil fields of u written over it.
// Picking a new country clears the station, since stations belong to one
// country only.
func (u FormUpdate) ApplyTo(f FormData) FormData {
	setString(&f.FirstName, u.FirstName)
	setString(&f.LastName, u.LastName)
	setString(&f.Email, u.Email)
	setString(&f.Phone, u.Phone)
	setString(&f.Notes, u.Notes)

	if u.Country != nil && *u.Country != f.Country {
		f.Country = *u.Country
		f.Station = ""
	}
	setString(&f.Station, u.Station)

	setString(&f.PickupDate, u.PickupDate)
	setString(&f.ReturnDate, u.ReturnDate)
	setString(&f.PickupTime, u.PickupTime)
	setString(&f.ReturnTime, u.ReturnTime)
	setString(&f.DriverAge, u.DriverAge)
	setString(&f.PromoCode, u.PromoCode)

	if u.HasVisa != nil {
		f.HasVisa = *u.HasVisa
	}
	if u.ShabbatRestriction != nil {
		f.ShabbatRestriction = *u.ShabbatRestriction
	}
	return f
}

// IsEmpty reports whether the update changes nothing
func (u FormUpdate) IsEmpty() bool {
	return u == FormUpdate{}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// String returns a pointer to s, handy for building updates
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b
func Bool(b bool) *bool {
	return &b
}
