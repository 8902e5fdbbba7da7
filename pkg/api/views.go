package api

import (
	"rental-booking/pkg/catalog"
	"rental-booking/pkg/models"
	"rental-booking/pkg/services"
	"rental-booking/pkg/wizard"
)

// SessionView is what clients see of a session. The enabled flags mirror
// the wizard controls.
type SessionView struct {
	ID              string                  `json:"id"`
	Step            int                     `json:"step"`
	StepName        string                  `json:"stepName"`
	Form            models.FormData         `json:"form"`
	SelectedVehicle *models.Vehicle         `json:"selectedVehicle"`
	Stations        []catalog.StationOption `json:"stations"`
	CanGoNext       bool                    `json:"canGoNext"`
	CanGoBack       bool                    `json:"canGoBack"`
	CanSubmit       bool                    `json:"canSubmit"`
	CRMSubmitted    bool                    `json:"crmSubmitted"`
	Submitting      bool                    `json:"submitting"`
	Submitted       bool                    `json:"submitted"`
	WhatsAppLink    string                  `json:"whatsappLink,omitempty"`
}

func newSessionView(id string, s wizard.State, cat *catalog.Catalog) SessionView {
	return SessionView{
		ID:              id,
		Step:            int(s.Step),
		StepName:        s.Step.String(),
		Form:            s.Form,
		SelectedVehicle: s.SelectedVehicle,
		Stations:        cat.StationOptions(s.Form.Country),
		CanGoNext:       s.CanGoNext(),
		CanGoBack:       s.CanGoBack(),
		CanSubmit:       s.CanSubmit(),
		CRMSubmitted:    s.CRMSubmitted,
		Submitting:      s.Submitting,
		Submitted:       s.Submitted,
		WhatsAppLink:    s.WhatsAppLink,
	}
}

// SubmitResponse is returned by the submit endpoint
type SubmitResponse struct {
	Session SessionView     `json:"session"`
	Link    string          `json:"link,omitempty"`
	Notice  services.Notice `json:"notice"`
}

// CountryView is a country in the country selector
type CountryView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// OptionsView lists the fixed choices of the details step
type OptionsView struct {
	Times []string `json:"times"`
	Ages  []string `json:"ages"`
}

// SelectVehicleRequest is the body of the vehicle selection endpoint
type SelectVehicleRequest struct {
	Name string `json:"name" binding:"required"`
}
