// Package wizard implements the three-step booking wizard as an immutable
// state value. Every operation returns a new State and leaves the receiver
// untouched, so callers can compare snapshots before and after a change.
package wizard

import (
	"rental-booking/pkg/catalog"
	"rental-booking/pkg/models"
)

// State is one snapshot of a booking in progress
type State struct {
	Form            models.FormData `json:"form"`
	SelectedVehicle *models.Vehicle `json:"selectedVehicle"`
	Step            Step            `json:"step"`

	// CRMSubmitted is set once the CRM registration has been dispatched and
	// is never cleared for the lifetime of the booking.
	CRMSubmitted bool `json:"crmSubmitted"`

	Submitting   bool   `json:"submitting"`
	Submitted    bool   `json:"submitted"`
	WhatsAppLink string `json:"whatsappLink"`
}

// New returns the state of a freshly opened wizard
func New() State {
	return State{
		Form: models.NewFormData(),
		Step: StepDetails,
	}
}

// Apply writes a partial form update. Updates that would store an age, time
// or date outside the accepted values, or a return date before the pickup
// date, are rejected as a whole.
func (s State) Apply(u models.FormUpdate) (State, error) {
	if s.Submitted {
		return s, ErrSubmitted
	}
	form := u.ApplyTo(s.Form)
	if err := checkForm(form); err != nil {
		return s, err
	}
	s.Form = form
	return s, nil
}

func checkForm(f models.FormData) error {
	if f.DriverAge != "" && !catalog.IsAgeOption(f.DriverAge) {
		return ErrInvalidAge
	}
	for _, t := range []string{f.PickupTime, f.ReturnTime} {
		if t != "" && !catalog.IsTimeOption(t) {
			return ErrInvalidTime
		}
	}
	for _, d := range []string{f.PickupDate, f.ReturnDate} {
		if d != "" && !IsDisplayDate(d) {
			return ErrInvalidDate
		}
	}
	if returnsBeforePickup(f.PickupDate, f.ReturnDate) {
		return ErrInvalidRange
	}
	return nil
}

// SelectVehicle replaces the selected vehicle
func (s State) SelectVehicle(v models.Vehicle) (State, error) {
	if s.Submitted {
		return s, ErrSubmitted
	}
	s.SelectedVehicle = &v
	return s, nil
}

// ClearVehicle unsets the selected vehicle
func (s State) ClearVehicle() (State, error) {
	if s.Submitted {
		return s, ErrSubmitted
	}
	s.SelectedVehicle = nil
	return s, nil
}

// Next moves forward one step when the current step's guard holds. A failed
// guard is not an error: the step simply stays where it is.
func (s State) Next() (State, error) {
	if s.Submitted {
		return s, ErrSubmitted
	}
	if s.CanGoNext() && s.Step.CanTransitionTo(s.Step+1) {
		s.Step++
	}
	return s, nil
}

// Back moves backward one step. It does nothing on the first step.
func (s State) Back() (State, error) {
	if s.Submitted {
		return s, ErrSubmitted
	}
	if s.CanGoBack() && s.Step.CanTransitionTo(s.Step-1) {
		s.Step--
	}
	return s, nil
}

// CanGoNext reports whether the forward control is enabled
func (s State) CanGoNext() bool {
	if s.Submitted || s.Submitting {
		return false
	}
	switch s.Step {
	case StepDetails:
		return ValidateDetails(s.Form)
	case StepVehicle:
		return ValidateVehicle(s.Form)
	}
	return false
}

// CanGoBack reports whether the backward control is enabled
func (s State) CanGoBack() bool {
	return !s.Submitted && s.Step > StepDetails
}

// ContactComplete reports whether the final guard holds
func (s State) ContactComplete() bool {
	return ValidateContact(s.Form)
}

// CanSubmit reports whether the send control is enabled
func (s State) CanSubmit() bool {
	return !s.Submitted && !s.Submitting && s.Step == StepContact && s.ContactComplete()
}

// MarkCRMSubmitted records that the CRM registration has been dispatched
func (s State) MarkCRMSubmitted() State {
	s.CRMSubmitted = true
	return s
}

// BecameEligible reports whether the change from prev to next should start
// the CRM registration: the final guard holds on next and the registration
// has not been dispatched yet. The displayed step plays no part.
func BecameEligible(prev, next State) bool {
	if prev.CRMSubmitted || next.CRMSubmitted {
		return false
	}
	return next.ContactComplete()
}

// BeginSubmit marks an explicit submit as in flight
func (s State) BeginSubmit() (State, error) {
	switch {
	case s.Submitted:
		return s, ErrSubmitted
	case s.Submitting:
		return s, ErrSubmitInFlight
	case s.Step != StepContact:
		return s, ErrNotAtContact
	case !s.ContactComplete():
		return s, ErrIncomplete
	}
	s.Submitting = true
	return s, nil
}

// CompleteSubmit shows the submitted screen with the generated link and
// sends the wizard back to its first step.
func (s State) CompleteSubmit(link string) State {
	s.Submitting = false
	s.Submitted = true
	s.Step = StepDetails
	s.WhatsAppLink = link
	return s
}

// FailSubmit clears the in-flight flag after a failed submit
func (s State) FailSubmit() State {
	s.Submitting = false
	return s
}

// Reset starts a new request from the submitted screen. The form, the
// vehicle choice and the CRM flag are kept.
func (s State) Reset() State {
	s.Submitted = false
	s.Submitting = false
	s.Step = StepDetails
	s.WhatsAppLink = ""
	return s
}
