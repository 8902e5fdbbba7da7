package wizard

// Step is a stage of the booking wizard
type Step int

const (
	// StepDetails collects country, station, dates, times and options
	StepDetails Step = iota + 1

	// StepVehicle offers an optional vehicle choice
	StepVehicle

	// StepContact collects the contact details and sends the request
	StepContact
)

// Steps lists the stages in order
var Steps = []Step{StepDetails, StepVehicle, StepContact}

// String returns the label shown in the step indicator
func (s Step) String() string {
	switch s {
	case StepDetails:
		return "Informations"
	case StepVehicle:
		return "Véhicule"
	case StepContact:
		return "Contact"
	}
	return "unknown"
}

// IsValid returns true if the step is a recognized value
func (s Step) IsValid() bool {
	return s >= StepDetails && s <= StepContact
}

// CanTransitionTo reports whether target is adjacent to s. Guards are
// checked separately.
func (s Step) CanTransitionTo(target Step) bool {
	if !s.IsValid() || !target.IsValid() {
		return false
	}
	return target == s+1 || target == s-1
}
