package wizard

import "errors"

var (
	// Invariant violations: the update is rejected and the state is unchanged
	ErrInvalidAge   = errors.New("driver age must be one of the listed ages or 25+")
	ErrInvalidTime  = errors.New("time must be a half-hour mark between 00:00 and 23:30")
	ErrInvalidDate  = errors.New("date must be written DD/MM/YYYY")
	ErrInvalidRange = errors.New("return date must not be before the pickup date")

	// Submission preconditions
	ErrSubmitted      = errors.New("request already submitted, start a new one")
	ErrNotAtContact   = errors.New("requests can only be sent from the contact step")
	ErrIncomplete     = errors.New("contact details are incomplete")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)
