package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-booking/pkg/models"
)

func detailsUpdate() models.FormUpdate {
	return models.FormUpdate{
		Country:    models.String("FR"),
		Station:    models.String("S1"),
		PickupDate: models.String("10/06/2025"),
		ReturnDate: models.String("12/06/2025"),
		PickupTime: models.String("09:00"),
		ReturnTime: models.String("09:00"),
		DriverAge:  models.String("25+"),
	}
}

func contactUpdate() models.FormUpdate {
	return models.FormUpdate{
		FirstName: models.String("Jean"),
		LastName:  models.String("Dupont"),
		Email:     models.String("j@x.com"),
		Phone:     models.String("0612345678"),
	}
}

func mustApply(t *testing.T, s State, u models.FormUpdate) State {
	t.Helper()
	next, err := s.Apply(u)
	require.NoError(t, err)
	return next
}

func mustNext(t *testing.T, s State) State {
	t.Helper()
	next, err := s.Next()
	require.NoError(t, err)
	return next
}

func TestNew_Defaults(t *testing.T) {
	s := New()

	assert.Equal(t, StepDetails, s.Step)
	assert.Equal(t, "09:00", s.Form.PickupTime)
	assert.Equal(t, "09:00", s.Form.ReturnTime)
	assert.Equal(t, "25+", s.Form.DriverAge)
	assert.Nil(t, s.SelectedVehicle)
	assert.False(t, s.CRMSubmitted)
	assert.False(t, s.CanGoBack())
	assert.False(t, s.CanGoNext())
}

func TestStep_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Step
		to   Step
		want bool
	}{
		{"details to vehicle", StepDetails, StepVehicle, true},
		{"vehicle to contact", StepVehicle, StepContact, true},
		{"contact to vehicle", StepContact, StepVehicle, true},
		{"vehicle to details", StepVehicle, StepDetails, true},
		{"details to contact", StepDetails, StepContact, false},
		{"contact to details", StepContact, StepDetails, false},
		{"details to details", StepDetails, StepDetails, false},
		{"contact past the end", StepContact, StepContact + 1, false},
		{"details before the start", StepDetails, StepDetails - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNext_RequiresDetails(t *testing.T) {
	full := detailsUpdate()

	// Removing any one required field keeps the wizard on the details step
	missing := map[string]models.FormUpdate{
		"country":     {Country: models.String("")},
		"station":     {Station: models.String("")},
		"pickup date": {PickupDate: models.String("")},
		"return date": {ReturnDate: models.String("")},
		"pickup time": {PickupTime: models.String("")},
		"return time": {ReturnTime: models.String("")},
		"driver age":  {DriverAge: models.String("")},
	}

	for name, blank := range missing {
		t.Run(name, func(t *testing.T) {
			s := mustApply(t, New(), full)
			s = mustApply(t, s, blank)

			next := mustNext(t, s)
			assert.Equal(t, StepDetails, next.Step)
			assert.False(t, next.CanGoNext())
		})
	}

	t.Run("all set", func(t *testing.T) {
		s := mustApply(t, New(), full)
		assert.True(t, s.CanGoNext())
		assert.Equal(t, StepVehicle, mustNext(t, s).Step)
	})
}

func TestNext_NoSkipping(t *testing.T) {
	s := mustApply(t, New(), detailsUpdate())

	s = mustNext(t, s)
	assert.Equal(t, StepVehicle, s.Step)

	// Vehicle is optional
	s = mustNext(t, s)
	assert.Equal(t, StepContact, s.Step)

	// Nothing after contact
	s = mustNext(t, s)
	assert.Equal(t, StepContact, s.Step)
	assert.False(t, s.CanGoNext())
}

func TestBack(t *testing.T) {
	s := mustApply(t, New(), detailsUpdate())
	s = mustNext(t, mustNext(t, s))
	require.Equal(t, StepContact, s.Step)

	s, err := s.Back()
	require.NoError(t, err)
	assert.Equal(t, StepVehicle, s.Step)

	s, err = s.Back()
	require.NoError(t, err)
	assert.Equal(t, StepDetails, s.Step)

	s, err = s.Back()
	require.NoError(t, err)
	assert.Equal(t, StepDetails, s.Step, "back is a no-op on the first step")
}

func TestApply_DoesNotModifyReceiver(t *testing.T) {
	s := New()
	next := mustApply(t, s, models.FormUpdate{FirstName: models.String("Jean")})

	assert.Equal(t, "", s.Form.FirstName)
	assert.Equal(t, "Jean", next.Form.FirstName)
}

func TestApply_CountryChangeClearsStation(t *testing.T) {
	s := mustApply(t, New(), detailsUpdate())
	require.Equal(t, "S1", s.Form.Station)

	s = mustApply(t, s, models.FormUpdate{Country: models.String("US")})
	assert.Equal(t, "", s.Form.Station)

	// Same country keeps the station
	s = mustApply(t, s, models.FormUpdate{Station: models.String("JFK")})
	s = mustApply(t, s, models.FormUpdate{Country: models.String("US")})
	assert.Equal(t, "JFK", s.Form.Station)

	// Country and station in one update
	s = mustApply(t, s, models.FormUpdate{Country: models.String("FR"), Station: models.String("CDG")})
	assert.Equal(t, "CDG", s.Form.Station)
}

func TestApply_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		update models.FormUpdate
		want   error
	}{
		{"age below range", models.FormUpdate{DriverAge: models.String("17")}, ErrInvalidAge},
		{"age above range", models.FormUpdate{DriverAge: models.String("30")}, ErrInvalidAge},
		{"quarter hour", models.FormUpdate{PickupTime: models.String("09:15")}, ErrInvalidTime},
		{"bad return time", models.FormUpdate{ReturnTime: models.String("9h")}, ErrInvalidTime},
		{"iso date", models.FormUpdate{PickupDate: models.String("2025-06-10")}, ErrInvalidDate},
		{"impossible date", models.FormUpdate{ReturnDate: models.String("31/02/2025")}, ErrInvalidDate},
		{"unpadded date", models.FormUpdate{PickupDate: models.String("5/6/2025")}, ErrInvalidDate},
		{"return before pickup", models.FormUpdate{PickupDate: models.String("05/06/2025"), ReturnDate: models.String("01/01/2020")}, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			next, err := s.Apply(tt.update)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, s, next, "state should not change on error")
		})
	}
}

func TestApply_AcceptsAllListedAges(t *testing.T) {
	for _, age := range []string{"18", "21", "25", "25+"} {
		s, err := New().Apply(models.FormUpdate{DriverAge: models.String(age)})
		require.NoError(t, err)
		assert.Equal(t, age, s.Form.DriverAge)
	}
}

func TestSelectVehicle(t *testing.T) {
	s := New()
	v := models.Vehicle{Name: "Fiat 500", ImageURL: "fiat.png"}

	selected, err := s.SelectVehicle(v)
	require.NoError(t, err)
	require.NotNil(t, selected.SelectedVehicle)
	assert.Equal(t, v, *selected.SelectedVehicle)
	assert.Nil(t, s.SelectedVehicle)

	other, err := selected.SelectVehicle(models.Vehicle{Name: "Renault Clio"})
	require.NoError(t, err)
	assert.Equal(t, "Renault Clio", other.SelectedVehicle.Name)
	assert.Equal(t, "Fiat 500", selected.SelectedVehicle.Name)

	cleared, err := other.ClearVehicle()
	require.NoError(t, err)
	assert.Nil(t, cleared.SelectedVehicle)
}

func TestBecameEligible(t *testing.T) {
	empty := New()
	partial := mustApply(t, empty, models.FormUpdate{FirstName: models.String("Jean")})
	complete := mustApply(t, partial, contactUpdate())

	assert.False(t, BecameEligible(empty, partial))
	assert.True(t, BecameEligible(partial, complete))

	// Independent of the displayed step
	assert.Equal(t, StepDetails, complete.Step)

	dispatched := complete.MarkCRMSubmitted()
	edited := mustApply(t, dispatched, models.FormUpdate{Email: models.String("jean@x.com")})
	assert.False(t, BecameEligible(dispatched, edited), "edits after dispatch must not fire again")

	// Becoming invalid then valid again does not fire either
	broken := mustApply(t, edited, models.FormUpdate{Phone: models.String("123")})
	fixed := mustApply(t, broken, models.FormUpdate{Phone: models.String("0612345678")})
	assert.False(t, BecameEligible(broken, fixed))
}

func TestSubmitFlow(t *testing.T) {
	s := mustApply(t, New(), detailsUpdate())
	s = mustApply(t, s, contactUpdate())

	_, err := s.BeginSubmit()
	assert.ErrorIs(t, err, ErrNotAtContact)

	s = mustNext(t, mustNext(t, s))
	require.True(t, s.CanSubmit())

	submitting, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.True(t, submitting.Submitting)
	assert.False(t, submitting.CanSubmit())
	assert.False(t, submitting.CanGoNext())

	_, err = submitting.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	done := submitting.CompleteSubmit("https://api.whatsapp.com/send?phone=1&text=x")
	assert.True(t, done.Submitted)
	assert.False(t, done.Submitting)
	assert.Equal(t, StepDetails, done.Step)
	assert.Equal(t, "https://api.whatsapp.com/send?phone=1&text=x", done.WhatsAppLink)

	// The form is hidden while the submitted screen shows
	_, err = done.Next()
	assert.ErrorIs(t, err, ErrSubmitted)
	_, err = done.Apply(models.FormUpdate{Notes: models.String("x")})
	assert.ErrorIs(t, err, ErrSubmitted)
	_, err = done.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitted)
}

func TestBeginSubmit_Incomplete(t *testing.T) {
	s := mustApply(t, New(), detailsUpdate())
	s = mustNext(t, mustNext(t, s))
	s = mustApply(t, s, contactUpdate())
	s = mustApply(t, s, models.FormUpdate{Phone: models.String("123")})

	_, err := s.BeginSubmit()
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestFailSubmit(t *testing.T) {
	s := mustApply(t, New(), detailsUpdate())
	s = mustApply(t, s, contactUpdate())
	s = mustNext(t, mustNext(t, s))

	submitting, err := s.BeginSubmit()
	require.NoError(t, err)

	failed := submitting.FailSubmit()
	assert.False(t, failed.Submitting)
	assert.False(t, failed.Submitted)
	assert.Equal(t, StepContact, failed.Step)
	assert.True(t, failed.CanSubmit())
}

func TestReset(t *testing.T) {
	s := mustApply(t, New(), detailsUpdate())
	s = mustApply(t, s, contactUpdate())
	s = s.MarkCRMSubmitted()
	s, _ = s.SelectVehicle(models.Vehicle{Name: "Fiat 500"})
	s = mustNext(t, mustNext(t, s))
	s, err := s.BeginSubmit()
	require.NoError(t, err)
	s = s.CompleteSubmit("link")

	reset := s.Reset()
	assert.False(t, reset.Submitted)
	assert.Equal(t, StepDetails, reset.Step)
	assert.Empty(t, reset.WhatsAppLink)

	// Kept across a new request
	assert.True(t, reset.CRMSubmitted)
	assert.Equal(t, "Jean", reset.Form.FirstName)
	require.NotNil(t, reset.SelectedVehicle)
	assert.Equal(t, "Fiat 500", reset.SelectedVehicle.Name)
}

func TestApply_DateRange(t *testing.T) {
	s := mustApply(t, New(), detailsUpdate())

	// Moving the pickup past the return date is rejected
	next, err := s.Apply(models.FormUpdate{PickupDate: models.String("13/06/2025")})
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, s, next)

	// Same-day rental
	s = mustApply(t, s, models.FormUpdate{ReturnDate: models.String("10/06/2025")})
	assert.True(t, s.CanGoNext())

	// Clearing one side lifts the check
	s = mustApply(t, s, models.FormUpdate{ReturnDate: models.String("")})
	s = mustApply(t, s, models.FormUpdate{PickupDate: models.String("20/06/2025")})
	assert.False(t, s.CanGoNext())

	_, err = s.Apply(models.FormUpdate{ReturnDate: models.String("19/06/2025")})
	assert.ErrorIs(t, err, ErrInvalidRange)
}
