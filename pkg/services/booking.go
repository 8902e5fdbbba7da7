package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"rental-booking/pkg/catalog"
	"rental-booking/pkg/logging"
	"rental-booking/pkg/messaging"
	"rental-booking/pkg/metrics"
	"rental-booking/pkg/models"
	"rental-booking/pkg/wizard"
)

var (
	ErrUnknownVehicle = errors.New("vehicle not in catalog")
	ErrLinkFailed     = errors.New("could not hand off the WhatsApp link")
)

// User-facing notices shown after an explicit submit
const (
	NoticeSubmitted = "WhatsApp a été ouvert pour finaliser votre demande !"
	NoticeFailed    = "Une erreur est survenue. Veuillez réessayer."
)

// NoticeKind tells success notices from error notices
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message for the user
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// LinkOpener opens the WhatsApp link on the user's side
type LinkOpener interface {
	Open(ctx context.Context, link string) error
}

// LinkOpenerFunc adapts a function to LinkOpener
type LinkOpenerFunc func(ctx context.Context, link string) error

// Open calls f
func (f LinkOpenerFunc) Open(ctx context.Context, link string) error {
	return f(ctx, link)
}

// ClientOpener leaves opening to the client that receives the link in the
// response
var ClientOpener LinkOpener = LinkOpenerFunc(func(context.Context, string) error { return nil })

// SubmitResult is the outcome of an explicit submit
type SubmitResult struct {
	State  wizard.State
	Link   string
	Notice Notice
}

// BookingService drives the wizard of every session. Each change goes
// through the same path: the new snapshot is computed and stored, compared
// with the previous one, and the CRM registration is dispatched the first
// time the contact details become complete.
type BookingService struct {
	store         *SessionStore
	catalog       *catalog.Catalog
	leads         LeadSubmissionService
	whatsAppPhone string

	inflight sync.WaitGroup
}

// NewBookingService creates a new booking service
func NewBookingService(store *SessionStore, cat *catalog.Catalog, leads LeadSubmissionService, whatsAppPhone string) *BookingService {
	return &BookingService{
		store:         store,
		catalog:       cat,
		leads:         leads,
		whatsAppPhone: whatsAppPhone,
	}
}

// Catalog returns the reference data the service works with
func (s *BookingService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Create opens a new session. A prefill is applied like any other update,
// so pre-filled contact details start the CRM registration right away.
func (s *BookingService) Create(ctx context.Context, prefill *models.FormUpdate) (string, wizard.State, error) {
	initial := wizard.New()
	state := initial

	if prefill != nil {
		var err error
		if state, err = initial.Apply(*prefill); err != nil {
			return "", initial, err
		}
	}

	dispatch := wizard.BecameEligible(initial, state)
	if dispatch {
		state = state.MarkCRMSubmitted()
	}

	id := s.store.Create(state)
	logging.Debug("Session created", zap.String("session_id", id))

	if dispatch {
		s.dispatch(ctx, id, state)
	}
	return id, state, nil
}

// Get returns the current state of a session
func (s *BookingService) Get(id string) (wizard.State, error) {
	return s.store.Get(id)
}

// Delete discards a session
func (s *BookingService) Delete(id string) {
	s.store.Delete(id)
}

// Update applies a partial form change
func (s *BookingService) Update(ctx context.Context, id string, u models.FormUpdate) (wizard.State, error) {
	return s.mutate(ctx, id, func(st wizard.State) (wizard.State, error) {
		return st.Apply(u)
	})
}

// SelectVehicle selects a catalog vehicle by name
func (s *BookingService) SelectVehicle(ctx context.Context, id, name string) (wizard.State, error) {
	v, ok := s.catalog.Vehicle(name)
	if !ok {
		return wizard.State{}, fmt.Errorf("error selecting %q: %w", name, ErrUnknownVehicle)
	}
	return s.mutate(ctx, id, func(st wizard.State) (wizard.State, error) {
		return st.SelectVehicle(v)
	})
}

// ClearVehicle unsets the selected vehicle
func (s *BookingService) ClearVehicle(ctx context.Context, id string) (wizard.State, error) {
	return s.mutate(ctx, id, wizard.State.ClearVehicle)
}

// Next moves the wizard forward when the current step allows it
func (s *BookingService) Next(ctx context.Context, id string) (wizard.State, error) {
	return s.mutate(ctx, id, wizard.State.Next)
}

// Back moves the wizard one step back
func (s *BookingService) Back(ctx context.Context, id string) (wizard.State, error) {
	return s.mutate(ctx, id, wizard.State.Back)
}

// Reset leaves the submitted screen to start a new request
func (s *BookingService) Reset(ctx context.Context, id string) (wizard.State, error) {
	return s.mutate(ctx, id, func(st wizard.State) (wizard.State, error) {
		return st.Reset(), nil
	})
}

// mutate stores fn's result and runs the CRM edge detector on the change.
// The CRM flag is set inside the same store update as the change that made
// the contact complete, so the registration is dispatched at most once even
// under concurrent updates.
func (s *BookingService) mutate(ctx context.Context, id string, fn func(wizard.State) (wizard.State, error)) (wizard.State, error) {
	var dispatch bool

	prev, next, err := s.store.Update(id, func(st wizard.State) (wizard.State, error) {
		next, err := fn(st)
		if err != nil {
			return st, err
		}
		dispatch = wizard.BecameEligible(st, next)
		if dispatch {
			next = next.MarkCRMSubmitted()
		}
		return next, nil
	})
	if err != nil {
		return next, err
	}

	if prev.Step != next.Step {
		metrics.WizardTransitions.WithLabelValues(prev.Step.String(), next.Step.String()).Inc()
	}
	if dispatch {
		s.dispatch(ctx, id, next)
	}
	return next, nil
}

// dispatch starts the CRM registration in the background. It outlives the
// request that triggered it.
func (s *BookingService) dispatch(ctx context.Context, id string, st wizard.State) {
	lead := LeadFromState(st)
	legCtx := context.WithoutCancel(ctx)

	logging.Info("Contact complete, dispatching CRM registration", zap.String("session_id", id), logging.PhoneHash(lead.Form.Phone))

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.leads.ProcessLead(legCtx, lead)
	}()
}

// Wait blocks until every dispatched CRM registration has finished or ctx
// is done.
func (s *BookingService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit builds the WhatsApp hand-off for a session and opens it. The
// in-flight flag is cleared on every path. A failing opener does not fail
// the submit: the link is still shown to the user. A panic while building or
// opening the link does.
func (s *BookingService) Submit(ctx context.Context, id, userAgent string, opener LinkOpener) (SubmitResult, error) {
	_, state, err := s.store.Update(id, wizard.State.BeginSubmit)
	if err != nil {
		return SubmitResult{State: state}, err
	}

	mobile := messaging.IsMobile(userAgent)
	link, err := s.buildLink(state, mobile)
	if err == nil {
		err = s.open(ctx, id, opener, link)
	}
	if err != nil {
		return s.failSubmit(id, err)
	}

	_, done, err := s.store.Update(id, func(st wizard.State) (wizard.State, error) {
		return st.CompleteSubmit(link), nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	metrics.WhatsAppLinks.WithLabelValues(platform(mobile)).Inc()
	metrics.Submissions.WithLabelValues(metrics.StatusSuccess).Inc()
	logging.Info("Booking request handed off to WhatsApp", zap.String("session_id", id), zap.Bool("mobile", mobile))

	return SubmitResult{
		State:  done,
		Link:   link,
		Notice: Notice{Kind: NoticeSuccess, Message: NoticeSubmitted},
	}, nil
}

func (s *BookingService) failSubmit(id string, cause error) (SubmitResult, error) {
	logging.Error("Error handing off WhatsApp link", zap.String("session_id", id), zap.Error(cause))
	metrics.Submissions.WithLabelValues(metrics.StatusError).Inc()

	_, failed, err := s.store.Update(id, func(st wizard.State) (wizard.State, error) {
		return st.FailSubmit(), nil
	})
	if err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{
		State:  failed,
		Notice: Notice{Kind: NoticeError, Message: NoticeFailed},
	}, fmt.Errorf("%w: %v", ErrLinkFailed, cause)
}

// open logs the opener's errors and turns its panics into an error
func (s *BookingService) open(ctx context.Context, id string, opener LinkOpener, link string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic opening link: %v", r)
		}
	}()

	if openErr := opener.Open(ctx, link); openErr != nil {
		logging.Warn("Error opening WhatsApp link", zap.String("session_id", id), zap.Error(openErr))
	}
	return nil
}

// buildLink turns a panic while building the summary into an error
func (s *BookingService) buildLink(st wizard.State, mobile bool) (link string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic building summary: %v", r)
		}
	}()

	station := s.catalog.DisplayStationName(st.Form.Country, st.Form.Station)
	summary := messaging.BuildSummary(st.Form, station, st.SelectedVehicle)
	return messaging.BuildLink(s.whatsAppPhone, summary, mobile)
}

func platform(mobile bool) string {
	if mobile {
		return "mobile"
	}
	return "web"
}
