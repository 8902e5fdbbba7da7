package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rental-booking/pkg/catalog"
	"rental-booking/pkg/clients/crm"
	"rental-booking/pkg/logging"
	"rental-booking/pkg/metrics"
	"rental-booking/pkg/models"
	"rental-booking/pkg/wizard"
)

const (
	// Nationality sent with every contact
	contactNationality = "Francais"

	// Tab of the agency back-office the deal is filed under
	dealActiveTab = "car"
)

// Lead is the snapshot of a booking handed to the CRM
type Lead struct {
	Form    models.FormData
	Vehicle *models.Vehicle
}

// LeadFromState copies what the CRM needs out of a wizard state
func LeadFromState(s wizard.State) Lead {
	lead := Lead{Form: s.Form}
	if s.SelectedVehicle != nil {
		v := *s.SelectedVehicle
		lead.Vehicle = &v
	}
	return lead
}

// LeadSubmissionService registers leads in the CRM
type LeadSubmissionService interface {
	ProcessLead(ctx context.Context, lead Lead)
}

type leadSubmissionServiceImpl struct {
	crmClient crm.Client
	catalog   *catalog.Catalog
}

// NewLeadSubmissionService creates a new submission service. A nil client
// turns the CRM registration into a logged no-op.
func NewLeadSubmissionService(crmClient crm.Client, cat *catalog.Catalog) LeadSubmissionService {
	return &leadSubmissionServiceImpl{
		crmClient: crmClient,
		catalog:   cat,
	}
}

// NormalizeAge maps the over-25 sentinel to the age the CRM stores
func NormalizeAge(age string) string {
	if age == models.DriverAgeSenior {
		return "25"
	}
	return age
}

// ProcessLead creates the contact, then the deal linked to it. Failures are
// logged and counted, never returned: the user is not told about them and
// nothing is retried.
func (s *leadSubmissionServiceImpl) ProcessLead(ctx context.Context, lead Lead) {
	f := lead.Form
	phoneHash := logging.PhoneHash(f.Phone)

	if s.crmClient == nil {
		logging.Warn("CRM not configured, lead not registered", phoneHash)
		return
	}

	start := time.Now()
	defer func() {
		metrics.CRMLegDuration.Observe(time.Since(start).Seconds())
	}()

	logging.Info("Registering lead in CRM", phoneHash, zap.String("country", f.Country), zap.String("station", f.Station))

	contactID, err := s.crmClient.CreateContact(ctx, s.contactRequest(f))
	if err != nil {
		metrics.CRMRequests.WithLabelValues("contact", metrics.StatusError).Inc()
		logging.Error("Error creating CRM contact", phoneHash, zap.Error(err))
		return
	}
	metrics.CRMRequests.WithLabelValues("contact", metrics.StatusSuccess).Inc()

	if err := s.crmClient.CreateDeal(ctx, s.dealRequest(contactID, lead)); err != nil {
		metrics.CRMRequests.WithLabelValues("deal", metrics.StatusError).Inc()
		logging.Error("Error creating CRM deal", phoneHash, zap.String("contact_id", contactID.String()), zap.Error(err))
		return
	}
	metrics.CRMRequests.WithLabelValues("deal", metrics.StatusSuccess).Inc()

	logging.Info("Lead registered in CRM", phoneHash, zap.String("contact_id", contactID.String()))
}

func (s *leadSubmissionServiceImpl) contactRequest(f models.FormData) crm.ContactRequest {
	return crm.ContactRequest{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		Phone:       f.Phone,
		Preferences: f.Notes,
		NoShabbat:   f.ShabbatRestriction,
		VisaPremier: f.HasVisa,
		Age:         NormalizeAge(f.DriverAge),
		Nationality: contactNationality,
	}
}

func (s *leadSubmissionServiceImpl) dealRequest(contactID crm.ContactID, lead Lead) crm.DealRequest {
	f := lead.Form
	return crm.DealRequest{
		ContactID:       contactID,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		ActiveTab:       dealActiveTab,
		SelectedVehicle: lead.Vehicle,
		StationName:     s.catalog.RawStationName(f.Country, f.Station),
		CheckInDate:     wizard.TransferDatePtr(f.PickupDate),
		CheckOutDate:    wizard.TransferDatePtr(f.ReturnDate),
		PickupTime:      f.PickupTime,
		ReturnTime:      f.ReturnTime,
		DriverAge:       f.DriverAge,
		HasVisa:         f.HasVisa,
		ShomerShabbat:   f.ShabbatRestriction,
	}
}
