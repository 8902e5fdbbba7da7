package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"rental-booking/pkg/logging"
	"rental-booking/pkg/models"
)

const (
	createContactPath = "/api/createContact"
	createDealPath    = "/api/createDeal"
)

// ContactRequest is the body of a contact creation call
type ContactRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Preferences string `json:"preferences_client"`
	NoShabbat   bool   `json:"le_v_hicule_ne_roule_pas_le_chabat"`
	VisaPremier bool   `json:"avez_vous_une_visa_premi_re_"`
	Age         string `json:"age"`
	Nationality string `json:"nationalite"`
}

// DealRequest is the body of a deal creation call. Dates are nil when the
// form dates could not be converted.
type DealRequest struct {
	ContactID       ContactID       `json:"contactId"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	ActiveTab       string          `json:"activeTab"`
	SelectedVehicle *models.Vehicle `json:"selectedVehicle"`
	StationName     string          `json:"stationName"`
	CheckInDate     *string         `json:"check_in_date_str"`
	CheckOutDate    *string         `json:"check_out_date_str"`
	PickupTime      string          `json:"pickupTime"`
	ReturnTime      string          `json:"returnTime"`
	DriverAge       string          `json:"driverAge"`
	HasVisa         bool            `json:"hasVisa"`
	ShomerShabbat   bool            `json:"shomer_shabbat"`
}

// ContactID is the identifier returned by contact creation. The CRM may send
// it as a number or a string; it is sent back in the deal exactly as received.
type ContactID json.RawMessage

// MarshalJSON writes the identifier as received
func (id ContactID) MarshalJSON() ([]byte, error) {
	if len(id) == 0 {
		return []byte("null"), nil
	}
	return id, nil
}

// UnmarshalJSON keeps the raw identifier
func (id *ContactID) UnmarshalJSON(data []byte) error {
	*id = append((*id)[:0], data...)
	return nil
}

// String returns the identifier without JSON quoting
func (id ContactID) String() string {
	return strings.Trim(string(id), `"`)
}

// IsZero reports whether no usable identifier was returned
func (id ContactID) IsZero() bool {
	s := id.String()
	return s == "" || s == "null"
}

// Client defines the interface for interacting with the CRM API
type Client interface {
	CreateContact(ctx context.Context, req ContactRequest) (ContactID, error)
	CreateDeal(ctx context.Context, req DealRequest) error
}

type clientImpl struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new CRM client. A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) Client {
	return &clientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// errorResponse is what the CRM sends back on failure
type errorResponse struct {
	Detail string `json:"detail"`
}

func (c *clientImpl) CreateContact(ctx context.Context, req ContactRequest) (ContactID, error) {
	body, err := c.post(ctx, createContactPath, req)
	if err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}

	var response struct {
		ContactID ContactID `json:"contactId"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing contact response: %w", err)
	}
	if response.ContactID.IsZero() {
		return nil, fmt.Errorf("error creating contact: response has no contactId")
	}

	logging.Info("Created CRM contact", zap.String("contact_id", response.ContactID.String()))
	return response.ContactID, nil
}

func (c *clientImpl) CreateDeal(ctx context.Context, req DealRequest) error {
	if _, err := c.post(ctx, createDealPath, req); err != nil {
		return fmt.Errorf("error creating deal: %w", err)
	}

	logging.Info("Created CRM deal", zap.String("contact_id", req.ContactID.String()))
	return nil
}

// post sends payload as JSON and returns the body of a 2xx response. Other
// statuses become an error carrying the CRM's detail message.
func (c *clientImpl) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling CRM: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: detailOf(body)}
	}
	return body, nil
}

func detailOf(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	return strings.TrimSpace(string(body))
}

// StatusError is returned when the CRM answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error from CRM API (status %d): %s", e.StatusCode, e.Detail)
}
