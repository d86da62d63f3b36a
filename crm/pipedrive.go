// Package crm integrates with Pipedrive, the external patient-record
// source. One canonical connector replaces the historical per-view
// variants: it fetches the persons listing and maps the full demographic
// field set.
package crm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Sync error categories surfaced to callers.
const (
	CategoryAuthError       = "auth_error"
	CategoryPaymentRequired = "payment_required"
	CategoryAPIError        = "api_error"
	CategoryRequestError    = "request_error"
	CategoryUnknownError    = "unknown_error"
)

// SyncError is a categorized CRM failure. It is returned to callers
// verbatim; nothing is retried.
type SyncError struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func (e *SyncError) Error() string {
	return e.Category + ": " + e.Message
}

// PersonRecord is a remote patient record, already flattened to the
// fields the reconciler maps. Unspecified remote fields stay zero.
type PersonRecord struct {
	ID         string
	Name       string
	Email      string
	Age        int
	Gender     string
	Occupation string
	Location   string
}

// Pipedrive calls the remote CRM API.
type Pipedrive struct {
	baseURL string
	client  *http.Client
}

// NewPipedrive builds a connector against baseURL (no trailing slash
// required).
func NewPipedrive(baseURL string) *Pipedrive {
	return &Pipedrive{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type personEmail struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

type personPayload struct {
	ID         json.Number   `json:"id"`
	Name       string        `json:"name"`
	Emails     []personEmail `json:"email"`
	Age        int           `json:"age"`
	Gender     string        `json:"gender"`
	Occupation string        `json:"occupation"`
	Location   string        `json:"location"`
}

type personsResponse struct {
	Success bool            `json:"success"`
	Data    []personPayload `json:"data"`
	Error   string          `json:"error"`
}

// FetchRemotePatients lists the CRM's persons using the clinic's API
// token. Failures come back as *SyncError with a coarse category and a
// human-readable message.
func (p *Pipedrive) FetchRemotePatients(token string) ([]PersonRecord, *SyncError) {
	endpoint := fmt.Sprintf("%s/persons?api_token=%s", p.baseURL, url.QueryEscape(token))

	resp, err := p.client.Get(endpoint)
	if err != nil {
		return nil, &SyncError{Category: CategoryRequestError, Message: "Pipedrive request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, &SyncError{Category: CategoryAuthError, Message: "Pipedrive rejected the API token"}
	case http.StatusPaymentRequired:
		return nil, &SyncError{Category: CategoryPaymentRequired, Message: "Pipedrive account requires payment"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SyncError{
			Category: CategoryAPIError,
			Message:  fmt.Sprintf("Pipedrive returned status %d", resp.StatusCode),
		}
	}

	var body personsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &SyncError{Category: CategoryRequestError, Message: "Failed to decode Pipedrive response: " + err.Error()}
	}
	if !body.Success {
		msg := body.Error
		if msg == "" {
			msg = "Pipedrive reported an unspecified error"
		}
		return nil, &SyncError{Category: CategoryAPIError, Message: msg}
	}

	records := make([]PersonRecord, 0, len(body.Data))
	for _, person := range body.Data {
		records = append(records, PersonRecord{
			ID:         person.ID.String(),
			Name:       person.Name,
			Email:      primaryEmail(person.Emails),
			Age:        person.Age,
			Gender:     person.Gender,
			Occupation: person.Occupation,
			Location:   person.Location,
		})
	}
	return records, nil
}

func primaryEmail(emails []personEmail) string {
	for _, e := range emails {
		if e.Primary {
			return e.Value
		}
	}
	if len(emails) > 0 {
		return emails[0].Value
	}
	return ""
}
