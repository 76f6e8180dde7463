// Package crm forwards the public site's lead forms to the external CRM.
//
// The CRM accepts one POST per lead with the fields encoded in the query
// string. Field names are fixed by the CRM and declared in the url tags of the
// lead types below; they must not be renamed.
package crm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/rs/zerolog"
)

// Lead is a form submission accepted by the CRM.
type Lead interface {
	// Source names the form the lead came from.
	Source() string
}

// NewsletterSignup is the footer newsletter form.
type NewsletterSignup struct {
	Email string `url:"Email"`
}

func (NewsletterSignup) Source() string { return "Newsletter" }

// ContactRequest is the contact page form.
type ContactRequest struct {
	FirstName string `url:"First Name"`
	LastName  string `url:"Last Name"`
	Email     string `url:"Email"`
	Phone     string `url:"Phone,omitempty"`
	Company   string `url:"Company,omitempty"`
	Service   string `url:"Service Interest,omitempty"`
	Message   string `url:"Description"`
}

func (ContactRequest) Source() string { return "Contact Form" }

// Client posts leads to the CRM endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient returns a client for the CRM endpoint URL.
func NewClient(endpoint string, logger zerolog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: constants.DefaultHTTPTimeout},
		logger:     logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Encode returns the query string the CRM receives for lead.
func Encode(lead Lead) (url.Values, error) {
	values, err := query.Values(lead)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s lead: %w", lead.Source(), err)
	}
	values.Set("Lead Source", lead.Source())
	return values, nil
}

// Submit validates lead, when it supports validation, and sends it to the CRM.
func (c *Client) Submit(ctx context.Context, lead Lead) error {
	if v, ok := lead.(interface{ Validate() FieldErrors }); ok {
		if errs := v.Validate(); len(errs) > 0 {
			return errs
		}
	}
	if c.endpoint == "" {
		return constants.ErrNoBaseURL
	}
	values, err := Encode(lead)
	if err != nil {
		return err
	}

	target := c.endpoint
	if strings.Contains(target, "?") {
		target += "&" + values.Encode()
	} else {
		target += "?" + values.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("source", lead.Source()).Msg("crm submission failed")
		return fmt.Errorf("crm submission failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().Int("status", resp.StatusCode).Str("source", lead.Source()).Msg("crm rejected lead")
		return fmt.Errorf("crm submission failed: status=%d", resp.StatusCode)
	}
	c.logger.Info().Str("source", lead.Source()).Msg("lead submitted")
	return nil
}
