// Package mail delivers contact and consultation form submissions through
// the EmailJS REST relay.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"
)

// DefaultEndpoint is the EmailJS send endpoint.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// ErrNotConfigured is returned by Send when the relay credentials are missing.
var ErrNotConfigured = errors.New("mail: email relay is not configured")

// Form identifies which site form produced a message.
type Form string

const (
	ContactForm      Form = "contact"
	ConsultationForm Form = "consultation"
)

// Message is one form submission.
type Message struct {
	Form    Form
	Name    string
	Email   string
	Phone   string
	Service string
	Body    string
}

// ValidationError lists the problems with a submission.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "Please check the form: " + strings.Join(e.Problems, "; ")
}

// Validate trims the fields and checks the required ones.
func (m *Message) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Service = strings.TrimSpace(m.Service)
	m.Body = strings.TrimSpace(m.Body)

	var problems []string
	if m.Name == "" {
		problems = append(problems, "name is required")
	}
	if m.Email == "" {
		problems = append(problems, "email is required")
	} else if _, err := mail.ParseAddress(m.Email); err != nil {
		problems = append(problems, "email address is not valid")
	}
	if m.Body == "" {
		problems = append(problems, "message is required")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Client sends messages to EmailJS.
type Client struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Endpoint   string
	HTTPClient *http.Client
}

// Configured reports whether all credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send validates m and posts it to the relay.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if err := m.Validate(); err != nil {
		return err
	}
	form := m.Form
	if form == "" {
		form = ContactForm
	}
	payload, err := json.Marshal(sendRequest{
		ServiceID:  c.ServiceID,
		TemplateID: c.TemplateID,
		UserID:     c.PublicKey,
		TemplateParams: map[string]string{
			"from_name":  m.Name,
			"from_email": m.Email,
			"reply_to":   m.Email,
			"phone":      m.Phone,
			"service":    m.Service,
			"message":    m.Body,
			"form":       string(form),
		},
	})
	if err != nil {
		return err
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail: relay returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
