package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/formrelay/formrelay/pkg/config"
	"github.com/formrelay/formrelay/pkg/infra/httpx"
	"github.com/formrelay/formrelay/pkg/lead"
)

const SendURL = "https://api.resend.com/emails"

// Placeholder shown in the notification for optional fields the submitter
// left empty.
const emptyFieldPlaceholder = "&mdash;"

var ErrNotConfigured = errors.New("mail delivery is not configured")

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// Mailer relays lead notifications through the Resend HTTP API. Exactly one
// delivery attempt is made per lead; a non-success response is an error
// carrying the service's detail for server-side logs.
type Mailer struct {
	cfg     config.MailConfig
	sendURL string
	client  *http.Client
	breaker httpx.CircuitBreaker
}

type Opts struct {
	// SendURL overrides the Resend endpoint, for tests.
	SendURL string
}

func NewMailer(cfg config.MailConfig, client *http.Client, breaker httpx.CircuitBreaker, opts *Opts) *Mailer {
	sendURL := SendURL
	if opts != nil && opts.SendURL != "" {
		sendURL = opts.SendURL
	}
	return &Mailer{
		cfg:     cfg,
		sendURL: sendURL,
		client:  client,
		breaker: breaker,
	}
}

func (m *Mailer) Send(ctx context.Context, l lead.Lead) error {
	if m.cfg.APIKey == "" || m.cfg.From == "" || m.cfg.To == "" {
		return ErrNotConfigured
	}

	payload := sendRequest{
		From:    m.cfg.From,
		To:      []string{m.cfg.To},
		Subject: fmt.Sprintf("New project inquiry: %s", l.ProjectType),
		HTML:    buildHTML(l),
	}
	if l.Email != "" {
		// Reply lands with the submitter; the notification itself never
		// goes to an address the submitter controls.
		payload.ReplyTo = l.Email
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	return m.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.sendURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create mail request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

		resp, err := m.client.Do(req)
		if err != nil {
			return fmt.Errorf("mail delivery call failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("mail delivery rejected (status %d): %s", resp.StatusCode, string(detail))
		}
		return nil
	})
}

func buildHTML(l lead.Lead) string {
	var b strings.Builder

	b.WriteString("<h2>New project inquiry</h2>")
	writeField(&b, "Name", l.Name)
	writeField(&b, "Company", l.Company)
	writeField(&b, "Phone", l.Phone)
	writeField(&b, "Email", l.Email)
	writeField(&b, "Project type", l.ProjectType)

	b.WriteString("<h3>Message</h3>")
	if l.Message == "" {
		b.WriteString("<p>" + emptyFieldPlaceholder + "</p>")
	} else {
		for _, line := range strings.Split(l.Message, "\n") {
			b.WriteString("<p>" + html.EscapeString(strings.TrimRight(line, "\r")) + "</p>")
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	rendered := emptyFieldPlaceholder
	if value != "" {
		rendered = html.EscapeString(value)
	}
	fmt.Fprintf(b, "<p><strong>%s:</strong> %s</p>", label, rendered)
}
