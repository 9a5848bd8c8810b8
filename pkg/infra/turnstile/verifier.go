package turnstile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/formrelay/formrelay/pkg/infra/httpx"
)

const VerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verifier checks Turnstile tokens against Cloudflare's siteverify endpoint.
// With no secret configured it is a no-op that accepts everything; with a
// secret configured a missing token fails closed without a network call.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
	breaker   httpx.CircuitBreaker
}

type Opts struct {
	// VerifyURL overrides the Cloudflare endpoint, for tests.
	VerifyURL string
}

func NewVerifier(secret string, client *http.Client, breaker httpx.CircuitBreaker, opts *Opts) *Verifier {
	verifyURL := VerifyURL
	if opts != nil && opts.VerifyURL != "" {
		verifyURL = opts.VerifyURL
	}
	return &Verifier{
		secret:    secret,
		verifyURL: verifyURL,
		client:    client,
		breaker:   breaker,
	}
}

// Verify reports whether the token passes Turnstile verification. A network
// or decoding failure is returned as an error, never treated as a pass.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if v.secret == "" {
		return true, nil
	}
	if token == "" {
		return false, nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	form.Set("remoteip", remoteIP)

	var result verifyResponse
	err := v.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("failed to create siteverify request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := v.client.Do(req)
		if err != nil {
			return fmt.Errorf("siteverify call failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("failed to parse siteverify response: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return result.Success, nil
}
