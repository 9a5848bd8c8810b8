package contact_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/formrelay/formrelay/pkg/app/contact"
	"github.com/formrelay/formrelay/pkg/common"
	"github.com/formrelay/formrelay/pkg/lead"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	ok    bool
	err   error
	token string
}

func (s *stubVerifier) Verify(_ context.Context, token, _ string) (bool, error) {
	s.token = token
	return s.ok, s.err
}

type stubDispatcher struct {
	err  error
	sent []lead.Lead
}

func (s *stubDispatcher) Send(_ context.Context, l lead.Lead) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, l)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func newProcessor(verifier *stubVerifier, dispatcher *stubDispatcher) contact.Processor {
	validator := lead.NewValidator(nil)
	return contact.NewProcessor(validator, verifier, dispatcher, testLogger())
}

func validBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"name":           "Jane Doe",
		"company":        "Acme Corp",
		"phone":          "+49 170 1234567",
		"email":          "jane@example.com",
		"projectType":    "Website relaunch",
		"message":        "We would like to rebuild our marketing site.",
		"consent":        true,
		"website":        "",
		"formStartedAt":  time.Now().Add(-5 * time.Second).UnixMilli(),
		"turnstileToken": "tok-123",
	})
	require.NoError(t, err)
	return body
}

func TestProcess_Success(t *testing.T) {
	verifier := &stubVerifier{ok: true}
	dispatcher := &stubDispatcher{}
	p := newProcessor(verifier, dispatcher)

	result := p.Process(context.Background(), validBody(t), "1.2.3.4")

	assert.Equal(t, contact.OutcomeSuccess, result.Outcome)
	assert.Equal(t, contact.MsgSuccess, result.Message)
	assert.Equal(t, "tok-123", verifier.token)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "Jane Doe", dispatcher.sent[0].Name)
}

func TestProcess_MalformedBodyIsInternal(t *testing.T) {
	p := newProcessor(&stubVerifier{ok: true}, &stubDispatcher{})

	result := p.Process(context.Background(), []byte("{not json"), "1.2.3.4")

	assert.Equal(t, contact.OutcomeInternal, result.Outcome)
	assert.Equal(t, contact.MsgInternal, result.Message)
}

func TestProcess_OversizedBodyIsInternal(t *testing.T) {
	dispatcher := &stubDispatcher{}
	p := newProcessor(&stubVerifier{ok: true}, dispatcher)

	body := make([]byte, common.MaxBodyBytes+1)
	result := p.Process(context.Background(), body, "1.2.3.4")

	assert.Equal(t, contact.OutcomeInternal, result.Outcome)
	assert.Empty(t, dispatcher.sent)
}

func TestProcess_ValidationFailureSurfacesFirstError(t *testing.T) {
	p := newProcessor(&stubVerifier{ok: true}, &stubDispatcher{})

	result := p.Process(context.Background(), []byte(`{}`), "1.2.3.4")

	assert.Equal(t, contact.OutcomeBadRequest, result.Outcome)
	assert.Equal(t, lead.MsgNameLength, result.Message)
}

func TestProcess_VerifierRejectionIsSpam(t *testing.T) {
	dispatcher := &stubDispatcher{}
	p := newProcessor(&stubVerifier{ok: false}, dispatcher)

	result := p.Process(context.Background(), validBody(t), "1.2.3.4")

	assert.Equal(t, contact.OutcomeSpamRejected, result.Outcome)
	assert.Equal(t, contact.MsgSpamRejected, result.Message)
	assert.Empty(t, dispatcher.sent)
}

func TestProcess_VerifierErrorIsInternal(t *testing.T) {
	dispatcher := &stubDispatcher{}
	p := newProcessor(&stubVerifier{err: errors.New("siteverify unreachable")}, dispatcher)

	result := p.Process(context.Background(), validBody(t), "1.2.3.4")

	assert.Equal(t, contact.OutcomeInternal, result.Outcome)
	assert.Equal(t, contact.MsgInternal, result.Message)
	assert.Empty(t, dispatcher.sent)
}

func TestProcess_DispatchFailureIsInternal(t *testing.T) {
	p := newProcessor(&stubVerifier{ok: true}, &stubDispatcher{err: errors.New("delivery rejected")})

	result := p.Process(context.Background(), validBody(t), "1.2.3.4")

	assert.Equal(t, contact.OutcomeInternal, result.Outcome)
	// service detail stays out of the user-facing message
	assert.Equal(t, contact.MsgInternal, result.Message)
}
