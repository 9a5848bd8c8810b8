package contact

import (
	"context"
	"encoding/json"

	"github.com/formrelay/formrelay/pkg/common"
	"github.com/formrelay/formrelay/pkg/lead"
	"github.com/sirupsen/logrus"
)

// Fixed user-facing messages. Everything the caller can see comes from this
// set or from the validator's field messages; upstream error detail stays in
// the server logs.
const (
	MsgSuccess      = "Thank you! We received your message and will get back to you soon."
	MsgSpamRejected = "Your submission could not be verified. Please try again."
	MsgInternal     = "Something went wrong. Please try again later."
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeBadRequest
	OutcomeSpamRejected
	OutcomeInternal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeSpamRejected:
		return "spam_rejected"
	default:
		return "internal"
	}
}

type Result struct {
	Outcome Outcome
	Message string
}

type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type Dispatcher interface {
	Send(ctx context.Context, l lead.Lead) error
}

type Processor interface {
	Process(ctx context.Context, body []byte, clientKey string) Result
}

type processor struct {
	validator  *lead.Validator
	verifier   Verifier
	dispatcher Dispatcher
	logger     *logrus.Logger
}

func NewProcessor(
	validator *lead.Validator,
	verifier Verifier,
	dispatcher Dispatcher,
	logger *logrus.Logger,
) Processor {
	return &processor{
		validator:  validator,
		verifier:   verifier,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Process runs one submission through parse, validate, spam verification and
// dispatch, in that order. Oversized and malformed bodies deliberately share
// the internal outcome with delivery failures so callers cannot distinguish
// them.
func (p *processor) Process(ctx context.Context, body []byte, clientKey string) Result {
	if len(body) > common.MaxBodyBytes {
		p.logger.WithField("client_key", clientKey).Warn("request body exceeds size cap")
		return Result{Outcome: OutcomeInternal, Message: MsgInternal}
	}

	var submission lead.Submission
	if err := json.Unmarshal(body, &submission); err != nil {
		p.logger.WithError(err).WithField("client_key", clientKey).Warn("failed to parse submission body")
		return Result{Outcome: OutcomeInternal, Message: MsgInternal}
	}

	result := p.validator.Validate(submission)
	if !result.Valid {
		p.logger.WithFields(logrus.Fields{
			"client_key": clientKey,
			"errors":     result.Errors,
		}).Info("submission failed validation")
		return Result{Outcome: OutcomeBadRequest, Message: result.FirstError()}
	}

	token, _ := submission["turnstileToken"].(string)
	ok, err := p.verifier.Verify(ctx, token, clientKey)
	if err != nil {
		p.logger.WithError(err).Error("spam verification call failed")
		return Result{Outcome: OutcomeInternal, Message: MsgInternal}
	}
	if !ok {
		p.logger.WithField("client_key", clientKey).Info("submission rejected by spam verification")
		return Result{Outcome: OutcomeSpamRejected, Message: MsgSpamRejected}
	}

	if err := p.dispatcher.Send(ctx, result.Lead); err != nil {
		p.logger.WithError(err).Error("failed to dispatch lead notification")
		return Result{Outcome: OutcomeInternal, Message: MsgInternal}
	}

	p.logger.WithFields(logrus.Fields{
		"client_key":   clientKey,
		"project_type": result.Lead.ProjectType,
	}).Info("lead notification dispatched")
	return Result{Outcome: OutcomeSuccess, Message: MsgSuccess}
}
