package lead

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/formrelay/formrelay/pkg/common"
)

const (
	MsgNameLength        = "Name must be between 2 and 80 characters."
	MsgCompanyLength     = "Company must be at most 120 characters."
	MsgPhoneLength       = "Phone number must be between 7 and 25 characters."
	MsgEmailInvalid      = "Email address is not valid."
	MsgProjectTypeLength = "Project type must be between 1 and 120 characters."
	MsgMessageLength     = "Message must be between 10 and 2000 characters."
	MsgConsentRequired   = "You must accept the privacy policy."
	MsgSpamDetected      = "Submission flagged as spam."
	MsgTooFast           = "Submission was sent too quickly. Please try again."
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type ValidatorOpts struct {
	TimeProvider func() time.Time
}

// Validator checks a raw submission against the intake rules. It is total:
// any input shape yields a Result, never a panic. All violations are
// collected in field order rather than short-circuiting on the first.
type Validator struct {
	now func() time.Time
}

func NewValidator(opts *ValidatorOpts) *Validator {
	now := time.Now
	if opts != nil && opts.TimeProvider != nil {
		now = opts.TimeProvider
	}
	return &Validator{now: now}
}

func (v *Validator) Validate(s Submission) Result {
	clean := Lead{
		Name:        coerceString(s["name"]),
		Company:     coerceString(s["company"]),
		Phone:       coerceString(s["phone"]),
		Email:       coerceString(s["email"]),
		ProjectType: coerceString(s["projectType"]),
		Message:     coerceString(s["message"]),
	}

	var errs []string

	if n := len([]rune(clean.Name)); n < 2 || n > 80 {
		errs = append(errs, MsgNameLength)
	}
	if len([]rune(clean.Company)) > 120 {
		errs = append(errs, MsgCompanyLength)
	}
	if n := len([]rune(clean.Phone)); n < 7 || n > 25 {
		errs = append(errs, MsgPhoneLength)
	}
	if clean.Email != "" && !emailPattern.MatchString(clean.Email) {
		errs = append(errs, MsgEmailInvalid)
	}
	if n := len([]rune(clean.ProjectType)); n < 1 || n > 120 {
		errs = append(errs, MsgProjectTypeLength)
	}
	if n := len([]rune(clean.Message)); n < 10 || n > 2000 {
		errs = append(errs, MsgMessageLength)
	}
	if !coerceBool(s["consent"]) {
		errs = append(errs, MsgConsentRequired)
	}
	// Honeypot: the website field is invisible to humans and must stay empty.
	if coerceString(s["website"]) != "" {
		errs = append(errs, MsgSpamDetected)
	}
	startedAt := coerceNumber(s["formStartedAt"])
	if startedAt == 0 || v.now().Sub(time.UnixMilli(int64(startedAt))) < common.MinFormDwellTime {
		errs = append(errs, MsgTooFast)
	}

	return Result{
		Valid:  len(errs) == 0,
		Errors: errs,
		Lead:   clean,
	}
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func coerceBool(value interface{}) bool {
	b, ok := value.(bool)
	return ok && b
}

func coerceNumber(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
