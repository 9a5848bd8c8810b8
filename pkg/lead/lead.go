package lead

// Submission is the raw, untyped request payload. Nothing about field
// presence or type is trusted until Validate has run.
type Submission map[string]interface{}

// Lead is the normalized record built from a submission. All fields are
// trimmed; optional fields may be empty.
type Lead struct {
	Name        string
	Company     string
	Phone       string
	Email       string
	ProjectType string
	Message     string
}

// Result carries the outcome of validating one submission. Errors keeps the
// fixed field order; the first entry is the one surfaced to the caller. Lead
// always holds the coerced values but is only meaningful when Valid is true.
type Result struct {
	Valid  bool
	Errors []string
	Lead   Lead
}

func (r Result) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}
