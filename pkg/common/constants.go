package common

import "time"

const (
	// Rate limit policy for the contact endpoint. Fixed, not per-client.
	RateLimitMaxRequests = 5
	RateLimitWindow      = 10 * time.Minute

	// Largest request body the pipeline will parse.
	MaxBodyBytes = 1 << 20

	// Minimum time a human plausibly needs between opening the form and
	// submitting it.
	MinFormDwellTime = 2500 * time.Millisecond

	ForwardedForHeader = "X-Forwarded-For"
)
