package response

// ContactResponse is the body returned for every contact endpoint outcome.
type ContactResponse struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
}
