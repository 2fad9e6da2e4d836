package server

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid           bool     `json:"valid"`
	HasXML          bool     `json:"has_xml"`
	HasXMPMetadata  bool     `json:"has_xmp_metadata"`
	HasAF           bool     `json:"has_af"`
	HasOutputIntent bool     `json:"has_output_intent"`
	Errors          []string `json:"errors,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
