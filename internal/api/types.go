package api

const (
	ServiceName    = "LabBot API"
	ServiceVersion = "0.1.0"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type InfoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// PIIErrorResponse names the detected categories, never the matched text.
type PIIErrorResponse struct {
	Error string   `json:"error"`
	Types []string `json:"types" description:"Detected PII categories: ssn, phone, email, dob, name"`
}
