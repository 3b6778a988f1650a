package httpx

import "net/http"

// Error codes carried in the envelope's "error" field.
const (
	CodeRouteNotFound      = "route_not_found"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeInternal           = "internal_server_error"
	CodeProgramNotFound    = "program_not_found"
	CodeProgramFetchFailed = "program_fetch_failed"
	CodePageNotFound       = "page_not_found"
	CodePageUnavailable    = "page_unavailable"
	CodeRateLimited        = "rate_limited"
	CodeInvalidJSON        = "invalid_json"
	CodeInvalidEnquiry     = "invalid_enquiry"
	CodeEnquiryFailed      = "enquiry_failed"
)

var codeStatus = map[string]int{
	CodeRouteNotFound:      http.StatusNotFound,
	CodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	CodeInternal:           http.StatusInternalServerError,
	CodeProgramNotFound:    http.StatusNotFound,
	CodeProgramFetchFailed: http.StatusBadGateway,
	CodePageNotFound:       http.StatusNotFound,
	CodePageUnavailable:    http.StatusInternalServerError,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeInvalidJSON:        http.StatusBadRequest,
	CodeInvalidEnquiry:     http.StatusBadRequest,
	CodeEnquiryFailed:      http.StatusBadGateway,
}

// StatusFor returns the HTTP status a code is served with. Unknown codes map to 500.
func StatusFor(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorFor builds an Error whose status follows from code.
func ErrorFor(code, message string) Error {
	return NewError(code, message, StatusFor(code))
}
