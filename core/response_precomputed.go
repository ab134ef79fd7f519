package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	CodeOkSignedOut = "ok_signed_out"

	CodeErrorInvalidRequest     = "err_invalid_input"
	CodeErrorInvalidCredentials = "err_invalid_credentials"
	CodeErrorEmailConflict      = "err_email_conflict"
	CodeErrorNetworkFailure     = "err_network_failure"
	CodeErrorPopupCancelled     = "err_popup_cancelled"
	CodeErrorAuthFailed         = "err_auth_failed"
	CodeErrorSubmissionInFlight = "err_submission_in_flight"
	CodeErrorNotAuthenticated   = "err_not_authenticated"
	CodeErrorInvalidProvider    = "err_invalid_provider"
	CodeErrorInvalidView        = "err_invalid_view"
	CodeErrorNotFound           = "err_not_found"
	CodeErrorIpBlocked          = "err_ip_blocked"
	CodeErrorInvalidContentType = "err_invalid_content_type"
	CodeErrorStreamUnsupported  = "err_stream_unsupported"
)

// precomputeBasicResponse runs during package initialization so the JSON body
// of fixed responses is marshaled once. Handlers write the stored bytes.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	//errors
	errorInvalidRequest     = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorSubmissionInFlight = precomputeBasicResponse(http.StatusConflict, CodeErrorSubmissionInFlight, "A submission of this form is already in progress")
	errorNotAuthenticated   = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNotAuthenticated, "No active session")
	errorInvalidProvider    = precomputeBasicResponse(http.StatusNotFound, CodeErrorInvalidProvider, "Unknown sign-in provider")
	errorInvalidView        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidView, "Unknown view")
	errorNotFound           = precomputeBasicResponse(http.StatusNotFound, CodeErrorNotFound, "Requested resource not found")
	errorIpBlocked          = precomputeBasicResponse(http.StatusTooManyRequests, CodeErrorIpBlocked, "IP address has been blocked due to excessive requests. Please try again later")
	errorInvalidContentType = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorStreamUnsupported  = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorStreamUnsupported, "Streaming is not supported")

	// oks
	okSignedOut = precomputeBasicResponse(http.StatusOK, CodeOkSignedOut, "Signed out")
)

// For successful precomputed responses
func writeJsonOk(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

// writeJsonError writes a precomputed JSON error response
func writeJsonError(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

// WriteIpBlocked answers a client refused by the ip block list.
func WriteIpBlocked(w http.ResponseWriter) {
	writeJsonError(w, errorIpBlocked)
}
