package core

import (
	"encoding/json"
	"net/http"
)

const (
	// oks for non precomputed, dynamic responses
	CodeOkAuthentication = "ok_authentication"
	CodeOkSession        = "ok_session"
	CodeErrorValidation  = "err_validation"
)

type jsonResponse struct {
	status int
	body   []byte
}

// JsonBasic contains the basic response fields. All responses must have them
type JsonBasic struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JsonWithData is used for structured JSON responses with data
type JsonWithData struct {
	JsonBasic
	Data any `json:"data,omitempty"`
}

// writeJsonWithData writes a structured JSON response with the provided data
func writeJsonWithData(w http.ResponseWriter, resp JsonWithData) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.Status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJsonFailure writes a dynamic error whose message comes from the
// identity provider.
func writeJsonFailure(w http.ResponseWriter, status int, code, message string) {
	writeJsonWithData(w, JsonWithData{JsonBasic: JsonBasic{Status: status, Code: code, Message: message}})
}
