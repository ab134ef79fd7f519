package core

import (
	"encoding/json"
	"net/http"

	"github.com/ayomtuase/julieth/flow"
	"github.com/ayomtuase/julieth/identity"
	"github.com/ayomtuase/julieth/validation"
)

const maxJsonBytes = 1 << 16

type credentialsRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type sessionData struct {
	Status   string             `json:"status"`
	Identity *identity.Identity `json:"identity,omitempty"`
	Notice   string             `json:"notice,omitempty"`
}

// ApiSignInHandler is the JSON variant of the sign-in form.
// Endpoint: POST /api/sign-in
// Allowed Mimetype: application/json
func (a *App) ApiSignInHandler(w http.ResponseWriter, r *http.Request) {
	a.apiSubmit(w, r, flow.SignInForm)
}

// ApiSignUpHandler is the JSON variant of the sign-up form.
// Endpoint: POST /api/sign-up
// Allowed Mimetype: application/json
func (a *App) ApiSignUpHandler(w http.ResponseWriter, r *http.Request) {
	a.apiSubmit(w, r, flow.SignUpForm)
}

func (a *App) apiSubmit(w http.ResponseWriter, r *http.Request, kind flow.Kind) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJsonBytes)).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	sid := sessionID(r)
	sess := a.hub.Bind(sid)
	form := a.forms.Form(sid, kind)
	values := map[string]string{
		validation.FieldEmail:    req.Email,
		validation.FieldPassword: req.Password,
	}
	if kind == flow.SignUpForm {
		values[validation.FieldConfirmPassword] = req.ConfirmPassword
	}
	form.SetAll(values)

	res := a.run(r.Context(), kind, form, sess)
	switch res.Outcome {
	case flow.Ignored:
		writeJsonError(w, errorSubmissionInFlight)
	case flow.Invalid:
		writeJsonWithData(w, JsonWithData{
			JsonBasic: JsonBasic{Status: http.StatusBadRequest, Code: CodeErrorValidation, Message: "The form contains invalid fields"},
			Data:      form.View().FieldErrors,
		})
	case flow.Failed:
		status, code := failureStatus(res.Kind)
		writeJsonFailure(w, status, code, res.Message)
	default:
		// The notice is returned here, nothing is flashed.
		if res.Message != "" {
			form.Reset()
		}
		writeJsonWithData(w, JsonWithData{
			JsonBasic: JsonBasic{Status: http.StatusOK, Code: CodeOkAuthentication, Message: "Authenticated"},
			Data:      sessionData{Status: "authenticated", Identity: res.Identity, Notice: res.Message},
		})
	}
}

// failureStatus maps a normalized provider failure to its response.
func failureStatus(kind identity.Kind) (int, string) {
	switch kind {
	case identity.InvalidCredentials:
		return http.StatusUnauthorized, CodeErrorInvalidCredentials
	case identity.AccountExists:
		return http.StatusConflict, CodeErrorEmailConflict
	case identity.NetworkFailure:
		return http.StatusServiceUnavailable, CodeErrorNetworkFailure
	case identity.PopupCancelled:
		return http.StatusBadRequest, CodeErrorPopupCancelled
	default:
		return http.StatusBadGateway, CodeErrorAuthFailed
	}
}

// ApiSessionHandler reports the session of the caller.
// Endpoint: GET /api/session
func (a *App) ApiSessionHandler(w http.ResponseWriter, r *http.Request) {
	st := a.hub.Current(sessionID(r))
	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{Status: http.StatusOK, Code: CodeOkSession, Message: "Session state"},
		Data:      sessionData{Status: st.Status.String(), Identity: st.Identity},
	})
}

// ApiSignOutHandler is the JSON variant of logout.
// Endpoint: POST /api/sign-out
func (a *App) ApiSignOutHandler(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if a.hub.Current(sid).Identity == nil {
		writeJsonError(w, errorNotAuthenticated)
		return
	}
	a.signOut(r, sid)
	writeJsonOk(w, okSignedOut)
}
