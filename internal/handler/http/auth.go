package http

import (
	"html/template"
	"net/http"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
)

// callbackPage is shown in the authorization popup. It reports the outcome
// to the opening window and closes itself; the credential never leaves the
// cookie.
var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Drive authorization</title></head>
<body>
<p>{{.Message}}</p>
<script>
if (window.opener) {
	window.opener.postMessage({type: "drive-auth", status: {{.Status}}}, "*");
}
window.close();
</script>
</body>
</html>
`))

type callbackResult struct {
	Status  string
	Message string
}

func (h *Handler) authURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.services.OAuthService.AuthURL(r.Context())
	if err != nil {
		writeError(w, logger.FromRequest(r), err, "*Handler.authURL")
		return
	}

	utils.WriteJSON(w, url, http.StatusOK)
}

func (h *Handler) authCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	query := r.URL.Query()

	if providerErr := query.Get("error"); providerErr != "" {
		log.Warn().Str("func", "*Handler.authCallback").Str("provider_error", providerErr).Msg("authorization denied")
		renderCallback(w, log, http.StatusBadRequest, callbackResult{Status: "error", Message: "Authorization was denied: " + providerErr})
		return
	}

	credential, err := h.services.OAuthService.HandleCallback(r.Context(), query.Get("code"), query.Get("state"))
	if err != nil {
		status, message := responseFromError(err)
		log.Warn().Err(err).Str("func", "*Handler.authCallback").Int("status", status).Send()
		renderCallback(w, log, status, callbackResult{Status: "error", Message: message})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     models.DriveCredentialCookie,
		Value:    credential,
		Path:     "/",
		MaxAge:   int(h.credentialDuration.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	renderCallback(w, log, http.StatusOK, callbackResult{Status: "success", Message: "Authorization complete. You can close this window."})
}

func (h *Handler) authStatus(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		writeError(w, logger.FromRequest(r), service.ErrInvalidAuthState, "*Handler.authStatus")
		return
	}

	status, err := h.services.OAuthService.AuthStatus(r.Context(), state)
	if err != nil {
		writeError(w, logger.FromRequest(r), err, "*Handler.authStatus")
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func renderCallback(w http.ResponseWriter, log *logger.Logger, status int, result callbackResult) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := callbackPage.Execute(w, result); err != nil {
		log.Err(err).Str("func", "renderCallback").Str("status", result.Status).Msg("writing callback page failed")
	}
}
