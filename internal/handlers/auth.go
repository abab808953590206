package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// Login exchanges the admin credentials for a bearer token used by the
// dashboard. There is a single admin account configured via environment.
func Login(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	email = strings.ToLower(strings.TrimSpace(email))

	if Cfg.AdminPassword == "" || email != strings.ToLower(Cfg.AdminEmail) ||
		subtle.ConstantTimeCompare([]byte(password), []byte(Cfg.AdminPassword)) != 1 {
		Log.Warn("failed admin login", "email", email, "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := Tokens.Issue(email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_in": int(Cfg.TokenTTL.Seconds()),
	})
}
