package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"tradetracker/src/schemas"
	"tradetracker/src/utils"
)

func (h *Handler) PostToken(w http.ResponseWriter, r *http.Request) {
	var tokenRequestCreds = new(schemas.TokenRequest)

	err := json.NewDecoder(r.Body).Decode(tokenRequestCreds)
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid token request body"))
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(tokenRequestCreds.Username), []byte(h.Auth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(tokenRequestCreds.Password), []byte(h.Auth.Password)) == 1
	if !userOK || !passOK {
		h.HandleErrors(w, utils.Unauthorized("invalid credentials"))
		return
	}

	ttl := h.Auth.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	expiresAt := time.Now().Add(ttl).Unix()

	_, tokenString, err := h.TokenAuth.Encode(map[string]interface{}{
		"sub": tokenRequestCreds.Username,
		"exp": expiresAt,
	})
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, &schemas.TokenResponse{Token: tokenString, ExpiresAt: expiresAt}, http.StatusOK)
}
