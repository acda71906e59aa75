package handlers

import (
	"net/http"

	"finledger/internal/auth"
	"finledger/internal/middleware"
	"finledger/internal/websocket"
)

// WSTransactions authenticates with ?token= since browsers cannot set
// headers on a websocket handshake; a bearer header also works.
func (h *Handler) WSTransactions(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID())
}
