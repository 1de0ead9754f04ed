package httpapi

import (
	"net/http"
	"strings"

	"codecrafted.org/internal/auth"
)

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

const (
	msgNoToken      = "Unauthorized User, No Token Provided"
	msgUnauthorized = "Unauthorized User"
)

type authFailure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func respondUnauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, authFailure{Status: "failed", Message: msg})
}

// authenticate is a strict gate in front of user-resource routes. Every
// outcome except a verified token resolving to a live identity is terminal:
// the wrapped handler never runs and the response is a structured 401.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get(authHeader))
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			respondUnauthorized(w, msgNoToken)
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token == "" {
			respondUnauthorized(w, msgNoToken)
			return
		}

		user, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			// Invalid signature, expired token and vanished subject all
			// collapse into the same terminal response.
			respondUnauthorized(w, msgUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
	})
}
