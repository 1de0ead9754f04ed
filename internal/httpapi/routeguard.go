package httpapi

import (
	"net/http"
	"strings"

	"codecrafted.org/internal/session"
)

var publicPages = []string{"/", "/login", "/signup"}

// Authenticated visitors landing on a public page are sent to the student
// dashboard regardless of role; the observed client behaves the same way.
const dashboardPath = "/dashboard/student/dashboard"

const loginPath = "/login"

// routeGuard gates page navigation on presence of the auth cookie. It never
// validates the token: a stale or forged cookie passes here and is rejected
// by the request authenticator on actual API calls. This is a cheap
// optimistic gate, not a security boundary.
func (a *API) routeGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !isPage(path) {
			next.ServeHTTP(w, r)
			return
		}

		_, err := r.Cookie(session.CookieName)
		hasCookie := err == nil

		if isPublicPage(path) {
			if hasCookie {
				http.Redirect(w, r, dashboardPath, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if !hasCookie {
			http.Redirect(w, r, loginPath, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isPublicPage(path string) bool {
	for _, p := range publicPages {
		if path == p {
			return true
		}
	}
	return false
}

// isPage separates navigation from API and infrastructure endpoints that
// happen to fall through to the catch-all route.
func isPage(path string) bool {
	if strings.HasPrefix(path, "/api/") {
		return false
	}
	switch path {
	case "/metrics", "/healthz", "/readyz", "/v1/info":
		return false
	}
	if strings.HasPrefix(path, "/assets/") || strings.HasPrefix(path, "/_next/") {
		return false
	}
	return true
}
