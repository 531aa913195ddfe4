package server

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
)

const (
	anonCookieName = "anon_id"
	anonHeaderName = "X-Anon-Id"
	anonCookieAge  = 365 * 24 * 60 * 60
)

type callerKey struct{}

// identify attaches the anonymous caller to the request. Browsers carry the anon_id
// cookie; API clients may send X-Anon-Id instead. New visitors get a fresh cookie.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		anonID := ""
		if c, err := r.Cookie(anonCookieName); err == nil {
			anonID = strings.TrimSpace(c.Value)
		}
		if anonID == "" {
			anonID = strings.TrimSpace(r.Header.Get(anonHeaderName))
		}
		if anonID == "" {
			anonID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     anonCookieName,
				Value:    anonID,
				Path:     "/",
				MaxAge:   anonCookieAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		caller := intake.Caller{AnonID: anonID, IP: s.clientIP(r)}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
	})
}

func callerFrom(ctx context.Context) intake.Caller {
	caller, _ := ctx.Value(callerKey{}).(intake.Caller)
	return caller
}

// clientIP returns the first X-Forwarded-For hop or X-Real-IP when the server sits
// behind a proxy, and the peer address otherwise.
func (s *Server) clientIP(r *http.Request) string {
	if s.config != nil && s.config.TrustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
