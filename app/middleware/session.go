package middleware

import (
	"context"
	"net/http"
	"time"

	"newsboard/app/models"
	"newsboard/app/urls"

	"go.uber.org/zap"
)

// SessionCookieName names the cookie holding the session token.
const SessionCookieName = "sessionid"

// SessionResolver maps a session token to its user; nil means anonymous.
type SessionResolver interface {
	UserForSession(token string) (*models.User, error)
}

// WithUser returns ctx carrying user as the signed-in user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the signed-in user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// Session loads the user named by the session cookie into the request
// context. Lookup failures are logged and the request continues anonymously.
func Session(users SessionResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserForSession(cookie.Value)
			if err != nil {
				logger.Warn("session lookup failed",
					zap.String("request_id", RequestIDFromContext(r.Context())),
					zap.Error(err),
				)
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			if info := infoFrom(r.Context()); info != nil {
				info.userID = user.ID
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// LoginRequired redirects anonymous requests to the login page, passing
// the requested path as next.
func LoginRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, urls.LoginWithNext(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie stores token in the session cookie for ttl.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
