package middleware

import (
	"context"
	"net/http"
	"strings"

	"bookly/pkg/client"
	apperrors "bookly/pkg/errors"
	httputil "bookly/pkg/http"
	"bookly/pkg/logger"
	"bookly/pkg/model"
)

const sessionKey contextKey = "session"

// SessionFrom returns the authenticated session placed in the context by
// SessionAuth, or nil for unauthenticated requests.
func SessionFrom(ctx context.Context) *model.Session {
	if s, ok := ctx.Value(sessionKey).(*model.Session); ok {
		return s
	}
	return nil
}

// SessionAuth resolves a Bearer token through the identity service and
// injects the resulting session into the request context. Requests without
// a token pass through unauthenticated; handlers that need an admin session
// reject them there.
func SessionAuth(identity *client.IdentityClient, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := identity.Verify(r.Context(), token)
			if err != nil {
				log.Warn("Session verification failed",
					"request_id", requestIDFrom(r),
					"error", err,
				)
				_ = httputil.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards a whole subtree of admin routes.
func RequireAdmin(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFrom(r.Context())
			if session == nil {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
				return
			}
			if !session.Admin {
				log.Warn("Non-admin session attempted admin operation",
					"request_id", requestIDFrom(r),
					"principal", session.Principal,
					"path", r.URL.Path,
				)
				_ = httputil.WriteError(w, apperrors.Forbidden("Administrator access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
