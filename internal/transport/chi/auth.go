package chi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kailas-cloud/phonedex/internal/auth"
)

type claimsKey struct{}

// ClaimsFromContext returns the admin claims placed by AdminMiddleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// AdminMiddleware admits requests carrying a valid bearer token with the admin role.
// Everything else gets 403.
func AdminMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				denyAdmin(w)
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil || !claims.IsAdmin() {
				denyAdmin(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

func denyAdmin(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, map[string]any{
		"success": false,
		"message": "Authentication failed.",
	})
}
