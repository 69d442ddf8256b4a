package middleware

import (
	"net/http"
	"strings"

	"github.com/pauljbernard/content-sub002/pkg/access"
	"github.com/pauljbernard/content-sub002/pkg/identity"
	"github.com/pauljbernard/content-sub002/pkg/token"
)

// BearerAuthenticator validates access tokens and resolves the caller's
// identity into the request context.
type BearerAuthenticator struct {
	Tokens *token.Manager
	Access *access.Service
}

func NewBearerAuthenticator(tokens *token.Manager, accessSvc *access.Service) *BearerAuthenticator {
	return &BearerAuthenticator{Tokens: tokens, Access: accessSvc}
}

// Middleware returns an HTTP middleware that requires a valid bearer
// access token and a resolvable identity.
func (b *BearerAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenStr == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		userID, err := b.Tokens.Verify(tokenStr, token.TypeAccess)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid or expired token"))
			return
		}

		id, err := b.Access.ResolveIdentity(userID)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unknown identity"))
			return
		}

		r = r.WithContext(identity.Set(r.Context(), id))
		next.ServeHTTP(w, r)
	})
}
