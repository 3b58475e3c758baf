package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/davitran/storefront/internal/users"
)

// GuestIdentity is the fallback for unauthenticated shoppers: they get a cart
// and may check out, their invoices land in the shared guest bucket.
const GuestIdentity = "guest"

type claimsKey struct{}

type Auth struct{ Secret []byte }

// Optional attaches claims when a valid bearer token is present and lets the
// request through either way.
func (a Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := a.bearerClaims(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects requests without a valid token.
func (a Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.bearerClaims(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

// RequireAdmin additionally checks the role claim.
func (a Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFrom(r.Context())
		if claims.Role != users.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (a Auth) bearerClaims(r *http.Request) (*users.Claims, error) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, prefix) {
		return nil, users.ErrInvalidToken
	}
	return users.ParseToken(a.Secret, strings.TrimPrefix(h, prefix))
}

func ClaimsFrom(ctx context.Context) (*users.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*users.Claims)
	return claims, ok
}

// identity resolves the caller to a (user id, username) pair, falling back to
// the guest identity.
func identity(r *http.Request) (string, string) {
	if claims, ok := ClaimsFrom(r.Context()); ok {
		return claims.UserID, claims.Username
	}
	return GuestIdentity, GuestIdentity
}
