// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/ProjectTracker/internal/models"
)

type ctxKey string

const accountKey ctxKey = "account"

// SubjectExtractor verifies a bearer token and returns the username it asserts.
type SubjectExtractor interface {
	ExtractSubject(token string) (string, error)
}

// AccountResolver looks up the account behind a verified username.
type AccountResolver interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}

// BearerAuth is a middleware that resolves the caller's account from the
// Authorization header.
//
// It expects "Authorization: Bearer <token>", verifies the token's
// signature and expiry, and looks the embedded subject up in the store.
// A missing header, a malformed header, a bad token and an unknown subject
// all fail the same way with 401 — the request never reaches the handler.
//
// On success the resolved account is stored in the request context, so it
// can be used downstream as the authenticated caller.
func BearerAuth(tokens SubjectExtractor, accounts AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			username, err := tokens.ExtractSubject(raw)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// Always consult the current store state; a token may outlive
			// the account it was issued for.
			account, err := accounts.FindByUsername(r.Context(), username)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithAccount(r.Context(), account)))
		})
	}
}

// ContextWithAccount returns a context carrying the authenticated account.
func ContextWithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFromContext extracts the authenticated account from the request
// context. Returns nil if no account was resolved.
func AccountFromContext(ctx context.Context) *models.Account {
	if account, ok := ctx.Value(accountKey).(*models.Account); ok {
		return account
	}
	return nil
}
