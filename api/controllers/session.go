package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/primosportswear/storefront/api/middleware"
	"github.com/primosportswear/storefront/api/responses"
	"github.com/primosportswear/storefront/api/validators"
	"github.com/primosportswear/storefront/internal/session"
	pkgerrors "github.com/primosportswear/storefront/pkg/errors"
	"github.com/primosportswear/storefront/pkg/logger"
)

type cartReleaser interface {
	Release(userID string)
}

type sessionStartRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

// SessionStart issues a bearer token for an already-authenticated store user.
// The store backend owns credentials; this service only tracks presence so it
// knows whose cart to poll.
func SessionStart(store session.Store, ttl time.Duration, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sessionStartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := uuid.NewString()
		sess := session.Session{UserID: payload.UserID, Email: payload.Email}
		if err := store.Save(r.Context(), token, sess, ttl); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"token": token})
	}
}

// SessionEnd revokes the bearer token and stops the user's cart polling.
func SessionEnd(store session.Store, carts cartReleaser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}

		token := bearerTokenFromRequest(r)
		if err := store.Clear(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if carts != nil {
			carts.Release(sess.UserID)
		}

		responses.WriteSuccess(w, map[string]string{"status": "signed_out"})
	}
}

func bearerTokenFromRequest(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
