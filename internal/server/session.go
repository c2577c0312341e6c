package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/ottware/storefront/internal/store"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

const sessionCookie = "storefront_session"

type sessionKey struct{}

// withSession loads the visitor's checkout session from the cookie, creating
// a fresh one when the cookie is missing or stale, and puts it on the
// request context.
func withSession(sessions store.Store, log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, isNew := loadSession(r, sessions, log)

		if isNew {
			if err := sessions.Save(r.Context(), session); err != nil {
				log.Error("failed to save new session", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    session.ID.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loadSession(r *http.Request, sessions store.Store, log logger.Logger) (*store.Session, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return store.NewSession(), true
	}

	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return store.NewSession(), true
	}

	session, err := sessions.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("failed to load session", zap.Error(err))
		}
		return store.NewSession(), true
	}
	return session, false
}

// sessionFromContext returns the session the middleware attached. The
// middleware runs on every API route, so the session is always present.
func sessionFromContext(ctx context.Context) *store.Session {
	session, _ := ctx.Value(sessionKey{}).(*store.Session)
	return session
}
