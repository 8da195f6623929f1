package guard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AJIyanu/msdbc/internal/auth"
	"github.com/AJIyanu/msdbc/internal/session"
)

// SessionKey is the gin context key the current session is stored under
// for downstream handlers.
const SessionKey = "guard.session"

// Middleware runs the guard on every request. It reads the session cookie,
// decides, records the verdict, and propagates refreshed credentials back
// onto the response.
func Middleware(routes Routes, sessions *session.Store, cs auth.CookieSettings, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		defer func() {
			if r := recover(); r != nil {
				log.Error("guard panicked", zap.Any("panic", r), zap.String("path", path))
				// fail closed on protected routes, open everywhere else
				if routes.Classify(path) == ClassProtected {
					c.Redirect(http.StatusFound, routes.LoginPath)
					c.Abort()
				} else {
					c.Next()
				}
			}
		}()

		id := auth.SessionIDFromCookie(c, cs)
		provider := session.ForRequest(sessions, id)

		d := Decide(c.Request.Context(), routes, path, provider, time.Now())
		observe(d)

		if d.SignedOut {
			auth.ClearSessionCookie(c, cs)
		}
		if d.Refreshed != nil {
			if err := auth.SetSessionCookie(c, cs, d.Refreshed); err != nil {
				log.Warn("refreshed cookie issue failed", zap.Error(err))
			}
			c.Set(SessionKey, d.Refreshed)
		}

		if d.Action == ActionRedirect {
			c.Redirect(http.StatusFound, d.Target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session a refresh attached to this request,
// if any.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}
