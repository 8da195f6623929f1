package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AJIyanu/msdbc/internal/session"
)

// CookieSettings controls how the session cookie is written.
type CookieSettings struct {
	Name     string
	Issuer   string
	Key      string
	Lifetime time.Duration
	Secure   bool
}

// SetSessionCookie writes the signed session cookie for sess on the response.
func SetSessionCookie(c *gin.Context, cs CookieSettings, sess *session.Session) error {
	token, err := IssueCookieToken(sess.Subject, sess.ID, cs.Issuer, cs.Key, cs.Lifetime)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cs.Name, token, int(cs.Lifetime.Seconds()), "/", "", cs.Secure, true)
	return nil
}

// ClearSessionCookie expires the session cookie on the response.
func ClearSessionCookie(c *gin.Context, cs CookieSettings) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cs.Name, "", -1, "/", "", cs.Secure, true)
}

// SessionIDFromCookie extracts and validates the session id carried by the
// request's cookie. Missing or invalid cookies yield the empty string.
func SessionIDFromCookie(c *gin.Context, cs CookieSettings) string {
	raw, err := c.Cookie(cs.Name)
	if err != nil || raw == "" {
		return ""
	}
	claims, err := ParseCookieToken(raw, cs.Key, cs.Issuer)
	if err != nil {
		return ""
	}
	return claims.SessionID
}

// LoginHandler exchanges staff credentials for a session cookie.
func LoginHandler(repo *Repository, sessions *session.Store, cs CookieSettings, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		staff, err := repo.GetByEmail(c.Request.Context(), email)
		if err != nil {
			log.Error("staff lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
			return
		}
		if staff == nil || !CheckPasswordHash(req.Password, staff.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		sess, err := sessions.Create(c.Request.Context(), staff.Email)
		if err != nil {
			log.Error("session create failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
			return
		}
		if err := SetSessionCookie(c, cs, sess); err != nil {
			log.Error("cookie issue failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
			return
		}

		log.Info("staff signed in", zap.String("email", staff.Email))
		c.JSON(http.StatusOK, gin.H{
			"user":       staff,
			"expires_at": sess.ExpiresAt.Unix(),
		})
	}
}
