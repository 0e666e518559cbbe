package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"go-interview-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the name of the header that must echo the token
	CSRFTokenHeaderName = "X-CSRF-Token"

	csrfTokenLength = 32
	csrfTokenExpiry = 24 * time.Hour
)

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	bytes := make([]byte, csrfTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the double-submit cookie pattern.
//
// The csrf_token cookie is issued to every client; mutating requests that
// authenticate through the auth_token cookie must echo it back in the
// X-CSRF-Token header. A cross-site attacker can make the browser send the
// cookies but cannot read them, so it cannot forge the header.
//
// Requests carrying an Authorization header skip validation: browsers never
// attach that header on their own, so cookie-borne forgery does not apply.
// The same goes for requests with no auth_token cookie at all, which covers
// the public auth routes (those are guarded by the stricter rate limiter).
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, err := generateCSRFToken()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}

			// SameSite=Lax keeps the cookie off cross-site subrequests
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				CSRFTokenCookieName,
				newToken,
				int(csrfTokenExpiry.Seconds()),
				"/",
				"",    // Domain (empty = current domain)
				true,  // Secure (HTTPS only)
				false, // HttpOnly = false so JS can read it
			)
			csrfCookie = newToken
		}

		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}

		if c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}
		if authCookie, err := c.Cookie(AuthTokenCookieName); err != nil || authCookie == "" {
			c.Next()
			return
		}

		headerToken := c.GetHeader(CSRFTokenHeaderName)
		if headerToken == "" {
			response.Error(c, http.StatusForbidden, "Missing CSRF token", nil)
			c.Abort()
			return
		}
		if headerToken != csrfCookie {
			response.Error(c, http.StatusForbidden, "Invalid CSRF token", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
