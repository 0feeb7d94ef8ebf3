package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olfat123/profile-creator/internal/services"
	"github.com/olfat123/profile-creator/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	CtxSession   = "session"
	CtxAccountID = "account_id"
	CtxRole      = "role"
)

type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	TTL    time.Duration
}

func (cc CookieConfig) Set(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.Name, value, int(cc.TTL.Seconds()), "/", cc.Domain, cc.Secure, true)
}

func (cc CookieConfig) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.Name, "", -1, "/", cc.Domain, cc.Secure, true)
}

// LoadSession resolves the visitor cookie into a session. Unknown or expired
// cookies are cleared; any failure lets the request continue anonymously.
func LoadSession(sessions services.SessionService, cookie CookieConfig, l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookie.Name)
		if err != nil || id == "" {
			c.Next()
			return
		}

		ss, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			// keep the cookie through a store outage; only a missing session logs out
			if utils.IsCode(err, utils.CodeNotFound) {
				l.WithError(err).Debug("dropping visitor session")
				cookie.Clear(c)
			} else {
				l.WithError(err).Warn("session lookup failed; continuing anonymously")
			}
			c.Next()
			return
		}

		c.Set(CtxSession, ss)
		c.Set(CtxAccountID, ss.AccountID)
		c.Set(CtxRole, ss.Role)
		c.Next()
	}
}
