package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/services"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userId"

// session resolves the cookies to a user id. An expired access token is
// swapped for a new pair using the refresh cookie. The request continues
// either way; requireUser decides what anonymous callers see.
func (h *Handler) session(c *gin.Context) {
	ctx := c.Request.Context()

	if access, _ := c.Cookie(common.AccessTokenHeaderName); access != "" {
		id, err := h.users.Authenticate(access)
		if err == nil {
			c.Set(userIDKey, id)
			c.Next()
			return
		}
		if !errors.Is(err, common.ErrTokenExpired) {
			h.clearSession(c)
			c.Next()
			return
		}
	}

	refresh, _ := c.Cookie(common.RefreshTokenCookieName)
	if refresh == "" {
		c.Next()
		return
	}

	pair, err := h.users.RefreshToken(ctx, refresh)
	if err != nil {
		h.logger.Debug(ctx, "session refresh failed", "error", err)
		h.clearSession(c)
		c.Next()
		return
	}
	h.setSession(c, pair)

	if id, err := h.users.Authenticate(pair.AccessToken); err == nil {
		c.Set(userIDKey, id)
	}
	c.Next()
}

// requireUser sends anonymous callers to redirect.
func requireUser(redirect string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(userIDKey) == "" {
			c.Redirect(http.StatusFound, redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) setSession(c *gin.Context, pair *services.TokenPair) {
	maxAge := int(h.sessionTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenHeaderName, pair.AccessToken, maxAge, "/", "", h.secure, true)
	c.SetCookie(common.RefreshTokenCookieName, pair.RefreshToken, maxAge, "/", "", h.secure, true)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenHeaderName, "", -1, "/", "", h.secure, true)
	c.SetCookie(common.RefreshTokenCookieName, "", -1, "/", "", h.secure, true)
}
