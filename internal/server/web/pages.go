package web

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) page(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["LoggedIn"] = c.GetString(userIDKey) != ""
	return data
}

func (h *Handler) renderError(c *gin.Context, code int, msg string) {
	c.HTML(code, "error.html", h.page(c, gin.H{"Message": msg}))
}

// storeError logs err and renders the inline error page.
func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, hunt.ErrNotAuthenticated) || errors.Is(err, common.ErrorNotFound) {
		h.clearSession(c)
		c.Redirect(http.StatusFound, string(hunt.ViewLanding))
		return
	}
	h.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	h.renderError(c, http.StatusInternalServerError, noticeStoreError)
}

func (h *Handler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.html", h.page(c, nil))
}

func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", h.page(c, nil))
}

func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	pair, err := h.users.Login(c.Request.Context(), c.ClientIP(), email, c.PostForm("password"))
	if err != nil {
		code, msg := http.StatusUnauthorized, "E-Mail oder Passwort falsch."
		var limited *services.RateLimitedError
		switch {
		case errors.As(err, &limited):
			code, msg = http.StatusTooManyRequests, "Zu viele Versuche. Bitte später erneut versuchen."
		case !errors.Is(err, common.ErrorUnauthorized):
			code, msg = http.StatusInternalServerError, "Login fehlgeschlagen."
		}
		c.HTML(code, "login.html", h.page(c, gin.H{"Error": msg, "Email": email}))
		return
	}
	h.setSession(c, pair)
	c.Redirect(http.StatusFound, "/piratenstory")
}

func (h *Handler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.page(c, nil))
}

func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	email, password, nickname := c.PostForm("email"), c.PostForm("password"), c.PostForm("nickname")

	if _, err := h.users.Register(ctx, email, password, nickname); err != nil {
		code, msg := http.StatusInternalServerError, "Registrierung fehlgeschlagen."
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			code, msg = http.StatusConflict, "Diese E-Mail ist bereits registriert."
		case errors.Is(err, common.ErrorValidation):
			code, msg = http.StatusBadRequest, "Ungültige E-Mail oder zu kurzes Passwort."
		}
		c.HTML(code, "register.html", h.page(c, gin.H{"Error": msg, "Email": email, "Nickname": nickname}))
		return
	}

	pair, err := h.users.Login(ctx, c.ClientIP(), email, password)
	if err != nil {
		c.Redirect(http.StatusFound, string(hunt.ViewLogin))
		return
	}
	h.setSession(c, pair)
	c.Redirect(http.StatusFound, string(hunt.ViewStart))
}

func (h *Handler) Logout(c *gin.Context) {
	if refresh, _ := c.Cookie(common.RefreshTokenCookieName); refresh != "" {
		if err := h.users.Logout(c.Request.Context(), refresh); err != nil {
			h.logger.Warn(c.Request.Context(), "logout failed", "error", err)
		}
	}
	h.clearSession(c)
	c.Redirect(http.StatusFound, string(hunt.ViewLanding))
}

func (h *Handler) Profile(c *gin.Context) {
	h.renderProfile(c, http.StatusOK, "")
}

func (h *Handler) renderProfile(c *gin.Context, code int, msg string) {
	p, err := h.profiles.GetProfile(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.HTML(code, "profile.html", h.page(c, gin.H{
		"Profile":   p,
		"AvatarURL": h.profiles.AvatarURL(p.AvatarRef),
		"Waypoints": h.hunt.Machine().Waypoints,
		"Error":     msg,
	}))
}

func (h *Handler) UpdateNickname(c *gin.Context) {
	_, err := h.profiles.UpdateNickname(c.Request.Context(), c.GetString(userIDKey), c.PostForm("nickname"))
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			h.renderProfile(c, http.StatusBadRequest, "Spitzname ist zu lang.")
			return
		}
		h.storeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, string(hunt.ViewProfile))
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		h.renderProfile(c, http.StatusBadRequest, "Bitte eine Bilddatei auswählen.")
		return
	}
	if fh.Size > services.MaxAvatarSize {
		h.renderProfile(c, http.StatusRequestEntityTooLarge, "Das Bild ist zu groß.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.storeError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, services.MaxAvatarSize+1))
	if err != nil {
		h.storeError(c, err)
		return
	}

	_, err = h.profiles.UploadAvatar(c.Request.Context(), c.GetString(userIDKey), data, filepath.Ext(fh.Filename))
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			h.renderProfile(c, http.StatusBadRequest, "Dieses Bildformat wird nicht unterstützt.")
			return
		}
		h.storeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, string(hunt.ViewProfile))
}

// Start is the initial view. Users who already started are sent on.
func (h *Handler) Start(c *gin.Context) {
	p, err := h.hunt.Profile(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.storeError(c, err)
		return
	}
	if p.Progress > 0 {
		c.Redirect(http.StatusFound, string(h.hunt.Machine().ViewFor(p.Progress)))
		return
	}
	h.renderStart(c, http.StatusOK, "")
}

func (h *Handler) renderStart(c *gin.Context, code int, notice string) {
	c.HTML(code, "piraten.html", h.page(c, gin.H{"Lat": StartLat, "Lon": StartLon, "Notice": notice}))
}

// Resume sends the user to the view their progress belongs on.
func (h *Handler) Resume(c *gin.Context) {
	p, err := h.hunt.Profile(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, string(h.hunt.Machine().ViewFor(p.Progress)))
}

func (h *Handler) Waypoint(k int) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.renderWaypoint(c, k, http.StatusOK, "", "")
	}
}

func (h *Handler) renderWaypoint(c *gin.Context, k, code int, notice, hint string) {
	page, err := h.hunt.Waypoint(c.Request.Context(), c.GetString(userIDKey), k)
	if err != nil {
		var locked *services.LockedError
		if errors.As(err, &locked) {
			c.Redirect(http.StatusFound, string(locked.Redirect))
			return
		}
		h.storeError(c, err)
		return
	}
	c.HTML(code, "story.html", h.page(c, gin.H{
		"Index":    page.Index,
		"Story":    page.Story,
		"Terminal": page.Terminal,
		"Notice":   notice,
		"Hint":     hint,
	}))
}

// renderView shows the view for progress with a notice.
func (h *Handler) renderView(c *gin.Context, progress, code int, notice string) {
	if progress <= 0 {
		h.renderStart(c, code, notice)
		return
	}
	h.renderWaypoint(c, min(progress, h.hunt.Machine().Waypoints), code, notice, "")
}

func (h *Handler) Hint(k int) gin.HandlerFunc {
	return func(c *gin.Context) {
		hint, err := h.hunt.Hint(c.Request.Context(), c.GetString(userIDKey), k)
		if err != nil {
			var locked *services.LockedError
			if errors.As(err, &locked) {
				c.Redirect(http.StatusFound, string(locked.Redirect))
				return
			}
			h.storeError(c, err)
			return
		}
		h.renderWaypoint(c, k, http.StatusOK, "", hint)
	}
}

func (h *Handler) Scan(c *gin.Context) {
	h.scan(c, c.PostForm("payload"))
}

// UpdateProgress is the target encoded in the printed codes. The query is
// validated like a decoded payload, so a URL can never skip a waypoint.
func (h *Handler) UpdateProgress(c *gin.Context) {
	if c.GetString(userIDKey) == "" {
		c.Redirect(http.StatusFound, string(hunt.ViewLanding))
		return
	}
	if _, ok := c.GetQuery("progress"); !ok {
		h.renderError(c, http.StatusBadRequest, noticeMissingArgs)
		return
	}
	h.scan(c, "?"+c.Request.URL.RawQuery)
}

func (h *Handler) scan(c *gin.Context, payload string) {
	ctx := c.Request.Context()
	userID := c.GetString(userIDKey)

	out, err := h.hunt.Scan(ctx, userID, payload)
	switch {
	case errors.Is(err, services.ErrScanInFlight), errors.Is(err, hunt.ErrStaleProgress):
		h.reloadView(c, http.StatusConflict, noticeInFlight)
		return
	case err != nil && out.Profile != nil:
		h.logger.Error(ctx, "progress write failed", "user_id", userID, "error", err)
		h.renderView(c, out.Profile.Progress, http.StatusInternalServerError, noticeNotSaved)
		return
	case err != nil:
		h.storeError(c, err)
		return
	}

	if !out.Decision.Accepted {
		h.renderView(c, out.Profile.Progress, http.StatusUnprocessableEntity, noticeWrongCode)
		return
	}
	c.Redirect(http.StatusSeeOther, string(out.View))
}

// reloadView re-reads the profile and shows its view with notice.
func (h *Handler) reloadView(c *gin.Context, code int, notice string) {
	p, err := h.hunt.Profile(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.renderView(c, p.Progress, code, notice)
}

// Reset is only offered once the hunt is complete.
func (h *Handler) Reset(c *gin.Context) {
	p, err := h.hunt.Profile(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.storeError(c, err)
		return
	}
	if !h.hunt.Machine().Terminal(p.Progress) {
		h.renderView(c, p.Progress, http.StatusConflict, noticeResetLocked)
		return
	}
	if _, err := h.hunt.Reset(c.Request.Context(), c.GetString(userIDKey)); err != nil {
		h.storeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, string(hunt.ViewStart))
}

func (h *Handler) History(c *gin.Context) {
	_, chapters, err := h.hunt.Chapters(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.HTML(http.StatusOK, "history.html", h.page(c, gin.H{"Chapters": chapters}))
}
