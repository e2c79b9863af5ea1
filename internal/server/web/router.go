package web

import (
	"net/http"

	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.accessLog)
	r.SetHTMLTemplate(pageTemplates)

	if len(origins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = origins
		config.AllowCredentials = true
		config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		r.Use(cors.New(config))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Use(h.session)

	r.GET(string(hunt.ViewLanding), h.Landing)
	r.GET(string(hunt.ViewLogin), h.LoginPage)
	r.POST(string(hunt.ViewLogin), h.Login)
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
	r.GET("/update-progress", h.UpdateProgress)

	profile := r.Group(string(hunt.ViewProfile))
	profile.Use(requireUser(string(hunt.ViewLogin)))
	{
		profile.GET("", h.Profile)
		profile.POST("", h.UpdateNickname)
		profile.POST("/avatar", h.UploadAvatar)
	}

	story := r.Group("")
	story.Use(requireUser(string(hunt.ViewLanding)))
	{
		story.GET(string(hunt.ViewStart), h.Start)
		story.GET("/piratenstory", h.Resume)
		story.GET(string(hunt.ViewHistory), h.History)
		story.POST("/scan", h.Scan)
		story.POST("/reset", h.Reset)

		for k := 1; k <= h.hunt.Machine().Waypoints; k++ {
			path := string(hunt.WaypointView(k))
			story.GET(path, h.Waypoint(k))
			story.POST(path+"/hint", h.Hint(k))
		}
	}

	r.NoRoute(h.notFound)
	return r
}

// notFound redirects waypoint paths in any letter case to their canonical
// route.
func (h *Handler) notFound(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		if k, ok := hunt.ParseWaypointPath(c.Request.URL.Path); ok && k >= 1 && k <= h.hunt.Machine().Waypoints {
			c.Redirect(http.StatusMovedPermanently, string(hunt.WaypointView(k)))
			return
		}
	}
	c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Seite nicht gefunden."})
}
