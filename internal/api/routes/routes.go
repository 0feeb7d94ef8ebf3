package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olfat123/profile-creator/internal/api/handlers"
	"github.com/olfat123/profile-creator/internal/api/middleware"
	"github.com/olfat123/profile-creator/internal/services"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Forms    *handlers.FormHandler
	Profiles *handlers.ProfileHandler
	Taxonomy *handlers.TaxonomyHandler
	Session  *handlers.SessionHandler
	WS       *handlers.WSHandler // nil disables the admin feed

	Sessions services.SessionService
	Cookie   middleware.CookieConfig
	JWT      middleware.JWTConfig
	Log      *logrus.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Visitor routes (cookie session, optional)
	site := r.Group("/")
	site.Use(middleware.LoadSession(d.Sessions, d.Cookie, d.Log))

	site.GET("/forms/:type", d.Forms.View)
	site.POST("/forms/:type", d.Forms.Submit)
	site.GET("/profiles/:record_type/:slug", d.Profiles.Get)
	site.GET("/taxonomy", d.Taxonomy.Get)
	site.GET("/me", d.Session.Me)
	site.POST("/logout", d.Session.Logout)

	// Operator routes (JWT)
	if d.WS != nil {
		admin := r.Group("/admin")
		admin.Use(middleware.JWTAuth(d.JWT), middleware.RequireAdmin())
		admin.GET("/ws/submissions", d.WS.Submissions)
	}
}
