package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(s *Server) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(SessionMiddleware())

	r.SetHTMLTemplate(loadTemplates())
	r.StaticFS("/assets", assetFileSystem())

	// Public
	r.GET("/login/", s.ShowLoginForm)
	r.POST("/login/", s.ProcessLoginForm)
	r.GET("/logout/", s.Logout)
	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(RequireLogin(s.jwtSecret))
	{
		auth.GET("/", s.ListMessages)
		auth.GET("/compose/", s.ShowComposeForm)
		auth.POST("/compose/", s.ProcessComposeForm)
		auth.GET("/shred/", s.ShowShredForm)
		auth.POST("/shred/", s.ShredMessages)

		owned := auth.Group("/")
		owned.Use(s.RequireMessageAccess())
		{
			owned.GET("/view/:id/", s.ViewMessage)
			owned.GET("/delete/:id/", s.ShowDeleteForm)
			owned.POST("/delete/:id/", s.DeleteMessage)
		}
	}

	return &Router{Engine: r}
}

func (r *Router) Run(addr string) error {
	return r.Engine.Run(addr)
}
