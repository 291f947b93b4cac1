package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rockettalk/internal/form"
	"rockettalk/internal/service"
	"rockettalk/internal/session"
	"rockettalk/pkg/logger"
	"rockettalk/pkg/metrics"
)

// ShowLoginForm handles GET /login/.
func (s *Server) ShowLoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Alerts": s.loadAlerts(c),
	})
}

// ProcessLoginForm handles POST /login/. Bad forms and bad credentials both
// save danger alerts and bounce back to the login page.
func (s *Server) ProcessLoginForm(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		s.saveDanger(c, "Unable to read login form.")
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	if errs := form.ValidateLogin(c.Request.PostForm); len(errs) > 0 {
		for _, e := range errs {
			s.saveDanger(c, e)
		}
		metrics.LoginAttempts.WithLabelValues("invalid_form").Inc()
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	username := c.Request.PostForm.Get("username")
	password := c.Request.PostForm.Get("password")

	canonical, token, err := s.auth.Login(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logger.WithTrace(c.Request.Context(), s.logger).Error("Login failed", zap.Error(err))
		}
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.saveDanger(c, "Incorrect username/password information.")
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	c.SetCookie(session.LoginCookie, token, int(s.tokenTTL.Seconds()), "/", "", false, true)
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.saveSuccess(c, fmt.Sprintf("Successfully logged in as %s.", canonical))
	c.Redirect(http.StatusFound, "/")
}

// Logout handles GET /logout/ by clearing the login cookie.
func (s *Server) Logout(c *gin.Context) {
	c.SetCookie(session.LoginCookie, "", -1, "/", "", false, true)
	c.HTML(http.StatusOK, "logged_out.html", gin.H{
		"Alerts": s.loadAlerts(c),
	})
}

// Health handles GET /healthz.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
