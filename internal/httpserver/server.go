package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rockettalk/internal/service"
	"rockettalk/internal/session"
	"rockettalk/pkg/logger"
)

// Server holds the handler dependencies for the web app.
type Server struct {
	messages      *service.MessageService
	auth          *service.AuthService
	notifications service.NotificationStore
	alerts        session.AlertStore
	jwtSecret     string
	tokenTTL      time.Duration
	logger        *zap.Logger
}

func NewServer(
	messages *service.MessageService,
	auth *service.AuthService,
	notifications service.NotificationStore,
	alerts session.AlertStore,
	jwtSecret string,
	tokenTTL time.Duration,
	log *zap.Logger,
) *Server {
	return &Server{
		messages:      messages,
		auth:          auth,
		notifications: notifications,
		alerts:        alerts,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		logger:        log,
	}
}

// saveSuccess stores a success flash alert for the current session.
func (s *Server) saveSuccess(c *gin.Context, message string) {
	s.saveAlert(c, session.Alert{Kind: session.KindSuccess, Message: message})
}

// saveDanger stores a danger flash alert for the current session.
func (s *Server) saveDanger(c *gin.Context, message string) {
	s.saveAlert(c, session.Alert{Kind: session.KindDanger, Message: message})
}

func (s *Server) saveAlert(c *gin.Context, alert session.Alert) {
	sid := c.GetString(ctxSessionID)
	if sid == "" {
		return
	}
	if err := s.alerts.Save(c.Request.Context(), sid, alert); err != nil {
		logger.WithTrace(c.Request.Context(), s.logger).Error("Failed to save alert",
			zap.String("kind", alert.Kind),
			zap.Error(err),
		)
	}
}

// loadAlerts drains the pending flash alerts for the current session.
func (s *Server) loadAlerts(c *gin.Context) []session.Alert {
	sid := c.GetString(ctxSessionID)
	if sid == "" {
		return nil
	}
	alerts, err := s.alerts.Drain(c.Request.Context(), sid)
	if err != nil {
		logger.WithTrace(c.Request.Context(), s.logger).Error("Failed to load alerts", zap.Error(err))
		return nil
	}
	return alerts
}
