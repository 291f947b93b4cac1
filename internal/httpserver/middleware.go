package httpserver

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rockettalk/internal/model"
	"rockettalk/internal/session"
	"rockettalk/pkg/metrics"
	"rockettalk/pkg/trace"
)

// Context keys set by the middleware below.
const (
	ctxUsername  = "username"
	ctxSessionID = "session_id"
	ctxMessage   = "message"
)

var messageIDPattern = regexp.MustCompile(`^[0-9a-f\-]{36}$`)

// TraceMiddleware propagates or generates a trace id for each request.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName)
		if traceID == "" {
			traceID = trace.New()
		}
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName, traceID)
		c.Next()
	}
}

// MetricsMiddleware records request durations per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// SessionMiddleware makes sure every browser carries a session id cookie,
// which keys the flash alert store.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(session.SessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(session.SessionCookie, sid, 0, "/", "", false, true)
		}
		c.Set(ctxSessionID, sid)
		c.Next()
	}
}

// RequireLogin redirects to /login/ unless the login cookie holds a valid
// token. The username is stored in the gin context for handlers.
func RequireLogin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.LoginCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login/")
			c.Abort()
			return
		}

		username, err := session.ParseToken(token, secret)
		if err != nil {
			c.Redirect(http.StatusFound, "/login/")
			c.Abort()
			return
		}

		c.Set(ctxUsername, username)
		c.Next()
	}
}

// RequireMessageAccess loads the message from the :id route param and makes
// sure the logged-in user sent or received it. The loaded message is stored
// in the gin context so handlers do not fetch it twice.
func (s *Server) RequireMessageAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString(ctxUsername)
		id := c.Param("id")

		if !messageIDPattern.MatchString(id) {
			c.String(http.StatusNotFound, "not found")
			c.Abort()
			return
		}

		msg, err := s.messages.Get(c.Request.Context(), id)
		if err != nil {
			s.saveDanger(c, "Unable to load message")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		if msg.To != username && msg.From != username {
			s.saveDanger(c, "User not authorized to view message")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set(ctxMessage, msg)
		c.Next()
	}
}

// messageFromContext returns the message loaded by RequireMessageAccess.
func messageFromContext(c *gin.Context) (*model.Message, bool) {
	v, ok := c.Get(ctxMessage)
	if !ok {
		return nil, false
	}
	m, ok := v.(*model.Message)
	return m, ok
}
