package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rockettalk/internal/form"
	"rockettalk/pkg/logger"
)

// ListMessages handles GET /. It shows the user's sent and received
// messages, most recent first, plus any pending alerts.
func (s *Server) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.GetString(ctxUsername)

	sent, err := s.messages.ListSent(ctx, username)
	if err != nil {
		s.renderError(c, "Failed to load sent messages", err)
		return
	}

	received, err := s.messages.ListReceived(ctx, username)
	if err != nil {
		s.renderError(c, "Failed to load received messages", err)
		return
	}

	unread, err := s.notifications.CountUnread(ctx, username)
	if err != nil {
		logger.WithTrace(ctx, s.logger).Warn("Failed to count notifications", zap.Error(err))
	} else if unread > 0 {
		if err := s.notifications.MarkRead(ctx, username); err != nil {
			logger.WithTrace(ctx, s.logger).Warn("Failed to mark notifications read", zap.Error(err))
		}
	}

	c.HTML(http.StatusOK, "list_messages.html", gin.H{
		"Username":         username,
		"SentMessages":     sent,
		"ReceivedMessages": received,
		"UnreadCount":      unread,
		"Alerts":           s.loadAlerts(c),
	})
}

// ShowComposeForm handles GET /compose/. The recipient picker lists every
// roster character except the sender.
func (s *Server) ShowComposeForm(c *gin.Context) {
	username := c.GetString(ctxUsername)

	people, err := s.auth.People(c.Request.Context(), username)
	if err != nil {
		s.renderError(c, "Failed to load roster", err)
		return
	}

	c.HTML(http.StatusOK, "compose_message.html", gin.H{
		"Username": username,
		"People":   people,
		"Alerts":   s.loadAlerts(c),
	})
}

// ProcessComposeForm handles POST /compose/. Validation errors become danger
// alerts and return the user to the form; a stored message redirects home.
func (s *Server) ProcessComposeForm(c *gin.Context) {
	username := c.GetString(ctxUsername)

	if err := c.Request.ParseForm(); err != nil {
		s.saveDanger(c, "Unable to read message form.")
		c.Redirect(http.StatusFound, "/compose/")
		return
	}

	if errs := form.ValidateCompose(c.Request.PostForm); len(errs) > 0 {
		for _, e := range errs {
			s.saveDanger(c, e)
		}
		c.Redirect(http.StatusFound, "/compose/")
		return
	}

	to := c.Request.PostForm.Get("to")
	subject := c.Request.PostForm.Get("subject")
	body := c.Request.PostForm.Get("body")

	if _, err := s.messages.Send(c.Request.Context(), username, to, subject, body); err != nil {
		logger.WithTrace(c.Request.Context(), s.logger).Error("Failed to send message", zap.Error(err))
		s.saveDanger(c, "Failed to send message.")
		c.Redirect(http.StatusFound, "/compose/")
		return
	}

	s.saveSuccess(c, "Message sent!")
	c.Redirect(http.StatusFound, "/")
}

// ViewMessage handles GET /view/:id/. Access is checked by
// RequireMessageAccess.
func (s *Server) ViewMessage(c *gin.Context) {
	msg, ok := messageFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "view_message.html", gin.H{
		"Username": c.GetString(ctxUsername),
		"Message":  msg,
	})
}

// ShowDeleteForm handles GET /delete/:id/. It only renders the confirmation
// page; nothing is deleted until the form is posted.
func (s *Server) ShowDeleteForm(c *gin.Context) {
	msg, ok := messageFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "delete_message.html", gin.H{
		"Username": c.GetString(ctxUsername),
		"Message":  msg,
	})
}

// DeleteMessage handles POST /delete/:id/.
func (s *Server) DeleteMessage(c *gin.Context) {
	id := c.Param("id")

	existed, err := s.messages.Delete(c.Request.Context(), id)
	if err != nil || !existed {
		s.saveDanger(c, fmt.Sprintf("No such message %s", id))
	} else {
		s.saveSuccess(c, fmt.Sprintf("Deleted %s.", id))
	}
	c.Redirect(http.StatusFound, "/")
}

// ShowShredForm handles GET /shred/.
func (s *Server) ShowShredForm(c *gin.Context) {
	c.HTML(http.StatusOK, "shred_messages.html", gin.H{
		"Username": c.GetString(ctxUsername),
	})
}

// ShredMessages handles POST /shred/ and deletes every message in the
// system, matching the roster-wide shredder the app has always shipped.
func (s *Server) ShredMessages(c *gin.Context) {
	if err := s.messages.Shred(c.Request.Context()); err != nil {
		logger.WithTrace(c.Request.Context(), s.logger).Error("Failed to shred messages", zap.Error(err))
		s.saveDanger(c, "Failed to shred messages.")
	} else {
		s.saveSuccess(c, "Shredded all messages.")
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) renderError(c *gin.Context, msg string, err error) {
	logger.WithTrace(c.Request.Context(), s.logger).Error(msg, zap.Error(err))
	c.String(http.StatusInternalServerError, "internal error")
}
