package httpserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rockettalk/internal/httpserver"
	"rockettalk/internal/model"
	"rockettalk/internal/service"
	"rockettalk/internal/session"
	"rockettalk/internal/util"
)

const testSecret = "handler-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) Publish(routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// testApp bundles the router with the in-memory stores behind it.
type testApp struct {
	router        *httpserver.Router
	messages      *service.MemoryMessageStore
	notifications *service.MemoryNotificationStore
	alerts        *session.MemoryAlerts
	publisher     *fakePublisher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := service.NewMemoryUserStore()
	for username, password := range map[string]string{
		"jessie":  "frog",
		"james":   "potato",
		"cassidy": "dog",
	} {
		hash, err := util.HashPassword(password)
		require.NoError(t, err)
		require.NoError(t, users.Create(context.Background(), &model.User{
			Username:     username,
			PasswordHash: hash,
		}))
	}

	messages := service.NewMemoryMessageStore()
	notifications := service.NewMemoryNotificationStore()
	alerts := session.NewMemoryAlerts()
	publisher := &fakePublisher{}

	server := httpserver.NewServer(
		service.NewMessageService(messages, publisher),
		service.NewAuthService(users, testSecret, time.Hour),
		notifications,
		alerts,
		testSecret,
		time.Hour,
		zap.NewNop(),
	)

	return &testApp{
		router:        httpserver.NewRouter(server),
		messages:      messages,
		notifications: notifications,
		alerts:        alerts,
		publisher:     publisher,
	}
}

// client is a minimal cookie-jar HTTP client against the test router.
type client struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client(t *testing.T) *client {
	return &client{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.app.router.Engine.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
		} else {
			c.cookies[cookie.Name] = cookie
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form)
}

func (c *client) login(username, password string) *httptest.ResponseRecorder {
	return c.post("/login/", url.Values{"username": {username}, "password": {password}})
}

func (c *client) sessionID() string {
	if cookie, ok := c.cookies[session.SessionCookie]; ok {
		return cookie.Value
	}
	return ""
}

// drainAlerts reads and clears the pending alerts for this client's session.
func (c *client) drainAlerts() []session.Alert {
	c.t.Helper()
	alerts, err := c.app.alerts.Drain(context.Background(), c.sessionID())
	require.NoError(c.t, err)
	return alerts
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, location, w.Header().Get("Location"))
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp(t)
	uuid := "b58cba44-da39-11e5-9342-56f85ff10656"

	paths := []string{
		"/",
		"/compose/",
		"/shred/",
		"/view/" + uuid + "/",
		"/delete/" + uuid + "/",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := app.client(t).get(path)
			assertRedirect(t, w, "/login/")
		})
	}
}

func TestLoggedInUserIsNotRedirected(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")

	for _, path := range []string{"/", "/compose/", "/shred/"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, c.get(path).Code)
		})
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	// The page loads
	assert.Equal(t, http.StatusOK, c.get("/login/").Code)

	// Bad username
	assertRedirect(t, c.login("carmon", "frog"), "/login/")
	assert.NotContains(t, c.cookies, session.LoginCookie)

	// Bad password
	assertRedirect(t, c.login("jessie", "fwog"), "/login/")
	assert.NotContains(t, c.cookies, session.LoginCookie)

	// Passwords keep their capitalization
	assertRedirect(t, c.login("jessie", "FROG"), "/login/")
	assert.NotContains(t, c.cookies, session.LoginCookie)

	c.drainAlerts()

	// Good credentials
	assertRedirect(t, c.login("jessie", "frog"), "/")
	require.Contains(t, c.cookies, session.LoginCookie)
	username, err := session.ParseToken(c.cookies[session.LoginCookie].Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "jessie", username)

	assert.Equal(t, []session.Alert{
		{Kind: session.KindSuccess, Message: "Successfully logged in as jessie."},
	}, c.drainAlerts())

	// Usernames are case insensitive
	assertRedirect(t, c.login("Jessie", "frog"), "/")
	username, err = session.ParseToken(c.cookies[session.LoginCookie].Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "jessie", username)
}

func TestLoginFormAlerts(t *testing.T) {
	app := newTestApp(t)

	t.Run("missing fields", func(t *testing.T) {
		c := app.client(t)
		w := c.post("/login/", url.Values{"usernam": {"carmon"}, "passwor": {"frog"}})
		assertRedirect(t, w, "/login/")

		assert.Equal(t, []session.Alert{
			{Kind: session.KindDanger, Message: "Missing username field!"},
			{Kind: session.KindDanger, Message: "Missing password field!"},
		}, c.drainAlerts())
	})

	t.Run("blank fields", func(t *testing.T) {
		c := app.client(t)
		w := c.post("/login/", url.Values{"username": {""}, "password": {""}})
		assertRedirect(t, w, "/login/")

		assert.Equal(t, []session.Alert{
			{Kind: session.KindDanger, Message: "username field cannot be blank!"},
			{Kind: session.KindDanger, Message: "password field cannot be blank!"},
		}, c.drainAlerts())
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")
	require.Contains(t, c.cookies, session.LoginCookie)

	w := c.get("/logout/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, c.cookies, session.LoginCookie)

	// Back to being redirected
	assertRedirect(t, c.get("/"), "/login/")
}

func TestComposeAndList(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")
	c.drainAlerts()

	w := c.post("/compose/", url.Values{
		"to":      {"james"},
		"subject": {"plans"},
		"body":    {"meet at noon"},
	})
	assertRedirect(t, w, "/")

	assert.Equal(t, []session.Alert{
		{Kind: session.KindSuccess, Message: "Message sent!"},
	}, c.drainAlerts())

	assert.Equal(t, 1, app.messages.Len())
	assert.Equal(t, 1, app.publisher.count())

	// The sender sees it under sent messages
	w = c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "plans")

	// The recipient sees it under received messages
	c2 := app.client(t)
	assertRedirect(t, c2.login("james", "potato"), "/")
	w = c2.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "plans")

	// A third party does not see it
	c3 := app.client(t)
	assertRedirect(t, c3.login("cassidy", "dog"), "/")
	w = c3.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "plans")
}

func TestComposeValidationAlerts(t *testing.T) {
	app := newTestApp(t)

	t.Run("blank fields", func(t *testing.T) {
		c := app.client(t)
		assertRedirect(t, c.login("jessie", "frog"), "/")
		c.drainAlerts()

		w := c.post("/compose/", url.Values{"to": {""}, "subject": {""}, "body": {""}})
		assertRedirect(t, w, "/compose/")

		assert.Equal(t, []session.Alert{
			{Kind: session.KindDanger, Message: "to field cannot be blank!"},
			{Kind: session.KindDanger, Message: "subject field cannot be blank!"},
			{Kind: session.KindDanger, Message: "body field cannot be blank!"},
		}, c.drainAlerts())
		assert.Equal(t, 0, app.messages.Len())
	})

	t.Run("missing fields", func(t *testing.T) {
		c := app.client(t)
		assertRedirect(t, c.login("jessie", "frog"), "/")
		c.drainAlerts()

		w := c.post("/compose/", url.Values{"two": {"B"}, "subjec": {"A"}, "bodee": {"nope"}})
		assertRedirect(t, w, "/compose/")

		assert.Equal(t, []session.Alert{
			{Kind: session.KindDanger, Message: "Missing to field!"},
			{Kind: session.KindDanger, Message: "Missing subject field!"},
			{Kind: session.KindDanger, Message: "Missing body field!"},
		}, c.drainAlerts())
		assert.Equal(t, 0, app.messages.Len())
	})
}

func TestComposeFormListsOtherPeople(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")

	w := c.get("/compose/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "james")
	assert.Contains(t, body, "cassidy")
	assert.NotContains(t, body, `<option value="jessie">`)
}

// sendMessage composes one message as the given client and returns its id.
func sendMessage(t *testing.T, app *testApp, c *client, to, subject, body string) string {
	t.Helper()
	w := c.post("/compose/", url.Values{"to": {to}, "subject": {subject}, "body": {body}})
	assertRedirect(t, w, "/")
	c.drainAlerts()

	sent, err := app.messages.ListSent(context.Background(), "jessie")
	require.NoError(t, err)
	require.NotEmpty(t, sent)
	return sent[0].ID
}

func TestViewAuthorization(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")
	id := sendMessage(t, app, c, "james", "s", "S")

	// The sender can see it
	assert.Equal(t, http.StatusOK, c.get("/view/"+id+"/").Code)

	// The recipient can see it
	c2 := app.client(t)
	assertRedirect(t, c2.login("james", "potato"), "/")
	assert.Equal(t, http.StatusOK, c2.get("/view/"+id+"/").Code)

	// Cassidy cannot
	c3 := app.client(t)
	assertRedirect(t, c3.login("cassidy", "dog"), "/")
	c3.drainAlerts()
	assertRedirect(t, c3.get("/view/"+id+"/"), "/")
	assert.Equal(t, []session.Alert{
		{Kind: session.KindDanger, Message: "User not authorized to view message"},
	}, c3.drainAlerts())
}

func TestDelete(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")
	id := sendMessage(t, app, c, "james", "s", "S")

	// The confirmation page changes nothing
	assert.Equal(t, http.StatusOK, c.get("/delete/"+id+"/").Code)
	assert.Equal(t, 1, app.messages.Len())

	// Posting the form deletes
	assertRedirect(t, c.post("/delete/"+id+"/", url.Values{}), "/")
	assert.Equal(t, 0, app.messages.Len())
	assert.Equal(t, []session.Alert{
		{Kind: session.KindSuccess, Message: "Deleted " + id + "."},
	}, c.drainAlerts())
}

func TestDeleteBogusMessage(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")
	c.drainAlerts()

	bogus := "b58cba44-da39-11e5-9342-56f85ff10656"
	assertRedirect(t, c.post("/delete/"+bogus+"/", url.Values{}), "/")
	assert.Equal(t, []session.Alert{
		{Kind: session.KindDanger, Message: "Unable to load message"},
	}, c.drainAlerts())
}

func TestMessageIDFormatIsEnforced(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")

	assert.Equal(t, http.StatusNotFound, c.get("/view/short-id-but-not-a-message-uuid/").Code)
}

func TestShred(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	assertRedirect(t, c.login("jessie", "frog"), "/")
	c.drainAlerts()

	for _, subject := range []string{"a", "b", "c"} {
		w := c.post("/compose/", url.Values{"to": {"james"}, "subject": {subject}, "body": {"x"}})
		assertRedirect(t, w, "/")
	}
	c.drainAlerts()
	require.Equal(t, 3, app.messages.Len())

	// The confirmation page changes nothing
	assert.Equal(t, http.StatusOK, c.get("/shred/").Code)
	assert.Equal(t, 3, app.messages.Len())

	// Posting the form wipes everything
	assertRedirect(t, c.post("/shred/", url.Values{}), "/")
	assert.Equal(t, 0, app.messages.Len())
	assert.Equal(t, []session.Alert{
		{Kind: session.KindSuccess, Message: "Shredded all messages."},
	}, c.drainAlerts())
}

func TestUnreadNotificationsShownOnceOnList(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.notifications.Create(ctx, &model.Notification{
		Username:  "james",
		MessageID: "b58cba44-da39-11e5-9342-56f85ff10656",
		Content:   "New message from jessie: plans",
	}))

	c := app.client(t)
	assertRedirect(t, c.login("james", "potato"), "/")

	w := c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1 new message notification")

	// the banner clears after being shown
	unread, err := app.notifications.CountUnread(ctx, "james")
	require.NoError(t, err)
	assert.Equal(t, 0, unread)
}
