package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/simple-task-app/internal/constants"
)

func TestSession_States(t *testing.T) {
	anon := Anonymous()
	_, ok := anon.UserID()
	assert.False(t, ok)
	assert.False(t, anon.IsAuthenticated())

	auth := Authenticated(7)
	id, ok := auth.UserID()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), id)
	assert.True(t, auth.IsAuthenticated())

	assert.Equal(t, Anonymous(), Session{})
	assert.NotEqual(t, Anonymous(), Authenticated(0))
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	return r
}

func TestSaveAndLoad_RoundTripsThroughCookie(t *testing.T) {
	r := newTestRouter()
	r.GET("/bind", func(c *gin.Context) {
		require.NoError(t, Save(c, Authenticated(42)))
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := FromContext(c).UserID()
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})
	r.GET("/clear", func(c *gin.Context) {
		require.NoError(t, Save(c, Anonymous()))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bind", nil))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":42,"ok":true}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/clear", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cleared[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":0,"ok":false}`, w.Body.String())
}

func TestFromContext_NoCookieIsAnonymous(t *testing.T) {
	r := newTestRouter()
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authenticated": FromContext(c).IsAuthenticated()})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}
