package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/simple-task-app/internal/constants"
	"github.com/yukikurage/simple-task-app/internal/database"
	"github.com/yukikurage/simple-task-app/internal/dto"
	"github.com/yukikurage/simple-task-app/internal/models"
	"github.com/yukikurage/simple-task-app/internal/repository"
	"github.com/yukikurage/simple-task-app/internal/router"
	"github.com/yukikurage/simple-task-app/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AppTestSuite drives the full gin stack over httptest.
type AppTestSuite struct {
	suite.Suite
	db          *gorm.DB
	engine      *gin.Engine
	authService *services.AuthService
	cookie      *http.Cookie
}

func newEngine(db *gorm.DB, redisClient *redis.Client) (*gin.Engine, *services.AuthService) {
	gin.SetMode(gin.TestMode)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, services.NewBcryptHasher(bcrypt.MinCost))
	taskService := services.NewTaskService(repository.NewTaskRepository(db))

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	SetupRoutes(r, Handlers{
		Web:    NewWebHandler(router.New(authService, taskService)),
		Auth:   NewAuthHandler(authService),
		Tasks:  NewTaskHandler(taskService),
		Health: NewHealthHandler(db, redisClient),
	})
	return r, authService
}

func (suite *AppTestSuite) SetupTest() {
	db, err := database.OpenSQLite(":memory:", nil)
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(db))

	suite.db = db
	suite.engine, suite.authService = newEngine(db, nil)
	suite.cookie = nil
}

func (suite *AppTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// send performs a request carrying the current session cookie and keeps any
// cookie the response sets.
func (suite *AppTestSuite) send(req *http.Request) *httptest.ResponseRecorder {
	if suite.cookie != nil {
		req.AddCookie(suite.cookie)
	}
	w := httptest.NewRecorder()
	suite.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			suite.cookie = c
		}
	}
	return w
}

func (suite *AppTestSuite) get(path string) *httptest.ResponseRecorder {
	return suite.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (suite *AppTestSuite) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return suite.send(req)
}

func (suite *AppTestSuite) postJSON(path string, payload any) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return suite.send(req)
}

func (suite *AppTestSuite) login(username, password string) {
	_, err := suite.authService.Register(services.RegisterInput{Username: username, Password: password})
	suite.Require().NoError(err)
	w := suite.postForm("/login", url.Values{"username": {username}, "password": {password}})
	suite.Require().Equal(http.StatusFound, w.Code)
}

func (suite *AppTestSuite) TestIndex() {
	w := suite.get("/")
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/login", w.Header().Get("Location"))

	suite.login("alice", "pw1")
	w = suite.get("/")
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/dashboard", w.Header().Get("Location"))
}

func (suite *AppTestSuite) TestForms() {
	w := suite.get("/login")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `action="/login"`)

	w = suite.get("/register")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `action="/register"`)
}

func (suite *AppTestSuite) TestRegisterUser() {
	w := suite.postForm("/register", url.Values{"username": {"testuser"}, "password": {"testpassword"}})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/login", w.Header().Get("Location"))

	var user models.User
	suite.NoError(suite.db.Where("username = ?", "testuser").First(&user).Error)
}

func (suite *AppTestSuite) TestRegisterDuplicate() {
	suite.postForm("/register", url.Values{"username": {"alice"}, "password": {"pw1"}})

	w := suite.postForm("/register", url.Values{"username": {"alice"}, "password": {"pw2"}})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("User already exists!", w.Body.String())

	_, err := suite.authService.FindByCredentials("alice", "pw1")
	suite.NoError(err)
}

func (suite *AppTestSuite) TestInvalidLogin() {
	w := suite.postForm("/login", url.Values{"username": {"wronguser"}, "password": {"wrongpassword"}})
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Invalid credentials!")

	w = suite.get("/dashboard")
	suite.Equal(http.StatusFound, w.Code)
}

func (suite *AppTestSuite) TestDashboardRequiresLogin() {
	w := suite.get("/dashboard")
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/login", w.Header().Get("Location"))

	w = suite.postForm("/dashboard", url.Values{"title": {"nope"}})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/login", w.Header().Get("Location"))
}

func (suite *AppTestSuite) TestCreateTask() {
	suite.login("testuser", "testpassword")

	w := suite.postForm("/dashboard", url.Values{"title": {"Test Task"}})
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Test Task")

	var task models.Task
	suite.Require().NoError(suite.db.Where("title = ?", "Test Task").First(&task).Error)
	var user models.User
	suite.Require().NoError(suite.db.Where("username = ?", "testuser").First(&user).Error)
	suite.Equal(user.ID, task.UserID)
}

func (suite *AppTestSuite) TestLogout() {
	suite.login("alice", "pw1")

	w := suite.get("/logout")
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/login", w.Header().Get("Location"))

	w = suite.get("/dashboard")
	suite.Equal(http.StatusFound, w.Code)

	// Already anonymous.
	w = suite.get("/logout")
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/login", w.Header().Get("Location"))
}

func (suite *AppTestSuite) TestRegister_LongPassword() {
	password := strings.Repeat("p", 73)

	w := suite.postForm("/register", url.Values{"username": {"alice"}, "password": {password}})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/login", w.Header().Get("Location"))

	w = suite.postForm("/login", url.Values{"username": {"alice"}, "password": {password}})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/dashboard", w.Header().Get("Location"))
}

func (suite *AppTestSuite) TestUnsupportedMethod() {
	w := suite.postForm("/logout", url.Values{})
	suite.Equal(http.StatusMethodNotAllowed, w.Code)
	suite.Equal("Method Not Allowed", w.Body.String())

	req := httptest.NewRequest(http.MethodDelete, "/api/tasks", nil)
	w = suite.send(req)
	suite.Equal(http.StatusMethodNotAllowed, w.Code)

	w = suite.get("/missing")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AppTestSuite) TestScenario() {
	suite.postForm("/register", url.Values{"username": {"alice"}, "password": {"pw1"}})
	w := suite.postForm("/register", url.Values{"username": {"alice"}, "password": {"pw2"}})
	suite.Equal("User already exists!", w.Body.String())

	w = suite.postForm("/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	suite.Equal("/dashboard", w.Header().Get("Location"))

	w = suite.postForm("/dashboard", url.Values{"title": {"Buy milk"}})
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Buy milk")

	suite.postForm("/register", url.Values{"username": {"bob"}, "password": {"pw"}})
	suite.get("/logout")
	suite.postForm("/login", url.Values{"username": {"bob"}, "password": {"pw"}})
	w = suite.get("/dashboard")
	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "Buy milk")

	suite.get("/logout")
	w = suite.get("/dashboard")
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/login", w.Header().Get("Location"))
}

func (suite *AppTestSuite) TestAPI_RequiresSession() {
	for _, path := range []string{"/api/auth/me", "/api/tasks"} {
		w := suite.get(path)
		suite.Equal(http.StatusUnauthorized, w.Code, path)
	}
}

func (suite *AppTestSuite) TestAPI_Tasks() {
	suite.login("alice", "pw1")

	w := suite.get("/api/auth/me")
	suite.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &me))
	suite.Equal("alice", me.Username)

	w = suite.postJSON("/api/tasks", map[string]string{"title": "Buy milk"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal("Buy milk", created.Title)
	suite.Equal(me.ID, created.UserID)

	w = suite.postJSON("/api/tasks", map[string]string{})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.get("/api/tasks")
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Require().Len(list.Tasks, 1)
	suite.Equal("Buy milk", list.Tasks[0].Title)
}

func (suite *AppTestSuite) TestHealth() {
	w := suite.get("/health")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.get("/ready")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"database":"up"`)
	suite.NotContains(w.Body.String(), `"code"`)
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func TestReady_WithRedis(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	engine, _ := newEngine(db, client)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"up"`)

	mr.Close()

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"down"`)
	assert.Contains(t, w.Body.String(), `"code":"SERVICE_UNAVAILABLE"`)
}
