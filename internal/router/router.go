// Package router holds the page flow of the app behind a framework-free
// contract: a Request carries the method, path, form fields and current
// session; the returned Response carries the status, what to show and the
// session to store.
package router

import (
	"errors"
	"net/http"
	"net/url"
	"sort"

	"github.com/yukikurage/simple-task-app/internal/constants"
	"github.com/yukikurage/simple-task-app/internal/models"
	"github.com/yukikurage/simple-task-app/internal/services"
	"github.com/yukikurage/simple-task-app/internal/session"
)

// View template names.
const (
	ViewLogin     = "login.html"
	ViewRegister  = "register.html"
	ViewDashboard = "dashboard.html"
)

type Request struct {
	Method  string
	Path    string
	Form    url.Values
	Session session.Session
}

// Response is one of: a redirect (Location set), a plain body, or a view to
// render with Data.
type Response struct {
	Status   int
	Location string
	Body     string
	View     string
	Data     any
	Session  session.Session
}

// IsRedirect reports whether the response sends the client elsewhere.
func (r Response) IsRedirect() bool {
	return r.Location != ""
}

// DashboardData is passed to the dashboard view.
type DashboardData struct {
	Tasks []models.Task
}

// Route is a method and path the router answers.
type Route struct {
	Method string
	Path   string
}

type handlerFunc func(req Request) (Response, error)

// Router dispatches requests to the auth and task services.
type Router struct {
	auth   *services.AuthService
	tasks  *services.TaskService
	routes map[string]map[string]handlerFunc
}

// New creates a Router.
func New(auth *services.AuthService, tasks *services.TaskService) *Router {
	rt := &Router{
		auth:  auth,
		tasks: tasks,
	}
	rt.routes = map[string]map[string]handlerFunc{
		constants.PathRoot: {
			http.MethodGet: rt.index,
		},
		constants.PathRegister: {
			http.MethodGet:  rt.registerForm,
			http.MethodPost: rt.register,
		},
		constants.PathLogin: {
			http.MethodGet:  rt.loginForm,
			http.MethodPost: rt.login,
		},
		constants.PathDashboard: {
			http.MethodGet:  rt.dashboard,
			http.MethodPost: rt.dashboard,
		},
		constants.PathLogout: {
			http.MethodGet: rt.logout,
		},
	}
	return rt
}

// Routes lists every method and path the router answers, sorted by path.
func (rt *Router) Routes() []Route {
	routes := make([]Route, 0, 8)
	for path, methods := range rt.routes {
		for method := range methods {
			routes = append(routes, Route{Method: method, Path: path})
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}

// HasPath reports whether path is served for at least one method.
func (rt *Router) HasPath(path string) bool {
	_, ok := rt.routes[path]
	return ok
}

// Handle answers one request. Errors are storage failures; the domain errors
// of the auth flow are turned into responses here.
func (rt *Router) Handle(req Request) (Response, error) {
	methods, ok := rt.routes[req.Path]
	if !ok {
		return text(req.Session, http.StatusNotFound, "Not Found"), nil
	}
	handler, ok := methods[req.Method]
	if !ok {
		return text(req.Session, http.StatusMethodNotAllowed, "Method Not Allowed"), nil
	}
	return handler(req)
}

func (rt *Router) index(req Request) (Response, error) {
	if req.Session.IsAuthenticated() {
		return redirect(req.Session, constants.PathDashboard), nil
	}
	return redirect(req.Session, constants.PathLogin), nil
}

func (rt *Router) registerForm(req Request) (Response, error) {
	return view(req.Session, ViewRegister, nil), nil
}

func (rt *Router) register(req Request) (Response, error) {
	fields, ok := formValues(req.Form, "username", "password")
	if !ok {
		return badRequest(req.Session), nil
	}

	_, err := rt.auth.Register(services.RegisterInput{
		Username: fields[0],
		Password: fields[1],
	})
	if errors.Is(err, services.ErrDuplicateUsername) {
		return text(req.Session, http.StatusOK, constants.MsgUserExists), nil
	}
	if err != nil {
		return Response{}, err
	}

	return redirect(req.Session, constants.PathLogin), nil
}

func (rt *Router) loginForm(req Request) (Response, error) {
	return view(req.Session, ViewLogin, nil), nil
}

func (rt *Router) login(req Request) (Response, error) {
	fields, ok := formValues(req.Form, "username", "password")
	if !ok {
		return badRequest(req.Session), nil
	}

	_, sess, err := rt.auth.Login(services.LoginInput{
		Username: fields[0],
		Password: fields[1],
	})
	if errors.Is(err, services.ErrInvalidCredentials) {
		return text(req.Session, http.StatusOK, constants.MsgInvalidCredentials), nil
	}
	if err != nil {
		return Response{}, err
	}

	return redirect(sess, constants.PathDashboard), nil
}

func (rt *Router) dashboard(req Request) (Response, error) {
	userID, err := rt.auth.RequireSession(req.Session)
	if errors.Is(err, services.ErrUnauthenticated) {
		return redirect(req.Session, constants.PathLogin), nil
	}
	if err != nil {
		return Response{}, err
	}

	if req.Method == http.MethodPost {
		fields, ok := formValues(req.Form, "title")
		if !ok {
			return badRequest(req.Session), nil
		}
		if _, err := rt.tasks.AddTask(services.AddTaskInput{
			UserID: userID,
			Title:  fields[0],
		}); err != nil {
			return Response{}, err
		}
	}

	tasks, err := rt.tasks.ListTasks(userID)
	if err != nil {
		return Response{}, err
	}

	return view(req.Session, ViewDashboard, DashboardData{Tasks: tasks}), nil
}

func (rt *Router) logout(req Request) (Response, error) {
	return redirect(rt.auth.Logout(req.Session), constants.PathLogin), nil
}

// formValues returns the first value of each key. A key that is absent from
// the form makes the submission invalid; an empty value does not.
func formValues(form url.Values, keys ...string) ([]string, bool) {
	values := make([]string, len(keys))
	for i, key := range keys {
		v, ok := form[key]
		if !ok || len(v) == 0 {
			return nil, false
		}
		values[i] = v[0]
	}
	return values, true
}

func redirect(sess session.Session, location string) Response {
	return Response{Status: http.StatusFound, Location: location, Session: sess}
}

func text(sess session.Session, status int, body string) Response {
	return Response{Status: status, Body: body, Session: sess}
}

func view(sess session.Session, name string, data any) Response {
	return Response{Status: http.StatusOK, View: name, Data: data, Session: sess}
}

func badRequest(sess session.Session) Response {
	return text(sess, http.StatusBadRequest, "Bad Request")
}
