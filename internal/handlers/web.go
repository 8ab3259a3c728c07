package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/simple-task-app/internal/router"
	"github.com/yukikurage/simple-task-app/internal/session"
)

// WebHandler serves the HTML pages through the page router.
type WebHandler struct {
	router *router.Router
}

// NewWebHandler creates a new WebHandler.
func NewWebHandler(r *router.Router) *WebHandler {
	return &WebHandler{router: r}
}

// Register mounts every page route on r.
func (h *WebHandler) Register(r gin.IRoutes) {
	for _, route := range h.router.Routes() {
		r.Handle(route.Method, route.Path, h.Serve)
	}
}

// NoMethod answers requests whose path is registered under other methods
// only. Page paths go through the router so it decides the response.
func (h *WebHandler) NoMethod(c *gin.Context) {
	if h.router.HasPath(c.Request.URL.Path) {
		h.Serve(c)
		return
	}
	c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
}

// Serve converts the gin request, hands it to the page router, stores the
// resulting session and writes the response.
func (h *WebHandler) Serve(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "Bad Request")
		return
	}

	current := session.FromContext(c)
	resp, err := h.router.Handle(router.Request{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Form:    c.Request.PostForm,
		Session: current,
	})
	if err != nil {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if resp.Session != current {
		if err := session.Save(c, resp.Session); err != nil {
			log.Printf("failed to save session: %v", err)
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}

	switch {
	case resp.IsRedirect():
		c.Redirect(resp.Status, resp.Location)
	case resp.View != "":
		c.HTML(resp.Status, resp.View, resp.Data)
	default:
		c.String(resp.Status, resp.Body)
	}
}
