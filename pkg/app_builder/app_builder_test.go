package appbuilder

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"docvault/pkg/logger"
	"docvault/pkg/rest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitDefaultLogger(logger.GlobalLoggerConfig{})
	os.Exit(m.Run())
}

func TestNewRouterAppliesGroupMiddlewareOnlyToGroup(t *testing.T) {
	tagged := func(header string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Header(header, "1")
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	router := NewRouter(
		logger.Default(),
		[]rest.Middleware{
			rest.NewMiddleware(rest.GlobalGroup, tagged("X-Global")),
			rest.NewMiddleware("documents", tagged("X-Documents")),
		},
		[]rest.Route{
			rest.NewRoute(rest.GET, "documents", "approved", ok),
			rest.NewRoute(rest.DELETE, "documents", ":id", ok),
			rest.NewRoute(rest.POST, "auth", "register", ok),
		},
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/approved", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Global"))
	assert.Equal(t, "1", w.Header().Get("X-Documents"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/documents/42", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Global"))
	assert.Empty(t, w.Header().Get("X-Documents"))
}

func TestNewRouterRouteMiddlewareCanAbort(t *testing.T) {
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	router := NewRouter(logger.Default(), nil, []rest.Route{
		rest.NewRoute(rest.GET, "auth", "profile", func(c *gin.Context) { c.Status(http.StatusOK) }).With(deny),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
