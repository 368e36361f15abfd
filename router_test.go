package FastFile

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterParamsAndGroups(t *testing.T) {
	router := NewRouter()
	var order []string

	api := router.Group("/api")
	api.Use(func(c *Context) {
		order = append(order, "api")
		c.Next()
	})
	v1 := api.Group("v1")
	v1.Use(func(c *Context) {
		order = append(order, "v1")
		c.Next()
	})
	v1.GET("/users/:id", func(c *Context) {
		order = append(order, "handler")
		c.SendString(http.StatusOK, "user "+c.Params.ByName("id"))
	})
	router.GET("/", func(c *Context) { c.SendString(http.StatusOK, "root") })

	h, _ := newTestServer(t, router)

	rec := do(h, http.MethodGet, "/api/v1/users/42", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user 42", rec.Body.String())
	assert.Equal(t, []string{"api", "v1", "handler"}, order)

	rec = do(h, http.MethodGet, "/", nil)
	assert.Equal(t, "root", rec.Body.String())
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	router := NewRouter()
	router.GET("/files/*filepath", func(c *Context) { c.SendString(http.StatusOK, c.Param("filepath")) })
	router.HEAD("/files/*filepath", func(c *Context) { c.SetStatus(http.StatusOK) })
	h, _ := newTestServer(t, router)

	rec := do(h, http.MethodGet, "/files/a/b.txt", nil)
	assert.Equal(t, "a/b.txt", rec.Body.String())

	rec = do(h, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPost, "/files/a", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestRouterAbort(t *testing.T) {
	router := NewRouter()
	called := false
	router.GET("/secret",
		func(c *Context) { c.Fail(http.StatusUnauthorized, "") },
		func(c *Context) { called = true },
	)
	h, _ := newTestServer(t, router)

	rec := do(h, http.MethodGet, "/secret", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", rec.Body.String())
	assert.False(t, called)
}

func TestMergeRouter(t *testing.T) {
	admin := NewRouter()
	admin.Group("/admin").GET("/stats/:name", func(c *Context) {
		c.SendString(http.StatusOK, "stats "+c.Param("name"))
	})

	router := NewRouter()
	router.MergeRouter(admin)
	h, _ := newTestServer(t, router)

	rec := do(h, http.MethodGet, "/admin/stats/disk", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stats disk", rec.Body.String())
}

func TestJoinPaths(t *testing.T) {
	assert.Equal(t, "/", joinPaths("", ""))
	assert.Equal(t, "/api", joinPaths("/api", ""))
	assert.Equal(t, "/api/users", joinPaths("/api", "/users"))
	assert.Equal(t, "/*filepath", joinPaths(cleanPrefix("/"), "*filepath"))
	assert.Equal(t, "/static/*filepath", joinPaths(cleanPrefix("static/"), "*filepath"))
}
