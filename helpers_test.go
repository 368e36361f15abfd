package FastFile

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer 只包含路由的处理链，日志写入返回的 buffer
func newTestServer(t *testing.T, router *Router, middlewares ...Middleware) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := NewSyncLogger("test", LoggerConfig{Level: DEBUG, Output: &logs})
	c := newCore(DefaultConfig(), logger)
	c.addHandler(midToHandler(middlewares)...)
	c.addHandler(router.HandleHTTP)
	return c, &logs
}

func do(h http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
