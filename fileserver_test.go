package FastFile

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileServerFixture(t *testing.T, enableListing bool) http.Handler {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello, world"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "my docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "my docs", "a b.bin"), testData(300), 0o644))

	router := NewRouter()
	NewFileServer(root, enableListing, 0).Register(router, "/")
	h, _ := newTestServer(t, router)
	return h
}

func TestFileServerFile(t *testing.T) {
	h := fileServerFixture(t, true)

	rec := do(h, http.MethodGet, "/hello.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello, world", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Last-Modified"))

	rec = do(h, http.MethodGet, "/hello.txt", map[string]string{"Range": "bytes=7-"})
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "world", rec.Body.String())
	assert.Equal(t, "bytes 7-11/12", rec.Header().Get("Content-Range"))

	rec = do(h, http.MethodGet, "/my%20docs/a%20b.bin", map[string]string{"Range": "bytes=-100"})
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, testData(300)[200:], rec.Body.Bytes())

	rec = do(h, http.MethodGet, "/hello.txt", map[string]string{"Range": "bytes=12-"})
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, rec.Code)
	assert.Equal(t, "bytes */12", rec.Header().Get("Content-Range"))

	rec = do(h, http.MethodHead, "/hello.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", rec.Header().Get("Content-Length"))
	assert.Zero(t, rec.Body.Len())
}

func TestFileServerErrors(t *testing.T) {
	h := fileServerFixture(t, true)

	rec := do(h, http.MethodGet, "/missing.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/../../etc/passwd", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodDelete, "/hello.txt", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// 普通文件后面带斜杠不是合法路径
	rec = do(h, http.MethodGet, "/hello.txt/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())
}

func TestFileServerPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Mkdir(locked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "f"), []byte("x"), 0o644))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	router := NewRouter()
	NewFileServer(root, true, 0).Register(router, "/")
	h, _ := newTestServer(t, router)

	rec := do(h, http.MethodGet, "/locked/f", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFileServerListing(t *testing.T) {
	h := fileServerFixture(t, true)

	rec := do(h, http.MethodGet, "/my%20docs?x=1", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/my%20docs/?x=1", rec.Header().Get("Location"))

	rec = do(h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `href="/my%20docs/"`)
	assert.Contains(t, rec.Body.String(), `href="/hello.txt"`)

	rec = do(h, http.MethodGet, "/my%20docs/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/my%20docs/a%20b.bin"`)
}

func TestFileServerListingUnderPrefix(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "a.txt"), []byte("hello"), 0o644))

	router := NewRouter()
	NewFileServer(root, true, 0).Register(router, "/dl")
	h, _ := newTestServer(t, router)

	rec := do(h, http.MethodGet, "/dl/sub", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/dl/sub/", rec.Header().Get("Location"))

	rec = do(h, http.MethodGet, "/dl/sub/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/dl/sub/a.txt"`)
	assert.Contains(t, body, `href="/dl/"`)
	assert.NotContains(t, body, `href="/sub/a.txt"`)

	// 页面上的链接可以直接访问
	rec = do(h, http.MethodGet, "/dl/sub/a.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())

	rec = do(h, http.MethodGet, "/dl/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/dl/sub/"`)

	rec = do(h, http.MethodGet, "/dl/sub/a.txt/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileServerListingDisabled(t *testing.T) {
	h := fileServerFixture(t, false)

	rec := do(h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(h, http.MethodGet, "/hello.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFileServerThrottled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.bin"), testData(4096), 0o644))

	router := NewRouter()
	NewFileServer(root, true, 1<<20).Register(router, "/dl")
	h, _ := newTestServer(t, router)

	rec := do(h, http.MethodGet, "/dl/f.bin", map[string]string{"Range": "bytes=1024-2047"})
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, testData(4096)[1024:2048], rec.Body.Bytes())
}
