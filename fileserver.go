package FastFile

import (
	"bytes"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/miyingqi/FastFile/internal/listing"
)

// FileServer 以目录为根提供文件下载与目录浏览
type FileServer struct {
	root      string
	listing   bool
	rateLimit int // 每个下载的字节/秒，0 表示不限速
}

func NewFileServer(root string, enableListing bool, rateLimit int) *FileServer {
	return &FileServer{root: root, listing: enableListing, rateLimit: rateLimit}
}

// Register 在 prefix 下注册 GET 与 HEAD，目录页面的链接带上该前缀
func (fs *FileServer) Register(r *Router, prefix string) {
	base := cleanPrefix(prefix)
	pattern := joinPaths(base, "*filepath")
	handler := func(c *Context) { fs.serve(c, base) }
	r.GET(pattern, handler)
	r.HEAD(pattern, handler)
}

// serve base 为挂载前缀
// @Summary  下载文件或浏览目录
// @Param    filepath path   string false "相对根目录的路径"
// @Param    Range    header string false "bytes=start-end"
// @Success  200
// @Success  206
// @Failure  403,404,416,500
// @Router   /{filepath} [get]
func (fs *FileServer) serve(c *Context, base string) {
	clean := path.Clean("/" + c.Param("filepath"))
	segments := splitSegments(clean)
	full := filepath.Join(fs.root, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	if err != nil {
		c.FailWithError(err)
		return
	}

	if info.IsDir() {
		fs.serveDir(c, full, base, segments)
		return
	}
	// 文件不是目录，"/a.txt/" 不存在
	if strings.HasSuffix(c.Path(), "/") {
		c.NotFound("")
		return
	}

	reader, err := NewFileRangeReader(full)
	if err != nil {
		c.FailWithError(err)
		return
	}
	c.ServeRange(c.Request.Context(), NewThrottledReader(reader, fs.rateLimit))
}

func (fs *FileServer) serveDir(c *Context, dir, base string, segments []string) {
	if !strings.HasSuffix(c.Path(), "/") {
		target := c.Request.URL.EscapedPath() + "/"
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}
		c.Redirect(http.StatusMovedPermanently, target)
		return
	}
	if !fs.listing {
		c.Forbidden("directory listing disabled")
		return
	}

	entries, err := listing.Read(dir)
	if err != nil {
		c.FailWithError(err)
		return
	}
	var buf bytes.Buffer
	if err := listing.Render(&buf, listing.Page{Prefix: base, Segments: segments, Entries: entries}); err != nil {
		c.FailWithError(err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func splitSegments(clean string) []string {
	trimmed := strings.Trim(clean, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
