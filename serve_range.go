package FastFile

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/miyingqi/FastFile/internal/byterange"
	"github.com/pkg/errors"
)

// ServeRange 按 Range 头输出 reader 的内容。
//
// 没有 Range 头或语法错误时返回 200 与完整内容；可满足时返回 206；
// 无法满足时返回 416 并带上 "Content-Range: bytes */total"。
// 多个范围只处理第一个。
func (c *Context) ServeRange(ctx context.Context, reader RangeReader) {
	size := reader.Size()
	if size < 0 {
		c.FailWithError(errors.Errorf("%s: negative size %d", reader.Name(), size))
		return
	}
	total := uint64(size)

	h := c.Writer.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Type", reader.ContentType())
	if mt := reader.ModTime(); !mt.IsZero() {
		h.Set("Last-Modified", mt.UTC().Format(http.TimeFormat))
	}

	status := http.StatusOK
	window := byterange.Window{Offset: 0, Length: total}

	if header := c.Range(); header != "" {
		specs, err := byterange.Parse(header)
		if err != nil {
			c.Logger().Debug("ignore range header of %s: %v", reader.Name(), err)
		} else {
			if len(specs) > 1 {
				c.Logger().Debug("%s: %d ranges requested, serving %s only", reader.Name(), len(specs), specs[0])
			}
			w, err := byterange.Resolve(specs, total)
			if err != nil {
				c.Logger().Warning("%s %q: %v", reader.Name(), header, err)
				h.Set("Content-Range", byterange.UnsatisfiedContentRange(total))
				c.Fail(http.StatusRequestedRangeNotSatisfiable, err.Error())
				return
			}
			status = http.StatusPartialContent
			window = w
			h.Set("Content-Range", w.ContentRange(total))
		}
	}

	if c.Method() == http.MethodHead || window.Length == 0 {
		h.Set("Content-Length", strconv.FormatUint(window.Length, 10))
		c.WriteHeader(status)
		return
	}

	body, err := reader.ReadRange(ctx, int64(window.Offset), int64(window.Length))
	if err != nil {
		h.Del("Content-Range")
		c.FailWithError(errors.Wrapf(err, "read %s", reader.Name()))
		return
	}
	defer body.Close()

	h.Set("Content-Length", strconv.FormatUint(window.Length, 10))
	c.WriteHeader(status)
	n, err := io.CopyN(c.Writer, body, int64(window.Length))
	if err != nil {
		// 头已写出，只能记录
		c.Logger().Warning("%s: sent %d of %d bytes: %v", reader.Name(), n, window.Length, err)
	}
}
