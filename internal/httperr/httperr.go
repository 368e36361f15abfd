// Package httperr 把存储层和范围解析的错误映射为 HTTP 状态码。
package httperr

import (
	"io/fs"
	"net/http"

	"github.com/miyingqi/FastFile/internal/byterange"
	"github.com/pkg/errors"
)

// StatusOf 返回 err 对应的状态码，包装过的错误同样适用
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case byterange.IsUnsatisfiable(err):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Text 状态码短语，未知状态码返回 "Unknown"
func Text(code int) string {
	if s := http.StatusText(code); s != "" {
		return s
	}
	return "Unknown"
}

