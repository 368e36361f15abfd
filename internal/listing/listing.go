// Package listing 生成目录浏览页面：条目读取、链接编码、本地时间格式化。
package listing

import (
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// TimeLayout 目录页使用的时间格式（本地时区）
const TimeLayout = "2006-01-02 15:04:05"

// Entry 目录中的一项
type Entry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// EncodeLinkPath 对每个路径段做 URL 编码后用 "/" 拼接
func EncodeLinkPath(segments []string) string {
	encoded := make([]string, len(segments))
	for i, s := range segments {
		encoded[i] = url.PathEscape(s)
	}
	return strings.Join(encoded, "/")
}

// FormatTime 转为本地时区并格式化
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// Now 当前本地时间字符串
func Now() string {
	return FormatTime(time.Now())
}

// EnabledString 启动日志里的开关描述
func EnabledString(value bool) string {
	if value {
		return "enabled"
	}
	return "disabled"
}

// Read 读取目录，目录在前，同类按名称排序
func Read(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read dir %s", dir)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			// 读取期间被删除的文件直接跳过
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", de.Name())
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// HumanSize 1536 -> "1.5 KB"
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return formatInt(n) + " B"
	}
	units := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	f := float64(n) / unit
	i := 0
	for f >= unit && i < len(units)-1 {
		f /= unit
		i++
	}
	return strings.TrimSuffix(strings.TrimSuffix(formatFloat(f), "0"), ".") + " " + units[i]
}
