// Package byterange 将客户端的 Range 请求与资源总大小换算为实际读取的字节窗口。
package byterange

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Kind 区分三种范围写法
type Kind uint8

const (
	KindFromTo       Kind = iota + 1 // "x-y"
	KindAllFrom                      // "x-"
	KindSuffixLength                 // "-x"
)

// Spec 单个范围描述，只由 FromTo / AllFrom / SuffixLength 构造
type Spec struct {
	Kind   Kind
	Start  uint64
	End    uint64
	Length uint64
}

// FromTo 闭区间 [start, end]
func FromTo(start, end uint64) Spec {
	return Spec{Kind: KindFromTo, Start: start, End: end}
}

// AllFrom [start, total-1]
func AllFrom(start uint64) Spec {
	return Spec{Kind: KindAllFrom, Start: start}
}

// SuffixLength 资源末尾的 length 个字节
func SuffixLength(length uint64) Spec {
	return Spec{Kind: KindSuffixLength, Length: length}
}

func (s Spec) String() string {
	switch s.Kind {
	case KindFromTo:
		return strconv.FormatUint(s.Start, 10) + "-" + strconv.FormatUint(s.End, 10)
	case KindAllFrom:
		return strconv.FormatUint(s.Start, 10) + "-"
	case KindSuffixLength:
		return "-" + strconv.FormatUint(s.Length, 10)
	}
	return "invalid"
}

// Window 解析后的读取窗口，Offset+Length <= total 且 Length >= 1
type Window struct {
	Offset uint64
	Length uint64
}

// Last 窗口最后一个字节的偏移
func (w Window) Last() uint64 {
	return w.Offset + w.Length - 1
}

// ContentRange 206 响应的 Content-Range 值
func (w Window) ContentRange(total uint64) string {
	return fmt.Sprintf("bytes %d-%d/%d", w.Offset, w.Last(), total)
}

// UnsatisfiedContentRange 416 响应的 Content-Range 值
func UnsatisfiedContentRange(total uint64) string {
	return fmt.Sprintf("bytes */%d", total)
}

// ErrorKind 拒绝原因分类，目前只有 Unsatisfiable
type ErrorKind uint8

const (
	Unsatisfiable ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	if k == Unsatisfiable {
		return "unsatisfiable"
	}
	return "unknown"
}

// Error 范围无法满足，调用方应映射为 416
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func unsatisfiable(format string, args ...interface{}) error {
	return &Error{Kind: Unsatisfiable, Msg: fmt.Sprintf(format, args...)}
}

// IsUnsatisfiable 判断 err（可能被包装过）是否为范围拒绝
func IsUnsatisfiable(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == Unsatisfiable
}

// Resolve 只看 specs 的第一个元素，其余范围被忽略（不支持 multipart/byteranges）。
func Resolve(specs []Spec, total uint64) (Window, error) {
	if len(specs) == 0 {
		return Window{}, unsatisfiable("empty range set")
	}

	spec := specs[0]
	switch spec.Kind {
	case KindFromTo:
		x, y := spec.Start, spec.End
		if x >= total || x > y {
			return Window{}, unsatisfiable("invalid range(x=%d, y=%d), content-length: %d", x, y, total)
		}
		if y >= total {
			y = total - 1
		}
		return Window{Offset: x, Length: y - x + 1}, nil

	case KindAllFrom:
		x := spec.Start
		if x >= total {
			return Window{}, unsatisfiable("range start too large (x=%d), content-length: %d", x, total)
		}
		return Window{Offset: x, Length: total - x}, nil

	case KindSuffixLength:
		x := spec.Length
		if x > total {
			x = total
		}
		// 零长度窗口不是有意义的部分内容
		if total == 0 {
			return Window{}, unsatisfiable("suffix range (-%d) of empty resource", spec.Length)
		}
		if x == 0 {
			return Window{}, unsatisfiable("zero-length suffix range (-%d), content-length: %d", spec.Length, total)
		}
		return Window{Offset: total - x, Length: x}, nil
	}

	return Window{}, unsatisfiable("unknown range kind %d", spec.Kind)
}
