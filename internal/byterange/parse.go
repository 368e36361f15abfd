package byterange

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformed Range 头语法错误，HTTP 层应当忽略该头
var ErrMalformed = errors.New("malformed range header")

const bytesUnit = "bytes"

// Parse 解析 "bytes=0-99, -50, 100-" 形式的 Range 头。
// 起止颠倒的 "y-x" 在这里照常返回，由 Resolve 拒绝。
func Parse(header string) ([]Spec, error) {
	unit, set, ok := strings.Cut(strings.TrimSpace(header), "=")
	if !ok || !strings.EqualFold(strings.TrimSpace(unit), bytesUnit) {
		return nil, errors.Wrapf(ErrMalformed, "unsupported unit in %q", header)
	}

	var specs []Spec
	for _, elem := range strings.Split(set, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		spec, err := parseSpec(elem)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, errors.Wrapf(ErrMalformed, "no ranges in %q", header)
	}
	return specs, nil
}

func parseSpec(elem string) (Spec, error) {
	first, last, ok := strings.Cut(elem, "-")
	if !ok {
		return Spec{}, errors.Wrapf(ErrMalformed, "missing '-' in %q", elem)
	}
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)

	if first == "" {
		n, err := parseBound(last)
		if err != nil {
			return Spec{}, errors.Wrapf(err, "suffix-length in %q", elem)
		}
		return SuffixLength(n), nil
	}

	start, err := parseBound(first)
	if err != nil {
		return Spec{}, errors.Wrapf(err, "first-byte-pos in %q", elem)
	}
	if last == "" {
		return AllFrom(start), nil
	}
	end, err := parseBound(last)
	if err != nil {
		return Spec{}, errors.Wrapf(err, "last-byte-pos in %q", elem)
	}
	return FromTo(start, end), nil
}

// parseBound 只接受十进制数字
func parseBound(s string) (uint64, error) {
	if s == "" {
		return 0, ErrMalformed
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrMalformed
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(ErrMalformed, err.Error())
	}
	return n, nil
}
