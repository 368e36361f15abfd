package FastFile

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

type throttledRangeReader struct {
	RangeReader
	bytesPerSecond int
}

// NewThrottledReader 每次 ReadRange 返回一个独立限速的读取器，bytesPerSecond <= 0 时不限速
func NewThrottledReader(reader RangeReader, bytesPerSecond int) RangeReader {
	if bytesPerSecond <= 0 {
		return reader
	}
	return &throttledRangeReader{RangeReader: reader, bytesPerSecond: bytesPerSecond}
}

func (t *throttledRangeReader) ReadRange(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	body, err := t.RangeReader.ReadRange(ctx, offset, length)
	if err != nil {
		return nil, err
	}
	return NewRateLimitedReader(ctx, body, rate.NewLimiter(rate.Limit(t.bytesPerSecond), t.bytesPerSecond)), nil
}

// RateLimitedReader 限速 Reader
type RateLimitedReader struct {
	ctx     context.Context
	body    io.ReadCloser
	limiter *rate.Limiter
}

func NewRateLimitedReader(ctx context.Context, body io.ReadCloser, limiter *rate.Limiter) *RateLimitedReader {
	return &RateLimitedReader{ctx: ctx, body: body, limiter: limiter}
}

// Read 单次读取不超过令牌桶容量，读到数据后等待对应令牌
func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if burst := r.limiter.Burst(); burst > 0 && len(p) > burst {
		p = p[:burst]
	}
	n, err := r.body.Read(p)
	if n > 0 {
		if werr := r.limiter.WaitN(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (r *RateLimitedReader) Close() error {
	return r.body.Close()
}
