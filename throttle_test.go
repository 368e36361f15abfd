package FastFile

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottledReaderDisabled(t *testing.T) {
	reader := NewBytesRangeReader("a.bin", []byte("abc"), time.Time{})
	assert.Same(t, reader, NewThrottledReader(reader, 0).(*BytesRangeReader))
	assert.Same(t, reader, NewThrottledReader(reader, -5).(*BytesRangeReader))
}

func TestThrottledReaderPacesBody(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 128) // 2 KiB
	reader := NewThrottledReader(NewBytesRangeReader("a.bin", data, time.Time{}), 1024)
	assert.Equal(t, int64(len(data)), reader.Size())
	assert.Equal(t, "a.bin", reader.Name())

	start := time.Now()
	body, err := reader.ReadRange(context.Background(), 0, int64(len(data)))
	require.NoError(t, err)
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())

	assert.Equal(t, data, got)
	// 桶初始满 1 KiB，剩余 1 KiB 需要等待约一秒
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
}

func TestThrottledReaderCanceled(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, 4096)
	reader := NewThrottledReader(NewBytesRangeReader("a.bin", data, time.Time{}), 1024)

	ctx, cancel := context.WithCancel(context.Background())
	body, err := reader.ReadRange(ctx, 0, int64(len(data)))
	require.NoError(t, err)
	defer body.Close()

	cancel()
	_, err = io.ReadAll(body)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThrottledReaderPropagatesErrors(t *testing.T) {
	reader := NewThrottledReader(NewBytesRangeReader("a.bin", []byte("abc"), time.Time{}), 1024)
	_, err := reader.ReadRange(context.Background(), 2, 5)
	assert.Error(t, err)
}
