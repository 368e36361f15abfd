package FastFile

import (
	"bytes"
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// RangeReader 断点续传数据源通用接口
// 任意存储类型（本地文件/对象存储/内存）只需实现此接口，即可支持断点续传
type RangeReader interface {
	// Size 返回数据总大小（字节）
	Size() int64

	// ReadRange 读取 [offset, offset+length) 的数据，调用方负责关闭
	ReadRange(ctx context.Context, offset, length int64) (io.ReadCloser, error)

	// Name 返回数据名称
	Name() string

	// ContentType 返回数据的MIME类型（如application/pdf）
	ContentType() string

	// ModTime 最后修改时间，未知时返回零值
	ModTime() time.Time
}

// FileRangeReader 本地文件，每次 ReadRange 单独打开文件
type FileRangeReader struct {
	filePath string
	info     os.FileInfo
}

// NewFileRangeReader stat 文件，目录返回错误
func NewFileRangeReader(filePath string) (*FileRangeReader, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", filePath)
	}
	if info.IsDir() {
		return nil, errors.Errorf("%s is a directory", filePath)
	}
	return &FileRangeReader{filePath: filePath, info: info}, nil
}

func (fr *FileRangeReader) Size() int64 {
	return fr.info.Size()
}

func (fr *FileRangeReader) Name() string {
	return filepath.Base(fr.filePath)
}

func (fr *FileRangeReader) ContentType() string {
	return contentTypeByName(fr.Name())
}

func (fr *FileRangeReader) ModTime() time.Time {
	return fr.info.ModTime()
}

type limitedFile struct {
	io.Reader
	io.Closer
}

func (fr *FileRangeReader) ReadRange(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(fr.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fr.filePath)
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "seek %s to %d", fr.filePath, offset)
	}
	return limitedFile{Reader: io.LimitReader(file, length), Closer: file}, nil
}

// BytesRangeReader 内存数据源
type BytesRangeReader struct {
	name    string
	data    []byte
	modTime time.Time
}

func NewBytesRangeReader(name string, data []byte, modTime time.Time) *BytesRangeReader {
	return &BytesRangeReader{name: name, data: data, modTime: modTime}
}

func (br *BytesRangeReader) Size() int64 {
	return int64(len(br.data))
}

func (br *BytesRangeReader) Name() string {
	return br.name
}

func (br *BytesRangeReader) ContentType() string {
	return contentTypeByName(br.name)
}

func (br *BytesRangeReader) ModTime() time.Time {
	return br.modTime
}

func (br *BytesRangeReader) ReadRange(_ context.Context, offset, length int64) (io.ReadCloser, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(br.data)) {
		return nil, errors.Errorf("range %d+%d out of bounds (size %d)", offset, length, len(br.data))
	}
	return io.NopCloser(bytes.NewReader(br.data[offset : offset+length])), nil
}

func contentTypeByName(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
