package FastFile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// LogLevel 定义日志级别
type LogLevel uint8

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

var levelStrings = [5]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorCyan    = "\033[36m"
	ColorBold    = "\033[1m"
	ColorBoldRed = "\033[1;31m"
)

var levelColors = [5]string{
	DEBUG:   ColorCyan,
	INFO:    ColorGreen,
	WARNING: ColorYellow,
	ERROR:   ColorRed,
	FATAL:   ColorBoldRed,
}

func (l LogLevel) String() string {
	if int(l) < len(levelStrings) {
		return levelStrings[l]
	}
	return "LEVEL(" + fmt.Sprint(uint8(l)) + ")"
}

// ParseLevel 解析配置中的级别名称，大小写不敏感
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARNING, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	}
	return INFO, errors.Errorf("unknown log level %q", s)
}

// Logger 框架内部使用的日志接口
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// isTerminal 输出是否为终端
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0 &&
		os.Getenv("TERM") != "dumb" &&
		os.Getenv("NO_COLOR") == ""
}

// LogRecord 日志记录结构
type LogRecord struct {
	Level   LogLevel
	Message string
	Time    time.Time
	Module  string // 模块名称，用于区分日志来源
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level       LogLevel
	Output      io.Writer
	BufferSize  int
	WorkerCount int
	EnableColor bool
}

var defaultConfig = LoggerConfig{
	Level:       INFO,
	BufferSize:  1000,
	WorkerCount: 1,
	EnableColor: true,
	Output:      os.Stdout,
}

// formatter 同步与异步日志器共用的格式化逻辑
type formatter struct {
	color   bool
	bufPool sync.Pool
}

func newFormatter(output io.Writer, enableColor bool) *formatter {
	return &formatter{
		color: enableColor && isTerminal(output),
		bufPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 256))
			},
		},
	}
}

func (f *formatter) paint(text, code string) string {
	if !f.color {
		return text
	}
	return code + text + ColorReset
}

// write [时间] [级别] [模块] 消息
func (f *formatter) write(w io.Writer, record LogRecord) {
	buf := f.bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		f.bufPool.Put(buf)
	}()

	buf.WriteString("[")
	buf.WriteString(record.Time.Format("2006-01-02 15:04:05"))
	buf.WriteString("] [")
	buf.WriteString(f.paint(record.Level.String(), levelColors[record.Level]))
	buf.WriteString("] ")
	if record.Module != "" {
		buf.WriteString("[")
		buf.WriteString(f.paint(record.Module, ColorCyan))
		buf.WriteString("] ")
	}
	buf.WriteString(record.Message)
	buf.WriteString("\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to write log: %v\n", err)
	}
}

// AsyncLogger 异步日志记录器，日志先进入缓冲通道再由工作协程写出
type AsyncLogger struct {
	level  int32
	module string
	output io.Writer
	queue  chan LogRecord
	wg     sync.WaitGroup
	mu     sync.RWMutex // 保护 closed 与 queue 的关闭
	closed bool
	fm     *formatter
}

// NewAsyncLogger 创建异步日志记录器
func NewAsyncLogger(module string, config LoggerConfig) *AsyncLogger {
	if config.Output == nil {
		config.Output = defaultConfig.Output
	}
	if config.BufferSize <= 0 {
		config.BufferSize = defaultConfig.BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaultConfig.WorkerCount
	}

	al := &AsyncLogger{
		level:  int32(config.Level),
		module: module,
		output: config.Output,
		queue:  make(chan LogRecord, config.BufferSize),
		fm:     newFormatter(config.Output, config.EnableColor),
	}
	for i := 0; i < config.WorkerCount; i++ {
		al.wg.Add(1)
		go al.worker()
	}
	return al
}

// NewDefaultAsyncLogger 使用默认配置
func NewDefaultAsyncLogger(module string) *AsyncLogger {
	return NewAsyncLogger(module, defaultConfig)
}

func (al *AsyncLogger) worker() {
	defer al.wg.Done()
	for record := range al.queue {
		al.fm.write(al.output, record)
	}
}

func (al *AsyncLogger) enqueue(level LogLevel, format string, args []interface{}) {
	if level < LogLevel(atomic.LoadInt32(&al.level)) {
		return
	}

	al.mu.RLock()
	defer al.mu.RUnlock()
	if al.closed {
		return
	}

	record := LogRecord{
		Level:   level,
		Message: SafeFormat(format, args...),
		Time:    time.Now(),
		Module:  al.module,
	}
	select {
	case al.queue <- record:
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Log queue full, dropping log: %s\n", record.Message)
	}
}

// SetLevel 设置日志级别
func (al *AsyncLogger) SetLevel(level LogLevel) {
	atomic.StoreInt32(&al.level, int32(level))
}

// GetLevel 获取当前日志级别
func (al *AsyncLogger) GetLevel() LogLevel {
	return LogLevel(atomic.LoadInt32(&al.level))
}

func (al *AsyncLogger) Debug(format string, args ...interface{}) {
	al.enqueue(DEBUG, format, args)
}

func (al *AsyncLogger) Info(format string, args ...interface{}) {
	al.enqueue(INFO, format, args)
}

func (al *AsyncLogger) Warning(format string, args ...interface{}) {
	al.enqueue(WARNING, format, args)
}

func (al *AsyncLogger) Error(format string, args ...interface{}) {
	al.enqueue(ERROR, format, args)
}

// Fatal 记录后刷新队列并退出进程
func (al *AsyncLogger) Fatal(format string, args ...interface{}) {
	al.enqueue(FATAL, format, args)
	_ = al.Close()
	os.Exit(1)
}

// Close 停止接收日志，等待队列中的记录全部写出
func (al *AsyncLogger) Close() error {
	al.mu.Lock()
	if al.closed {
		al.mu.Unlock()
		return nil
	}
	al.closed = true
	close(al.queue)
	al.mu.Unlock()

	al.wg.Wait()
	return nil
}

// SyncLogger 同步日志记录器，调用方协程直接写出
type SyncLogger struct {
	level  int32
	module string
	output io.Writer
	mutex  sync.Mutex
	fm     *formatter
}

// NewSyncLogger 创建同步日志记录器
func NewSyncLogger(module string, config LoggerConfig) *SyncLogger {
	if config.Output == nil {
		config.Output = defaultConfig.Output
	}
	return &SyncLogger{
		level:  int32(config.Level),
		module: module,
		output: config.Output,
		fm:     newFormatter(config.Output, config.EnableColor),
	}
}

// NewDefaultSyncLogger 使用默认配置
func NewDefaultSyncLogger(module string) *SyncLogger {
	return NewSyncLogger(module, defaultConfig)
}

func (sl *SyncLogger) log(level LogLevel, format string, args []interface{}) {
	if level < LogLevel(atomic.LoadInt32(&sl.level)) {
		return
	}
	record := LogRecord{
		Level:   level,
		Message: SafeFormat(format, args...),
		Time:    time.Now(),
		Module:  sl.module,
	}
	sl.mutex.Lock()
	defer sl.mutex.Unlock()
	sl.fm.write(sl.output, record)
}

func (sl *SyncLogger) SetLevel(level LogLevel) {
	atomic.StoreInt32(&sl.level, int32(level))
}

func (sl *SyncLogger) GetLevel() LogLevel {
	return LogLevel(atomic.LoadInt32(&sl.level))
}

func (sl *SyncLogger) Debug(format string, args ...interface{}) {
	sl.log(DEBUG, format, args)
}

func (sl *SyncLogger) Info(format string, args ...interface{}) {
	sl.log(INFO, format, args)
}

func (sl *SyncLogger) Warning(format string, args ...interface{}) {
	sl.log(WARNING, format, args)
}

func (sl *SyncLogger) Error(format string, args ...interface{}) {
	sl.log(ERROR, format, args)
}

func (sl *SyncLogger) Fatal(format string, args ...interface{}) {
	sl.log(FATAL, format, args)
	os.Exit(1)
}

// FileWriter 文件写入器，超过 maxSize 时轮转
type FileWriter struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
	maxSize  int64 // 最大文件大小，单位字节，0 表示不轮转
	size     int64
}

// NewFileWriter 创建文件写入器
func NewFileWriter(filePath string, maxSize int64) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}
	fw := &FileWriter{
		filePath: filePath,
		file:     file,
		maxSize:  maxSize,
	}
	if info, err := file.Stat(); err == nil {
		fw.size = info.Size()
	}
	return fw, nil
}

// Write 写入数据到文件
func (fw *FileWriter) Write(p []byte) (n int, err error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.maxSize > 0 && fw.size > 0 && fw.size+int64(len(p)) > fw.maxSize {
		if err := fw.rotateLocked(); err != nil {
			return 0, err
		}
	}
	n, err = fw.file.Write(p)
	fw.size += int64(n)
	return n, err
}

// rotateLocked 调用方需持有 fw.mu
func (fw *FileWriter) rotateLocked() error {
	if err := fw.file.Close(); err != nil {
		return errors.Wrap(err, "failed to close current log file")
	}

	backupName := fmt.Sprintf("%s.%s", fw.filePath, time.Now().Format("2006-01-02T15-04-05.000"))
	renameErr := os.Rename(fw.filePath, backupName)

	file, err := os.OpenFile(fw.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to reopen log file")
	}
	fw.file = file
	if renameErr != nil {
		return errors.Wrap(renameErr, "failed to rotate log file")
	}
	fw.size = 0
	return nil
}

// Close 关闭文件写入器
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.file.Close()
}

// SafeFormat 安全格式化字符串，args 为空时不做格式化
func SafeFormat(format string, args ...interface{}) (s string) {
	if len(args) == 0 {
		return format
	}
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprint(append([]interface{}{format, " "}, args...)...)
		}
	}()
	return fmt.Sprintf(format, args...)
}
