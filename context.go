package FastFile

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/miyingqi/FastFile/internal/httperr"
)

// FJ JSON 响应的快捷类型
type FJ map[string]interface{}

// HandlerFunc 处理函数
type HandlerFunc func(*Context)

// HandlersChain 处理器链
type HandlersChain []HandlerFunc

// Params 路径参数
type Params map[string]string

// ByName 获取路径参数，不存在时返回空字符串
func (p Params) ByName(name string) string {
	return p[name]
}

const headerRequestID = "X-Request-Id"

// Context 请求上下文，由 core 的对象池复用
type Context struct {
	// 原始 HTTP 对象
	Request *http.Request
	Writer  http.ResponseWriter
	Params  Params

	query url.Values

	// 响应信息
	statusCode int
	written    bool

	store map[string]interface{}

	// 处理器链
	handlers HandlersChain
	index    int
	aborted  bool

	startTime time.Time
	requestID string
	logger    Logger
}

// NewContext 创建上下文，writer 与 request 可以为 nil（对象池预分配）
func NewContext(writer http.ResponseWriter, request *http.Request) *Context {
	c := &Context{
		Params: make(Params),
		store:  make(map[string]interface{}),
	}
	if request != nil {
		c.Reset(writer, request)
	}
	return c
}

// Reset 复用前重置所有请求相关状态
func (c *Context) Reset(writer http.ResponseWriter, request *http.Request) {
	c.Request = request
	c.Writer = writer
	for k := range c.Params {
		delete(c.Params, k)
	}
	for k := range c.store {
		delete(c.store, k)
	}
	c.query = nil
	c.statusCode = http.StatusOK
	c.written = false
	c.handlers = c.handlers[:0]
	c.index = -1
	c.aborted = false
	c.startTime = time.Now()

	c.requestID = request.Header.Get(headerRequestID)
	if c.requestID == "" {
		c.requestID = uuid.NewString()
	}
	if writer != nil {
		writer.Header().Set(headerRequestID, c.requestID)
	}
}

// SetHandles 设置处理器链，复制到上下文自己的切片中
func (c *Context) SetHandles(handlers HandlersChain) {
	c.handlers = append(c.handlers[:0], handlers...)
}

// pushHandlers 在当前处理器之后追加处理器（路由命中后使用）
func (c *Context) pushHandlers(handlers HandlersChain) {
	c.handlers = append(c.handlers[:c.index+1], handlers...)
}

// Next 执行剩余的处理器
func (c *Context) Next() {
	c.index++
	for c.index < len(c.handlers) && !c.aborted {
		c.handlers[c.index](c)
		c.index++
	}
}

// Abort 阻止后续处理器执行
func (c *Context) Abort() {
	c.aborted = true
}

func (c *Context) IsAborted() bool {
	return c.aborted
}

// AbortWithStatus 写入状态码并终止
func (c *Context) AbortWithStatus(code int) {
	c.WriteHeader(code)
	c.Abort()
}

func (c *Context) Method() string {
	return c.Request.Method
}

func (c *Context) Path() string {
	return c.Request.URL.Path
}

func (c *Context) StatusCode() int {
	return c.statusCode
}

func (c *Context) RequestID() string {
	return c.requestID
}

// Elapsed 请求开始至今的耗时
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (c *Context) UserAgent() string {
	return c.Request.UserAgent()
}

// ClientIP 优先使用 X-Forwarded-For / X-Real-IP
func (c *Context) ClientIP() string {
	if xff := c.Request.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Request.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

func (c *Context) GetHeader(key string) string {
	return c.Request.Header.Get(key)
}

// Range 请求的 Range 头
func (c *Context) Range() string {
	return c.Request.Header.Get("Range")
}

// Query 查询参数
func (c *Context) Query(key string) string {
	if c.query == nil {
		c.query = c.Request.URL.Query()
	}
	return c.query.Get(key)
}

// Param 路径参数
func (c *Context) Param(key string) string {
	return c.Params.ByName(key)
}

func (c *Context) Set(key string, value interface{}) {
	c.store[key] = value
}

func (c *Context) Get(key string) (value interface{}, exists bool) {
	value, exists = c.store[key]
	return
}

// Logger 当前请求使用的日志器
func (c *Context) Logger() Logger {
	if c.logger == nil {
		return discardLogger{}
	}
	return c.logger
}

func (c *Context) SetHeader(key string, values ...string) {
	if len(values) == 0 {
		return
	}
	c.Writer.Header().Set(key, strings.Join(values, ", "))
}

// SetStatus 仅记录状态码，真正写出发生在 WriteHeader
func (c *Context) SetStatus(code int) {
	if !c.written {
		c.statusCode = code
	}
}

// WriteHeader 写出状态码，重复调用会被忽略
func (c *Context) WriteHeader(code int) {
	if c.written {
		return
	}
	c.statusCode = code
	c.written = true
	c.Writer.WriteHeader(code)
}

// Written 响应头是否已写出
func (c *Context) Written() bool {
	return c.written
}

func (c *Context) Write(p []byte) (int, error) {
	if !c.written {
		c.WriteHeader(c.statusCode)
	}
	return c.Writer.Write(p)
}

func (c *Context) Data(code int, contentType string, data []byte) {
	c.SetHeader("Content-Type", contentType)
	c.WriteHeader(code)
	if c.Request.Method == http.MethodHead {
		return
	}
	if _, err := c.Writer.Write(data); err != nil {
		c.Logger().Debug("write response: %v", err)
	}
}

func (c *Context) SendString(code int, body string) {
	c.Data(code, "text/plain; charset=utf-8", []byte(body))
}

func (c *Context) SendHtml(code int, html string) {
	c.Data(code, "text/html; charset=utf-8", []byte(html))
}

func (c *Context) SendJson(code int, obj interface{}) {
	data, err := json.Marshal(obj)
	if err != nil {
		c.FailWithError(err)
		return
	}
	c.Data(code, "application/json; charset=utf-8", data)
}

func (c *Context) Redirect(code int, location string) {
	http.Redirect(c, c.Request, location, code)
}

// Header 实现 http.ResponseWriter，供 http.Redirect 等标准库函数使用
func (c *Context) Header() http.Header {
	return c.Writer.Header()
}

// Fail 以状态码短语与消息回复并终止
func (c *Context) Fail(code int, message string) {
	if message == "" {
		message = httperr.Text(code)
	}
	c.SendString(code, message)
	c.Abort()
}

// FailWithError 根据错误类型选择状态码，500 不向客户端暴露细节
func (c *Context) FailWithError(err error) {
	code := httperr.StatusOf(err)
	if code >= http.StatusInternalServerError {
		c.Logger().Error("%s %s [%s]: %v", c.Method(), c.Path(), c.requestID, err)
		c.Fail(code, "")
		return
	}
	c.Logger().Debug("%s %s [%s]: %v", c.Method(), c.Path(), c.requestID, err)
	c.Fail(code, httperr.Text(code))
}

func (c *Context) NotFound(message string) {
	c.Fail(http.StatusNotFound, message)
}

func (c *Context) Forbidden(message string) {
	c.Fail(http.StatusForbidden, message)
}

func (c *Context) BadRequest(message string) {
	c.Fail(http.StatusBadRequest, message)
}

func (c *Context) InternalServerError(message string) {
	c.Fail(http.StatusInternalServerError, message)
}

// StatusString 状态码短语
func (c *Context) StatusString(code int) string {
	return httperr.Text(code)
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{})   {}
func (discardLogger) Info(string, ...interface{})    {}
func (discardLogger) Warning(string, ...interface{}) {}
func (discardLogger) Error(string, ...interface{})   {}
