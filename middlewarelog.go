package FastFile

import "strconv"

// MiddlewareLog 访问日志中间件
type MiddlewareLog struct {
	logger Logger
}

// NewMiddlewareLog 创建日志中间件，logger 为 nil 时使用默认异步日志器
func NewMiddlewareLog(logger Logger) *MiddlewareLog {
	if logger == nil {
		logger = NewDefaultAsyncLogger("HTTP")
	}
	return &MiddlewareLog{logger: logger}
}

// Handle 请求完成后记录一行访问日志
func (m *MiddlewareLog) Handle(c *Context) {
	c.Next()

	rt := float64(c.Elapsed().Nanoseconds()) / 1e6
	m.logger.Info("%s %s %s %d %s rt:%sms id:%s ua:%q",
		c.ClientIP(),
		c.Method(),
		c.Path(),
		c.StatusCode(),
		c.StatusString(c.StatusCode()),
		strconv.FormatFloat(rt, 'f', 1, 64),
		c.RequestID(),
		c.UserAgent(),
	)
}
