package FastFile

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// CorsConfig 跨域配置
type CorsConfig struct {
	AllowOrigins     []string // "*" 表示任意来源
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	AllowOriginRegex []*regexp.Regexp
	ExposeHeaders    []string
	MaxAge           int
}

// NewCors 默认只允许 GET/HEAD，并暴露断点续传需要的响应头
func NewCors(origins ...string) *CorsConfig {
	return &CorsConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodHead},
		AllowHeaders:  []string{"Accept", "Accept-Language", "Content-Language", "Content-Type", "Range"},
		ExposeHeaders: []string{"Accept-Ranges", "Content-Range", "Content-Length", "X-Request-Id"},
		MaxAge:        600,
	}
}

func (cc *CorsConfig) allowOrigin(origin string) bool {
	for _, o := range cc.AllowOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	for _, re := range cc.AllowOriginRegex {
		if re.MatchString(origin) {
			return true
		}
	}
	return false
}

// Handle 实现 Middleware，预检请求直接以 204 结束
func (cc *CorsConfig) Handle(c *Context) {
	origin := c.GetHeader("Origin")
	if origin == "" {
		c.Next()
		return
	}
	if !cc.allowOrigin(origin) {
		if c.Method() == http.MethodOptions {
			c.Fail(http.StatusForbidden, "")
			return
		}
		c.Next()
		return
	}

	h := c.Writer.Header()
	h.Add("Vary", "Origin")
	h.Set("Access-Control-Allow-Origin", origin)
	if cc.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if len(cc.ExposeHeaders) > 0 {
		h.Set("Access-Control-Expose-Headers", strings.Join(cc.ExposeHeaders, ", "))
	}

	if c.Method() == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
		h.Set("Access-Control-Allow-Methods", strings.Join(cc.AllowMethods, ", "))
		h.Set("Access-Control-Allow-Headers", strings.Join(cc.AllowHeaders, ", "))
		if cc.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(cc.MaxAge))
		}
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
