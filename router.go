package FastFile

import (
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/miyingqi/FastFile/internal/route"
)

// Router 按 HTTP 方法划分的路由树
type Router struct {
	trees    map[string]*route.Node
	handlers map[string]HandlersChain // method + " " + pattern
}

// NewRouter 创建路由
func NewRouter() *Router {
	return &Router{
		trees:    make(map[string]*route.Node),
		handlers: make(map[string]HandlersChain),
	}
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}

// Handle 注册任意方法的路由
func (r *Router) Handle(method, path string, handlers ...HandlerFunc) {
	tree, ok := r.trees[method]
	if !ok {
		tree = route.NewTree()
		r.trees[method] = tree
	}
	pattern := tree.Insert(path)
	r.handlers[routeKey(method, pattern)] = append(HandlersChain(nil), handlers...)
}

func (r *Router) GET(path string, handlers ...HandlerFunc) {
	r.Handle(http.MethodGet, path, handlers...)
}

func (r *Router) HEAD(path string, handlers ...HandlerFunc) {
	r.Handle(http.MethodHead, path, handlers...)
}

func (r *Router) POST(path string, handlers ...HandlerFunc) {
	r.Handle(http.MethodPost, path, handlers...)
}

func (r *Router) PUT(path string, handlers ...HandlerFunc) {
	r.Handle(http.MethodPut, path, handlers...)
}

func (r *Router) DELETE(path string, handlers ...HandlerFunc) {
	r.Handle(http.MethodDelete, path, handlers...)
}

func (r *Router) OPTIONS(path string, handlers ...HandlerFunc) {
	r.Handle(http.MethodOptions, path, handlers...)
}

// Group 创建路由组
func (r *Router) Group(prefix string) *RouteGroup {
	return &RouteGroup{prefix: cleanPrefix(prefix), router: r}
}

// MergeRouter 把另一个路由器的全部路由合并进来，同名路由以 other 为准
func (r *Router) MergeRouter(other *Router) {
	for key, chain := range other.handlers {
		method, pattern, _ := strings.Cut(key, " ")
		r.Handle(method, pattern, chain...)
	}
}

// lookup 返回命中的处理器链与路径参数
func (r *Router) lookup(method, path string) (HandlersChain, map[string]string) {
	tree, ok := r.trees[method]
	if !ok {
		return nil, nil
	}
	pattern, params := tree.Lookup(path)
	if pattern == "" {
		return nil, nil
	}
	return r.handlers[routeKey(method, pattern)], params
}

// allowed 列出该路径在其他方法下已注册的方法
func (r *Router) allowed(path string) []string {
	var methods []string
	for method, tree := range r.trees {
		if pattern, _ := tree.Lookup(path); pattern != "" {
			methods = append(methods, method)
		}
	}
	sort.Strings(methods)
	return methods
}

// HandleHTTP 作为处理器链最后一环，命中后把路由处理器接到链上
func (r *Router) HandleHTTP(c *Context) {
	chain, params := r.lookup(c.Method(), c.Path())
	if chain == nil {
		if methods := r.allowed(c.Path()); len(methods) > 0 {
			c.SetHeader("Allow", methods...)
			c.Fail(http.StatusMethodNotAllowed, "")
			return
		}
		c.NotFound("404 Not Found")
		return
	}
	for k, v := range params {
		c.Params[k] = v
	}
	c.pushHandlers(chain)
}

// RouteGroup 共享前缀与中间件的一组路由
type RouteGroup struct {
	prefix      string
	router      *Router
	middlewares HandlersChain
}

// Use 为组添加中间件，只影响之后注册的路由
func (g *RouteGroup) Use(middlewares ...HandlerFunc) {
	g.middlewares = append(g.middlewares, middlewares...)
}

// Group 嵌套路由组，继承前缀与中间件
func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return &RouteGroup{
		prefix:      joinPaths(g.prefix, prefix),
		router:      g.router,
		middlewares: append(HandlersChain(nil), g.middlewares...),
	}
}

func (g *RouteGroup) Handle(method, relativePath string, handlers ...HandlerFunc) {
	chain := make(HandlersChain, 0, len(g.middlewares)+len(handlers))
	chain = append(chain, g.middlewares...)
	chain = append(chain, handlers...)
	g.router.Handle(method, joinPaths(g.prefix, relativePath), chain...)
}

func (g *RouteGroup) GET(path string, handlers ...HandlerFunc) {
	g.Handle(http.MethodGet, path, handlers...)
}

func (g *RouteGroup) HEAD(path string, handlers ...HandlerFunc) {
	g.Handle(http.MethodHead, path, handlers...)
}

func (g *RouteGroup) POST(path string, handlers ...HandlerFunc) {
	g.Handle(http.MethodPost, path, handlers...)
}

func (g *RouteGroup) PUT(path string, handlers ...HandlerFunc) {
	g.Handle(http.MethodPut, path, handlers...)
}

func (g *RouteGroup) DELETE(path string, handlers ...HandlerFunc) {
	g.Handle(http.MethodDelete, path, handlers...)
}

func cleanPrefix(prefix string) string {
	if prefix == "" || prefix == "/" {
		return ""
	}
	return path.Clean("/" + prefix)
}

func joinPaths(prefix, relative string) string {
	if relative == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + "/" + strings.TrimPrefix(relative, "/")
}
