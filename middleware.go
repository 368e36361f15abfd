package FastFile

// Middleware 中间件接口，Handle 内需要调用 c.Next() 继续处理链
type Middleware interface {
	Handle(c *Context)
}

func midToHandler(middlewares []Middleware) HandlersChain {
	handlers := make(HandlersChain, 0, len(middlewares))
	for _, m := range middlewares {
		handlers = append(handlers, m.Handle)
	}
	return handlers
}
