package FastFile

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/miyingqi/FastFile/internal/listing"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfg         *Config
	core        *core
	router      *Router
	middlewares []Middleware
	logger      *AsyncLogger
	closers     []io.Closer
	once        sync.Once
}

// New 根据配置创建应用：访问日志、可选 CORS、可选 Swagger、根目录文件服务
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := ParseLevel(cfg.LogLevel)

	app := &App{
		cfg:    cfg,
		router: NewRouter(),
	}

	output := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		fw, err := NewFileWriter(cfg.LogFile, cfg.LogMaxSize)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, fw)
		output = io.MultiWriter(os.Stdout, fw)
	}
	logConfig := defaultConfig
	logConfig.Level = level
	logConfig.Output = output

	app.logger = NewAsyncLogger("FastFile", logConfig)
	access := NewAsyncLogger("HTTP", logConfig)
	// 日志器先于文件关闭
	app.closers = append([]io.Closer{app.logger, access}, app.closers...)

	app.core = newCore(cfg, app.logger)
	app.middlewares = append(app.middlewares, NewMiddlewareLog(access))
	if len(cfg.Cors) > 0 {
		app.middlewares = append(app.middlewares, NewCors(cfg.Cors...))
	}

	if cfg.Swagger {
		app.router.GET("/swagger/*any", SwaggerHandler())
	}
	NewFileServer(cfg.Root, !cfg.DisableListing, cfg.RateLimit).Register(app.router, "/")
	return app, nil
}

// Router 返回路由器实例
func (h *App) Router() *Router {
	return h.router
}

// Group 创建路由组
func (h *App) Group(prefix string) *RouteGroup {
	return h.router.Group(prefix)
}

// AddRouter 添加一个完整的路由器
func (h *App) AddRouter(router *Router) {
	h.router.MergeRouter(router)
}

// Use 添加中间件，需在 Handler/Run 之前调用
func (h *App) Use(middlewares ...Middleware) {
	h.middlewares = append(h.middlewares, middlewares...)
}

// Logger 应用日志器
func (h *App) Logger() Logger {
	return h.logger
}

// Handler 组装处理链并返回 http.Handler
func (h *App) Handler() http.Handler {
	h.once.Do(func() {
		h.core.addHandler(midToHandler(h.middlewares)...)
		h.core.addHandler(h.router.HandleHTTP)
	})
	return h.core
}

// Run 监听并阻塞，收到 SIGINT/SIGTERM 后优雅关闭
func (h *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return h.RunContext(ctx)
}

// RunContext ctx 结束时关闭服务器
func (h *App) RunContext(ctx context.Context) error {
	defer h.Close()

	server := h.core.server
	server.Addr = h.cfg.Addr
	server.Handler = h.Handler()
	h.banner()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if h.cfg.TLS() {
			err = server.ListenAndServeTLS(h.cfg.TLSCert, h.cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed to start")
	})
	g.Go(func() error {
		<-gctx.Done()
		h.logger.Info("Server shutting down...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sctx)
	})

	err := g.Wait()
	if err != nil {
		h.logger.Error("%v", err)
		return err
	}
	h.logger.Info("Server shutdown complete")
	return nil
}

// Close 刷新日志并关闭日志文件
func (h *App) Close() {
	for _, c := range h.closers {
		_ = c.Close()
	}
	h.closers = nil
}

func (h *App) banner() {
	scheme := "http"
	if h.cfg.TLS() {
		scheme = "https"
	}
	h.logger.Info("Root: %s, listing %s, rate limit %s, cors %s, swagger %s",
		h.cfg.Root,
		listing.EnabledString(!h.cfg.DisableListing),
		rateString(h.cfg.RateLimit),
		listing.EnabledString(len(h.cfg.Cors) > 0),
		listing.EnabledString(h.cfg.Swagger),
	)

	host, port, err := net.SplitHostPort(h.cfg.Addr)
	if err != nil {
		h.logger.Warning("Invalid address %q: %v", h.cfg.Addr, err)
		return
	}
	if host == "" || host == "0.0.0.0" {
		h.logger.Info("Server started at all address")
		for _, ip := range getAllIPs() {
			h.logger.Info("Running %s://%s:%s", scheme, ip, port)
		}
		return
	}
	h.logger.Info("Running %s://%s:%s", scheme, host, port)
}

func rateString(bytesPerSecond int) string {
	if bytesPerSecond <= 0 {
		return "disabled"
	}
	return listing.HumanSize(int64(bytesPerSecond)) + "/s"
}

type core struct {
	server       *http.Server
	handlerChain HandlersChain
	contextPool  sync.Pool // 上下文池，复用ctx避免GC
	logger       Logger
}

func newCore(cfg *Config, logger Logger) *core {
	return &core{
		server: &http.Server{
			ReadTimeout:    seconds(cfg.ReadTimeout),
			WriteTimeout:   seconds(cfg.WriteTimeout),
			IdleTimeout:    seconds(cfg.IdleTimeout),
			MaxHeaderBytes: 1 << 20, // 1MB
		},
		contextPool: sync.Pool{
			New: func() interface{} {
				return NewContext(nil, nil)
			},
		},
		logger: logger,
	}
}

// ServeHTTP 在当前 goroutine 中执行处理器链
func (s *core) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	ctx := s.contextPool.Get().(*Context)
	ctx.Reset(writer, request)
	ctx.logger = s.logger
	ctx.SetHandles(s.handlerChain)

	defer func() {
		if r := recover(); r != nil {
			if r == http.ErrAbortHandler {
				panic(r)
			}
			s.logger.Error("panic serving %s %s: %v", request.Method, request.URL.Path, r)
			if !ctx.Written() {
				ctx.InternalServerError("")
			}
		}
		ctx.Request = nil
		ctx.Writer = nil
		s.contextPool.Put(ctx)
	}()

	ctx.Next()
}

func (s *core) addHandler(handler ...HandlerFunc) {
	s.handlerChain = append(s.handlerChain, handler...)
}

// getAllIPs 本机所有非回环、非虚拟网卡的 IPv4 地址，第一个固定为 localhost
func getAllIPs() []string {
	ipList := []string{"localhost"}
	ipSet := map[string]struct{}{"localhost": {}}

	interfaces, err := net.Interfaces()
	if err != nil {
		return ipList
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 || isVirtualInterface(iface.Name) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil {
				continue
			}
			if _, exists := ipSet[ip.String()]; !exists {
				ipSet[ip.String()] = struct{}{}
				ipList = append(ipList, ip.String())
			}
		}
	}
	return ipList
}

// isVirtualInterface 常见虚拟网卡关键字，覆盖Docker/VMware/桥接/隧道等场景
func isVirtualInterface(name string) bool {
	lowerName := strings.ToLower(name)
	for _, keyword := range []string{
		"virtual", "vmware", "vbox", "docker", "bridge",
		"tunnel", "hyper-v", "veth", "utun", "tap",
		"virbr", "kube-", "cni-", "wsl",
	} {
		if strings.Contains(lowerName, keyword) {
			return true
		}
	}
	return false
}

