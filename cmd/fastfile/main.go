package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/miyingqi/FastFile"
	_ "github.com/miyingqi/FastFile/docs"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML 配置文件路径")
		addr       = flag.String("addr", "", "监听地址，如 :8080")
		root       = flag.String("root", "", "文件根目录")
		noListing  = flag.Bool("no-listing", false, "关闭目录浏览")
		rateLimit  = flag.Int("rate", -1, "每个下载的限速（字节/秒），0 不限速")
		logLevel   = flag.String("log-level", "", "debug/info/warn/error")
		swagger    = flag.Bool("swagger", false, "开启 /swagger")
	)
	flag.Parse()

	cfg := FastFile.DefaultConfig()
	if *configPath != "" {
		loaded, err := FastFile.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// 命令行参数覆盖配置文件
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *root != "" {
		cfg.Root = *root
	} else if flag.NArg() > 0 {
		cfg.Root = flag.Arg(0)
	}
	if *noListing {
		cfg.DisableListing = true
	}
	if *rateLimit >= 0 {
		cfg.RateLimit = *rateLimit
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *swagger {
		cfg.Swagger = true
	}

	app, err := FastFile.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
