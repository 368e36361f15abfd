package FastFile

import (
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config 服务配置，对应 TOML 文件
type Config struct {
	Addr           string   `json:"addr,omitempty"`
	Root           string   `json:"root,omitempty"`
	DisableListing bool     `json:"disable_listing,omitempty"`
	RateLimit      int      `json:"rate_limit,omitempty"` // 每个下载的字节/秒
	LogLevel       string   `json:"log_level,omitempty"`
	LogFile        string   `json:"log_file,omitempty"`
	LogMaxSize     int64    `json:"log_max_size,omitempty"`
	Cors           []string `json:"cors,omitempty"`
	TLSCert        string   `json:"tls_cert,omitempty"`
	TLSKey         string   `json:"tls_key,omitempty"`
	ReadTimeout    int      `json:"read_timeout,omitempty"`  // 秒
	WriteTimeout   int      `json:"write_timeout,omitempty"` // 秒，0 表示不限制，大文件下载需要
	IdleTimeout    int      `json:"idle_timeout,omitempty"`  // 秒
	Swagger        bool     `json:"swagger,omitempty"`
}

const (
	defaultAddr        = ":8080"
	defaultReadTimeout = 10
	defaultIdleTimeout = 30
	defaultLogMaxSize  = 10 * 1024 * 1024
)

// DefaultConfig 默认配置：当前目录，开启目录浏览
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.Root == "" {
		c.Root = "."
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSize == 0 {
		c.LogMaxSize = defaultLogMaxSize
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaultIdleTimeout
	}
}

// LoadConfig 读取 TOML 配置文件，缺省项使用默认值
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open configuration file")
	}
	defer file.Close()

	var cfg Config
	if err := toml.NewDecoder(file).SetTagName("json").Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode TOML config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log_level")
	}
	if c.RateLimit < 0 {
		return errors.Errorf("rate_limit must not be negative: %d", c.RateLimit)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("tls_cert and tls_key must be set together")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return errors.Wrapf(err, "invalid root %q", c.Root)
	}
	if !info.IsDir() {
		return errors.Errorf("root %q is not a directory", c.Root)
	}
	return nil
}

// TLS 是否启用 HTTPS
func (c *Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
