package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	CORSOrigins     []string
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type FileRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileRotate
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Session 会话配置：Secret 必须来自外部（配置文件 / APP_SESSION_SECRET），不允许写死
type Session struct {
	Secret     string
	CookieName string
	Domain     string
	TTLMin     int
	Secure     bool
	Store      string // memory | redis
}

type Static struct {
	PublicDir     string
	PanelsDir     string
	DashboardFile string
	UploadsDir    string
	Panels        []string // 面板白名单
}

type S3 struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type Storage struct {
	Driver string // local | s3
	S3     S3
}

type Limits struct {
	RPS           float64
	Burst         int
	Concurrency   int64
	QueueWaitMs   int
	MaxBodyMB     int64
	TimeoutSec    int
	AuthRPS       float64
	AuthBurst     int
	CatalogTTLSec int
}

type Config struct {
	App     App
	Log     Log
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Session Session
	Static  Static
	Storage Storage
	Limits  Limits
}

// MinSecretLen 会话签名密钥最短长度（字节）
const MinSecretLen = 32

// placeholderSecret 示例文件里的占位前缀，照抄示例启动时拒绝
const placeholderSecret = "change-me"

var DefaultPanels = []string{
	"admin_usuarios.html",
	"admin_proveedores.html",
	"admin_productos.html",
	"perfil.html",
	"pedidos.html",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.corsOrigins", []string{"http://localhost:8080"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 10)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookieName", "sid")
	v.SetDefault("session.domain", "")
	v.SetDefault("session.ttlMin", 120)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.store", "memory")

	v.SetDefault("static.publicDir", "./web/public")
	v.SetDefault("static.panelsDir", "./web/panels")
	v.SetDefault("static.dashboardFile", "./web/private/dashboard.html")
	v.SetDefault("static.uploadsDir", "./web/uploads")
	v.SetDefault("static.panels", DefaultPanels)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.accessKey", "")
	v.SetDefault("storage.s3.secretKey", "")
	v.SetDefault("storage.s3.publicBaseURL", "")

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.queueWaitMs", 500)
	v.SetDefault("limits.maxBodyMB", 16)
	v.SetDefault("limits.timeoutSec", 10)
	v.SetDefault("limits.authRPS", 1)
	v.SetDefault("limits.authBurst", 10)
	v.SetDefault("limits.catalogTTLSec", 30)
}

// Load 读取 yaml + APP_ 前缀环境变量。
// 显式给出的路径不存在会报错；默认路径不存在时只用默认值 + 环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := true
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = defaultPath
			explicit = false
		}
	}
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil || explicit {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

var (
	ErrWeakSecret     = errors.New("session.secret must be set externally and be at least 32 bytes")
	ErrUnknownDriver  = errors.New("unsupported db.driver")
	ErrUnknownStore   = errors.New("unsupported session.store")
	ErrUnknownStorage = errors.New("unsupported storage.driver")
)

func (c *Config) Validate() error {
	if len(c.Session.Secret) < MinSecretLen ||
		strings.HasPrefix(strings.ToLower(c.Session.Secret), placeholderSecret) {
		return ErrWeakSecret
	}
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DB.Driver)
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis store needs redis.addr", ErrUnknownStore)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Session.Store)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("%w: s3 needs storage.s3.bucket", ErrUnknownStorage)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage.Driver)
	}
	return nil
}
