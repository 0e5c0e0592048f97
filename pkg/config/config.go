package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GAMESHELF_APP_ENV" required:"true"`
	Port         string `envconfig:"GAMESHELF_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GAMESHELF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GAMESHELF_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GAMESHELF_DB_DSN"`
	Driver string `envconfig:"GAMESHELF_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GAMESHELF_DB_HOST"`
	LegacyPort     int    `envconfig:"GAMESHELF_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GAMESHELF_DB_USER"`
	LegacyPassword string `envconfig:"GAMESHELF_DB_PASSWORD"`
	LegacyName     string `envconfig:"GAMESHELF_DB_NAME"`
	LegacySSLMode  string `envconfig:"GAMESHELF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GAMESHELF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GAMESHELF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GAMESHELF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GAMESHELF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"GAMESHELF_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GAMESHELF_REDIS_ADDR"`
	Password     string        `envconfig:"GAMESHELF_REDIS_PASSWORD"`
	DB           int           `envconfig:"GAMESHELF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GAMESHELF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GAMESHELF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GAMESHELF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GAMESHELF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GAMESHELF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"GAMESHELF_SESSION_COOKIE_NAME" default:"gameshelf_session"`
	TTL        time.Duration `envconfig:"GAMESHELF_SESSION_TTL" default:"168h"`
	Secure     bool          `envconfig:"GAMESHELF_SESSION_COOKIE_SECURE" default:"false"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GAMESHELF_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"GAMESHELF_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GAMESHELF_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GAMESHELF_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		db.DSN = DefaultSQLitePath
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
