// Package config は環境変数・.envファイル・コマンドラインフラグから設定を読み込みます。
package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"go-todo-lists/internal/database"
)

// DefaultSecretKey は SECRET_KEY 未設定時に使う開発用の鍵です。本番では使えません。
const DefaultSecretKey = "default_secret_key"

// EnvProduction は本番環境を表す APP_ENV の値です。
const EnvProduction = "production"

// Config はアプリケーション全体の設定です。
type Config struct {
	Addr           string
	AppEnv         string
	DBDriver       string
	DBDSN          string
	SecretKey      string
	InsecureSecret bool // SecretKey が DefaultSecretKey にフォールバックした
	SessionMaxAge  time.Duration
	SecureCookies  bool
	AllowOrigins   []string
	SeedDemoUsers  bool
	SeedFile       string
}

// Load は設定を読み込みます。優先順位はフラグ、環境変数 (.env含む)、デフォルト値の順です。
// flags が nil の場合はフラグを使いません。
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .envは任意
		log.Printf("No .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("db_driver", database.DriverSQLite)
	v.SetDefault("db_dsn", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("session_max_age", 24*time.Hour)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("allow_origins", "http://localhost:3000")
	v.SetDefault("seed_demo_users", true)
	v.SetDefault("seed_file", "")

	v.AutomaticEnv()
	// --db-driver -> DB_DRIVER
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if flags != nil {
		var err error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if bindErr := v.BindPFlag(key, f); bindErr != nil && err == nil {
				err = bindErr
			}
		})
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Addr:          v.GetString("addr"),
		AppEnv:        v.GetString("app_env"),
		DBDriver:      v.GetString("db_driver"),
		DBDSN:         v.GetString("db_dsn"),
		SecretKey:     v.GetString("secret_key"),
		SessionMaxAge: v.GetDuration("session_max_age"),
		SecureCookies: v.GetBool("secure_cookies"),
		AllowOrigins:  splitList(v.GetString("allow_origins")),
		SeedDemoUsers: v.GetBool("seed_demo_users"),
		SeedFile:      v.GetString("seed_file"),
	}

	if cfg.SecretKey == "" {
		cfg.SecretKey = DefaultSecretKey
		cfg.InsecureSecret = true
	}
	if cfg.DBDSN == "" {
		switch cfg.DBDriver {
		case database.DriverMySQL:
			cfg.DBDSN = database.GetDSN()
		case database.DriverSQLite:
			cfg.DBDSN = "file:todo.db?_pragma=foreign_keys(1)"
		}
	}
	return cfg, nil
}

// IsProduction は APP_ENV が production かどうかを返します。
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Validate は起動できない設定を検出します。
func (c *Config) Validate() error {
	if c.IsProduction() && c.InsecureSecret {
		return errors.New("SECRET_KEY must be set in production")
	}
	if c.DBDriver != database.DriverMySQL && c.DBDriver != database.DriverSQLite {
		return errors.New("DB_DRIVER must be mysql or sqlite")
	}
	if c.SessionMaxAge <= 0 {
		return errors.New("SESSION_MAX_AGE must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
