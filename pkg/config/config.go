package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "ALLURING"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "ALLURING_DB_DSN"
	EnvDBHost = "ALLURING_DB_HOST"
	EnvDBUser = "ALLURING_DB_USER"
	EnvDBName = "ALLURING_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
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
	Env          string `envconfig:"ALLURING_APP_ENV" required:"true"`
	Port         string `envconfig:"ALLURING_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ALLURING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ALLURING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ALLURING_DB_DSN"`
	Driver string `envconfig:"ALLURING_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ALLURING_DB_HOST"`
	LegacyPort     int    `envconfig:"ALLURING_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ALLURING_DB_USER"`
	LegacyPassword string `envconfig:"ALLURING_DB_PASSWORD"`
	LegacyName     string `envconfig:"ALLURING_DB_NAME"`
	LegacySSLMode  string `envconfig:"ALLURING_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ALLURING_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ALLURING_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ALLURING_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ALLURING_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ALLURING_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ALLURING_REDIS_ADDR"`
	Password     string        `envconfig:"ALLURING_REDIS_PASSWORD"`
	DB           int           `envconfig:"ALLURING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ALLURING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ALLURING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ALLURING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ALLURING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ALLURING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ALLURING_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ALLURING_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ALLURING_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ALLURING_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ALLURING_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ALLURING_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ALLURING_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ALLURING_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ALLURING_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ALLURING_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ALLURING_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ALLURING_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ALLURING_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ALLURING_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ALLURING_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ALLURING_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	// ShippingFee is the flat charge added to every order total.
	ShippingFee string        `envconfig:"ALLURING_CART_SHIPPING_FEE" default:"2.99"`
	SnapshotTTL time.Duration `envconfig:"ALLURING_CART_SNAPSHOT_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ALLURING_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ALLURING_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ALLURING_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"ALLURING_GCS_BUCKET_NAME"`
	UploadURLExpiry time.Duration `envconfig:"ALLURING_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"ALLURING_MAX_UPLOAD_MB" default:"5"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
