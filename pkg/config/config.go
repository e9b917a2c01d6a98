package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "bakeshop"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// AmountMismatchPolicy controls what happens when a verified payment's amount
// differs from the server-computed order total.
type AmountMismatchPolicy string

const (
	AmountMismatchWarn   AmountMismatchPolicy = "warn"
	AmountMismatchReject AmountMismatchPolicy = "reject"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Stripe        StripeConfig
	Mailjet       MailjetConfig
	GoogleMaps    GoogleMapsConfig
	Orders        OrdersConfig
	Delivery      DeliveryConfig
	Tax           TaxConfig
	AuthRateLimit AuthRateLimitConfig
	Features      FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Orders.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAKESHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"BAKESHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BAKESHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAKESHOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"BAKESHOP_CORS_ORIGINS" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma-separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	parts := strings.Split(a.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN string `envconfig:"BAKESHOP_DB_DSN"`

	Host     string `envconfig:"BAKESHOP_DB_HOST"`
	Port     int    `envconfig:"BAKESHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"BAKESHOP_DB_USER"`
	Password string `envconfig:"BAKESHOP_DB_PASSWORD"`
	Name     string `envconfig:"BAKESHOP_DB_NAME"`
	SSLMode  string `envconfig:"BAKESHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAKESHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAKESHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAKESHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAKESHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAKESHOP_REDIS_URL"`
	Address      string        `envconfig:"BAKESHOP_REDIS_ADDR"`
	Password     string        `envconfig:"BAKESHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAKESHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAKESHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAKESHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAKESHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAKESHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAKESHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAKESHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAKESHOP_JWT_ISSUER" default:"bakeshop"`
	ExpirationMinutes int    `envconfig:"BAKESHOP_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BAKESHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BAKESHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BAKESHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BAKESHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BAKESHOP_ARGON_KEY_LEN" default:"32"`
}

type StripeConfig struct {
	APIKey  string        `envconfig:"BAKESHOP_STRIPE_API_KEY"`
	Env     string        `envconfig:"BAKESHOP_STRIPE_ENV" default:"test"`
	Timeout time.Duration `envconfig:"BAKESHOP_STRIPE_TIMEOUT" default:"15s"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type MailjetConfig struct {
	APIKey     string `envconfig:"BAKESHOP_MAILJET_API_KEY"`
	SecretKey  string `envconfig:"BAKESHOP_MAILJET_SECRET_KEY"`
	FromEmail  string `envconfig:"BAKESHOP_MAILJET_FROM_EMAIL"`
	FromName   string `envconfig:"BAKESHOP_MAILJET_FROM_NAME" default:"Oven & Crumb Bakeshop"`
	AdminEmail string `envconfig:"BAKESHOP_MAILJET_ADMIN_EMAIL"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"BAKESHOP_GOOGLE_MAPS_API_KEY"`
}

type OrdersConfig struct {
	MinLeadHours         int                  `envconfig:"BAKESHOP_ORDERS_MIN_LEAD_HOURS" default:"48"`
	WindowOpenHour       int                  `envconfig:"BAKESHOP_ORDERS_WINDOW_OPEN_HOUR" default:"10"`
	WindowCloseHour      int                  `envconfig:"BAKESHOP_ORDERS_WINDOW_CLOSE_HOUR" default:"18"`
	Timezone             string               `envconfig:"BAKESHOP_ORDERS_TIMEZONE" default:"America/Toronto"`
	AmountMismatchPolicy AmountMismatchPolicy `envconfig:"BAKESHOP_ORDERS_AMOUNT_MISMATCH_POLICY" default:"warn"`
	PickupAddress        string               `envconfig:"BAKESHOP_ORDERS_PICKUP_ADDRESS" default:"12 Harwood Ave S, Ajax, ON"`
}

func (o OrdersConfig) validate() error {
	switch o.AmountMismatchPolicy {
	case AmountMismatchWarn, AmountMismatchReject:
	default:
		return fmt.Errorf("amount mismatch policy must be %q or %q", AmountMismatchWarn, AmountMismatchReject)
	}
	if o.WindowOpenHour < 0 || o.WindowCloseHour > 23 || o.WindowOpenHour >= o.WindowCloseHour {
		return fmt.Errorf("invalid fulfillment window %d..%d", o.WindowOpenHour, o.WindowCloseHour)
	}
	if o.MinLeadHours < 0 {
		return fmt.Errorf("minimum lead hours cannot be negative")
	}
	return nil
}

type DeliveryConfig struct {
	AllowedCities          []string `envconfig:"BAKESHOP_DELIVERY_ALLOWED_CITIES" default:"ajax,whitby,oshawa,pickering,scarborough"`
	FreeThresholdCents     int64    `envconfig:"BAKESHOP_DELIVERY_FREE_THRESHOLD_CENTS" default:"4500"`
	FeeCents               int64    `envconfig:"BAKESHOP_DELIVERY_FEE_CENTS" default:"599"`
	GeocodeRequired        bool     `envconfig:"BAKESHOP_DELIVERY_GEOCODE_REQUIRED" default:"true"`
	GeocodeTimeoutSecs     int      `envconfig:"BAKESHOP_DELIVERY_GEOCODE_TIMEOUT_SECS" default:"10"`
	GeocodeCountryRestrict string   `envconfig:"BAKESHOP_DELIVERY_GEOCODE_COUNTRY" default:"CA"`
}

type TaxConfig struct {
	// Rate is the HST rate applied to subtotal plus delivery fee.
	Rate string `envconfig:"BAKESHOP_TAX_RATE" default:"0.13"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BAKESHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BAKESHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BAKESHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BAKESHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"BAKESHOP_DB_HOST": db.Host,
		"BAKESHOP_DB_USER": db.User,
		"BAKESHOP_DB_NAME": db.Name,
	}
	for _, envVar := range []string{"BAKESHOP_DB_HOST", "BAKESHOP_DB_USER", "BAKESHOP_DB_NAME"} {
		if required[envVar] == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either BAKESHOP_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
