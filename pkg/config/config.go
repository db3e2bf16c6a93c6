package config

import (
	"time"
)

type DB struct {
	Url            string `envconfig:"URL"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:""`
}

type Jwt struct {
	Secret string `envconfig:"SECRET" required:"true"`
	// Audience is optional; identity providers such as Supabase set "authenticated".
	Audience string `envconfig:"AUDIENCE" default:""`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
	// HookSecret guards the session-events webhook posted by the identity provider.
	HookSecret string `envconfig:"HOOK_SECRET"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"budget:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Cors struct {
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`
	AllowHeaders string `envconfig:"ALLOW_HEADERS" default:"authorization, x-client-info, apikey, content-type"`
}

type EventBus struct {
	Driver      string `envconfig:"DRIVER" default:"memory"`
	Stream      string `envconfig:"STREAM" default:"budget.events"`
	Group       string `envconfig:"GROUP" default:"budgettracker"`
	KafkaBroker string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"budget.events"`
}

//revive:disable
type Plaid struct {
	ClientID   string `envconfig:"CLIENT_ID"`
	Secret     string `envconfig:"SECRET"`
	Env        string `envconfig:"ENV" default:"sandbox"`
	ClientName string `envconfig:"CLIENT_NAME" default:"Budget Tracker"`
	Language   string `envconfig:"LANGUAGE" default:"en"`
	// Products requested for new link sessions.
	Products []string `envconfig:"PRODUCTS" default:"auth,transactions"`
	// CountryCodes used for link sessions and institution lookups.
	CountryCodes        []string      `envconfig:"COUNTRY_CODES" default:"US"`
	Timeout             time.Duration `envconfig:"TIMEOUT" default:"30s"`
	RequestsPerSecond   float64       `envconfig:"REQUESTS_PER_SECOND" default:"5"`
	Burst               int           `envconfig:"BURST" default:"5"`
	SyncWindowDays      int           `envconfig:"SYNC_WINDOW_DAYS" default:"30"`
	PageSize            int32         `envconfig:"PAGE_SIZE" default:"500"`
	InstitutionCacheTTL time.Duration `envconfig:"INSTITUTION_CACHE_TTL" default:"24h"`
}

type Stripe struct {
	Env              string        `envconfig:"ENV" default:"test"`
	ApiKey           string        `envconfig:"API_KEY"`
	SigningSecret    string        `envconfig:"SIGNING_SECRET"`
	Timeout          time.Duration `envconfig:"TIMEOUT" default:"15s"`
	ProProductID     string        `envconfig:"PRO_PRODUCT_ID" default:"prod_TQwmCxRJiMH3Nv"`
	PremiumProductID string        `envconfig:"PREMIUM_PRODUCT_ID" default:"prod_TQwnEiqlldcXk0"`
	// ProductAliases maps retired product ids onto a tier, e.g. "prod_old:premium".
	ProductAliases map[string]string `envconfig:"PRODUCT_ALIASES" default:""`
}

//revive:enable

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[budget]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`

	// Peers (IPs or CIDRs) allowed to set X-Forwarded-For.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	Redis     *Redis     `envconfig:"REDIS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Cors      *Cors      `envconfig:"CORS"`
	EventBus  *EventBus  `envconfig:"EVENT_BUS"`
	Plaid     *Plaid     `envconfig:"PLAID"`
	Stripe    *Stripe    `envconfig:"STRIPE"`
}
