package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EchoServer holds the bind address and middleware toggles of the boundary
// HTTP server.
type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableCORSMiddleware           bool
	EnableLoggerMiddleware         bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	LogResponseBody    bool
	PrettyPrintConsole bool
}

// PaymentsServer configures the checkout orchestration core.
//
// AddressMap maps the logical host of a party's backend (the host token of a
// payment pointer) to the concrete base URL the process can actually reach.
// AuthAddressMap does the same for the authorization servers announced in
// pointer metadata. SigningAuthorities maps a counterparty's logical host to
// the signature service that holds its signing key.
type PaymentsServer struct {
	MerchantPaymentPointer     string
	InteractiveCheckoutEnabled bool
	AddressMap                 map[string]string
	AuthAddressMap             map[string]string
	SigningAuthorities         map[string]string
	ClientTimeout              time.Duration
}

type CartServer struct {
	RedisEnabled bool
	RedisAddress string
	RedisDB      int
	// Expiry after which an untouched cart may be reclaimed.
	TTL time.Duration
}

type MetricsServer struct {
	Enabled   bool
	Subsystem string
}

type Server struct {
	Echo     EchoServer
	Logger   LoggerServer
	Payments PaymentsServer
	Cart     CartServer
	Metrics  MetricsServer
}

// DefaultServiceConfigFromEnv returns the server config as parsed from the
// environment. A .env.local in the working directory takes precedence over
// already exported variables.
func DefaultServiceConfigFromEnv() Server {
	if _, err := os.Stat(".env.local"); err == nil {
		_ = gotenv.OverLoad(".env.local")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_ECHO_LISTEN_ADDRESS", ":9973")
	v.SetDefault("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true)
	v.SetDefault("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true)

	v.SetDefault("SERVER_LOGGER_LEVEL", "info")
	v.SetDefault("SERVER_LOGGER_REQUEST_LEVEL", "debug")
	v.SetDefault("SERVER_LOGGER_LOG_REQUEST_BODY", false)
	v.SetDefault("SERVER_LOGGER_LOG_RESPONSE_BODY", false)
	v.SetDefault("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false)

	v.SetDefault("PAYMENTS_MERCHANT_PAYMENT_POINTER", "")
	v.SetDefault("PAYMENTS_INTERACTIVE_CHECKOUT_ENABLED", true)
	v.SetDefault("PAYMENTS_ADDRESS_MAP", "backend=http://localhost:3000,peer-backend=http://localhost:4000")
	v.SetDefault("PAYMENTS_AUTH_ADDRESS_MAP", "auth:3006=http://localhost:3006,peer-auth:3006=http://localhost:4006")
	v.SetDefault("PAYMENTS_SIGNING_AUTHORITIES", "backend=http://localhost:3040,peer-backend=http://localhost:3041")
	v.SetDefault("PAYMENTS_CLIENT_TIMEOUT", "30s")

	v.SetDefault("CART_REDIS_ENABLED", false)
	v.SetDefault("CART_REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("CART_REDIS_DB", 0)
	v.SetDefault("CART_TTL", "720h")

	v.SetDefault("SERVER_METRICS_ENABLED", true)
	v.SetDefault("SERVER_METRICS_SUBSYSTEM", "storefront")

	return Server{
		Echo: EchoServer{
			ListenAddress:                  v.GetString("SERVER_ECHO_LISTEN_ADDRESS"),
			HideInternalServerErrorDetails: v.GetBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS"),
			EnableCORSMiddleware:           v.GetBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE"),
			EnableLoggerMiddleware:         v.GetBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE"),
			EnableRecoverMiddleware:        v.GetBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE"),
			EnableRequestIDMiddleware:      v.GetBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE"),
		},
		Logger: LoggerServer{
			Level:              logLevelFromString(v.GetString("SERVER_LOGGER_LEVEL")),
			RequestLevel:       logLevelFromString(v.GetString("SERVER_LOGGER_REQUEST_LEVEL")),
			LogRequestBody:     v.GetBool("SERVER_LOGGER_LOG_REQUEST_BODY"),
			LogResponseBody:    v.GetBool("SERVER_LOGGER_LOG_RESPONSE_BODY"),
			PrettyPrintConsole: v.GetBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE"),
		},
		Payments: PaymentsServer{
			MerchantPaymentPointer:     v.GetString("PAYMENTS_MERCHANT_PAYMENT_POINTER"),
			InteractiveCheckoutEnabled: v.GetBool("PAYMENTS_INTERACTIVE_CHECKOUT_ENABLED"),
			AddressMap:                 parseHostMap(v.GetString("PAYMENTS_ADDRESS_MAP")),
			AuthAddressMap:             parseHostMap(v.GetString("PAYMENTS_AUTH_ADDRESS_MAP")),
			SigningAuthorities:         parseHostMap(v.GetString("PAYMENTS_SIGNING_AUTHORITIES")),
			ClientTimeout:              v.GetDuration("PAYMENTS_CLIENT_TIMEOUT"),
		},
		Cart: CartServer{
			RedisEnabled: v.GetBool("CART_REDIS_ENABLED"),
			RedisAddress: v.GetString("CART_REDIS_ADDRESS"),
			RedisDB:      v.GetInt("CART_REDIS_DB"),
			TTL:          v.GetDuration("CART_TTL"),
		},
		Metrics: MetricsServer{
			Enabled:   v.GetBool("SERVER_METRICS_ENABLED"),
			Subsystem: v.GetString("SERVER_METRICS_SUBSYSTEM"),
		},
	}
}

func logLevelFromString(s string) zerolog.Level {
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// parseHostMap parses "host=url,host=url" pairs. The last entry wins for a
// duplicated host.
func parseHostMap(s string) map[string]string {
	m := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m
}
