package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	LogLevel    string
	CORSOrigins string

	DatabaseURL       string
	JWTSecret         string
	JWTExpiresMinutes int

	// Storefront defaults applied to cart lines.
	StoreName       string
	DefaultSize     string
	ItemWeightGrams int

	// Pricing
	AdminFee int64

	// Shipping
	ShippingOrigin         string
	ShippingCouriers       []string
	MinShippingWeightGrams int
	RajaOngkirAPIKey       string
	RajaOngkirBaseURL      string
	ShippingTimeout        time.Duration

	// Payment gateway
	MidtransServerKey  string
	MidtransProduction bool
	GatewayTimeout     time.Duration

	// Order-settled listeners (optional)
	AMQPURL        string
	AMQPExchange   string
	SendGridAPIKey string
	MailFrom       string
}

func Load() Config {
	_ = godotenv.Load()

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DatabaseURL:       dbURL,
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpiresMinutes: getEnvInt("JWT_EXPIRES_MINUTES", 60),

		StoreName:       getEnv("STORE_NAME", "Hideki"),
		DefaultSize:     getEnv("DEFAULT_SIZE", "M"),
		ItemWeightGrams: getEnvInt("ITEM_WEIGHT_GRAMS", 1000),

		AdminFee: int64(getEnvInt("ADMIN_FEE", 1000)),

		ShippingOrigin:         getEnv("SHIPPING_ORIGIN", "151"),
		ShippingCouriers:       getEnvList("SHIPPING_COURIERS", []string{"jne", "pos", "tiki"}),
		MinShippingWeightGrams: getEnvInt("MIN_SHIPPING_WEIGHT_GRAMS", 1000),
		RajaOngkirAPIKey:       getEnv("RAJAONGKIR_API_KEY", ""),
		RajaOngkirBaseURL:      getEnv("RAJAONGKIR_BASE_URL", "https://api.rajaongkir.com/starter"),
		ShippingTimeout:        getEnvDuration("SHIPPING_TIMEOUT", 10*time.Second),

		MidtransServerKey:  getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransProduction: getEnvBool("MIDTRANS_PRODUCTION", false),
		GatewayTimeout:     getEnvDuration("GATEWAY_TIMEOUT", 45*time.Second),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "hideki.orders"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "order@hideki.id"),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
