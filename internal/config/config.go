package config

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

var AppEnv App

type App struct {
	Config
	Gateway   GatewayConfig
	Templates TemplateConfig
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port int `env:"SERVER_PORT,required"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST,required"`
	Port     int    `env:"DB_PORT,required"`
	User     string `env:"DB_USER,required"`
	Password string `env:"DB_PASSWORD,required"`
	Name     string `env:"DB_NAME,required"`
	MaxConns int32  `env:"DB_MAX_CONNS,default=10"`
	MinConns int32  `env:"DB_MIN_CONNS,default=2"`
}

type RedisConfig struct {
	Host string `env:"REDIS_HOST,required"`
	Port int    `env:"REDIS_PORT,required"`
}

// GatewayConfig holds the messaging gateway credentials and feature flags.
// APIPassword is stored encrypted (base64 of an AES-GCM ciphertext) and is
// only decrypted inside the gateway client, immediately before a request
// is built.
type GatewayConfig struct {
	Enabled             bool          `env:"SMS_GATEWAY_ENABLED,default=false"`
	LoggingEnabled      bool          `env:"SMS_GATEWAY_LOGGING_ENABLED,default=true"`
	OptinRequired       bool          `env:"SMS_OPTIN_REQUIRED,default=true"`
	SendWelcomeMessage  bool          `env:"SMS_SEND_WELCOME_MESSAGE,default=false"`
	TermsAndConditions  string        `env:"SMS_TERMS_AND_CONDITIONS"`
	ShowTermsAfterOptin bool          `env:"SMS_SHOW_TERMS_AFTER_OPTIN,default=false"`
	APIUser             string        `env:"SMS_GATEWAY_API_USER"`
	APIPassword         string        `env:"SMS_GATEWAY_API_PASSWORD"`
	EncryptionKey       string        `env:"SMS_GATEWAY_ENCRYPTION_KEY"`
	PlatformID          string        `env:"SMS_GATEWAY_PLATFORM_ID"`
	PlatformPartnerID   string        `env:"SMS_GATEWAY_PLATFORM_PARTNER_ID"`
	GateID              string        `env:"SMS_GATEWAY_GATE_ID"`
	SourceType          string        `env:"SMS_GATEWAY_SOURCE_TYPE,default=MSISDN"`
	Source              string        `env:"SMS_GATEWAY_SOURCE"`
	BaseURI             string        `env:"SMS_GATEWAY_BASE_URI,default=https://wsx.sp247.net/sms/"`
	Timeout             time.Duration `env:"SMS_GATEWAY_TIMEOUT,default=5s"`
}

// TemplateConfig holds one message template per notification category.
// Templates use {{variable}} placeholders, for example
// "Hi {{customer_first_name}}, your order {{order_id}} has shipped."
type TemplateConfig struct {
	Welcome       string `env:"SMS_TEMPLATE_WELCOME"`
	OrderPlaced   string `env:"SMS_TEMPLATE_ORDER_PLACED"`
	OrderInvoiced string `env:"SMS_TEMPLATE_ORDER_INVOICED"`
	OrderShipped  string `env:"SMS_TEMPLATE_ORDER_SHIPPED"`
	OrderRefunded string `env:"SMS_TEMPLATE_ORDER_REFUNDED"`
	OrderCanceled string `env:"SMS_TEMPLATE_ORDER_CANCELED"`
	OrderHeld     string `env:"SMS_TEMPLATE_ORDER_HELD"`
	OrderReleased string `env:"SMS_TEMPLATE_ORDER_RELEASED"`
}

func ReadEnvironment(ctx context.Context, envParam any) *App {
	_ = godotenv.Load()
	var config App
	err := envconfig.Process(ctx, &config)
	if err != nil {
		log.Fatalf("Error processing environment variables: %v", err)
	}

	return &config
}

// ForCategory returns the message template configured for the given
// notification category, or an empty string when none is set.
func (t TemplateConfig) ForCategory(category string) string {
	switch category {
	case "welcome":
		return t.Welcome
	case "order_placed":
		return t.OrderPlaced
	case "order_invoiced":
		return t.OrderInvoiced
	case "order_shipped":
		return t.OrderShipped
	case "order_refunded":
		return t.OrderRefunded
	case "order_canceled":
		return t.OrderCanceled
	case "order_held":
		return t.OrderHeld
	case "order_released":
		return t.OrderReleased
	}
	return ""
}
