// Package config loads settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/rezonia/fatura/internal/model"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Debug       bool

	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64

	LogLevel  string
	LogFormat string

	FontFamily  string
	FontRegular string
	FontBold    string

	QRSize   int
	Currency string

	Seller SellerConfig
}

// SellerConfig is the seller block used when a record carries none
type SellerConfig struct {
	Name      string
	VATNumber string
	CRNumber  string
	Address   string
	City      string
	Country   string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("FATURA_SERVICE", "fatura"),
		AppVersion:  getenv("FATURA_VERSION", "dev"),
		Environment: getenv("FATURA_ENVIRONMENT", "development"),
		Debug:       getenvBool("FATURA_DEBUG", false),

		Address:      getenv("FATURA_ADDRESS", ":8080"),
		ReadTimeout:  getenvDuration("FATURA_READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getenvDuration("FATURA_WRITE_TIMEOUT", 60*time.Second),
		MaxBodyBytes: getenvInt64("FATURA_MAX_BODY_BYTES", 5<<20),

		LogLevel:  strings.ToLower(getenv("FATURA_LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getenv("FATURA_LOG_FORMAT", "json")),

		FontFamily:  getenv("FATURA_FONT_FAMILY", "cairo"),
		FontRegular: strings.TrimSpace(getenv("FATURA_FONT_REGULAR", "")),
		FontBold:    strings.TrimSpace(getenv("FATURA_FONT_BOLD", "")),

		QRSize:   int(getenvInt64("FATURA_QR_SIZE", 256)),
		Currency: strings.ToUpper(getenv("FATURA_CURRENCY", model.DefaultCurrency)),

		Seller: SellerConfig{
			Name:      strings.TrimSpace(getenv("FATURA_SELLER_NAME", "")),
			VATNumber: strings.TrimSpace(getenv("FATURA_SELLER_VAT", "")),
			CRNumber:  strings.TrimSpace(getenv("FATURA_SELLER_CR", "")),
			Address:   strings.TrimSpace(getenv("FATURA_SELLER_ADDRESS", "")),
			City:      strings.TrimSpace(getenv("FATURA_SELLER_CITY", "")),
			Country:   strings.TrimSpace(getenv("FATURA_SELLER_COUNTRY", "")),
		},
	}
}

// DefaultSeller converts the configured seller into model.SellerInfo
func (c Config) DefaultSeller() model.SellerInfo {
	return model.SellerInfo{
		Name:      c.Seller.Name,
		VATNumber: c.Seller.VATNumber,
		CRNumber:  c.Seller.CRNumber,
		Address:   c.Seller.Address,
		City:      c.Seller.City,
		Country:   c.Seller.Country,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

// getenvDuration accepts Go durations ("45s") or a plain number of seconds
func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
