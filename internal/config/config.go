package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// UPS
	UPSClientID      string `envconfig:"UPS_CLIENT_ID"`
	UPSClientSecret  string `envconfig:"UPS_CLIENT_SECRET"`
	UPSAccountNumber string `envconfig:"UPS_ACCOUNT_NUMBER"`
	UPSPickupType    string `envconfig:"UPS_PICKUP_TYPE" default:"01"`
	UPSBaseURL       string `envconfig:"UPS_BASE_URL" default:"https://onlinetools.ups.com/"`
	UPSEnabled       bool   `envconfig:"UPS_ENABLED" default:"true"`
	UPSUseMock       bool   `envconfig:"UPS_USE_MOCK" default:"false"`

	// Canada Post
	CanadaPostAPIKey         string `envconfig:"CANADAPOST_API_KEY"`
	CanadaPostAPISecret      string `envconfig:"CANADAPOST_API_SECRET"`
	CanadaPostCustomerNumber string `envconfig:"CANADAPOST_CUSTOMER_NUMBER"`
	CanadaPostContractID     string `envconfig:"CANADAPOST_CONTRACT_ID"`
	CanadaPostBaseURL        string `envconfig:"CANADAPOST_BASE_URL" default:"https://soa-gw.canadapost.ca"`
	CanadaPostEnabled        bool   `envconfig:"CANADAPOST_ENABLED" default:"true"`
	CanadaPostUseMock        bool   `envconfig:"CANADAPOST_USE_MOCK" default:"false"`

	// Australia Post
	AusPostAPIKey        string `envconfig:"AUSPOST_API_KEY"`
	AusPostAccountNumber string `envconfig:"AUSPOST_ACCOUNT_NUMBER"`
	AusPostBaseURL       string `envconfig:"AUSPOST_BASE_URL" default:"https://digitalapi.auspost.com.au/"`
	AusPostEnabled       bool   `envconfig:"AUSPOST_ENABLED" default:"true"`
	AusPostUseMock       bool   `envconfig:"AUSPOST_USE_MOCK" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"parcelbridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("ups.enabled", c.UPSEnabled),
		attribute.Bool("canadapost.enabled", c.CanadaPostEnabled),
		attribute.Bool("auspost.enabled", c.AusPostEnabled),
	}
}
