package main

import (
	"context"

	"github.com/parcelbridge/parcelbridge/internal/config"
	"github.com/parcelbridge/parcelbridge/internal/telemetry"
	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/auspost"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/canadapost"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/ups"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
	return shutdown, err
}

func initCarrierRegistry(cfg *config.Config, logger *otelzap.Logger) *carrier.Registry {
	registry := carrier.NewRegistry()

	var tracer trace.Tracer = otel.GetTracerProvider().Tracer(cfg.ServiceName)

	if cfg.UPSEnabled {
		registry.Register(ups.New(ups.Config{
			ClientID:      cfg.UPSClientID,
			ClientSecret:  cfg.UPSClientSecret,
			AccountNumber: cfg.UPSAccountNumber,
			PickupType:    cfg.UPSPickupType,
			BaseURL:       cfg.UPSBaseURL,
			UseMock:       cfg.UPSUseMock,
		}, logger, tracer))
	}

	if cfg.CanadaPostEnabled {
		registry.Register(canadapost.New(canadapost.Config{
			APIKey:         cfg.CanadaPostAPIKey,
			APISecret:      cfg.CanadaPostAPISecret,
			CustomerNumber: cfg.CanadaPostCustomerNumber,
			ContractID:     cfg.CanadaPostContractID,
			BaseURL:        cfg.CanadaPostBaseURL,
			UseMock:        cfg.CanadaPostUseMock,
		}, logger, tracer))
	}

	if cfg.AusPostEnabled {
		registry.Register(auspost.New(auspost.Config{
			APIKey:        cfg.AusPostAPIKey,
			AccountNumber: cfg.AusPostAccountNumber,
			BaseURL:       cfg.AusPostBaseURL,
			UseMock:       cfg.AusPostUseMock,
		}, logger, tracer))
	}

	return registry
}
