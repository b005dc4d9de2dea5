// Package carrier provides the shared contract and normalization runtime
// for shipping carrier adapters: a uniform rate/label/tracking interface,
// the domain model, defensive payload access, and unit/service-code rules.
package carrier

import (
	"context"
)

// Carrier defines the interface that all shipping carrier adapters must
// implement. Adapters must tolerate unknown carrier response shapes:
// unmapped service codes are logged and skipped, unmapped tracking codes
// default to StatusUnknown, and neither raises an error.
type Carrier interface {
	// Name returns the carrier identifier (e.g., "ups", "canadapost").
	Name() string

	// TrackingURL returns the carrier's public tracking page for a
	// tracking number, or "" if the carrier has none.
	TrackingURL(trackingNumber string) string

	// WeightUnit returns the weight unit used for a shipment. The
	// selection is a pure function of the shipment's origin country.
	WeightUnit(shipment *Shipment) WeightUnit

	// DimensionUnit returns the dimension unit used for a shipment.
	DimensionUnit(shipment *Shipment) DimensionUnit

	// ServiceCodes returns the carrier's region-keyed service code table.
	ServiceCodes() ServiceCodeTable

	// GetRates returns rate quotes for a shipment.
	GetRates(ctx context.Context, shipment *Shipment) (*RateResponse, error)

	// GetLabels purchases a label for a shipment at a previously quoted rate.
	GetLabels(ctx context.Context, shipment *Shipment, rate *Rate, opts LabelOptions) (*LabelResponse, error)

	// GetTrackingStatus returns tracking status for one or more tracking
	// numbers. Lookups are issued one call per tracking number.
	GetTrackingStatus(ctx context.Context, trackingNumbers []string, opts TrackingOptions) (*TrackingResponse, error)
}

// LabelOptions carries optional label purchase preferences.
type LabelOptions struct {
	// ImageFormat is the requested label image format (e.g., "GIF",
	// "PDF", "ZPL"). Carriers fall back to their default when empty.
	ImageFormat string
}

// TrackingOptions carries optional tracking lookup preferences.
type TrackingOptions struct {
	// Locale requests localized event descriptions where the carrier
	// supports it (e.g., "en_US").
	Locale string
}
