// Package mock provides a mock carrier implementation for testing and
// local development.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
)

// Client is a mock carrier for testing.
type Client struct {
	name string

	// FailRates makes GetRates return a dispatch error.
	FailRates bool
}

// New creates a new mock carrier.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// TrackingURL returns a mock tracking page URL.
func (c *Client) TrackingURL(trackingNumber string) string {
	return fmt.Sprintf("https://example.com/%s/track/%s", c.name, trackingNumber)
}

// WeightUnit always reports pounds; the mock's home country matches
// every origin.
func (c *Client) WeightUnit(shipment *carrier.Shipment) carrier.WeightUnit {
	return carrier.WeightLB
}

// DimensionUnit always reports inches.
func (c *Client) DimensionUnit(shipment *carrier.Shipment) carrier.DimensionUnit {
	return carrier.DimensionIN
}

// ServiceCodes returns a two-service table.
func (c *Client) ServiceCodes() carrier.ServiceCodeTable {
	return carrier.ServiceCodeTable{
		carrier.RegionInternational: {
			"STANDARD": "Mock Standard",
			"EXPRESS":  "Mock Express",
		},
	}
}

// GetRates returns two canned rates.
func (c *Client) GetRates(ctx context.Context, shipment *carrier.Shipment) (*carrier.RateResponse, error) {
	if c.FailRates {
		return nil, &carrier.DispatchError{Carrier: c.name, Endpoint: "/rates", Message: "simulated failure"}
	}

	standard := 15.82
	express := 29.95

	return &carrier.RateResponse{
		Rates: []carrier.Rate{
			{
				Carrier:     c,
				ServiceCode: "STANDARD",
				ServiceName: "Mock Standard",
				Rate:        &standard,
				Currency:    "USD",
				DeliveryDays: 5,
			},
			{
				Carrier:     c,
				ServiceCode: "EXPRESS",
				ServiceName: "Mock Express",
				Rate:        &express,
				Currency:    "USD",
				DeliveryDays: 2,
				DeliveryDateGuaranteed: true,
			},
		},
	}, nil
}

// GetLabels returns one canned label.
func (c *Client) GetLabels(ctx context.Context, shipment *carrier.Shipment, rate *carrier.Rate, opts carrier.LabelOptions) (*carrier.LabelResponse, error) {
	now := time.Now()

	return &carrier.LabelResponse{
		Labels: []carrier.Label{
			{
				Carrier:        c,
				Rate:           rate,
				TrackingNumber: fmt.Sprintf("MOCK%d", now.UnixNano()%1000000000),
				LabelID:        fmt.Sprintf("%s-label-%d", c.name, now.UnixNano()),
				LabelData:      []byte("%PDF-1.4 mock label data"),
				LabelMIME:      "application/pdf",
			},
		},
	}, nil
}

// GetTrackingStatus returns one in-transit entry per tracking number.
func (c *Client) GetTrackingStatus(ctx context.Context, trackingNumbers []string, opts carrier.TrackingOptions) (*carrier.TrackingResponse, error) {
	now := time.Now()

	tracking := make([]carrier.Tracking, 0, len(trackingNumbers))
	for _, trackingNumber := range trackingNumbers {
		tracking = append(tracking, carrier.Tracking{
			Carrier:        c,
			TrackingNumber: trackingNumber,
			Status:         carrier.StatusInTransit,
			StatusDetail:   "In transit",
			Details: []carrier.TrackingDetail{
				{
					Location:    "Springfield, IL, US",
					Description: "Departed from facility",
					Date:        now.Format("2006-01-02 15:04:05"),
					Status:      carrier.StatusInTransit,
				},
			},
		})
	}

	return &carrier.TrackingResponse{Tracking: tracking}, nil
}

var _ carrier.Carrier = (*Client)(nil)
