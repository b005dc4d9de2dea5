package auspost

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/parcelbridge/parcelbridge/pkg/carrier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnRates          func(ctx context.Context, domestic bool, query url.Values) (carrier.Payload, error)
	OnCreateShipment func(ctx context.Context, payload carrier.Payload) (carrier.Payload, error)
	OnLabels         func(ctx context.Context, payload carrier.Payload) (carrier.Payload, error)
	OnDownloadLabel  func(ctx context.Context, labelURL string) ([]byte, error)
	OnTrack          func(ctx context.Context, trackingID string) (carrier.Payload, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Rates returns mock postage calculator services.
func (m *MockAPIClient) Rates(ctx context.Context, domestic bool, query url.Values) (carrier.Payload, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: domesticServiceEndpoint, Message: "Simulated API error"}
	}

	if m.OnRates != nil {
		return m.OnRates(ctx, domestic, query)
	}

	if !domestic {
		return carrier.Payload{
			"services": map[string]any{
				"service": []any{
					map[string]any{"code": "INT_PARCEL_STD_OWN_PACKAGING", "name": "Standard", "price": "34.10"},
					map[string]any{"code": "INT_PARCEL_EXP_OWN_PACKAGING", "name": "Express", "price": "51.35"},
				},
			},
		}, nil
	}

	return carrier.Payload{
		"services": map[string]any{
			"service": []any{
				map[string]any{"code": "AUS_PARCEL_REGULAR", "name": "Parcel Post", "price": "10.60"},
				map[string]any{"code": "AUS_PARCEL_EXPRESS", "name": "Express Post", "price": "14.00"},
			},
		},
	}, nil
}

// CreateShipment creates a mock shipment.
func (m *MockAPIClient) CreateShipment(ctx context.Context, payload carrier.Payload) (carrier.Payload, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: shipmentsEndpoint, Message: "Simulated API error"}
	}

	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, payload)
	}

	shipmentID := "ap-ship-" + uuid.New().String()[:8]

	return carrier.Payload{
		"shipments": []any{
			map[string]any{
				"shipment_id": shipmentID,
				"items": []any{
					map[string]any{
						"tracking_details": map[string]any{
							"article_id": "ART" + uuid.New().String()[:10],
						},
					},
				},
			},
		},
	}, nil
}

// Labels returns a mock label generation response.
func (m *MockAPIClient) Labels(ctx context.Context, payload carrier.Payload) (carrier.Payload, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: labelsEndpoint, Message: "Simulated API error"}
	}

	if m.OnLabels != nil {
		return m.OnLabels(ctx, payload)
	}

	return carrier.Payload{
		"labels": []any{
			map[string]any{
				"status": "AVAILABLE",
				"url":    "https://digitalapi.auspost.com.au/shipping/v1/labels/" + uuid.New().String(),
			},
		},
	}, nil
}

// DownloadLabel returns mock label data.
func (m *MockAPIClient) DownloadLabel(ctx context.Context, labelURL string) ([]byte, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: labelURL, Message: "Simulated API error"}
	}

	if m.OnDownloadLabel != nil {
		return m.OnDownloadLabel(ctx, labelURL)
	}

	return []byte("%PDF-1.4 mock label data"), nil
}

// Track retrieves mock tracking results.
func (m *MockAPIClient) Track(ctx context.Context, trackingID string) (carrier.Payload, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: trackEndpoint, Message: "Simulated API error"}
	}

	if m.OnTrack != nil {
		return m.OnTrack(ctx, trackingID)
	}

	now := time.Now()

	return carrier.Payload{
		"tracking_results": []any{
			map[string]any{
				"tracking_id": trackingID,
				"status":      "In transit",
				"trackable_items": []any{
					map[string]any{
						"article_id": trackingID,
						"events": []any{
							map[string]any{
								"description": "In transit to next facility",
								"date":        now.Format(time.RFC3339),
								"location":    "SUNSHINE WEST VIC",
							},
							map[string]any{
								"description": "Received by Australia Post",
								"date":        now.Add(-24 * time.Hour).Format(time.RFC3339),
								"location":    "MELBOURNE VIC",
							},
						},
					},
				},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
