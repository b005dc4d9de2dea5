package ups

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/parcelbridge/parcelbridge/pkg/carrier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
// Canned responses mirror the real UPS wire format so normalization
// exercises the same paths as production traffic.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnRates func(ctx context.Context, payload carrier.Payload) (carrier.Payload, error)
	OnShip  func(ctx context.Context, payload carrier.Payload) (carrier.Payload, error)
	OnTrack func(ctx context.Context, trackingNumber string) (carrier.Payload, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Rates returns mock shipping rates.
func (m *MockAPIClient) Rates(ctx context.Context, payload carrier.Payload) (carrier.Payload, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: "api/rating/v1/Shop", Message: "Simulated API error"}
	}

	if m.OnRates != nil {
		return m.OnRates(ctx, payload)
	}

	return carrier.Payload{
		"RateResponse": map[string]any{
			"RatedShipment": []any{
				map[string]any{
					"Service": map[string]any{"Code": "03"},
					"TotalCharges": map[string]any{
						"CurrencyCode":  "USD",
						"MonetaryValue": "11.23",
					},
				},
				map[string]any{
					"Service": map[string]any{"Code": "02"},
					"TotalCharges": map[string]any{
						"CurrencyCode":  "USD",
						"MonetaryValue": "28.40",
					},
					"GuaranteedDelivery": map[string]any{
						"BusinessDaysInTransit": "2",
					},
				},
				map[string]any{
					"Service": map[string]any{"Code": "01"},
					"TotalCharges": map[string]any{
						"CurrencyCode":  "USD",
						"MonetaryValue": "54.10",
					},
					"GuaranteedDelivery": map[string]any{
						"BusinessDaysInTransit": "1",
					},
				},
			},
		},
	}, nil
}

// Ship creates a mock shipment with a decodable label image.
func (m *MockAPIClient) Ship(ctx context.Context, payload carrier.Payload) (carrier.Payload, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: "api/shipments/v1/ship", Message: "Simulated API error"}
	}

	if m.OnShip != nil {
		return m.OnShip(ctx, payload)
	}

	shipmentID := "1Z" + uuid.New().String()[:8]

	return carrier.Payload{
		"ShipmentResponse": map[string]any{
			"ShipmentResults": map[string]any{
				"ShipmentIdentificationNumber": shipmentID,
				"PackageResults": map[string]any{
					"TrackingNumber": shipmentID,
					"ShippingLabel": map[string]any{
						"GraphicImage": base64.StdEncoding.EncodeToString([]byte("GIF89a mock label data")),
					},
				},
			},
		},
	}, nil
}

// Track retrieves mock tracking information.
func (m *MockAPIClient) Track(ctx context.Context, trackingNumber string) (carrier.Payload, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: "api/track/v1/details/" + trackingNumber, Message: "Simulated API error"}
	}

	if m.OnTrack != nil {
		return m.OnTrack(ctx, trackingNumber)
	}

	now := time.Now()

	return carrier.Payload{
		"trackResponse": map[string]any{
			"shipment": []any{
				map[string]any{
					"package": []any{
						map[string]any{
							"trackingNumber": trackingNumber,
							"deliveryDate": []any{
								map[string]any{"type": "SDD", "date": now.AddDate(0, 0, 3).Format("20060102")},
							},
							"activity": []any{
								map[string]any{
									"status": map[string]any{
										"type":        "I",
										"description": "Departed from Facility",
									},
									"location": map[string]any{
										"address": map[string]any{
											"city":          "Louisville",
											"stateProvince": "KY",
											"countryCode":   "US",
										},
									},
									"date": now.Format("20060102"),
									"time": "093000",
								},
								map[string]any{
									"status": map[string]any{
										"type":        "M",
										"description": "Shipper created a label, UPS has not received the package yet",
									},
									"location": map[string]any{
										"address": map[string]any{
											"city":        "Anaheim",
											"countryCode": "US",
										},
									},
									"date": now.AddDate(0, 0, -1).Format("20060102"),
									"time": "161500",
								},
							},
							"weight": map[string]any{
								"unitOfMeasurement": "LBS",
								"weight":            "5.50",
							},
						},
					},
				},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
