package canadapost

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parcelbridge/parcelbridge/pkg/carrier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnRates          func(ctx context.Context, scenario *MailingScenario) (*PriceQuotes, error)
	OnCreateShipment func(ctx context.Context, shipment *ShipmentInfo) (*ShipmentReceipt, error)
	OnArtifact       func(ctx context.Context, href, mediaType string) ([]byte, error)
	OnTrack          func(ctx context.Context, pin string) (*TrackingDetail, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Rates returns mock price quotes.
func (m *MockAPIClient) Rates(ctx context.Context, scenario *MailingScenario) (*PriceQuotes, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: "/rs/ship/price", Message: "Simulated API error"}
	}

	if m.OnRates != nil {
		return m.OnRates(ctx, scenario)
	}

	return &PriceQuotes{
		PriceQuote: []PriceQuote{
			{
				ServiceCode: "DOM.RP",
				ServiceLink: ServiceLink{ServiceName: "Regular Parcel"},
				PriceDetails: PriceDetails{
					Base:  9.99,
					Taxes: PriceTaxes{HST: 1.46},
					Due:   12.65,
					Adjustments: Adjustments{Adjustment: []Adjustment{
						{AdjustmentCode: "FUELSC", AdjustmentCost: 1.20},
					}},
				},
				ServiceStandard: ServiceStandard{
					ExpectedTransitTime:  5,
					ExpectedDeliveryDate: time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
				},
			},
			{
				ServiceCode: "DOM.XP",
				ServiceLink: ServiceLink{ServiceName: "Xpresspost"},
				PriceDetails: PriceDetails{
					Base:  19.99,
					Taxes: PriceTaxes{HST: 2.91},
					Due:   25.30,
				},
				ServiceStandard: ServiceStandard{
					GuaranteedDelivery:   true,
					ExpectedTransitTime:  2,
					ExpectedDeliveryDate: time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
				},
			},
			{
				ServiceCode: "DOM.PC",
				ServiceLink: ServiceLink{ServiceName: "Priority"},
				PriceDetails: PriceDetails{
					Base:  34.99,
					Taxes: PriceTaxes{HST: 5.10},
					Due:   44.29,
				},
				ServiceStandard: ServiceStandard{
					GuaranteedDelivery:   true,
					AMDelivery:           true,
					ExpectedTransitTime:  1,
					ExpectedDeliveryDate: time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
				},
			},
		},
	}, nil
}

// CreateShipment creates a mock shipment with a label link.
func (m *MockAPIClient) CreateShipment(ctx context.Context, shipment *ShipmentInfo) (*ShipmentReceipt, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: "/rs/shipment", Message: "Simulated API error"}
	}

	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, shipment)
	}

	shipmentID := "cp-ship-" + uuid.New().String()[:8]
	trackingPIN := fmt.Sprintf("%d", 1000000000000+time.Now().UnixNano()%9000000000000)

	return &ShipmentReceipt{
		ShipmentID:     shipmentID,
		ShipmentStatus: "created",
		TrackingPIN:    trackingPIN,
		Links: Links{Link: []Link{
			{Rel: "label", Href: fmt.Sprintf("https://ct.soa-gw.canadapost.ca/rs/artifact/%s/label", shipmentID), MediaType: "application/pdf"},
			{Rel: "self", Href: fmt.Sprintf("https://ct.soa-gw.canadapost.ca/rs/shipment/%s", shipmentID)},
		}},
	}, nil
}

// Artifact returns mock label data.
func (m *MockAPIClient) Artifact(ctx context.Context, href, mediaType string) ([]byte, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: href, Message: "Simulated API error"}
	}

	if m.OnArtifact != nil {
		return m.OnArtifact(ctx, href, mediaType)
	}

	return []byte("%PDF-1.4 mock label data"), nil
}

// Track retrieves mock tracking detail.
func (m *MockAPIClient) Track(ctx context.Context, pin string) (*TrackingDetail, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: "/vis/track/pin/" + pin + "/detail", Message: "Simulated API error"}
	}

	if m.OnTrack != nil {
		return m.OnTrack(ctx, pin)
	}

	now := time.Now()

	return &TrackingDetail{
		PIN:                  pin,
		ExpectedDeliveryDate: now.AddDate(0, 0, 2).Format("2006-01-02"),
		SignificantEvents: SignificantEvents{Occurrence: []Occurrence{
			{
				EventIdentifier:  "0174",
				EventDate:        now.Format("2006-01-02"),
				EventTime:        "09:15:00",
				EventDescription: "Item in transit",
				EventSite:        "MISSISSAUGA",
				EventProvince:    "ON",
			},
			{
				EventIdentifier:  "0100",
				EventDate:        now.AddDate(0, 0, -1).Format("2006-01-02"),
				EventTime:        "16:42:00",
				EventDescription: "Item accepted at the Post Office",
				EventSite:        "TORONTO",
				EventProvince:    "ON",
			},
		}},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
