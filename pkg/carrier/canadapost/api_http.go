package canadapost

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/auth"
)

const (
	productionBaseURL = "https://soa-gw.canadapost.ca"
	testingBaseURL    = "https://ct.soa-gw.canadapost.ca"

	rateContentType     = "application/vnd.cpc.ship.rate-v4+xml"
	shipmentContentType = "application/vnd.cpc.shipment-v8+xml"
	trackContentType    = "application/vnd.cpc.track-v2+xml"
)

// HTTPAPIClient is the production implementation of APIClient over the
// Canada Post XML API with Basic authentication.
type HTTPAPIClient struct {
	transport      *carrier.Transport
	customerNumber string
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL        string
	APIKey         string
	APISecret      string
	CustomerNumber string
	Timeout        time.Duration
	Client         carrier.HTTPDoer
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = productionBaseURL
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPAPIClient{
		customerNumber: cfg.CustomerNumber,
		transport: &carrier.Transport{
			Carrier: carrierName,
			BaseURL: baseURL,
			Auth:    &auth.Basic{Username: cfg.APIKey, Password: cfg.APISecret},
			Headers: map[string]string{
				"Accept-Language": "en-CA",
			},
			Client: client,
		},
	}
}

// Rates fetches price quotes for a mailing scenario.
func (c *HTTPAPIClient) Rates(ctx context.Context, scenario *MailingScenario) (*PriceQuotes, error) {
	body, err := xml.Marshal(scenario)
	if err != nil {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: "/rs/ship/price", Message: "encoding request", Cause: err}
	}

	resp, err := c.transport.Dispatch(ctx, http.MethodPost, "/rs/ship/price", rateContentType, body)
	if err != nil {
		return nil, err
	}

	var quotes PriceQuotes
	if err := resp.XML(&quotes); err != nil {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: "/rs/ship/price", Message: "decoding response", Cause: err}
	}
	return &quotes, nil
}

// CreateShipment creates a shipment order.
func (c *HTTPAPIClient) CreateShipment(ctx context.Context, shipment *ShipmentInfo) (*ShipmentReceipt, error) {
	endpoint := fmt.Sprintf("/rs/%s/%s/shipment", c.customerNumber, c.customerNumber)

	body, err := xml.Marshal(shipment)
	if err != nil {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: endpoint, Message: "encoding request", Cause: err}
	}

	resp, err := c.transport.Dispatch(ctx, http.MethodPost, endpoint, shipmentContentType, body)
	if err != nil {
		return nil, err
	}

	var receipt ShipmentReceipt
	if err := resp.XML(&receipt); err != nil {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: endpoint, Message: "decoding response", Cause: err}
	}
	return &receipt, nil
}

// Artifact downloads a label artifact by its hypermedia href.
func (c *HTTPAPIClient) Artifact(ctx context.Context, href, mediaType string) ([]byte, error) {
	if mediaType == "" {
		mediaType = "application/pdf"
	}

	resp, err := c.transport.Dispatch(ctx, http.MethodGet, href, mediaType, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Track retrieves the tracking detail for a PIN.
func (c *HTTPAPIClient) Track(ctx context.Context, pin string) (*TrackingDetail, error) {
	endpoint := fmt.Sprintf("/vis/track/pin/%s/detail", pin)

	resp, err := c.transport.Dispatch(ctx, http.MethodGet, endpoint, trackContentType, nil)
	if err != nil {
		return nil, err
	}

	var detail TrackingDetail
	if err := resp.XML(&detail); err != nil {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: endpoint, Message: "decoding response", Cause: err}
	}
	return &detail, nil
}

var _ APIClient = (*HTTPAPIClient)(nil)
