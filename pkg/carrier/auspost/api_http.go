package auspost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/auth"
)

const productionBaseURL = "https://digitalapi.auspost.com.au/"

const (
	domesticServiceEndpoint      = "postage/parcel/domestic/service.json"
	internationalServiceEndpoint = "postage/parcel/international/service.json"
	shipmentsEndpoint            = "shipping/v1/shipments"
	labelsEndpoint               = "shipping/v1/labels"
	trackEndpoint                = "shipping/v1/track"
)

// HTTPAPIClient is the production implementation of APIClient. All
// requests carry the account API key in the AUTH-KEY header.
type HTTPAPIClient struct {
	transport *carrier.Transport
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL       string
	APIKey        string
	AccountNumber string
	Timeout       time.Duration
	Client        carrier.HTTPDoer
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

	headers := map[string]string{}
	if cfg.AccountNumber != "" {
		headers["Account-Number"] = cfg.AccountNumber
	}

	return &HTTPAPIClient{
		transport: &carrier.Transport{
			Carrier: carrierName,
			BaseURL: baseURL,
			Auth:    &auth.StaticKey{Header: "AUTH-KEY", Key: cfg.APIKey},
			Headers: headers,
			Client:  client,
		},
	}
}

// Rates queries the postage calculator service listing.
func (c *HTTPAPIClient) Rates(ctx context.Context, domestic bool, query url.Values) (carrier.Payload, error) {
	endpoint := internationalServiceEndpoint
	if domestic {
		endpoint = domesticServiceEndpoint
	}
	endpoint += "?" + query.Encode()

	resp, err := c.transport.Dispatch(ctx, http.MethodGet, endpoint, "application/json", nil)
	if err != nil {
		return nil, err
	}
	return c.decode(resp, endpoint)
}

// CreateShipment creates a shipment order.
func (c *HTTPAPIClient) CreateShipment(ctx context.Context, payload carrier.Payload) (carrier.Payload, error) {
	return c.post(ctx, shipmentsEndpoint, payload)
}

// Labels requests label generation for created shipments.
func (c *HTTPAPIClient) Labels(ctx context.Context, payload carrier.Payload) (carrier.Payload, error) {
	return c.post(ctx, labelsEndpoint, payload)
}

// DownloadLabel fetches rendered label data by URL.
func (c *HTTPAPIClient) DownloadLabel(ctx context.Context, labelURL string) ([]byte, error) {
	resp, err := c.transport.Dispatch(ctx, http.MethodGet, labelURL, "application/pdf", nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Track retrieves tracking results for a consignment.
func (c *HTTPAPIClient) Track(ctx context.Context, trackingID string) (carrier.Payload, error) {
	endpoint := trackEndpoint + "?tracking_ids=" + url.QueryEscape(trackingID)

	resp, err := c.transport.Dispatch(ctx, http.MethodGet, endpoint, "application/json", nil)
	if err != nil {
		return nil, err
	}
	return c.decode(resp, endpoint)
}

func (c *HTTPAPIClient) post(ctx context.Context, endpoint string, payload carrier.Payload) (carrier.Payload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: endpoint, Message: "encoding request", Cause: err}
	}

	resp, err := c.transport.Dispatch(ctx, http.MethodPost, endpoint, "application/json", body)
	if err != nil {
		return nil, err
	}
	return c.decode(resp, endpoint)
}

func (c *HTTPAPIClient) decode(resp *carrier.Response, endpoint string) (carrier.Payload, error) {
	data, err := resp.JSON()
	if err != nil {
		return nil, &carrier.DispatchError{Carrier: carrierName, Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "decoding response", Cause: err}
	}
	return data, nil
}

var _ APIClient = (*HTTPAPIClient)(nil)
