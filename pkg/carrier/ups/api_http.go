package ups

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/auth"
)

// Production and CIE (customer integration environment) endpoints.
const (
	productionBaseURL = "https://onlinetools.ups.com/"
	testingBaseURL    = "https://wwwcie.ups.com/"
)

// HTTPAPIClient is the production implementation of APIClient. UPS
// authenticates with an OAuth2 client-credentials exchange; the bearer
// token is cached by the auth strategy and refreshed near expiry.
type HTTPAPIClient struct {
	transport *carrier.Transport
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Version      string // reported in the transactionSrc header
	Timeout      time.Duration
	Client       carrier.HTTPDoer // overrides the default http.Client
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = productionBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	strategy := &auth.ClientCredentials{
		TokenURL:     baseURL + "security/v1/oauth/token",
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		// UPS requires the merchant id alongside basic auth on the
		// token endpoint.
		ExtraHeaders: map[string]string{"x-merchant-id": cfg.ClientID},
		Client:       client,
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &HTTPAPIClient{
		transport: &carrier.Transport{
			Carrier: carrierName,
			BaseURL: baseURL,
			Auth:    strategy,
			Headers: map[string]string{
				"transId":        uuid.New().String(),
				"transactionSrc": "parcelbridge " + version,
			},
			Client: client,
		},
	}
}

// Rates submits a rating request.
func (c *HTTPAPIClient) Rates(ctx context.Context, payload carrier.Payload) (carrier.Payload, error) {
	return c.post(ctx, "api/rating/v1/Shop", payload)
}

// Ship purchases a label.
func (c *HTTPAPIClient) Ship(ctx context.Context, payload carrier.Payload) (carrier.Payload, error) {
	return c.post(ctx, "api/shipments/v1/ship", payload)
}

// Track fetches tracking details for one tracking number.
func (c *HTTPAPIClient) Track(ctx context.Context, trackingNumber string) (carrier.Payload, error) {
	resp, err := c.transport.Dispatch(ctx, http.MethodGet, "api/track/v1/details/"+trackingNumber, "application/json", nil)
	if err != nil {
		return nil, err
	}
	return c.decode(resp, "api/track/v1/details/"+trackingNumber)
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
	tree, err := resp.JSON()
	if err != nil {
		return nil, &carrier.DispatchError{
			Carrier:    carrierName,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    "decoding response",
			Cause:      err,
		}
	}
	return tree, nil
}

var _ APIClient = (*HTTPAPIClient)(nil)
