// Package auspost provides integration with the Australia Post APIs:
// the postage calculator for rating and the shipping API for labels and
// tracking, normalized into the shared carrier contract.
package auspost

import (
	"context"
	"net/url"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
)

// APIClient defines the interface for Australia Post API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// Rates queries the postage calculator service listing. The
	// domestic flag selects the domestic or international endpoint.
	Rates(ctx context.Context, domestic bool, query url.Values) (carrier.Payload, error)

	// CreateShipment creates a shipment order
	CreateShipment(ctx context.Context, payload carrier.Payload) (carrier.Payload, error)

	// Labels requests label generation for created shipments
	Labels(ctx context.Context, payload carrier.Payload) (carrier.Payload, error)

	// DownloadLabel fetches rendered label data by URL
	DownloadLabel(ctx context.Context, labelURL string) ([]byte, error)

	// Track retrieves tracking results for a consignment
	Track(ctx context.Context, trackingID string) (carrier.Payload, error)
}
