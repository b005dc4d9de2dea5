package ups

import (
	"context"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
)

// APIClient defines the interface for UPS API operations. The
// abstraction allows mock implementations during testing and the real
// OAuth2/HTTP implementation in production. Requests and responses are
// untyped payload trees: the UPS wire format is an external contract
// that must be matched field-for-field, and response shapes are walked
// defensively during normalization.
type APIClient interface {
	// Rates submits a rating request (POST api/rating/v1/Shop).
	Rates(ctx context.Context, payload carrier.Payload) (carrier.Payload, error)

	// Ship purchases a label (POST api/shipments/v1/ship).
	Ship(ctx context.Context, payload carrier.Payload) (carrier.Payload, error)

	// Track fetches tracking details for one tracking number
	// (GET api/track/v1/details/{trackingNumber}).
	Track(ctx context.Context, trackingNumber string) (carrier.Payload, error)
}
