package carrier_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/parcelbridge/parcelbridge/pkg/carrier/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDoer captures requests and serves canned responses.
type recordingDoer struct {
	requests []*http.Request
	status   int
	body     string
	err      error
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.requests = append(d.requests, req)
	if d.err != nil {
		return nil, d.err
	}
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func TestTransport_Dispatch(t *testing.T) {
	doer := &recordingDoer{body: `{"ok":true}`}
	transport := &carrier.Transport{
		Carrier: "test",
		BaseURL: "https://api.example.com/",
		Auth:    &auth.StaticKey{Header: "AUTH-KEY", Key: "k123"},
		Headers: map[string]string{"transactionSrc": "parcelbridge"},
		Client:  doer,
	}

	resp, err := transport.Dispatch(context.Background(), http.MethodPost, "v1/rates", "application/json", []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := resp.JSON()
	require.NoError(t, err)
	assert.True(t, data.GetBool("ok"))

	require.Len(t, doer.requests, 1)
	req := doer.requests[0]
	assert.Equal(t, "https://api.example.com/v1/rates", req.URL.String())
	assert.Equal(t, "k123", req.Header.Get("AUTH-KEY"))
	assert.Equal(t, "parcelbridge", req.Header.Get("transactionSrc"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestTransport_Dispatch_AbsoluteEndpoint(t *testing.T) {
	doer := &recordingDoer{body: "label-bytes"}
	transport := &carrier.Transport{
		Carrier: "test",
		BaseURL: "https://api.example.com/",
		Client:  doer,
	}

	_, err := transport.Dispatch(context.Background(), http.MethodGet, "https://artifacts.example.com/label/1", "application/pdf", nil)

	require.NoError(t, err)
	require.Len(t, doer.requests, 1)
	assert.Equal(t, "https://artifacts.example.com/label/1", doer.requests[0].URL.String())
}

func TestTransport_Dispatch_NonSuccessStatus(t *testing.T) {
	doer := &recordingDoer{status: http.StatusUnauthorized, body: "bad credentials"}
	transport := &carrier.Transport{Carrier: "test", BaseURL: "https://api.example.com/", Client: doer}

	_, err := transport.Dispatch(context.Background(), http.MethodGet, "v1/rates", "application/json", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, carrier.ErrDispatchFailed))

	var dispatchErr *carrier.DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, http.StatusUnauthorized, dispatchErr.StatusCode)
	assert.Equal(t, "bad credentials", dispatchErr.Message)
}

func TestTransport_Dispatch_ConnectionError(t *testing.T) {
	cause := errors.New("connection refused")
	doer := &recordingDoer{err: cause}
	transport := &carrier.Transport{Carrier: "test", BaseURL: "https://api.example.com/", Client: doer}

	_, err := transport.Dispatch(context.Background(), http.MethodGet, "v1/rates", "application/json", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, carrier.ErrDispatchFailed))
	assert.True(t, errors.Is(err, cause))
}

func TestTransport_Dispatch_TruncatesLongErrorBody(t *testing.T) {
	doer := &recordingDoer{status: http.StatusInternalServerError, body: strings.Repeat("x", 2000)}
	transport := &carrier.Transport{Carrier: "test", BaseURL: "https://api.example.com/", Client: doer}

	_, err := transport.Dispatch(context.Background(), http.MethodGet, "v1/rates", "application/json", nil)

	var dispatchErr *carrier.DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Len(t, dispatchErr.Message, 512)
}
