// Package server exposes the carrier registry over a JSON HTTP API.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/parcelbridge/parcelbridge/internal/telemetry"
	"github.com/parcelbridge/parcelbridge/pkg/carrier"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the shipping service.
type Server struct {
	port     int
	registry *carrier.Registry
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, registry *carrier.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:     cfg.Port,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/carriers", s.handleCarriers)
	mux.HandleFunc("POST /v1/rates", s.handleRates)
	mux.HandleFunc("POST /v1/labels", s.handleLabels)
	mux.HandleFunc("POST /v1/tracking", s.handleTracking)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	carriers := make([]carrierInfo, 0, s.registry.Count())
	for _, c := range s.registry.All() {
		carriers = append(carriers, carrierInfo{
			Name:         c.Name(),
			ServiceCodes: c.ServiceCodes(),
		})
	}
	writeJSON(w, http.StatusOK, carriersResponse{Carriers: carriers})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ratesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	shipment := req.Shipment.toModel()
	if err := shipment.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	// No carrier selects the fan-out across all registered adapters.
	if req.Carrier == "" {
		responses, errs := s.registry.GetAllRates(ctx, shipment)

		resp := ratesResponse{Rates: []rateDTO{}}
		for _, rr := range responses {
			resp.Rates = append(resp.Rates, s.rateDTOs(rr.Rates)...)
		}
		for _, err := range errs {
			resp.Errors = append(resp.Errors, err.Error())
		}

		s.metrics.RecordRequest("rates", "all", "ok", time.Since(start).Seconds())
		writeJSON(w, http.StatusOK, resp)
		return
	}

	c, err := s.registry.Get(req.Carrier)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	rr, err := c.GetRates(ctx, shipment)
	if err != nil {
		s.writeCarrierError(w, "rates", req.Carrier, err)
		return
	}

	s.metrics.RecordRequest("rates", req.Carrier, "ok", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, ratesResponse{Rates: s.rateDTOs(rr.Rates)})
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req labelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	shipment := req.Shipment.toModel()
	if err := shipment.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Rate.ServiceCode == "" {
		writeError(w, http.StatusBadRequest, "rate.serviceCode is required")
		return
	}

	c, err := s.registry.Get(req.Carrier)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	rate := &carrier.Rate{
		ServiceCode: req.Rate.ServiceCode,
		ServiceName: req.Rate.ServiceName,
	}

	lr, err := c.GetLabels(r.Context(), shipment, rate, carrier.LabelOptions{ImageFormat: req.ImageFormat})
	if err != nil {
		s.writeCarrierError(w, "labels", req.Carrier, err)
		return
	}

	resp := labelsResponse{Labels: make([]labelDTO, 0, len(lr.Labels))}
	for _, label := range lr.Labels {
		dto := labelDTO{
			Carrier:        req.Carrier,
			TrackingNumber: label.TrackingNumber,
			LabelID:        label.LabelID,
			LabelMIME:      label.LabelMIME,
		}
		if label.TrackingNumber != "" {
			dto.TrackingURL = c.TrackingURL(label.TrackingNumber)
		}
		if len(label.LabelData) > 0 {
			dto.LabelData = base64.StdEncoding.EncodeToString(label.LabelData)
		}
		resp.Labels = append(resp.Labels, dto)
	}

	s.metrics.RecordRequest("labels", req.Carrier, "ok", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req trackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.TrackingNumbers) == 0 {
		writeError(w, http.StatusBadRequest, "trackingNumbers is required")
		return
	}

	c, err := s.registry.Get(req.Carrier)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	tr, err := c.GetTrackingStatus(r.Context(), req.TrackingNumbers, carrier.TrackingOptions{Locale: req.Locale})
	if err != nil {
		s.writeCarrierError(w, "tracking", req.Carrier, err)
		return
	}

	resp := trackingResponse{Tracking: make([]trackingDTO, 0, len(tr.Tracking))}
	for _, track := range tr.Tracking {
		dto := trackingDTO{
			Carrier:           req.Carrier,
			TrackingNumber:    track.TrackingNumber,
			TrackingURL:       c.TrackingURL(track.TrackingNumber),
			Status:            string(track.Status),
			StatusDetail:      track.StatusDetail,
			EstimatedDelivery: track.EstimatedDelivery,
			SignedBy:          track.SignedBy,
			Weight:            track.Weight,
			WeightUnit:        track.WeightUnit,
		}
		for _, detail := range track.Details {
			dto.Details = append(dto.Details, trackingDetailDTO{
				Location:    detail.Location,
				Description: detail.Description,
				Date:        detail.Date,
				Status:      string(detail.Status),
			})
		}
		resp.Tracking = append(resp.Tracking, dto)
	}

	s.metrics.RecordRequest("tracking", req.Carrier, "ok", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, resp)
}

// rateDTOs converts normalized rates, counting unparseable prices as
// normalization gaps.
func (s *Server) rateDTOs(rates []carrier.Rate) []rateDTO {
	result := make([]rateDTO, 0, len(rates))
	for _, rate := range rates {
		name := ""
		if rate.Carrier != nil {
			name = rate.Carrier.Name()
		}
		if rate.Rate == nil {
			s.metrics.RecordNormalizationGap(name, "unparseable_rate")
		}
		result = append(result, rateDTO{
			Carrier:                name,
			ServiceName:            rate.ServiceName,
			ServiceCode:            rate.ServiceCode,
			Rate:                   rate.Rate,
			Currency:               rate.Currency,
			DeliveryDays:           rate.DeliveryDays,
			DeliveryDateGuaranteed: rate.DeliveryDateGuaranteed,
		})
	}
	return result
}

func (s *Server) writeCarrierError(w http.ResponseWriter, operation, carrierName string, err error) {
	status := http.StatusInternalServerError
	errorType := "internal"

	switch {
	case errors.Is(err, carrier.ErrMissingCredentials):
		status = http.StatusUnprocessableEntity
		errorType = "config"
	case errors.Is(err, carrier.ErrDispatchFailed):
		status = http.StatusBadGateway
		errorType = "dispatch"
	case errors.Is(err, carrier.ErrShipmentInvalid):
		status = http.StatusBadRequest
		errorType = "validation"
	}

	s.logger.Error("Carrier operation failed",
		zap.String("operation", operation),
		zap.String("carrier", carrierName),
		zap.Error(err),
	)
	s.metrics.RecordError(carrierName, errorType)
	s.metrics.RecordRequest(operation, carrierName, "error", 0)

	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
