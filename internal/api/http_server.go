package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"homeserv/internal/config"
	"homeserv/internal/export"
	"homeserv/internal/metrics"
	"homeserv/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the booking API.
type HTTPServer struct {
	cfg      config.Config
	bookings *service.BookingService
	rentals  *service.RentalService
	exporter *export.Exporter
	logger   *zerolog.Logger
	server   *http.Server
	limiter  *rateLimiter
}

func NewHTTPServer(
	cfg config.Config,
	bookings *service.BookingService,
	rentals *service.RentalService,
	exporter *export.Exporter,
	stream http.Handler,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		rentals:  rentals,
		exporter: exporter,
		logger:   logger,
		limiter:  newRateLimiter(cfg.HTTP.RateLimit),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/service-bookings", srv.handleCreateServiceBooking)
	mux.HandleFunc("GET /api/v1/service-bookings", srv.handleListServiceBookings)
	mux.HandleFunc("PATCH /api/v1/service-bookings/{id}/status", srv.handleServiceBookingStatus)
	mux.HandleFunc("POST /api/v1/service-bookings/{id}/pay", srv.handleServiceBookingPay)
	mux.HandleFunc("DELETE /api/v1/service-bookings/{id}", srv.handleDeleteServiceBooking)
	mux.HandleFunc("GET /api/v1/providers/{id}/bookings", srv.handleProviderBookings)
	mux.HandleFunc("GET /api/v1/customers/{id}/bookings", srv.handleCustomerBookings)

	mux.HandleFunc("POST /api/v1/providers/{id}/unavailable-dates", srv.handleBlockDate)
	mux.HandleFunc("GET /api/v1/providers/{id}/unavailable-dates", srv.handleListBlockedDates)
	mux.HandleFunc("DELETE /api/v1/unavailable-dates/{id}", srv.handleUnblockDate)

	mux.HandleFunc("POST /api/v1/rental-bookings", srv.handleCreateRentalBooking)
	mux.HandleFunc("GET /api/v1/rental-bookings", srv.handleListRentalBookings)
	mux.HandleFunc("GET /api/v1/rental-bookings/export", srv.handleExportRentalBookings)
	mux.HandleFunc("GET /api/v1/rental-bookings/{id}", srv.handleGetRentalBooking)
	mux.HandleFunc("PATCH /api/v1/rental-bookings/{id}/owner-status", srv.handleRentalOwnerStatus)
	mux.HandleFunc("PATCH /api/v1/rental-bookings/{id}/status", srv.handleRentalAdminStatus)
	mux.HandleFunc("POST /api/v1/rental-bookings/{id}/pay", srv.handleRentalPay)
	mux.HandleFunc("DELETE /api/v1/rental-bookings/{id}", srv.handleDeleteRentalBooking)
	mux.HandleFunc("GET /api/v1/renters/{id}/bookings", srv.handleRenterBookings)
	mux.HandleFunc("GET /api/v1/owners/{id}/bookings", srv.handleOwnerBookings)

	if stream != nil {
		mux.Handle("GET /ws", stream)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handler := srv.loggingMiddleware(srv.limiter.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("http api listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the configured handler; used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
