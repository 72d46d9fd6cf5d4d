package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"homeserv/internal/database"
	"homeserv/internal/service"
)

const maxDocumentSize = 10 << 20

func jsonDecode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// writeServiceError maps core errors onto HTTP statuses. Conflicts carry the
// holder booking so clients can show what is in the way.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var (
		verr     *service.ValidationError
		ferr     *service.ForbiddenError
		terr     *service.TransitionError
		serr     *service.InvalidStateError
		conflict *database.ConflictError
	)

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.As(err, &ferr):
		writeError(w, http.StatusForbidden, ferr.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":         err.Error(),
			"conflict_with": conflict,
		})
	case errors.As(err, &terr):
		writeError(w, http.StatusConflict, terr.Error())
	case errors.As(err, &serr):
		writeError(w, http.StatusConflict, serr.Error())
	case errors.Is(err, database.ErrDuplicateDate),
		errors.Is(err, database.ErrDateUnavailable),
		errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := jsonDecode(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// --- Service bookings ---

func (s *HTTPServer) handleCreateServiceBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProviderID    int64   `json:"provider_id"`
		CustomerName  string  `json:"customer_name"`
		CustomerPhone string  `json:"customer_phone"`
		Date          string  `json:"date"`
		Address       string  `json:"address"`
		Lat           float64 `json:"lat"`
		Lng           float64 `json:"lng"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	actor := s.actorFrom(r)
	booking, err := s.bookings.CreateBooking(r.Context(), service.CreateBookingRequest{
		CustomerID:    actor.ID,
		CustomerName:  body.CustomerName,
		CustomerPhone: body.CustomerPhone,
		ProviderID:    body.ProviderID,
		Date:          body.Date,
		Address:       body.Address,
		Lat:           body.Lat,
		Lng:           body.Lng,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleListServiceBookings(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	bookings, err := s.bookings.AllBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleServiceBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	booking, err := s.bookings.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleServiceBookingPay(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.MarkPaid(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleDeleteServiceBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.bookings.Delete(r.Context(), s.actorFrom(r), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *HTTPServer) handleProviderBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookings, err := s.bookings.ProviderBookings(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleCustomerBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookings, err := s.bookings.CustomerBookings(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// --- Unavailable dates ---

func (s *HTTPServer) handleBlockDate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	blocked, err := s.bookings.BlockDate(r.Context(), s.actorFrom(r), id, body.Date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, blocked)
}

func (s *HTTPServer) handleListBlockedDates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dates, err := s.bookings.BlockedDates(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"unavailable_dates": dates})
}

func (s *HTTPServer) handleUnblockDate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.bookings.UnblockDate(r.Context(), s.actorFrom(r), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// --- Rental bookings ---

func (s *HTTPServer) handleCreateRentalBooking(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}

	req := service.CreateRentalRequest{
		FullName:  r.FormValue("full_name"),
		Phone:     r.FormValue("phone"),
		Email:     r.FormValue("email"),
		Notes:     r.FormValue("notes"),
		StartDate: r.FormValue("start_date"),
		EndDate:   r.FormValue("end_date"),
	}
	req.PropertyID, _ = strconv.ParseInt(r.FormValue("property_id"), 10, 64)
	req.Guests, _ = strconv.Atoi(r.FormValue("guests"))
	req.RenterID = s.actorFrom(r).ID

	file, header, err := r.FormFile("document")
	if err == nil {
		defer file.Close()
		req.Document = file
		req.Filename = header.Filename
	}

	booking, err := s.rentals.CreateBooking(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleListRentalBookings(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	bookings, err := s.rentals.AllBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleGetRentalBooking(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	booking, err := s.rentals.GetBooking(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleRentalOwnerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	booking, err := s.rentals.OwnerUpdateStatus(r.Context(), s.actorFrom(r), id, body.Status, body.Note)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleRentalAdminStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var body struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	booking, err := s.rentals.AdminUpdateStatus(r.Context(), actor, id, body.Status, body.Note)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleRentalPay(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.rentals.MarkPaid(r.Context(), actor, id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleDeleteRentalBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.rentals.Delete(r.Context(), s.actorFrom(r), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *HTTPServer) handleRenterBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := s.rentals.RenterBookings(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": views})
}

func (s *HTTPServer) handleOwnerBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := s.rentals.OwnerBookings(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": views})
}

func (s *HTTPServer) handleExportRentalBookings(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusNotFound, "exports disabled")
		return
	}

	start, end, err := exportPeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="rental-bookings.xlsx"`)
	if err := s.exporter.WriteRentalReport(r.Context(), w, start, end); err != nil {
		s.logger.Error().Err(err).Msg("export failed")
	}
}

func exportPeriod(r *http.Request) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now()
	start := now.AddDate(0, -1, 0)
	end := now.AddDate(0, 1, 0)

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start; expected YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end; expected YYYY-MM-DD")
		}
		end = parsed
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start must be before end")
	}
	return start, end, nil
}
