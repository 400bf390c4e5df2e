package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"taxihub/internal/adapter/http/handler/dto"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
)

type Booking struct {
	flow      BookingFlow
	lifecycle Lifecycle
	locations Locations
	ratings   Ratings
	chat      ChatLog
	history   History

	l logger.Logger
}

func NewBooking(flow BookingFlow, lifecycle Lifecycle, locations Locations, ratings Ratings, chat ChatLog, history History, l logger.Logger) *Booking {
	return &Booking{
		flow:      flow,
		lifecycle: lifecycle,
		locations: locations,
		ratings:   ratings,
		chat:      chat,
		history:   history,
		l:         l,
	}
}

// Create godoc
//
//	@Summary	Create a new booking
//	@Tags		bookings
//	@Accept		json
//	@Produce	json
//	@Param		input	body		dto.CreateBookingRequest	true	"booking request"
//	@Success	201		{object}	dto.CreateBookingResponse
//	@Router		/bookings [post]
func (h *Booking) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_create_booking")

	var req dto.CreateBookingRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, ctx, err)
		return
	}

	bookingID, err := h.flow.RequestBooking(ctx, req.CustomerID, req.Origin.Model(), req.Destination.Model(), req.TravelTimeMin)
	if err != nil {
		h.fail(w, ctx, err)
		return
	}

	snap, err := h.locations.GetSnapshot(ctx, bookingID)
	if err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{"booking": dto.CreateBookingResponse{
		BookingID:     snap.BookingID,
		BookingNumber: snap.BookingNumber,
		Status:        snap.Status.String(),
	}}, nil)
}

// Get godoc
//
//	@Summary	Get booking snapshot
//	@Tags		bookings
//	@Produce	json
//	@Param		booking_id	path	string	true	"booking id"
//	@Success	200
//	@Router		/bookings/{booking_id} [get]
func (h *Booking) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_get_booking")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	snap, err := h.locations.GetSnapshot(ctx, bookingID)
	if err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"booking": snap}, nil)
}

// Assign godoc
//
//	@Summary	Assign a driver to a booking
//	@Tags		bookings
//	@Accept		json
//	@Param		booking_id	path	string					true	"booking id"
//	@Param		input		body	dto.AssignDriverRequest	true	"driver"
//	@Success	200
//	@Router		/bookings/{booking_id}/assign [post]
func (h *Booking) Assign(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_assign_driver")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.AssignDriverRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.flow.Assign(ctx, bookingID, req.DriverID); err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"message": "driver assigned"}, nil)
}

// Start godoc
//
//	@Summary	Start the trip
//	@Tags		bookings
//	@Param		booking_id	path	string	true	"booking id"
//	@Success	200
//	@Router		/bookings/{booking_id}/start [post]
func (h *Booking) Start(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_start_trip")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.lifecycle.StartTrip(ctx, bookingID); err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"message": "trip started"}, nil)
}

// Complete godoc
//
//	@Summary	Complete the trip
//	@Tags		bookings
//	@Param		booking_id	path	string	true	"booking id"
//	@Success	200
//	@Router		/bookings/{booking_id}/complete [post]
func (h *Booking) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_complete_trip")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.lifecycle.CompleteTrip(ctx, bookingID); err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"message": "trip completed"}, nil)
}

// Cancel godoc
//
//	@Summary	Cancel a booking
//	@Tags		bookings
//	@Accept		json
//	@Param		booking_id	path	string						true	"booking id"
//	@Param		input		body	dto.CancelBookingRequest	false	"reason"
//	@Success	200
//	@Router		/bookings/{booking_id}/cancel [post]
func (h *Booking) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_cancel_booking")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.CancelBookingRequest
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &req); err != nil {
			badRequestResponse(w, err.Error())
			return
		}
	}

	if err := h.lifecycle.Cancel(ctx, bookingID, req.Reason); err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"message": "booking cancelled"}, nil)
}

// UpdateLocation godoc
//
//	@Summary	Update the current coordinate
//	@Tags		bookings
//	@Accept		json
//	@Param		booking_id	path	string						true	"booking id"
//	@Param		input		body	dto.UpdateLocationRequest	true	"coordinate"
//	@Success	200
//	@Router		/bookings/{booking_id}/location [post]
func (h *Booking) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_update_location")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.UpdateLocationRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, ctx, err)
		return
	}

	if err := h.locations.UpdateCurrent(ctx, bookingID, req.Location.Model()); err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"message": "location updated"}, nil)
}

// Watch godoc
//
//	@Summary	Subscribe an operator to booking events
//	@Tags		bookings
//	@Accept		json
//	@Param		booking_id	path	string				true	"booking id"
//	@Param		input		body	dto.WatchRequest	true	"operator"
//	@Success	200
//	@Router		/bookings/{booking_id}/watch [post]
func (h *Booking) Watch(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_watch_booking")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.WatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.flow.Watch(ctx, bookingID, req.OperatorID); err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"message": "watching"}, nil)
}

// SubmitRating godoc
//
//	@Summary	Submit post-trip feedback
//	@Tags		bookings
//	@Accept		json
//	@Param		booking_id	path	string					true	"booking id"
//	@Param		input		body	dto.SubmitRatingRequest	true	"rating"
//	@Success	200
//	@Router		/bookings/{booking_id}/rating [post]
func (h *Booking) SubmitRating(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_submit_rating")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.SubmitRatingRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.ratings.Submit(ctx, bookingID, req.Points, req.Feedback); err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"message": "rating submitted"}, nil)
}

// PostChatMessage godoc
//
//	@Summary	Append a chat message to a booking
//	@Tags		bookings
//	@Accept		json
//	@Param		booking_id	path	string					true	"booking id"
//	@Param		input		body	dto.ChatMessageRequest	true	"message"
//	@Success	201
//	@Router		/bookings/{booking_id}/chat [post]
func (h *Booking) PostChatMessage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_post_chat_message")

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.ChatMessageRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	msg, err := h.chat.Append(bookingID, req.SenderID, req.Text)
	if err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{"message": msg}, nil)
}

// GetChatHistory godoc
//
//	@Summary	Get the chat history of a booking
//	@Tags		bookings
//	@Produce	json
//	@Param		booking_id	path	string	true	"booking id"
//	@Success	200
//	@Router		/bookings/{booking_id}/chat [get]
func (h *Booking) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"messages": h.chat.History(bookingID)}, nil)
}

// GetHistory godoc
//
//	@Summary	Get the journaled event trail of a booking
//	@Tags		bookings
//	@Produce	json
//	@Param		booking_id	path	string	true	"booking id"
//	@Success	200
//	@Router		/bookings/{booking_id}/history [get]
func (h *Booking) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_get_history")

	if h.history == nil {
		errorResponse(w, http.StatusServiceUnavailable, "history is not available without a database")
		return
	}

	bookingID, err := pathID(r, "booking_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	trail, err := h.history.Trail(ctx, bookingID)
	if err != nil {
		h.fail(w, ctx, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"events": trail}, nil)
}

// fail maps a domain error to its HTTP status and logs it once.
func (h *Booking) fail(w http.ResponseWriter, ctx context.Context, err error) {
	code := GetCode(err)
	if code == http.StatusInternalServerError {
		h.l.Error(wrap.ErrorCtx(ctx, err), "request failed", err)
	}
	errorResponse(w, code, err.Error())
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}
