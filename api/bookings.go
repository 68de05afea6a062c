package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type BookingHandler struct {
	service booking.BookingUseCase
}

type createReservationRequest struct {
	RoomID    string `json:"roomId" binding:"required"`
	Type      string `json:"type" binding:"required"`
	CheckIn   string `json:"checkIn" binding:"required"`
	CheckOut  string `json:"checkOut" binding:"required"`
	Guests    int    `json:"guests" binding:"required"`
	Breakfast bool   `json:"breakfast"`
}

type reservationResponse struct {
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	Type       string `json:"type"`
	Guests     int    `json:"guests"`
	Breakfast  bool   `json:"breakfast"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	TotalCents int64  `json:"totalPrice"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

type createReservationResponse struct {
	Created     bool                `json:"created"`
	Reservation reservationResponse `json:"reservation"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/reservations", h.create)
	router.GET("/reservations/:id", h.get)
}

func (h *BookingHandler) create(c *gin.Context) {
	key := c.GetHeader(IdempotencyKeyHeader)
	if key == "" {
		badRequest(c, IdempotencyKeyHeader+" header is required")
		return
	}

	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rt, err := domain.ParseRoomType(req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	in, err := domain.ParseDay(req.CheckIn)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := domain.ParseDay(req.CheckOut)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.service.CreateReservation(c.Request.Context(), booking.CreateReservationInput{
		RoomID:         req.RoomID,
		Type:           rt,
		CheckIn:        in,
		CheckOut:       out,
		Guests:         req.Guests,
		Breakfast:      req.Breakfast,
		IdempotencyKey: key,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	c.JSON(status, createReservationResponse{
		Created:     result.Created,
		Reservation: toReservationResponse(result.Reservation),
	})
}

func (h *BookingHandler) get(c *gin.Context) {
	res, err := h.service.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(res))
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:         r.ID,
		RoomID:     r.RoomID,
		Type:       string(r.Type),
		Guests:     r.Guests,
		Breakfast:  r.Breakfast,
		CheckIn:    r.CheckIn.Format(domain.DateLayout),
		CheckOut:   r.CheckOut.Format(domain.DateLayout),
		TotalCents: r.TotalCents,
		Currency:   domain.CurrencyUSD,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}
